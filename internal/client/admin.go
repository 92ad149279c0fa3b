package client

import (
	"context"
	"net/http"

	"github.com/bally3399/chord001-monograms/internal/domain"
)

const adminSessionHeader = "X-Admin-Session"

// DesignInput is the admin create/update payload.
type DesignInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url"`
	Price       *int64 `json:"price,omitempty"`
	Category    string `json:"category,omitempty"`
	IsFeatured  bool   `json:"is_featured"`
}

// AdminLogin exchanges the admin password for a session token.
func (c *Client) AdminLogin(ctx context.Context, password string) (string, error) {
	body := struct {
		Password string `json:"password"`
	}{password}

	var out struct {
		Token string `json:"token"`
	}
	if err := c.call(ctx, http.MethodPost, "/admin/sessions", body, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// AdminLogout revokes session.
func (c *Client) AdminLogout(ctx context.Context, session string) error {
	return c.admin(ctx, session, http.MethodDelete, "/admin/sessions", nil, nil)
}

// CreateDesign adds a design to the catalog.
func (c *Client) CreateDesign(ctx context.Context, session string, in DesignInput) (*domain.Design, error) {
	var d domain.Design
	if err := c.admin(ctx, session, http.MethodPost, "/admin/designs", in, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// SetFeatured flips a design's featured flag and returns the server's message.
func (c *Client) SetFeatured(ctx context.Context, session, id string, featured bool) (string, error) {
	body := struct {
		IsFeatured bool `json:"is_featured"`
	}{featured}

	var out struct {
		Message string `json:"message"`
	}
	if err := c.admin(ctx, session, http.MethodPatch, "/admin/designs/"+seg(id)+"/featured", body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// DeleteDesign removes a design along with every favorite and cart row for it.
func (c *Client) DeleteDesign(ctx context.Context, session, id string) error {
	return c.admin(ctx, session, http.MethodDelete, "/admin/designs/"+seg(id), nil, nil)
}

func (c *Client) admin(ctx context.Context, session, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	req.Header.Set(adminSessionHeader, session)
	return c.send(ctx, req, out)
}
