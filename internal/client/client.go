// Package client implements the storefront Store over the storefront HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bally3399/chord001-monograms/internal/checkout"
	"github.com/bally3399/chord001-monograms/internal/domain"
	"github.com/bally3399/chord001-monograms/internal/storefront"
	"github.com/bally3399/chord001-monograms/pkg/httpclient"
)

const apiPrefix = "/api/v1"

// Client calls the storefront API. The viewer's access token is taken from
// the request context (storefront.WithAccessToken) and sent as a Bearer token.
type Client struct {
	baseURL string
	http    httpclient.Doer
	logger  *slog.Logger
}

var _ storefront.Store = (*Client)(nil)

// New creates a Client for baseURL using doer for transport.
func New(baseURL string, doer httpclient.Doer, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid storefront api url %q", baseURL)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    doer,
		logger:  logger,
	}, nil
}

// NewDefault creates a Client with retries and a circuit breaker in front of
// the API.
func NewDefault(baseURL string, logger *slog.Logger) (*Client, error) {
	base := httpclient.New(httpclient.DefaultConfig())
	cb := httpclient.NewCircuitBreakerClient(base, httpclient.DefaultCircuitBreakerConfig("storefront-api"), logger)
	return New(baseURL, cb, logger)
}

// envelope is the success half of the API response envelope.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var rdr io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := storefront.AccessTokenFromContext(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req, nil
}

// send executes req and decodes the data envelope into out, which may be nil.
// Error envelopes come back as *apperrors.AppError matching the status sentinel.
func (c *Client) send(ctx context.Context, req *http.Request, out any) error {
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, httpclient.AsServerError(err))
	}
	c.logger.DebugContext(ctx, "storefront api call",
		"method", req.Method, "path", req.URL.Path, "status", resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpclient.ParseResponseError(resp)
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.Method, req.URL.Path, err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	return c.send(ctx, req, out)
}

func seg(id string) string { return url.PathEscape(id) }

// --- Catalog ---

// ListDesigns lists the catalog, most recent first.
func (c *Client) ListDesigns(ctx context.Context, filter domain.DesignFilter) ([]domain.Design, error) {
	q := url.Values{}
	if filter.FeaturedOnly {
		q.Set("featured", "true")
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	path := "/designs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var designs []domain.Design
	if err := c.call(ctx, http.MethodGet, path, nil, &designs); err != nil {
		return nil, err
	}
	return designs, nil
}

// GetDesign fetches one design.
func (c *Client) GetDesign(ctx context.Context, id string) (*domain.Design, error) {
	var d domain.Design
	if err := c.call(ctx, http.MethodGet, "/designs/"+seg(id), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// --- Favorites ---

func (c *Client) ListFavorites(ctx context.Context) ([]domain.Favorite, error) {
	var favs []domain.Favorite
	if err := c.call(ctx, http.MethodGet, "/favorites", nil, &favs); err != nil {
		return nil, err
	}
	return favs, nil
}

func (c *Client) AddFavorite(ctx context.Context, designID string) (*domain.Favorite, error) {
	body := struct {
		DesignID string `json:"design_id"`
	}{designID}

	var f domain.Favorite
	if err := c.call(ctx, http.MethodPost, "/favorites", body, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) GetFavoriteByDesign(ctx context.Context, designID string) (*domain.Favorite, error) {
	var f domain.Favorite
	if err := c.call(ctx, http.MethodGet, "/favorites/designs/"+seg(designID), nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) RemoveFavoriteByDesign(ctx context.Context, designID string) error {
	return c.call(ctx, http.MethodDelete, "/favorites/designs/"+seg(designID), nil, nil)
}

func (c *Client) RemoveFavorite(ctx context.Context, favoriteID string) error {
	return c.call(ctx, http.MethodDelete, "/favorites/"+seg(favoriteID), nil, nil)
}

func (c *Client) MoveFavoriteToCart(ctx context.Context, favoriteID string) (storefront.MoveResult, error) {
	var res storefront.MoveResult
	if err := c.call(ctx, http.MethodPost, "/favorites/"+seg(favoriteID)+"/move-to-cart", nil, &res); err != nil {
		return storefront.MoveResult{}, err
	}
	return res, nil
}

// --- Cart ---

func (c *Client) ListCart(ctx context.Context) ([]domain.CartItem, error) {
	var view struct {
		Items []domain.CartItem `json:"items"`
	}
	if err := c.call(ctx, http.MethodGet, "/cart", nil, &view); err != nil {
		return nil, err
	}
	return view.Items, nil
}

func (c *Client) AddToCart(ctx context.Context, designID string, quantity int) (*domain.CartItem, error) {
	body := struct {
		DesignID string `json:"design_id"`
		Quantity int    `json:"quantity,omitempty"`
	}{designID, quantity}

	var item domain.CartItem
	if err := c.call(ctx, http.MethodPost, "/cart", body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) GetCartItemByDesign(ctx context.Context, designID string) (*domain.CartItem, error) {
	var item domain.CartItem
	if err := c.call(ctx, http.MethodGet, "/cart/designs/"+seg(designID), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) RemoveFromCartByDesign(ctx context.Context, designID string) error {
	return c.call(ctx, http.MethodDelete, "/cart/designs/"+seg(designID), nil, nil)
}

func (c *Client) UpdateCartQuantity(ctx context.Context, itemID string, quantity int) (*domain.CartItem, error) {
	body := struct {
		Quantity int `json:"quantity"`
	}{quantity}

	var item domain.CartItem
	if err := c.call(ctx, http.MethodPut, "/cart/"+seg(itemID), body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID string) error {
	return c.call(ctx, http.MethodDelete, "/cart/"+seg(itemID), nil, nil)
}

func (c *Client) Checkout(ctx context.Context) (checkout.Link, error) {
	var link checkout.Link
	if err := c.call(ctx, http.MethodGet, "/cart/checkout", nil, &link); err != nil {
		return checkout.Link{}, err
	}
	return link, nil
}
