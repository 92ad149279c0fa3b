package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bally3399/chord001-monograms/internal/domain"
	"github.com/bally3399/chord001-monograms/internal/storefront"
	apperrors "github.com/bally3399/chord001-monograms/pkg/errors"
	"github.com/bally3399/chord001-monograms/pkg/httpclient"
)

const testToken = "token-user-1"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func writeErr(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"code": code, "message": msg}})
}

// newTestClient starts r and returns a Client without retries.
func newTestClient(t *testing.T, r http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	c, err := New(srv.URL+"/", httpclient.New(cfg), testLogger())
	require.NoError(t, err)
	return c
}

func viewerCtx() context.Context {
	return storefront.WithAccessToken(context.Background(), testToken)
}

func TestNew_RejectsInvalidURL(t *testing.T) {
	for _, u := range []string{"", "localhost:8080", "://nope"} {
		_, err := New(u, httpclient.New(httpclient.DefaultConfig()), testLogger())
		assert.Error(t, err, u)
	}
}

func TestListDesigns_QueryAndEnvelope(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/v1/designs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("featured"))
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		assert.Empty(t, r.Header.Get("Authorization"))
		writeData(w, http.StatusOK, []map[string]any{
			{"id": "d-1", "title": "Royal R", "image_url": "https://img/1.png", "price": 1250, "is_featured": true},
			{"id": "d-2", "title": "Modern M", "image_url": "https://img/2.png", "is_featured": true},
		})
	})
	c := newTestClient(t, r)

	designs, err := c.ListDesigns(context.Background(), domainFilter(true, 3))

	require.NoError(t, err)
	require.Len(t, designs, 2)
	require.NotNil(t, designs[0].Price)
	assert.Equal(t, int64(1250), *designs[0].Price)
	assert.Nil(t, designs[1].Price)
}

func TestViewerCalls_SendBearerToken(t *testing.T) {
	var auth atomic.Value
	r := chi.NewRouter()
	r.Get("/api/v1/favorites", func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		writeData(w, http.StatusOK, []map[string]any{{"id": "f-1", "design_id": "d-1"}})
	})
	c := newTestClient(t, r)

	favs, err := c.ListFavorites(viewerCtx())

	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "d-1", favs[0].DesignID)
	assert.Equal(t, "Bearer "+testToken, auth.Load())
}

func TestAddFavorite_ConflictMapsToAlreadyExists(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/v1/favorites", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "d-1", body["design_id"])
		writeErr(w, http.StatusConflict, "ALREADY_EXISTS", "favorite already exists")
	})
	c := newTestClient(t, r)

	_, err := c.AddFavorite(viewerCtx(), "d-1")

	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestErrorMapping(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/v1/cart/designs/{designId}", func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusNotFound, "NOT_FOUND", "cart item not found")
	})
	r.Delete("/api/v1/favorites/designs/{designId}", func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusUnauthorized, "UNAUTHORIZED", "sign in required")
	})
	r.Put("/api/v1/cart/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusBadRequest, "VALIDATION_ERROR", "field 'quantity' must be at least 1")
	})
	c := newTestClient(t, r)
	ctx := viewerCtx()

	_, err := c.GetCartItemByDesign(ctx, "d-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = c.RemoveFavoriteByDesign(ctx, "d-1")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = c.UpdateCartQuantity(ctx, "c-1", 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestServerErrorThroughBreaker(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/v1/cart", func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	cbCfg := httpclient.DefaultCircuitBreakerConfig("client-test-5xx")
	cb := httpclient.NewCircuitBreakerClient(httpclient.New(cfg), cbCfg, testLogger())
	c, err := New(srv.URL, cb, testLogger())
	require.NoError(t, err)

	_, err = c.ListCart(viewerCtx())

	assert.ErrorIs(t, err, apperrors.ErrInternal)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
}

func TestRetriesIdempotentRequests(t *testing.T) {
	var hits atomic.Int32
	r := chi.NewRouter()
	r.Get("/api/v1/cart", func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeData(w, http.StatusOK, map[string]any{"items": []any{}, "item_count": 0, "total_cents": 0})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	cfg := httpclient.DefaultConfig()
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = time.Millisecond
	c, err := New(srv.URL, httpclient.New(cfg), testLogger())
	require.NoError(t, err)

	items, err := c.ListCart(viewerCtx())

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int32(2), hits.Load())
}

func TestCartCalls(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/v1/cart", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, map[string]any{
			"items":       []map[string]any{{"id": "c-1", "design_id": "d-1", "quantity": 2}},
			"item_count":  2,
			"total_cents": 2000,
		})
	})
	r.Post("/api/v1/cart", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "d-2", body["design_id"])
		assert.Equal(t, float64(1), body["quantity"])
		writeData(w, http.StatusCreated, map[string]any{"id": "c-2", "design_id": "d-2", "quantity": 1})
	})
	r.Delete("/api/v1/cart/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "c-1", chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/api/v1/cart/checkout", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, map[string]string{
			"url":     "https://wa.me/2348012345678?text=Hi",
			"message": "Hi, I want to make the designs: d-1",
		})
	})
	c := newTestClient(t, r)
	ctx := viewerCtx()

	items, err := c.ListCart(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	item, err := c.AddToCart(ctx, "d-2", 1)
	require.NoError(t, err)
	assert.Equal(t, "c-2", item.ID)

	require.NoError(t, c.RemoveCartItem(ctx, "c-1"))

	link, err := c.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hi, I want to make the designs: d-1", link.Message)
}

func TestMoveFavoriteToCart(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/v1/favorites/{id}/move-to-cart", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "f-1", chi.URLParam(r, "id"))
		writeData(w, http.StatusOK, map[string]any{"design_id": "d-1", "already_in_cart": true})
	})
	c := newTestClient(t, r)

	res, err := c.MoveFavoriteToCart(viewerCtx(), "f-1")

	require.NoError(t, err)
	assert.Equal(t, storefront.MoveResult{DesignID: "d-1", AlreadyInCart: true}, res)
}

func TestAdminCalls_SendSessionHeader(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/v1/admin/sessions", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusCreated, map[string]string{"token": "sess-1"})
	})
	r.Patch("/api/v1/admin/designs/{id}/featured", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(adminSessionHeader) != "sess-1" {
			writeErr(w, http.StatusUnauthorized, "UNAUTHORIZED", "admin session required")
			return
		}
		writeData(w, http.StatusOK, map[string]any{
			"design":  map[string]any{"id": chi.URLParam(r, "id"), "is_featured": true},
			"message": "Design added to featured.",
		})
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	token, err := c.AdminLogin(ctx, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", token)

	msg, err := c.SetFeatured(ctx, token, "d-1", true)
	require.NoError(t, err)
	assert.Equal(t, "Design added to featured.", msg)

	_, err = c.SetFeatured(ctx, "stale", "d-1", true)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func domainFilter(featured bool, limit int) domain.DesignFilter {
	return domain.DesignFilter{FeaturedOnly: featured, Limit: limit}
}
