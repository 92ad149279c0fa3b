package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bally3399/chord001-monograms/internal/service"
	"github.com/bally3399/chord001-monograms/pkg/httputil"
	"github.com/bally3399/chord001-monograms/pkg/middleware"
)

// CartHandler handles HTTP requests for the viewer's cart.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddToCartRequest is the JSON request body for adding a design to the cart.
// Quantity defaults to 1.
type AddToCartRequest struct {
	DesignID string `json:"design_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"omitempty,min=1,max=100"`
}

// UpdateQuantityRequest is the JSON request body for setting a quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=100"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetCart(r.Context(), middleware.ViewerIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, view)
}

// AddToCart handles POST /api/v1/cart
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	item, err := h.service.AddToCart(r.Context(), middleware.ViewerIDFromContext(r.Context()), req.DesignID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, item)
}

// GetCartItemByDesign handles GET /api/v1/cart/designs/{designId}
func (h *CartHandler) GetCartItemByDesign(w http.ResponseWriter, r *http.Request) {
	designID, ok := httputil.ParseUUID(w, "design id", chi.URLParam(r, "designId"))
	if !ok {
		return
	}

	item, err := h.service.GetCartItemByDesign(r.Context(), middleware.ViewerIDFromContext(r.Context()), designID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, item)
}

// RemoveByDesign handles DELETE /api/v1/cart/designs/{designId}
func (h *CartHandler) RemoveByDesign(w http.ResponseWriter, r *http.Request) {
	designID, ok := httputil.ParseUUID(w, "design id", chi.URLParam(r, "designId"))
	if !ok {
		return
	}

	if err := h.service.RemoveByDesign(r.Context(), middleware.ViewerIDFromContext(r.Context()), designID.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateQuantity handles PUT /api/v1/cart/{id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, "cart item id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	item, err := h.service.UpdateQuantity(r.Context(), middleware.ViewerIDFromContext(r.Context()), id.String(), req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, item)
}

// RemoveItem handles DELETE /api/v1/cart/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, "cart item id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.RemoveItem(r.Context(), middleware.ViewerIDFromContext(r.Context()), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Checkout handles GET /api/v1/cart/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	link, err := h.service.Checkout(r.Context(), middleware.ViewerIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, link)
}
