package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bally3399/chord001-monograms/internal/service"
	"github.com/bally3399/chord001-monograms/pkg/httputil"
	"github.com/bally3399/chord001-monograms/pkg/middleware"
)

// FavoriteHandler handles HTTP requests for the viewer's favorites.
type FavoriteHandler struct {
	service *service.FavoriteService
	logger  *slog.Logger
}

// NewFavoriteHandler creates a new favorite HTTP handler.
func NewFavoriteHandler(svc *service.FavoriteService, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		service: svc,
		logger:  logger,
	}
}

// AddFavoriteRequest is the JSON request body for favoriting a design.
type AddFavoriteRequest struct {
	DesignID string `json:"design_id" validate:"required,uuid"`
}

// ListFavorites handles GET /api/v1/favorites
func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := h.service.ListFavorites(r.Context(), middleware.ViewerIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, favs)
}

// AddFavorite handles POST /api/v1/favorites
func (h *FavoriteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var req AddFavoriteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	f, err := h.service.AddFavorite(r.Context(), middleware.ViewerIDFromContext(r.Context()), req.DesignID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, f)
}

// GetFavoriteByDesign handles GET /api/v1/favorites/designs/{designId}
func (h *FavoriteHandler) GetFavoriteByDesign(w http.ResponseWriter, r *http.Request) {
	designID, ok := httputil.ParseUUID(w, "design id", chi.URLParam(r, "designId"))
	if !ok {
		return
	}

	f, err := h.service.GetFavoriteByDesign(r.Context(), middleware.ViewerIDFromContext(r.Context()), designID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, f)
}

// RemoveFavoriteByDesign handles DELETE /api/v1/favorites/designs/{designId}
func (h *FavoriteHandler) RemoveFavoriteByDesign(w http.ResponseWriter, r *http.Request) {
	designID, ok := httputil.ParseUUID(w, "design id", chi.URLParam(r, "designId"))
	if !ok {
		return
	}

	if err := h.service.RemoveFavoriteByDesign(r.Context(), middleware.ViewerIDFromContext(r.Context()), designID.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveFavorite handles DELETE /api/v1/favorites/{id}
func (h *FavoriteHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, "favorite id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.RemoveFavorite(r.Context(), middleware.ViewerIDFromContext(r.Context()), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MoveToCart handles POST /api/v1/favorites/{id}/move-to-cart
func (h *FavoriteHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, "favorite id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	res, err := h.service.MoveToCart(r.Context(), middleware.ViewerIDFromContext(r.Context()), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, res)
}
