package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bally3399/chord001-monograms/internal/domain"
	"github.com/bally3399/chord001-monograms/internal/service"
	"github.com/bally3399/chord001-monograms/pkg/httputil"
)

// DesignHandler handles HTTP requests for the public catalog and the
// admin catalog endpoints.
type DesignHandler struct {
	service *service.DesignService
	logger  *slog.Logger
}

// NewDesignHandler creates a new design HTTP handler.
func NewDesignHandler(svc *service.DesignService, logger *slog.Logger) *DesignHandler {
	return &DesignHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// SetFeaturedRequest is the JSON request body for toggling featured.
type SetFeaturedRequest struct {
	IsFeatured *bool `json:"is_featured" validate:"required"`
}

// SetFeaturedResponse echoes the design with the admin confirmation.
type SetFeaturedResponse struct {
	Design  *domain.Design `json:"design"`
	Message string         `json:"message"`
}

// --- Handlers ---

// ListDesigns handles GET /api/v1/designs
func (h *DesignHandler) ListDesigns(w http.ResponseWriter, r *http.Request) {
	var filter domain.DesignFilter

	q := r.URL.Query()
	if v := q.Get("featured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			writeInvalidParameter(w, "featured must be true or false")
			return
		}
		filter.FeaturedOnly = featured
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > service.MaxListLimit {
			writeInvalidParameter(w, "limit must be an integer between 1 and "+strconv.Itoa(service.MaxListLimit))
			return
		}
		filter.Limit = limit
	}

	designs, err := h.service.ListDesigns(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, designs)
}

// GetDesign handles GET /api/v1/designs/{id}
func (h *DesignHandler) GetDesign(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, "design id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	d, err := h.service.GetDesign(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, d)
}

// CreateDesign handles POST /api/v1/admin/designs
func (h *DesignHandler) CreateDesign(w http.ResponseWriter, r *http.Request) {
	var req service.DesignInput
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	d, err := h.service.CreateDesign(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, d)
}

// UpdateDesign handles PUT /api/v1/admin/designs/{id}
func (h *DesignHandler) UpdateDesign(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, "design id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req service.DesignInput
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	d, err := h.service.UpdateDesign(r.Context(), id.String(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, d)
}

// SetFeatured handles PATCH /api/v1/admin/designs/{id}/featured
func (h *DesignHandler) SetFeatured(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, "design id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req SetFeaturedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	d, msg, err := h.service.SetFeatured(r.Context(), id.String(), *req.IsFeatured)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, SetFeaturedResponse{Design: d, Message: msg})
}

// DeleteDesign handles DELETE /api/v1/admin/designs/{id}
func (h *DesignHandler) DeleteDesign(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, "design id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteDesign(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeInvalidParameter(w http.ResponseWriter, msg string) {
	httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
		Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: msg},
	})
}
