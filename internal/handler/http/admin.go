package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bally3399/chord001-monograms/internal/service"
	"github.com/bally3399/chord001-monograms/internal/upload"
	apperrors "github.com/bally3399/chord001-monograms/pkg/errors"
	"github.com/bally3399/chord001-monograms/pkg/httputil"
	"github.com/bally3399/chord001-monograms/pkg/middleware"
)

// AdminHandler handles admin sessions and image uploads.
type AdminHandler struct {
	service *service.AdminService
	logger  *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler.
func NewAdminHandler(svc *service.AdminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request/Response DTOs ---

// LoginRequest is the JSON request body for opening an admin session.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the session token to send as X-Admin-Session.
type LoginResponse struct {
	Token string `json:"token"`
}

// UploadResponse carries the URL to store on a design.
type UploadResponse struct {
	URL string `json:"url"`
}

// --- Handlers ---

// Login handles POST /api/v1/admin/sessions
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	token, err := h.service.Login(r.Context(), req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, LoginResponse{Token: token})
}

// Logout handles DELETE /api/v1/admin/sessions
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), r.Header.Get(middleware.AdminSessionHeader)); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadImage handles POST /api/v1/admin/uploads
func (h *AdminHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	// Add 1MB overhead for multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxFileSize+(1<<20))

	if err := r.ParseMultipartForm(upload.MaxFileSize); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("failed to parse multipart form: "+err.Error()), h.logger)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("file is required: "+err.Error()), h.logger)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.service.UploadImage(r.Context(), header.Filename, contentType, header.Size, file)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, UploadResponse{URL: url})
}

// FileStore serves images kept by the in-memory uploader.
type FileStore interface {
	Get(key string) (upload.File, bool)
}

// ServeUpload handles GET /uploads/{key} for locally stored images.
func ServeUpload(files FileStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		if key == "" || strings.Contains(key, "/") {
			http.NotFound(w, r)
			return
		}
		f, ok := files.Get(key)
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", f.ContentType)
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		_, _ = w.Write(f.Data)
	}
}
