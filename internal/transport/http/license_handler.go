// Package http contains the HTTP handlers for the license API.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/vcsi/pingcastle/internal/errors"
	"github.com/vcsi/pingcastle/internal/infrastructure"
	"github.com/vcsi/pingcastle/internal/services"
)

var validate = validator.New()

// LicenseHandler serves the license endpoints.
type LicenseHandler struct {
	service services.LicenseService
	logger  *slog.Logger
}

// NewLicenseHandler creates a license handler.
func NewLicenseHandler(service services.LicenseService, logger *slog.Logger) *LicenseHandler {
	return &LicenseHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "license")),
	}
}

// Routes returns the chi router for license endpoints.
func (h *LicenseHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/", h.GetStatus)
	r.Post("/validate", h.Validate)
	return r
}

// ValidateRequest is the payload of POST /api/license/validate.
type ValidateRequest struct {
	LicenseKey string `json:"license_key" validate:"required"`
}

// Bind implements the render.Binder interface.
func (req *ValidateRequest) Bind(r *http.Request) error {
	if err := validate.Struct(req); err != nil {
		return errors.New("license_key is required")
	}
	return nil
}

// StatusResponse wraps a license status with the request trace ID.
type StatusResponse struct {
	*services.LicenseStatus
	TraceID string `json:"trace_id,omitempty"`
}

// Render implements the render.Renderer interface.
func (resp *StatusResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// GetStatus reports the status of the key the service was configured
// with. Missing or invalid keys are a normal response, not an error.
func (h *LicenseHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status := h.service.GetStatus(r.Context())
	render.Render(w, r, &StatusResponse{
		LicenseStatus: status,
		TraceID:       infrastructure.TraceID(r.Context()),
	})
}

// Validate verifies a key supplied by the caller. Why a key failed is
// never exposed; every failure maps to the same invalid-license error.
func (h *LicenseHandler) Validate(w http.ResponseWriter, r *http.Request) {
	req := &ValidateRequest{}
	if err := render.Bind(r, req); err != nil {
		render.Render(w, r, apierrors.ErrInvalidRequest.WithDetail(err.Error()))
		return
	}

	status, err := h.service.Validate(r.Context(), req.LicenseKey)
	if err != nil {
		render.Render(w, r, apierrors.ErrInvalidLicense)
		return
	}

	render.Render(w, r, &StatusResponse{
		LicenseStatus: status,
		TraceID:       infrastructure.TraceID(r.Context()),
	})
}
