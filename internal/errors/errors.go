// Package errors defines the structured API error responses returned by
// the HTTP layer.
package errors

import (
	"net/http"

	"github.com/go-chi/render"
)

// APIError is a structured API error response.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates an APIError.
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// WithDetail returns a copy of the error carrying extra detail text.
func (e *APIError) WithDetail(detail string) *APIError {
	clone := *e
	clone.Detail = detail
	return &clone
}

// Predefined errors for the license API. The license error codes
// deliberately do not distinguish why a key failed; the cause is logged
// server side only.
var (
	ErrInvalidRequest  = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrInvalidLicense  = New(http.StatusUnauthorized, "INVALID_LICENSE", "The license key could not be validated")
	ErrLicenseMissing  = New(http.StatusPreconditionRequired, "LICENSE_MISSING", "No license key is configured")
	ErrRateLimited     = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many validation attempts")
	ErrInternalServer  = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
)
