package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/vcsi/pingcastle/internal/infrastructure"
)

// HealthResponse is the payload of GET /api/health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// Render implements the render.Renderer interface.
func (resp *HealthResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// HealthHandler reports process liveness. License verification has no
// external dependencies, so alive means healthy.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, &HealthResponse{
		Status:    "healthy",
		Version:   infrastructure.ServiceVersion,
		Timestamp: time.Now().UTC(),
	})
}
