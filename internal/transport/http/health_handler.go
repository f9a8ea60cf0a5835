package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"salesdash/pkg/contracts"
	api "salesdash/pkg/contracts/api/v1"
)

// HealthService is the service interface for health checks
type HealthService interface {
	Liveness(ctx context.Context) map[string]interface{}
	Readiness(ctx context.Context) (map[string]interface{}, bool)
}

// HealthHandler serves liveness and readiness endpoints
type HealthHandler struct {
	service HealthService
	logger  *slog.Logger
}

// NewHealthHandler creates a health handler
func NewHealthHandler(service HealthService, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{service: service, logger: logger}
}

// Routes returns the chi router for health endpoints
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleLiveness)
	r.Get("/live", h.HandleLiveness)
	r.Get("/ready", h.HandleReadiness)
	return r
}

// HandleLiveness reports that the process is up
func (h *HealthHandler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	checks := h.service.Liveness(r.Context())
	render.JSON(w, r, api.HealthResponse{
		Status:  "healthy",
		Version: contracts.Version,
		Checks:  checks,
	})
}

// HandleVersion reports build and version information
func (h *HealthHandler) HandleVersion(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"version":     contracts.Version,
		"api_version": contracts.APIVersion,
		"build_time":  contracts.BuildTime,
		"git_commit":  contracts.GitCommit,
	})
}

// HandleReadiness reports whether the dataset can be served
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	checks, ready := h.service.Readiness(r.Context())

	status := "ready"
	code := http.StatusOK
	if !ready {
		status = "not_ready"
		code = http.StatusServiceUnavailable
	}

	render.Status(r, code)
	render.JSON(w, r, api.HealthResponse{
		Status:  status,
		Version: contracts.Version,
		Checks:  checks,
	})
}
