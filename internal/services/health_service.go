package services

import (
	"context"
	"log/slog"
	"time"

	"salesdash/pkg/contracts"
)

// HealthService reports liveness and readiness of the server
type HealthService struct {
	dashboard *DashboardService
	logger    *slog.Logger
	startedAt time.Time
}

// NewHealthService creates a health service. The dashboard service is
// consulted for readiness so a broken dataset surfaces before traffic.
func NewHealthService(dashboard *DashboardService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		dashboard: dashboard,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// Liveness reports that the process is running
func (s *HealthService) Liveness(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{
		"status":  "ok",
		"version": contracts.Version,
		"uptime":  time.Since(s.startedAt).String(),
	}
}

// Readiness reports whether the dataset can be served. Returns the
// check details and whether the service is ready.
func (s *HealthService) Readiness(ctx context.Context) (map[string]interface{}, bool) {
	checks := map[string]interface{}{
		"uptime": time.Since(s.startedAt).String(),
	}

	stats, err := s.dashboard.Stats(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "readiness check failed", slog.String("error", err.Error()))
		checks["dataset"] = map[string]interface{}{
			"status": "unavailable",
			"error":  err.Error(),
		}
		return checks, false
	}

	checks["dataset"] = map[string]interface{}{
		"status":       "ok",
		"rows_kept":    stats.RowsKept,
		"rows_dropped": stats.RowsDropped,
	}
	return checks, true
}
