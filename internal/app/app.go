// Package app wires configuration, observability, services, and the
// HTTP router into a runnable server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"salesdash/internal/config"
	"salesdash/internal/dataset"
	apierrors "salesdash/internal/errors"
	"salesdash/internal/exporter"
	"salesdash/internal/infrastructure"
	custommw "salesdash/internal/middleware"
	"salesdash/internal/services"
	transport "salesdash/internal/transport/http"
	"salesdash/pkg/contracts"
)

// Application holds all initialized components of the server
type Application struct {
	config *config.Config
	logger *slog.Logger
	otel   *infrastructure.OTelProviders

	dashboardService *services.DashboardService
	healthService    *services.HealthService

	router chi.Router
	server *http.Server
}

// New builds the application from configuration
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	otelCfg := infrastructure.DefaultOTelConfig()
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	app := &Application{
		config: cfg,
		logger: logger,
		otel:   providers,
	}

	app.initializeServices()
	if err := app.setupRouter(); err != nil {
		return nil, fmt.Errorf("setting up router: %w", err)
	}

	app.server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        app.router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return app, nil
}

func (a *Application) initializeServices() {
	store := dataset.NewStore(dataset.NewLoader(a.logger), a.logger)

	excel := exporter.NewExcelExporter(a.config.Dataset.SheetName, a.logger)
	csv := exporter.NewCSVExporter(a.logger)

	a.dashboardService = services.NewDashboardService(store, a.config.Dataset.Path, excel, csv, a.logger)
	a.healthService = services.NewHealthService(a.dashboardService, a.logger)
}

func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	otelMiddleware, err := custommw.NewOTelMiddleware(a.otel)
	if err != nil {
		return err
	}

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(otelMiddleware.Handler)
	r.Use(custommw.StructuredLogger(a.logger))
	r.Use(custommw.Recoverer(a.logger))
	r.Use(custommw.SecurityHeaders)
	r.Use(custommw.Compress(5))

	if a.config.Security.EnableCORS {
		r.Use(custommw.CORS(custommw.CORSConfig{
			AllowedOrigins: a.config.Security.AllowedOrigins,
			Logger:         a.logger,
		}))
	}

	if a.config.Security.RateLimit.Enabled {
		limiter := custommw.NewRateLimiter(
			a.config.Security.RateLimit.RPS,
			a.config.Security.RateLimit.Burst,
			a.logger,
		)
		r.Use(limiter.Handler)
	}

	errorHandler := apierrors.NewErrorHandler(a.logger)
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	dashboardHandler := transport.NewDashboardHandler(a.dashboardService, a.logger)
	healthHandler := transport.NewHealthHandler(a.healthService, a.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(custommw.Timeout(60*time.Second, a.logger))
		r.Mount("/dashboard", dashboardHandler.Routes())
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.HandleVersion)
	})

	// Prometheus scrape endpoint stays outside the API group
	if a.otel.PrometheusHTTP != nil {
		r.Handle("/metrics", a.otel.PrometheusHTTP)
	}

	a.router = r
	return nil
}

// Start begins serving HTTP traffic
func (a *Application) Start() error {
	a.logger.Info("server starting",
		slog.Int("port", a.config.Server.Port),
		slog.String("version", contracts.Version),
		slog.String("dataset", a.config.Dataset.Path),
	)

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully
func (a *Application) Stop(ctx context.Context) error {
	a.logger.Info("server stopping")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}

	if err := a.otel.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}

	return nil
}

// Run starts the server and blocks until an interrupt or terminate
// signal arrives, then shuts down gracefully.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		a.logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		return a.Stop(context.Background())
	}
}

// Router exposes the configured router, primarily for tests
func (a *Application) Router() chi.Router {
	return a.router
}
