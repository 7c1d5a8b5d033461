package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"github.com/vcsi/pingcastle/internal/config"
	"github.com/vcsi/pingcastle/internal/infrastructure"
	"github.com/vcsi/pingcastle/internal/license"
	custommw "github.com/vcsi/pingcastle/internal/middleware"
	"github.com/vcsi/pingcastle/internal/services"
	handlers "github.com/vcsi/pingcastle/internal/transport/http"
)

// Application wires configuration, observability and the license
// service into a runnable HTTP server.
type Application struct {
	Config         *config.Config
	Router         *chi.Mux
	Server         *http.Server
	LicenseService services.LicenseService
	Logger         *slog.Logger
	OTelProviders  *infrastructure.OTelProviders
}

// NewApplication builds the application from the configuration file at
// configPath. An empty path uses defaults plus environment overrides.
func NewApplication(configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger := infrastructure.NewLogger(cfg.Logging, os.Stdout)
	logger.Info("application starting",
		slog.String("service", infrastructure.ServiceName),
		slog.String("version", infrastructure.ServiceVersion))

	otelProviders, err := infrastructure.InitializeOTel(cfg.Logging.Development, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize OpenTelemetry: %w", err)
	}

	metrics, err := license.NewMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("create license metrics: %w", err)
	}

	key, err := cfg.LicenseKey()
	if err != nil {
		return nil, fmt.Errorf("resolve license key: %w", err)
	}
	if key == "" {
		logger.Warn("no license key configured, status endpoint will report missing")
	}

	app := &Application{
		Config: cfg,
		Logger: logger,
		LicenseService: services.NewLicenseService(
			license.NewVerifier(), key, logger, otelProviders.Tracer, metrics),
		OTelProviders: otelProviders,
	}
	app.setupRouter()
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app, nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Recoverer(a.Logger))

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/health", handlers.HealthHandler)

		r.Group(func(r chi.Router) {
			if rl := a.Config.Server.RateLimit; rl.Enabled {
				r.Use(custommw.RateLimit(rl.RPS, rl.Burst))
			}
			licenseHandler := handlers.NewLicenseHandler(a.LicenseService, a.Logger)
			r.Mount("/license", licenseHandler.Routes())
		})
	})

	if a.Config.Metrics.Enabled && a.OTelProviders.PrometheusHTTP != nil {
		r.Handle(a.Config.Metrics.Path, a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// Run starts the HTTP server and blocks until the context is cancelled,
// an interrupt arrives or the server fails.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.Logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("OpenTelemetry shutdown", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.Logger.Info("shutdown complete")
	return nil
}
