package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"assesscli/internal/config"
	apierrors "assesscli/internal/errors"
	"assesscli/internal/infrastructure"
	"assesscli/internal/middleware"
	"assesscli/internal/services"
	"assesscli/internal/snapshot"
	handlers "assesscli/internal/transport/http"
	ws "assesscli/internal/websocket"
)

// Version is the service version, overridable at build time
var Version = "dev"

// Application is the assembled analysis server: configuration, logger,
// services, websocket hub and the HTTP stack.
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	Router        *chi.Mux
	Server        *http.Server
	Hub           *ws.Hub
	OTelProviders *infrastructure.OTelProviders
	Analysis      *services.AnalysisService
	Health        *services.HealthService
}

// New builds the application from the environment: configuration, logging
// and telemetry are initialized here, then everything is wired together.
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	return NewWithConfig(cfg, logger, providers)
}

// NewWithConfig wires the application from already-initialized dependencies.
// providers may be nil; instrumentation is then skipped.
func NewWithConfig(cfg *config.Config, logger *slog.Logger, providers *infrastructure.OTelProviders) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("application starting",
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port))

	store, err := snapshot.NewStore(cfg.GetSnapshotsDir(), logger)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot store: %w", err)
	}

	hub := ws.NewHub(logger)

	var otelMW *middleware.OTelMiddleware
	var metrics *infrastructure.AnalysisMetrics
	if providers != nil {
		otelMW, err = middleware.NewOTelMiddleware(providers)
		if err != nil {
			return nil, fmt.Errorf("creating instrumentation middleware: %w", err)
		}
		metrics = otelMW.Metrics()
	}

	analysisService := services.NewAnalysisService(cfg, store, hub, metrics, logger)
	healthService := services.NewHealthService(Version, cfg.Paths, store, hub, logger)

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		Hub:           hub,
		OTelProviders: providers,
		Analysis:      analysisService,
		Health:        healthService,
	}
	app.Router = app.buildRouter(otelMW)
	app.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        app.Router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}
	return app, nil
}

func (a *Application) buildRouter(otelMW *middleware.OTelMiddleware) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if otelMW != nil {
		r.Use(otelMW.Handler)
	}
	r.Use(middleware.RequestLogger(a.Logger))
	r.Use(middleware.Recoverer(a.Logger))
	r.Use(middleware.SecurityHeaders)
	if a.Config.Security.EnableCORS {
		r.Use(middleware.CORS(middleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
		}))
	}
	if a.Config.Security.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		)
		r.Use(limiter.Handler)
	}

	errorHandler := apierrors.NewErrorHandler(a.Logger, false)
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(middleware.RequireContentType("application/json"))

		handlers.NewAnalysisHandler(a.Analysis, a.Logger).RegisterRoutes(r)
		handlers.NewHealthHandler(a.Health).RegisterRoutes(r)
		handlers.NewUploadsHandler(a.Config.GetUploadsDir(), a.Logger).RegisterRoutes(r)
	})

	handlers.NewMetricsHandler(a.OTelProviders).RegisterRoutes(r)
	handlers.NewWebSocketHandler(
		a.Hub,
		a.Config.WebSocket,
		a.Config.Security.AllowedOrigins,
		a.Logger,
	).RegisterRoutes(r)

	return r
}

// Run starts the hub and HTTP server and blocks until ctx is canceled or a
// termination signal arrives, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	go a.Hub.Run()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.Logger.Info("shutdown requested")
	return a.Shutdown()
}

// Shutdown stops the HTTP server, the hub and the telemetry pipeline
func (a *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	var firstErr error
	if err := a.Server.Shutdown(ctx); err != nil {
		firstErr = fmt.Errorf("stopping http server: %w", err)
	}

	a.Hub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("stopping telemetry: %w", err)
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil && firstErr == nil {
		firstErr = err
	}

	if firstErr == nil {
		a.Logger.Info("shutdown complete")
	}
	return firstErr
}
