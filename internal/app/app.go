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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"go-review-gateway/internal/backend"
	"go-review-gateway/internal/config"
	"go-review-gateway/internal/handler"
	"go-review-gateway/internal/metrics"
	"go-review-gateway/internal/router"
	"go-review-gateway/internal/service"
)

type App struct {
	cfg    *config.Config
	server *http.Server
	logger *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	h, err := NewHandler(cfg, logger, prometheus.NewRegistry())
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           h,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{cfg: cfg, server: server, logger: logger}, nil
}

// NewHandler wires the backend client, services and handlers into the HTTP
// router. Metrics are registered on reg when enabled.
func NewHandler(cfg *config.Config, logger *slog.Logger, reg *prometheus.Registry) (http.Handler, error) {
	var recorder metrics.Recorder = metrics.Nop{}
	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		recorder = metrics.NewCollector(reg)
		metricsHandler = metrics.Handler(reg)
	}

	if cfg.BackendTLSInsecureSkip {
		logger.Warn("backend TLS certificate verification is disabled")
	}
	client, err := backend.NewClient(
		cfg.BackendBaseURL,
		backend.NewHTTPClient(cfg.BackendTLSInsecureSkip),
		logger.With("component", "backend"),
		recorder,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize backend client: %w", err)
	}

	cookies := handler.SessionCookies{Secure: cfg.CookieSecure}

	authService := service.NewAuthService(client, logger)
	reviewService := service.NewReviewService(client, cfg.ListTimeout, recorder, logger)
	catalogService := service.NewCatalogService(client, cfg.ListTimeout, logger)

	return router.New(cfg, logger, router.Handlers{
		Auth:    handler.NewAuthHandler(authService, cookies),
		Review:  handler.NewReviewHandler(reviewService, cookies),
		Product: handler.NewProductHandler(catalogService),
		Metrics: metricsHandler,
	}), nil
}

func (a *App) Run() error {
	go func() {
		a.logger.Info("server starting", "addr", a.server.Addr, "backend", a.cfg.BackendBaseURL)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			a.logger.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.logger.Info("server stopped")
	return nil
}
