// Package server provides the HTTP + WebSocket API in front of the fixture
// pipeline.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alanyoungcy/fixturecast/internal/domain"
	"github.com/alanyoungcy/fixturecast/internal/server/handler"
	"github.com/alanyoungcy/fixturecast/internal/server/middleware"
	"github.com/alanyoungcy/fixturecast/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIKey      string // if empty, authentication is disabled
	// RateLimit bounds requests per client per second; 0 disables limiting.
	RateLimit int
}

// Handlers aggregates all HTTP handlers that the server registers.
type Handlers struct {
	Health    *handler.HealthHandler
	Fixtures  *handler.FixtureHandler
	Forecasts *handler.ForecastHandler
	Runs      *handler.RunsHandler
}

// Server is the headless HTTP + WebSocket API server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a Server with all routes registered. It wires the
// middleware chain (CORS, logging, rate limiting, auth) and attaches the
// WebSocket hub. limiter may be nil.
func NewServer(cfg Config, handlers Handlers, wsHub *ws.Hub, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Health check (reachable without credentials).
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Fixture endpoints.
	mux.HandleFunc("GET /api/fixtures", handlers.Fixtures.ListFixtures)
	mux.HandleFunc("GET /api/fixtures/{id}", handlers.Fixtures.GetFixture)
	mux.HandleFunc("GET /api/fixtures/{id}/forecasts", handlers.Forecasts.ListFixtureForecasts)

	// Forecast endpoints.
	mux.HandleFunc("GET /api/forecasts", handlers.Forecasts.ListForecasts)

	// Manual job triggers.
	mux.HandleFunc("POST /api/ingest/run", handlers.Runs.TriggerIngest)
	mux.HandleFunc("POST /api/forecast/run", handlers.Runs.TriggerForecast)
	mux.HandleFunc("POST /api/grade/run", handlers.Runs.TriggerGrade)

	// WebSocket endpoint.
	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	// Build the middleware chain, innermost first.
	var h http.Handler = mux
	h = middleware.Auth(cfg.APIKey)(h)
	if limiter != nil && cfg.RateLimit > 0 {
		h = middleware.RateLimit(limiter, cfg.RateLimit, time.Second)(h)
	}
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     h,
		ReadTimeout: 15 * time.Second,
		// The trigger routes run their job synchronously and answer with
		// the summary, so responses can take as long as the configured run
		// timeouts. No fixed write deadline; the job timeouts bound them.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
