package app

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/fixturecast/internal/server"
	"github.com/alanyoungcy/fixturecast/internal/server/handler"
	"github.com/alanyoungcy/fixturecast/internal/server/ws"
	"github.com/alanyoungcy/fixturecast/internal/service"
)

// buildJobs assembles the lock-guarded job service shared by the API server
// and the one-shot modes. hub may be nil outside serve mode.
func (a *App) buildJobs(deps *Dependencies, hub *ws.Hub) *service.JobService {
	var broadcaster service.Broadcaster
	if hub != nil {
		broadcaster = hub
	}
	return service.NewJobService(
		deps.Orchestrator,
		deps.Runner,
		deps.Grader,
		deps.LockManager,
		deps.Notifier,
		broadcaster,
		service.JobConfig{
			IngestTimeout:   a.cfg.Ingest.RunTimeout.Duration,
			IngestLockTTL:   a.cfg.Ingest.LockTTL.Duration,
			ForecastTimeout: a.cfg.Forecast.RunTimeout.Duration,
			ForecastLockTTL: a.cfg.Forecast.LockTTL.Duration,
		},
		a.logger,
	)
}

// ServeMode runs the HTTP + WebSocket API until the context is cancelled.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode")

	g, ctx := errgroup.WithContext(ctx)

	hub := ws.NewHub(a.logger)
	g.Go(func() error {
		if err := hub.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	})

	jobs := a.buildJobs(deps, hub)
	a.startHTTPServer(ctx, g, deps, jobs, hub)

	return g.Wait()
}

// IngestMode runs one ingestion cycle and exits.
func (a *App) IngestMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting ingest mode")
	_, err := a.buildJobs(deps, nil).RunIngest(ctx)
	return err
}

// ForecastMode runs one forecast-generation cycle and exits.
func (a *App) ForecastMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting forecast mode")
	_, err := a.buildJobs(deps, nil).RunForecast(ctx)
	return err
}

// GradeMode runs one grading cycle and exits.
func (a *App) GradeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting grade mode")
	_, err := a.buildJobs(deps, nil).RunGrade(ctx)
	return err
}

// FullMode runs the whole pipeline once (ingest, forecast, grade) and then
// serves the API until the context is cancelled.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	g, ctx := errgroup.WithContext(ctx)

	hub := ws.NewHub(a.logger)
	g.Go(func() error {
		if err := hub.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	})

	jobs := a.buildJobs(deps, hub)
	a.startHTTPServer(ctx, g, deps, jobs, hub)

	// Kick the pipeline once on startup; failures are alerted, not fatal.
	g.Go(func() error {
		if _, err := jobs.RunIngest(ctx); err != nil {
			a.logger.ErrorContext(ctx, "startup ingest failed", slog.String("error", err.Error()))
			return nil
		}
		if _, err := jobs.RunForecast(ctx); err != nil {
			a.logger.ErrorContext(ctx, "startup forecast failed", slog.String("error", err.Error()))
			return nil
		}
		if _, err := jobs.RunGrade(ctx); err != nil {
			a.logger.ErrorContext(ctx, "startup grade failed", slog.String("error", err.Error()))
		}
		return nil
	})

	return g.Wait()
}

// startHTTPServer registers the API server goroutines on the errgroup.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies, jobs *service.JobService, hub *ws.Hub) {
	fixtureSvc := service.NewFixtureService(deps.FixtureStore, deps.FixtureCache, a.cfg.Ingest.RetentionWindow.Duration, a.logger)
	forecastSvc := service.NewForecastService(deps.ForecastStore, a.logger)

	components := map[string]handler.Pinger{
		"postgres": deps.DBPing,
		"redis":    deps.RedisPing,
	}
	if deps.S3Health != nil {
		components["s3"] = deps.S3Health
	}

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
		RateLimit:   a.cfg.Server.RateLimit,
	}, server.Handlers{
		Health:    handler.NewHealthHandler(components, a.logger),
		Fixtures:  handler.NewFixtureHandler(fixtureSvc, a.logger),
		Forecasts: handler.NewForecastHandler(forecastSvc, a.logger),
		Runs:      handler.NewRunsHandler(jobs, a.logger),
	}, hub, deps.RateLimiter, a.logger)

	g.Go(srv.Start)

	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
}
