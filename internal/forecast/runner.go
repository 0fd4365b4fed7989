package forecast

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alanyoungcy/fixturecast/internal/domain"
)

// RunnerConfig holds the forecast run policy.
type RunnerConfig struct {
	// Window selects upcoming fixtures kicking off within [now, now+Window].
	Window time.Duration
	// HistoryLimit caps head-to-head records fed into the prompt.
	HistoryLimit int
}

// Runner drives one forecast-generation cycle: select upcoming fixtures,
// gather head-to-head history, generate, persist.
type Runner struct {
	fixtures  domain.FixtureStore
	forecasts domain.ForecastStore
	gen       *Generator
	cfg       RunnerConfig
	logger    *slog.Logger
	now       func() time.Time
}

// NewRunner creates a Runner.
func NewRunner(fixtures domain.FixtureStore, forecasts domain.ForecastStore, gen *Generator, cfg RunnerConfig, logger *slog.Logger) *Runner {
	return &Runner{
		fixtures:  fixtures,
		forecasts: forecasts,
		gen:       gen,
		cfg:       cfg,
		logger:    logger.With("component", "forecast_runner"),
		now:       time.Now,
	}
}

// forecastableStatuses are the lifecycle states a fixture can be forecast in.
var forecastableStatuses = []domain.FixtureStatus{
	domain.FixtureScheduled,
	domain.FixtureUpcoming,
	domain.FixtureTBA,
}

// Run executes one generation cycle. Per-fixture failures, including oracle
// exhaustion, are recorded in the summary and never abort the run; only
// context cancellation and the initial fixture query surface as errors.
func (r *Runner) Run(ctx context.Context) (domain.ForecastRunSummary, error) {
	started := r.now().UTC()
	summary := domain.ForecastRunSummary{
		StartedAt: started,
		Errors:    map[string]string{},
	}

	fixtures, err := r.fixtures.ListByStatusAndWindow(ctx, forecastableStatuses, started, started.Add(r.cfg.Window))
	if err != nil {
		return summary, err
	}
	summary.Fixtures = len(fixtures)

	for i := range fixtures {
		if ctx.Err() != nil {
			summary.Duration = r.now().UTC().Sub(started)
			return summary, ctx.Err()
		}
		fixture := fixtures[i]

		history, err := r.fixtures.ListFinishedByTeamPair(ctx, fixture.HomeTeamID, fixture.AwayTeamID, r.cfg.HistoryLimit)
		if err != nil {
			r.logger.Warn("head-to-head query failed", "fixture_id", fixture.ID, "error", err)
			history = nil
		}

		forecasts, filtered, err := r.gen.Generate(ctx, fixture, history)
		summary.Filtered += filtered
		if err != nil {
			if errors.Is(err, domain.ErrForecastUnavailable) {
				summary.Unavailable++
				r.logger.Warn("no forecast this cycle", "fixture_id", fixture.ID)
				continue
			}
			if ctx.Err() != nil {
				summary.Duration = r.now().UTC().Sub(started)
				return summary, err
			}
			summary.Errors[fixture.ID] = err.Error()
			continue
		}

		for j := range forecasts {
			if _, _, err := r.forecasts.Upsert(ctx, forecasts[j]); err != nil {
				r.logger.Error("persist forecast failed",
					"fixture_id", fixture.ID, "bucket", forecasts[j].Bucket, "error", err)
				summary.Errors[fixture.ID] = err.Error()
				continue
			}
			summary.Generated++
		}
	}

	summary.Duration = r.now().UTC().Sub(started)
	if len(summary.Errors) == 0 {
		summary.Errors = nil
	}

	r.logger.Info("forecast run complete",
		"fixtures", summary.Fixtures,
		"generated", summary.Generated,
		"filtered", summary.Filtered,
		"unavailable", summary.Unavailable,
		"duration", summary.Duration)
	return summary, nil
}
