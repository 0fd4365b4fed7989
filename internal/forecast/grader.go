package forecast

import (
	"context"
	"log/slog"
	"time"

	"github.com/alanyoungcy/fixturecast/internal/domain"
)

// Outcome is a 1X2 match result.
type Outcome string

const (
	OutcomeHome Outcome = "home"
	OutcomeDraw Outcome = "draw"
	OutcomeAway Outcome = "away"
)

// ActualOutcome derives the 1X2 result from a settled score. Tie-break
// priority: full-time goals, then extra-time, then penalties. A level score
// with no deeper sub-score is a draw.
func ActualOutcome(s domain.Score) (Outcome, bool) {
	if !s.Settled() {
		return "", false
	}

	if o, decided := compare(s.HomeGoals, s.AwayGoals); decided {
		return o, true
	}
	if o, decided := compare(s.HomeET, s.AwayET); decided {
		return o, true
	}
	if o, decided := compare(s.HomePenalty, s.AwayPenalty); decided {
		return o, true
	}
	return OutcomeDraw, true
}

func compare(home, away *int) (Outcome, bool) {
	if home == nil || away == nil {
		return "", false
	}
	switch {
	case *home > *away:
		return OutcomeHome, true
	case *away > *home:
		return OutcomeAway, true
	default:
		return "", false
	}
}

// PredictedOutcome is the argmax of the 1X2 triple. The canonical tie-break
// is draw: any exact tie at the maximum grades as draw.
func PredictedOutcome(p domain.OneXTwo) Outcome {
	if p.Home > p.Draw && p.Home > p.Away {
		return OutcomeHome
	}
	if p.Away > p.Draw && p.Away > p.Home {
		return OutcomeAway
	}
	return OutcomeDraw
}

// Archiver receives graded forecasts for long-term retention. It is
// optional; grading proceeds without one.
type Archiver interface {
	ArchiveForecasts(ctx context.Context, gradedAt time.Time, forecasts []domain.Forecast) error
}

// Grader marks pending forecasts won or lost once their fixture finishes.
type Grader struct {
	fixtures  domain.FixtureStore
	forecasts domain.ForecastStore
	archiver  Archiver
	logger    *slog.Logger
	now       func() time.Time
}

// NewGrader creates a Grader. archiver may be nil.
func NewGrader(fixtures domain.FixtureStore, forecasts domain.ForecastStore, archiver Archiver, logger *slog.Logger) *Grader {
	return &Grader{
		fixtures:  fixtures,
		forecasts: forecasts,
		archiver:  archiver,
		logger:    logger.With("component", "grader"),
		now:       time.Now,
	}
}

// Run grades every pending forecast of every finished fixture. Already
// graded forecasts are never touched, so reruns are no-ops. Fixtures
// finished without recorded goals are counted as skipped.
func (g *Grader) Run(ctx context.Context) (domain.GradeRunSummary, error) {
	started := g.now().UTC()
	summary := domain.GradeRunSummary{StartedAt: started}

	finished, err := g.fixtures.ListByStatus(ctx, domain.FixtureFinished, domain.ListOpts{})
	if err != nil {
		return summary, err
	}
	summary.Fixtures = len(finished)

	var graded []domain.Forecast
	for i := range finished {
		if ctx.Err() != nil {
			summary.Duration = g.now().UTC().Sub(started)
			return summary, ctx.Err()
		}
		fixture := finished[i]

		actual, ok := ActualOutcome(fixture.Score)
		if !ok {
			summary.Skipped++
			g.logger.Warn("finished fixture without goal counts", "fixture_id", fixture.ID)
			continue
		}

		forecasts, err := g.forecasts.ListByFixture(ctx, fixture.ID)
		if err != nil {
			g.logger.Error("list forecasts failed", "fixture_id", fixture.ID, "error", err)
			continue
		}

		for j := range forecasts {
			f := forecasts[j]
			if f.Status != domain.ForecastPending {
				continue
			}

			status := domain.ForecastLost
			if PredictedOutcome(f.Outcomes.OneXTwo) == actual {
				status = domain.ForecastWon
			}

			gradedAt := g.now().UTC()
			updated, err := g.forecasts.UpdateStatus(ctx, f.ID, status, gradedAt)
			if err != nil {
				g.logger.Error("grade forecast failed", "forecast_id", f.ID, "error", err)
				continue
			}
			if !updated {
				// Another run graded it first.
				continue
			}

			if status == domain.ForecastWon {
				summary.Won++
			} else {
				summary.Lost++
			}
			f.Status = status
			f.GradedAt = &gradedAt
			graded = append(graded, f)
		}
	}

	if g.archiver != nil && len(graded) > 0 {
		if err := g.archiver.ArchiveForecasts(ctx, g.now().UTC(), graded); err != nil {
			g.logger.Warn("archive graded forecasts failed", "error", err)
		}
	}

	summary.Duration = g.now().UTC().Sub(started)
	g.logger.Info("grading run complete",
		"fixtures", summary.Fixtures,
		"won", summary.Won,
		"lost", summary.Lost,
		"skipped", summary.Skipped,
		"duration", summary.Duration)
	return summary, nil
}
