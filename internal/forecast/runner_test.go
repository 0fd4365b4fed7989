package forecast

import (
	"context"
	"testing"
	"time"

	"github.com/alanyoungcy/fixturecast/internal/domain"
	"github.com/alanyoungcy/fixturecast/internal/retry"
)

func upcomingFixture(id string, kickoff time.Time) domain.Fixture {
	return domain.Fixture{
		ID:           id,
		Status:       domain.FixtureScheduled,
		KickoffUTC:   kickoff,
		League:       "Premier League",
		HomeTeamID:   "t-home-" + id,
		AwayTeamID:   "t-away-" + id,
		HomeTeamName: "Home " + id,
		AwayTeamName: "Away " + id,
	}
}

func newRunner(fixtures *fakeFixtureStore, forecasts *fakeForecastStore, o *mockOracle, now time.Time) *Runner {
	gen := NewGenerator(o, GeneratorConfig{
		Models:        []string{"model-a"},
		MinConfidence: 70,
		Retry:         retry.Policy{MaxAttempts: 1},
	}, discardLogger())

	r := NewRunner(fixtures, forecasts, gen, RunnerConfig{
		Window:       72 * time.Hour,
		HistoryLimit: 5,
	}, discardLogger())
	r.now = func() time.Time { return now }
	return r
}

func TestRunnerPersistsForecasts(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	fixtures := newFakeFixtureStore(
		upcomingFixture("fx-1", now.Add(24*time.Hour)),
		// Outside the window: ignored.
		upcomingFixture("fx-2", now.Add(96*time.Hour)),
	)
	forecasts := newFakeForecastStore()
	o := &mockOracle{responses: map[string][]string{"model-a": {validResponse}}}

	summary, err := newRunner(fixtures, forecasts, o, now).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Fixtures != 1 {
		t.Errorf("fixtures = %d, want 1 (window filter)", summary.Fixtures)
	}
	if summary.Generated != 1 {
		t.Errorf("generated = %d, want 1", summary.Generated)
	}
	if _, ok := forecasts.get("fx-1", domain.BucketVIP); !ok {
		t.Error("forecast not persisted")
	}
}

func TestRunnerUpsertsInPlace(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	fixtures := newFakeFixtureStore(upcomingFixture("fx-1", now.Add(24*time.Hour)))
	forecasts := newFakeForecastStore()

	o := &mockOracle{responses: map[string][]string{"model-a": {validResponse}}}
	if _, err := newRunner(fixtures, forecasts, o, now).Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first, _ := forecasts.get("fx-1", domain.BucketVIP)

	o = &mockOracle{responses: map[string][]string{"model-a": {validResponse}}}
	if _, err := newRunner(fixtures, forecasts, o, now).Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	second, ok := forecasts.get("fx-1", domain.BucketVIP)
	if !ok {
		t.Fatal("forecast missing after second run")
	}
	if second.ID != first.ID {
		t.Errorf("second run created a new row: %q vs %q", second.ID, first.ID)
	}
	if len(forecasts.forecasts) != 1 {
		t.Errorf("stored forecasts = %d, want exactly 1", len(forecasts.forecasts))
	}
}

func TestRunnerOracleExhaustionIsNotFatal(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	fixtures := newFakeFixtureStore(
		upcomingFixture("fx-1", now.Add(2*time.Hour)),
		upcomingFixture("fx-2", now.Add(4*time.Hour)),
	)
	forecasts := newFakeForecastStore()

	// No scripted responses at all: every generation fails.
	o := &mockOracle{}

	summary, err := newRunner(fixtures, forecasts, o, now).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Unavailable != 2 {
		t.Errorf("unavailable = %d, want 2", summary.Unavailable)
	}
	if summary.Generated != 0 {
		t.Errorf("generated = %d, want 0", summary.Generated)
	}
}
