package forecast

import (
	"context"
	"testing"
	"time"

	"github.com/alanyoungcy/fixturecast/internal/domain"
)

func intp(n int) *int { return &n }

func TestActualOutcome(t *testing.T) {
	tests := []struct {
		name  string
		score domain.Score
		want  Outcome
		ok    bool
	}{
		{
			name:  "home win",
			score: domain.Score{HomeGoals: intp(2), AwayGoals: intp(1)},
			want:  OutcomeHome, ok: true,
		},
		{
			name:  "away win",
			score: domain.Score{HomeGoals: intp(1), AwayGoals: intp(3)},
			want:  OutcomeAway, ok: true,
		},
		{
			name:  "draw",
			score: domain.Score{HomeGoals: intp(1), AwayGoals: intp(1)},
			want:  OutcomeDraw, ok: true,
		},
		{
			name: "level full time decided in extra time",
			score: domain.Score{
				HomeGoals: intp(1), AwayGoals: intp(1),
				HomeET: intp(2), AwayET: intp(1),
			},
			want: OutcomeHome, ok: true,
		},
		{
			name: "level through extra time decided on penalties",
			score: domain.Score{
				HomeGoals: intp(1), AwayGoals: intp(1),
				HomeET: intp(1), AwayET: intp(1),
				HomePenalty: intp(3), AwayPenalty: intp(4),
			},
			want: OutcomeAway, ok: true,
		},
		{
			name:  "unsettled",
			score: domain.Score{HomeGoals: intp(2)},
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ActualOutcome(tt.score)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("outcome = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPredictedOutcome(t *testing.T) {
	tests := []struct {
		name string
		p    domain.OneXTwo
		want Outcome
	}{
		{"clear home", domain.OneXTwo{Home: 0.6, Draw: 0.2, Away: 0.2}, OutcomeHome},
		{"clear away", domain.OneXTwo{Home: 0.1, Draw: 0.3, Away: 0.6}, OutcomeAway},
		{"clear draw", domain.OneXTwo{Home: 0.2, Draw: 0.5, Away: 0.3}, OutcomeDraw},
		{"home ties draw", domain.OneXTwo{Home: 0.4, Draw: 0.4, Away: 0.2}, OutcomeDraw},
		{"home ties away", domain.OneXTwo{Home: 0.45, Draw: 0.1, Away: 0.45}, OutcomeDraw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PredictedOutcome(tt.p); got != tt.want {
				t.Errorf("PredictedOutcome(%+v) = %q, want %q", tt.p, got, tt.want)
			}
		})
	}
}

func finishedFixture(id string, home, away int) domain.Fixture {
	return domain.Fixture{
		ID:     id,
		Status: domain.FixtureFinished,
		Score:  domain.Score{HomeGoals: intp(home), AwayGoals: intp(away)},
	}
}

func pendingForecast(id, fixtureID string, bucket domain.Bucket, p domain.OneXTwo) domain.Forecast {
	return domain.Forecast{
		ID:        id,
		FixtureID: fixtureID,
		Bucket:    bucket,
		Outcomes:  domain.Outcomes{OneXTwo: p},
		Status:    domain.ForecastPending,
	}
}

func TestGraderRun(t *testing.T) {
	fixtures := newFakeFixtureStore(
		finishedFixture("fx-1", 2, 1),
		finishedFixture("fx-2", 0, 3),
	)
	forecasts := newFakeForecastStore(
		pendingForecast("fc-1", "fx-1", domain.BucketVIP, domain.OneXTwo{Home: 0.6, Draw: 0.2, Away: 0.2}),
		pendingForecast("fc-2", "fx-2", domain.BucketVIP, domain.OneXTwo{Home: 0.6, Draw: 0.2, Away: 0.2}),
	)

	g := NewGrader(fixtures, forecasts, nil, discardLogger())
	summary, err := g.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Won != 1 || summary.Lost != 1 {
		t.Errorf("won/lost = %d/%d, want 1/1", summary.Won, summary.Lost)
	}

	f1, _ := forecasts.get("fx-1", domain.BucketVIP)
	if f1.Status != domain.ForecastWon {
		t.Errorf("fx-1 forecast status = %q, want won", f1.Status)
	}
	if f1.GradedAt == nil {
		t.Error("fx-1 forecast has no graded timestamp")
	}
	f2, _ := forecasts.get("fx-2", domain.BucketVIP)
	if f2.Status != domain.ForecastLost {
		t.Errorf("fx-2 forecast status = %q, want lost", f2.Status)
	}
}

func TestGraderRunIdempotent(t *testing.T) {
	fixtures := newFakeFixtureStore(finishedFixture("fx-1", 2, 1))
	forecasts := newFakeForecastStore(
		pendingForecast("fc-1", "fx-1", domain.BucketVIP, domain.OneXTwo{Home: 0.6, Draw: 0.2, Away: 0.2}),
	)

	g := NewGrader(fixtures, forecasts, nil, discardLogger())
	if _, err := g.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	first, _ := forecasts.get("fx-1", domain.BucketVIP)

	summary, err := g.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.Won != 0 || summary.Lost != 0 {
		t.Errorf("second run won/lost = %d/%d, want 0/0", summary.Won, summary.Lost)
	}

	second, _ := forecasts.get("fx-1", domain.BucketVIP)
	if second.Status != first.Status || !second.GradedAt.Equal(*first.GradedAt) {
		t.Error("regrading modified an already graded forecast")
	}
}

func TestGraderSkipsFixturesWithoutGoals(t *testing.T) {
	fixture := domain.Fixture{ID: "fx-1", Status: domain.FixtureFinished}
	fixtures := newFakeFixtureStore(fixture)
	forecasts := newFakeForecastStore(
		pendingForecast("fc-1", "fx-1", domain.BucketVIP, domain.OneXTwo{Home: 0.6, Draw: 0.2, Away: 0.2}),
	)

	g := NewGrader(fixtures, forecasts, nil, discardLogger())
	summary, err := g.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", summary.Skipped)
	}

	f, _ := forecasts.get("fx-1", domain.BucketVIP)
	if f.Status != domain.ForecastPending {
		t.Errorf("forecast status = %q, want still pending", f.Status)
	}
}

type captureArchiver struct {
	forecasts []domain.Forecast
}

func (c *captureArchiver) ArchiveForecasts(_ context.Context, _ time.Time, fs []domain.Forecast) error {
	c.forecasts = append(c.forecasts, fs...)
	return nil
}

func TestGraderArchivesGradedForecasts(t *testing.T) {
	fixtures := newFakeFixtureStore(finishedFixture("fx-1", 1, 1))
	forecasts := newFakeForecastStore(
		pendingForecast("fc-1", "fx-1", domain.BucketDaily2, domain.OneXTwo{Home: 0.2, Draw: 0.5, Away: 0.3}),
	)
	arch := &captureArchiver{}

	g := NewGrader(fixtures, forecasts, arch, discardLogger())
	if _, err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(arch.forecasts) != 1 || arch.forecasts[0].Status != domain.ForecastWon {
		t.Errorf("archived = %+v, want one won forecast", arch.forecasts)
	}
}
