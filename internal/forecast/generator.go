// Package forecast generates probabilistic outcome forecasts for upcoming
// fixtures through an external oracle, and grades them once fixtures settle.
package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alanyoungcy/fixturecast/internal/domain"
	"github.com/alanyoungcy/fixturecast/internal/oracle"
	"github.com/alanyoungcy/fixturecast/internal/retry"
)

// GeneratorConfig holds generation policy.
type GeneratorConfig struct {
	// Models is the fallback chain of oracle model ids, primary first.
	Models []string
	// MinConfidence discards validated forecasts below this floor (0-100).
	MinConfidence float64
	// Retry governs attempts against a single model before moving on.
	Retry retry.Policy
}

// Generator builds a context prompt per fixture and runs the model-fallback
// loop. It is side-effect free with respect to the store; the caller
// persists what it returns.
type Generator struct {
	oracle oracle.Generator
	cfg    GeneratorConfig
	logger *slog.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(o oracle.Generator, cfg GeneratorConfig, logger *slog.Logger) *Generator {
	return &Generator{
		oracle: o,
		cfg:    cfg,
		logger: logger.With("component", "forecast"),
	}
}

// Generate produces forecasts for one fixture given its head-to-head
// history. Models are tried in priority order; within a model, transient
// failures and unparseable responses are retried per the policy. When every
// model exhausts its budget the error wraps domain.ErrForecastUnavailable,
// which callers treat as "no forecast this cycle", not a pipeline abort.
// filtered counts validated forecasts dropped by the confidence floor.
func (g *Generator) Generate(ctx context.Context, fixture domain.Fixture, history []domain.Fixture) (forecasts []domain.Forecast, filtered int, err error) {
	prompt := buildPrompt(fixture, history)

	for _, modelID := range g.cfg.Models {
		var parsed []oracleForecast

		attemptErr := g.cfg.Retry.Do(ctx, func() error {
			raw, err := g.oracle.GenerateStructuredContent(ctx, prompt, modelID)
			if err != nil {
				return err
			}
			valid, dropped, err := parseResponse(raw)
			if err != nil {
				return err
			}
			if dropped > 0 {
				g.logger.Warn("oracle objects failed validation",
					"model", modelID, "fixture_id", fixture.ID, "dropped", dropped)
			}
			if len(valid) == 0 {
				return fmt.Errorf("forecast: model %s returned no valid objects", modelID)
			}
			parsed = valid
			return nil
		})
		if attemptErr != nil {
			if ctx.Err() != nil {
				return nil, 0, attemptErr
			}
			g.logger.Warn("model exhausted, trying next",
				"model", modelID, "fixture_id", fixture.ID, "error", attemptErr)
			continue
		}

		for i := range parsed {
			f := toDomain(&parsed[i], fixture.ID, modelID)
			if f.Confidence < g.cfg.MinConfidence {
				filtered++
				continue
			}
			forecasts = append(forecasts, f)
		}
		return forecasts, filtered, nil
	}

	return nil, 0, fmt.Errorf("%w: fixture %s", domain.ErrForecastUnavailable, fixture.ID)
}

// buildPrompt renders the fixture identity, kickoff, and head-to-head lines
// plus the strict output contract.
func buildPrompt(fixture domain.Fixture, history []domain.Fixture) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a football match forecaster.\n\n")
	fmt.Fprintf(&b, "Match: %s vs %s\n", fixture.HomeTeamName, fixture.AwayTeamName)
	fmt.Fprintf(&b, "League: %s", fixture.League)
	if fixture.Country != "" {
		fmt.Fprintf(&b, " (%s)", fixture.Country)
	}
	b.WriteString("\n")
	if fixture.Season != "" {
		fmt.Fprintf(&b, "Season: %s\n", fixture.Season)
	}
	fmt.Fprintf(&b, "Kickoff: %s\n", fixture.KickoffUTC.UTC().Format(time.RFC3339))

	if len(history) > 0 {
		b.WriteString("\nHead-to-head, most recent first:\n")
		for _, h := range history {
			if h.Score.HomeGoals == nil || h.Score.AwayGoals == nil {
				continue
			}
			fmt.Fprintf(&b, "- %s: %s %d-%d %s\n",
				h.KickoffUTC.UTC().Format("2006-01-02"),
				h.HomeTeamName, *h.Score.HomeGoals, *h.Score.AwayGoals, h.AwayTeamName)
		}
	}

	b.WriteString(`
Return ONLY a JSON array, no prose and no code fences. Each element must be:
{
  "bucket": one of "vip", "daily2", "value5", "big10",
  "confidence": number from 0 to 100,
  "one_x_two": {"home": p, "draw": p, "away": p},
  "double_chance": {"home_or_draw": p, "draw_or_away": p, "home_or_away": p},
  "over_under": {"over_1_5": p, "over_2_5": p, "over_3_5": p},
  "btts_yes": p
}
where every p is a probability between 0 and 1. Emit at most one element per
bucket, and only buckets you have real conviction about.`)

	return b.String()
}
