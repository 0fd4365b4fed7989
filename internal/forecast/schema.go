package forecast

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alanyoungcy/fixturecast/internal/domain"
)

// oracleForecast is the wire schema the oracle is instructed to return: a
// JSON array of these objects. Pointer fields distinguish absent from zero
// during validation.
type oracleForecast struct {
	Bucket       string           `json:"bucket"`
	Confidence   *float64         `json:"confidence"`
	OneXTwo      *oracleOneXTwo   `json:"one_x_two"`
	DoubleChance oracleDC         `json:"double_chance"`
	OverUnder    oracleOU         `json:"over_under"`
	BTTSYes      float64          `json:"btts_yes"`
}

type oracleOneXTwo struct {
	Home *float64 `json:"home"`
	Draw *float64 `json:"draw"`
	Away *float64 `json:"away"`
}

type oracleDC struct {
	HomeOrDraw float64 `json:"home_or_draw"`
	DrawOrAway float64 `json:"draw_or_away"`
	HomeOrAway float64 `json:"home_or_away"`
}

type oracleOU struct {
	Over15 float64 `json:"over_1_5"`
	Over25 float64 `json:"over_2_5"`
	Over35 float64 `json:"over_3_5"`
}

// parseResponse strips any non-JSON wrapping from raw oracle output and
// decodes the forecast array. A single undecodable or schema-invalid object
// is dropped, not fatal; dropped reports how many were.
func parseResponse(raw string) (valid []oracleForecast, dropped int, err error) {
	cleaned := extractJSONArray(stripCodeFences(raw))
	if cleaned == "" {
		return nil, 0, fmt.Errorf("forecast: no JSON array in oracle response")
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, 0, fmt.Errorf("forecast: decode oracle response: %w", err)
	}

	for _, item := range items {
		var of oracleForecast
		if err := json.Unmarshal(item, &of); err != nil {
			dropped++
			continue
		}
		if err := validate(&of); err != nil {
			dropped++
			continue
		}
		valid = append(valid, of)
	}
	return valid, dropped, nil
}

// validate checks one oracle object against the outcome schema: the 1X2
// triple present and numeric, confidence in [0,100], bucket in the fixed
// enumeration.
func validate(of *oracleForecast) error {
	if !domain.ValidBuckets[domain.Bucket(of.Bucket)] {
		return fmt.Errorf("%w: bucket %q", domain.ErrInvalidForecast, of.Bucket)
	}
	if of.Confidence == nil || *of.Confidence < 0 || *of.Confidence > 100 {
		return fmt.Errorf("%w: confidence out of range", domain.ErrInvalidForecast)
	}
	if of.OneXTwo == nil || of.OneXTwo.Home == nil || of.OneXTwo.Draw == nil || of.OneXTwo.Away == nil {
		return fmt.Errorf("%w: incomplete 1X2 triple", domain.ErrInvalidForecast)
	}
	return nil
}

// toDomain converts a validated oracle object into a forecast for fixtureID,
// clamping every probability into [0,1].
func toDomain(of *oracleForecast, fixtureID, modelID string) domain.Forecast {
	f := domain.Forecast{
		FixtureID: fixtureID,
		Bucket:    domain.Bucket(of.Bucket),
		Outcomes: domain.Outcomes{
			OneXTwo: domain.OneXTwo{
				Home: *of.OneXTwo.Home,
				Draw: *of.OneXTwo.Draw,
				Away: *of.OneXTwo.Away,
			},
			DoubleChance: domain.DoubleChance{
				HomeOrDraw: of.DoubleChance.HomeOrDraw,
				DrawOrAway: of.DoubleChance.DrawOrAway,
				HomeOrAway: of.DoubleChance.HomeOrAway,
			},
			OverUnder: domain.OverUnder{
				Over15: of.OverUnder.Over15,
				Over25: of.OverUnder.Over25,
				Over35: of.OverUnder.Over35,
			},
			BTTSYes: of.BTTSYes,
		},
		Confidence: *of.Confidence,
		ModelID:    modelID,
		Status:     domain.ForecastPending,
	}
	f.Outcomes.Clamp()
	return f
}

// stripCodeFences removes markdown fence lines so fenced responses parse.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "```") {
		return s
	}

	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// extractJSONArray returns the substring from the first '[' through the last
// ']', discarding any leading or trailing prose.
func extractJSONArray(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
