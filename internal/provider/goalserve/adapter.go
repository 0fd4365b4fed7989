// Package goalserve adapts the goalserve soccer feed, a JSON rendering of
// an XML document: day-first date strings, "?" score placeholders, and
// fields that may be a single object or an array.
package goalserve

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/alanyoungcy/fixturecast/internal/domain"
	"github.com/alanyoungcy/fixturecast/internal/provider"
)

// SourceName identifies this provider in fixture records and config.
const SourceName = "goalserve"

// Parse decodes a goalserve payload into raw fixtures. Matches with a
// missing team name or an unparseable date are skipped, never fatal.
func Parse(payload []byte) (fixtures []domain.RawFixture, skipped int, err error) {
	var env gsEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, 0, fmt.Errorf("goalserve: decode payload: %w", err)
	}

	for i := range env.Scores.Category {
		cat := &env.Scores.Category[i]
		for j := range cat.Matches {
			raw, ok := toRawFixture(cat, &cat.Matches[j])
			if !ok {
				skipped++
				continue
			}
			fixtures = append(fixtures, raw)
		}
	}
	return fixtures, skipped, nil
}

func toRawFixture(cat *gsCategory, m *gsMatch) (domain.RawFixture, bool) {
	if m.LocalTeam.Name == "" || m.AwayTeam.Name == "" {
		return domain.RawFixture{}, false
	}

	kickoff, err := provider.ParseKickoff(m.Date, m.Time)
	if err != nil {
		return domain.RawFixture{}, false
	}

	// static_id is goalserve's stable cross-day id; @id recycles.
	externalID := m.StaticID
	if externalID == "" {
		externalID = m.ID
	}

	payload, _ := json.Marshal(m)

	return domain.RawFixture{
		ExternalID: externalID,
		League:     cat.Name,
		Country:    cat.Country,
		Season:     cat.Season,
		Stage:      cat.Stage,
		RawDate:    m.Date,
		RawTime:    m.Time,
		KickoffUTC: kickoff,
		Status:     provider.MapStatus(m.Status),
		Home: domain.TeamDescriptor{
			Name:       m.LocalTeam.Name,
			ExternalID: m.LocalTeam.ID,
		},
		Away: domain.TeamDescriptor{
			Name:       m.AwayTeam.Name,
			ExternalID: m.AwayTeam.ID,
		},
		Score:   toScore(m),
		Payload: payload,
	}, true
}

func toScore(m *gsMatch) domain.Score {
	s := domain.Score{
		HomeGoals: parseGoals(m.LocalTeam.Goals),
		AwayGoals: parseGoals(m.AwayTeam.Goals),
	}
	if m.ET != nil {
		s.HomeET = parseGoals(m.ET.LocalGoals)
		s.AwayET = parseGoals(m.ET.AwayGoals)
	}
	if m.Penalty != nil {
		s.HomePenalty = parseGoals(m.Penalty.LocalGoals)
		s.AwayPenalty = parseGoals(m.Penalty.AwayGoals)
	}
	return s
}

// parseGoals turns a goal string into a count; "?" and "" mean not played.
func parseGoals(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "?" || raw == "-" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}
