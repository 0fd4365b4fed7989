// Package sportsdb adapts the thesportsdb events feed: all-string scalars,
// epoch-or-ISO timestamps, and team badge art used for logo backfill.
package sportsdb

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alanyoungcy/fixturecast/internal/domain"
	"github.com/alanyoungcy/fixturecast/internal/provider"
)

// SourceName identifies this provider in fixture records and config.
const SourceName = "sportsdb"

// Parse decodes a thesportsdb events payload into raw fixtures. Events with
// a missing team name or no parseable kickoff are skipped.
func Parse(payload []byte) (fixtures []domain.RawFixture, skipped int, err error) {
	var env sdbEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, 0, fmt.Errorf("sportsdb: decode payload: %w", err)
	}

	fixtures = make([]domain.RawFixture, 0, len(env.Events))
	for i := range env.Events {
		raw, ok := toRawFixture(&env.Events[i])
		if !ok {
			skipped++
			continue
		}
		fixtures = append(fixtures, raw)
	}
	return fixtures, skipped, nil
}

func toRawFixture(ev *sdbEvent) (domain.RawFixture, bool) {
	if ev.ID == "" || ev.HomeTeam == "" || ev.AwayTeam == "" {
		return domain.RawFixture{}, false
	}

	kickoff, ok := parseKickoff(ev)
	if !ok {
		return domain.RawFixture{}, false
	}

	payload, _ := json.Marshal(ev)

	return domain.RawFixture{
		ExternalID: ev.ID,
		League:     ev.League,
		Country:    ev.Country,
		Season:     ev.Season,
		Stage:      ev.Round,
		RawDate:    ev.DateEvent,
		RawTime:    ev.TimeEvent,
		KickoffUTC: kickoff,
		Status:     provider.MapStatus(ev.Status),
		Home: domain.TeamDescriptor{
			Name:       ev.HomeTeam,
			ExternalID: ev.HomeTeamID,
			LogoURL:    ev.HomeBadge,
		},
		Away: domain.TeamDescriptor{
			Name:       ev.AwayTeam,
			ExternalID: ev.AwayTeamID,
			LogoURL:    ev.AwayBadge,
		},
		Score: domain.Score{
			HomeGoals:   parseCount(ev.HomeScore),
			AwayGoals:   parseCount(ev.AwayScore),
			HomePenalty: parseCount(ev.HomePenalties),
			AwayPenalty: parseCount(ev.AwayPenalties),
		},
		Payload: payload,
	}, true
}

// parseKickoff prefers the epoch timestamp, then the ISO timestamp, then
// the split date and time fields.
func parseKickoff(ev *sdbEvent) (time.Time, bool) {
	if ev.Timestamp != "" {
		if t, err := provider.ParseEpochSeconds(ev.Timestamp); err == nil {
			return t, true
		}
		if t, err := provider.ParseKickoff(ev.Timestamp, ""); err == nil {
			return t, true
		}
	}
	if t, err := provider.ParseKickoff(ev.DateEvent, ev.TimeEvent); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func parseCount(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}
