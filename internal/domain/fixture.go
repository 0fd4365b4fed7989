package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// FixtureStatus represents the lifecycle state of a fixture.
type FixtureStatus string

const (
	FixtureScheduled FixtureStatus = "scheduled"
	FixtureUpcoming  FixtureStatus = "upcoming"
	FixtureTBA       FixtureStatus = "tba"
	FixtureLive      FixtureStatus = "live"
	FixtureFinished  FixtureStatus = "finished"
	FixturePostponed FixtureStatus = "postponed"
	FixtureCancelled FixtureStatus = "cancelled"
)

// ValidFixtureStatuses enumerates every accepted lifecycle state.
var ValidFixtureStatuses = map[FixtureStatus]bool{
	FixtureScheduled: true,
	FixtureUpcoming:  true,
	FixtureTBA:       true,
	FixtureLive:      true,
	FixtureFinished:  true,
	FixturePostponed: true,
	FixtureCancelled: true,
}

// Score holds the goal counts for a fixture. Pointers distinguish "no score
// yet" from an actual 0. Extra-time and penalty sub-scores are only present
// for providers that report them.
type Score struct {
	HomeGoals   *int `json:"home_goals"`
	AwayGoals   *int `json:"away_goals"`
	HomeET      *int `json:"home_et,omitempty"`
	AwayET      *int `json:"away_et,omitempty"`
	HomePenalty *int `json:"home_penalty,omitempty"`
	AwayPenalty *int `json:"away_penalty,omitempty"`
}

// Settled reports whether full-time goal counts are present. A fixture may
// only be marked finished once Settled is true.
func (s Score) Settled() bool {
	return s.HomeGoals != nil && s.AwayGoals != nil
}

// Fixture is the canonical record for a single match, reconciled across
// providers. Source plus ExternalID identify a fixture for providers with
// stable ids; Key is the derived fallback identity for the rest.
type Fixture struct {
	ID           string
	Source       string // provider that first created the record
	ExternalID   string // provider-native id, empty when the source has none
	Key          string // derived (league, date, home, away) key
	League       string
	Country      string
	Season       string
	Stage        string
	KickoffUTC   time.Time // immutable after first write
	Status       FixtureStatus
	HomeTeamID   string
	AwayTeamID   string
	HomeTeamName string
	AwayTeamName string
	Score        Score
	Payload      json.RawMessage // opaque provider extras (lineups, events, odds)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FixtureKey derives the fallback composite identity for providers without a
// stable fixture id. It is a documented last-resort resolution strategy:
// name drift across polls can split one match into two records.
func FixtureKey(league string, kickoff time.Time, homeName, awayName string) string {
	parts := []string{
		normalizeKeyPart(league),
		kickoff.UTC().Format("2006-01-02"),
		NormalizeTeamName(homeName),
		NormalizeTeamName(awayName),
	}
	return strings.Join(parts, "|")
}

func normalizeKeyPart(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "|", " ")
	return strings.Join(strings.Fields(s), " ")
}
