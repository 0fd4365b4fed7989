package domain

import (
	"encoding/json"
	"time"
)

// RawFixture is the adapter output: one parsed fixture from one provider
// payload, normalized to a single shape but not yet reconciled against the
// store. Untyped provider maps never cross this boundary.
type RawFixture struct {
	ExternalID string // provider-native fixture id, empty when unstable
	League     string
	Country    string
	Season     string
	Stage      string

	// RawDate and RawTime are the provider's original encodings, kept for
	// observability. KickoffUTC is the parsed instant; adapters drop any
	// fixture whose date cannot be parsed.
	RawDate    string
	RawTime    string
	KickoffUTC time.Time

	Status FixtureStatus
	Home   TeamDescriptor
	Away   TeamDescriptor
	Score  Score

	// Payload carries provider extras (lineups, events, odds) opaquely.
	Payload json.RawMessage
}
