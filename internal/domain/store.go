package domain

import (
	"context"
	"time"
)

// ListOpts provides pagination for list queries.
type ListOpts struct {
	Limit  int
	Offset int
}

// TeamStore persists canonical teams. Upsert is keyed on the team ID and is
// atomic per key; resolution (external id, then normalized name) lives in
// the ingest resolver, which uses the Get helpers below.
type TeamStore interface {
	Upsert(ctx context.Context, team Team) (Team, error)
	GetByID(ctx context.Context, id string) (Team, error)
	GetByExternalID(ctx context.Context, externalID string) (Team, error)
	GetByNormalizedName(ctx context.Context, normalized string) (Team, error)
}

// FixtureStore persists canonical fixtures. Upsert returns an explicit
// created flag rather than leaving callers to infer insert-vs-update from
// timestamps, and must never regress a finished fixture's status or mutate
// its kickoff instant.
type FixtureStore interface {
	Upsert(ctx context.Context, fixture Fixture) (Fixture, bool, error)
	GetByID(ctx context.Context, id string) (Fixture, error)
	GetBySourceExternalID(ctx context.Context, source, externalID string) (Fixture, error)
	GetByKey(ctx context.Context, key string) (Fixture, error)
	ListByStatusAndWindow(ctx context.Context, statuses []FixtureStatus, from, to time.Time) ([]Fixture, error)
	ListByStatus(ctx context.Context, status FixtureStatus, opts ListOpts) ([]Fixture, error)
	// ListFinishedByTeamPair returns settled fixtures between the two teams in
	// either home/away orientation, most recent first, capped to limit.
	ListFinishedByTeamPair(ctx context.Context, teamA, teamB string, limit int) ([]Fixture, error)
	Count(ctx context.Context) (int64, error)
}

// ForecastStore persists forecasts keyed on (fixture id, bucket).
type ForecastStore interface {
	Upsert(ctx context.Context, forecast Forecast) (Forecast, bool, error)
	ListByFixture(ctx context.Context, fixtureID string) ([]Forecast, error)
	ListByBucket(ctx context.Context, bucket Bucket, opts ListOpts) ([]Forecast, error)
	// UpdateStatus grades a forecast. It only transitions pending forecasts;
	// an already graded forecast is left untouched and false is returned.
	UpdateStatus(ctx context.Context, id string, status ForecastStatus, gradedAt time.Time) (bool, error)
}

// LockManager provides distributed run locks so concurrent triggers of the
// same job cannot interleave.
type LockManager interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// RateLimiter bounds request rates per key over a rolling window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// FixtureCache is a read-through cache for the upcoming-fixtures API.
type FixtureCache interface {
	SetUpcoming(ctx context.Context, fixtures []Fixture) error
	GetUpcoming(ctx context.Context) ([]Fixture, error)
	Invalidate(ctx context.Context) error
}

// BlobWriter persists opaque payloads (raw provider bodies, archived
// forecasts) to object storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data []byte, contentType string) error
}
