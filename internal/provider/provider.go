// Package provider defines the upstream feed abstraction shared by all
// fixture sources, plus the HTTP fetch and parsing helpers they build on.
// Adapters are pure parsers over an already-fetched body; all I/O lives in
// the per-provider clients.
package provider

import (
	"context"
	"errors"

	"github.com/alanyoungcy/fixturecast/internal/domain"
)

// ErrNoHistoryFeed is returned by sources that do not expose a separate
// finished-fixtures feed.
var ErrNoHistoryFeed = errors.New("provider: no history feed")

// Feed is the result of one fetch-and-parse cycle against a source.
// Payload is the raw upstream body, retained for archival.
type Feed struct {
	Payload  []byte
	Fixtures []domain.RawFixture
	Skipped  int
}

// Source is a single upstream fixtures feed. Implementations fetch with
// their own auth scheme and parse with their own adapter.
type Source interface {
	Name() string

	// FetchUpcoming returns the scheduled-fixtures feed.
	FetchUpcoming(ctx context.Context) (*Feed, error)

	// FetchHistory returns the settled-fixtures feed, or ErrNoHistoryFeed.
	FetchHistory(ctx context.Context) (*Feed, error)
}
