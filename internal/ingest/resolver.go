// Package ingest reconciles provider feeds into the canonical store: team
// and fixture identity resolution, the provider fallback chain, and the
// per-run aggregate summary.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/fixturecast/internal/domain"
)

// Resolver deduplicates teams and fixtures across polls and providers.
type Resolver struct {
	teams    domain.TeamStore
	fixtures domain.FixtureStore
	logger   *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(teams domain.TeamStore, fixtures domain.FixtureStore, logger *slog.Logger) *Resolver {
	return &Resolver{
		teams:    teams,
		fixtures: fixtures,
		logger:   logger.With("component", "resolver"),
	}
}

// ResolveTeam finds or creates the canonical team for a descriptor.
// Resolution order: provider external id, then exact normalized name, then
// create. On a match, empty metadata fields are backfilled from the
// descriptor; populated fields are never overwritten.
func (r *Resolver) ResolveTeam(ctx context.Context, d domain.TeamDescriptor) (domain.Team, error) {
	if d.Name == "" {
		return domain.Team{}, fmt.Errorf("ingest: team descriptor missing name")
	}

	existing, err := r.lookupTeam(ctx, d)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.Team{}, err
	}
	if err == nil {
		if existing.Merge(d) {
			return r.teams.Upsert(ctx, existing)
		}
		return existing, nil
	}

	team := domain.Team{
		ExternalID: d.ExternalID,
		Name:       d.Name,
		ShortName:  d.ShortName,
		Code:       d.Code,
		Country:    d.Country,
		LogoURL:    d.LogoURL,
	}
	return r.teams.Upsert(ctx, team)
}

func (r *Resolver) lookupTeam(ctx context.Context, d domain.TeamDescriptor) (domain.Team, error) {
	if d.ExternalID != "" {
		team, err := r.teams.GetByExternalID(ctx, d.ExternalID)
		if err == nil {
			return team, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return domain.Team{}, err
		}
	}
	return r.teams.GetByNormalizedName(ctx, domain.NormalizeTeamName(d.Name))
}

// ResolveFixture reconciles one raw fixture from source into the store and
// reports whether it created a new record. Resolution order: provider
// identity (source, external id), then the derived (league, date, home,
// away) key. The derived key is a documented last resort; spelling drift
// across polls can split one real match into two records. A finished status
// arriving without goal counts is held at live until the score lands.
func (r *Resolver) ResolveFixture(ctx context.Context, source string, raw domain.RawFixture) (domain.Fixture, bool, error) {
	home, err := r.ResolveTeam(ctx, raw.Home)
	if err != nil {
		return domain.Fixture{}, false, fmt.Errorf("ingest: resolve home team: %w", err)
	}
	away, err := r.ResolveTeam(ctx, raw.Away)
	if err != nil {
		return domain.Fixture{}, false, fmt.Errorf("ingest: resolve away team: %w", err)
	}

	key := domain.FixtureKey(raw.League, raw.KickoffUTC, raw.Home.Name, raw.Away.Name)

	status := raw.Status
	if status == domain.FixtureFinished && !raw.Score.Settled() {
		// goalserve reports "FT" with "?" goals while its score lags the
		// status. A finished fixture must carry goal counts, so hold it at
		// live until a poll delivers them.
		r.logger.Warn("finished status without goal counts, holding at live",
			"source", source, "external_id", raw.ExternalID, "key", key)
		status = domain.FixtureLive
	}

	existing, err := r.lookupFixture(ctx, source, raw.ExternalID, key)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.Fixture{}, false, err
	}

	fixture := domain.Fixture{
		Source:       source,
		ExternalID:   raw.ExternalID,
		Key:          key,
		League:       raw.League,
		Country:      raw.Country,
		Season:       raw.Season,
		Stage:        raw.Stage,
		KickoffUTC:   raw.KickoffUTC,
		Status:       status,
		HomeTeamID:   home.ID,
		AwayTeamID:   away.ID,
		HomeTeamName: home.Name,
		AwayTeamName: away.Name,
		Score:        raw.Score,
		Payload:      raw.Payload,
	}
	if err == nil {
		// Keep the stored identity so a spelling change cannot fork the key.
		fixture.ID = existing.ID
		fixture.Key = existing.Key
	}

	return r.fixtures.Upsert(ctx, fixture)
}

func (r *Resolver) lookupFixture(ctx context.Context, source, externalID, key string) (domain.Fixture, error) {
	if externalID != "" {
		f, err := r.fixtures.GetBySourceExternalID(ctx, source, externalID)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return domain.Fixture{}, err
		}
	}
	return r.fixtures.GetByKey(ctx, key)
}
