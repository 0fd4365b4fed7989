// Package service holds the read-side services behind the HTTP API and the
// lock-guarded job runner shared by the API and the scheduled modes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alanyoungcy/fixturecast/internal/domain"
)

// upcomingStatuses are the lifecycle states shown on the upcoming board.
var upcomingStatuses = []domain.FixtureStatus{
	domain.FixtureScheduled,
	domain.FixtureUpcoming,
	domain.FixtureTBA,
	domain.FixtureLive,
}

// FixtureService serves fixture reads. Upcoming listings go through the
// Redis cache; everything else hits the store directly.
type FixtureService struct {
	fixtures domain.FixtureStore
	cache    domain.FixtureCache
	window   time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewFixtureService creates a FixtureService. cache may be nil, in which
// case every read goes to the store.
func NewFixtureService(fixtures domain.FixtureStore, cache domain.FixtureCache, window time.Duration, logger *slog.Logger) *FixtureService {
	return &FixtureService{
		fixtures: fixtures,
		cache:    cache,
		window:   window,
		logger:   logger.With(slog.String("component", "fixture_service")),
		now:      time.Now,
	}
}

// ListUpcoming returns fixtures inside the retention window, cache first.
func (s *FixtureService) ListUpcoming(ctx context.Context) ([]domain.Fixture, error) {
	if s.cache != nil {
		cached, err := s.cache.GetUpcoming(ctx)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "cache read failed",
				slog.String("error", err.Error()),
			)
		}
	}

	from := s.now().UTC()
	fixtures, err := s.fixtures.ListByStatusAndWindow(ctx, upcomingStatuses, from, from.Add(s.window))
	if err != nil {
		return nil, fmt.Errorf("fixture_service: list upcoming: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetUpcoming(ctx, fixtures); err != nil {
			s.logger.WarnContext(ctx, "cache write failed",
				slog.String("error", err.Error()),
			)
		}
	}
	return fixtures, nil
}

// GetFixture returns one fixture by its ID.
func (s *FixtureService) GetFixture(ctx context.Context, id string) (domain.Fixture, error) {
	return s.fixtures.GetByID(ctx, id)
}

// ListByStatus returns fixtures in a given lifecycle state with pagination.
func (s *FixtureService) ListByStatus(ctx context.Context, status domain.FixtureStatus, opts domain.ListOpts) ([]domain.Fixture, error) {
	return s.fixtures.ListByStatus(ctx, status, opts)
}

// Count returns the total number of stored fixtures.
func (s *FixtureService) Count(ctx context.Context) (int64, error) {
	return s.fixtures.Count(ctx)
}
