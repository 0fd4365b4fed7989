package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alanyoungcy/fixturecast/internal/domain"
)

type fakeFixtureStore struct {
	fixtures []domain.Fixture

	windowCalls int
	lastFrom    time.Time
	lastTo      time.Time
}

func (f *fakeFixtureStore) Upsert(context.Context, domain.Fixture) (domain.Fixture, bool, error) {
	return domain.Fixture{}, false, errors.New("not implemented")
}

func (f *fakeFixtureStore) GetByID(_ context.Context, id string) (domain.Fixture, error) {
	for _, fx := range f.fixtures {
		if fx.ID == id {
			return fx, nil
		}
	}
	return domain.Fixture{}, domain.ErrNotFound
}

func (f *fakeFixtureStore) GetBySourceExternalID(context.Context, string, string) (domain.Fixture, error) {
	return domain.Fixture{}, domain.ErrNotFound
}

func (f *fakeFixtureStore) GetByKey(context.Context, string) (domain.Fixture, error) {
	return domain.Fixture{}, domain.ErrNotFound
}

func (f *fakeFixtureStore) ListByStatusAndWindow(_ context.Context, _ []domain.FixtureStatus, from, to time.Time) ([]domain.Fixture, error) {
	f.windowCalls++
	f.lastFrom = from
	f.lastTo = to
	return f.fixtures, nil
}

func (f *fakeFixtureStore) ListByStatus(context.Context, domain.FixtureStatus, domain.ListOpts) ([]domain.Fixture, error) {
	return f.fixtures, nil
}

func (f *fakeFixtureStore) ListFinishedByTeamPair(context.Context, string, string, int) ([]domain.Fixture, error) {
	return nil, nil
}

func (f *fakeFixtureStore) Count(context.Context) (int64, error) {
	return int64(len(f.fixtures)), nil
}

type fakeFixtureCache struct {
	fixtures []domain.Fixture
	getErr   error
	setErr   error

	sets int
}

func (c *fakeFixtureCache) GetUpcoming(context.Context) ([]domain.Fixture, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.fixtures, nil
}

func (c *fakeFixtureCache) SetUpcoming(_ context.Context, fixtures []domain.Fixture) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.fixtures = fixtures
	c.sets++
	return nil
}

func (c *fakeFixtureCache) Invalidate(context.Context) error {
	c.fixtures = nil
	return nil
}

func TestListUpcomingCacheHit(t *testing.T) {
	store := &fakeFixtureStore{}
	cache := &fakeFixtureCache{fixtures: []domain.Fixture{{ID: "fx-1"}}}
	svc := NewFixtureService(store, cache, 72*time.Hour, discardLogger())

	fixtures, err := svc.ListUpcoming(context.Background())
	if err != nil {
		t.Fatalf("ListUpcoming: %v", err)
	}
	if len(fixtures) != 1 || fixtures[0].ID != "fx-1" {
		t.Errorf("fixtures = %+v", fixtures)
	}
	if store.windowCalls != 0 {
		t.Errorf("store queried %d times on a cache hit", store.windowCalls)
	}
}

func TestListUpcomingCacheMissFillsCache(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeFixtureStore{fixtures: []domain.Fixture{{ID: "fx-1"}, {ID: "fx-2"}}}
	cache := &fakeFixtureCache{getErr: domain.ErrNotFound}
	svc := NewFixtureService(store, cache, 72*time.Hour, discardLogger())
	svc.now = func() time.Time { return now }

	fixtures, err := svc.ListUpcoming(context.Background())
	if err != nil {
		t.Fatalf("ListUpcoming: %v", err)
	}
	if len(fixtures) != 2 {
		t.Fatalf("got %d fixtures, want 2", len(fixtures))
	}
	if !store.lastFrom.Equal(now) || !store.lastTo.Equal(now.Add(72*time.Hour)) {
		t.Errorf("window = [%v, %v], want [now, now+72h]", store.lastFrom, store.lastTo)
	}
	if cache.sets != 1 {
		t.Errorf("cache filled %d times, want 1", cache.sets)
	}
}

func TestListUpcomingCacheFailureFallsThrough(t *testing.T) {
	store := &fakeFixtureStore{fixtures: []domain.Fixture{{ID: "fx-1"}}}
	cache := &fakeFixtureCache{getErr: errors.New("redis down"), setErr: errors.New("redis down")}
	svc := NewFixtureService(store, cache, 72*time.Hour, discardLogger())

	fixtures, err := svc.ListUpcoming(context.Background())
	if err != nil {
		t.Fatalf("ListUpcoming: %v", err)
	}
	if len(fixtures) != 1 {
		t.Errorf("got %d fixtures, want 1", len(fixtures))
	}
}

func TestListUpcomingWithoutCache(t *testing.T) {
	store := &fakeFixtureStore{fixtures: []domain.Fixture{{ID: "fx-1"}}}
	svc := NewFixtureService(store, nil, 72*time.Hour, discardLogger())

	fixtures, err := svc.ListUpcoming(context.Background())
	if err != nil {
		t.Fatalf("ListUpcoming: %v", err)
	}
	if len(fixtures) != 1 {
		t.Errorf("got %d fixtures, want 1", len(fixtures))
	}
}

func TestListByBucketRejectsUnknownBucket(t *testing.T) {
	svc := NewForecastService(&fakeForecastStore{}, discardLogger())

	_, err := svc.ListByBucket(context.Background(), "platinum", domain.ListOpts{Limit: 10})
	if !errors.Is(err, domain.ErrInvalidForecast) {
		t.Fatalf("err = %v, want ErrInvalidForecast", err)
	}
}

type fakeForecastStore struct{}

func (f *fakeForecastStore) Upsert(context.Context, domain.Forecast) (domain.Forecast, bool, error) {
	return domain.Forecast{}, false, errors.New("not implemented")
}

func (f *fakeForecastStore) ListByBucket(context.Context, domain.Bucket, domain.ListOpts) ([]domain.Forecast, error) {
	return nil, nil
}

func (f *fakeForecastStore) ListByFixture(context.Context, string) ([]domain.Forecast, error) {
	return nil, nil
}

func (f *fakeForecastStore) UpdateStatus(context.Context, string, domain.ForecastStatus, time.Time) (bool, error) {
	return false, nil
}
