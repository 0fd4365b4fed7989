package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/alanyoungcy/fixturecast/internal/domain"
)

// fakeFixtureStore is an in-memory domain.FixtureStore for tests.
type fakeFixtureStore struct {
	fixtures map[string]domain.Fixture
}

func newFakeFixtureStore(fixtures ...domain.Fixture) *fakeFixtureStore {
	s := &fakeFixtureStore{fixtures: map[string]domain.Fixture{}}
	for _, f := range fixtures {
		s.fixtures[f.ID] = f
	}
	return s
}

func (s *fakeFixtureStore) Upsert(_ context.Context, f domain.Fixture) (domain.Fixture, bool, error) {
	_, existed := s.fixtures[f.ID]
	s.fixtures[f.ID] = f
	return f, !existed, nil
}

func (s *fakeFixtureStore) GetByID(_ context.Context, id string) (domain.Fixture, error) {
	f, ok := s.fixtures[id]
	if !ok {
		return domain.Fixture{}, domain.ErrNotFound
	}
	return f, nil
}

func (s *fakeFixtureStore) GetBySourceExternalID(_ context.Context, source, externalID string) (domain.Fixture, error) {
	for _, f := range s.fixtures {
		if f.Source == source && f.ExternalID == externalID {
			return f, nil
		}
	}
	return domain.Fixture{}, domain.ErrNotFound
}

func (s *fakeFixtureStore) GetByKey(_ context.Context, key string) (domain.Fixture, error) {
	for _, f := range s.fixtures {
		if f.Key == key {
			return f, nil
		}
	}
	return domain.Fixture{}, domain.ErrNotFound
}

func (s *fakeFixtureStore) ListByStatusAndWindow(_ context.Context, statuses []domain.FixtureStatus, from, to time.Time) ([]domain.Fixture, error) {
	var out []domain.Fixture
	for _, f := range s.fixtures {
		for _, st := range statuses {
			if f.Status == st && !f.KickoffUTC.Before(from) && !f.KickoffUTC.After(to) {
				out = append(out, f)
				break
			}
		}
	}
	return out, nil
}

func (s *fakeFixtureStore) ListByStatus(_ context.Context, status domain.FixtureStatus, _ domain.ListOpts) ([]domain.Fixture, error) {
	var out []domain.Fixture
	for _, f := range s.fixtures {
		if f.Status == status {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *fakeFixtureStore) ListFinishedByTeamPair(_ context.Context, teamA, teamB string, limit int) ([]domain.Fixture, error) {
	var out []domain.Fixture
	for _, f := range s.fixtures {
		if f.Status != domain.FixtureFinished {
			continue
		}
		if (f.HomeTeamID == teamA && f.AwayTeamID == teamB) ||
			(f.HomeTeamID == teamB && f.AwayTeamID == teamA) {
			out = append(out, f)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *fakeFixtureStore) Count(context.Context) (int64, error) {
	return int64(len(s.fixtures)), nil
}

// fakeForecastStore is an in-memory domain.ForecastStore keyed on
// (fixture id, bucket).
type fakeForecastStore struct {
	forecasts map[string]domain.Forecast // key: fixtureID|bucket
	nextID    int
}

func newFakeForecastStore(forecasts ...domain.Forecast) *fakeForecastStore {
	s := &fakeForecastStore{forecasts: map[string]domain.Forecast{}}
	for _, f := range forecasts {
		s.forecasts[f.FixtureID+"|"+string(f.Bucket)] = f
	}
	return s
}

func (s *fakeForecastStore) Upsert(_ context.Context, f domain.Forecast) (domain.Forecast, bool, error) {
	key := f.FixtureID + "|" + string(f.Bucket)
	existing, existed := s.forecasts[key]
	if existed {
		f.ID = existing.ID
	} else if f.ID == "" {
		s.nextID++
		f.ID = fmt.Sprintf("fc-%d", s.nextID)
	}
	f.Status = domain.ForecastPending
	f.GradedAt = nil
	s.forecasts[key] = f
	return f, !existed, nil
}

func (s *fakeForecastStore) ListByFixture(_ context.Context, fixtureID string) ([]domain.Forecast, error) {
	var out []domain.Forecast
	for _, f := range s.forecasts {
		if f.FixtureID == fixtureID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *fakeForecastStore) ListByBucket(_ context.Context, bucket domain.Bucket, _ domain.ListOpts) ([]domain.Forecast, error) {
	var out []domain.Forecast
	for _, f := range s.forecasts {
		if f.Bucket == bucket {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *fakeForecastStore) UpdateStatus(_ context.Context, id string, status domain.ForecastStatus, gradedAt time.Time) (bool, error) {
	for key, f := range s.forecasts {
		if f.ID != id {
			continue
		}
		if f.Status != domain.ForecastPending {
			return false, nil
		}
		f.Status = status
		f.GradedAt = &gradedAt
		s.forecasts[key] = f
		return true, nil
	}
	return false, domain.ErrNotFound
}

func (s *fakeForecastStore) get(fixtureID string, bucket domain.Bucket) (domain.Forecast, bool) {
	f, ok := s.forecasts[fixtureID+"|"+string(bucket)]
	return f, ok
}
