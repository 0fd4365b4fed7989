package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alanyoungcy/fixturecast/internal/domain"
	"github.com/alanyoungcy/fixturecast/internal/provider"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTeamStore is an in-memory domain.TeamStore for tests.
type fakeTeamStore struct {
	teams  map[string]domain.Team
	nextID int
}

func newFakeTeamStore(teams ...domain.Team) *fakeTeamStore {
	s := &fakeTeamStore{teams: map[string]domain.Team{}}
	for _, t := range teams {
		s.teams[t.ID] = t
	}
	return s
}

func (s *fakeTeamStore) Upsert(_ context.Context, t domain.Team) (domain.Team, error) {
	if t.ID == "" {
		s.nextID++
		t.ID = fmt.Sprintf("team-%d", s.nextID)
	}
	s.teams[t.ID] = t
	return t, nil
}

func (s *fakeTeamStore) GetByID(_ context.Context, id string) (domain.Team, error) {
	t, ok := s.teams[id]
	if !ok {
		return domain.Team{}, domain.ErrNotFound
	}
	return t, nil
}

func (s *fakeTeamStore) GetByExternalID(_ context.Context, externalID string) (domain.Team, error) {
	for _, t := range s.teams {
		if t.ExternalID == externalID {
			return t, nil
		}
	}
	return domain.Team{}, domain.ErrNotFound
}

func (s *fakeTeamStore) GetByNormalizedName(_ context.Context, normalized string) (domain.Team, error) {
	for _, t := range s.teams {
		if domain.NormalizeTeamName(t.Name) == normalized {
			return t, nil
		}
	}
	return domain.Team{}, domain.ErrNotFound
}

// fakeFixtureStore mirrors the postgres upsert semantics: conflict on the
// fixture key, id assignment on insert, kickoff immutability, no status
// regression off finished, and score backfill.
type fakeFixtureStore struct {
	fixtures map[string]domain.Fixture // key: fixture key
	nextID   int
}

func newFakeFixtureStore(fixtures ...domain.Fixture) *fakeFixtureStore {
	s := &fakeFixtureStore{fixtures: map[string]domain.Fixture{}}
	for _, f := range fixtures {
		s.fixtures[f.Key] = f
	}
	return s
}

func (s *fakeFixtureStore) Upsert(_ context.Context, f domain.Fixture) (domain.Fixture, bool, error) {
	existing, ok := s.fixtures[f.Key]
	if !ok {
		if f.ID == "" {
			s.nextID++
			f.ID = fmt.Sprintf("fx-%d", s.nextID)
		}
		s.fixtures[f.Key] = f
		return f, true, nil
	}

	f.ID = existing.ID
	f.KickoffUTC = existing.KickoffUTC
	if existing.Status == domain.FixtureFinished && f.Status != domain.FixtureFinished {
		f.Status = existing.Status
	}
	coalesce := func(dst **int, prev *int) {
		if *dst == nil {
			*dst = prev
		}
	}
	coalesce(&f.Score.HomeGoals, existing.Score.HomeGoals)
	coalesce(&f.Score.AwayGoals, existing.Score.AwayGoals)
	s.fixtures[f.Key] = f
	return f, false, nil
}

func (s *fakeFixtureStore) GetByID(_ context.Context, id string) (domain.Fixture, error) {
	for _, f := range s.fixtures {
		if f.ID == id {
			return f, nil
		}
	}
	return domain.Fixture{}, domain.ErrNotFound
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
	f, ok := s.fixtures[key]
	if !ok {
		return domain.Fixture{}, domain.ErrNotFound
	}
	return f, nil
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

// fakeSource is a scripted provider.Source.
type fakeSource struct {
	name        string
	upcoming    *provider.Feed
	upcomingErr error
	history     *provider.Feed
	historyErr  error
	calls       []string
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) FetchUpcoming(context.Context) (*provider.Feed, error) {
	s.calls = append(s.calls, "upcoming")
	if s.upcomingErr != nil {
		return nil, s.upcomingErr
	}
	return s.upcoming, nil
}

func (s *fakeSource) FetchHistory(context.Context) (*provider.Feed, error) {
	s.calls = append(s.calls, "history")
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	return s.history, nil
}

// captureArchiver records archived payloads.
type captureArchiver struct {
	payloads []archivedPayload
}

type archivedPayload struct {
	source string
	kind   string
	data   []byte
}

func (a *captureArchiver) ArchivePayload(_ context.Context, source, kind string, _ time.Time, payload []byte) error {
	a.payloads = append(a.payloads, archivedPayload{source: source, kind: kind, data: payload})
	return nil
}
