package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/fixturecast/internal/domain"
)

// FixtureStore implements domain.FixtureStore using PostgreSQL.
type FixtureStore struct {
	pool *pgxpool.Pool
}

// NewFixtureStore creates a FixtureStore backed by the given connection pool.
func NewFixtureStore(pool *pgxpool.Pool) *FixtureStore {
	return &FixtureStore{pool: pool}
}

// Upsert inserts or updates a fixture keyed on its canonical fixture_key and
// reports whether a new row was created. The update clause enforces two
// invariants at the row level so concurrent runs cannot violate them:
// a finished fixture's status never regresses, and kickoff_utc is immutable
// after first write. Goal counts only ever backfill; a stale feed carrying
// nulls cannot erase a recorded score.
func (s *FixtureStore) Upsert(ctx context.Context, f domain.Fixture) (domain.Fixture, bool, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}

	const query = `
		INSERT INTO fixtures (
			id, source, external_id, fixture_key,
			league, country, season, stage,
			kickoff_utc, status,
			home_team_id, away_team_id, home_team_name, away_team_name,
			home_goals, away_goals, home_et, away_et, home_penalty, away_penalty,
			payload, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10,
			$11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20,
			$21, NOW(), NOW()
		)
		ON CONFLICT (fixture_key) DO UPDATE SET
			source       = EXCLUDED.source,
			external_id  = CASE WHEN EXCLUDED.external_id <> '' THEN EXCLUDED.external_id
			                    ELSE fixtures.external_id END,
			league       = EXCLUDED.league,
			country      = CASE WHEN EXCLUDED.country <> '' THEN EXCLUDED.country
			                    ELSE fixtures.country END,
			season       = CASE WHEN EXCLUDED.season <> '' THEN EXCLUDED.season
			                    ELSE fixtures.season END,
			stage        = CASE WHEN EXCLUDED.stage <> '' THEN EXCLUDED.stage
			                    ELSE fixtures.stage END,
			status       = CASE WHEN fixtures.status = 'finished' AND EXCLUDED.status <> 'finished'
			                    THEN fixtures.status
			                    ELSE EXCLUDED.status END,
			home_goals   = COALESCE(EXCLUDED.home_goals, fixtures.home_goals),
			away_goals   = COALESCE(EXCLUDED.away_goals, fixtures.away_goals),
			home_et      = COALESCE(EXCLUDED.home_et, fixtures.home_et),
			away_et      = COALESCE(EXCLUDED.away_et, fixtures.away_et),
			home_penalty = COALESCE(EXCLUDED.home_penalty, fixtures.home_penalty),
			away_penalty = COALESCE(EXCLUDED.away_penalty, fixtures.away_penalty),
			payload      = COALESCE(EXCLUDED.payload, fixtures.payload),
			updated_at   = NOW()
		RETURNING ` + fixtureCols + `, (xmax = 0) AS created`

	var payload any
	if len(f.Payload) > 0 {
		payload = []byte(f.Payload)
	}

	row := s.pool.QueryRow(ctx, query,
		f.ID, f.Source, f.ExternalID, f.Key,
		f.League, f.Country, f.Season, f.Stage,
		f.KickoffUTC.UTC(), string(f.Status),
		f.HomeTeamID, f.AwayTeamID, f.HomeTeamName, f.AwayTeamName,
		f.Score.HomeGoals, f.Score.AwayGoals,
		f.Score.HomeET, f.Score.AwayET,
		f.Score.HomePenalty, f.Score.AwayPenalty,
		payload,
	)

	stored, created, err := scanFixtureCreated(row)
	if err != nil {
		return domain.Fixture{}, false, fmt.Errorf("postgres: upsert fixture %s: %w", f.Key, err)
	}
	return stored, created, nil
}

const fixtureCols = `id, source, external_id, fixture_key,
	league, country, season, stage,
	kickoff_utc, status,
	home_team_id, away_team_id, home_team_name, away_team_name,
	home_goals, away_goals, home_et, away_et, home_penalty, away_penalty,
	payload, created_at, updated_at`

func scanFixtureInto(row pgx.Row, f *domain.Fixture, extra ...any) error {
	var status string
	var payload []byte
	dest := []any{
		&f.ID, &f.Source, &f.ExternalID, &f.Key,
		&f.League, &f.Country, &f.Season, &f.Stage,
		&f.KickoffUTC, &status,
		&f.HomeTeamID, &f.AwayTeamID, &f.HomeTeamName, &f.AwayTeamName,
		&f.Score.HomeGoals, &f.Score.AwayGoals,
		&f.Score.HomeET, &f.Score.AwayET,
		&f.Score.HomePenalty, &f.Score.AwayPenalty,
		&payload, &f.CreatedAt, &f.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	f.Status = domain.FixtureStatus(status)
	f.Payload = payload
	f.KickoffUTC = f.KickoffUTC.UTC()
	return nil
}

func scanFixture(row pgx.Row) (domain.Fixture, error) {
	var f domain.Fixture
	err := scanFixtureInto(row, &f)
	return f, err
}

func scanFixtureCreated(row pgx.Row) (domain.Fixture, bool, error) {
	var f domain.Fixture
	var created bool
	err := scanFixtureInto(row, &f, &created)
	return f, created, err
}

// GetByID retrieves a fixture by its primary key.
func (s *FixtureStore) GetByID(ctx context.Context, id string) (domain.Fixture, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+fixtureCols+` FROM fixtures WHERE id = $1`, id)
	f, err := scanFixture(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Fixture{}, domain.ErrNotFound
		}
		return domain.Fixture{}, fmt.Errorf("postgres: get fixture %s: %w", id, err)
	}
	return f, nil
}

// GetBySourceExternalID retrieves a fixture by its provider identity.
func (s *FixtureStore) GetBySourceExternalID(ctx context.Context, source, externalID string) (domain.Fixture, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+fixtureCols+` FROM fixtures
		 WHERE source = $1 AND external_id = $2 AND external_id <> ''`, source, externalID)
	f, err := scanFixture(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Fixture{}, domain.ErrNotFound
		}
		return domain.Fixture{}, fmt.Errorf("postgres: get fixture %s/%s: %w", source, externalID, err)
	}
	return f, nil
}

// GetByKey retrieves a fixture by its derived canonical key.
func (s *FixtureStore) GetByKey(ctx context.Context, key string) (domain.Fixture, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+fixtureCols+` FROM fixtures WHERE fixture_key = $1`, key)
	f, err := scanFixture(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Fixture{}, domain.ErrNotFound
		}
		return domain.Fixture{}, fmt.Errorf("postgres: get fixture by key %s: %w", key, err)
	}
	return f, nil
}

// ListByStatusAndWindow returns fixtures in any of the given statuses whose
// kickoff lies in [from, to], inclusive at both ends, soonest first.
func (s *FixtureStore) ListByStatusAndWindow(ctx context.Context, statuses []domain.FixtureStatus, from, to time.Time) ([]domain.Fixture, error) {
	ss := make([]string, len(statuses))
	for i, st := range statuses {
		ss[i] = string(st)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+fixtureCols+` FROM fixtures
		 WHERE status = ANY($1) AND kickoff_utc >= $2 AND kickoff_utc <= $3
		 ORDER BY kickoff_utc ASC`,
		ss, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("postgres: list fixtures by window: %w", err)
	}
	defer rows.Close()

	return collectFixtures(rows)
}

// ListByStatus returns fixtures in the given status, most recent kickoff
// first, with pagination.
func (s *FixtureStore) ListByStatus(ctx context.Context, status domain.FixtureStatus, opts domain.ListOpts) ([]domain.Fixture, error) {
	query := `SELECT ` + fixtureCols + ` FROM fixtures WHERE status = $1 ORDER BY kickoff_utc DESC`
	args := []any{string(status)}
	argIdx := 2

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, opts.Limit)
		argIdx++
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, opts.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list fixtures by status %s: %w", status, err)
	}
	defer rows.Close()

	return collectFixtures(rows)
}

// ListFinishedByTeamPair returns finished fixtures between the two teams in
// either orientation, most recent first.
func (s *FixtureStore) ListFinishedByTeamPair(ctx context.Context, teamA, teamB string, limit int) ([]domain.Fixture, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+fixtureCols+` FROM fixtures
		 WHERE status = 'finished'
		   AND ((home_team_id = $1 AND away_team_id = $2)
		     OR (home_team_id = $2 AND away_team_id = $1))
		 ORDER BY kickoff_utc DESC
		 LIMIT $3`,
		teamA, teamB, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list head-to-head %s/%s: %w", teamA, teamB, err)
	}
	defer rows.Close()

	return collectFixtures(rows)
}

// Count returns the total number of fixtures.
func (s *FixtureStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM fixtures`).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count fixtures: %w", err)
	}
	return n, nil
}

func collectFixtures(rows pgx.Rows) ([]domain.Fixture, error) {
	var fixtures []domain.Fixture
	for rows.Next() {
		var f domain.Fixture
		if err := scanFixtureInto(rows, &f); err != nil {
			return nil, fmt.Errorf("postgres: scan fixture: %w", err)
		}
		fixtures = append(fixtures, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate fixtures: %w", err)
	}
	return fixtures, nil
}
