package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/fixturecast/internal/domain"
)

// TeamStore implements domain.TeamStore using PostgreSQL.
type TeamStore struct {
	pool *pgxpool.Pool
}

// NewTeamStore creates a TeamStore backed by the given connection pool.
func NewTeamStore(pool *pgxpool.Pool) *TeamStore {
	return &TeamStore{pool: pool}
}

// Upsert inserts or updates a team keyed on its id, assigning a fresh id to
// a new team. Teams are never deleted, so the update path only rewrites
// metadata.
func (s *TeamStore) Upsert(ctx context.Context, t domain.Team) (domain.Team, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	const query = `
		INSERT INTO teams (
			id, external_id, name, normalized_name,
			short_name, code, country, logo_url,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			NOW(), NOW()
		)
		ON CONFLICT (id) DO UPDATE SET
			external_id     = EXCLUDED.external_id,
			name            = EXCLUDED.name,
			normalized_name = EXCLUDED.normalized_name,
			short_name      = EXCLUDED.short_name,
			code            = EXCLUDED.code,
			country         = EXCLUDED.country,
			logo_url        = EXCLUDED.logo_url,
			updated_at      = NOW()`

	_, err := s.pool.Exec(ctx, query,
		t.ID, t.ExternalID, t.Name, domain.NormalizeTeamName(t.Name),
		t.ShortName, t.Code, t.Country, t.LogoURL,
	)
	if err != nil {
		return domain.Team{}, fmt.Errorf("postgres: upsert team %s: %w", t.Name, err)
	}
	return t, nil
}

const teamCols = `id, external_id, name,
	short_name, code, country, logo_url,
	created_at, updated_at`

func scanTeam(row pgx.Row) (domain.Team, error) {
	var t domain.Team
	err := row.Scan(
		&t.ID, &t.ExternalID, &t.Name,
		&t.ShortName, &t.Code, &t.Country, &t.LogoURL,
		&t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// GetByID retrieves a team by its primary key.
func (s *TeamStore) GetByID(ctx context.Context, id string) (domain.Team, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+teamCols+` FROM teams WHERE id = $1`, id)
	t, err := scanTeam(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Team{}, domain.ErrNotFound
		}
		return domain.Team{}, fmt.Errorf("postgres: get team %s: %w", id, err)
	}
	return t, nil
}

// GetByExternalID retrieves a team by its provider-native id.
func (s *TeamStore) GetByExternalID(ctx context.Context, externalID string) (domain.Team, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+teamCols+` FROM teams WHERE external_id = $1 AND external_id <> ''`, externalID)
	t, err := scanTeam(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Team{}, domain.ErrNotFound
		}
		return domain.Team{}, fmt.Errorf("postgres: get team by external id %s: %w", externalID, err)
	}
	return t, nil
}

// GetByNormalizedName retrieves a team by its normalized name.
func (s *TeamStore) GetByNormalizedName(ctx context.Context, normalized string) (domain.Team, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+teamCols+` FROM teams WHERE normalized_name = $1`, normalized)
	t, err := scanTeam(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Team{}, domain.ErrNotFound
		}
		return domain.Team{}, fmt.Errorf("postgres: get team by name %q: %w", normalized, err)
	}
	return t, nil
}
