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

// ForecastStore implements domain.ForecastStore using PostgreSQL.
type ForecastStore struct {
	pool *pgxpool.Pool
}

// NewForecastStore creates a ForecastStore backed by the given connection pool.
func NewForecastStore(pool *pgxpool.Pool) *ForecastStore {
	return &ForecastStore{pool: pool}
}

// Upsert inserts or replaces the forecast for (fixture_id, bucket) and
// reports whether a new row was created. A later generation cycle replaces
// the prior probabilities in place; grading state resets to pending since
// the prediction changed.
func (s *ForecastStore) Upsert(ctx context.Context, f domain.Forecast) (domain.Forecast, bool, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Status == "" {
		f.Status = domain.ForecastPending
	}

	const query = `
		INSERT INTO forecasts (
			id, fixture_id, bucket,
			home_prob, draw_prob, away_prob,
			dc_1x, dc_x2, dc_12,
			over_15, over_25, over_35, btts_yes,
			confidence, model_id, status, graded_at,
			created_at, updated_at
		) VALUES (
			$1, $2, $3,
			$4, $5, $6,
			$7, $8, $9,
			$10, $11, $12, $13,
			$14, $15, $16, NULL,
			NOW(), NOW()
		)
		ON CONFLICT (fixture_id, bucket) DO UPDATE SET
			home_prob  = EXCLUDED.home_prob,
			draw_prob  = EXCLUDED.draw_prob,
			away_prob  = EXCLUDED.away_prob,
			dc_1x      = EXCLUDED.dc_1x,
			dc_x2      = EXCLUDED.dc_x2,
			dc_12      = EXCLUDED.dc_12,
			over_15    = EXCLUDED.over_15,
			over_25    = EXCLUDED.over_25,
			over_35    = EXCLUDED.over_35,
			btts_yes   = EXCLUDED.btts_yes,
			confidence = EXCLUDED.confidence,
			model_id   = EXCLUDED.model_id,
			status     = 'pending',
			graded_at  = NULL,
			updated_at = NOW()
		RETURNING ` + forecastCols + `, (xmax = 0) AS created`

	o := f.Outcomes
	row := s.pool.QueryRow(ctx, query,
		f.ID, f.FixtureID, string(f.Bucket),
		o.OneXTwo.Home, o.OneXTwo.Draw, o.OneXTwo.Away,
		o.DoubleChance.HomeOrDraw, o.DoubleChance.DrawOrAway, o.DoubleChance.HomeOrAway,
		o.OverUnder.Over15, o.OverUnder.Over25, o.OverUnder.Over35, o.BTTSYes,
		f.Confidence, f.ModelID, string(f.Status),
	)

	var stored domain.Forecast
	var created bool
	if err := scanForecastInto(row, &stored, &created); err != nil {
		return domain.Forecast{}, false, fmt.Errorf("postgres: upsert forecast %s/%s: %w", f.FixtureID, f.Bucket, err)
	}
	return stored, created, nil
}

const forecastCols = `id, fixture_id, bucket,
	home_prob, draw_prob, away_prob,
	dc_1x, dc_x2, dc_12,
	over_15, over_25, over_35, btts_yes,
	confidence, model_id, status, graded_at,
	created_at, updated_at`

func scanForecastInto(row pgx.Row, f *domain.Forecast, extra ...any) error {
	var bucket, status string
	dest := []any{
		&f.ID, &f.FixtureID, &bucket,
		&f.Outcomes.OneXTwo.Home, &f.Outcomes.OneXTwo.Draw, &f.Outcomes.OneXTwo.Away,
		&f.Outcomes.DoubleChance.HomeOrDraw, &f.Outcomes.DoubleChance.DrawOrAway, &f.Outcomes.DoubleChance.HomeOrAway,
		&f.Outcomes.OverUnder.Over15, &f.Outcomes.OverUnder.Over25, &f.Outcomes.OverUnder.Over35, &f.Outcomes.BTTSYes,
		&f.Confidence, &f.ModelID, &status, &f.GradedAt,
		&f.CreatedAt, &f.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	f.Bucket = domain.Bucket(bucket)
	f.Status = domain.ForecastStatus(status)
	return nil
}

// ListByFixture returns every forecast belonging to a fixture.
func (s *ForecastStore) ListByFixture(ctx context.Context, fixtureID string) ([]domain.Forecast, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+forecastCols+` FROM forecasts WHERE fixture_id = $1 ORDER BY bucket ASC`,
		fixtureID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list forecasts for fixture %s: %w", fixtureID, err)
	}
	defer rows.Close()

	return collectForecasts(rows)
}

// ListByBucket returns forecasts in a bucket, newest first, with pagination.
func (s *ForecastStore) ListByBucket(ctx context.Context, bucket domain.Bucket, opts domain.ListOpts) ([]domain.Forecast, error) {
	query := `SELECT ` + forecastCols + ` FROM forecasts WHERE bucket = $1 ORDER BY created_at DESC`
	args := []any{string(bucket)}
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
		return nil, fmt.Errorf("postgres: list forecasts by bucket %s: %w", bucket, err)
	}
	defer rows.Close()

	return collectForecasts(rows)
}

// UpdateStatus transitions a pending forecast to won or lost. An already
// graded forecast is left untouched and false is returned, which makes
// grading idempotent.
func (s *ForecastStore) UpdateStatus(ctx context.Context, id string, status domain.ForecastStatus, gradedAt time.Time) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE forecasts
		 SET status = $2, graded_at = $3, updated_at = NOW()
		 WHERE id = $1 AND status = 'pending'`,
		id, string(status), gradedAt.UTC())
	if err != nil {
		return false, fmt.Errorf("postgres: grade forecast %s: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

func collectForecasts(rows pgx.Rows) ([]domain.Forecast, error) {
	var forecasts []domain.Forecast
	for rows.Next() {
		var f domain.Forecast
		if err := scanForecastInto(rows, &f); err != nil {
			return nil, fmt.Errorf("postgres: scan forecast: %w", err)
		}
		forecasts = append(forecasts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate forecasts: %w", err)
	}
	return forecasts, nil
}
