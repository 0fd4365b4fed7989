package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/fixturecast/internal/domain"
)

const upcomingTTL = 2 * time.Minute

const upcomingKey = "fixturecast:fixtures:upcoming"

// FixtureCache implements domain.FixtureCache: a short-lived JSON cache for
// the upcoming-fixtures listing, invalidated after every ingestion run.
type FixtureCache struct {
	rdb *redis.Client
}

// NewFixtureCache creates a FixtureCache backed by the given Client.
func NewFixtureCache(c *Client) *FixtureCache {
	return &FixtureCache{rdb: c.Underlying()}
}

// SetUpcoming stores the current upcoming-fixtures listing.
func (fc *FixtureCache) SetUpcoming(ctx context.Context, fixtures []domain.Fixture) error {
	data, err := json.Marshal(fixtures)
	if err != nil {
		return fmt.Errorf("redis: marshal upcoming fixtures: %w", err)
	}
	if err := fc.rdb.Set(ctx, upcomingKey, data, upcomingTTL).Err(); err != nil {
		return fmt.Errorf("redis: set upcoming fixtures: %w", err)
	}
	return nil
}

// GetUpcoming retrieves the cached listing, or domain.ErrNotFound when the
// cache is cold.
func (fc *FixtureCache) GetUpcoming(ctx context.Context) ([]domain.Fixture, error) {
	data, err := fc.rdb.Get(ctx, upcomingKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get upcoming fixtures: %w", err)
	}

	var fixtures []domain.Fixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("redis: unmarshal upcoming fixtures: %w", err)
	}
	return fixtures, nil
}

// Invalidate drops the cached listing; the next read repopulates it.
func (fc *FixtureCache) Invalidate(ctx context.Context) error {
	if err := fc.rdb.Del(ctx, upcomingKey).Err(); err != nil {
		return fmt.Errorf("redis: invalidate upcoming fixtures: %w", err)
	}
	return nil
}

var _ domain.FixtureCache = (*FixtureCache)(nil)
