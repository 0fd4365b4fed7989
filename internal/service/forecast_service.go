package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/fixturecast/internal/domain"
)

// ForecastService serves forecast reads.
type ForecastService struct {
	forecasts domain.ForecastStore
	logger    *slog.Logger
}

// NewForecastService creates a ForecastService.
func NewForecastService(forecasts domain.ForecastStore, logger *slog.Logger) *ForecastService {
	return &ForecastService{
		forecasts: forecasts,
		logger:    logger.With(slog.String("component", "forecast_service")),
	}
}

// ListByBucket returns forecasts in a bucket with pagination.
func (s *ForecastService) ListByBucket(ctx context.Context, bucket domain.Bucket, opts domain.ListOpts) ([]domain.Forecast, error) {
	if !domain.ValidBuckets[bucket] {
		return nil, fmt.Errorf("forecast_service: %w: unknown bucket %q", domain.ErrInvalidForecast, bucket)
	}
	return s.forecasts.ListByBucket(ctx, bucket, opts)
}

// ListByFixture returns every forecast attached to a fixture.
func (s *ForecastService) ListByFixture(ctx context.Context, fixtureID string) ([]domain.Forecast, error) {
	return s.forecasts.ListByFixture(ctx, fixtureID)
}
