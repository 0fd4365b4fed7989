package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/fixturecast/internal/domain"
)

// ForecastService defines the reads the forecast handler needs.
type ForecastService interface {
	ListByBucket(ctx context.Context, bucket domain.Bucket, opts domain.ListOpts) ([]domain.Forecast, error)
	ListByFixture(ctx context.Context, fixtureID string) ([]domain.Forecast, error)
}

// ForecastHandler serves forecast endpoints.
type ForecastHandler struct {
	forecasts ForecastService
	logger    *slog.Logger
}

// NewForecastHandler creates a ForecastHandler.
func NewForecastHandler(forecasts ForecastService, logger *slog.Logger) *ForecastHandler {
	return &ForecastHandler{forecasts: forecasts, logger: logger}
}

type listForecastsResponse struct {
	Forecasts []domain.Forecast `json:"forecasts"`
	Limit     int               `json:"limit,omitempty"`
	Offset    int               `json:"offset,omitempty"`
}

// ListForecasts returns forecasts for a bucket.
// GET /api/forecasts?bucket=vip&limit=50&offset=0
func (h *ForecastHandler) ListForecasts(w http.ResponseWriter, r *http.Request) {
	bucket := domain.Bucket(r.URL.Query().Get("bucket"))
	if bucket == "" {
		writeError(w, http.StatusBadRequest, "missing bucket parameter")
		return
	}
	if !domain.ValidBuckets[bucket] {
		writeError(w, http.StatusBadRequest, "unknown bucket "+string(bucket))
		return
	}

	opts := parseListOpts(r)
	forecasts, err := h.forecasts.ListByBucket(r.Context(), bucket, opts)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list forecasts failed",
			slog.String("bucket", string(bucket)),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list forecasts")
		return
	}

	writeJSON(w, http.StatusOK, listForecastsResponse{
		Forecasts: forecasts,
		Limit:     opts.Limit,
		Offset:    opts.Offset,
	})
}

// ListFixtureForecasts returns every forecast attached to one fixture.
// GET /api/fixtures/{id}/forecasts
func (h *ForecastHandler) ListFixtureForecasts(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing fixture id")
		return
	}

	forecasts, err := h.forecasts.ListByFixture(r.Context(), id)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list fixture forecasts failed",
			slog.String("fixture_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list forecasts")
		return
	}

	writeJSON(w, http.StatusOK, listForecastsResponse{Forecasts: forecasts})
}
