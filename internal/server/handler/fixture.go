package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/fixturecast/internal/domain"
)

// FixtureService defines the reads the fixture handler needs.
type FixtureService interface {
	ListUpcoming(ctx context.Context) ([]domain.Fixture, error)
	ListByStatus(ctx context.Context, status domain.FixtureStatus, opts domain.ListOpts) ([]domain.Fixture, error)
	GetFixture(ctx context.Context, id string) (domain.Fixture, error)
	Count(ctx context.Context) (int64, error)
}

// FixtureHandler serves fixture endpoints.
type FixtureHandler struct {
	fixtures FixtureService
	logger   *slog.Logger
}

// NewFixtureHandler creates a FixtureHandler.
func NewFixtureHandler(fixtures FixtureService, logger *slog.Logger) *FixtureHandler {
	return &FixtureHandler{fixtures: fixtures, logger: logger}
}

type listFixturesResponse struct {
	Fixtures []domain.Fixture `json:"fixtures"`
	Total    int64            `json:"total"`
	Limit    int              `json:"limit,omitempty"`
	Offset   int              `json:"offset,omitempty"`
}

// ListFixtures returns fixtures. Without a status filter it serves the
// cached upcoming board; with ?status= it pages through the store.
// GET /api/fixtures?status=finished&limit=50&offset=0
func (h *FixtureHandler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		fixtures, err := h.fixtures.ListUpcoming(r.Context())
		if err != nil {
			h.logger.ErrorContext(r.Context(), "handler: list upcoming failed",
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusInternalServerError, "failed to list fixtures")
			return
		}
		writeJSON(w, http.StatusOK, listFixturesResponse{
			Fixtures: fixtures,
			Total:    int64(len(fixtures)),
		})
		return
	}

	st := domain.FixtureStatus(status)
	if !domain.ValidFixtureStatuses[st] {
		writeError(w, http.StatusBadRequest, "unknown status "+status)
		return
	}

	opts := parseListOpts(r)
	fixtures, err := h.fixtures.ListByStatus(r.Context(), st, opts)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list by status failed",
			slog.String("status", status),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list fixtures")
		return
	}

	total, err := h.fixtures.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count fixtures")
		return
	}

	writeJSON(w, http.StatusOK, listFixturesResponse{
		Fixtures: fixtures,
		Total:    total,
		Limit:    opts.Limit,
		Offset:   opts.Offset,
	})
}

// GetFixture returns a single fixture by its ID.
// GET /api/fixtures/{id}
func (h *FixtureHandler) GetFixture(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing fixture id")
		return
	}

	fixture, err := h.fixtures.GetFixture(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "fixture not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get fixture failed",
			slog.String("fixture_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get fixture")
		return
	}

	writeJSON(w, http.StatusOK, fixture)
}
