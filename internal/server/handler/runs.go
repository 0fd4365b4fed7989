package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/fixturecast/internal/domain"
)

// JobService defines the lock-guarded job triggers the runs handler needs.
type JobService interface {
	RunIngest(ctx context.Context) (domain.RunSummary, error)
	RunForecast(ctx context.Context) (domain.ForecastRunSummary, error)
	RunGrade(ctx context.Context) (domain.GradeRunSummary, error)
}

// RunsHandler serves the manual job-trigger endpoints. Runs execute
// synchronously and return their summary; a run already in progress
// elsewhere answers 409.
type RunsHandler struct {
	jobs   JobService
	logger *slog.Logger
}

// NewRunsHandler creates a RunsHandler.
func NewRunsHandler(jobs JobService, logger *slog.Logger) *RunsHandler {
	return &RunsHandler{jobs: jobs, logger: logger}
}

// TriggerIngest runs one ingestion cycle.
// POST /api/ingest/run
func (h *RunsHandler) TriggerIngest(w http.ResponseWriter, r *http.Request) {
	summary, err := h.jobs.RunIngest(r.Context())
	if err != nil {
		h.writeRunError(w, r, "ingest", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// TriggerForecast runs one forecast-generation cycle.
// POST /api/forecast/run
func (h *RunsHandler) TriggerForecast(w http.ResponseWriter, r *http.Request) {
	summary, err := h.jobs.RunForecast(r.Context())
	if err != nil {
		h.writeRunError(w, r, "forecast", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// TriggerGrade runs one grading cycle.
// POST /api/grade/run
func (h *RunsHandler) TriggerGrade(w http.ResponseWriter, r *http.Request) {
	summary, err := h.jobs.RunGrade(r.Context())
	if err != nil {
		h.writeRunError(w, r, "grade", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *RunsHandler) writeRunError(w http.ResponseWriter, r *http.Request, job string, err error) {
	if errors.Is(err, domain.ErrLockHeld) {
		writeError(w, http.StatusConflict, job+" run already in progress")
		return
	}
	h.logger.ErrorContext(r.Context(), "handler: run failed",
		slog.String("job", job),
		slog.String("error", err.Error()),
	)
	writeError(w, http.StatusInternalServerError, job+" run failed")
}
