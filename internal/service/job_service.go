package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/alanyoungcy/fixturecast/internal/domain"
)

// Lock keys for the three pipeline jobs.
const (
	lockIngest   = "ingest"
	lockForecast = "forecast"
	lockGrade    = "grade"
)

// IngestRunner runs one ingestion cycle.
type IngestRunner interface {
	Run(ctx context.Context) (domain.RunSummary, error)
}

// ForecastRunner runs one forecast-generation cycle.
type ForecastRunner interface {
	Run(ctx context.Context) (domain.ForecastRunSummary, error)
}

// GradeRunner runs one grading cycle.
type GradeRunner interface {
	Run(ctx context.Context) (domain.GradeRunSummary, error)
}

// Reporter receives run outcomes for operator alerting.
type Reporter interface {
	IngestFinished(ctx context.Context, summary domain.RunSummary)
	ForecastFinished(ctx context.Context, summary domain.ForecastRunSummary)
	GradeFinished(ctx context.Context, summary domain.GradeRunSummary)
	RunFailed(ctx context.Context, job string, err error)
}

// Broadcaster pushes run outcomes to connected live clients.
type Broadcaster interface {
	Broadcast(event string, payload any)
}

// JobConfig carries the per-job execution limits.
type JobConfig struct {
	IngestTimeout   time.Duration
	IngestLockTTL   time.Duration
	ForecastTimeout time.Duration
	ForecastLockTTL time.Duration
}

// JobService runs the pipeline jobs under distributed locks so concurrent
// triggers (scheduler tick plus an API call, or two replicas) cannot
// interleave. Callers distinguish a busy job by domain.ErrLockHeld.
type JobService struct {
	ingest   IngestRunner
	forecast ForecastRunner
	grade    GradeRunner
	locks    domain.LockManager
	reporter Reporter
	hub      Broadcaster
	cfg      JobConfig
	logger   *slog.Logger
}

// NewJobService creates a JobService. locks, reporter, and hub may be nil.
func NewJobService(ingest IngestRunner, forecast ForecastRunner, grade GradeRunner, locks domain.LockManager, reporter Reporter, hub Broadcaster, cfg JobConfig, logger *slog.Logger) *JobService {
	return &JobService{
		ingest:   ingest,
		forecast: forecast,
		grade:    grade,
		locks:    locks,
		reporter: reporter,
		hub:      hub,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "jobs")),
	}
}

// RunIngest executes one ingestion run under the ingest lock.
func (s *JobService) RunIngest(ctx context.Context) (domain.RunSummary, error) {
	release, err := s.acquire(ctx, lockIngest, s.cfg.IngestLockTTL)
	if err != nil {
		return domain.RunSummary{}, err
	}
	defer release()

	ctx, cancel := s.withTimeout(ctx, s.cfg.IngestTimeout)
	defer cancel()

	summary, err := s.ingest.Run(ctx)
	if err != nil {
		s.reportFailure(ctx, lockIngest, err)
		return summary, err
	}
	if s.reporter != nil {
		s.reporter.IngestFinished(ctx, summary)
	}
	s.broadcast("ingest", summary)
	return summary, nil
}

// RunForecast executes one forecast-generation run under the forecast lock.
func (s *JobService) RunForecast(ctx context.Context) (domain.ForecastRunSummary, error) {
	release, err := s.acquire(ctx, lockForecast, s.cfg.ForecastLockTTL)
	if err != nil {
		return domain.ForecastRunSummary{}, err
	}
	defer release()

	ctx, cancel := s.withTimeout(ctx, s.cfg.ForecastTimeout)
	defer cancel()

	summary, err := s.forecast.Run(ctx)
	if err != nil {
		s.reportFailure(ctx, lockForecast, err)
		return summary, err
	}
	if s.reporter != nil {
		s.reporter.ForecastFinished(ctx, summary)
	}
	s.broadcast("forecast", summary)
	return summary, nil
}

// RunGrade executes one grading run under the grade lock. Grading is
// idempotent, so it shares the forecast lock TTL.
func (s *JobService) RunGrade(ctx context.Context) (domain.GradeRunSummary, error) {
	release, err := s.acquire(ctx, lockGrade, s.cfg.ForecastLockTTL)
	if err != nil {
		return domain.GradeRunSummary{}, err
	}
	defer release()

	summary, err := s.grade.Run(ctx)
	if err != nil {
		s.reportFailure(ctx, lockGrade, err)
		return summary, err
	}
	if s.reporter != nil {
		s.reporter.GradeFinished(ctx, summary)
	}
	s.broadcast("grade", summary)
	return summary, nil
}

func (s *JobService) acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if s.locks == nil {
		return func() {}, nil
	}
	return s.locks.Acquire(ctx, key, ttl)
}

func (s *JobService) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func (s *JobService) reportFailure(ctx context.Context, job string, err error) {
	s.logger.ErrorContext(ctx, "job failed",
		slog.String("job", job),
		slog.String("error", err.Error()),
	)
	if s.reporter != nil {
		s.reporter.RunFailed(ctx, job, err)
	}
}

func (s *JobService) broadcast(event string, payload any) {
	if s.hub != nil {
		s.hub.Broadcast(event, payload)
	}
}
