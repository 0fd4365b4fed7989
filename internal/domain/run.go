package domain

import "time"

// RunSummary is the aggregate result of one ingestion run. Per-source error
// strings are carried for observability; only configuration errors are
// surfaced as Go errors to the caller.
type RunSummary struct {
	Created    int               `json:"created"`
	Updated    int               `json:"updated"`
	Historical int               `json:"historical"`
	Skipped    int               `json:"skipped"`
	Sources    []string          `json:"sources"` // providers that contributed fixtures
	Errors     map[string]string `json:"errors,omitempty"`
	StartedAt  time.Time         `json:"started_at"`
	Duration   time.Duration     `json:"duration"`
}

// ForecastRunSummary is the aggregate result of one forecast-generation run.
type ForecastRunSummary struct {
	Fixtures    int               `json:"fixtures"`
	Generated   int               `json:"generated"`
	Filtered    int               `json:"filtered"` // dropped by the confidence floor
	Unavailable int               `json:"unavailable"`
	Errors      map[string]string `json:"errors,omitempty"`
	StartedAt   time.Time         `json:"started_at"`
	Duration    time.Duration     `json:"duration"`
}

// GradeRunSummary is the aggregate result of one grading run.
type GradeRunSummary struct {
	Fixtures  int           `json:"fixtures"`
	Won       int           `json:"won"`
	Lost      int           `json:"lost"`
	Skipped   int           `json:"skipped"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}
