package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/alanyoungcy/fixturecast/internal/domain"
)

// IngestFinished reports the outcome of an ingestion run. Chain exhaustion
// is escalated as its own event so it can be routed separately from routine
// summaries.
func (n *Notifier) IngestFinished(ctx context.Context, summary domain.RunSummary) {
	if _, exhausted := summary.Errors["chain"]; exhausted {
		_ = n.Notify(ctx, EventProviderExhausted, "All fixture providers failed",
			formatErrors(summary.Errors))
		return
	}
	_ = n.Notify(ctx, EventRunSummary, "Ingestion run finished",
		fmt.Sprintf("created %d, updated %d, historical %d, skipped %d (sources: %s)",
			summary.Created, summary.Updated, summary.Historical, summary.Skipped,
			strings.Join(summary.Sources, ", ")))
}

// ForecastFinished reports the outcome of a forecast-generation run.
func (n *Notifier) ForecastFinished(ctx context.Context, summary domain.ForecastRunSummary) {
	if summary.Unavailable > 0 && summary.Generated == 0 && summary.Fixtures > 0 {
		_ = n.Notify(ctx, EventOracleExhausted, "Forecast oracle exhausted",
			fmt.Sprintf("no forecasts produced for %d fixture(s)", summary.Unavailable))
		return
	}
	_ = n.Notify(ctx, EventRunSummary, "Forecast run finished",
		fmt.Sprintf("fixtures %d, generated %d, filtered %d, unavailable %d",
			summary.Fixtures, summary.Generated, summary.Filtered, summary.Unavailable))
}

// GradeFinished reports the outcome of a grading run.
func (n *Notifier) GradeFinished(ctx context.Context, summary domain.GradeRunSummary) {
	_ = n.Notify(ctx, EventRunSummary, "Grading run finished",
		fmt.Sprintf("fixtures %d, won %d, lost %d, skipped %d",
			summary.Fixtures, summary.Won, summary.Lost, summary.Skipped))
}

// RunFailed reports a job that returned an error.
func (n *Notifier) RunFailed(ctx context.Context, job string, err error) {
	_ = n.Notify(ctx, EventRunError, fmt.Sprintf("%s run failed", job), err.Error())
}

func formatErrors(errs map[string]string) string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", k, errs[k]))
	}
	return strings.Join(lines, "\n")
}
