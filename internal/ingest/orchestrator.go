package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alanyoungcy/fixturecast/internal/domain"
	"github.com/alanyoungcy/fixturecast/internal/provider"
)

// PayloadArchiver persists raw provider bodies before parsing. Optional;
// archival failures never fail the run.
type PayloadArchiver interface {
	ArchivePayload(ctx context.Context, source, kind string, fetchedAt time.Time, payload []byte) error
}

// OrchestratorConfig carries the run-scoped knobs for an ingestion run.
type OrchestratorConfig struct {
	// Window bounds upcoming fixtures to [now, now+Window], inclusive at
	// both ends.
	Window time.Duration
	// HistorySource names the provider whose finished-match feed backfills
	// head-to-head history. Empty disables the history pass.
	HistorySource string
}

// Orchestrator runs one ingestion cycle: poll the provider chain in priority
// order, reconcile the first usable feed, then backfill history.
type Orchestrator struct {
	sources  []provider.Source
	resolver *Resolver
	archiver PayloadArchiver
	cache    domain.FixtureCache
	cfg      OrchestratorConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewOrchestrator creates an Orchestrator. Sources must already be in
// priority order; archiver and cache may be nil.
func NewOrchestrator(sources []provider.Source, resolver *Resolver, archiver PayloadArchiver, cache domain.FixtureCache, cfg OrchestratorConfig, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		sources:  sources,
		resolver: resolver,
		archiver: archiver,
		cache:    cache,
		cfg:      cfg,
		logger:   logger.With("component", "ingest"),
		now:      time.Now,
	}
}

// Run executes one ingestion cycle and returns its aggregate summary.
// Provider and per-fixture failures are recorded in the summary; the only
// error Run itself returns is the configuration error of having no sources.
func (o *Orchestrator) Run(ctx context.Context) (domain.RunSummary, error) {
	start := o.now()
	summary := domain.RunSummary{
		StartedAt: start.UTC(),
		Errors:    map[string]string{},
	}
	if len(o.sources) == 0 {
		return summary, fmt.Errorf("ingest: %w", domain.ErrNoProviders)
	}

	o.ingestUpcoming(ctx, &summary)
	o.ingestHistory(ctx, &summary)

	if o.cache != nil && summary.Created+summary.Updated > 0 {
		if err := o.cache.Invalidate(ctx); err != nil {
			o.logger.Warn("cache invalidation failed", "error", err)
		}
	}

	summary.Duration = o.now().Sub(start)
	if len(summary.Errors) == 0 {
		summary.Errors = nil
	}
	o.logger.Info("ingestion run finished",
		"created", summary.Created,
		"updated", summary.Updated,
		"historical", summary.Historical,
		"skipped", summary.Skipped,
		"sources", summary.Sources,
		"errors", len(summary.Errors),
		"duration", summary.Duration,
	)
	return summary, nil
}

// ingestUpcoming walks the chain in priority order and reconciles the first
// feed that yields fixtures. A provider that errors or returns an empty feed
// passes control to the next one; exhausting the chain is recorded, not
// raised.
func (o *Orchestrator) ingestUpcoming(ctx context.Context, summary *domain.RunSummary) {
	for _, src := range o.sources {
		feed, err := src.FetchUpcoming(ctx)
		if err != nil {
			summary.Errors[src.Name()] = err.Error()
			o.logger.Warn("provider failed, trying next", "source", src.Name(), "error", err)
			continue
		}
		if len(feed.Fixtures) == 0 {
			summary.Errors[src.Name()] = "empty feed"
			o.logger.Warn("provider returned no fixtures, trying next", "source", src.Name())
			continue
		}

		o.archive(ctx, src.Name(), "upcoming", feed.Payload)
		summary.Skipped += feed.Skipped
		o.reconcile(ctx, src.Name(), feed.Fixtures, summary, false)
		summary.Sources = append(summary.Sources, src.Name())
		return
	}
	summary.Errors["chain"] = domain.ErrProviderExhausted.Error()
	o.logger.Error("all providers failed")
}

// ingestHistory backfills finished matches from the configured history
// provider. Providers without a history feed are skipped silently.
func (o *Orchestrator) ingestHistory(ctx context.Context, summary *domain.RunSummary) {
	if o.cfg.HistorySource == "" {
		return
	}
	src := o.findSource(o.cfg.HistorySource)
	if src == nil {
		summary.Errors["history"] = fmt.Sprintf("history provider %q not configured", o.cfg.HistorySource)
		return
	}

	feed, err := src.FetchHistory(ctx)
	if err != nil {
		if errors.Is(err, provider.ErrNoHistoryFeed) {
			o.logger.Debug("history feed not offered", "source", src.Name())
			return
		}
		summary.Errors["history"] = err.Error()
		o.logger.Warn("history fetch failed", "source", src.Name(), "error", err)
		return
	}

	o.archive(ctx, src.Name(), "history", feed.Payload)
	summary.Skipped += feed.Skipped
	o.reconcile(ctx, src.Name(), feed.Fixtures, summary, true)
}

// reconcile resolves and upserts raw fixtures. For upcoming feeds, fixtures
// outside the retention window are dropped before they touch the store.
func (o *Orchestrator) reconcile(ctx context.Context, source string, raws []domain.RawFixture, summary *domain.RunSummary, historical bool) {
	var from, to time.Time
	if !historical {
		from = o.now().UTC()
		to = from.Add(o.cfg.Window)
	}

	for _, raw := range raws {
		if !historical && outsideWindow(raw.KickoffUTC, from, to) {
			summary.Skipped++
			continue
		}

		_, created, err := o.resolver.ResolveFixture(ctx, source, raw)
		if err != nil {
			summary.Skipped++
			summary.Errors[fixtureErrKey(source, raw)] = err.Error()
			o.logger.Warn("fixture reconciliation failed",
				"source", source,
				"external_id", raw.ExternalID,
				"home", raw.Home.Name,
				"away", raw.Away.Name,
				"error", err,
			)
			continue
		}
		switch {
		case historical:
			summary.Historical++
		case created:
			summary.Created++
		default:
			summary.Updated++
		}
	}
}

func (o *Orchestrator) archive(ctx context.Context, source, kind string, payload []byte) {
	if o.archiver == nil || len(payload) == 0 {
		return
	}
	if err := o.archiver.ArchivePayload(ctx, source, kind, o.now(), payload); err != nil {
		o.logger.Warn("payload archival failed", "source", source, "kind", kind, "error", err)
	}
}

func (o *Orchestrator) findSource(name string) provider.Source {
	for _, src := range o.sources {
		if src.Name() == name {
			return src
		}
	}
	return nil
}

// outsideWindow reports whether kickoff falls outside [from, to]. Both
// boundaries are inclusive.
func outsideWindow(kickoff, from, to time.Time) bool {
	return kickoff.Before(from) || kickoff.After(to)
}

func fixtureErrKey(source string, raw domain.RawFixture) string {
	if raw.ExternalID != "" {
		return source + "/" + raw.ExternalID
	}
	return source + "/" + raw.Home.Name + " vs " + raw.Away.Name
}
