package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/alanyoungcy/fixturecast/internal/blob/s3"
	"github.com/alanyoungcy/fixturecast/internal/cache/redis"
	"github.com/alanyoungcy/fixturecast/internal/config"
	"github.com/alanyoungcy/fixturecast/internal/domain"
	"github.com/alanyoungcy/fixturecast/internal/forecast"
	"github.com/alanyoungcy/fixturecast/internal/ingest"
	"github.com/alanyoungcy/fixturecast/internal/notify"
	"github.com/alanyoungcy/fixturecast/internal/oracle"
	"github.com/alanyoungcy/fixturecast/internal/provider"
	"github.com/alanyoungcy/fixturecast/internal/provider/apifootball"
	"github.com/alanyoungcy/fixturecast/internal/provider/goalserve"
	"github.com/alanyoungcy/fixturecast/internal/provider/sportsdb"
	"github.com/alanyoungcy/fixturecast/internal/retry"
	"github.com/alanyoungcy/fixturecast/internal/store/postgres"
)

// Dependencies bundles everything the application modes need. Constructed by
// Wire and torn down by the returned cleanup function.
type Dependencies struct {
	// Stores
	TeamStore     domain.TeamStore
	FixtureStore  domain.FixtureStore
	ForecastStore domain.ForecastStore

	// Redis
	LockManager  domain.LockManager
	FixtureCache domain.FixtureCache
	RateLimiter  domain.RateLimiter
	RedisPing    func(ctx context.Context) error

	// Blob storage (nil unless s3.enabled)
	Archiver *s3blob.Archiver
	S3Health func(ctx context.Context) error

	// Pipeline
	Sources      []provider.Source
	Orchestrator *ingest.Orchestrator
	Runner       *forecast.Runner
	Grader       *forecast.Grader

	// Notifications
	Notifier *notify.Notifier

	// Database liveness probe for the health endpoint.
	DBPing func(ctx context.Context) error
}

// Wire constructs the concrete dependency graph from the configuration and
// returns it with a cleanup function releasing resources in reverse order.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- PostgreSQL ---
	pgClient, err := postgres.New(ctx, postgres.ClientConfig{
		DSN:      cfg.Database.DSN,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Database: cfg.Database.Database,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: cfg.Database.PoolMaxConns,
		MinConns: cfg.Database.PoolMinConns,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: postgres: %w", err)
	}
	closers = append(closers, pgClient.Close)

	if cfg.Database.RunMigrations {
		if err := pgClient.RunMigrations(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
		}
	}

	pool := pgClient.Pool()
	deps.TeamStore = postgres.NewTeamStore(pool)
	deps.FixtureStore = postgres.NewFixtureStore(pool)
	deps.ForecastStore = postgres.NewForecastStore(pool)
	deps.DBPing = pool.Ping

	// --- Redis ---
	redisClient, err := redis.New(ctx, redis.ClientConfig{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		PoolSize:   cfg.Redis.PoolSize,
		MaxRetries: cfg.Redis.MaxRetries,
		TLSEnabled: cfg.Redis.TLSEnabled,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: redis: %w", err)
	}
	closers = append(closers, func() { _ = redisClient.Close() })

	deps.LockManager = redis.NewLockManager(redisClient)
	deps.FixtureCache = redis.NewFixtureCache(redisClient)
	deps.RateLimiter = redis.NewRateLimiter(redisClient)
	deps.RedisPing = redisClient.Ping

	// --- S3 blob storage (raw payload retention, optional) ---
	if cfg.S3.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })

		deps.Archiver = s3blob.NewArchiver(s3blob.NewWriter(s3Client))
		deps.S3Health = s3Client.Health
	}

	// --- Providers (priority order, credential-less providers skipped) ---
	deps.Sources = buildSources(cfg, logger)

	// --- Ingestion ---
	resolver := ingest.NewResolver(deps.TeamStore, deps.FixtureStore, logger)
	var payloadArchiver ingest.PayloadArchiver
	if deps.Archiver != nil {
		payloadArchiver = deps.Archiver
	}
	deps.Orchestrator = ingest.NewOrchestrator(deps.Sources, resolver, payloadArchiver, deps.FixtureCache, ingest.OrchestratorConfig{
		Window:        cfg.Ingest.RetentionWindow.Duration,
		HistorySource: cfg.Ingest.HistoryProvider,
	}, logger)

	// --- Forecast generation and grading ---
	oracleClient := oracle.NewClient(oracle.ClientConfig{
		BaseURL:     cfg.Oracle.BaseURL,
		APIKey:      cfg.Oracle.APIKey,
		Timeout:     cfg.Oracle.Timeout.Duration,
		MaxTokens:   cfg.Oracle.MaxTokens,
		Temperature: cfg.Oracle.Temperature,
	}, retry.Policy{
		// The generator owns the per-model retry budget; the client makes
		// one HTTP attempt per call so the budget is not applied twice.
		MaxAttempts: 1,
	})

	generator := forecast.NewGenerator(oracleClient, forecast.GeneratorConfig{
		Models:        cfg.Oracle.Models,
		MinConfidence: cfg.Forecast.MinConfidence,
		Retry: retry.Policy{
			MaxAttempts: cfg.Oracle.RetryMax,
			Backoff:     retry.Exponential(cfg.Oracle.RetryBackoff.Duration),
		},
	}, logger)

	deps.Runner = forecast.NewRunner(deps.FixtureStore, deps.ForecastStore, generator, forecast.RunnerConfig{
		Window:       cfg.Ingest.RetentionWindow.Duration,
		HistoryLimit: cfg.Forecast.HistoryLimit,
	}, logger)

	var gradeArchiver forecast.Archiver
	if deps.Archiver != nil {
		gradeArchiver = deps.Archiver
	}
	deps.Grader = forecast.NewGrader(deps.FixtureStore, deps.ForecastStore, gradeArchiver, logger)

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	return deps, cleanup, nil
}

// buildSources constructs provider clients in the configured priority order.
// Providers without credentials are skipped; config validation has already
// guaranteed at least one is configured for modes that ingest.
func buildSources(cfg *config.Config, logger *slog.Logger) []provider.Source {
	var sources []provider.Source
	for _, name := range cfg.Ingest.Order {
		p, ok := cfg.Providers[name]
		if !ok || p.APIKey == "" {
			logger.Info("provider skipped, no credentials", slog.String("provider", name))
			continue
		}

		fetcher := provider.NewFetcher(p.Timeout.Duration, retry.Policy{
			MaxAttempts: p.RetryMax,
			Backoff:     retry.Linear(p.RetryBackoff.Duration),
		})

		switch name {
		case "apifootball":
			sources = append(sources, apifootball.NewClient(p.BaseURL, p.APIKey, fetcher, cfg.Ingest.RetentionWindow.Duration))
		case "goalserve":
			sources = append(sources, goalserve.NewClient(p.BaseURL, p.APIKey, fetcher))
		case "sportsdb":
			sources = append(sources, sportsdb.NewClient(p.BaseURL, p.APIKey, p.LeagueID, fetcher))
		}
	}
	return sources
}
