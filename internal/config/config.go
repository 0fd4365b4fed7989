// Package config defines the top-level configuration for fixturecast and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by FIXTURECAST_* environment
// variables.
type Config struct {
	Database  DatabaseConfig            `toml:"database"`
	Redis     RedisConfig               `toml:"redis"`
	S3        S3Config                  `toml:"s3"`
	Providers map[string]ProviderConfig `toml:"providers"`
	Ingest    IngestConfig              `toml:"ingest"`
	Oracle    OracleConfig              `toml:"oracle"`
	Forecast  ForecastConfig            `toml:"forecast"`
	Server    ServerConfig              `toml:"server"`
	Notify    NotifyConfig              `toml:"notify"`
	Mode      string                    `toml:"mode"`
	LogLevel  string                    `toml:"log_level"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds S3-compatible object storage parameters for raw payload
// retention.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// ProviderConfig holds per-provider feed parameters. A provider with an
// empty APIKey is skipped during ingestion rather than treated as an error.
type ProviderConfig struct {
	BaseURL      string   `toml:"base_url"`
	APIKey       string   `toml:"api_key"`
	Timeout      duration `toml:"timeout"`
	RetryMax     int      `toml:"retry_max"`
	RetryBackoff duration `toml:"retry_backoff"`
	// LeagueID scopes providers whose schedule endpoint is per-league.
	LeagueID string `toml:"league_id"`
}

// IngestConfig holds ingestion policy parameters.
type IngestConfig struct {
	// Order is the provider priority chain, primary first.
	Order []string `toml:"order"`
	// RetentionWindow is the forward-looking span within which a parsed
	// fixture counts as upcoming. Inclusive at both ends.
	RetentionWindow duration `toml:"retention_window"`
	// HistoryProvider names the provider whose separate history feed is
	// imported as settled fixtures. Empty disables the import.
	HistoryProvider string `toml:"history_provider"`
	// RunTimeout bounds a whole ingestion run.
	RunTimeout duration `toml:"run_timeout"`
	// LockTTL is the distributed run-lock expiry.
	LockTTL duration `toml:"lock_ttl"`
}

// OracleConfig holds the generative-model backend parameters.
type OracleConfig struct {
	BaseURL      string   `toml:"base_url"`
	APIKey       string   `toml:"api_key"`
	Models       []string `toml:"models"` // priority order, primary first
	Timeout      duration `toml:"timeout"`
	RetryMax     int      `toml:"retry_max"`
	RetryBackoff duration `toml:"retry_backoff"`
	MaxTokens    int      `toml:"max_tokens"`
	Temperature  float64  `toml:"temperature"`
}

// ForecastConfig holds forecast-generation policy parameters.
type ForecastConfig struct {
	// MinConfidence is the floor below which a validated forecast is
	// discarded instead of persisted, on the 0-100 scale.
	MinConfidence float64 `toml:"min_confidence"`
	// HistoryLimit caps the head-to-head records fed into the prompt.
	HistoryLimit int      `toml:"history_limit"`
	RunTimeout   duration `toml:"run_timeout"`
	LockTTL      duration `toml:"lock_ttl"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	APIKey      string   `toml:"api_key"` // empty disables trigger auth
	CORSOrigins []string `toml:"cors_origins"`
	// RateLimit bounds API requests per client per second; 0 disables it.
	RateLimit int `toml:"rate_limit"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration wraps time.Duration so TOML values like "5m" or "30s" decode
// directly.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// KnownProviders enumerates the provider names the ingestion chain accepts.
var KnownProviders = map[string]bool{
	"apifootball": true,
	"goalserve":   true,
	"sportsdb":    true,
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Database: DatabaseConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "fixturecast",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
		},
		S3: S3Config{
			Enabled:        false,
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "fixturecast-raw",
			UseSSL:         false,
			ForcePathStyle: true,
		},
		Providers: map[string]ProviderConfig{
			"apifootball": {
				BaseURL:      "https://v3.football.api-sports.io",
				Timeout:      duration{20 * time.Second},
				RetryMax:     3,
				RetryBackoff: duration{2 * time.Second},
			},
			"goalserve": {
				BaseURL:      "https://www.goalserve.com/getfeed",
				Timeout:      duration{20 * time.Second},
				RetryMax:     3,
				RetryBackoff: duration{2 * time.Second},
			},
			"sportsdb": {
				BaseURL:      "https://www.thesportsdb.com/api/v1/json",
				Timeout:      duration{15 * time.Second},
				RetryMax:     3,
				RetryBackoff: duration{2 * time.Second},
				LeagueID:     "4328",
			},
		},
		Ingest: IngestConfig{
			Order:           []string{"apifootball", "goalserve", "sportsdb"},
			RetentionWindow: duration{72 * time.Hour},
			HistoryProvider: "apifootball",
			RunTimeout:      duration{5 * time.Minute},
			LockTTL:         duration{10 * time.Minute},
		},
		Oracle: OracleConfig{
			BaseURL:      "https://api.openai.com/v1",
			Models:       []string{"gpt-4o", "gpt-4o-mini"},
			Timeout:      duration{60 * time.Second},
			RetryMax:     2,
			RetryBackoff: duration{2 * time.Second},
			MaxTokens:    2048,
			Temperature:  0.3,
		},
		Forecast: ForecastConfig{
			MinConfidence: 70,
			HistoryLimit:  5,
			RunTimeout:    duration{10 * time.Minute},
			LockTTL:       duration{15 * time.Minute},
		},
		Server: ServerConfig{
			Enabled:     true,
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			RateLimit:   20,
		},
		Notify: NotifyConfig{
			Events: []string{"provider_exhausted", "oracle_exhausted", "run_error"},
		},
		Mode:     "serve",
		LogLevel: "info",
	}
}

var validModes = map[string]bool{
	"serve":    true,
	"ingest":   true,
	"forecast": true,
	"grade":    true,
	"full":     true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for invalid or missing values and returns a single
// error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: serve, ingest, forecast, grade, full)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if strings.TrimSpace(c.Database.DSN) == "" {
		if c.Database.Host == "" {
			errs = append(errs, "database: host must not be empty (or set database.dsn)")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database: port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.Database == "" {
			errs = append(errs, "database: database must not be empty")
		}
	}
	if c.Database.PoolMaxConns < 1 {
		errs = append(errs, "database: pool_max_conns must be >= 1")
	}
	if c.Database.PoolMinConns < 0 {
		errs = append(errs, "database: pool_min_conns must be >= 0")
	}
	if c.Database.PoolMinConns > c.Database.PoolMaxConns {
		errs = append(errs, "database: pool_min_conns must not exceed pool_max_conns")
	}

	if c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty")
	}
	if c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	if c.S3.Enabled {
		if c.S3.Endpoint == "" {
			errs = append(errs, "s3: endpoint must not be empty when enabled")
		}
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty when enabled")
		}
	}

	// Missing credentials skip a provider; a chain where no provider has
	// credentials at all is a configuration error.
	mode := strings.ToLower(c.Mode)
	needsIngest := mode == "ingest" || mode == "serve" || mode == "full"
	if len(c.Ingest.Order) == 0 {
		errs = append(errs, "ingest: order must name at least one provider")
	}
	configured := 0
	for _, name := range c.Ingest.Order {
		if !KnownProviders[name] {
			errs = append(errs, fmt.Sprintf("ingest: unknown provider %q in order", name))
			continue
		}
		p, ok := c.Providers[name]
		if !ok {
			continue
		}
		if p.BaseURL == "" {
			errs = append(errs, fmt.Sprintf("providers.%s: base_url must not be empty", name))
		}
		if p.RetryMax < 1 {
			errs = append(errs, fmt.Sprintf("providers.%s: retry_max must be >= 1", name))
		}
		if p.APIKey != "" {
			configured++
		}
	}
	if needsIngest && configured == 0 {
		errs = append(errs, "providers: no provider has credentials configured; at least one is required")
	}
	if c.Ingest.RetentionWindow.Duration <= 0 {
		errs = append(errs, "ingest: retention_window must be > 0")
	}
	if c.Ingest.HistoryProvider != "" && !KnownProviders[c.Ingest.HistoryProvider] {
		errs = append(errs, fmt.Sprintf("ingest: unknown history_provider %q", c.Ingest.HistoryProvider))
	}

	needsOracle := mode == "forecast" || mode == "serve" || mode == "full"
	if needsOracle {
		if c.Oracle.APIKey == "" {
			errs = append(errs, "oracle: api_key is required for mode "+c.Mode)
		}
		if c.Oracle.BaseURL == "" {
			errs = append(errs, "oracle: base_url must not be empty")
		}
		if len(c.Oracle.Models) == 0 {
			errs = append(errs, "oracle: models must list at least one model id")
		}
	}
	if c.Oracle.RetryMax < 1 {
		errs = append(errs, "oracle: retry_max must be >= 1")
	}

	if c.Forecast.MinConfidence < 0 || c.Forecast.MinConfidence > 100 {
		errs = append(errs, fmt.Sprintf("forecast: min_confidence must be 0-100, got %g", c.Forecast.MinConfidence))
	}
	if c.Forecast.HistoryLimit < 0 {
		errs = append(errs, "forecast: history_limit must be >= 0")
	}

	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
