package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads the configuration file at path, applies environment variable
// overrides, validates the result, and returns it. A missing file is not an
// error when path is empty; defaults plus environment overrides are used.
func Load(path string) (*Config, error) {
	// Load a local .env first so FIXTURECAST_* overrides can come from it.
	// Its absence is not an error.
	_ = godotenv.Load()

	cfg := Defaults()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: stat %s: %w", path, err)
		}
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnvOverrides overrides configuration fields from FIXTURECAST_*
// environment variables. Overrides take precedence over file values.
func applyEnvOverrides(cfg *Config) {
	setStr("FIXTURECAST_MODE", &cfg.Mode)
	setStr("FIXTURECAST_LOG_LEVEL", &cfg.LogLevel)

	setStr("FIXTURECAST_DB_DSN", &cfg.Database.DSN)
	setStr("FIXTURECAST_DB_HOST", &cfg.Database.Host)
	setInt("FIXTURECAST_DB_PORT", &cfg.Database.Port)
	setStr("FIXTURECAST_DB_NAME", &cfg.Database.Database)
	setStr("FIXTURECAST_DB_USER", &cfg.Database.User)
	setStr("FIXTURECAST_DB_PASSWORD", &cfg.Database.Password)
	setBool("FIXTURECAST_DB_RUN_MIGRATIONS", &cfg.Database.RunMigrations)

	setStr("FIXTURECAST_REDIS_ADDR", &cfg.Redis.Addr)
	setStr("FIXTURECAST_REDIS_PASSWORD", &cfg.Redis.Password)
	setInt("FIXTURECAST_REDIS_DB", &cfg.Redis.DB)

	setBool("FIXTURECAST_S3_ENABLED", &cfg.S3.Enabled)
	setStr("FIXTURECAST_S3_ENDPOINT", &cfg.S3.Endpoint)
	setStr("FIXTURECAST_S3_REGION", &cfg.S3.Region)
	setStr("FIXTURECAST_S3_BUCKET", &cfg.S3.Bucket)
	setStr("FIXTURECAST_S3_ACCESS_KEY", &cfg.S3.AccessKey)
	setStr("FIXTURECAST_S3_SECRET_KEY", &cfg.S3.SecretKey)

	for name := range KnownProviders {
		p := cfg.Providers[name]
		prefix := "FIXTURECAST_" + strings.ToUpper(name)
		setStr(prefix+"_BASE_URL", &p.BaseURL)
		setStr(prefix+"_API_KEY", &p.APIKey)
		setDuration(prefix+"_TIMEOUT", &p.Timeout)
		cfg.Providers[name] = p
	}

	setStringSlice("FIXTURECAST_INGEST_ORDER", &cfg.Ingest.Order)
	setDuration("FIXTURECAST_RETENTION_WINDOW", &cfg.Ingest.RetentionWindow)
	setStr("FIXTURECAST_HISTORY_PROVIDER", &cfg.Ingest.HistoryProvider)

	setStr("FIXTURECAST_ORACLE_BASE_URL", &cfg.Oracle.BaseURL)
	setStr("FIXTURECAST_ORACLE_API_KEY", &cfg.Oracle.APIKey)
	setStringSlice("FIXTURECAST_ORACLE_MODELS", &cfg.Oracle.Models)
	setDuration("FIXTURECAST_ORACLE_TIMEOUT", &cfg.Oracle.Timeout)
	setFloat64("FIXTURECAST_ORACLE_TEMPERATURE", &cfg.Oracle.Temperature)

	setFloat64("FIXTURECAST_MIN_CONFIDENCE", &cfg.Forecast.MinConfidence)
	setInt("FIXTURECAST_HISTORY_LIMIT", &cfg.Forecast.HistoryLimit)

	setBool("FIXTURECAST_SERVER_ENABLED", &cfg.Server.Enabled)
	setInt("FIXTURECAST_SERVER_PORT", &cfg.Server.Port)
	setStr("FIXTURECAST_SERVER_API_KEY", &cfg.Server.APIKey)
	setStringSlice("FIXTURECAST_CORS_ORIGINS", &cfg.Server.CORSOrigins)

	setStr("FIXTURECAST_TELEGRAM_TOKEN", &cfg.Notify.TelegramToken)
	setStr("FIXTURECAST_TELEGRAM_CHAT_ID", &cfg.Notify.TelegramChatID)
	setStr("FIXTURECAST_DISCORD_WEBHOOK_URL", &cfg.Notify.DiscordWebhookURL)
}

func setStr(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(key string, dst *bool) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setFloat64(key string, dst *float64) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setDuration(key string, dst *duration) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(key string, dst *[]string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			*dst = out
		}
	}
}
