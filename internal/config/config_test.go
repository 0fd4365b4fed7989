package config

import (
	"strings"
	"testing"
	"time"
)

// validConfig returns Defaults with enough credentials to pass validation
// in serve mode.
func validConfig() Config {
	cfg := Defaults()
	p := cfg.Providers["apifootball"]
	p.APIKey = "key"
	cfg.Providers["apifootball"] = p
	cfg.Oracle.APIKey = "sk-test"
	return cfg
}

func TestValidateDefaultsWithCredentials(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRequiresProviderCredentials(t *testing.T) {
	cfg := Defaults()
	cfg.Oracle.APIKey = "sk-test"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error with no provider credentials")
	}
	if !strings.Contains(err.Error(), "no provider has credentials") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateGradeModeSkipsOracleAndProviders(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "grade"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("grade mode should not need credentials: %v", err)
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Mode = "bogus"
	cfg.Redis.Addr = ""
	cfg.Forecast.MinConfidence = 150
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"unknown mode", "redis: addr", "min_confidence"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestValidateUnknownProviderInOrder(t *testing.T) {
	cfg := validConfig()
	cfg.Ingest.Order = append(cfg.Ingest.Order, "espn")
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), `unknown provider "espn"`) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FIXTURECAST_MODE", "ingest")
	t.Setenv("FIXTURECAST_APIFOOTBALL_API_KEY", "env-key")
	t.Setenv("FIXTURECAST_RETENTION_WINDOW", "48h")
	t.Setenv("FIXTURECAST_ORACLE_MODELS", "gpt-4o, gpt-4o-mini ,o3")
	t.Setenv("FIXTURECAST_SERVER_PORT", "9100")

	cfg := Defaults()
	applyEnvOverrides(&cfg)

	if cfg.Mode != "ingest" {
		t.Errorf("mode = %q", cfg.Mode)
	}
	if cfg.Providers["apifootball"].APIKey != "env-key" {
		t.Errorf("provider key not overridden")
	}
	if cfg.Ingest.RetentionWindow.Duration != 48*time.Hour {
		t.Errorf("retention window = %v", cfg.Ingest.RetentionWindow.Duration)
	}
	if got := cfg.Oracle.Models; len(got) != 3 || got[1] != "gpt-4o-mini" {
		t.Errorf("models = %v", got)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
}

func TestDurationUnmarshalText(t *testing.T) {
	var d duration
	if err := d.UnmarshalText([]byte("2m30s")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if d.Duration != 2*time.Minute+30*time.Second {
		t.Errorf("duration = %v", d.Duration)
	}
	if err := d.UnmarshalText([]byte("not a duration")); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestRedactedConfigMasksSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.Oracle.APIKey = "sk-verysecretkey"
	cfg.Database.Password = "hunter2"
	cfg.Notify.DiscordWebhookURL = "https://discord.com/api/webhooks/x/y"

	red := RedactedConfig(&cfg)

	if red.Oracle.APIKey == cfg.Oracle.APIKey {
		t.Error("oracle key not masked")
	}
	if !strings.HasPrefix(red.Oracle.APIKey, "sk-v") {
		t.Errorf("mask should keep a short prefix, got %q", red.Oracle.APIKey)
	}
	if red.Database.Password == "hunter2" {
		t.Error("db password not masked")
	}
	if strings.Contains(red.Notify.DiscordWebhookURL, "webhooks/x") {
		t.Error("webhook url not masked")
	}
	if red.Providers["apifootball"].APIKey == "key" {
		t.Error("provider key not masked")
	}
	// The original must stay untouched.
	if cfg.Database.Password != "hunter2" {
		t.Error("original config mutated")
	}
}
