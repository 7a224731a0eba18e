package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bankroll.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults().Validate() = %v, want nil", err)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("BANKROLL_REDIS_PASSWORD", "")
	path := writeConfig(t, `
currency = "USD"
unit_percentage = 0.01
timezone = "UTC"
log_level = "debug"

[storage]
backend = "redis"

[storage.redis]
addr = "redis:6379"
db = 2

[classifier]
batch_size = 20
batch_timeout = "30s"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if cfg.Currency != "USD" || cfg.UnitPercentage != 0.01 {
		t.Errorf("Load() = %s, %v, want USD, 0.01", cfg.Currency, cfg.UnitPercentage)
	}
	if cfg.Storage.Backend != BackendRedis || cfg.Storage.Redis.Addr != "redis:6379" || cfg.Storage.Redis.DB != 2 {
		t.Errorf("Load() storage = %+v", cfg.Storage)
	}
	if cfg.Storage.Redis.Key != "bankroll:ledger" {
		t.Errorf("Redis.Key = %q, want the default", cfg.Storage.Redis.Key)
	}
	opts := cfg.ReconcileOptions()
	if opts.BatchSize != 20 || opts.BatchTimeout != 30*time.Second {
		t.Errorf("ReconcileOptions() = %+v, want 20, 30s", opts)
	}
	if cfg.Level() != zerolog.DebugLevel {
		t.Errorf("Level() = %v, want %v", cfg.Level(), zerolog.DebugLevel)
	}
	s, err := cfg.Settings()
	if err != nil {
		t.Fatalf("Settings() unexpected error: %v", err)
	}
	if s.Location.String() != "UTC" || s.Currency != "USD" || s.UnitPercentage.String() != "0.01" {
		t.Errorf("Settings() = %+v", s)
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") unexpected error: %v", err)
	}
	if cfg.Storage.Backend != BackendFile {
		t.Errorf("Storage.Backend = %q, want %q", cfg.Storage.Backend, BackendFile)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("Load(missing) error = nil, want an error")
	}
	if _, err := Load(writeConfig(t, `currency = `)); err == nil {
		t.Errorf("Load(invalid) error = nil, want an error")
	}
	if _, err := Load(writeConfig(t, "[gemini]\ntimeout = \"soon\"\n")); err == nil {
		t.Errorf("Load(bad duration) error = nil, want an error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BANKROLL_CURRENCY", "EUR")
	t.Setenv("BANKROLL_LEDGER_FILE", "/tmp/ledger.json")
	t.Setenv("BANKROLL_S3_FORCE_PATH_STYLE", "true")
	t.Setenv("BANKROLL_COACH_HISTORY", "5")
	t.Setenv("BANKROLL_GEMINI_TIMEOUT", "10s")
	t.Setenv("BANKROLL_CLASSIFIER_BATCH_SIZE", "not a number")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("BANKROLL_GEMINI_API_KEY", "secret")

	cfg, err := Load(writeConfig(t, `currency = "USD"`))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR from the environment", cfg.Currency)
	}
	if cfg.Storage.File.Path != "/tmp/ledger.json" || !cfg.Storage.S3.ForcePathStyle {
		t.Errorf("Storage = %+v, want overridden", cfg.Storage)
	}
	if cfg.Coach.History != 5 || cfg.Gemini.Timeout.Duration != 10*time.Second {
		t.Errorf("Coach.History = %d, Gemini.Timeout = %v, want 5, 10s", cfg.Coach.History, cfg.Gemini.Timeout)
	}
	if cfg.Classifier.BatchSize != Defaults().Classifier.BatchSize {
		t.Errorf("Classifier.BatchSize = %d, want the default on invalid value", cfg.Classifier.BatchSize)
	}
	if !cfg.HasGemini() {
		t.Errorf("HasGemini() = false, want true")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"currency", func(c *Config) { c.Currency = "XYZ" }, `unknown currency "XYZ"`},
		{"unit", func(c *Config) { c.UnitPercentage = 0 }, "unit_percentage"},
		{"big unit", func(c *Config) { c.UnitPercentage = 3 }, "unit_percentage"},
		{"timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "unknown timezone"},
		{"initial", func(c *Config) { c.InitialBankroll = -1 }, "initial_bankroll"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"backend", func(c *Config) { c.Storage.Backend = "ftp" }, "unknown storage backend"},
		{"file", func(c *Config) { c.Storage.File.Path = "" }, "storage.file"},
		{"redis", func(c *Config) { c.Storage.Backend, c.Storage.Redis.Addr = BackendRedis, "" }, "storage.redis: addr"},
		{"s3", func(c *Config) { c.Storage.Backend = BackendS3 }, "storage.s3: bucket"},
		{"s3 keys", func(c *Config) {
			c.Storage.Backend, c.Storage.S3.Bucket, c.Storage.S3.AccessKey = BackendS3, "b", "id"
		}, "access_key and secret_key"},
		{"postgres", func(c *Config) { c.Storage.Backend = BackendPostgres }, "storage.postgres: dsn"},
		{"batch", func(c *Config) { c.Classifier.BatchSize = 0 }, "batch_size"},
		{"history", func(c *Config) { c.Coach.History = 0 }, "coach: history"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want an error containing %q", err, tt.want)
			}
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.Currency = "XYZ"
	cfg.Coach.History = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want an error")
	}
	if got := strings.Count(err.Error(), "\n") + 1; got != 2 {
		t.Errorf("Validate() reported %d problems, want 2: %v", got, err)
	}
}

func TestRedacted(t *testing.T) {
	cfg := Defaults()
	cfg.Gemini.APIKey = "secret"
	cfg.Storage.Postgres.DSN = "postgres://u:p@h/db"
	r := Redacted(&cfg)
	if r.Gemini.APIKey != "***" || r.Storage.Postgres.DSN != "***" {
		t.Errorf("Redacted() = %+v, want credentials hidden", r)
	}
	if r.Storage.Redis.Password != "" {
		t.Errorf("Redacted() Redis.Password = %q, want empty to stay empty", r.Storage.Redis.Password)
	}
	if cfg.Gemini.APIKey != "secret" {
		t.Errorf("Redacted() modified its argument")
	}
}
