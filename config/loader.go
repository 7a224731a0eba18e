package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads the TOML configuration file at path, merges it on top of the
// built-in defaults and applies BANKROLL_* environment variable overrides.
// An empty path skips the file. The returned Config has NOT been validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("reading config %q: %w", path, err)
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known BANKROLL_* environment variables and
// overwrites the corresponding Config fields when a variable is set.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Currency, "BANKROLL_CURRENCY")
	setFloat64(&cfg.UnitPercentage, "BANKROLL_UNIT_PERCENTAGE")
	setStr(&cfg.Timezone, "BANKROLL_TIMEZONE")
	setFloat64(&cfg.InitialBankroll, "BANKROLL_INITIAL_BANKROLL")
	setStr(&cfg.LogLevel, "BANKROLL_LOG_LEVEL")

	// ── Storage ──
	setStr(&cfg.Storage.Backend, "BANKROLL_STORAGE_BACKEND")
	setStr(&cfg.Storage.File.Path, "BANKROLL_LEDGER_FILE")
	setStr(&cfg.Storage.Redis.Addr, "BANKROLL_REDIS_ADDR")
	setStr(&cfg.Storage.Redis.Password, "BANKROLL_REDIS_PASSWORD")
	setInt(&cfg.Storage.Redis.DB, "BANKROLL_REDIS_DB")
	setBool(&cfg.Storage.Redis.TLSEnabled, "BANKROLL_REDIS_TLS_ENABLED")
	setStr(&cfg.Storage.Redis.Key, "BANKROLL_REDIS_KEY")
	setStr(&cfg.Storage.S3.Endpoint, "BANKROLL_S3_ENDPOINT")
	setStr(&cfg.Storage.S3.Region, "BANKROLL_S3_REGION")
	setStr(&cfg.Storage.S3.Bucket, "BANKROLL_S3_BUCKET")
	setStr(&cfg.Storage.S3.Key, "BANKROLL_S3_KEY")
	setStr(&cfg.Storage.S3.AccessKey, "BANKROLL_S3_ACCESS_KEY")
	setStr(&cfg.Storage.S3.SecretKey, "BANKROLL_S3_SECRET_KEY")
	setBool(&cfg.Storage.S3.ForcePathStyle, "BANKROLL_S3_FORCE_PATH_STYLE")
	setStr(&cfg.Storage.Postgres.DSN, "BANKROLL_POSTGRES_DSN")
	setStr(&cfg.Storage.Postgres.Name, "BANKROLL_POSTGRES_NAME")

	// ── Gemini ──
	setStr(&cfg.Gemini.APIKey, "GEMINI_API_KEY") // the name the genai SDK reads
	setStr(&cfg.Gemini.APIKey, "BANKROLL_GEMINI_API_KEY")
	setStr(&cfg.Gemini.Model, "BANKROLL_GEMINI_MODEL")
	setDuration(&cfg.Gemini.Timeout, "BANKROLL_GEMINI_TIMEOUT")

	// ── Classifier & coach ──
	setInt(&cfg.Classifier.BatchSize, "BANKROLL_CLASSIFIER_BATCH_SIZE")
	setDuration(&cfg.Classifier.BatchTimeout, "BANKROLL_CLASSIFIER_BATCH_TIMEOUT")
	setInt(&cfg.Coach.History, "BANKROLL_COACH_HISTORY")
}

// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and parses.

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
