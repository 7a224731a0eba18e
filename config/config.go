// Package config defines the configuration of the bankroll application and
// provides validation helpers.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/etnz/bankroll"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by BANKROLL_* environment variables.
type Config struct {
	Currency        string           `toml:"currency"`
	UnitPercentage  float64          `toml:"unit_percentage"`
	Timezone        string           `toml:"timezone"`
	InitialBankroll float64          `toml:"initial_bankroll"`
	LogLevel        string           `toml:"log_level"`
	Storage         StorageConfig    `toml:"storage"`
	Gemini          GeminiConfig     `toml:"gemini"`
	Classifier      ClassifierConfig `toml:"classifier"`
	Coach           CoachConfig      `toml:"coach"`
}

// StorageConfig selects where the ledger blob is persisted.
type StorageConfig struct {
	Backend  string         `toml:"backend"` // file, redis, s3 or postgres
	File     FileConfig     `toml:"file"`
	Redis    RedisConfig    `toml:"redis"`
	S3       S3Config       `toml:"s3"`
	Postgres PostgresConfig `toml:"postgres"`
}

// FileConfig holds the path of the ledger file.
type FileConfig struct {
	Path string `toml:"path"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TLSEnabled bool   `toml:"tls_enabled"`
	Key        string `toml:"key"`
}

// S3Config holds S3-compatible object storage parameters.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	Key            string `toml:"key"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	DSN  string `toml:"dsn"`
	Name string `toml:"name"` // row holding the ledger
}

// GeminiConfig holds the Gemini API credentials.
type GeminiConfig struct {
	APIKey  string   `toml:"api_key"`
	Model   string   `toml:"model"`
	Timeout duration `toml:"timeout"`
}

// ClassifierConfig tunes the batch reclassification of wagers.
type ClassifierConfig struct {
	BatchSize    int      `toml:"batch_size"`
	BatchTimeout duration `toml:"batch_timeout"`
}

// CoachConfig tunes the coaching request.
type CoachConfig struct {
	History int `toml:"history"`
}

// duration is a wrapper around time.Duration that supports TOML string decoding
// (e.g. "5m", "30s").
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

// Storage backends.
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendS3       = "s3"
	BackendPostgres = "postgres"
)

var backends = []string{BackendFile, BackendRedis, BackendS3, BackendPostgres}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Currency:        "BRL",
		UnitPercentage:  0.03,
		InitialBankroll: bankroll.DefaultInitialBankroll,
		LogLevel:        "warn",
		Storage: StorageConfig{
			Backend:  BackendFile,
			File:     FileConfig{Path: "bankroll.json"},
			Redis:    RedisConfig{Addr: "localhost:6379", Key: "bankroll:ledger"},
			S3:       S3Config{Region: "us-east-1", Key: "bankroll.json"},
			Postgres: PostgresConfig{Name: "default"},
		},
		Gemini: GeminiConfig{
			Model:   "gemini-2.5-flash",
			Timeout: duration{2 * time.Minute},
		},
		Classifier: ClassifierConfig{
			BatchSize:    bankroll.DefaultBatchSize,
			BatchTimeout: duration{time.Minute},
		},
		Coach: CoachConfig{History: bankroll.DefaultCoachHistory},
	}
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []error

	if money.GetCurrency(c.Currency) == nil {
		errs = append(errs, fmt.Errorf("unknown currency %q", c.Currency))
	}
	if c.UnitPercentage <= 0 || c.UnitPercentage > 1 {
		errs = append(errs, fmt.Errorf("unit_percentage must be in (0, 1], got %v", c.UnitPercentage))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.InitialBankroll <= 0 {
		errs = append(errs, fmt.Errorf("initial_bankroll must be positive, got %v", c.InitialBankroll))
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	switch s := c.Storage; s.Backend {
	case BackendFile:
		if s.File.Path == "" {
			errs = append(errs, errors.New("storage.file: path must not be empty"))
		}
	case BackendRedis:
		if s.Redis.Addr == "" {
			errs = append(errs, errors.New("storage.redis: addr must not be empty"))
		}
		if s.Redis.Key == "" {
			errs = append(errs, errors.New("storage.redis: key must not be empty"))
		}
		if s.Redis.DB < 0 {
			errs = append(errs, fmt.Errorf("storage.redis: db must be >= 0, got %d", s.Redis.DB))
		}
	case BackendS3:
		if s.S3.Bucket == "" {
			errs = append(errs, errors.New("storage.s3: bucket must not be empty"))
		}
		if s.S3.Key == "" {
			errs = append(errs, errors.New("storage.s3: key must not be empty"))
		}
		if (s.S3.AccessKey == "") != (s.S3.SecretKey == "") {
			errs = append(errs, errors.New("storage.s3: access_key and secret_key must be set together"))
		}
	case BackendPostgres:
		if strings.TrimSpace(s.Postgres.DSN) == "" {
			errs = append(errs, errors.New("storage.postgres: dsn must not be empty"))
		}
		if s.Postgres.Name == "" {
			errs = append(errs, errors.New("storage.postgres: name must not be empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q (valid: %s)", s.Backend, strings.Join(backends, ", ")))
	}

	if c.Gemini.Timeout.Duration < 0 {
		errs = append(errs, errors.New("gemini: timeout must not be negative"))
	}
	if c.Classifier.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("classifier: batch_size must be >= 1, got %d", c.Classifier.BatchSize))
	}
	if c.Classifier.BatchTimeout.Duration < 0 {
		errs = append(errs, errors.New("classifier: batch_timeout must not be negative"))
	}
	if c.Coach.History < 1 {
		errs = append(errs, fmt.Errorf("coach: history must be >= 1, got %d", c.Coach.History))
	}

	return errors.Join(errs...)
}

// Location returns the time zone cutting calendar days, the local one when
// Timezone is empty.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Settings returns the ledger settings described by c.
func (c *Config) Settings() (bankroll.Settings, error) {
	loc, err := c.Location()
	if err != nil {
		return bankroll.Settings{}, err
	}
	return bankroll.Settings{
		UnitPercentage: decimal.NewFromFloat(c.UnitPercentage),
		Location:       loc,
		Currency:       c.Currency,
	}, nil
}

// Level returns the zerolog level, warn when LogLevel is not valid.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.WarnLevel
	}
	return lvl
}

// ReconcileOptions returns the batch options of the classification reconciler.
func (c *Config) ReconcileOptions() bankroll.ReconcileOptions {
	return bankroll.ReconcileOptions{
		BatchSize:    c.Classifier.BatchSize,
		BatchTimeout: c.Classifier.BatchTimeout.Duration,
	}
}

// HasGemini reports whether the AI collaborators can be built.
func (c *Config) HasGemini() bool { return c.Gemini.APIKey != "" }

// Backends lists the valid storage backends.
func Backends() []string { return slices.Clone(backends) }
