// Package cmd implements the CLI application to manage a bankroll.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/bankroll"
	"github.com/etnz/bankroll/config"
	"github.com/etnz/bankroll/gemini"
	"github.com/etnz/bankroll/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// commands lists the subcommands with their help group.
var commands = []struct {
	group string
	cmd   subcommands.Command
}{
	{"wagers", &addCmd{}},
	{"wagers", &settleCmd{}},
	{"wagers", &editCmd{}},
	{"wagers", &rmCmd{}},
	{"wagers", &withdrawCmd{}},
	{"wagers", &rmWithdrawalCmd{}},

	{"ledger", &initCmd{}},
	{"ledger", &initialCmd{}},
	{"ledger", &blacklistCmd{}},
	{"ledger", &importCmd{}},
	{"ledger", &exportCmd{}},
	{"ledger", &clearCmd{}},

	{"reports", &summaryCmd{}},
	{"reports", &historyCmd{}},
	{"reports", &betsCmd{}},
	{"reports", &performanceCmd{}},
	{"reports", &calendarCmd{}},
	{"reports", &teamsCmd{}},

	{"assistant", &classifyCmd{}},
	{"assistant", &scanCmd{}},
	{"assistant", &coachCmd{}},

	{"help", &topicCmd{}},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, e := range commands {
		c.Register(e.cmd, e.group)
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "", "Path to the TOML configuration file. Defaults to "+defaultConfigFile+" when it exists.")
	ledgerFile = flag.String("ledger-file", "", "Path to the ledger file. Overrides the configured storage.")
	rawOutput  = flag.Bool("raw", false, "Print reports as plain markdown.")
)

const defaultConfigFile = "bankroll.toml"

// stdout receives the command results.
var stdout io.Writer = os.Stdout

// loadConfig reads and validates the application configuration.
func loadConfig() (*config.Config, error) {
	path := *configFile
	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if *ledgerFile != "" {
		cfg.Storage.Backend = config.BackendFile
		cfg.Storage.File.Path = *ledgerFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(cfg.Level()).With().Timestamp().Logger()
}

// openStore returns the ledger store described by cfg, and a function
// releasing its connections.
func openStore(ctx context.Context, cfg *config.Config, loc *time.Location, log zerolog.Logger) (bankroll.LedgerStore, func(), error) {
	s := cfg.Storage
	var blob store.Blob
	closer := func() {}
	switch s.Backend {
	case config.BackendRedis:
		r, err := store.NewRedis(ctx, store.RedisConfig{
			Addr:       s.Redis.Addr,
			Password:   s.Redis.Password,
			DB:         s.Redis.DB,
			TLSEnabled: s.Redis.TLSEnabled,
			Key:        s.Redis.Key,
		})
		if err != nil {
			return nil, nil, err
		}
		blob, closer = r, func() { r.Close() }
	case config.BackendS3:
		b, err := store.NewS3(ctx, store.S3Config{
			Endpoint:       s.S3.Endpoint,
			Region:         s.S3.Region,
			Bucket:         s.S3.Bucket,
			Key:            s.S3.Key,
			AccessKey:      s.S3.AccessKey,
			SecretKey:      s.S3.SecretKey,
			ForcePathStyle: s.S3.ForcePathStyle,
		})
		if err != nil {
			return nil, nil, err
		}
		blob = b
	case config.BackendPostgres:
		p, err := store.NewPostgres(ctx, s.Postgres.DSN, s.Postgres.Name)
		if err != nil {
			return nil, nil, err
		}
		blob, closer = p, p.Close
	default:
		blob = store.File{Path: s.File.Path}
	}
	log.Debug().Str("backend", s.Backend).Msg("ledger store opened")
	return store.New(blob, loc, log), closer, nil
}

// app is what a subcommand works with: the configuration, the book and the
// assistant when one is configured.
type app struct {
	cfg   *config.Config
	book  *bankroll.Book
	ai    *gemini.Client
	log   zerolog.Logger
	close func()
}

// openApp loads the configuration and opens the book.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg)
	log.Debug().Interface("config", config.Redacted(cfg)).Msg("configuration loaded")

	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}
	st, closer, err := openStore(ctx, cfg, settings.Location, log)
	if err != nil {
		return nil, fmt.Errorf("could not open %s storage: %w", cfg.Storage.Backend, err)
	}
	opts := []bankroll.Option{
		bankroll.WithSettings(settings),
		bankroll.WithLogger(log),
		bankroll.WithDefaultInitialBankroll(decimal.NewFromFloat(cfg.InitialBankroll)),
	}

	var ai *gemini.Client
	if cfg.HasGemini() {
		ai, err = gemini.NewFromAPIKey(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, log)
		if err != nil {
			closer()
			return nil, err
		}
		opts = append(opts,
			bankroll.WithClassifier(ai, cfg.ReconcileOptions()),
			bankroll.WithAdvisor(ai, cfg.Coach.History),
		)
	}

	book, err := bankroll.Open(ctx, st, opts...)
	if err != nil {
		closer()
		return nil, err
	}
	return &app{cfg: cfg, book: book, ai: ai, log: log, close: closer}, nil
}

// assistantContext bounds a call to the assistant by the configured timeout.
func (a *app) assistantContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := a.cfg.Gemini.Timeout.Duration; d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// run opens the app, calls f and reports its error the way every subcommand does.
func run(ctx context.Context, f func(a *app) error) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer a.close()
	if err := f(a); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// printMarkdown renders md for the terminal, or prints it as is with -raw.
func printMarkdown(md string) {
	if !*rawOutput {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
		if err == nil {
			if out, err := r.Render(md); err == nil {
				fmt.Fprint(stdout, out)
				return
			}
		}
	}
	fmt.Fprint(stdout, md)
}

// parseAmount reads an amount typed by the user, comma or dot as decimal separator.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}
