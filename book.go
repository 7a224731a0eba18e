package bankroll

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/semaphore"
)

// Book is the single writer of a ledger.
//
// Mutations are serialized: each one is applied to a copy of the current
// ledger, checked, saved, and only then made current. A failed mutation
// leaves the current ledger and the store untouched.
// Reads never block.
type Book struct {
	store   LedgerStore
	current atomic.Pointer[Ledger]
	writer  *semaphore.Weighted

	settings   Settings
	initial    decimal.Decimal // used by Clear
	classifier Classifier
	advisor    Advisor
	reconcile  ReconcileOptions
	history    int
	log        zerolog.Logger
}

// Option configures a Book.
type Option func(*Book)

// WithSettings sets the ledger parameters.
func WithSettings(s Settings) Option { return func(b *Book) { b.settings = s } }

// WithClassifier enables reclassification after import and image insertion.
func WithClassifier(c Classifier, opts ReconcileOptions) Option {
	return func(b *Book) {
		b.classifier = c
		b.reconcile = opts
	}
}

// WithAdvisor enables coaching, history is the number of recent wagers shown.
func WithAdvisor(a Advisor, history int) Option {
	return func(b *Book) {
		b.advisor = a
		b.history = history
	}
}

// WithLogger sets the logger of committed and rejected mutations.
func WithLogger(log zerolog.Logger) Option { return func(b *Book) { b.log = log } }

// WithDefaultInitialBankroll sets the initial bankroll restored by Clear.
func WithDefaultInitialBankroll(amount decimal.Decimal) Option {
	return func(b *Book) { b.initial = amount }
}

// Open loads the ledger from store.
func Open(ctx context.Context, store LedgerStore, opts ...Option) (*Book, error) {
	b := &Book{
		store:    store,
		writer:   semaphore.NewWeighted(1),
		settings: DefaultSettings(),
		initial:  decimal.NewFromInt(DefaultInitialBankroll),
		history:  DefaultCoachHistory,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	l, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load ledger: %w", err)
	}
	l.SetSettings(b.settings)
	if err := l.Check(); err != nil {
		b.log.Warn().Err(err).Msg("loaded ledger is inconsistent")
	}
	b.current.Store(l)
	b.log.Debug().Int("wagers", len(l.wagers)).Int("withdrawals", len(l.withdrawals)).Msg("ledger loaded")
	return b, nil
}

// Ledger returns a copy of the current ledger.
func (b *Book) Ledger() *Ledger { return b.current.Load().Clone() }

// Settings returns the ledger parameters.
func (b *Book) Settings() Settings { return b.settings }

// Normalizer returns the normalizer matching the book settings.
func (b *Book) Normalizer() Normalizer {
	n := DefaultNormalizer()
	n.Location = b.settings.location()
	return n
}

// commit runs mutate on a copy of the current ledger inside the critical
// section, then checks, saves and publishes the result.
func (b *Book) commit(ctx context.Context, op string, mutate func(*Ledger) error) error {
	if err := b.writer.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer b.writer.Release(1)

	next := b.current.Load().Clone()
	if err := mutate(next); err != nil {
		b.log.Warn().Str("op", op).Err(err).Msg("mutation rejected")
		return fmt.Errorf("%s: %w", op, err)
	}
	next.SetSettings(b.settings)
	if err := next.Check(); err != nil {
		b.log.Error().Str("op", op).Err(err).Msg("mutation rejected")
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := b.store.Save(ctx, next); err != nil {
		b.log.Error().Str("op", op).Err(err).Msg("could not save ledger")
		return fmt.Errorf("%s: could not save ledger: %w", op, err)
	}
	b.current.Store(next)
	b.log.Info().Str("op", op).Int("wagers", len(next.wagers)).Str("bankroll", next.CurrentBankroll().StringFixed(2)).Msg("ledger committed")
	return nil
}

// AddWager records a new wager and returns it as stored.
func (b *Book) AddWager(ctx context.Context, w Wager) (Wager, error) {
	var stored Wager
	err := b.commit(ctx, "add wager", func(l *Ledger) (err error) {
		stored, err = l.AddWager(w)
		return err
	})
	if err != nil {
		return Wager{}, err
	}
	stored, _ = b.current.Load().Wager(stored.ID)
	return stored, nil
}

// UpdateWager replaces the wager with the same id, its creation date is kept.
func (b *Book) UpdateWager(ctx context.Context, w Wager) error {
	return b.commit(ctx, "update wager", func(l *Ledger) error { return l.UpdateWager(w) })
}

// SetStatus settles a pending wager.
func (b *Book) SetStatus(ctx context.Context, id string, status Status) (Wager, error) {
	err := b.commit(ctx, "settle wager", func(l *Ledger) error {
		_, err := l.SetStatus(id, status)
		return err
	})
	if err != nil {
		return Wager{}, err
	}
	w, _ := b.current.Load().Wager(id)
	return w, nil
}

// DeleteWager removes a wager.
func (b *Book) DeleteWager(ctx context.Context, id string) error {
	return b.commit(ctx, "delete wager", func(l *Ledger) error { return l.DeleteWager(id) })
}

// AddWithdrawal records money taken out of the bankroll. A zero 'on' means now.
func (b *Book) AddWithdrawal(ctx context.Context, amount decimal.Decimal, on time.Time) (Withdrawal, error) {
	var w Withdrawal
	err := b.commit(ctx, "withdraw", func(l *Ledger) (err error) {
		w, err = l.AddWithdrawal(amount, on)
		return err
	})
	return w, err
}

// DeleteWithdrawal removes a withdrawal.
func (b *Book) DeleteWithdrawal(ctx context.Context, id string) error {
	return b.commit(ctx, "delete withdrawal", func(l *Ledger) error { return l.DeleteWithdrawal(id) })
}

// SetInitialBankroll changes the starting capital.
func (b *Book) SetInitialBankroll(ctx context.Context, amount decimal.Decimal) error {
	return b.commit(ctx, "set initial bankroll", func(l *Ledger) error { return l.SetInitialBankroll(amount) })
}

// BlacklistTeam excludes a team name from suggestions. A blank or already
// excluded name leaves the ledger untouched.
func (b *Book) BlacklistTeam(ctx context.Context, name string) error {
	if !b.current.Load().Clone().BlacklistTeam(name) {
		return nil
	}
	return b.commit(ctx, "blacklist team", func(l *Ledger) error {
		l.BlacklistTeam(name)
		return nil
	})
}

// Import replaces the whole ledger by the content of a ledger file.
//
// Wagers are reclassified when a classifier is configured. If the file is
// malformed or the classification fails nothing changes.
func (b *Book) Import(ctx context.Context, r io.Reader) error {
	imported, err := b.Normalizer().DecodeLedger(r)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	return b.commit(ctx, "import", func(l *Ledger) error {
		imported.SetSettings(b.settings)
		if b.classifier != nil {
			wagers, err := Reclassify(ctx, b.classifier, imported.wagers, b.reconcile)
			if err != nil {
				return err
			}
			imported.setWagers(wagers)
		}
		*l = *imported
		return nil
	})
}

// Export writes the current ledger file.
func (b *Book) Export(w io.Writer) error { return EncodeLedger(w, b.current.Load()) }

// Clear resets the ledger to an empty one.
func (b *Book) Clear(ctx context.Context) error {
	return b.commit(ctx, "clear", func(l *Ledger) error {
		*l = *NewLedger(b.initial)
		return nil
	})
}

// InsertExtracted normalizes records read from a bet slip and adds them to
// the ledger as new wagers. The whole wager set is then reclassified when a
// classifier is configured.
func (b *Book) InsertExtracted(ctx context.Context, records []map[string]any) ([]Wager, error) {
	n := b.Normalizer()
	var added []Wager
	err := b.commit(ctx, "insert extracted", func(l *Ledger) error {
		added = added[:0]
		for _, raw := range records {
			w, ok := n.Wager(raw)
			if !ok {
				continue
			}
			w.ID = n.newID() // a picture never identifies a wager
			w.Status = Pending
			w.ProfitLoss = decimal.Zero
			stored, err := l.AddWager(w)
			if err != nil {
				return err
			}
			added = append(added, stored)
		}
		if b.classifier == nil {
			return nil
		}
		wagers, err := Reclassify(ctx, b.classifier, l.wagers, b.reconcile)
		if err != nil {
			return err
		}
		l.setWagers(wagers)
		return nil
	})
	if err != nil {
		return nil, err
	}
	current := b.current.Load()
	for i, w := range added {
		added[i], _ = current.Wager(w.ID)
	}
	return added, nil
}

// Reclassify sends every wager to the classifier and applies its corrections.
func (b *Book) Reclassify(ctx context.Context) error {
	if b.classifier == nil {
		return ErrNoClassifier
	}
	return b.commit(ctx, "reclassify", func(l *Ledger) error {
		wagers, err := Reclassify(ctx, b.classifier, l.wagers, b.reconcile)
		if err != nil {
			return err
		}
		l.setWagers(wagers)
		return nil
	})
}

// Advise asks the advisor for a recommendation on the next wager.
// The ledger is not changed.
func (b *Book) Advise(ctx context.Context, year int) (*Recommendation, error) {
	if b.advisor == nil {
		return nil, ErrNoAdvisor
	}
	req := NewCoachingRequest(b.current.Load(), b.history, year)
	rec, err := b.advisor.Advise(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("advise: %w", err)
	}
	return rec, nil
}
