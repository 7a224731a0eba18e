package bankroll

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultInitialBankroll is the initial bankroll of a fresh ledger.
const DefaultInitialBankroll = 100

// clock and id generator, replaced in tests.
var (
	now   = time.Now
	newID = uuid.NewString
)

// Ledger is the complete record of initial capital, wagers and withdrawals.
//
// In a Ledger wagers and withdrawals are always in chronological order, and
// wager units are always consistent with the bankroll history: every
// mutating method recalculates them before returning.
type Ledger struct {
	initial     decimal.Decimal
	wagers      []Wager
	withdrawals []Withdrawal
	blacklist   []string // team names excluded from suggestions
	settings    Settings
}

// NewLedger creates an empty ledger with default settings.
func NewLedger(initial decimal.Decimal) *Ledger {
	return &Ledger{
		initial:     initial,
		wagers:      make([]Wager, 0),
		withdrawals: make([]Withdrawal, 0),
		blacklist:   make([]string, 0),
		settings:    DefaultSettings(),
	}
}

// DefaultLedger is the ledger used when nothing was persisted yet.
func DefaultLedger() *Ledger { return NewLedger(decimal.NewFromInt(DefaultInitialBankroll)) }

// Clone returns a deep copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{
		initial:     l.initial,
		wagers:      make([]Wager, len(l.wagers)),
		withdrawals: slices.Clone(l.withdrawals),
		blacklist:   slices.Clone(l.blacklist),
		settings:    l.settings,
	}
	for i, w := range l.wagers {
		c.wagers[i] = w.clone()
	}
	return c
}

// Settings returns the ledger parameters.
func (l *Ledger) Settings() Settings { return l.settings }

// SetSettings changes the ledger parameters, units are recalculated.
func (l *Ledger) SetSettings(s Settings) {
	l.settings = s
	l.recalculate()
}

// InitialBankroll returns the capital the ledger started with.
func (l *Ledger) InitialBankroll() decimal.Decimal { return l.initial }

// Wagers returns a copy of all wagers in chronological order.
func (l *Ledger) Wagers() []Wager {
	out := make([]Wager, len(l.wagers))
	for i, w := range l.wagers {
		out[i] = w.clone()
	}
	return out
}

// Wager returns the wager with this id.
func (l *Ledger) Wager(id string) (Wager, bool) {
	i := l.wagerIndex(id)
	if i < 0 {
		return Wager{}, false
	}
	return l.wagers[i].clone(), true
}

// Withdrawals returns a copy of all withdrawals in chronological order.
func (l *Ledger) Withdrawals() []Withdrawal { return slices.Clone(l.withdrawals) }

// Blacklist returns the team names excluded from suggestions.
func (l *Ledger) Blacklist() []string { return slices.Clone(l.blacklist) }

// CurrentBankroll returns the unrounded bankroll after every resolved wager
// and withdrawal.
func (l *Ledger) CurrentBankroll() decimal.Decimal {
	total := l.initial
	for _, w := range l.wagers {
		if w.Status.Resolved() {
			total = total.Add(w.ProfitLoss)
		}
	}
	for _, w := range l.withdrawals {
		total = total.Sub(w.Amount)
	}
	return total
}

// BankrollBefore returns the bankroll that existed immediately before t.
func (l *Ledger) BankrollBefore(t time.Time) decimal.Decimal {
	return newTimeline(l.initial, l.wagers, l.withdrawals).before(t)
}

// AddWager appends a wager to the ledger.
//
// Missing id and date are generated, profit/loss is derived from the status.
// It returns the wager as stored.
func (l *Ledger) AddWager(w Wager) (Wager, error) {
	w = w.clone()
	if w.ID == "" {
		w.ID = newID()
	}
	if w.Date.IsZero() {
		w.Date = now()
	}
	if l.wagerIndex(w.ID) >= 0 {
		return Wager{}, fmt.Errorf("wager %s: %w", w.ID, ErrDuplicateID)
	}
	w.ProfitLoss = w.computeProfitLoss()
	if err := w.validate(); err != nil {
		return Wager{}, fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	l.wagers = append(l.wagers, w)
	l.recalculate()
	stored, _ := l.Wager(w.ID)
	return stored, nil
}

// UpdateWager replaces every field of the wager with the same id, except its
// creation date.
func (l *Ledger) UpdateWager(w Wager) error {
	i := l.wagerIndex(w.ID)
	if i < 0 {
		return fmt.Errorf("wager %s: %w", w.ID, ErrNotFound)
	}
	w = w.clone()
	w.Date = l.wagers[i].Date
	w.ProfitLoss = w.computeProfitLoss()
	if err := w.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	l.wagers[i] = w
	l.recalculate()
	return nil
}

// SetStatus settles a pending wager as Won or Lost.
func (l *Ledger) SetStatus(id string, status Status) (Wager, error) {
	i := l.wagerIndex(id)
	if i < 0 {
		return Wager{}, fmt.Errorf("wager %s: %w", id, ErrNotFound)
	}
	w := &l.wagers[i]
	if !status.Resolved() || w.Status.Resolved() {
		return Wager{}, fmt.Errorf("wager %s from %s to %s: %w", id, w.Status, status, ErrInvalidTransition)
	}
	w.Status = status
	w.ProfitLoss = w.computeProfitLoss()
	l.recalculate()
	return l.wagers[l.wagerIndex(id)].clone(), nil
}

// DeleteWager removes a wager.
func (l *Ledger) DeleteWager(id string) error {
	i := l.wagerIndex(id)
	if i < 0 {
		return fmt.Errorf("wager %s: %w", id, ErrNotFound)
	}
	l.wagers = slices.Delete(l.wagers, i, i+1)
	l.recalculate()
	return nil
}

// AddWithdrawal records money taken out of the bankroll. A zero 'on' means now.
func (l *Ledger) AddWithdrawal(amount decimal.Decimal, on time.Time) (Withdrawal, error) {
	if amount.IsNegative() {
		return Withdrawal{}, fmt.Errorf("withdrawal of %s: %w", amount, ErrInvalidAmount)
	}
	if on.IsZero() {
		on = now()
	}
	w := Withdrawal{ID: newID(), Date: on, Amount: amount}
	l.withdrawals = append(l.withdrawals, w)
	l.recalculate()
	return w, nil
}

// DeleteWithdrawal removes a withdrawal.
func (l *Ledger) DeleteWithdrawal(id string) error {
	i := slices.IndexFunc(l.withdrawals, func(w Withdrawal) bool { return w.ID == id })
	if i < 0 {
		return fmt.Errorf("withdrawal %s: %w", id, ErrNotFound)
	}
	l.withdrawals = slices.Delete(l.withdrawals, i, i+1)
	l.recalculate()
	return nil
}

// SetInitialBankroll changes the starting capital, it must be positive.
func (l *Ledger) SetInitialBankroll(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("initial bankroll %s must be positive: %w", amount, ErrInvalidAmount)
	}
	l.initial = amount
	l.recalculate()
	return nil
}

// BlacklistTeam excludes a team name from suggestions. It returns false if
// the name was already excluded.
func (l *Ledger) BlacklistTeam(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || slices.Contains(l.blacklist, name) {
		return false
	}
	l.blacklist = append(l.blacklist, name)
	return true
}

// setWagers replaces all wagers at once.
func (l *Ledger) setWagers(wagers []Wager) {
	l.wagers = wagers
	l.recalculate()
}

func (l *Ledger) wagerIndex(id string) int {
	return slices.IndexFunc(l.wagers, func(w Wager) bool { return w.ID == id })
}

// recalculate restores the chronological order and the units of every wager.
func (l *Ledger) recalculate() {
	l.sort()
	l.wagers = Recalculate(l.initial, l.wagers, l.withdrawals, l.settings.UnitPercentage)
}

// sort orders wagers and withdrawals by date then id.
func (l *Ledger) sort() {
	slices.SortStableFunc(l.wagers, func(a, b Wager) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	slices.SortStableFunc(l.withdrawals, func(a, b Withdrawal) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// Check verifies every ledger invariant and reports all violations.
func (l *Ledger) Check() error {
	var errs error
	if !l.initial.IsPositive() {
		errs = errors.Join(errs, fmt.Errorf("initial bankroll %s must be positive", l.initial))
	}
	seen := make(map[string]struct{}, len(l.wagers))
	for _, w := range l.wagers {
		if _, dup := seen[w.ID]; dup {
			errs = errors.Join(errs, fmt.Errorf("wager id %s is used twice", w.ID))
		}
		seen[w.ID] = struct{}{}
		if err := w.validate(); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	for _, w := range l.withdrawals {
		if w.Amount.IsNegative() {
			errs = errors.Join(errs, fmt.Errorf("withdrawal %s amount %s is negative", w.ID, w.Amount))
		}
	}
	fresh := Recalculate(l.initial, l.wagers, l.withdrawals, l.settings.UnitPercentage)
	for i, w := range fresh {
		if !w.Units.Equal(l.wagers[i].Units) {
			errs = errors.Join(errs, fmt.Errorf("wager %s units are %s, want %s", w.ID, l.wagers[i].Units, w.Units))
		}
	}
	if errs != nil {
		return fmt.Errorf("%w: %w", ErrInvariant, errs)
	}
	return nil
}
