package bankroll

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// event is a single movement of the bankroll: a resolved wager or a withdrawal.
type event struct {
	on         time.Time
	amount     decimal.Decimal // signed change of the bankroll
	wager      *Wager
	withdrawal *Withdrawal
}

func (e event) id() string {
	if e.wager != nil {
		return e.wager.ID
	}
	return e.withdrawal.ID
}

// rank orders wagers before withdrawals at the same instant.
func (e event) rank() int {
	if e.wager != nil {
		return 0
	}
	return 1
}

// compareEvents is the single chronological order of the ledger:
// timestamp, then wagers before withdrawals, then id.
func compareEvents(a, b event) int {
	if c := a.on.Compare(b.on); c != 0 {
		return c
	}
	if c := a.rank() - b.rank(); c != 0 {
		return c
	}
	return strings.Compare(a.id(), b.id())
}

// chronology builds the sorted event stream of resolved wagers and withdrawals.
// Events point to copies, callers' slices are never aliased.
func chronology(wagers []Wager, withdrawals []Withdrawal) []event {
	events := make([]event, 0, len(wagers)+len(withdrawals))
	for _, w := range wagers {
		if !w.Status.Resolved() {
			continue
		}
		w := w.clone()
		events = append(events, event{on: w.Date, amount: w.ProfitLoss, wager: &w})
	}
	for _, w := range withdrawals {
		events = append(events, event{on: w.Date, amount: w.Amount.Neg(), withdrawal: &w})
	}
	slices.SortFunc(events, compareEvents)
	return events
}
