package bankroll

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// timeline is the event stream with the running bankroll.
// prefix[i] is the bankroll after the first i events, prefix[0] the initial one.
type timeline struct {
	events []event
	prefix []decimal.Decimal
}

func newTimeline(initial decimal.Decimal, wagers []Wager, withdrawals []Withdrawal) timeline {
	events := chronology(wagers, withdrawals)
	prefix := make([]decimal.Decimal, len(events)+1)
	prefix[0] = initial
	for i, e := range events {
		prefix[i+1] = prefix[i].Add(e.amount)
	}
	return timeline{events: events, prefix: prefix}
}

// before returns the bankroll resulting from all events strictly earlier than t.
func (tl timeline) before(t time.Time) decimal.Decimal {
	i := sort.Search(len(tl.events), func(i int) bool { return !tl.events[i].on.Before(t) })
	return tl.prefix[i]
}

// unitsFor converts a stake into units of the bankroll 'before'.
func unitsFor(stake, before, unitPercentage decimal.Decimal) decimal.Decimal {
	if !before.IsPositive() || !stake.IsPositive() || !unitPercentage.IsPositive() {
		return decimal.Zero
	}
	return stake.Div(before.Mul(unitPercentage))
}

// Recalculate returns a copy of wagers whose units are derived from the
// bankroll that existed immediately before each of them was placed.
//
// Every wager, pending or not, is sized against the resolved wagers and
// withdrawals strictly earlier than its own timestamp.
func Recalculate(initial decimal.Decimal, wagers []Wager, withdrawals []Withdrawal, unitPercentage decimal.Decimal) []Wager {
	tl := newTimeline(initial, wagers, withdrawals)
	out := make([]Wager, len(wagers))
	for i, w := range wagers {
		w = w.clone()
		w.Units = unitsFor(w.Stake, tl.before(w.Date), unitPercentage)
		out[i] = w
	}
	return out
}
