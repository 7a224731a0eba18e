package bankroll

import (
	"time"

	"github.com/etnz/bankroll/date"
	"github.com/shopspring/decimal"
)

// HistoryPoint is the bankroll right after one event of the ledger.
type HistoryPoint struct {
	Index      int
	Value      decimal.Decimal
	Wager      *Wager      // set when the event is a resolved wager
	Withdrawal *Withdrawal // set when the event is a withdrawal
	NewDay     bool        // first event of its calendar day
	On         time.Time   // timestamp of the event, zero for the initial bankroll
	Date       date.Date   // calendar day of the event
}

// Label returns a short description of the event behind the point.
func (p HistoryPoint) Label() string {
	switch {
	case p.Wager != nil:
		return p.Wager.Details
	case p.Withdrawal != nil:
		return "Saque"
	default:
		return "Banca inicial"
	}
}

// History replays the ledger into its bankroll trajectory.
//
// The first point is the initial bankroll, then there is one point per
// resolved wager or withdrawal in chronological order.
func (l *Ledger) History() []HistoryPoint {
	loc := l.settings.location()
	events := chronology(l.wagers, l.withdrawals)
	points := make([]HistoryPoint, 0, len(events)+1)

	seed := HistoryPoint{Index: 0, Value: l.initial, NewDay: true}
	if len(events) > 0 {
		seed.Date = date.Of(events[0].on, loc)
	}
	points = append(points, seed)

	value := l.initial
	var last date.Date
	for i, e := range events {
		value = value.Add(e.amount)
		day := date.Of(e.on, loc)
		points = append(points, HistoryPoint{
			Index:      i + 1,
			Value:      value,
			Wager:      e.wager,
			Withdrawal: e.withdrawal,
			NewDay:     i == 0 || day != last,
			On:         e.on,
			Date:       day,
		})
		last = day
	}
	return points
}
