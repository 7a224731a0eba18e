package bankroll

import (
	"github.com/shopspring/decimal"
)

// Stats summarizes the performance of a ledger.
//
// Amounts are rounded to cents, internal sums are not.
type Stats struct {
	InitialBankroll decimal.Decimal
	CurrentBankroll decimal.Decimal
	TotalProfitLoss decimal.Decimal
	TotalInvested   decimal.Decimal // stakes of resolved wagers
	TotalWithdrawn  decimal.Decimal
	ResolvedCount   int
	WonCount        int
	PendingCount    int
	ROI             Percent
	WinRate         Percent
	AverageOdd      decimal.Decimal // mean odd of won wagers
	MaxDrawdown     Percent         // in [0, 100]
	ExistingTeams   map[string][]string
}

// Profitable reports whether the resolved wagers made money overall.
func (s Stats) Profitable() bool { return s.TotalProfitLoss.IsPositive() }

var hundred = decimal.NewFromInt(100)

// ComputeStats derives the statistics of the ledger.
func ComputeStats(l *Ledger) Stats {
	var s Stats
	s.InitialBankroll = l.initial.Round(2)

	pl, invested, wonOdds := decimal.Zero, decimal.Zero, decimal.Zero
	for _, w := range l.wagers {
		if !w.Status.Resolved() {
			s.PendingCount++
			continue
		}
		s.ResolvedCount++
		pl = pl.Add(w.ProfitLoss)
		invested = invested.Add(w.Stake)
		if w.Status == Won {
			s.WonCount++
			wonOdds = wonOdds.Add(w.Odd)
		}
	}
	withdrawn := decimal.Zero
	for _, w := range l.withdrawals {
		withdrawn = withdrawn.Add(w.Amount)
	}

	s.TotalProfitLoss = pl.Round(2)
	s.TotalInvested = invested.Round(2)
	s.TotalWithdrawn = withdrawn.Round(2)
	s.CurrentBankroll = l.initial.Add(pl).Sub(withdrawn).Round(2)

	if invested.IsPositive() {
		s.ROI = ratio(pl.Div(invested))
	}
	if s.ResolvedCount > 0 {
		s.WinRate = ratio(decimal.NewFromInt(int64(s.WonCount)).Div(decimal.NewFromInt(int64(s.ResolvedCount))))
	}
	if s.WonCount > 0 {
		s.AverageOdd = wonOdds.Div(decimal.NewFromInt(int64(s.WonCount))).Round(2)
	}
	s.MaxDrawdown = maxDrawdown(l.History())
	s.ExistingTeams = ExistingTeams(l)
	return s
}

// maxDrawdown returns the largest decline from a running peak, as a percentage.
func maxDrawdown(points []HistoryPoint) Percent {
	var peak, worst decimal.Decimal
	for i, p := range points {
		if i == 0 || p.Value.GreaterThan(peak) {
			peak = p.Value
		}
		if !peak.IsPositive() {
			continue
		}
		if dd := peak.Sub(p.Value).Div(peak); dd.GreaterThan(worst) {
			worst = dd
		}
	}
	if worst.GreaterThan(decimal.NewFromInt(1)) {
		worst = decimal.NewFromInt(1)
	}
	return ratio(worst)
}

// ratio converts a ratio into a Percent.
func ratio(r decimal.Decimal) Percent {
	f, _ := r.Mul(hundred).Float64()
	return Percent(f)
}
