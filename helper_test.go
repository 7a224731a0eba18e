package bankroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// D is a helper for test to create decimals from const.
func D(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// at returns a UTC instant on the given day and hour.
func at(day string, hour int) time.Time {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return t.Add(time.Duration(hour) * time.Hour)
}

// wager is a helper to build a single wager.
func wager(id string, on time.Time, stake, odd float64, status Status) Wager {
	w := Wager{
		ID:        id,
		Date:      on,
		Market:    MarketLoL,
		League:    NoLeague,
		Structure: Single,
		BetType:   "Moneyline (ML)",
		Stake:     D(stake),
		Odd:       D(odd),
		Status:    status,
	}
	w.ProfitLoss = w.computeProfitLoss()
	return w
}

// testSettings uses a 1% unit and UTC dates.
func testSettings() Settings {
	return Settings{UnitPercentage: D(0.01), Location: time.UTC, Currency: "BRL"}
}

// newTestLedger creates a ledger with the given initial bankroll and test settings.
func newTestLedger(t *testing.T, initial float64) *Ledger {
	t.Helper()
	l := NewLedger(D(initial))
	l.SetSettings(testSettings())
	return l
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want float64) {
	t.Helper()
	if !got.Sub(D(want)).Abs().LessThan(D(0.000001)) {
		t.Errorf("%s = %s, want %v", name, got, want)
	}
}
