package bankroll

import (
	"testing"

	"github.com/shopspring/decimal"
)

// naiveUnits re-derives units by folding every event strictly before the wager.
func naiveUnits(initial decimal.Decimal, wagers []Wager, withdrawals []Withdrawal, pct decimal.Decimal, w Wager) decimal.Decimal {
	before := initial
	for _, x := range wagers {
		if x.Status.Resolved() && x.Date.Before(w.Date) {
			before = before.Add(x.ProfitLoss)
		}
	}
	for _, x := range withdrawals {
		if x.Date.Before(w.Date) {
			before = before.Sub(x.Amount)
		}
	}
	return unitsFor(w.Stake, before, pct)
}

func TestRecalculate_UnitsFollowBankroll(t *testing.T) {
	l := newTestLedger(t, 100)
	first, err := l.AddWager(wager("a", at("2025-01-01", 10), 1, 2, Pending))
	if err != nil {
		t.Fatalf("AddWager() unexpected error: %v", err)
	}
	assertDecimal(t, "first units", first.Units, 1)

	if _, err := l.SetStatus("a", Won); err != nil {
		t.Fatalf("SetStatus() unexpected error: %v", err)
	}
	second, err := l.AddWager(wager("b", at("2025-01-01", 11), 1.01, 2, Pending))
	if err != nil {
		t.Fatalf("AddWager() unexpected error: %v", err)
	}
	assertDecimal(t, "second units", second.Units, 1)
}

func TestRecalculate_RetroactiveChange(t *testing.T) {
	l := newTestLedger(t, 100)
	mustAdd(t, l, wager("a", at("2025-01-01", 10), 10, 2, Lost))
	mustAdd(t, l, wager("b", at("2025-01-02", 10), 0.9, 2, Pending))

	b, _ := l.Wager("b")
	assertDecimal(t, "units with first lost", b.Units, 1) // 0.9 / (90 * 1%)

	if err := l.DeleteWager("a"); err != nil {
		t.Fatalf("DeleteWager() unexpected error: %v", err)
	}
	b, _ = l.Wager("b")
	assertDecimal(t, "units without first", b.Units, 0.9)
}

func TestRecalculate_Withdrawals(t *testing.T) {
	l := newTestLedger(t, 100)
	if _, err := l.AddWithdrawal(D(50), at("2025-01-01", 8)); err != nil {
		t.Fatalf("AddWithdrawal() unexpected error: %v", err)
	}
	w := mustAdd(t, l, wager("a", at("2025-01-01", 10), 1, 2, Pending))
	assertDecimal(t, "units", w.Units, 2) // 1 / (50 * 1%)
}

func TestRecalculate_SameInstantIsNotBefore(t *testing.T) {
	on := at("2025-01-01", 10)
	l := newTestLedger(t, 100)
	mustAdd(t, l, wager("a", on, 50, 2, Lost))
	mustAdd(t, l, wager("b", on, 1, 2, Pending))
	if _, err := l.AddWithdrawal(D(25), on); err != nil {
		t.Fatalf("AddWithdrawal() unexpected error: %v", err)
	}
	for _, id := range []string{"a", "b"} {
		w, _ := l.Wager(id)
		want := unitsFor(w.Stake, D(100), D(0.01))
		if !w.Units.Equal(want) {
			t.Errorf("wager %s units = %s, want %s", id, w.Units, want)
		}
	}
}

func TestRecalculate_NonPositiveBankroll(t *testing.T) {
	l := newTestLedger(t, 10)
	mustAdd(t, l, wager("a", at("2025-01-01", 10), 10, 2, Lost))
	w := mustAdd(t, l, wager("b", at("2025-01-02", 10), 5, 2, Pending))
	assertDecimal(t, "units", w.Units, 0)

	z := mustAdd(t, l, wager("c", at("2025-01-03", 10), 0, 2, Pending))
	assertDecimal(t, "zero stake units", z.Units, 0)
}

// Units stored after any sequence of mutations match a naive replay.
func TestRecalculate_MatchesNaiveReplay(t *testing.T) {
	l := newTestLedger(t, 200)
	mustAdd(t, l, wager("e", at("2025-01-05", 9), 7, 1.9, Won))
	mustAdd(t, l, wager("a", at("2025-01-01", 9), 5, 2.1, Lost))
	mustAdd(t, l, wager("c", at("2025-01-03", 9), 12, 1.5, Pending))
	mustAdd(t, l, wager("b", at("2025-01-02", 9), 3, 3, Won))
	mustAdd(t, l, wager("d", at("2025-01-04", 9), 8, 1.7, Lost))
	if _, err := l.AddWithdrawal(D(30), at("2025-01-03", 20)); err != nil {
		t.Fatalf("AddWithdrawal() unexpected error: %v", err)
	}
	if _, err := l.SetStatus("c", Won); err != nil {
		t.Fatalf("SetStatus() unexpected error: %v", err)
	}
	if err := l.DeleteWager("b"); err != nil {
		t.Fatalf("DeleteWager() unexpected error: %v", err)
	}
	if err := l.SetInitialBankroll(D(150)); err != nil {
		t.Fatalf("SetInitialBankroll() unexpected error: %v", err)
	}

	wagers, withdrawals := l.Wagers(), l.Withdrawals()
	for _, w := range wagers {
		want := naiveUnits(l.InitialBankroll(), wagers, withdrawals, D(0.01), w)
		if !w.Units.Equal(want) {
			t.Errorf("wager %s units = %s, want %s", w.ID, w.Units, want)
		}
	}
	if err := l.Check(); err != nil {
		t.Errorf("Check() = %v, want nil", err)
	}
}

func TestRecalculate_DoesNotAlias(t *testing.T) {
	wagers := []Wager{wager("a", at("2025-01-01", 9), 5, 2, Pending)}
	out := Recalculate(D(100), wagers, nil, D(0.01))
	out[0].Stake = D(1000)
	if !wagers[0].Units.IsZero() || !wagers[0].Stake.Equal(D(5)) {
		t.Errorf("Recalculate() modified its input: %+v", wagers[0])
	}
}

func mustAdd(t *testing.T, l *Ledger, w Wager) Wager {
	t.Helper()
	stored, err := l.AddWager(w)
	if err != nil {
		t.Fatalf("AddWager(%s) unexpected error: %v", w.ID, err)
	}
	return stored
}
