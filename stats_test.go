package bankroll

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComputeStats(t *testing.T) {
	l := newTestLedger(t, 100)
	a := wager("a", at("2025-01-01", 10), 10, 2, Won) // +10
	a.Details = "T1 vs Gen.G"
	mustAdd(t, l, a)
	mustAdd(t, l, wager("b", at("2025-01-02", 10), 20, 1.5, Lost)) // -20
	mustAdd(t, l, wager("c", at("2025-01-03", 10), 10, 3, Won))    // +20
	mustAdd(t, l, wager("d", at("2025-01-04", 10), 5, 2, Pending))
	if _, err := l.AddWithdrawal(D(15), at("2025-01-05", 10)); err != nil {
		t.Fatal(err)
	}

	s := ComputeStats(l)
	if s.ResolvedCount != 3 || s.WonCount != 2 || s.PendingCount != 1 {
		t.Errorf("counts = %d resolved, %d won, %d pending, want 3, 2, 1", s.ResolvedCount, s.WonCount, s.PendingCount)
	}
	assertDecimal(t, "TotalProfitLoss", s.TotalProfitLoss, 10)
	assertDecimal(t, "TotalInvested", s.TotalInvested, 40)
	assertDecimal(t, "TotalWithdrawn", s.TotalWithdrawn, 15)
	assertDecimal(t, "CurrentBankroll", s.CurrentBankroll, 95)
	assertDecimal(t, "AverageOdd", s.AverageOdd, 2.5)
	if want := Percent(25); !s.ROI.Equal(want) {
		t.Errorf("ROI = %v, want %v", s.ROI, want)
	}
	if want := Percent(200.0 / 3); !s.WinRate.Equal(want) {
		t.Errorf("WinRate = %v, want %v", s.WinRate, want)
	}
	// peak 110, then 90; then 110, 95 after the withdrawal
	if want := Percent(100 * 20.0 / 110); !s.MaxDrawdown.Equal(want) {
		t.Errorf("MaxDrawdown = %v, want %v", s.MaxDrawdown, want)
	}
	if diff := cmp.Diff(map[string][]string{MarketLoL: {"Gen.G", "T1"}}, s.ExistingTeams); diff != "" {
		t.Errorf("ExistingTeams mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeStats_Empty(t *testing.T) {
	s := ComputeStats(newTestLedger(t, 100))
	if s.ROI != 0 || s.WinRate != 0 || s.MaxDrawdown != 0 || !s.AverageOdd.IsZero() {
		t.Errorf("ComputeStats(empty) = %+v, want zero ratios", s)
	}
	assertDecimal(t, "CurrentBankroll", s.CurrentBankroll, 100)
}

func TestComputeStats_TotalLoss(t *testing.T) {
	l := newTestLedger(t, 100)
	mustAdd(t, l, wager("a", at("2025-01-01", 10), 100, 2, Lost))
	if got, want := ComputeStats(l).MaxDrawdown, Percent(100); !got.Equal(want) {
		t.Errorf("MaxDrawdown = %v, want %v", got, want)
	}
}

func TestComputeStats_DrawdownBounds(t *testing.T) {
	tests := []struct {
		name    string
		wagers  []Wager
		wantMax Percent
	}{
		{
			name: "non decreasing",
			wagers: []Wager{
				wager("a", at("2025-01-01", 10), 10, 2, Won),
				wager("b", at("2025-01-02", 10), 10, 1, Won),
				wager("c", at("2025-01-03", 10), 10, 1.5, Won),
			},
			wantMax: 0,
		},
		{
			name: "below zero",
			wagers: []Wager{
				wager("a", at("2025-01-01", 10), 80, 2, Lost),
				wager("b", at("2025-01-02", 10), 80, 2, Lost),
			},
			wantMax: 100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger(t, 100)
			for _, w := range tt.wagers {
				mustAdd(t, l, w)
			}
			got := ComputeStats(l).MaxDrawdown
			if got < 0 || got > 100 {
				t.Errorf("MaxDrawdown = %v, want within [0, 100]", got)
			}
			if !got.Equal(tt.wantMax) {
				t.Errorf("MaxDrawdown = %v, want %v", got, tt.wantMax)
			}
		})
	}
}

func TestComputeStats_BankrollIsRoundedAtTheEnd(t *testing.T) {
	l := newTestLedger(t, 100)
	// three wins of 0.005 each would round to 0.03 one by one.
	for _, id := range []string{"a", "b", "c"} {
		mustAdd(t, l, wager(id, at("2025-01-01", 10), 0.005, 2, Won))
	}
	assertDecimal(t, "CurrentBankroll", ComputeStats(l).CurrentBankroll, 100.02)
}
