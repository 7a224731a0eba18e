package bankroll

import (
	"errors"
	"testing"
	"time"
)

func TestLedger_ScenarioWonWager(t *testing.T) {
	l := newTestLedger(t, 100)
	w := mustAdd(t, l, wager("a", at("2025-01-01", 10), 1, 2, Pending))
	if w.Status != Pending || !w.ProfitLoss.IsZero() {
		t.Fatalf("AddWager() = %v %s, want a pending wager without profit", w.Status, w.ProfitLoss)
	}
	w, err := l.SetStatus("a", Won)
	if err != nil {
		t.Fatalf("SetStatus() unexpected error: %v", err)
	}
	assertDecimal(t, "ProfitLoss", w.ProfitLoss, 1)
	assertDecimal(t, "CurrentBankroll", l.CurrentBankroll(), 101)
}

func TestLedger_AddWagerFillsIdentity(t *testing.T) {
	defer func(n func() time.Time, id func() string) { now, newID = n, id }(now, newID)
	now = func() time.Time { return at("2025-05-05", 5) }
	newID = func() string { return "fresh" }

	l := newTestLedger(t, 100)
	w := mustAdd(t, l, Wager{Stake: D(1), Odd: D(2)})
	if w.ID != "fresh" {
		t.Errorf("ID = %q, want %q", w.ID, "fresh")
	}
	if !w.Date.Equal(at("2025-05-05", 5)) {
		t.Errorf("Date = %v, want %v", w.Date, at("2025-05-05", 5))
	}
}

func TestLedger_AddWagerRejects(t *testing.T) {
	l := newTestLedger(t, 100)
	mustAdd(t, l, wager("a", at("2025-01-01", 10), 1, 2, Pending))

	tests := []struct {
		name    string
		w       Wager
		wantErr error
	}{
		{"duplicate id", wager("a", at("2025-01-02", 10), 1, 2, Pending), ErrDuplicateID},
		{"negative stake", wager("b", at("2025-01-02", 10), -1, 2, Pending), ErrInvalidAmount},
		{"odd below one", wager("c", at("2025-01-02", 10), 1, 0.5, Pending), ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := l.AddWager(tt.w); !errors.Is(err, tt.wantErr) {
				t.Errorf("AddWager() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if got := len(l.Wagers()); got != 1 {
		t.Errorf("len(Wagers()) = %d, want 1", got)
	}
}

func TestLedger_SetStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		wantErr error
	}{
		{"pending to won", Pending, Won, nil},
		{"pending to lost", Pending, Lost, nil},
		{"pending to pending", Pending, Pending, ErrInvalidTransition},
		{"won to lost", Won, Lost, ErrInvalidTransition},
		{"lost to pending", Lost, Pending, ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger(t, 100)
			mustAdd(t, l, wager("a", at("2025-01-01", 10), 10, 1.5, tt.from))
			_, err := l.SetStatus("a", tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SetStatus() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	l := newTestLedger(t, 100)
	if _, err := l.SetStatus("missing", Won); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetStatus(missing) error = %v, want %v", err, ErrNotFound)
	}
}

func TestLedger_UpdateWagerKeepsDate(t *testing.T) {
	l := newTestLedger(t, 100)
	mustAdd(t, l, wager("a", at("2025-01-01", 10), 1, 2, Pending))

	edit := wager("a", at("2030-01-01", 10), 4, 3, Won)
	edit.Details = "T1 vs Gen.G"
	if err := l.UpdateWager(edit); err != nil {
		t.Fatalf("UpdateWager() unexpected error: %v", err)
	}
	w, _ := l.Wager("a")
	if !w.Date.Equal(at("2025-01-01", 10)) {
		t.Errorf("Date = %v, want the creation date", w.Date)
	}
	assertDecimal(t, "ProfitLoss", w.ProfitLoss, 8)
	assertDecimal(t, "Units", w.Units, 4)
	if w.Details != "T1 vs Gen.G" {
		t.Errorf("Details = %q, want %q", w.Details, "T1 vs Gen.G")
	}

	if err := l.UpdateWager(wager("missing", at("2025-01-01", 10), 1, 2, Pending)); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateWager(missing) error = %v, want %v", err, ErrNotFound)
	}
}

func TestLedger_Withdrawals(t *testing.T) {
	l := newTestLedger(t, 100)
	if _, err := l.AddWithdrawal(D(-1), time.Time{}); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("AddWithdrawal(-1) error = %v, want %v", err, ErrInvalidAmount)
	}
	w, err := l.AddWithdrawal(D(30), at("2025-01-01", 10))
	if err != nil {
		t.Fatalf("AddWithdrawal() unexpected error: %v", err)
	}
	assertDecimal(t, "CurrentBankroll", l.CurrentBankroll(), 70)

	if err := l.DeleteWithdrawal(w.ID); err != nil {
		t.Fatalf("DeleteWithdrawal() unexpected error: %v", err)
	}
	assertDecimal(t, "CurrentBankroll", l.CurrentBankroll(), 100)
	if err := l.DeleteWithdrawal(w.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteWithdrawal() twice error = %v, want %v", err, ErrNotFound)
	}
}

func TestLedger_SetInitialBankroll(t *testing.T) {
	l := newTestLedger(t, 100)
	for _, amount := range []float64{0, -10} {
		if err := l.SetInitialBankroll(D(amount)); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("SetInitialBankroll(%v) error = %v, want %v", amount, err, ErrInvalidAmount)
		}
	}
	w := mustAdd(t, l, wager("a", at("2025-01-01", 10), 2, 2, Pending))
	assertDecimal(t, "Units", w.Units, 2)
	if err := l.SetInitialBankroll(D(200)); err != nil {
		t.Fatalf("SetInitialBankroll() unexpected error: %v", err)
	}
	w, _ = l.Wager("a")
	assertDecimal(t, "Units", w.Units, 1)
}

func TestLedger_BankrollIdentity(t *testing.T) {
	l := newTestLedger(t, 250)
	mustAdd(t, l, wager("a", at("2025-01-01", 10), 10, 1.8, Won))
	mustAdd(t, l, wager("b", at("2025-01-02", 10), 20, 2.5, Lost))
	mustAdd(t, l, wager("c", at("2025-01-03", 10), 5, 3.1, Won))
	mustAdd(t, l, wager("d", at("2025-01-04", 10), 50, 1.1, Pending))
	if _, err := l.AddWithdrawal(D(12.34), at("2025-01-02", 23)); err != nil {
		t.Fatal(err)
	}
	// 250 + 8 - 20 + 10.5 - 12.34
	assertDecimal(t, "CurrentBankroll", l.CurrentBankroll(), 236.16)
	assertDecimal(t, "BankrollBefore", l.BankrollBefore(at("2025-01-03", 10)), 225.66)
}

func TestLedger_ChronologicalOrder(t *testing.T) {
	l := newTestLedger(t, 100)
	mustAdd(t, l, wager("c", at("2025-01-03", 10), 1, 2, Pending))
	mustAdd(t, l, wager("a", at("2025-01-01", 10), 1, 2, Pending))
	mustAdd(t, l, wager("b", at("2025-01-01", 10), 1, 2, Pending))

	var got []string
	for _, w := range l.Wagers() {
		got = append(got, w.ID)
	}
	if want := []string{"a", "b", "c"}; len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Errorf("Wagers() order = %v, want %v", got, want)
	}
}

func TestLedger_CloneIsDeep(t *testing.T) {
	l := newTestLedger(t, 100)
	w := wager("a", at("2025-01-01", 10), 1, 2, Pending)
	w.Structure = Combined
	w.Selections = []Selection{{Details: "x", Odd: D(2)}}
	mustAdd(t, l, w)

	c := l.Clone()
	c.wagers[0].Selections[0].Details = "changed"
	c.BlacklistTeam("T1")
	if got, _ := l.Wager("a"); got.Selections[0].Details != "x" {
		t.Errorf("Clone() shares selections with the original")
	}
	if len(l.Blacklist()) != 0 {
		t.Errorf("Clone() shares the blacklist with the original")
	}
}

func TestLedger_CheckReportsViolations(t *testing.T) {
	l := newTestLedger(t, 100)
	mustAdd(t, l, wager("a", at("2025-01-01", 10), 1, 2, Pending))
	if err := l.Check(); err != nil {
		t.Fatalf("Check() = %v, want nil", err)
	}

	l.wagers[0].Units = D(42)
	l.wagers[0].ProfitLoss = D(3)
	l.wagers = append(l.wagers, l.wagers[0])
	err := l.Check()
	if !errors.Is(err, ErrInvariant) {
		t.Fatalf("Check() = %v, want %v", err, ErrInvariant)
	}
}

func TestLedger_BlacklistTeam(t *testing.T) {
	l := newTestLedger(t, 100)
	if !l.BlacklistTeam(" T1 ") {
		t.Error("BlacklistTeam(T1) = false, want true")
	}
	if l.BlacklistTeam("T1") {
		t.Error("BlacklistTeam(T1) twice = true, want false")
	}
	if l.BlacklistTeam("  ") {
		t.Error("BlacklistTeam(blank) = true, want false")
	}
}
