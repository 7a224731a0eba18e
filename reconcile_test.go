package bankroll

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// manyWagers returns n pending LoL wagers named w0, w1...
func manyWagers(n int) []Wager {
	ws := make([]Wager, n)
	for i := range ws {
		ws[i] = wager(fmt.Sprintf("w%d", i), at("2025-01-01", 0).Add(time.Duration(i)*time.Minute), 1, 2, Pending)
	}
	return ws
}

func TestReclassify_Batches(t *testing.T) {
	var sizes []int
	c := ClassifierFunc(func(ctx context.Context, batch []ClassificationRequest) ([]Correction, error) {
		sizes = append(sizes, len(batch))
		var out []Correction
		for _, r := range batch {
			if r.ID == "w3" || r.ID == "w120" {
				out = append(out, Correction{ID: r.ID, Market: MarketCS2, League: "Major"})
			}
		}
		return out, nil
	})
	wagers := manyWagers(121)
	got, err := Reclassify(context.Background(), c, wagers, ReconcileOptions{})
	if err != nil {
		t.Fatalf("Reclassify() unexpected error: %v", err)
	}
	if diff := cmp.Diff([]int{50, 50, 21}, sizes); diff != "" {
		t.Errorf("batch sizes mismatch (-want +got):\n%s", diff)
	}
	for i, w := range got {
		corrected := w.ID == "w3" || w.ID == "w120"
		if corrected && (w.Market != MarketCS2 || w.League != "Major") {
			t.Errorf("wager %s = %s/%s, want corrected", w.ID, w.Market, w.League)
		}
		if !corrected && (w.Market != wagers[i].Market || w.League != wagers[i].League) {
			t.Errorf("wager %s = %s/%s, want untouched", w.ID, w.Market, w.League)
		}
		if !w.Stake.Equal(wagers[i].Stake) || w.Details != wagers[i].Details {
			t.Errorf("wager %s fields other than market and league changed", w.ID)
		}
	}
}

func TestReclassify_AllOrNothing(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	c := ClassifierFunc(func(ctx context.Context, batch []ClassificationRequest) ([]Correction, error) {
		calls++
		if calls == 2 {
			return nil, boom
		}
		out := make([]Correction, len(batch))
		for i, r := range batch {
			out[i] = Correction{ID: r.ID, Market: MarketSoccer, League: "Brasileirão"}
		}
		return out, nil
	})
	wagers := manyWagers(120)
	before := fmt.Sprint(wagers)
	got, err := Reclassify(context.Background(), c, wagers, ReconcileOptions{BatchSize: 50})
	if !errors.Is(err, boom) {
		t.Fatalf("Reclassify() error = %v, want %v", err, boom)
	}
	if got != nil {
		t.Errorf("Reclassify() returned wagers on failure")
	}
	if calls != 2 {
		t.Errorf("classifier called %d times, want 2", calls)
	}
	if after := fmt.Sprint(wagers); after != before {
		t.Errorf("Reclassify() changed its input on failure")
	}
}

func TestReclassify_BatchTimeout(t *testing.T) {
	c := ClassifierFunc(func(ctx context.Context, batch []ClassificationRequest) ([]Correction, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	_, err := Reclassify(context.Background(), c, manyWagers(3), ReconcileOptions{BatchTimeout: 10 * time.Millisecond})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Reclassify() error = %v, want %v", err, context.DeadlineExceeded)
	}
}

func TestReclassify_IgnoresInvalidCorrections(t *testing.T) {
	c := ClassifierFunc(func(ctx context.Context, batch []ClassificationRequest) ([]Correction, error) {
		return []Correction{
			{ID: "w0", Market: ""},
			{ID: "", Market: MarketCS2},
			{ID: "w1", Market: MarketCS2},
			{ID: "unknown", Market: MarketCS2},
		}, nil
	})
	got, err := Reclassify(context.Background(), c, manyWagers(2), ReconcileOptions{})
	if err != nil {
		t.Fatalf("Reclassify() unexpected error: %v", err)
	}
	if got[0].Market != MarketLoL {
		t.Errorf("w0 market = %q, want untouched", got[0].Market)
	}
	if got[1].Market != MarketCS2 || got[1].League != NoLeague {
		t.Errorf("w1 = %s/%s, want %s/%s", got[1].Market, got[1].League, MarketCS2, NoLeague)
	}
}

func TestReclassify_NoClassifier(t *testing.T) {
	if _, err := Reclassify(context.Background(), nil, manyWagers(1), ReconcileOptions{}); !errors.Is(err, ErrNoClassifier) {
		t.Errorf("Reclassify(nil) error = %v, want %v", err, ErrNoClassifier)
	}
}
