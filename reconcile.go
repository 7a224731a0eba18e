package bankroll

import (
	"context"
	"fmt"
	"time"
)

// ClassificationRequest is what a classifier sees of a wager.
type ClassificationRequest struct {
	ID      string `json:"id"`
	Market  string `json:"market"`
	League  string `json:"league"`
	Details string `json:"details"`
	BetType string `json:"betType"`
}

// Correction is the market and league a classifier assigns to a wager.
type Correction struct {
	ID     string `json:"id"`
	Market string `json:"market"`
	League string `json:"league"`
}

// Classifier assigns market and league labels to wagers.
//
// It may return corrections for a subset of the requested ids only.
type Classifier interface {
	Classify(ctx context.Context, batch []ClassificationRequest) ([]Correction, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, batch []ClassificationRequest) ([]Correction, error)

func (f ClassifierFunc) Classify(ctx context.Context, batch []ClassificationRequest) ([]Correction, error) {
	return f(ctx, batch)
}

// DefaultBatchSize is the number of wagers sent to a classifier at once.
const DefaultBatchSize = 50

// ReconcileOptions bounds a classification run.
type ReconcileOptions struct {
	BatchSize    int           // 0 means DefaultBatchSize
	BatchTimeout time.Duration // 0 means no timeout
}

// Reclassify sends wagers to the classifier in sequential batches and
// returns a copy of wagers with the corrected market and league.
//
// Either every batch succeeds or an error is returned and wagers are
// untouched. Wagers the classifier did not answer for keep their labels.
func Reclassify(ctx context.Context, c Classifier, wagers []Wager, opts ReconcileOptions) ([]Wager, error) {
	if c == nil {
		return nil, ErrNoClassifier
	}
	size := opts.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}

	corrections := make(map[string]Correction, len(wagers))
	for start := 0; start < len(wagers); start += size {
		end := min(start+size, len(wagers))
		batch := make([]ClassificationRequest, 0, end-start)
		for _, w := range wagers[start:end] {
			batch = append(batch, ClassificationRequest{
				ID:      w.ID,
				Market:  w.Market,
				League:  w.League,
				Details: w.Details,
				BetType: w.BetType,
			})
		}
		answer, err := classifyBatch(ctx, c, batch, opts.BatchTimeout)
		if err != nil {
			return nil, fmt.Errorf("classifying wagers %d to %d of %d: %w", start+1, end, len(wagers), err)
		}
		for _, corr := range answer {
			corrections[corr.ID] = corr
		}
	}

	out := make([]Wager, len(wagers))
	for i, w := range wagers {
		w = w.clone()
		if corr, ok := corrections[w.ID]; ok {
			w.Market = corr.Market
			w.League = corr.League
		}
		out[i] = w
	}
	return out, nil
}

func classifyBatch(ctx context.Context, c Classifier, batch []ClassificationRequest, timeout time.Duration) ([]Correction, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	answer, err := c.Classify(ctx, batch)
	if err != nil {
		return nil, err
	}
	// an answer arriving after the deadline is not trusted.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	valid := answer[:0:0]
	for _, corr := range answer {
		if corr.ID != "" && corr.Market != "" {
			if corr.League == "" {
				corr.League = NoLeague
			}
			valid = append(valid, corr)
		}
	}
	return valid, nil
}
