package bankroll

import (
	"context"
	"slices"
)

// DefaultCoachHistory is the number of recent resolved wagers shown to an advisor.
const DefaultCoachHistory = 20

// Risk alert levels reported by an advisor.
const (
	RiskLow    = "Baixo"
	RiskMedium = "Médio"
	RiskHigh   = "Alto"
	RiskNone   = "Nenhum"
)

// CoachingRequest is the read-only view of the ledger given to an advisor.
type CoachingRequest struct {
	Stats       Stats
	Recent      []Wager // most recent resolved wagers, oldest first
	Performance []MarketPerformancePoint
}

// RiskAlert flags a risky behavior like chasing losses.
type RiskAlert struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Recommendation is the advice for the next wager.
type Recommendation struct {
	Title          string     `json:"recommendationTitle"`
	SuggestedUnits float64    `json:"suggestedUnits"`
	Summary        string     `json:"analysisSummary"`
	RiskAlert      *RiskAlert `json:"riskAlert,omitempty"`
	Advice         string     `json:"strategicAdvice"`
}

// Advisor produces coaching advice. It never changes the ledger.
type Advisor interface {
	Advise(ctx context.Context, req CoachingRequest) (*Recommendation, error)
}

// Extractor reads wager records out of a bet slip picture.
//
// Records are returned raw, they go through a Normalizer before use.
type Extractor interface {
	Extract(ctx context.Context, image []byte, mimeType string) ([]map[string]any, error)
}

// RecentResolved returns the n most recent resolved wagers in chronological order.
func RecentResolved(wagers []Wager, n int) []Wager {
	var resolved []Wager
	for _, w := range wagers {
		if w.Status.Resolved() {
			resolved = append(resolved, w.clone())
		}
	}
	slices.SortStableFunc(resolved, func(a, b Wager) int { return a.Date.Compare(b.Date) })
	if n >= 0 && len(resolved) > n {
		resolved = resolved[len(resolved)-n:]
	}
	return resolved
}

// NewCoachingRequest gathers the coaching inputs of the ledger for year.
func NewCoachingRequest(l *Ledger, history, year int) CoachingRequest {
	return CoachingRequest{
		Stats:       ComputeStats(l),
		Recent:      RecentResolved(l.wagers, history),
		Performance: MarketPerformance(l, year),
	}
}
