package bankroll

import "context"

// LedgerStore persists the whole ledger as one blob.
type LedgerStore interface {
	// Load returns the persisted ledger, or a default one when nothing usable
	// was persisted yet.
	Load(ctx context.Context) (*Ledger, error)
	// Save replaces the persisted ledger.
	Save(ctx context.Context, l *Ledger) error
}
