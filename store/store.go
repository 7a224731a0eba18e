// Package store persists the bankroll ledger as a single JSON blob in a
// file, in memory, in Redis, in an S3 bucket or in a Postgres table.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/bankroll"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned by a Blob that holds no data yet.
var ErrNotFound = errors.New("blob not found")

// Blob reads and writes one opaque value.
type Blob interface {
	// Get returns the stored value, or ErrNotFound.
	Get(ctx context.Context) ([]byte, error)
	// Put replaces the stored value.
	Put(ctx context.Context, data []byte) error
}

// Ledger is a bankroll.LedgerStore on top of a Blob.
//
// A missing or unreadable blob loads as the default ledger, errors reaching
// the blob are returned.
type Ledger struct {
	blob       Blob
	normalizer bankroll.Normalizer
	log        zerolog.Logger
}

// New returns a LedgerStore persisting into blob. Stored dates without time
// zone are read in loc.
func New(blob Blob, loc *time.Location, log zerolog.Logger) *Ledger {
	n := bankroll.DefaultNormalizer()
	if loc != nil {
		n.Location = loc
	}
	return &Ledger{blob: blob, normalizer: n, log: log}
}

// Load implements bankroll.LedgerStore.
func (s *Ledger) Load(ctx context.Context) (*bankroll.Ledger, error) {
	data, err := s.blob.Get(ctx)
	if errors.Is(err, ErrNotFound) {
		s.log.Debug().Msg("no ledger persisted yet, starting from the default one")
		return bankroll.DefaultLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read ledger: %w", err)
	}
	l, err := s.normalizer.DecodeLedger(bytes.NewReader(data))
	if err != nil {
		s.log.Warn().Err(err).Int("bytes", len(data)).Msg("persisted ledger is unreadable, starting from the default one")
		return bankroll.DefaultLedger(), nil
	}
	return l, nil
}

// Save implements bankroll.LedgerStore.
func (s *Ledger) Save(ctx context.Context, l *bankroll.Ledger) error {
	var buf bytes.Buffer
	if err := bankroll.EncodeLedger(&buf, l); err != nil {
		return err
	}
	if err := s.blob.Put(ctx, buf.Bytes()); err != nil {
		return fmt.Errorf("could not write ledger: %w", err)
	}
	s.log.Debug().Int("bytes", buf.Len()).Msg("ledger saved")
	return nil
}
