package bankroll

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeLedger reads a ledger blob with the default normalizer.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	return DefaultNormalizer().DecodeLedger(r)
}

// DecodeLedger reads a ledger blob
//
//	{"initialBankroll": 100, "bets": [...], "blacklistedTeams": [...], "withdrawals": [...]}
//
// The file as a whole must be valid JSON with a positive initial bankroll and
// a list of bets, otherwise ErrMalformedFile is returned. Within it, every
// record is normalized on its own, and records that are not objects are
// dropped.
func (n Normalizer) DecodeLedger(r io.Reader) (*Ledger, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var file map[string]any
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedFile, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after the ledger", ErrMalformedFile)
	}

	rawInitial, ok := file["initialBankroll"]
	if !ok {
		return nil, fmt.Errorf("%w: missing initialBankroll", ErrMalformedFile)
	}
	initial, ok := toDecimal(rawInitial)
	if !ok || !initial.IsPositive() {
		return nil, fmt.Errorf("%w: initialBankroll %v must be a positive number", ErrMalformedFile, rawInitial)
	}
	bets, ok := file["bets"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing list of bets", ErrMalformedFile)
	}

	l := NewLedger(initial)
	seen := make(map[string]struct{}, len(bets))
	wagers := make([]Wager, 0, len(bets))
	for _, raw := range bets {
		w, ok := n.Wager(raw)
		if !ok {
			continue
		}
		if _, dup := seen[w.ID]; dup {
			w.ID = n.newID()
		}
		seen[w.ID] = struct{}{}
		wagers = append(wagers, w)
	}
	if list, ok := file["withdrawals"].([]any); ok {
		for _, raw := range list {
			if w, ok := n.Withdrawal(raw); ok {
				l.withdrawals = append(l.withdrawals, w)
			}
		}
	}
	if list, ok := file["blacklistedTeams"].([]any); ok {
		for _, raw := range list {
			if name, ok := raw.(string); ok {
				l.BlacklistTeam(name)
			}
		}
	}
	l.setWagers(wagers)
	return l, nil
}

func (n Normalizer) newID() string {
	if n.NewID == nil {
		return newID()
	}
	return n.NewID()
}

// MarshalJSON writes the ledger blob with a stable key order.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	var o jsonObjectWriter
	o.Append("initialBankroll", l.initial)
	o.Append("bets", l.wagers)
	o.Append("blacklistedTeams", l.blacklist)
	o.Append("withdrawals", l.withdrawals)
	return o.MarshalJSON()
}

// EncodeLedger writes the ledger blob, indented.
func EncodeLedger(w io.Writer, l *Ledger) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("could not marshal ledger: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return fmt.Errorf("could not indent ledger: %w", err)
	}
	out.WriteByte('\n')
	if _, err := w.Write(out.Bytes()); err != nil {
		return fmt.Errorf("could not write ledger: %w", err)
	}
	return nil
}
