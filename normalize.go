package bankroll

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// fieldPath is a compiled JSONPath expression evaluated against a decoded record.
type fieldPath func(context.Context, any) (any, error)

// aliases compiles the accepted spellings of one field, in order of preference.
func aliases(exprs ...string) []fieldPath {
	paths := make([]fieldPath, 0, len(exprs))
	for _, expr := range exprs {
		eval, err := jsonpath.New(expr)
		if err != nil {
			panic(fmt.Sprintf("invalid field path %q: %v", expr, err))
		}
		paths = append(paths, fieldPath(eval))
	}
	return paths
}

// Field spellings, current name first, then legacy ones.
var (
	idField         = aliases("$.id")
	dateField       = aliases("$.date", "$.createdAt", "$.timestamp")
	marketField     = aliases("$.market")
	leagueField     = aliases("$.league", "$.context")
	structureField  = aliases("$.betStructure", "$.structure")
	betTypeField    = aliases("$.betType")
	detailsField    = aliases("$.details", "$.betDetail")
	selectionsField = aliases("$.selections")
	labelField      = aliases("$.label", "$.betType")
	unitsField      = aliases("$.units")
	stakeField      = aliases("$.stakeValue", "$.value", "$.stake")
	oddField        = aliases("$.odd", "$.odds")
	statusField     = aliases("$.status")
	amountField     = aliases("$.amount", "$.value")
)

// lookup returns the first non-null value found by paths in record.
func lookup(record map[string]any, paths []fieldPath) (any, bool) {
	for _, p := range paths {
		v, err := p(context.Background(), record)
		if err == nil && v != nil {
			return v, true
		}
	}
	return nil, false
}

// statuses maps every known status label, lower cased, to its Status.
var statuses = map[string]Status{
	"pendente": Pending,
	"pending":  Pending,
	"ganhou":   Won,
	"won":      Won,
	"win":      Won,
	"vitória":  Won,
	"vitoria":  Won,
	"green":    Won,
	"perdeu":   Lost,
	"lost":     Lost,
	"loss":     Lost,
	"derrota":  Lost,
	"red":      Lost,
}

// ParseStatus maps a status label to a Status. Unknown labels are Pending.
func ParseStatus(label string) Status {
	return statuses[strings.ToLower(strings.TrimSpace(label))]
}

var combinedLabels = map[string]bool{
	"combined":    true,
	"combinada":   true,
	"múltipla":    true,
	"multipla":    true,
	"multiple":    true,
	"parlay":      true,
	"accumulator": true,
}

// Normalizer turns loosely typed records into canonical ledger entries.
//
// It is the trust boundary of the ledger: corrupt fields are replaced by
// safe defaults instead of failing the whole record.
type Normalizer struct {
	Now      func() time.Time
	NewID    func() string
	Location *time.Location // for dates without time zone
}

// DefaultNormalizer uses the system clock, random ids and local time.
func DefaultNormalizer() Normalizer {
	return Normalizer{Now: time.Now, NewID: newID, Location: time.Local}
}

// NormalizeWager is DefaultNormalizer().Wager.
func NormalizeWager(raw any) (Wager, bool) { return DefaultNormalizer().Wager(raw) }

// NormalizeWithdrawal is DefaultNormalizer().Withdrawal.
func NormalizeWithdrawal(raw any) (Withdrawal, bool) { return DefaultNormalizer().Withdrawal(raw) }

// Wager converts raw into a Wager. It returns false only when raw is not an object.
func (n Normalizer) Wager(raw any) (Wager, bool) {
	record, ok := raw.(map[string]any)
	if !ok {
		return Wager{}, false
	}
	w := Wager{
		ID:      n.id(record),
		Date:    n.date(record),
		Market:  stringOr(record, marketField, DefaultMarket),
		League:  stringOr(record, leagueField, NoLeague),
		BetType: stringOr(record, betTypeField, NoLeague),
		Details: stringOr(record, detailsField, ""),
		Stake:   decimalAtLeast(record, stakeField, decimal.Zero),
		Odd:     decimalAtLeast(record, oddField, decimal.NewFromInt(1)),
		Units:   decimalAtLeast(record, unitsField, decimal.Zero),
	}
	if v, ok := lookup(record, statusField); ok {
		if label, ok := v.(string); ok {
			w.Status = ParseStatus(label)
		}
	}

	var selections []Selection
	if v, ok := lookup(record, selectionsField); ok {
		if items, ok := v.([]any); ok {
			for _, item := range items {
				if s, ok := normalizeSelection(item); ok {
					selections = append(selections, s)
				}
			}
		}
	}
	structure := stringOr(record, structureField, "")
	switch {
	case combinedLabels[strings.ToLower(structure)]:
		w.Structure = Combined
	case structure == "" && len(selections) > 1:
		w.Structure = Combined
	}
	if w.Structure == Combined {
		w.Selections = selections
	}

	// profit/loss is never trusted.
	w.ProfitLoss = w.computeProfitLoss()
	return w, true
}

func normalizeSelection(raw any) (Selection, bool) {
	record, ok := raw.(map[string]any)
	if !ok {
		return Selection{}, false
	}
	return Selection{
		Details: stringOr(record, detailsField, ""),
		Label:   stringOr(record, labelField, ""),
		Odd:     decimalAtLeast(record, oddField, decimal.NewFromInt(1)),
	}, true
}

// Withdrawal converts raw into a Withdrawal. It returns false only when raw is not an object.
func (n Normalizer) Withdrawal(raw any) (Withdrawal, bool) {
	record, ok := raw.(map[string]any)
	if !ok {
		return Withdrawal{}, false
	}
	return Withdrawal{
		ID:     n.id(record),
		Date:   n.date(record),
		Amount: decimalAtLeast(record, amountField, decimal.Zero),
	}, true
}

// NormalizeCorrection converts a classifier answer into a Correction.
// Answers without id or market are rejected.
func NormalizeCorrection(raw any) (Correction, bool) {
	record, ok := raw.(map[string]any)
	if !ok {
		return Correction{}, false
	}
	c := Correction{
		ID:     stringOr(record, idField, ""),
		Market: stringOr(record, marketField, ""),
		League: stringOr(record, leagueField, NoLeague),
	}
	if c.ID == "" || c.Market == "" {
		return Correction{}, false
	}
	return c, true
}

func (n Normalizer) id(record map[string]any) string {
	if v, ok := lookup(record, idField); ok {
		switch x := v.(type) {
		case string:
			if s := strings.TrimSpace(x); s != "" {
				return s
			}
		case float64, json.Number:
			return fmt.Sprint(x)
		}
	}
	return n.newID()
}

func (n Normalizer) date(record map[string]any) time.Time {
	if v, ok := lookup(record, dateField); ok {
		if t, ok := parseTime(v, n.Location); ok {
			return t
		}
	}
	if n.Now == nil {
		return now()
	}
	return n.Now()
}

// parseTime accepts RFC 3339 strings, plain days, and epoch milliseconds.
func parseTime(v any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	switch x := v.(type) {
	case string:
		x = strings.TrimSpace(x)
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			var t time.Time
			var err error
			if layout == time.RFC3339Nano {
				t, err = time.Parse(layout, x)
			} else {
				t, err = time.ParseInLocation(layout, x, loc)
			}
			if err == nil {
				return t, true
			}
		}
	default:
		if ms, ok := toDecimal(v); ok && ms.IsPositive() {
			return time.UnixMilli(ms.IntPart()), true
		}
	}
	return time.Time{}, false
}

// stringOr returns the trimmed string found at paths or def.
func stringOr(record map[string]any, paths []fieldPath, def string) string {
	v, ok := lookup(record, paths)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

// decimalAtLeast returns the number found at paths, or min when it is
// missing, not a finite number, or below min.
func decimalAtLeast(record map[string]any, paths []fieldPath, min decimal.Decimal) decimal.Decimal {
	v, ok := lookup(record, paths)
	if !ok {
		return min
	}
	d, ok := toDecimal(v)
	if !ok || d.LessThan(min) {
		return min
	}
	return d
}

// toDecimal coerces JSON numbers and numeric strings.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(x), true
	case float32:
		return toDecimal(float64(x))
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		return d, err == nil
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(x), ",", ".")
		d, err := decimal.NewFromString(s)
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}
