package bankroll

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the settlement state of a wager.
type Status int

const (
	Pending Status = iota
	Won
	Lost
)

// String returns the label persisted in the ledger blob.
func (s Status) String() string {
	switch s {
	case Won:
		return "Ganhou"
	case Lost:
		return "Perdeu"
	default:
		return "Pendente"
	}
}

// Resolved reports whether the status is Won or Lost.
func (s Status) Resolved() bool { return s == Won || s == Lost }

func (s Status) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// Structure tells a single bet from a multi-selection one.
type Structure int

const (
	Single Structure = iota
	Combined
)

func (s Structure) String() string {
	if s == Combined {
		return "Combined"
	}
	return "Single"
}

func (s Structure) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// Known markets and leagues.
const (
	MarketLoL    = "League of Legends"
	MarketCS2    = "Counter-Strike 2"
	MarketSoccer = "Futebol"

	// GameTitleMarket is the market whose league breakdown is reported.
	GameTitleMarket = MarketLoL
	// DefaultMarket is used when a record carries no market.
	DefaultMarket = MarketLoL
	// NoLeague is the sentinel for a wager without league.
	NoLeague = "N/A"
)

// Markets lists the markets known to the application.
var Markets = []string{MarketLoL, MarketCS2, MarketSoccer}

// Leagues lists the recognized leagues of the game-title market.
var Leagues = []string{"LPL", "LCK", "LTA Sul", "LTA Norte", "LEC", "Outros/Minors"}

// IsLeague reports whether name is a recognized league of the game-title market.
func IsLeague(name string) bool { return slices.Contains(Leagues, name) }

// Selection is one leg of a Combined wager.
type Selection struct {
	Details string          `json:"details"`
	Label   string          `json:"label,omitempty"`
	Odd     decimal.Decimal `json:"odd"`
}

// Wager is a single or combined bet recorded in the ledger.
type Wager struct {
	ID         string
	Date       time.Time // creation timestamp, immutable once set.
	Market     string
	League     string
	Structure  Structure
	BetType    string
	Details    string
	Selections []Selection // Combined wagers only.
	Units      decimal.Decimal
	Stake      decimal.Decimal
	Odd        decimal.Decimal
	Status     Status
	ProfitLoss decimal.Decimal
}

// computeProfitLoss returns the profit or loss implied by status, stake and odd.
func (w Wager) computeProfitLoss() decimal.Decimal {
	switch w.Status {
	case Won:
		return w.Stake.Mul(w.Odd.Sub(decimal.NewFromInt(1)))
	case Lost:
		return w.Stake.Neg()
	default:
		return decimal.Zero
	}
}

// UnitProfit returns the result of the wager expressed in units.
func (w Wager) UnitProfit() decimal.Decimal {
	switch w.Status {
	case Won:
		return w.Units.Mul(w.Odd.Sub(decimal.NewFromInt(1)))
	case Lost:
		return w.Units.Neg()
	default:
		return decimal.Zero
	}
}

// clone returns a deep copy of w.
func (w Wager) clone() Wager {
	w.Selections = slices.Clone(w.Selections)
	return w
}

// MarshalJSON writes the wager with a stable key order.
func (w Wager) MarshalJSON() ([]byte, error) {
	var o jsonObjectWriter
	o.Append("id", w.ID)
	o.Append("date", w.Date)
	o.Append("market", w.Market)
	o.Append("league", w.League)
	o.Append("betStructure", w.Structure)
	o.Append("betType", w.BetType)
	o.Append("details", w.Details)
	if w.Structure == Combined {
		o.Append("selections", w.Selections)
	}
	o.Append("units", w.Units)
	o.Append("stakeValue", w.Stake)
	o.Append("odd", w.Odd)
	o.Append("status", w.Status)
	o.Append("profitLoss", w.ProfitLoss)
	return o.MarshalJSON()
}

// validate checks the invariants a wager must hold once in the ledger.
func (w Wager) validate() error {
	if w.ID == "" {
		return fmt.Errorf("wager has no id")
	}
	if w.Date.IsZero() {
		return fmt.Errorf("wager %s has no date", w.ID)
	}
	if w.Stake.IsNegative() {
		return fmt.Errorf("wager %s stake must not be negative, got %s", w.ID, w.Stake)
	}
	if w.Odd.LessThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("wager %s odd must be at least 1, got %s", w.ID, w.Odd)
	}
	for i, s := range w.Selections {
		if s.Odd.LessThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("wager %s selection %d odd must be at least 1, got %s", w.ID, i, s.Odd)
		}
	}
	if want := w.computeProfitLoss(); !w.ProfitLoss.Equal(want) {
		return fmt.Errorf("wager %s profit/loss is %s, want %s for status %s", w.ID, w.ProfitLoss, want, w.Status)
	}
	return nil
}

// Withdrawal is money taken out of the bankroll.
type Withdrawal struct {
	ID     string
	Date   time.Time
	Amount decimal.Decimal
}

func (w Withdrawal) MarshalJSON() ([]byte, error) {
	var o jsonObjectWriter
	o.Append("id", w.ID)
	o.Append("date", w.Date)
	o.Append("amount", w.Amount)
	return o.MarshalJSON()
}

// Settings are the ledger parameters that are not persisted with it.
type Settings struct {
	// UnitPercentage is the share of the bankroll one unit represents (0.03 for 3%).
	UnitPercentage decimal.Decimal
	// Location is the time zone used to cut calendar days.
	Location *time.Location
	// Currency is the ISO code used to format amounts.
	Currency string
}

// DefaultSettings returns a 3% unit, local calendar days and Brazilian reals.
func DefaultSettings() Settings {
	return Settings{
		UnitPercentage: decimal.RequireFromString("0.03"),
		Location:       time.Local,
		Currency:       "BRL",
	}
}

func (s Settings) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}
