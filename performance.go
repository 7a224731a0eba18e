package bankroll

import (
	"slices"
	"strings"
	"time"

	"github.com/etnz/bankroll/date"
	"github.com/shopspring/decimal"
)

// MarketPerformancePoint accumulates the resolved wagers of one market or league.
type MarketPerformancePoint struct {
	Name     string
	Profit   decimal.Decimal
	Invested decimal.Decimal
	Count    int
}

// ROI returns the profit over the invested stake.
func (p MarketPerformancePoint) ROI() Percent {
	if !p.Invested.IsPositive() {
		return 0
	}
	return ratio(p.Profit.Div(p.Invested))
}

// minInvested is the stake under which a performance entry is not reported.
var minInvested = decimal.RequireFromString("0.01")

// MarketPerformance reports the resolved wagers of January to September of
// year, per market and, for the game-title market, per recognized league.
//
// Entries are sorted by decreasing profit.
func MarketPerformance(l *Ledger, year int) []MarketPerformancePoint {
	window := date.Months(year, time.January, time.September)
	loc := l.settings.location()

	byName := make(map[string]*MarketPerformancePoint)
	var order []string
	add := func(name string, w Wager) {
		p, ok := byName[name]
		if !ok {
			p = &MarketPerformancePoint{Name: name}
			byName[name] = p
			order = append(order, name)
		}
		p.Profit = p.Profit.Add(w.ProfitLoss)
		p.Invested = p.Invested.Add(w.Stake)
		p.Count++
	}
	for _, w := range l.wagers {
		if !w.Status.Resolved() || !window.Contains(date.Of(w.Date, loc)) {
			continue
		}
		add(w.Market, w)
		if w.Market == GameTitleMarket && IsLeague(w.League) && w.League != w.Market {
			add(w.League, w)
		}
	}

	points := make([]MarketPerformancePoint, 0, len(order))
	for _, name := range order {
		if p := byName[name]; p.Invested.GreaterThan(minInvested) {
			points = append(points, *p)
		}
	}
	slices.SortStableFunc(points, func(a, b MarketPerformancePoint) int {
		if c := b.Profit.Cmp(a.Profit); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return points
}

// DailyProfitPoint accumulates the resolved wagers of one calendar day.
type DailyProfitPoint struct {
	Date       date.Date
	Profit     decimal.Decimal
	UnitProfit decimal.Decimal
	Count      int
}

// DailyProfit reports the resolved wagers of year, per local calendar day,
// sorted by date.
func DailyProfit(l *Ledger, year int) []DailyProfitPoint {
	window := date.Year(year)
	loc := l.settings.location()

	byDay := make(map[date.Date]*DailyProfitPoint)
	for _, w := range l.wagers {
		if !w.Status.Resolved() {
			continue
		}
		day := date.Of(w.Date, loc)
		if !window.Contains(day) {
			continue
		}
		p, ok := byDay[day]
		if !ok {
			p = &DailyProfitPoint{Date: day}
			byDay[day] = p
		}
		p.Profit = p.Profit.Add(w.ProfitLoss)
		p.UnitProfit = p.UnitProfit.Add(w.UnitProfit())
		p.Count++
	}

	points := make([]DailyProfitPoint, 0, len(byDay))
	for _, p := range byDay {
		points = append(points, *p)
	}
	slices.SortFunc(points, func(a, b DailyProfitPoint) int { return a.Date.Compare(b.Date) })
	return points
}

// AvailableYears returns the years holding at least one wager, plus the
// current one, most recent first.
func AvailableYears(l *Ledger) []int {
	loc := l.settings.location()
	years := []int{now().In(loc).Year()}
	for _, w := range l.wagers {
		if y := w.Date.In(loc).Year(); !slices.Contains(years, y) {
			years = append(years, y)
		}
	}
	slices.Sort(years)
	slices.Reverse(years)
	return years
}
