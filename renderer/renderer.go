// Package renderer turns ledger reports into markdown documents.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"maps"
	"slices"
	"strings"
	"text/template"
	"time"

	"github.com/etnz/bankroll"
	"github.com/etnz/bankroll/date"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.md
var templates embed.FS

// RenderSummary renders the bankroll statistics.
func RenderSummary(s bankroll.Stats, cfg bankroll.Settings) string {
	return renderTemplate("summary", "summary.md", nil, funcs(cfg), s)
}

// RenderHistory renders the bankroll trajectory, one row per event, with the
// date shown on the first event of each day.
func RenderHistory(points []bankroll.HistoryPoint, cfg bankroll.Settings) string {
	return renderTemplate("history", "history.md", nil, funcs(cfg), points)
}

// RenderWagers renders the list of wagers.
func RenderWagers(wagers []bankroll.Wager, cfg bankroll.Settings) string {
	partials := map[string]string{
		"wagers_row": "wagers_row.md",
	}
	return renderTemplate("wagers", "wagers.md", partials, funcs(cfg), wagers)
}

// RenderPerformance renders the per market performance of a year.
func RenderPerformance(year int, points []bankroll.MarketPerformancePoint, cfg bankroll.Settings) string {
	data := struct {
		Year   int
		Points []bankroll.MarketPerformancePoint
	}{year, points}
	return renderTemplate("performance", "performance.md", nil, funcs(cfg), data)
}

// RenderCalendar renders the daily results of a year, grouped by month.
func RenderCalendar(year int, points []bankroll.DailyProfitPoint, cfg bankroll.Settings) string {
	return renderTemplate("calendar", "calendar.md", nil, funcs(cfg), newCalendar(year, points))
}

// RenderTeams renders the teams found in wager details, per market.
func RenderTeams(teams map[string][]string, blacklist []string) string {
	data := struct {
		Markets   []teamGroup
		Blacklist []string
	}{Blacklist: blacklist}
	for _, market := range slices.Sorted(maps.Keys(teams)) {
		data.Markets = append(data.Markets, teamGroup{Name: market, Teams: teams[market]})
	}
	return renderTemplate("teams", "teams.md", nil, nil, data)
}

// RenderRecommendation renders the advice for the next wager.
func RenderRecommendation(r *bankroll.Recommendation) string {
	return renderTemplate("recommendation", "recommendation.md", nil, nil, r)
}

type teamGroup struct {
	Name  string
	Teams []string
}

// calendarMonth is a month of daily results with its totals.
type calendarMonth struct {
	Name       string
	Days       []bankroll.DailyProfitPoint
	Count      int
	Profit     decimal.Decimal
	UnitProfit decimal.Decimal
}

type calendar struct {
	Year   int
	Months []calendarMonth
}

func newCalendar(year int, points []bankroll.DailyProfitPoint) calendar {
	c := calendar{Year: year}
	for _, p := range points {
		name := p.Date.Month().String()
		if n := len(c.Months); n == 0 || c.Months[n-1].Name != name {
			c.Months = append(c.Months, calendarMonth{Name: name})
		}
		m := &c.Months[len(c.Months)-1]
		m.Days = append(m.Days, p)
		m.Count += p.Count
		m.Profit = m.Profit.Add(p.Profit)
		m.UnitProfit = m.UnitProfit.Add(p.UnitProfit)
	}
	return c
}

// funcs returns the template functions formatting values with cfg.
func funcs(cfg bankroll.Settings) template.FuncMap {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return template.FuncMap{
		"money":    func(d decimal.Decimal) string { return bankroll.M(d, cfg.Currency).String() },
		"signed":   func(d decimal.Decimal) string { return bankroll.M(d, cfg.Currency).SignedString() },
		"neg":      func(d decimal.Decimal) decimal.Decimal { return d.Neg() },
		"odd":      func(d decimal.Decimal) string { return d.StringFixed(2) },
		"units":    func(d decimal.Decimal) string { return d.StringFixed(2) + "u" },
		"datetime": func(t time.Time) string { return t.In(loc).Format("2006-01-02 15:04") },
		"day": func(d date.Date) string {
			if d.IsZero() {
				return ""
			}
			return d.String()
		},
		"details": details,
		"cell":    cell,
	}
}

// details describes a wager, listing the selections of a combined one.
func details(w bankroll.Wager) string {
	if w.Structure != bankroll.Combined || len(w.Selections) == 0 {
		return w.Details
	}
	legs := make([]string, len(w.Selections))
	for i, s := range w.Selections {
		legs[i] = fmt.Sprintf("%s @%s", s.Details, s.Odd.StringFixed(2))
	}
	return strings.Join(legs, " + ")
}

// cell escapes s to fit in a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, fm template.FuncMap, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(fm).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
