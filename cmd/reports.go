package cmd

import (
	"context"
	"flag"
	"fmt"
	"slices"
	"time"

	"github.com/etnz/bankroll"
	"github.com/etnz/bankroll/renderer"
	"github.com/google/subcommands"
)

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the bankroll statistics" }
func (*summaryCmd) Usage() string {
	return `bankroll summary

  Displays the current bankroll, profit, ROI, win rate and maximum drawdown.
`
}

func (*summaryCmd) SetFlags(f *flag.FlagSet) {}

func (*summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		printMarkdown(renderer.RenderSummary(bankroll.ComputeStats(a.book.Ledger()), a.book.Settings()))
		return nil
	})
}

type historyCmd struct {
	tail int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the bankroll evolution" }
func (*historyCmd) Usage() string {
	return `bankroll history [-tail <n>]

  Displays the bankroll after each resolved wager and withdrawal.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.tail, "tail", 0, "Show only the last N points.")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		points := a.book.Ledger().History()
		if c.tail > 0 && len(points) > c.tail {
			points = points[len(points)-c.tail:]
		}
		printMarkdown(renderer.RenderHistory(points, a.book.Settings()))
		return nil
	})
}

type betsCmd struct {
	status string
	market string
	tail   int
}

func (*betsCmd) Name() string     { return "bets" }
func (*betsCmd) Synopsis() string { return "list the wagers" }
func (*betsCmd) Usage() string {
	return `bankroll bets [-status <status>] [-market <market>] [-tail <n>]

  Lists the wagers in chronological order.
`
}

func (c *betsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.status, "status", "", "Only list wagers with this status (pending, won, lost).")
	f.StringVar(&c.market, "market", "", "Only list wagers of this market.")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N wagers.")
}

func (c *betsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		wagers := a.book.Ledger().Wagers()
		if c.status != "" {
			status := bankroll.ParseStatus(c.status)
			wagers = slices.DeleteFunc(wagers, func(w bankroll.Wager) bool { return w.Status != status })
		}
		if c.market != "" {
			wagers = slices.DeleteFunc(wagers, func(w bankroll.Wager) bool { return w.Market != c.market })
		}
		if c.tail > 0 && len(wagers) > c.tail {
			wagers = wagers[len(wagers)-c.tail:]
		}
		printMarkdown(renderer.RenderWagers(wagers, a.book.Settings()))
		return nil
	})
}

// yearFlag is the -y flag of the yearly reports.
type yearFlag struct {
	year int
}

func (y *yearFlag) SetFlags(f *flag.FlagSet) {
	f.IntVar(&y.year, "y", time.Now().Year(), "Year to report on.")
}

// check rejects a year holding no wager.
func (y *yearFlag) check(l *bankroll.Ledger) error {
	if years := bankroll.AvailableYears(l); !slices.Contains(years, y.year) {
		return fmt.Errorf("no wager in %d, available years are %v", y.year, years)
	}
	return nil
}

type performanceCmd struct {
	yearFlag
}

func (*performanceCmd) Name() string     { return "performance" }
func (*performanceCmd) Synopsis() string { return "display the profit per market" }
func (*performanceCmd) Usage() string {
	return `bankroll performance [-y <year>]

  Displays profit and ROI per market, and per league for League of Legends,
  for the wagers resolved between January and September.
`
}

func (c *performanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		l := a.book.Ledger()
		if err := c.check(l); err != nil {
			return err
		}
		printMarkdown(renderer.RenderPerformance(c.year, bankroll.MarketPerformance(l, c.year), a.book.Settings()))
		return nil
	})
}

type calendarCmd struct {
	yearFlag
}

func (*calendarCmd) Name() string     { return "calendar" }
func (*calendarCmd) Synopsis() string { return "display the profit per day" }
func (*calendarCmd) Usage() string {
	return `bankroll calendar [-y <year>]

  Displays the profit of every day with resolved wagers, grouped by month.
`
}

func (c *calendarCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		l := a.book.Ledger()
		if err := c.check(l); err != nil {
			return err
		}
		printMarkdown(renderer.RenderCalendar(c.year, bankroll.DailyProfit(l, c.year), a.book.Settings()))
		return nil
	})
}

type teamsCmd struct{}

func (*teamsCmd) Name() string     { return "teams" }
func (*teamsCmd) Synopsis() string { return "list the teams found in wagers" }
func (*teamsCmd) Usage() string {
	return `bankroll teams

  Lists, per market, the teams named in wager details, blacklisted ones excluded.
`
}

func (*teamsCmd) SetFlags(f *flag.FlagSet) {}

func (*teamsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		l := a.book.Ledger()
		printMarkdown(renderer.RenderTeams(bankroll.ComputeStats(l).ExistingTeams, l.Blacklist()))
		return nil
	})
}
