package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/bankroll"
	"github.com/etnz/bankroll/renderer"
	"github.com/google/subcommands"
)

// selectionsFlag collects the legs of a combined wager, as "details@odd".
type selectionsFlag []string

func (s *selectionsFlag) String() string { return strings.Join(*s, ", ") }
func (s *selectionsFlag) Set(v string) error {
	if _, _, ok := strings.Cut(v, "@"); !ok {
		return fmt.Errorf("selection %q must be written details@odd", v)
	}
	*s = append(*s, v)
	return nil
}

// records returns the selections as raw records for the normalizer.
func (s selectionsFlag) records() []any {
	out := make([]any, 0, len(s))
	for _, v := range s {
		i := strings.LastIndex(v, "@")
		out = append(out, map[string]any{"details": v[:i], "odd": v[i+1:]})
	}
	return out
}

// wagerFlags are the wager fields shared by add and edit.
type wagerFlags struct {
	market     string
	league     string
	betType    string
	details    string
	stake      string
	odd        string
	status     string
	selections selectionsFlag
}

func (w *wagerFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&w.market, "market", "", "Market of the wager (\"League of Legends\", \"Counter-Strike 2\", \"Futebol\").")
	f.StringVar(&w.league, "league", "", "League of the wager (LCK, LPL, ...).")
	f.StringVar(&w.betType, "type", "", "Bet type, like \"Moneyline\" or \"Handicap\".")
	f.StringVar(&w.details, "details", "", "Description of the wager, like \"T1 vs Gen.G\".")
	f.StringVar(&w.stake, "stake", "", "Amount wagered.")
	f.StringVar(&w.odd, "odd", "", "Decimal odd of the wager.")
	f.StringVar(&w.status, "status", "", "Status of the wager (pending, won, lost).")
	f.Var(&w.selections, "sel", "Leg of a combined wager as details@odd. Repeat for each leg.")
}

// apply writes the flags set on the command line into record.
func (w *wagerFlags) apply(f *flag.FlagSet, record map[string]any) {
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "market":
			record["market"] = w.market
		case "league":
			record["league"] = w.league
		case "type":
			record["betType"] = w.betType
		case "details":
			record["details"] = w.details
		case "stake":
			record["stakeValue"] = w.stake
		case "odd":
			record["odd"] = w.odd
		case "status":
			record["status"] = w.status
		case "sel":
			record["selections"] = w.selections.records()
			record["betStructure"] = bankroll.Combined.String()
		}
	})
}

type addCmd struct {
	wagerFlags
	date string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a new wager" }
func (*addCmd) Usage() string {
	return `bankroll add -stake <amount> -odd <odd> [-d <date>] [-market <market>] [-league <league>] [-details <text>] [-sel <details@odd>...]

  Records a new wager. Its units are computed from the bankroll at its date.
  Dates are written 2025-03-02 or 2025-03-02T21:30:00, and default to now.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	c.wagerFlags.SetFlags(f)
	f.StringVar(&c.date, "d", "", "Date of the wager. Defaults to now.")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.stake == "" || c.odd == "" {
		fmt.Fprintln(os.Stderr, "Error: -stake and -odd are required.")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		record := map[string]any{"date": c.date}
		c.apply(f, record)
		w, _ := a.book.Normalizer().Wager(record)
		stored, err := a.book.AddWager(ctx, w)
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderWagers([]bankroll.Wager{stored}, a.book.Settings()))
		return nil
	})
}

type settleCmd struct{}

func (*settleCmd) Name() string     { return "settle" }
func (*settleCmd) Synopsis() string { return "settle a pending wager" }
func (*settleCmd) Usage() string {
	return `bankroll settle <id> won|lost

  Sets the result of a pending wager.
`
}

func (*settleCmd) SetFlags(f *flag.FlagSet) {}

func (*settleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: settle takes a wager id and a result.")
		return subcommands.ExitUsageError
	}
	status := bankroll.ParseStatus(f.Arg(1))
	if !status.Resolved() {
		fmt.Fprintf(os.Stderr, "Error: unknown result %q, want won or lost.\n", f.Arg(1))
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		w, err := a.book.SetStatus(ctx, f.Arg(0), status)
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderWagers([]bankroll.Wager{w}, a.book.Settings()))
		return nil
	})
}

type editCmd struct {
	wagerFlags
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change the fields of a wager" }
func (*editCmd) Usage() string {
	return `bankroll edit [-market <market>] [-league <league>] [-stake <amount>] [-odd <odd>] [-status <status>] ... <id>

  Changes the given fields of a wager. Its date cannot change.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) { c.wagerFlags.SetFlags(f) }

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: edit takes exactly one wager id.")
		return subcommands.ExitUsageError
	}
	id := f.Arg(0)
	return run(ctx, func(a *app) error {
		current, ok := a.book.Ledger().Wager(id)
		if !ok {
			return fmt.Errorf("wager %q: %w", id, bankroll.ErrNotFound)
		}
		data, err := json.Marshal(current)
		if err != nil {
			return err
		}
		var record map[string]any
		if err := json.Unmarshal(data, &record); err != nil {
			return err
		}
		c.apply(f, record)
		w, _ := a.book.Normalizer().Wager(record)
		if err := a.book.UpdateWager(ctx, w); err != nil {
			return err
		}
		updated, _ := a.book.Ledger().Wager(id)
		printMarkdown(renderer.RenderWagers([]bankroll.Wager{updated}, a.book.Settings()))
		return nil
	})
}

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete wagers" }
func (*rmCmd) Usage() string {
	return `bankroll rm <id>...

  Deletes wagers. The units of the following wagers are recomputed.
`
}

func (*rmCmd) SetFlags(f *flag.FlagSet) {}

func (*rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: rm takes at least one wager id.")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		for _, id := range f.Args() {
			if err := a.book.DeleteWager(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Deleted wager %s\n", id)
		}
		return nil
	})
}
