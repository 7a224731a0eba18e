package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/etnz/bankroll"
	"github.com/etnz/bankroll/renderer"
	"github.com/google/subcommands"
)

var errNoAssistant = errors.New("the assistant is not configured, set GEMINI_API_KEY or gemini.api_key")

type classifyCmd struct{}

func (*classifyCmd) Name() string     { return "classify" }
func (*classifyCmd) Synopsis() string { return "fix the market and league of every wager" }
func (*classifyCmd) Usage() string {
	return `bankroll classify

  Sends every wager to the assistant and applies the market and league it
  finds. Nothing changes if any batch fails.
`
}

func (*classifyCmd) SetFlags(f *flag.FlagSet) {}

func (*classifyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		before := a.book.Ledger().Wagers()
		if err := a.book.Reclassify(ctx); err != nil {
			if errors.Is(err, bankroll.ErrNoClassifier) {
				return errNoAssistant
			}
			return err
		}
		changed := 0
		for i, w := range a.book.Ledger().Wagers() {
			if w.Market != before[i].Market || w.League != before[i].League {
				changed++
			}
		}
		fmt.Fprintf(stdout, "Reclassified %d of %d wagers\n", changed, len(before))
		return nil
	})
}

type scanCmd struct{}

func (*scanCmd) Name() string     { return "scan" }
func (*scanCmd) Synopsis() string { return "add the wagers of a bet slip picture" }
func (*scanCmd) Usage() string {
	return `bankroll scan <image>

  Reads the wagers of a bet slip picture and adds them as pending wagers.
`
}

func (*scanCmd) SetFlags(f *flag.FlagSet) {}

func (*scanCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: scan takes exactly one image.")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		if a.ai == nil {
			return errNoAssistant
		}
		image, err := os.ReadFile(f.Arg(0))
		if err != nil {
			return err
		}
		actx, cancel := a.assistantContext(ctx)
		defer cancel()
		records, err := a.ai.Extract(actx, image, http.DetectContentType(image))
		if err != nil {
			return err
		}
		added, err := a.book.InsertExtracted(ctx, records)
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderWagers(added, a.book.Settings()))
		return nil
	})
}

type coachCmd struct {
	yearFlag
}

func (*coachCmd) Name() string     { return "coach" }
func (*coachCmd) Synopsis() string { return "get advice for the next wager" }
func (*coachCmd) Usage() string {
	return `bankroll coach [-y <year>]

  Asks the assistant for a stake and a strategy for the next wager, based on
  the statistics, the recent results and the market performance of the year.
`
}

func (c *coachCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "y", time.Now().Year(), "Year of the market performance given to the coach.")
}

func (c *coachCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		actx, cancel := a.assistantContext(ctx)
		defer cancel()
		rec, err := a.book.Advise(actx, c.year)
		if errors.Is(err, bankroll.ErrNoAdvisor) {
			return errNoAssistant
		}
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderRecommendation(rec))
		return nil
	})
}
