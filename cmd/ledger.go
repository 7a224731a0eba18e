package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/bankroll"
	"github.com/google/subcommands"
)

type withdrawCmd struct {
	date string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "take money out of the bankroll" }
func (*withdrawCmd) Usage() string {
	return `bankroll withdraw [-d <date>] <amount>

  Records a withdrawal. Wagers placed after it are sized on the reduced bankroll.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the withdrawal. Defaults to now.")
}

func (c *withdrawCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: withdraw takes exactly one amount.")
		return subcommands.ExitUsageError
	}
	amount, err := parseAmount(f.Arg(0))
	if err == nil && !amount.IsPositive() {
		err = fmt.Errorf("withdrawal amount %s must be positive", amount)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		raw, _ := a.book.Normalizer().Withdrawal(map[string]any{"date": c.date})
		w, err := a.book.AddWithdrawal(ctx, amount, raw.Date)
		if err != nil {
			return err
		}
		cur := a.book.Settings().Currency
		fmt.Fprintf(stdout, "Withdrew %s (id %s), bankroll is now %s\n",
			bankroll.M(w.Amount, cur), w.ID, bankroll.M(a.book.Ledger().CurrentBankroll(), cur))
		return nil
	})
}

type rmWithdrawalCmd struct{}

func (*rmWithdrawalCmd) Name() string     { return "rm-withdrawal" }
func (*rmWithdrawalCmd) Synopsis() string { return "delete a withdrawal" }
func (*rmWithdrawalCmd) Usage() string {
	return `bankroll rm-withdrawal <id>

  Deletes a withdrawal. The units of the following wagers are recomputed.
`
}

func (*rmWithdrawalCmd) SetFlags(f *flag.FlagSet) {}

func (*rmWithdrawalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: rm-withdrawal takes exactly one withdrawal id.")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		if err := a.book.DeleteWithdrawal(ctx, f.Arg(0)); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Deleted withdrawal %s\n", f.Arg(0))
		return nil
	})
}

type initCmd struct {
	initial string
	force   bool
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "start a new ledger" }
func (*initCmd) Usage() string {
	return `bankroll init [-initial <amount>] [-f]

  Starts an empty ledger. An existing ledger with records is only replaced with -f.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.initial, "initial", "", "Initial bankroll. Defaults to the configured one.")
	f.BoolVar(&c.force, "f", false, "Replace a ledger that has records.")
}

func (c *initCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		l := a.book.Ledger()
		if !c.force && (len(l.Wagers()) > 0 || len(l.Withdrawals()) > 0) {
			return fmt.Errorf("the ledger has %d wagers and %d withdrawals, use -f to replace it", len(l.Wagers()), len(l.Withdrawals()))
		}
		if err := a.book.Clear(ctx); err != nil {
			return err
		}
		if c.initial != "" {
			amount, err := parseAmount(c.initial)
			if err != nil {
				return err
			}
			if err := a.book.SetInitialBankroll(ctx, amount); err != nil {
				return err
			}
		}
		fmt.Fprintf(stdout, "New ledger with an initial bankroll of %s\n",
			bankroll.M(a.book.Ledger().InitialBankroll(), a.book.Settings().Currency))
		return nil
	})
}

type initialCmd struct{}

func (*initialCmd) Name() string     { return "initial" }
func (*initialCmd) Synopsis() string { return "change the initial bankroll" }
func (*initialCmd) Usage() string {
	return `bankroll initial <amount>

  Changes the initial bankroll. Every wager's units are recomputed.
`
}

func (*initialCmd) SetFlags(f *flag.FlagSet) {}

func (*initialCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: initial takes exactly one amount.")
		return subcommands.ExitUsageError
	}
	amount, err := parseAmount(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		if err := a.book.SetInitialBankroll(ctx, amount); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Initial bankroll set to %s\n", bankroll.M(amount, a.book.Settings().Currency))
		return nil
	})
}

type blacklistCmd struct{}

func (*blacklistCmd) Name() string     { return "blacklist" }
func (*blacklistCmd) Synopsis() string { return "hide a team from suggestions" }
func (*blacklistCmd) Usage() string {
	return `bankroll blacklist <team>

  Excludes a team name from the team list.
`
}

func (*blacklistCmd) SetFlags(f *flag.FlagSet) {}

func (*blacklistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || strings.TrimSpace(f.Arg(0)) == "" {
		fmt.Fprintln(os.Stderr, "Error: blacklist takes exactly one team name.")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		return a.book.BlacklistTeam(ctx, f.Arg(0))
	})
}

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the ledger by a ledger file" }
func (*importCmd) Usage() string {
	return `bankroll import <file>|-

  Replaces the whole ledger by the content of a ledger file, "-" reads stdin.
  Older file layouts are accepted. Wagers are reclassified when the assistant
  is configured. A malformed file changes nothing.
`
}

func (*importCmd) SetFlags(f *flag.FlagSet) {}

func (*importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: import takes exactly one file.")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		var r io.Reader = os.Stdin
		if name := f.Arg(0); name != "-" {
			file, err := os.Open(name)
			if err != nil {
				return err
			}
			defer file.Close()
			r = file
		}
		if err := a.book.Import(ctx, r); err != nil {
			return err
		}
		l := a.book.Ledger()
		fmt.Fprintf(stdout, "Imported %d wagers and %d withdrawals\n", len(l.Wagers()), len(l.Withdrawals()))
		return nil
	})
}

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the ledger file" }
func (*exportCmd) Usage() string {
	return `bankroll export [-o <file>]

  Writes the ledger file to stdout or to a file.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file. Defaults to stdout.")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		if c.output == "" {
			return a.book.Export(stdout)
		}
		file, err := os.Create(c.output)
		if err != nil {
			return err
		}
		if err := a.book.Export(file); err != nil {
			file.Close()
			return err
		}
		return file.Close()
	})
}

type clearCmd struct {
	force bool
}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "delete every record" }
func (*clearCmd) Usage() string {
	return `bankroll clear -f

  Deletes every wager, withdrawal and blacklisted team, and restores the
  configured initial bankroll.
`
}

func (c *clearCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "f", false, "Confirm the deletion.")
}

func (c *clearCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.force {
		fmt.Fprintln(os.Stderr, "Error: clear deletes every record, confirm with -f.")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		if err := a.book.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Ledger cleared")
		return nil
	})
}
