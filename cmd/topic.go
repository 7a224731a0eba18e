package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/bankroll/docs"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read a help topic" }
func (*topicCmd) Usage() string {
	return `bankroll topic [<name>...]

  Displays help topics. Without a name, lists the topics. '*' displays them all.
`
}

func (*topicCmd) SetFlags(f *flag.FlagSet) {}

func (*topicCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	content, err := docs.GetTopic("")
	if f.NArg() > 0 {
		content, err = docs.GetTopics(f.Args()...)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(content)
	return subcommands.ExitSuccess
}
