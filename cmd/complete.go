package cmd

import (
	"flag"

	"github.com/etnz/bankroll"
	"github.com/etnz/bankroll/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors completes the flag values that have a known set.
var flagPredictors = map[string]complete.Predictor{
	"market": predict.Set(bankroll.Markets),
	"league": predict.Set(bankroll.Leagues),
	"status": predict.Set{"pending", "won", "lost"},
	"o":      predict.Files("*.json"),
}

// argPredictors completes the positional arguments of some subcommands.
var argPredictors = map[string]complete.Predictor{
	"import": predict.Files("*.json"),
	"scan":   predict.Files("*"),
	"settle": predict.Set{"won", "lost"},
	"topic":  predict.Set(topics()),
}

func topics() []string {
	all, _ := docs.GetAllTopics()
	return all
}

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub: make(map[string]*complete.Command),
		Flags: map[string]complete.Predictor{
			"config":      predict.Files("*.toml"),
			"ledger-file": predict.Files("*.json"),
			"raw":         predict.Nothing,
		},
	}
	for _, e := range commands {
		f := flag.NewFlagSet(e.cmd.Name(), flag.ContinueOnError)
		e.cmd.SetFlags(f)
		sub := &complete.Command{
			Flags: make(map[string]complete.Predictor),
			Args:  argPredictors[e.cmd.Name()],
		}
		f.VisitAll(func(fl *flag.Flag) {
			switch p, ok := flagPredictors[fl.Name]; {
			case ok:
				sub.Flags[fl.Name] = p
			case isBool(fl):
				sub.Flags[fl.Name] = predict.Nothing
			default:
				sub.Flags[fl.Name] = predict.Something
			}
		})
		root.Sub[e.cmd.Name()] = sub
	}
	return root
}

func isBool(fl *flag.Flag) bool {
	b, ok := fl.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
