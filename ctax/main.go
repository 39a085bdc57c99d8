package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/cryptotax/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion answers shell completion requests and returns immediately on a
// normal run. Install with COMP_INSTALL=1 ctax.
func completion() {
	ledgers := predict.Files("*.jsonl")
	csvs := predict.Files("*.csv")

	spec := &complete.Command{
		Sub: map[string]*complete.Command{
			"report": {Flags: map[string]complete.Predictor{
				"year": predict.Something,
				"l":    ledgers,
				"c":    predict.Something,
				"i":    csvs,
				"o":    csvs,
			}},
			"inventory": {Flags: map[string]complete.Predictor{
				"l": ledgers,
				"c": predict.Something,
				"i": csvs,
				"o": csvs,
			}},
			"import": {Args: csvs, Flags: map[string]complete.Predictor{
				"c": predict.Something,
				"o": ledgers,
			}},
			"fmt": {Flags: map[string]complete.Predictor{
				"l": ledgers,
				"c": predict.Something,
			}},
			"log": {Flags: map[string]complete.Predictor{
				"l": ledgers,
				"c": predict.Something,
			}},
			"topic": {Args: predict.Set{"readme", "fifo", "permuta", "importing", "inventory", "*"}},
		},
	}
	spec.Complete("ctax")
}
