package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cryptotax"
	"github.com/google/subcommands"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	currency   string
	outputFile string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "convert exchange trade CSV exports into a ledger" }
func (*importCmd) Usage() string {
	return `ctax import [-c <currency>] [-o <ledger_file>] <trades.csv> [<trades.csv>...]

  Reads trade CSV exports (txid;date;type;qty1;asset1;qty2;asset2) and writes
  the resulting transactions as a sorted JSONL ledger, to stdout by default.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "c", cryptotax.DefaultCurrency, "Base fiat currency of the ledger.")
	f.StringVar(&c.outputFile, "o", "", "Write the ledger to this file instead of stdout.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one trade CSV file is required")
		return subcommands.ExitUsageError
	}

	ledger := cryptotax.NewLedger(c.currency)
	for _, filename := range f.Args() {
		imported, err := importTradeFile(filename, c.currency)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", filename, err)
			return subcommands.ExitFailure
		}
		for tx := range imported.Transactions() {
			ledger.Append(tx)
		}
	}

	out := os.Stdout
	if c.outputFile != "" {
		file, err := os.Create(c.outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.outputFile, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		out = file
	}

	if err := cryptotax.EncodeLedger(out, ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.outputFile != "" {
		fmt.Fprintf(os.Stderr, "Imported %d transactions into %s\n", ledger.Len(), c.outputFile)
	}

	return subcommands.ExitSuccess
}

func importTradeFile(filename, currency string) (*cryptotax.Ledger, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return cryptotax.ImportTrades(f, currency)
}
