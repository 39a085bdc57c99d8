package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cryptotax"
	"github.com/etnz/cryptotax/renderer"
	"github.com/google/subcommands"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	year        int
	ledgerFile  string
	currency    string
	openingFile string
	closingFile string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "realized capital gains report for one tax year" }
func (*reportCmd) Usage() string {
	return `ctax report [-year <year>] [-l <ledger_file>] [-c <currency>] [-i <opening_csv>] [-o <closing_csv>]

  Processes the full ledger with FIFO lot accounting and reports the realized
  gains of one tax year. The closing inventory can be written to a CSV file to
  seed the next year's run.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", cryptotax.Today().Year(), "Tax year to report on.")
	f.StringVar(&c.ledgerFile, "l", defaultLedgerFile, "Ledger file to report on (JSONL format).")
	f.StringVar(&c.currency, "c", cryptotax.DefaultCurrency, "Base fiat currency of the ledger.")
	f.StringVar(&c.openingFile, "i", "", "Opening inventory CSV. Empty means no opening lots.")
	f.StringVar(&c.closingFile, "o", "", "Write the closing inventory to this CSV file.")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := decodeLedgerFile(c.ledgerFile, c.currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger %q: %v\n", c.ledgerFile, err)
		return subcommands.ExitFailure
	}

	opening, err := decodeInventoryFile(c.openingFile, c.currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading opening inventory %q: %v\n", c.openingFile, err)
		return subcommands.ExitFailure
	}

	report, closing, err := cryptotax.Run(ledger, opening, c.year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing gains: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.YearReportMarkdown(report))

	if c.closingFile != "" {
		if err := encodeInventoryFile(c.closingFile, closing); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing closing inventory %q: %v\n", c.closingFile, err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Closing inventory written to %s\n", c.closingFile)
	}

	return subcommands.ExitSuccess
}
