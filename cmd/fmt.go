package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cryptotax"
	"github.com/google/subcommands"
)

// fmtCmd holds the flags for the 'fmt' subcommand.
type fmtCmd struct {
	ledgerFile string
	currency   string
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `ctax fmt [-l <ledger_file>] [-c <currency>]

  Validates and formats the ledger file. This command reads all transactions,
  validates them, applies available quick-fixes (like filling in a missing
  currency), sorts them by date, and writes them back in a canonical JSONL
  format, in place.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ledgerFile, "l", defaultLedgerFile, "Ledger file to format (JSONL format).")
	f.StringVar(&c.currency, "c", cryptotax.DefaultCurrency, "Base fiat currency of the ledger.")
}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := decodeLedgerFile(c.ledgerFile, c.currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger %q: %v\n", c.ledgerFile, err)
		return subcommands.ExitFailure
	}

	formatted, err := ledger.Fmt()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting ledger %q: %v\n", c.ledgerFile, err)
		return subcommands.ExitFailure
	}

	file, err := os.Create(c.ledgerFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rewriting ledger %q: %v\n", c.ledgerFile, err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	if err := cryptotax.EncodeLedger(file, formatted); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger %q: %v\n", c.ledgerFile, err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "Formatted %d transactions in %s\n", formatted.Len(), c.ledgerFile)
	return subcommands.ExitSuccess
}
