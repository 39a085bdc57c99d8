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

// logCmd holds the flags for the 'log' subcommand.
type logCmd struct {
	ledgerFile string
	currency   string
}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "lists the ledger transactions in chronological order" }
func (*logCmd) Usage() string {
	return `ctax log [-l <ledger_file>] [-c <currency>]

  Lists all transactions in the ledger, oldest first.
`
}

func (c *logCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ledgerFile, "l", defaultLedgerFile, "Ledger file to read (JSONL format).")
	f.StringVar(&c.currency, "c", cryptotax.DefaultCurrency, "Base fiat currency of the ledger.")
}

func (c *logCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := decodeLedgerFile(c.ledgerFile, c.currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger %q: %v\n", c.ledgerFile, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.TransactionsMarkdown(ledger))
	return subcommands.ExitSuccess
}
