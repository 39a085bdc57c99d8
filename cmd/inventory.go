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

// inventoryCmd holds the flags for the 'inventory' subcommand.
type inventoryCmd struct {
	ledgerFile  string
	currency    string
	openingFile string
	closingFile string
}

func (*inventoryCmd) Name() string     { return "inventory" }
func (*inventoryCmd) Synopsis() string { return "open lots remaining after processing the ledger" }
func (*inventoryCmd) Usage() string {
	return `ctax inventory [-l <ledger_file>] [-c <currency>] [-i <opening_csv>] [-o <closing_csv>]

  Processes the full ledger and displays the open lots per asset, with their
  remaining quantity and cost basis. With -o the inventory is also written as
  a CSV file usable as the next year's opening inventory.
`
}

func (c *inventoryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ledgerFile, "l", defaultLedgerFile, "Ledger file to process (JSONL format).")
	f.StringVar(&c.currency, "c", cryptotax.DefaultCurrency, "Base fiat currency of the ledger.")
	f.StringVar(&c.openingFile, "i", "", "Opening inventory CSV. Empty means no opening lots.")
	f.StringVar(&c.closingFile, "o", "", "Write the inventory to this CSV file.")
}

func (c *inventoryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	engine := cryptotax.NewEngineWithInventory(ledger.Currency(), opening)
	if _, err := engine.Process(ledger.Transactions()); err != nil {
		fmt.Fprintf(os.Stderr, "Error processing ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	inv := engine.Inventory()

	printMarkdown(renderer.InventoryMarkdown("Open Lots", inv))

	if c.closingFile != "" {
		if err := encodeInventoryFile(c.closingFile, inv); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing inventory %q: %v\n", c.closingFile, err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Inventory written to %s\n", c.closingFile)
	}

	return subcommands.ExitSuccess
}
