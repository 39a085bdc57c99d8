// Package cmd implements the CLI application to report crypto capital gains.
package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/cryptotax"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&reportCmd{}, "reports")
	c.Register(&inventoryCmd{}, "reports")

	c.Register(&importCmd{}, "ledger")
	c.Register(&fmtCmd{}, "ledger")
	c.Register(&logCmd{}, "ledger")

	c.Register(&topicCmd{}, "documentation")
}

// defaultLedgerFile is where commands look for the ledger when -l is not set.
const defaultLedgerFile = "ledger.jsonl"

// decodeLedgerFile loads a JSONL ledger file in the given base fiat currency.
func decodeLedgerFile(filename, currency string) (*cryptotax.Ledger, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return cryptotax.DecodeLedger(f, currency)
}

// decodeInventoryFile loads an opening inventory CSV. An empty filename means
// no opening inventory.
func decodeInventoryFile(filename, currency string) (*cryptotax.Inventory, error) {
	if filename == "" {
		return nil, nil
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return cryptotax.DecodeInventory(f, currency)
}

// encodeInventoryFile writes a closing inventory CSV.
func encodeInventoryFile(filename string, inv *cryptotax.Inventory) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return cryptotax.EncodeInventory(f, inv)
}

// printMarkdown renders markdown to the terminal, falling back to the raw
// text when rendering fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
