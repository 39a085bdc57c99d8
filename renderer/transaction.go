package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/cryptotax"
)

// Transaction renders a transaction to a one line string.
func Transaction(tx cryptotax.Transaction) string {
	switch v := tx.(type) {
	case cryptotax.Buy:
		return fmt.Sprintf("Bought %s %s for %s", v.Quantity, v.Asset, v.Amount)
	case cryptotax.Sell:
		return fmt.Sprintf("Sold %s %s for %s", v.Quantity, v.Asset, v.Amount)
	case cryptotax.BuyPermuta:
		return fmt.Sprintf("Bought %s %s for %s %s", v.Quantity, v.Asset, v.CounterQuantity, v.Counter)
	case cryptotax.SellPermuta:
		return fmt.Sprintf("Sold %s %s for %s %s", v.Quantity, v.Asset, v.CounterQuantity, v.Counter)
	default:
		return string(tx.What())
	}
}

// TransactionsMarkdown renders the ledger content as a table, newest last.
func TransactionsMarkdown(ledger *cryptotax.Ledger) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Ledger (%s)\n\n", ledger.Currency())
	fmt.Fprintln(&b, "| Date | Transaction |")
	fmt.Fprintln(&b, "|:---|:---|")
	for tx := range ledger.Transactions() {
		fmt.Fprintf(&b, "| %s | %s |\n", tx.When().String(), Transaction(tx))
	}

	return b.String()
}
