package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/cryptotax"
)

// InventoryMarkdown renders the open lots of an inventory, the way they stand
// after a report run.
func InventoryMarkdown(title string, inv *cryptotax.Inventory) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)

	empty := true
	for asset := range inv.Assets() {
		empty = false
		fmt.Fprintf(&b, "## %s\n\n", asset)
		fmt.Fprintf(&b, "Balance: %s, cost basis: %s\n\n",
			inv.Balance(asset).String(), inv.CostBasis(asset).String())

		fmt.Fprintln(&b, "| Acquired | Quantity | Cost Basis |")
		fmt.Fprintln(&b, "|:---|---:|---:|")
		for _, l := range inv.Lots(asset) {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", l.Date.String(), l.Quantity.String(), l.Cost.String())
		}
		fmt.Fprintln(&b)
	}
	if empty {
		fmt.Fprint(&b, "No open lots.\n")
	}

	return b.String()
}
