// Package renderer turns report structures into markdown strings, keeping the
// presentation concerns out of the accounting library.
package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/cryptotax"
)

// YearReportMarkdown renders the yearly realized-gains report.
func YearReportMarkdown(report *cryptotax.YearReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Capital Gains Report %d\n\n", report.Year)
	fmt.Fprintf(&b, "Currency: %s, method: FIFO\n\n", report.Currency)

	if len(report.Assets) == 0 {
		fmt.Fprintf(&b, "No disposals in %d.\n", report.Year)
		return b.String()
	}

	fmt.Fprint(&b, "## Gains per Asset\n\n")
	fmt.Fprintln(&b, "| Asset | Disposals | Proceeds | Cost Basis | Gain | Return |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|")
	for _, a := range report.Assets {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s |\n",
			a.Asset,
			a.Disposals,
			a.Proceeds.String(),
			a.Cost.String(),
			a.Gain.SignedString(),
			a.Return().SignedString(),
		)
	}
	fmt.Fprintf(&b, "| **%s** | **%d** | **%s** | **%s** | **%s** | **%s** |\n",
		"Total",
		len(report.Disposals),
		report.Proceeds.String(),
		report.Cost.String(),
		report.Gain.SignedString(),
		report.Return().SignedString(),
	)

	fmt.Fprint(&b, "\n## Disposals\n\n")
	fmt.Fprintln(&b, "| Date | Asset | Quantity | Proceeds | Cost Basis | Gain | Lots |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|:---|")
	for _, g := range report.Disposals {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			g.Date.String(),
			g.Asset,
			g.Quantity.String(),
			g.Proceeds.String(),
			g.Cost.String(),
			g.Gain().SignedString(),
			lotTrail(g.Lots),
		)
	}

	return b.String()
}

// lotTrail summarizes the matched lots of a disposal in one cell.
func lotTrail(lots []cryptotax.LotMatch) string {
	parts := make([]string, 0, len(lots))
	for _, l := range lots {
		parts = append(parts, fmt.Sprintf("%s from %s", l.Quantity.String(), l.Date.String()))
	}
	return strings.Join(parts, ", ")
}
