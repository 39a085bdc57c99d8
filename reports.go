package cryptotax

import (
	"fmt"
	"maps"
	"slices"
)

// YearReport aggregates the realized gains of one tax year, per asset, with
// the per-disposal detail kept for the audit trail.
type YearReport struct {
	Year      int
	Currency  string
	Assets    []AssetGains
	Disposals []RealizedGain // the year's disposals, in processing order
	Proceeds  Money
	Cost      Money
	Gain      Money
}

// AssetGains holds the aggregated realized gains for a single asset.
type AssetGains struct {
	Asset     string
	Disposals int
	Proceeds  Money
	Cost      Money
	Gain      Money
}

// Return returns the asset's realized gain relative to its cost basis.
func (a AssetGains) Return() Percent { return percentOf(a.Gain, a.Cost) }

// Return returns the year's realized gain relative to its cost basis.
func (r *YearReport) Return() Percent { return percentOf(r.Gain, r.Cost) }

// NewYearReport filters the realized-gain records down to one tax year and
// aggregates them per asset. Records outside the year are ignored: the engine
// still has to process the full ledger so opening inventories are correct.
func NewYearReport(year int, currency string, gains []RealizedGain) *YearReport {
	report := &YearReport{
		Year:     year,
		Currency: currency,
		Proceeds: M(0, currency),
		Cost:     M(0, currency),
	}

	perAsset := make(map[string]*AssetGains)
	for _, g := range gains {
		if g.Date.Year() != year {
			continue
		}
		report.Disposals = append(report.Disposals, g)

		a, ok := perAsset[g.Asset]
		if !ok {
			a = &AssetGains{Asset: g.Asset}
			perAsset[g.Asset] = a
		}
		a.Disposals++
		a.Proceeds = a.Proceeds.Add(g.Proceeds)
		a.Cost = a.Cost.Add(g.Cost)
		a.Gain = a.Gain.Add(g.Gain())

		report.Proceeds = report.Proceeds.Add(g.Proceeds)
		report.Cost = report.Cost.Add(g.Cost)
	}
	report.Gain = report.Proceeds.Sub(report.Cost)

	for _, asset := range slices.Sorted(maps.Keys(perAsset)) {
		report.Assets = append(report.Assets, *perAsset[asset])
	}
	return report
}

// Run processes a full ledger (optionally seeded with an opening inventory)
// and reports the realized gains of one tax year along with the closing
// inventory. It is the single entry point used by the CLI.
func Run(ledger *Ledger, opening *Inventory, year int) (*YearReport, *Inventory, error) {
	engine := NewEngineWithInventory(ledger.Currency(), opening)
	gains, err := engine.Process(ledger.Transactions())
	if err != nil {
		return nil, nil, fmt.Errorf("ledger processing failed: %w", err)
	}
	return NewYearReport(year, ledger.Currency(), gains), engine.Inventory(), nil
}
