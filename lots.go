package cryptotax

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
)

// ErrInsufficientBalance reports a disposal larger than the tracked inventory
// for an asset. It always signals malformed or incomplete input data, never a
// recoverable runtime condition.
var ErrInsufficientBalance = errors.New("insufficient balance")

// lot represents a single acquired, not-yet-fully-disposed quantity of a
// crypto asset, carrying its own cost basis.
type lot struct {
	Date     Date     // acquisition date
	Quantity Quantity // quantity remaining, decreases on consumption
	Cost     Money    // total cost of the remaining quantity
}

// unitCost returns the fiat cost per unit of the lot.
func (l lot) unitCost() Money { return l.Cost.Div(l.Quantity) }

// LotMatch records one lot (or lot portion) consumed by a disposal, for audit
// traceability of the realized gain.
type LotMatch struct {
	Date     Date     // acquisition date of the consumed lot
	Quantity Quantity // quantity taken from the lot
	Cost     Money    // cost basis of the quantity taken
}

// Inventory tracks the open cost-basis lots of every crypto asset ever
// acquired, one ordered lot sequence per asset (oldest first).
//
// The base fiat currency is never tracked here: it is a pure unit of account.
type Inventory struct {
	assets map[string][]lot
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{assets: make(map[string][]lot)}
}

// addLot appends a new lot at the tail of the asset's sequence.
//
// Lots are never re-sorted: acquisitions enter in processing order, so
// same-day lots are consumed in insertion order, keeping reports reproducible
// across runs on identical input.
func (v *Inventory) addLot(asset string, quantity Quantity, cost Money, acquired Date) {
	v.assets[asset] = append(v.assets[asset], lot{Date: acquired, Quantity: quantity, Cost: cost})
}

// consume removes quantity units from the head of the asset's lot sequence,
// splitting the oldest lot when it holds more than needed, and returns the
// matched lots in consumption order.
//
// It fails with ErrInsufficientBalance when the requested quantity exceeds the
// total available, without mutating the inventory.
func (v *Inventory) consume(asset string, quantity Quantity) ([]LotMatch, error) {
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("cannot dispose %s %s: quantity must be positive", quantity, asset)
	}
	if v.Balance(asset).LessThan(quantity) {
		return nil, fmt.Errorf("%w: cannot dispose %s %s, inventory holds %s",
			ErrInsufficientBalance, quantity, asset, v.Balance(asset))
	}

	var matched []LotMatch
	open := v.assets[asset]
	for !quantity.IsZero() {
		head := open[0]
		if head.Quantity.GreaterThan(quantity) {
			// Partial consumption of the oldest lot.
			costOfPortion := head.Cost.Mul(quantity).Div(head.Quantity)
			matched = append(matched, LotMatch{Date: head.Date, Quantity: quantity, Cost: costOfPortion})
			open[0] = lot{Date: head.Date, Quantity: head.Quantity.Sub(quantity), Cost: head.Cost.Sub(costOfPortion)}
			break
		}
		// Full consumption of the oldest lot.
		matched = append(matched, LotMatch{Date: head.Date, Quantity: head.Quantity, Cost: head.Cost})
		quantity = quantity.Sub(head.Quantity)
		open = open[1:]
	}
	v.assets[asset] = open
	return matched, nil
}

// Balance returns the total open quantity for the asset across all its lots.
func (v *Inventory) Balance(asset string) Quantity {
	var total Quantity
	for _, l := range v.assets[asset] {
		total = total.Add(l.Quantity)
	}
	return total
}

// CostBasis returns the total fiat cost of the asset's open lots.
func (v *Inventory) CostBasis(asset string) Money {
	var total Money
	for _, l := range v.assets[asset] {
		total = total.Add(l.Cost)
	}
	return total
}

// averageCost returns the weighted average fiat cost per unit of the asset's
// open lots, and false when the asset has no open inventory.
func (v *Inventory) averageCost(asset string) (Money, bool) {
	balance := v.Balance(asset)
	if balance.IsZero() {
		return Money{}, false
	}
	return v.CostBasis(asset).Div(balance), true
}

// Assets returns an iterator over the assets holding open lots, in sorted
// order for deterministic reporting.
func (v *Inventory) Assets() iter.Seq[string] {
	assets := slices.Collect(maps.Keys(v.assets))
	slices.Sort(assets)
	return func(yield func(string) bool) {
		for _, asset := range assets {
			if len(v.assets[asset]) == 0 {
				continue
			}
			if !yield(asset) {
				return
			}
		}
	}
}

// Lots returns the asset's open lots as audit records, oldest first.
func (v *Inventory) Lots(asset string) []LotMatch {
	open := v.assets[asset]
	out := make([]LotMatch, 0, len(open))
	for _, l := range open {
		out = append(out, LotMatch{Date: l.Date, Quantity: l.Quantity, Cost: l.Cost})
	}
	return out
}
