package cryptotax

import (
	"errors"
	"fmt"
)

// ErrMissingValuation reports a permuta trade whose primary asset has no
// established fiat reference at the time of the trade. Permuta trades cannot
// be valued without a prior fiat-quoted acquisition of the primary asset.
var ErrMissingValuation = errors.New("missing primary asset valuation")

// resolveFiatValue derives the base fiat value of a trade.
//
// For fiat-quoted trades the value is the amount field verbatim. For permuta
// trades the counter asset is a primary crypto asset, and its reference unit
// value is the weighted average acquisition cost of its open lots: the fiat
// valuation is a pure function of the engine's own inventory state, so a
// report is reproducible from the ledger alone.
func resolveFiatValue(inv *Inventory, tx Transaction) (Money, error) {
	switch v := tx.(type) {
	case Buy:
		return v.Amount, nil
	case Sell:
		return v.Amount, nil
	case BuyPermuta:
		return permutaFiatValue(inv, v.Counter, v.CounterQuantity, v.When())
	case SellPermuta:
		return permutaFiatValue(inv, v.Counter, v.CounterQuantity, v.When())
	default:
		return Money{}, fmt.Errorf("unsupported transaction type for valuation: %T", tx)
	}
}

// permutaFiatValue converts a quantity of the primary asset into fiat through
// the primary asset's own inventory.
func permutaFiatValue(inv *Inventory, counter string, quantity Quantity, on Date) (Money, error) {
	reference, ok := inv.averageCost(counter)
	if !ok {
		return Money{}, fmt.Errorf("%w: no fiat reference for %s on %s",
			ErrMissingValuation, counter, on)
	}
	return reference.Mul(quantity), nil
}
