package cryptotax

import (
	"errors"
	"fmt"
	"iter"
)

// ErrOutOfOrder reports an input transaction dated before an already processed
// one. FIFO correctness depends on strict chronological processing, so the
// caller must pre-sort the transaction sequence.
var ErrOutOfOrder = errors.New("out of order transaction")

// RealizedGain is the outcome of one disposal event: the proceeds, the FIFO
// cost basis of the matched lots, and the resulting gain or loss.
// Immutable once produced.
type RealizedGain struct {
	Date     Date       // disposal date
	Asset    string     // asset disposed
	Quantity Quantity   // quantity disposed
	Proceeds Money      // fiat value received (net of fees)
	Cost     Money      // fiat cost basis of the matched lots
	Lots     []LotMatch // matched lots, oldest first, for audit traceability
}

// Gain returns the realized gain (or loss, when negative) of the disposal.
func (g RealizedGain) Gain() Money { return g.Proceeds.Sub(g.Cost) }

// Engine computes realized capital gains from a chronological sequence of
// trades using FIFO lot accounting.
//
// The engine is a deterministic fold over the transaction sequence: it owns
// the per-asset lot inventory exclusively, mutates it in a single pass, and
// emits one realized-gain record per disposal. Any error aborts the whole run;
// no partial report is trustworthy.
type Engine struct {
	currency string
	inv      *Inventory
	last     Date
}

// NewEngine creates an engine reporting in the given base fiat currency, with
// an empty inventory.
func NewEngine(currency string) *Engine {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Engine{currency: currency, inv: NewInventory()}
}

// NewEngineWithInventory creates an engine seeded with an opening inventory,
// typically decoded from a previous year's closing inventory.
func NewEngineWithInventory(currency string, opening *Inventory) *Engine {
	e := NewEngine(currency)
	if opening != nil {
		e.inv = opening
	}
	return e
}

// Inventory exposes the engine's inventory state. It is the closing inventory
// once processing is complete.
func (e *Engine) Inventory() *Inventory { return e.inv }

// Process folds the transaction sequence into the inventory and returns the
// realized-gain records of every disposal, in processing order.
//
// On error the inventory state is unreliable and the result is nil: failures
// indicate bad input data, and the computation is deterministic, so re-running
// with the same input reproduces the same error.
func (e *Engine) Process(txs iter.Seq[Transaction]) ([]RealizedGain, error) {
	var gains []RealizedGain
	for tx := range txs {
		emitted, err := e.process(tx)
		if err != nil {
			return nil, err
		}
		gains = append(gains, emitted...)
	}
	return gains, nil
}

// process applies one transaction to the inventory and returns the
// realized-gain records it produced, if any.
func (e *Engine) process(tx Transaction) ([]RealizedGain, error) {
	if tx.When().Before(e.last) {
		return nil, fmt.Errorf("%w: %s transaction on %s processed after %s",
			ErrOutOfOrder, tx.What(), tx.When(), e.last)
	}
	e.last = tx.When()

	switch v := tx.(type) {
	case Buy:
		return nil, e.handleBuy(v)
	case Sell:
		gain, err := e.handleSell(v)
		if err != nil {
			return nil, err
		}
		return []RealizedGain{gain}, nil
	case BuyPermuta:
		gain, err := e.handleBuyPermuta(v)
		if err != nil {
			return nil, err
		}
		return []RealizedGain{gain}, nil
	case SellPermuta:
		gain, err := e.handleSellPermuta(v)
		if err != nil {
			return nil, err
		}
		return []RealizedGain{gain}, nil
	default:
		return nil, fmt.Errorf("unsupported transaction type: %T", tx)
	}
}

// handleBuy adds a lot for the acquired asset. The fee, when present, is part
// of the cost basis.
func (e *Engine) handleBuy(tx Buy) error {
	cost, err := resolveFiatValue(e.inv, tx)
	if err != nil {
		return err
	}
	e.inv.addLot(tx.Asset, tx.Quantity, cost.Add(tx.Fee), tx.Date)
	return nil
}

// handleSell consumes the asset's oldest lots and emits the realized gain.
// The fee, when present, reduces the proceeds.
func (e *Engine) handleSell(tx Sell) (RealizedGain, error) {
	proceeds, err := resolveFiatValue(e.inv, tx)
	if err != nil {
		return RealizedGain{}, err
	}
	return e.dispose(tx.Asset, tx.Quantity, proceeds.Sub(tx.Fee), tx.Date)
}

// handleBuyPermuta executes the two legs of a crypto-to-crypto purchase
// atomically at one shared fiat value: a disposal of the primary counter
// asset, and an acquisition of the traded asset at the same value.
func (e *Engine) handleBuyPermuta(tx BuyPermuta) (RealizedGain, error) {
	value, err := resolveFiatValue(e.inv, tx)
	if err != nil {
		return RealizedGain{}, err
	}
	gain, err := e.dispose(tx.Counter, tx.CounterQuantity, value, tx.Date)
	if err != nil {
		return RealizedGain{}, err
	}
	e.inv.addLot(tx.Asset, tx.Quantity, value, tx.Date)
	return gain, nil
}

// handleSellPermuta mirrors handleBuyPermuta with the legs swapped: the traded
// asset is disposed and the primary counter asset is acquired, both at the
// same fiat value.
func (e *Engine) handleSellPermuta(tx SellPermuta) (RealizedGain, error) {
	value, err := resolveFiatValue(e.inv, tx)
	if err != nil {
		return RealizedGain{}, err
	}
	gain, err := e.dispose(tx.Asset, tx.Quantity, value, tx.Date)
	if err != nil {
		return RealizedGain{}, err
	}
	e.inv.addLot(tx.Counter, tx.CounterQuantity, value, tx.Date)
	return gain, nil
}

// dispose consumes quantity units of the asset FIFO and builds the
// realized-gain record.
func (e *Engine) dispose(asset string, quantity Quantity, proceeds Money, on Date) (RealizedGain, error) {
	matched, err := e.inv.consume(asset, quantity)
	if err != nil {
		return RealizedGain{}, fmt.Errorf("on %s: %w", on, err)
	}

	var cost Money
	for _, m := range matched {
		cost = cost.Add(m.Cost)
	}

	return RealizedGain{
		Date:     on,
		Asset:    asset,
		Quantity: quantity,
		Proceeds: proceeds,
		Cost:     cost,
		Lots:     matched,
	}, nil
}
