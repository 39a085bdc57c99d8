package cryptotax

import (
	"fmt"
	"iter"
	"sort"
)

// DefaultCurrency is the base fiat currency assumed when none is configured.
const DefaultCurrency = "EUR"

// Ledger represents a chronological list of trades against a single base fiat
// currency.
//
// In a Ledger transactions are always in chronological order; trades on the
// same day keep their insertion order.
type Ledger struct {
	currency     string
	transactions []Transaction
}

// NewLedger creates an empty ledger in the given base fiat currency.
// An empty currency defaults to DefaultCurrency.
func NewLedger(currency string) *Ledger {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Ledger{
		currency:     currency,
		transactions: make([]Transaction, 0),
	}
}

// Currency returns the ledger's base fiat currency.
func (l *Ledger) Currency() string { return l.currency }

// Len returns the number of transactions in the ledger.
func (l *Ledger) Len() int { return len(l.transactions) }

// Append appends transactions to this ledger and maintains the chronological
// order of transactions.
func (l *Ledger) Append(txs ...Transaction) {
	l.transactions = append(l.transactions, txs...)
	l.stableSort()
}

// Transactions returns an iterator over the ledger's transactions in
// chronological order.
func (l *Ledger) Transactions() iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range l.transactions {
			if !yield(tx) {
				return
			}
		}
	}
}

// stableSort sorts the transactions by date, keeping the relative order of
// same-day transactions. FIFO determinism depends on this stability.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].When().Before(l.transactions[j].When())
	})
}

// Validate checks a transaction for correctness and applies quick fixes where
// applicable (e.g., filling in a missing currency). It returns the validated
// (and potentially modified) transaction or an error detailing any validation
// failures.
func (l *Ledger) Validate(tx Transaction) (Transaction, error) {
	var err error
	switch v := tx.(type) {
	case Buy:
		tx, err = v.Validate(l)
	case Sell:
		tx, err = v.Validate(l)
	case BuyPermuta:
		tx, err = v.Validate(l)
	case SellPermuta:
		tx, err = v.Validate(l)
	default:
		return tx, fmt.Errorf("unsupported transaction type for validation: %T %v", tx, tx)
	}
	if err != nil {
		return tx, fmt.Errorf("invalid %s transaction on %v: %w", tx.What(), tx.When(), err)
	}
	return tx, nil
}

// Fmt validates every transaction in order, applies quick fixes, and returns a
// new canonical ledger. It fails on the first invalid transaction.
func (l *Ledger) Fmt() (*Ledger, error) {
	formatted := NewLedger(l.currency)
	for _, tx := range l.transactions {
		valid, err := l.Validate(tx)
		if err != nil {
			return nil, err
		}
		formatted.Append(valid)
	}
	return formatted, nil
}
