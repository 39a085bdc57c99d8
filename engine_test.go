package cryptotax

import (
	"errors"
	"testing"
)

// process is a test helper folding a list of transactions into a fresh engine.
func process(t *testing.T, opening *Inventory, txs ...Transaction) ([]RealizedGain, *Inventory) {
	t.Helper()
	ledger := NewLedger("EUR")
	ledger.Append(txs...)

	engine := NewEngineWithInventory("EUR", opening)
	gains, err := engine.Process(ledger.Transactions())
	if err != nil {
		t.Fatalf("Process() returned an unexpected error: %v", err)
	}
	return gains, engine.Inventory()
}

func TestSellMatchesOldestLot(t *testing.T) {
	gains, inv := process(t, nil,
		NewBuy(day("2024-01-05"), "", "BTC", Q(1), EUR(10000), NO(0)),
		NewSell(day("2024-03-15"), "", "BTC", Q(0.4), EUR(5000), NO(0)),
	)

	if len(gains) != 1 {
		t.Fatalf("Process() produced %d gains, want 1", len(gains))
	}
	g := gains[0]
	if !g.Proceeds.Equal(EUR(5000)) || !g.Cost.Equal(EUR(4000)) || !g.Gain().Equal(EUR(1000)) {
		t.Errorf("disposal proceeds %s cost %s gain %s, want 5000 / 4000 / 1000", g.Proceeds, g.Cost, g.Gain())
	}

	if got := inv.Balance("BTC"); !got.Equal(Q(0.6)) {
		t.Errorf("closing balance = %s, want 0.6", got)
	}
	if got := inv.CostBasis("BTC"); !got.Equal(EUR(6000)) {
		t.Errorf("closing cost basis = %s, want 6000", got)
	}
}

func TestSellSpansSeveralLots(t *testing.T) {
	gains, _ := process(t, nil,
		NewBuy(day("2024-01-05"), "", "BTC", Q(1), EUR(10000), NO(0)),
		NewBuy(day("2024-02-10"), "", "BTC", Q(1), EUR(12000), NO(0)),
		NewSell(day("2024-03-15"), "", "BTC", Q(1.5), EUR(21000), NO(0)),
	)

	if len(gains) != 1 {
		t.Fatalf("Process() produced %d gains, want 1", len(gains))
	}
	g := gains[0]
	if !g.Cost.Equal(EUR(16000)) || !g.Gain().Equal(EUR(5000)) {
		t.Errorf("disposal cost %s gain %s, want 16000 / 5000", g.Cost, g.Gain())
	}
	if len(g.Lots) != 2 {
		t.Errorf("disposal matched %d lots, want 2", len(g.Lots))
	}
}

func TestFeesAdjustBasisAndProceeds(t *testing.T) {
	gains, _ := process(t, nil,
		NewBuy(day("2024-01-05"), "", "BTC", Q(1), EUR(10000), EUR(100)),
		NewSell(day("2024-03-15"), "", "BTC", Q(1), EUR(12000), EUR(50)),
	)

	g := gains[0]
	// Purchase fee raises the cost basis, sale fee lowers the proceeds.
	if !g.Cost.Equal(EUR(10100)) {
		t.Errorf("disposal cost = %s, want 10100", g.Cost)
	}
	if !g.Proceeds.Equal(EUR(11950)) {
		t.Errorf("disposal proceeds = %s, want 11950", g.Proceeds)
	}
	if !g.Gain().Equal(EUR(1850)) {
		t.Errorf("disposal gain = %s, want 1850", g.Gain())
	}
}

func TestBuyPermutaDisposesPrimary(t *testing.T) {
	gains, inv := process(t, nil,
		NewBuy(day("2024-01-05"), "", "BTC", Q(1), EUR(10000), NO(0)),
		NewBuyPermuta(day("2024-02-10"), "", "ETH", Q(10), "BTC", Q(0.5)),
	)

	// The permuta disposes BTC at its own average acquisition cost, so it
	// realizes no gain, and opens an ETH lot at the same value.
	if len(gains) != 1 {
		t.Fatalf("Process() produced %d gains, want 1", len(gains))
	}
	g := gains[0]
	if g.Asset != "BTC" {
		t.Errorf("disposal asset = %s, want BTC", g.Asset)
	}
	if !g.Proceeds.Equal(EUR(5000)) || !g.Cost.Equal(EUR(5000)) || !g.Gain().IsZero() {
		t.Errorf("disposal proceeds %s cost %s gain %s, want 5000 / 5000 / 0", g.Proceeds, g.Cost, g.Gain())
	}

	if got := inv.Balance("BTC"); !got.Equal(Q(0.5)) {
		t.Errorf("BTC balance = %s, want 0.5", got)
	}
	if got := inv.Balance("ETH"); !got.Equal(Q(10)) {
		t.Errorf("ETH balance = %s, want 10", got)
	}
	if got := inv.CostBasis("ETH"); !got.Equal(EUR(5000)) {
		t.Errorf("ETH cost basis = %s, want 5000", got)
	}
}

func TestSellPermutaRoundTrip(t *testing.T) {
	gains, inv := process(t, nil,
		NewBuy(day("2024-01-05"), "", "BTC", Q(1), EUR(10000), NO(0)),
		NewBuyPermuta(day("2024-02-10"), "", "ETH", Q(10), "BTC", Q(0.5)),
		NewSellPermuta(day("2024-03-15"), "", "ETH", Q(10), "BTC", Q(0.5)),
	)

	if len(gains) != 2 {
		t.Fatalf("Process() produced %d gains, want 2", len(gains))
	}

	// The round trip disposes the ETH at the BTC reference value, which has
	// not moved, so no gain is realized and the BTC inventory is whole again.
	g := gains[1]
	if g.Asset != "ETH" {
		t.Errorf("second disposal asset = %s, want ETH", g.Asset)
	}
	if !g.Proceeds.Equal(EUR(5000)) || !g.Gain().IsZero() {
		t.Errorf("second disposal proceeds %s gain %s, want 5000 / 0", g.Proceeds, g.Gain())
	}

	if got := inv.Balance("BTC"); !got.Equal(Q(1)) {
		t.Errorf("BTC balance = %s, want 1", got)
	}
	if got := inv.CostBasis("BTC"); !got.Equal(EUR(10000)) {
		t.Errorf("BTC cost basis = %s, want 10000", got)
	}
	if got := inv.Balance("ETH"); !got.IsZero() {
		t.Errorf("ETH balance = %s, want 0", got)
	}
}

func TestOpeningInventorySeedsTheRun(t *testing.T) {
	opening := NewInventory()
	opening.addLot("BTC", Q(1), EUR(8000), day("2023-06-01"))

	gains, _ := process(t, opening,
		NewSell(day("2024-03-15"), "", "BTC", Q(1), EUR(12000), NO(0)),
	)

	g := gains[0]
	if !g.Cost.Equal(EUR(8000)) || !g.Gain().Equal(EUR(4000)) {
		t.Errorf("disposal cost %s gain %s, want 8000 / 4000", g.Cost, g.Gain())
	}
}

func TestProcessOutOfOrderFails(t *testing.T) {
	engine := NewEngine("EUR")
	txs := []Transaction{
		NewBuy(day("2024-03-15"), "", "BTC", Q(1), EUR(10000), NO(0)),
		NewBuy(day("2024-01-05"), "", "BTC", Q(1), EUR(9000), NO(0)),
	}
	_, err := engine.Process(func(yield func(Transaction) bool) {
		for _, tx := range txs {
			if !yield(tx) {
				return
			}
		}
	})
	if !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("Process() error = %v, want ErrOutOfOrder", err)
	}
}

func TestPermutaWithoutValuationFails(t *testing.T) {
	engine := NewEngine("EUR")
	ledger := NewLedger("EUR")
	ledger.Append(NewBuyPermuta(day("2024-02-10"), "", "ETH", Q(10), "BTC", Q(0.5)))

	_, err := engine.Process(ledger.Transactions())
	if !errors.Is(err, ErrMissingValuation) {
		t.Fatalf("Process() error = %v, want ErrMissingValuation", err)
	}
}

func TestSellBeyondBalanceFails(t *testing.T) {
	engine := NewEngine("EUR")
	ledger := NewLedger("EUR")
	ledger.Append(
		NewBuy(day("2024-01-05"), "", "BTC", Q(1), EUR(10000), NO(0)),
		NewSell(day("2024-03-15"), "", "BTC", Q(2), EUR(20000), NO(0)),
	)

	_, err := engine.Process(ledger.Transactions())
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("Process() error = %v, want ErrInsufficientBalance", err)
	}
}

func TestSameDayBuyThenSell(t *testing.T) {
	gains, _ := process(t, nil,
		NewBuy(day("2024-01-05"), "", "BTC", Q(1), EUR(10000), NO(0)),
		NewSell(day("2024-01-05"), "", "BTC", Q(1), EUR(10500), NO(0)),
	)
	if !gains[0].Gain().Equal(EUR(500)) {
		t.Errorf("same day round trip gain = %s, want 500", gains[0].Gain())
	}
}
