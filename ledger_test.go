package cryptotax

import (
	"strings"
	"testing"
)

func TestLedgerAppendKeepsChronologicalOrder(t *testing.T) {
	ledger := NewLedger("EUR")
	ledger.Append(
		NewSell(day("2024-03-15"), "", "BTC", Q(0.4), EUR(5000), NO(0)),
		NewBuy(day("2024-01-05"), "", "BTC", Q(1), EUR(10000), NO(0)),
	)

	var dates []string
	for tx := range ledger.Transactions() {
		dates = append(dates, tx.When().String())
	}
	if dates[0] != "2024-01-05" || dates[1] != "2024-03-15" {
		t.Errorf("Transactions() order = %v, want chronological", dates)
	}
}

func TestLedgerAppendIsStableOnSameDay(t *testing.T) {
	first := NewBuy(day("2024-01-05"), "first", "BTC", Q(1), EUR(10000), NO(0))
	second := NewBuy(day("2024-01-05"), "second", "BTC", Q(1), EUR(10100), NO(0))

	ledger := NewLedger("EUR")
	ledger.Append(first, second)

	var memos []string
	for tx := range ledger.Transactions() {
		memos = append(memos, tx.(Buy).Memo)
	}
	if memos[0] != "first" || memos[1] != "second" {
		t.Errorf("same-day order = %v, want insertion order", memos)
	}
}

func TestValidateQuickFixesCurrency(t *testing.T) {
	ledger := NewLedger("EUR")

	tx, err := ledger.Validate(NewBuy(day("2024-01-05"), "", "BTC", Q(1), NO(10000), NO(0)))
	if err != nil {
		t.Fatalf("Validate() returned an unexpected error: %v", err)
	}
	buy := tx.(Buy)
	if buy.Amount.Currency() != "EUR" {
		t.Errorf("validated amount currency = %q, want EUR", buy.Amount.Currency())
	}
}

func TestValidateDefaultsZeroDate(t *testing.T) {
	ledger := NewLedger("EUR")

	tx, err := ledger.Validate(NewBuy(Date{}, "", "BTC", Q(1), EUR(10000), NO(0)))
	if err != nil {
		t.Fatalf("Validate() returned an unexpected error: %v", err)
	}
	if tx.When() != Today() {
		t.Errorf("validated date = %s, want today", tx.When())
	}
}

func TestValidateRejections(t *testing.T) {
	ledger := NewLedger("EUR")

	tests := []struct {
		name string
		tx   Transaction
		want string
	}{
		{
			name: "missing asset",
			tx:   NewBuy(day("2024-01-05"), "", "", Q(1), EUR(10000), NO(0)),
			want: "asset symbol is missing",
		},
		{
			name: "asset is the base currency",
			tx:   NewBuy(day("2024-01-05"), "", "EUR", Q(1), EUR(10000), NO(0)),
			want: "base currency",
		},
		{
			name: "foreign currency amount",
			tx:   NewBuy(day("2024-01-05"), "", "BTC", Q(1), M(10000, "USD"), NO(0)),
			want: "does not match ledger base currency",
		},
		{
			name: "negative quantity",
			tx:   NewBuy(day("2024-01-05"), "", "BTC", Q(-1), EUR(10000), NO(0)),
			want: "quantity must be positive",
		},
		{
			name: "zero amount",
			tx:   NewSell(day("2024-01-05"), "", "BTC", Q(1), EUR(0), NO(0)),
			want: "amount must be positive",
		},
		{
			name: "negative fee",
			tx:   NewBuy(day("2024-01-05"), "", "BTC", Q(1), EUR(10000), EUR(-5)),
			want: "fee must not be negative",
		},
		{
			name: "fee above proceeds",
			tx:   NewSell(day("2024-01-05"), "", "BTC", Q(1), EUR(100), EUR(200)),
			want: "exceeds proceeds",
		},
		{
			name: "permuta against itself",
			tx:   NewBuyPermuta(day("2024-01-05"), "", "BTC", Q(1), "BTC", Q(1)),
			want: "same as the traded asset",
		},
		{
			name: "permuta against the base currency",
			tx:   NewBuyPermuta(day("2024-01-05"), "", "ETH", Q(10), "EUR", Q(10000)),
			want: "use a plain buy or sell",
		},
		{
			name: "permuta missing counter",
			tx:   NewSellPermuta(day("2024-01-05"), "", "ETH", Q(10), "", Q(1)),
			want: "counter asset is missing",
		},
		{
			name: "permuta zero counter quantity",
			tx:   NewSellPermuta(day("2024-01-05"), "", "ETH", Q(10), "BTC", Q(0)),
			want: "counter quantity must be positive",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.Validate(tc.tx)
			if err == nil {
				t.Fatalf("Validate() accepted %s", tc.name)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Validate() error = %q, want it to mention %q", err, tc.want)
			}
		})
	}
}

func TestFmt(t *testing.T) {
	ledger := NewLedger("EUR")
	ledger.Append(
		NewBuy(day("2024-01-05"), "", "BTC", Q(1), NO(10000), NO(0)),
	)

	formatted, err := ledger.Fmt()
	if err != nil {
		t.Fatalf("Fmt() returned an unexpected error: %v", err)
	}
	for tx := range formatted.Transactions() {
		if tx.(Buy).Amount.Currency() != "EUR" {
			t.Errorf("Fmt() did not quick-fix the currency")
		}
	}

	ledger.Append(NewBuy(day("2024-01-06"), "", "", Q(1), EUR(10), NO(0)))
	if _, err := ledger.Fmt(); err == nil {
		t.Fatal("Fmt() on an invalid ledger should fail")
	}
}
