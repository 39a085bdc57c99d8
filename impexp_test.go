package cryptotax

import (
	"strings"
	"testing"
)

func TestImportTrades(t *testing.T) {
	csv := `txid;date;type;qty1;asset1;qty2;asset2
t1;05/01/2024;Buy;1;BTC;10000;EUR
t2;10/02/2024;Buy;10;ETH;0.5;BTC
t3;01/03/2024;Sell;4;ETH;0.2;BTC
t4;15/03/2024;Sell;0.4;BTC;5000;EUR
`
	ledger, err := ImportTrades(strings.NewReader(csv), "EUR")
	if err != nil {
		t.Fatalf("ImportTrades() returned an unexpected error: %v", err)
	}

	want := []Transaction{
		NewBuy(day("2024-01-05"), "t1", "BTC", Q(1), EUR(10000), NO(0)),
		NewBuyPermuta(day("2024-02-10"), "t2", "ETH", Q(10), "BTC", Q(0.5)),
		NewSellPermuta(day("2024-03-01"), "t3", "ETH", Q(4), "BTC", Q(0.2)),
		NewSell(day("2024-03-15"), "t4", "BTC", Q(0.4), EUR(5000), NO(0)),
	}

	if ledger.Len() != len(want) {
		t.Fatalf("ImportTrades() imported %d transactions, want %d", ledger.Len(), len(want))
	}
	i := 0
	for tx := range ledger.Transactions() {
		if !want[i].Equal(tx) {
			t.Errorf("transaction %d imported as %+v, want %+v", i, tx, want[i])
		}
		i++
	}
}

func TestImportTradesWithFee(t *testing.T) {
	csv := `txid;date;type;qty1;asset1;qty2;asset2;fee
t1;05/01/2024;Buy;1;BTC;10000;EUR;25
`
	ledger, err := ImportTrades(strings.NewReader(csv), "EUR")
	if err != nil {
		t.Fatalf("ImportTrades() returned an unexpected error: %v", err)
	}

	want := NewBuy(day("2024-01-05"), "t1", "BTC", Q(1), EUR(10000), EUR(25))
	for tx := range ledger.Transactions() {
		if !want.Equal(tx) {
			t.Errorf("transaction imported as %+v, want %+v", tx, want)
		}
	}
}

func TestImportTradesGeneratesMissingTxid(t *testing.T) {
	csv := `txid;date;type;qty1;asset1;qty2;asset2
;05/01/2024;Buy;1;BTC;10000;EUR
`
	ledger, err := ImportTrades(strings.NewReader(csv), "EUR")
	if err != nil {
		t.Fatalf("ImportTrades() returned an unexpected error: %v", err)
	}

	for tx := range ledger.Transactions() {
		buy, ok := tx.(Buy)
		if !ok {
			t.Fatalf("imported transaction is a %T, want Buy", tx)
		}
		if buy.Memo == "" {
			t.Error("imported transaction has no memo, want a generated one")
		}
	}
}

func TestImportTradesRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{
			name: "missing column",
			csv:  "txid;date;type;qty1;asset1\n",
		},
		{
			name: "unknown trade type",
			csv:  "txid;date;type;qty1;asset1;qty2;asset2\nt1;05/01/2024;Stake;1;BTC;10000;EUR\n",
		},
		{
			name: "bad date",
			csv:  "txid;date;type;qty1;asset1;qty2;asset2\nt1;someday;Buy;1;BTC;10000;EUR\n",
		},
		{
			name: "negative quantity",
			csv:  "txid;date;type;qty1;asset1;qty2;asset2\nt1;05/01/2024;Buy;-1;BTC;10000;EUR\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ImportTrades(strings.NewReader(tc.csv), "EUR"); err == nil {
				t.Errorf("ImportTrades() on %s should fail", tc.name)
			}
		})
	}
}

func TestInventoryRoundTrip(t *testing.T) {
	inv := NewInventory()
	inv.addLot("BTC", Q(0.5), EUR(5000), day("2024-01-05"))
	inv.addLot("BTC", Q(1), EUR(12000), day("2024-02-10"))
	inv.addLot("ETH", Q(10), EUR(20000), day("2024-03-01"))

	var sb strings.Builder
	if err := EncodeInventory(&sb, inv); err != nil {
		t.Fatalf("EncodeInventory() returned an unexpected error: %v", err)
	}

	got := sb.String()
	want := `lot,asset,qty,basis
2024-01-05,BTC,0.5,10000
2024-02-10,BTC,1,12000
2024-03-01,ETH,10,2000
`
	if got != want {
		t.Errorf("EncodeInventory()\ngot:\n%s\nwant:\n%s", got, want)
	}

	decoded, err := DecodeInventory(strings.NewReader(got), "EUR")
	if err != nil {
		t.Fatalf("DecodeInventory() returned an unexpected error: %v", err)
	}

	for _, asset := range []string{"BTC", "ETH"} {
		if !decoded.Balance(asset).Equal(inv.Balance(asset)) {
			t.Errorf("round trip %s balance = %s, want %s", asset, decoded.Balance(asset), inv.Balance(asset))
		}
		if !decoded.CostBasis(asset).Equal(inv.CostBasis(asset)) {
			t.Errorf("round trip %s cost basis = %s, want %s", asset, decoded.CostBasis(asset), inv.CostBasis(asset))
		}
	}
}

func TestDecodeInventoryRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{
			name: "wrong header",
			csv:  "asset,qty,basis\nBTC,1,10000\n",
		},
		{
			name: "negative quantity",
			csv:  "lot,asset,qty,basis\n2024-01-05,BTC,-1,10000\n",
		},
		{
			name: "missing asset",
			csv:  "lot,asset,qty,basis\n2024-01-05,,1,10000\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeInventory(strings.NewReader(tc.csv), "EUR"); err == nil {
				t.Errorf("DecodeInventory() on %s should fail", tc.name)
			}
		})
	}
}
