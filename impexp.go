package cryptotax

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// This file handles the legacy exchange export formats: the semicolon
// separated trade CSV and the comma separated inventory CSV.

// ImportTrades reads a broker trade export and converts each row into a
// ledger transaction.
//
// The expected columns are txid;date;type;qty1;asset1;qty2;asset2 where type
// is Buy or Sell, asset1 is the traded crypto asset and asset2 the counter
// leg. A fiat counter yields a plain Buy/Sell; a crypto counter yields the
// permuta variant. Dates are day-first (02/01/2006). Rows missing a txid get
// a generated one so every ledger entry stays traceable to its import.
func ImportTrades(r io.Reader, currency string) (*Ledger, error) {
	ledger := NewLedger(currency)

	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("could not read trade CSV header: %w", err)
	}
	col := make(map[string]int)
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"date", "type", "qty1", "asset1", "qty2", "asset2"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("trade CSV is missing the %q column", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("could not read trade CSV line %d: %w", line, err)
		}

		tx, err := importTrade(ledger, func(name string) string { return field(row, name) })
		if err != nil {
			return nil, fmt.Errorf("trade CSV line %d: %w", line, err)
		}
		ledger.Append(tx)
	}

	return ledger, nil
}

// importTrade builds one validated transaction from a trade CSV row.
func importTrade(ledger *Ledger, field func(string) string) (Transaction, error) {
	date, err := ParseDate(field("date"))
	if err != nil {
		return nil, err
	}
	quantity, err := ParseQuantity(field("qty1"))
	if err != nil {
		return nil, fmt.Errorf("invalid qty1 %q: %w", field("qty1"), err)
	}
	counterQuantity, err := ParseQuantity(field("qty2"))
	if err != nil {
		return nil, fmt.Errorf("invalid qty2 %q: %w", field("qty2"), err)
	}
	asset, counter := field("asset1"), field("asset2")

	memo := field("txid")
	if memo == "" {
		memo = uuid.NewString()
	}

	var fee Money
	if f := field("fee"); f != "" {
		feeQty, err := ParseQuantity(f)
		if err != nil {
			return nil, fmt.Errorf("invalid fee %q: %w", f, err)
		}
		fee = M(feeQty.value, ledger.Currency())
	}

	var tx Transaction
	side := strings.ToLower(field("type"))
	fiat := counter == ledger.Currency()
	switch {
	case side == "buy" && fiat:
		tx = NewBuy(date, memo, asset, quantity, M(counterQuantity.value, ledger.Currency()), fee)
	case side == "sell" && fiat:
		tx = NewSell(date, memo, asset, quantity, M(counterQuantity.value, ledger.Currency()), fee)
	case side == "buy":
		tx = NewBuyPermuta(date, memo, asset, quantity, counter, counterQuantity)
	case side == "sell":
		tx = NewSellPermuta(date, memo, asset, quantity, counter, counterQuantity)
	default:
		return nil, fmt.Errorf("unknown trade type %q", field("type"))
	}

	return ledger.Validate(tx)
}

// inventoryHeader is the column layout of the inventory CSV, shared by the
// opening inventory read and the closing inventory write.
var inventoryHeader = []string{"lot", "asset", "qty", "basis"}

// DecodeInventory reads an opening inventory from a CSV with columns
// lot,asset,qty,basis: one open lot per row, basis being the fiat unit cost.
func DecodeInventory(r io.Reader, currency string) (*Inventory, error) {
	inv := NewInventory()

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("could not read inventory CSV header: %w", err)
	}
	for i, want := range inventoryHeader {
		if i >= len(header) || strings.TrimSpace(header[i]) != want {
			return nil, fmt.Errorf("inventory CSV header must be %q", strings.Join(inventoryHeader, ","))
		}
	}

	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("could not read inventory CSV line %d: %w", line, err)
		}
		if len(row) < len(inventoryHeader) {
			return nil, fmt.Errorf("inventory CSV line %d: want %d columns, got %d", line, len(inventoryHeader), len(row))
		}

		date, err := ParseDate(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("inventory CSV line %d: %w", line, err)
		}
		asset := strings.TrimSpace(row[1])
		qty, err := ParseQuantity(strings.TrimSpace(row[2]))
		if err != nil {
			return nil, fmt.Errorf("inventory CSV line %d: invalid qty: %w", line, err)
		}
		basis, err := ParseQuantity(strings.TrimSpace(row[3]))
		if err != nil {
			return nil, fmt.Errorf("inventory CSV line %d: invalid basis: %w", line, err)
		}
		if asset == "" || !qty.IsPositive() || !basis.IsPositive() {
			return nil, fmt.Errorf("inventory CSV line %d: asset, qty and basis must be set and positive", line)
		}

		unitCost := M(basis.value, currency)
		inv.addLot(asset, qty, unitCost.Mul(qty), date)
	}

	return inv, nil
}

// EncodeInventory writes the open lots to a CSV with columns lot,asset,qty,basis,
// assets in sorted order and lots oldest first, so the output can seed the
// next year's run.
func EncodeInventory(w io.Writer, inv *Inventory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(inventoryHeader); err != nil {
		return fmt.Errorf("could not write inventory CSV header: %w", err)
	}

	for asset := range inv.Assets() {
		for _, l := range inv.assets[asset] {
			record := []string{l.Date.String(), asset, l.Quantity.String(), l.unitCost().value.String()}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("could not write inventory CSV row for %s: %w", asset, err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
