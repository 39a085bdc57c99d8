package cryptotax

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// amountCmd is a specialized struct to read a ledger amount in two fields.
type amountCmd struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (a amountCmd) Money() Money {
	return M(a.Amount, a.Currency)
}

// tradeCmd is a specialized struct for decoding fiat-quoted trades (buy, sell).
type tradeCmd struct {
	assetCmd
	amountCmd
	Quantity Quantity   `json:"quantity"`
	Fee      *amountCmd `json:"fee"`
}

func (a tradeCmd) FeeMoney() Money {
	if a.Fee == nil {
		return Money{}
	}
	return a.Fee.Money()
}

// permutaCmd is a specialized struct for decoding crypto-to-crypto trades.
type permutaCmd struct {
	assetCmd
	Quantity        Quantity `json:"quantity"`
	Counter         string   `json:"counter"`
	CounterQuantity Quantity `json:"counterQuantity"`
}

// DecodeLedger decodes transactions from a stream of JSONL data from an
// io.Reader, decodes each line into the appropriate transaction struct, and
// returns a sorted Ledger in the given base fiat currency.
func DecodeLedger(r io.Reader, currency string) (*Ledger, error) {
	ledger := NewLedger(currency)
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Command CommandType `json:"command"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify command in line %q: %w", string(lineBytes), err)
		}

		var decodedTx Transaction
		var err error

		switch identifier.Command {
		case CmdBuy:
			var tx Buy
			err = json.Unmarshal(lineBytes, &tx)
			decodedTx = tx
		case CmdSell:
			var tx Sell
			err = json.Unmarshal(lineBytes, &tx)
			decodedTx = tx
		case CmdBuyPermuta:
			var tx BuyPermuta
			err = json.Unmarshal(lineBytes, &tx)
			decodedTx = tx
		case CmdSellPermuta:
			var tx SellPermuta
			err = json.Unmarshal(lineBytes, &tx)
			decodedTx = tx
		default:
			err = fmt.Errorf("unknown transaction command: %q", identifier.Command)
		}

		if err != nil {
			return nil, err
		}
		// Data files are hand-editable: decoded records get the same
		// validation and quick fixes as freshly imported ones.
		valid, err := ledger.Validate(decodedTx)
		if err != nil {
			return nil, err
		}
		ledger.Append(valid)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	return ledger, nil
}

// EncodeTransaction marshals a single transaction to JSON and writes it to the
// writer, followed by a newline, in JSONL format.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	decimal.MarshalJSONWithoutQuotes = true
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// EncodeLedger reorders transactions by date and persists them to an io.Writer
// in JSONL format. The sort is stable, meaning transactions on the same day
// maintain their original relative order.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	decimal.MarshalJSONWithoutQuotes = true

	ledger.stableSort()

	for _, tx := range ledger.transactions {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}

	return nil
}
