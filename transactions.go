package cryptotax

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CommandType is a typed string for identifying transaction commands.
type CommandType string

// Command types used for identifying transactions.
const (
	CmdBuy         CommandType = "buy"
	CmdSell        CommandType = "sell"
	CmdBuyPermuta  CommandType = "buy-permuta"
	CmdSellPermuta CommandType = "sell-permuta"
)

// Transaction defines the common interface for all trade events that can be
// recorded in the ledger.
type Transaction interface {
	What() CommandType // What returns the command type of the transaction (e.g., "buy", "sell").
	When() Date        // When returns the date on which the trade occurred.
	Equal(Transaction) bool
	Validate(ledger *Ledger) (Transaction, error)
}

type baseCmd struct {
	Command CommandType `json:"command"`        // Command specifies the type of transaction.
	Date    Date        `json:"date"`           // Date is the date when the trade took place.
	Memo    string      `json:"memo,omitempty"` // Memo provides an optional note, typically the broker trade id.
}

// What returns the command name for the transaction.
func (t baseCmd) What() CommandType {
	return t.Command
}

// When returns the date of the transaction.
func (t baseCmd) When() Date {
	return t.Date
}

// Rationale returns the memo associated with the transaction.
func (t baseCmd) Rationale() string {
	return t.Memo
}

// MarshalJSON implements the json.Marshaler interface for baseCmd.
func (t baseCmd) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", t.Command)
	w.Append("date", t.Date)
	w.Optional("memo", t.Memo)
	return w.MarshalJSON()
}

// Validate checks the base command fields. It sets the date to today if it's zero.
// It's meant to be embedded in other transaction validation methods.
func (t *baseCmd) Validate() {
	if t.Date == (Date{}) {
		t.Date = Today()
	}
}

// assetCmd is a component for trades on a crypto asset.
type assetCmd struct {
	baseCmd
	Asset string `json:"asset"` // Asset is the symbol of the crypto asset being acquired or disposed.
}

// Validate checks the asset command fields. It validates the base command and
// ensures the asset symbol is present and distinct from the ledger's base
// fiat currency (fiat is a pure unit of account, never inventory).
func (t *assetCmd) Validate(ledger *Ledger) error {
	t.baseCmd.Validate()

	if t.Asset == "" {
		return errors.New("asset symbol is missing")
	}
	if t.Asset == ledger.Currency() {
		return fmt.Errorf("asset %q is the ledger base currency, not a tradable asset", t.Asset)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for assetCmd.
func (t assetCmd) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("asset", t.Asset)
	return w.MarshalJSON()
}

// Buy represents the purchase of a quantity of a crypto asset against the
// ledger's base fiat currency.
type Buy struct {
	assetCmd
	Quantity Quantity // Quantity is the number of units bought.
	Amount   Money    // Amount is the total fiat paid.
	Fee      Money    // Fee is the optional fiat fee, added to the cost basis.
}

// NewBuy creates a new Buy transaction.
func NewBuy(day Date, memo, asset string, quantity Quantity, amount, fee Money) Buy {
	return Buy{
		assetCmd: assetCmd{baseCmd: baseCmd{Command: CmdBuy, Date: day, Memo: memo}, Asset: asset},
		Quantity: quantity,
		Amount:   amount,
		Fee:      fee,
	}
}

// MarshalJSON implements the json.Marshaler interface for Buy.
func (t Buy) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.assetCmd)
	w.Append("quantity", t.Quantity)
	w.EmbedFrom(t.Amount)
	if !t.Fee.IsZero() {
		w.Append("fee", t.Fee)
	}
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Buy.
// It handles the custom structure where amount and currency are separate fields.
func (t *Buy) UnmarshalJSON(data []byte) error {
	var temp tradeCmd
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.assetCmd = temp.assetCmd
	t.Quantity = temp.Quantity
	t.Amount = temp.Money()
	t.Fee = temp.FeeMoney()
	return nil
}

func (t Buy) Equal(other Transaction) bool {
	o, ok := other.(Buy)
	return ok && t.assetCmd == o.assetCmd && t.Quantity.Equal(o.Quantity) &&
		t.Amount.Equal(o.Amount) && t.Fee.Equal(o.Fee)
}

func (t *Buy) Currency() string { return t.Amount.Currency() }

// Validate checks the Buy transaction's fields. It ensures quantity and amount
// are positive and quick-fixes a missing currency to the ledger's base fiat.
func (t Buy) Validate(ledger *Ledger) (Transaction, error) {
	if err := t.assetCmd.Validate(ledger); err != nil {
		return t, err
	}
	if err := validateFiatLeg(ledger, &t.Amount, &t.Fee); err != nil {
		return t, err
	}
	if !t.Quantity.IsPositive() {
		return t, fmt.Errorf("buy transaction quantity must be positive, got %s", t.Quantity.String())
	}
	if !t.Amount.IsPositive() {
		return t, fmt.Errorf("buy transaction amount must be positive, got %s", t.Amount.String())
	}
	return t, nil
}

// Sell represents the disposal of a quantity of a crypto asset against the
// ledger's base fiat currency.
type Sell struct {
	assetCmd
	Quantity Quantity // Quantity is the number of units sold.
	Amount   Money    // Amount is the total fiat received.
	Fee      Money    // Fee is the optional fiat fee, subtracted from the proceeds.
}

// NewSell creates a new Sell transaction.
func NewSell(day Date, memo, asset string, quantity Quantity, amount, fee Money) Sell {
	return Sell{
		assetCmd: assetCmd{baseCmd: baseCmd{Command: CmdSell, Date: day, Memo: memo}, Asset: asset},
		Quantity: quantity,
		Amount:   amount,
		Fee:      fee,
	}
}

// MarshalJSON implements the json.Marshaler interface for Sell.
func (t Sell) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.assetCmd)
	w.Append("quantity", t.Quantity)
	w.EmbedFrom(t.Amount)
	if !t.Fee.IsZero() {
		w.Append("fee", t.Fee)
	}
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Sell.
func (t *Sell) UnmarshalJSON(data []byte) error {
	var temp tradeCmd
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.assetCmd = temp.assetCmd
	t.Quantity = temp.Quantity
	t.Amount = temp.Money()
	t.Fee = temp.FeeMoney()
	return nil
}

func (t Sell) Equal(other Transaction) bool {
	o, ok := other.(Sell)
	return ok && t.assetCmd == o.assetCmd && t.Quantity.Equal(o.Quantity) &&
		t.Amount.Equal(o.Amount) && t.Fee.Equal(o.Fee)
}

func (t *Sell) Currency() string { return t.Amount.Currency() }

// Validate checks the Sell transaction's fields. It ensures quantity and amount
// are positive and that the fee does not exceed the proceeds. The balance check
// itself belongs to the matching engine, which is the only component that
// knows the inventory state at processing time.
func (t Sell) Validate(ledger *Ledger) (Transaction, error) {
	if err := t.assetCmd.Validate(ledger); err != nil {
		return t, err
	}
	if err := validateFiatLeg(ledger, &t.Amount, &t.Fee); err != nil {
		return t, err
	}
	if !t.Quantity.IsPositive() {
		return t, fmt.Errorf("sell transaction quantity must be positive, got %s", t.Quantity.String())
	}
	if !t.Amount.IsPositive() {
		return t, fmt.Errorf("sell transaction amount must be positive, got %s", t.Amount.String())
	}
	if t.Fee.GreaterThan(t.Amount) {
		return t, fmt.Errorf("sell transaction fee %s exceeds proceeds %s", t.Fee, t.Amount)
	}
	return t, nil
}

// validateFiatLeg quick-fixes a missing currency on the fiat amount and fee of
// a trade, and rejects currencies that do not match the ledger's base fiat.
func validateFiatLeg(ledger *Ledger, amount, fee *Money) error {
	if amount.Currency() == "" {
		amount.cur = ledger.Currency()
	} else if amount.Currency() != ledger.Currency() {
		return fmt.Errorf("transaction currency %s does not match ledger base currency %s", amount.Currency(), ledger.Currency())
	}
	if fee.IsZero() {
		return nil
	}
	if fee.IsNegative() {
		return fmt.Errorf("transaction fee must not be negative, got %s", fee.String())
	}
	if fee.Currency() == "" {
		fee.cur = ledger.Currency()
	} else if fee.Currency() != ledger.Currency() {
		return fmt.Errorf("fee currency %s does not match ledger base currency %s", fee.Currency(), ledger.Currency())
	}
	return nil
}

// BuyPermuta represents the purchase of a crypto asset paid with another
// crypto asset (the primary asset) instead of fiat.
//
// It is simultaneously a disposal of the primary asset (a taxable event) and
// an acquisition of the new asset, both valued at the same derived fiat
// amount so no value is invented or lost.
type BuyPermuta struct {
	assetCmd
	Quantity        Quantity // Quantity is the number of units acquired.
	Counter         string   // Counter is the primary crypto asset given away.
	CounterQuantity Quantity // CounterQuantity is the number of Counter units given away.
}

// NewBuyPermuta creates a new BuyPermuta transaction.
func NewBuyPermuta(day Date, memo, asset string, quantity Quantity, counter string, counterQuantity Quantity) BuyPermuta {
	return BuyPermuta{
		assetCmd:        assetCmd{baseCmd: baseCmd{Command: CmdBuyPermuta, Date: day, Memo: memo}, Asset: asset},
		Quantity:        quantity,
		Counter:         counter,
		CounterQuantity: counterQuantity,
	}
}

// MarshalJSON implements the json.Marshaler interface for BuyPermuta.
func (t BuyPermuta) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.assetCmd)
	w.Append("quantity", t.Quantity)
	w.Append("counter", t.Counter)
	w.Append("counterQuantity", t.CounterQuantity)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for BuyPermuta.
func (t *BuyPermuta) UnmarshalJSON(data []byte) error {
	var temp permutaCmd
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.assetCmd = temp.assetCmd
	t.Quantity = temp.Quantity
	t.Counter = temp.Counter
	t.CounterQuantity = temp.CounterQuantity
	return nil
}

func (t BuyPermuta) Equal(other Transaction) bool {
	o, ok := other.(BuyPermuta)
	return ok && t.assetCmd == o.assetCmd && t.Quantity.Equal(o.Quantity) &&
		t.Counter == o.Counter && t.CounterQuantity.Equal(o.CounterQuantity)
}

// Validate checks the BuyPermuta transaction's fields.
func (t BuyPermuta) Validate(ledger *Ledger) (Transaction, error) {
	if err := t.assetCmd.Validate(ledger); err != nil {
		return t, err
	}
	if err := validatePermutaLeg(ledger, t.Asset, t.Quantity, t.Counter, t.CounterQuantity); err != nil {
		return t, err
	}
	return t, nil
}

// SellPermuta represents the disposal of a crypto asset paid for with another
// crypto asset (the primary asset) instead of fiat. Mirror of BuyPermuta with
// the legs swapped.
type SellPermuta struct {
	assetCmd
	Quantity        Quantity // Quantity is the number of units disposed.
	Counter         string   // Counter is the primary crypto asset received.
	CounterQuantity Quantity // CounterQuantity is the number of Counter units received.
}

// NewSellPermuta creates a new SellPermuta transaction.
func NewSellPermuta(day Date, memo, asset string, quantity Quantity, counter string, counterQuantity Quantity) SellPermuta {
	return SellPermuta{
		assetCmd:        assetCmd{baseCmd: baseCmd{Command: CmdSellPermuta, Date: day, Memo: memo}, Asset: asset},
		Quantity:        quantity,
		Counter:         counter,
		CounterQuantity: counterQuantity,
	}
}

// MarshalJSON implements the json.Marshaler interface for SellPermuta.
func (t SellPermuta) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.assetCmd)
	w.Append("quantity", t.Quantity)
	w.Append("counter", t.Counter)
	w.Append("counterQuantity", t.CounterQuantity)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for SellPermuta.
func (t *SellPermuta) UnmarshalJSON(data []byte) error {
	var temp permutaCmd
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.assetCmd = temp.assetCmd
	t.Quantity = temp.Quantity
	t.Counter = temp.Counter
	t.CounterQuantity = temp.CounterQuantity
	return nil
}

func (t SellPermuta) Equal(other Transaction) bool {
	o, ok := other.(SellPermuta)
	return ok && t.assetCmd == o.assetCmd && t.Quantity.Equal(o.Quantity) &&
		t.Counter == o.Counter && t.CounterQuantity.Equal(o.CounterQuantity)
}

// Validate checks the SellPermuta transaction's fields.
func (t SellPermuta) Validate(ledger *Ledger) (Transaction, error) {
	if err := t.assetCmd.Validate(ledger); err != nil {
		return t, err
	}
	if err := validatePermutaLeg(ledger, t.Asset, t.Quantity, t.Counter, t.CounterQuantity); err != nil {
		return t, err
	}
	return t, nil
}

// validatePermutaLeg checks the fields shared by both permuta variants.
func validatePermutaLeg(ledger *Ledger, asset string, quantity Quantity, counter string, counterQuantity Quantity) error {
	if counter == "" {
		return errors.New("permuta counter asset is missing")
	}
	if counter == asset {
		return fmt.Errorf("permuta counter asset %q is the same as the traded asset", counter)
	}
	if counter == ledger.Currency() {
		return fmt.Errorf("permuta counter asset %q is the ledger base currency, use a plain buy or sell", counter)
	}
	if !quantity.IsPositive() {
		return fmt.Errorf("permuta transaction quantity must be positive, got %s", quantity.String())
	}
	if !counterQuantity.IsPositive() {
		return fmt.Errorf("permuta transaction counter quantity must be positive, got %s", counterQuantity.String())
	}
	return nil
}
