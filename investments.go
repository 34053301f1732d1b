package tracker

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvestmentType classifies a holding.
type InvestmentType string

const (
	Stock  InvestmentType = "Stock"
	ETF    InvestmentType = "ETF"
	Crypto InvestmentType = "Crypto"
)

// InvestmentTypes lists the valid investment types.
var InvestmentTypes = []InvestmentType{Stock, ETF, Crypto}

// Holding is a position in a security or coin. CurrentPrice is a snapshot
// updated manually or by the price refresh, never derived. NeedsReview flags
// holdings imported with unverified identity, pending reconciliation against
// the symbol directory.
type Holding struct {
	ID           string
	Name         string
	Ticker       string
	Type         InvestmentType
	Currency     string
	CurrentPrice Money
	ISIN         string
	NeedsReview  bool
}

// NewHolding creates a holding with a fresh id.
func NewHolding(name, ticker string, typ InvestmentType, currency string) Holding {
	return Holding{
		ID:       uuid.NewString(),
		Name:     name,
		Ticker:   ticker,
		Type:     typ,
		Currency: currency,
	}
}

// Validate checks the holding fields before it enters the ledger.
func (h Holding) Validate() error {
	if h.ID == "" {
		return fmt.Errorf("holding %q has no id", h.Ticker)
	}
	if h.Ticker == "" {
		return fmt.Errorf("holding %s has no ticker", h.ID)
	}
	switch h.Type {
	case Stock, ETF, Crypto:
	default:
		return fmt.Errorf("holding %q has invalid type %q", h.Ticker, h.Type)
	}
	if h.Currency != EUR && h.Currency != USD {
		return fmt.Errorf("holding %q has unsupported currency %q", h.Ticker, h.Currency)
	}
	return nil
}

func (h Holding) Equal(o Holding) bool {
	return h.ID == o.ID && h.Name == o.Name && h.Ticker == o.Ticker &&
		h.Type == o.Type && h.Currency == o.Currency &&
		h.CurrentPrice.Equal(o.CurrentPrice) && h.ISIN == o.ISIN &&
		h.NeedsReview == o.NeedsReview
}

func (h Holding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", h.ID)
	w.Append("name", h.Name)
	w.Append("ticker", h.Ticker)
	w.Append("investmentType", h.Type)
	w.Append("currency", h.Currency)
	if !h.CurrentPrice.IsZero() {
		w.Append("currentPrice", h.CurrentPrice.value)
	}
	w.Optional("isin", h.ISIN)
	w.Optional("needsReview", h.NeedsReview)
	return w.MarshalJSON()
}

func (h *Holding) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID           string          `json:"id"`
		Name         string          `json:"name"`
		Ticker       string          `json:"ticker"`
		Type         InvestmentType  `json:"investmentType"`
		Currency     string          `json:"currency"`
		CurrentPrice decimal.Decimal `json:"currentPrice"`
		ISIN         string          `json:"isin"`
		NeedsReview  bool            `json:"needsReview"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*h = Holding{
		ID:           raw.ID,
		Name:         raw.Name,
		Ticker:       raw.Ticker,
		Type:         raw.Type,
		Currency:     raw.Currency,
		CurrentPrice: M(raw.CurrentPrice, raw.Currency).exact(),
		ISIN:         raw.ISIN,
		NeedsReview:  raw.NeedsReview,
	}
	return nil
}

// InvTxType is a typed string identifying investment transaction commands.
type InvTxType string

const (
	CmdBuy      InvTxType = "BUY"
	CmdSell     InvTxType = "SELL"
	CmdDividend InvTxType = "DIVIDEND"
)

// InvestmentTx records a trade or dividend on a holding, settled against a
// cash account. Amounts are denominated in the holding's currency. For a
// dividend, quantity and price are zero and TotalAmount carries the cash.
// TotalAmount of a trade includes any embedded transaction cost.
type InvestmentTx struct {
	TxID         string
	Holding      string
	Account      string
	Type         InvTxType
	Date         Date
	Quantity     Quantity
	PricePerUnit Money
	TotalAmount  Money
}

func (t InvestmentTx) ID() string      { return t.TxID }
func (t InvestmentTx) When() Date      { return t.Date }
func (t InvestmentTx) What() InvTxType { return t.Type }

// NewTrade creates a BUY or SELL transaction. totalAmount is quantity times
// price plus or minus any transaction cost, in the holding's currency.
func NewTrade(typ InvTxType, day Date, holdingID, accountID string, quantity Quantity, pricePerUnit, totalAmount Money) InvestmentTx {
	return InvestmentTx{
		TxID:         uuid.NewString(),
		Holding:      holdingID,
		Account:      accountID,
		Type:         typ,
		Date:         day,
		Quantity:     quantity,
		PricePerUnit: pricePerUnit.exact(),
		TotalAmount:  totalAmount,
	}
}

// NewDividend creates a DIVIDEND transaction carrying only cash.
func NewDividend(day Date, holdingID, accountID string, amount Money) InvestmentTx {
	return InvestmentTx{
		TxID:        uuid.NewString(),
		Holding:     holdingID,
		Account:     accountID,
		Type:        CmdDividend,
		Date:        day,
		TotalAmount: amount,
	}
}

// Validate checks the transaction fields against the ledger and resolves
// missing currencies from the holding.
func (t InvestmentTx) Validate(ledger *Ledger) (InvestmentTx, error) {
	if t.TxID == "" {
		t.TxID = uuid.NewString()
	}
	if t.Date.IsZero() {
		t.Date = Today()
	}
	if t.Holding == "" {
		return t, errors.New("investment transaction has no holding")
	}
	h, ok := ledger.Holding(t.Holding)
	if !ok {
		return t, fmt.Errorf("investment transaction references unknown holding %q", t.Holding)
	}
	if t.Account == "" {
		return t, errors.New("investment transaction has no account")
	}
	if _, ok := ledger.Account(t.Account); !ok {
		return t, fmt.Errorf("investment transaction references unknown account %q", t.Account)
	}
	switch t.Type {
	case CmdBuy, CmdSell:
		if !t.Quantity.IsPositive() {
			return t, fmt.Errorf("%s quantity must be positive, got %s", t.Type, t.Quantity)
		}
		if !t.PricePerUnit.IsPositive() {
			return t, fmt.Errorf("%s price per unit must be positive, got %s", t.Type, t.PricePerUnit)
		}
	case CmdDividend:
		if !t.Quantity.IsZero() || !t.PricePerUnit.IsZero() {
			return t, errors.New("dividend carries no quantity or price, only a cash amount")
		}
	default:
		return t, fmt.Errorf("invalid investment transaction type %q", t.Type)
	}
	if !t.TotalAmount.IsPositive() {
		return t, fmt.Errorf("%s total amount must be positive, got %s", t.Type, t.TotalAmount)
	}
	if t.PricePerUnit.Currency() == "" {
		t.PricePerUnit = M(t.PricePerUnit.value, h.Currency).exact()
	}
	if t.TotalAmount.Currency() == "" {
		t.TotalAmount = M(t.TotalAmount.value, h.Currency)
	}
	return t, nil
}

func (t InvestmentTx) Equal(o InvestmentTx) bool {
	return t.TxID == o.TxID && t.Holding == o.Holding && t.Account == o.Account &&
		t.Type == o.Type && t.Date == o.Date && t.Quantity.Equal(o.Quantity) &&
		t.PricePerUnit.Equal(o.PricePerUnit) && t.TotalAmount.Equal(o.TotalAmount)
}

func (t InvestmentTx) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.TxID)
	w.Append("type", t.Type)
	w.Append("date", t.Date)
	w.Append("holdingId", t.Holding)
	w.Append("accountId", t.Account)
	w.Append("quantity", t.Quantity)
	w.Append("pricePerUnit", t.PricePerUnit.value)
	w.Append("totalAmount", t.TotalAmount.value)
	w.Optional("currency", t.TotalAmount.Currency())
	return w.MarshalJSON()
}

func (t *InvestmentTx) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID           string          `json:"id"`
		Type         InvTxType       `json:"type"`
		Date         Date            `json:"date"`
		Holding      string          `json:"holdingId"`
		Account      string          `json:"accountId"`
		Quantity     Quantity        `json:"quantity"`
		PricePerUnit decimal.Decimal `json:"pricePerUnit"`
		TotalAmount  decimal.Decimal `json:"totalAmount"`
		Currency     string          `json:"currency"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*t = InvestmentTx{
		TxID:         raw.ID,
		Holding:      raw.Holding,
		Account:      raw.Account,
		Type:         raw.Type,
		Date:         raw.Date,
		Quantity:     raw.Quantity,
		PricePerUnit: M(raw.PricePerUnit, raw.Currency).exact(),
		TotalAmount:  M(raw.TotalAmount, raw.Currency),
	}
	return nil
}
