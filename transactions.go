package tracker

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TxType is a typed string identifying cash transaction commands.
type TxType string

const (
	CmdCost     TxType = "COST"
	CmdIncome   TxType = "INCOME"
	CmdTransfer TxType = "TRANSFER"
)

// Transaction defines the common interface for the cash transactions
// recorded in the ledger. The ledger is append-only: transactions are
// validated before entering it and never mutated afterwards.
type Transaction interface {
	ID() string
	What() TxType // What returns the command type of the transaction.
	When() Date   // When returns the calendar day of the transaction.
	Equal(Transaction) bool
	Validate(ledger *Ledger) (Transaction, error)
}

type baseTx struct {
	TxID string `json:"id"`
	Date Date   `json:"date"`
	Memo string `json:"description,omitempty"`
}

func (t baseTx) ID() string { return t.TxID }
func (t baseTx) When() Date { return t.Date }

// Validate fills the defaults shared by all commands: a fresh id and
// today's date when unset.
func (t *baseTx) Validate() {
	if t.TxID == "" {
		t.TxID = uuid.NewString()
	}
	if t.Date.IsZero() {
		t.Date = Today()
	}
}

func (t baseTx) marshal(what TxType) *jsonObjectWriter {
	var w jsonObjectWriter
	w.Append("id", t.TxID)
	w.Append("type", what)
	w.Append("date", t.Date)
	w.Optional("description", t.Memo)
	return &w
}

// amountTx is a temporary type used to unmarshal the separate amount and
// currency fields back into a Money.
type amountTx struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (a amountTx) Money() Money { return M(a.Amount, a.Currency) }

// Cost represents money spent from an account, classified in the
// must/wants taxonomy.
type Cost struct {
	baseTx
	Account     string
	Amount      Money
	Category    CostCategory
	SubCategory string
	Detail      string
}

// NewCost creates a new Cost transaction.
func NewCost(day Date, memo, accountID string, amount Money, category CostCategory, subCategory, detail string) Cost {
	return Cost{
		baseTx:      baseTx{Date: day, Memo: memo},
		Account:     accountID,
		Amount:      amount,
		Category:    category,
		SubCategory: subCategory,
		Detail:      detail,
	}
}

func (t Cost) What() TxType { return CmdCost }

// Validate checks the cost fields and resolves the amount's currency from
// the account when missing.
func (t Cost) Validate(ledger *Ledger) (Transaction, error) {
	t.baseTx.Validate()
	if t.Account == "" {
		return nil, errors.New("cost transaction has no account")
	}
	acc, ok := ledger.Account(t.Account)
	if !ok {
		return nil, fmt.Errorf("cost transaction references unknown account %q", t.Account)
	}
	if !t.Amount.IsPositive() {
		return nil, fmt.Errorf("cost amount must be positive, got %s", t.Amount)
	}
	if t.Category != Must && t.Category != Wants {
		return nil, fmt.Errorf("cost category must be MUST or WANTS, got %q", t.Category)
	}
	if t.Amount.Currency() == "" {
		t.Amount = M(t.Amount.value, acc.Currency)
	}
	return t, nil
}

func (t Cost) MarshalJSON() ([]byte, error) {
	w := t.baseTx.marshal(CmdCost)
	w.Append("accountId", t.Account)
	w.EmbedFrom(t.Amount)
	w.Append("category", t.Category)
	w.Optional("subCategory", t.SubCategory)
	w.Optional("detail", t.Detail)
	return w.MarshalJSON()
}

func (t *Cost) UnmarshalJSON(data []byte) error {
	var temp struct {
		baseTx
		amountTx
		Account     string       `json:"accountId"`
		Category    CostCategory `json:"category"`
		SubCategory string       `json:"subCategory"`
		Detail      string       `json:"detail"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = Cost{
		baseTx:      temp.baseTx,
		Account:     temp.Account,
		Amount:      temp.Money(),
		Category:    temp.Category,
		SubCategory: temp.SubCategory,
		Detail:      temp.Detail,
	}
	return nil
}

func (t Cost) Equal(other Transaction) bool {
	o, ok := other.(Cost)
	return ok && t.baseTx == o.baseTx && t.Account == o.Account &&
		t.Amount.Equal(o.Amount) && t.Category == o.Category &&
		t.SubCategory == o.SubCategory && t.Detail == o.Detail
}

// Income represents money received into an account.
type Income struct {
	baseTx
	Account string
	Amount  Money
	Type    IncomeType
}

// NewIncome creates a new Income transaction.
func NewIncome(day Date, memo, accountID string, amount Money, incomeType IncomeType) Income {
	return Income{
		baseTx:  baseTx{Date: day, Memo: memo},
		Account: accountID,
		Amount:  amount,
		Type:    incomeType,
	}
}

func (t Income) What() TxType { return CmdIncome }

// Validate checks the income fields, defaulting the income type to Extra.
func (t Income) Validate(ledger *Ledger) (Transaction, error) {
	t.baseTx.Validate()
	if t.Account == "" {
		return nil, errors.New("income transaction has no account")
	}
	acc, ok := ledger.Account(t.Account)
	if !ok {
		return nil, fmt.Errorf("income transaction references unknown account %q", t.Account)
	}
	if !t.Amount.IsPositive() {
		return nil, fmt.Errorf("income amount must be positive, got %s", t.Amount)
	}
	if t.Type == "" {
		t.Type = Extra
	}
	if t.Type != Work && t.Type != Extra {
		return nil, fmt.Errorf("income type must be Work or Extra, got %q", t.Type)
	}
	if t.Amount.Currency() == "" {
		t.Amount = M(t.Amount.value, acc.Currency)
	}
	return t, nil
}

func (t Income) MarshalJSON() ([]byte, error) {
	w := t.baseTx.marshal(CmdIncome)
	w.Append("accountId", t.Account)
	w.EmbedFrom(t.Amount)
	w.Append("incomeType", t.Type)
	return w.MarshalJSON()
}

func (t *Income) UnmarshalJSON(data []byte) error {
	var temp struct {
		baseTx
		amountTx
		Account string     `json:"accountId"`
		Type    IncomeType `json:"incomeType"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = Income{
		baseTx:  temp.baseTx,
		Account: temp.Account,
		Amount:  temp.Money(),
		Type:    temp.Type,
	}
	return nil
}

func (t Income) Equal(other Transaction) bool {
	o, ok := other.(Income)
	return ok && t.baseTx == o.baseTx && t.Account == o.Account &&
		t.Amount.Equal(o.Amount) && t.Type == o.Type
}

// Transfer represents money moved between two accounts. ToAmount is the
// amount credited to the destination, captured once at transfer time so the
// record is immune to later rate changes.
type Transfer struct {
	baseTx
	From     string
	To       string
	Amount   Money
	ToAmount Money
}

// NewTransfer creates a new Transfer transaction. toAmount is the
// destination-currency amount computed by the caller at transfer time.
func NewTransfer(day Date, memo, fromID, toID string, amount, toAmount Money) Transfer {
	return Transfer{
		baseTx:   baseTx{Date: day, Memo: memo},
		From:     fromID,
		To:       toID,
		Amount:   amount,
		ToAmount: toAmount,
	}
}

func (t Transfer) What() TxType { return CmdTransfer }

// Validate checks the transfer fields. Source and destination must be
// distinct existing accounts.
func (t Transfer) Validate(ledger *Ledger) (Transaction, error) {
	t.baseTx.Validate()
	if t.From == "" || t.To == "" {
		return nil, errors.New("transfer needs both a source and a destination account")
	}
	if t.From == t.To {
		return nil, errors.New("transfer source and destination accounts must differ")
	}
	from, ok := ledger.Account(t.From)
	if !ok {
		return nil, fmt.Errorf("transfer references unknown source account %q", t.From)
	}
	to, ok := ledger.Account(t.To)
	if !ok {
		return nil, fmt.Errorf("transfer references unknown destination account %q", t.To)
	}
	if !t.Amount.IsPositive() {
		return nil, fmt.Errorf("transfer amount must be positive, got %s", t.Amount)
	}
	if t.Amount.Currency() == "" {
		t.Amount = M(t.Amount.value, from.Currency)
	}
	if t.ToAmount.IsZero() {
		return nil, errors.New("transfer destination amount is missing")
	}
	if t.ToAmount.Currency() == "" {
		t.ToAmount = M(t.ToAmount.value, to.Currency)
	}
	return t, nil
}

func (t Transfer) MarshalJSON() ([]byte, error) {
	w := t.baseTx.marshal(CmdTransfer)
	w.Append("fromAccountId", t.From)
	w.Append("toAccountId", t.To)
	w.EmbedFrom(t.Amount)
	w.Append("toAmount", t.ToAmount.value)
	w.Optional("toCurrency", t.ToAmount.Currency())
	return w.MarshalJSON()
}

func (t *Transfer) UnmarshalJSON(data []byte) error {
	var temp struct {
		baseTx
		amountTx
		From       string          `json:"fromAccountId"`
		To         string          `json:"toAccountId"`
		ToAmount   decimal.Decimal `json:"toAmount"`
		ToCurrency string          `json:"toCurrency"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = Transfer{
		baseTx:   temp.baseTx,
		From:     temp.From,
		To:       temp.To,
		Amount:   temp.Money(),
		ToAmount: M(temp.ToAmount, temp.ToCurrency),
	}
	return nil
}

func (t Transfer) Equal(other Transaction) bool {
	o, ok := other.(Transfer)
	return ok && t.baseTx == o.baseTx && t.From == o.From && t.To == o.To &&
		t.Amount.Equal(o.Amount) && t.ToAmount.Equal(o.ToAmount)
}
