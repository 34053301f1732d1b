package tracker

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType classifies an account.
type AccountType string

const (
	Bank      AccountType = "Bank"
	Brokerage AccountType = "Brokerage"
	CashBox   AccountType = "Cash"
	Wallet    AccountType = "Crypto"
)

// AccountTypes lists the valid account types.
var AccountTypes = []AccountType{Bank, Brokerage, CashBox, Wallet}

// Account is a container of cash in a single currency. Its balance is never
// stored, only derived from the initial balance and the ledger.
type Account struct {
	ID             string
	Name           string
	Type           AccountType
	InitialBalance Money
	Currency       string
}

// NewAccount creates an account with a fresh id. The initial balance is
// denominated in the account's currency.
func NewAccount(name string, typ AccountType, initialBalance float64, currency string) Account {
	return Account{
		ID:             uuid.NewString(),
		Name:           name,
		Type:           typ,
		InitialBalance: M(initialBalance, currency),
		Currency:       currency,
	}
}

// Validate checks the account fields before it enters the ledger.
func (a Account) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("account %q has no id", a.Name)
	}
	if a.Name == "" {
		return fmt.Errorf("account %s has no name", a.ID)
	}
	switch a.Type {
	case Bank, Brokerage, CashBox, Wallet:
	default:
		return fmt.Errorf("account %q has invalid type %q", a.Name, a.Type)
	}
	if a.Currency != EUR && a.Currency != USD {
		return fmt.Errorf("account %q has unsupported currency %q", a.Name, a.Currency)
	}
	return nil
}

func (a Account) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", a.ID)
	w.Append("name", a.Name)
	w.Append("type", a.Type)
	w.Append("initialBalance", a.InitialBalance.value)
	w.Append("currency", a.Currency)
	return w.MarshalJSON()
}

func (a *Account) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID             string          `json:"id"`
		Name           string          `json:"name"`
		Type           AccountType     `json:"type"`
		InitialBalance decimal.Decimal `json:"initialBalance"`
		Currency       string          `json:"currency"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*a = Account{
		ID:             raw.ID,
		Name:           raw.Name,
		Type:           raw.Type,
		InitialBalance: M(raw.InitialBalance, raw.Currency),
		Currency:       raw.Currency,
	}
	return nil
}
