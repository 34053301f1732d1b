package tracker

import (
	"fmt"
	"iter"
	"slices"
	"sort"
)

// Ledger is the append-only source of truth: accounts, cash transactions,
// holdings and investment transactions. All balances, valuations, summaries
// and reports are derived from it, never stored in it.
type Ledger struct {
	accounts     []Account
	transactions []Transaction
	holdings     []Holding
	investments  []InvestmentTx
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger { return &Ledger{} }

// Accounts

// AddAccount validates and records a new account.
func (l *Ledger) AddAccount(a Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if _, ok := l.Account(a.ID); ok {
		return fmt.Errorf("account id %q already exists", a.ID)
	}
	l.accounts = append(l.accounts, a)
	return nil
}

// UpdateAccount replaces an existing account in place.
func (l *Ledger) UpdateAccount(a Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	for i := range l.accounts {
		if l.accounts[i].ID == a.ID {
			l.accounts[i] = a
			return nil
		}
	}
	return fmt.Errorf("account id %q not found", a.ID)
}

// DeleteAccount removes an account. Transactions referencing it are left in
// place, aggregation tolerates the dangling reference.
func (l *Ledger) DeleteAccount(id string) {
	l.accounts = slices.DeleteFunc(l.accounts, func(a Account) bool { return a.ID == id })
}

// Account returns the account with the given id.
func (l *Ledger) Account(id string) (Account, bool) {
	for _, a := range l.accounts {
		if a.ID == id {
			return a, true
		}
	}
	return Account{}, false
}

// AccountByName returns the account with the given name.
func (l *Ledger) AccountByName(name string) (Account, bool) {
	for _, a := range l.accounts {
		if a.Name == name {
			return a, true
		}
	}
	return Account{}, false
}

// Accounts iterates over all accounts in creation order.
func (l *Ledger) Accounts() iter.Seq[Account] {
	return func(yield func(Account) bool) {
		for _, a := range l.accounts {
			if !yield(a) {
				return
			}
		}
	}
}

// Cash transactions

// Append validates the given transactions and adds them to the ledger,
// keeping it sorted by date. Either all of them apply or none.
func (l *Ledger) Append(txs ...Transaction) error {
	validated := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		v, err := tx.Validate(l)
		if err != nil {
			return err
		}
		validated = append(validated, v)
	}
	l.transactions = append(l.transactions, validated...)
	l.stableSort()
	return nil
}

// TxFilter is a predicate over cash transactions.
type TxFilter func(Transaction) bool

// TxInMonth keeps transactions dated within the given month.
func TxInMonth(month Date) TxFilter {
	start, end := month.StartOfMonth(), month.EndOfMonth()
	return func(t Transaction) bool {
		return !t.When().Before(start) && !t.When().After(end)
	}
}

// TxOnOrBefore keeps transactions dated on or before the given day.
func TxOnOrBefore(day Date) TxFilter {
	return func(t Transaction) bool { return !t.When().After(day) }
}

// Transactions iterates over cash transactions matching all filters,
// in date order.
func (l *Ledger) Transactions(filters ...TxFilter) iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
	next:
		for _, t := range l.transactions {
			for _, keep := range filters {
				if !keep(t) {
					continue next
				}
			}
			if !yield(t) {
				return
			}
		}
	}
}

// MoveFunds appends a transfer between two accounts, capturing the
// destination amount at the current rate once and for all.
func (l *Ledger) MoveFunds(rates *Rates, day Date, memo, fromID, toID string, amount Money) (Transfer, error) {
	to, ok := l.Account(toID)
	if !ok {
		return Transfer{}, fmt.Errorf("transfer references unknown destination account %q", toID)
	}
	tr := NewTransfer(day, memo, fromID, toID, amount, rates.Convert(amount, to.Currency))
	v, err := tr.Validate(l)
	if err != nil {
		return Transfer{}, err
	}
	tr = v.(Transfer)
	l.transactions = append(l.transactions, tr)
	l.stableSort()
	return tr, nil
}

// Holdings

// AddHolding validates and records a new holding.
func (l *Ledger) AddHolding(h Holding) error {
	if err := h.Validate(); err != nil {
		return err
	}
	if _, ok := l.Holding(h.ID); ok {
		return fmt.Errorf("holding id %q already exists", h.ID)
	}
	l.holdings = append(l.holdings, h)
	return nil
}

// UpdateHolding replaces an existing holding in place.
func (l *Ledger) UpdateHolding(h Holding) error {
	if err := h.Validate(); err != nil {
		return err
	}
	for i := range l.holdings {
		if l.holdings[i].ID == h.ID {
			l.holdings[i] = h
			return nil
		}
	}
	return fmt.Errorf("holding id %q not found", h.ID)
}

// Holding returns the holding with the given id.
func (l *Ledger) Holding(id string) (Holding, bool) {
	for _, h := range l.holdings {
		if h.ID == id {
			return h, true
		}
	}
	return Holding{}, false
}

// HoldingByTicker returns the holding with the given ticker.
func (l *Ledger) HoldingByTicker(ticker string) (Holding, bool) {
	for _, h := range l.holdings {
		if h.Ticker == ticker {
			return h, true
		}
	}
	return Holding{}, false
}

// Holdings iterates over all holdings in creation order.
func (l *Ledger) Holdings() iter.Seq[Holding] {
	return func(yield func(Holding) bool) {
		for _, h := range l.holdings {
			if !yield(h) {
				return
			}
		}
	}
}

// Investment transactions

// AppendInvestment validates the given investment transactions and adds them
// to the ledger, keeping it sorted by date. Either all of them apply or none.
func (l *Ledger) AppendInvestment(txs ...InvestmentTx) error {
	validated := make([]InvestmentTx, 0, len(txs))
	for _, tx := range txs {
		v, err := tx.Validate(l)
		if err != nil {
			return err
		}
		validated = append(validated, v)
	}
	l.investments = append(l.investments, validated...)
	l.stableSort()
	return nil
}

// InvFilter is a predicate over investment transactions.
type InvFilter func(InvestmentTx) bool

// InvInMonth keeps investment transactions dated within the given month.
func InvInMonth(month Date) InvFilter {
	start, end := month.StartOfMonth(), month.EndOfMonth()
	return func(t InvestmentTx) bool {
		return !t.Date.Before(start) && !t.Date.After(end)
	}
}

// InvOnOrBefore keeps investment transactions dated on or before the given day.
func InvOnOrBefore(day Date) InvFilter {
	return func(t InvestmentTx) bool { return !t.Date.After(day) }
}

// InvByHolding keeps investment transactions of one holding.
func InvByHolding(holdingID string) InvFilter {
	return func(t InvestmentTx) bool { return t.Holding == holdingID }
}

// InvByAccount keeps investment transactions settled on one account.
func InvByAccount(accountID string) InvFilter {
	return func(t InvestmentTx) bool { return t.Account == accountID }
}

// Investments iterates over investment transactions matching all filters,
// in date order.
func (l *Ledger) Investments(filters ...InvFilter) iter.Seq[InvestmentTx] {
	return func(yield func(InvestmentTx) bool) {
	next:
		for _, t := range l.investments {
			for _, keep := range filters {
				if !keep(t) {
					continue next
				}
			}
			if !yield(t) {
				return
			}
		}
	}
}

// stableSort orders both transaction logs by date, preserving insertion
// order within a day.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].When().Before(l.transactions[j].When())
	})
	sort.SliceStable(l.investments, func(i, j int) bool {
		return l.investments[i].Date.Before(l.investments[j].Date)
	})
}

// MonthsWithActivity returns the first day of every month that has at least
// one cash or investment transaction, in ascending order.
func (l *Ledger) MonthsWithActivity() []Date {
	seen := make(map[Date]bool)
	for _, t := range l.transactions {
		seen[t.When().StartOfMonth()] = true
	}
	for _, t := range l.investments {
		seen[t.Date.StartOfMonth()] = true
	}
	months := make([]Date, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months
}

// HasActivity reports whether the given month has any transaction.
func (l *Ledger) HasActivity(month Date) bool {
	for range l.Transactions(TxInMonth(month)) {
		return true
	}
	for range l.Investments(InvInMonth(month)) {
		return true
	}
	return false
}

// Replace swaps the entire ledger content at once. Used by the historical
// import, which is destructive by contract: no partial merge.
func (l *Ledger) Replace(accounts []Account, txs []Transaction, holdings []Holding, invTxs []InvestmentTx) {
	l.accounts = accounts
	l.transactions = txs
	l.holdings = holdings
	l.investments = invTxs
	l.stableSort()
}
