package renderer

import (
	"github.com/etnz/tracker"
)

// Accounts renders the account list with current balances and the total cash
// position in euros.
func Accounts(ledger *tracker.Ledger, rates *tracker.Rates) string {
	var b builder
	b.Printf("# Accounts\n\n")
	b.Printf("| Name | Type | Currency | Balance |\n")
	b.Printf("|:---|:---|:---|---:|\n")
	for a := range ledger.Accounts() {
		b.Printf("| %s | %s | %s | %s |\n", a.Name, a.Type, a.Currency, tracker.Balance(ledger, rates, a.ID))
	}
	b.Printf("\n**Total cash**: %s\n", tracker.TotalCashInEUR(ledger, rates, tracker.Today()))
	return b.String()
}

// Balances renders the balance history of one account, one row per
// transaction touching it.
func Balances(ledger *tracker.Ledger, rates *tracker.Rates, a tracker.Account) string {
	var b builder
	b.Printf("# %s\n\n", a.Name)
	b.Printf("Initial balance: %s\n\n", a.InitialBalance)
	b.Printf("| Date | Description | Balance |\n")
	b.Printf("|:---|:---|---:|\n")
	for tx := range ledger.Transactions() {
		if !touches(tx, a.ID) {
			continue
		}
		b.Printf("| %s | %s | %s |\n", tx.When(), memo(tx), tracker.BalanceAsOf(ledger, rates, a.ID, tx.When()))
	}
	return b.String()
}

func touches(tx tracker.Transaction, accountID string) bool {
	switch t := tx.(type) {
	case tracker.Cost:
		return t.Account == accountID
	case tracker.Income:
		return t.Account == accountID
	case tracker.Transfer:
		return t.From == accountID || t.To == accountID
	}
	return false
}

func memo(tx tracker.Transaction) string {
	switch t := tx.(type) {
	case tracker.Cost:
		return t.Memo
	case tracker.Income:
		return t.Memo
	case tracker.Transfer:
		return t.Memo
	}
	return string(tx.What())
}
