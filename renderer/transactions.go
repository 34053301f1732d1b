package renderer

import (
	"github.com/etnz/tracker"
)

// Transactions renders the cash transactions of a month, most fields as the
// ledger records them.
func Transactions(ledger *tracker.Ledger, month tracker.Date) string {
	var b builder
	b.Printf("# Transactions %04d-%02d\n\n", month.Year(), int(month.Month()))
	b.Printf("| Date | Description | Amount | Details |\n")
	b.Printf("|:---|:---|---:|:---|\n")
	n := 0
	for tx := range ledger.Transactions(tracker.TxInMonth(month)) {
		n++
		switch t := tx.(type) {
		case tracker.Cost:
			b.Printf("| %s | %s | -%s | %s > %s |\n", t.Date, t.Memo, t.Amount, t.Category, t.SubCategory)
		case tracker.Income:
			b.Printf("| %s | %s | +%s | %s |\n", t.Date, t.Memo, t.Amount, t.Type)
		case tracker.Transfer:
			b.Printf("| %s | %s | %s | %s -> %s |\n", t.Date, t.Memo, t.Amount, accountName(ledger, t.From), accountName(ledger, t.To))
		}
	}
	for tx := range ledger.Investments(tracker.InvInMonth(month)) {
		n++
		ticker := ""
		if h, ok := ledger.Holding(tx.Holding); ok {
			ticker = h.Ticker
		}
		b.Printf("| %s | %s %s | %s | %s |\n", tx.Date, tx.Type, ticker, tx.TotalAmount, accountName(ledger, tx.Account))
	}
	if n == 0 {
		return "No transactions this month.\n"
	}
	return b.String()
}

func accountName(ledger *tracker.Ledger, id string) string {
	if a, ok := ledger.Account(id); ok {
		return a.Name
	}
	return id
}
