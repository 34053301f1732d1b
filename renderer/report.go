package renderer

import (
	"sort"

	"github.com/etnz/tracker"
)

// Report renders a full monthly report: summary, income and expense detail,
// and investment performance.
func Report(ledger *tracker.Ledger, r tracker.ReportData) string {
	var b builder
	b.Printf("# Monthly Report %s\n\n", r.ID)

	b.Printf("## Summary\n\n")
	b.Printf("| | |\n")
	b.Printf("|:---|---:|\n")
	b.Printf("| Total income | %s |\n", r.TotalIncome)
	b.Printf("| Total spending | %s |\n", r.TotalSpending)
	b.Printf("| Net savings | %s |\n", r.NetSavings)
	b.Printf("| Net investments | %s |\n", r.NetInvestments)
	b.Printf("| Cash flow | %s |\n", r.CashFlow)
	b.Printf("| End of month cash | %s |\n", r.EndOfMonthCash)
	b.Printf("| Savings rate | %s |\n", r.SavingsRate)
	b.Printf("| Investment rate | %s |\n", r.InvestmentRate)

	b.Printf("\n## Income\n\n")
	b.Printf("| Source | Amount |\n")
	b.Printf("|:---|---:|\n")
	b.Printf("| Work | %s |\n", r.WorkIncome)
	for _, tx := range r.Dividends {
		ticker := tx.Holding
		if h, ok := ledger.Holding(tx.Holding); ok {
			ticker = h.Ticker
		}
		b.Printf("| Dividend (%s) | %s |\n", ticker, tx.TotalAmount)
	}
	for _, tx := range r.ExtraIncome {
		b.Printf("| Extra (%s) | %s |\n", tx.Memo, tx.Amount)
	}

	b.Printf("\n## Expenses\n\n")
	b.Printf("Musts: %s, Wants: %s\n\n", r.MustSpending, r.WantsSpending)
	names := make([]string, 0, len(r.BySubCategory))
	for name := range r.BySubCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	b.Printf("| Category | Group | Total |\n")
	b.Printf("|:---|:---|---:|\n")
	for _, name := range names {
		sub := r.BySubCategory[name]
		b.Printf("| %s | %s | %s |\n", name, sub.Category, sub.Total)
	}

	b.Printf("\n## Investments\n\n")
	b.Printf("| | |\n")
	b.Printf("|:---|---:|\n")
	b.Printf("| Start value | %s |\n", r.StartValue)
	b.Printf("| End value | %s |\n", r.EndValue)
	b.Printf("| Net inflows | %s |\n", r.NetInflows)
	b.Printf("| Performance | %s |\n", r.PerfTotal.SignedString())
	b.Printf("| Stocks | %s (%s) |\n", r.EndStocks, r.PerfStocks.SignedString())
	b.Printf("| ETFs | %s (%s) |\n", r.EndEtfs, r.PerfEtfs.SignedString())
	b.Printf("| Crypto | %s (%s) |\n", r.EndCrypto, r.PerfCrypto.SignedString())
	return b.String()
}
