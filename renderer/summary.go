package renderer

import (
	"github.com/etnz/tracker"
)

// Summaries renders the materialized monthly summaries, oldest first.
func Summaries(sums []tracker.MonthlySummary) string {
	var b builder
	b.Printf("# Monthly Summaries\n\n")
	if len(sums) == 0 {
		b.Printf("No summaries yet.\n")
		return b.String()
	}
	b.Printf("| Month | Income | Spending | Must | Wants | Savings | Cash | Investments |\n")
	b.Printf("|:---|---:|---:|---:|---:|---:|---:|---:|\n")
	for _, s := range sums {
		investments := "-"
		if s.HasInvestments {
			investments = s.EndOfMonthInvestments.String()
		}
		b.Printf("| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			s.ID, s.TotalIncome, s.TotalSpending, s.MustSpending, s.WantsSpending,
			s.NetSavings, s.EndOfMonthCash, investments)
	}
	return b.String()
}

// Budget renders the budget rule and the monthly amounts it allows.
func Budget(budget tracker.Budget) string {
	var b builder
	b.Printf("# Budget\n\n")
	b.Printf("Monthly income: %s\n\n", budget.MonthlyIncome)
	b.Printf("| Share | Percent | Amount |\n")
	b.Printf("|:---|---:|---:|\n")
	b.Printf("| Musts | %s | %s |\n", budget.MustPct, budget.MustAmount())
	b.Printf("| Wants | %s | %s |\n", budget.WantsPct, budget.WantsAmount())
	b.Printf("| Savings | %s | %s |\n", budget.SavingsPct, budget.SavingsAmount())
	return b.String()
}
