package tracker

import (
	"fmt"
	"io"
	"strings"
)

// this file contains the spreadsheet export formats.
// Reports export in a semicolon separated format with decimal commas, the
// dialect European spreadsheet tools expect. Transactions export as plain
// comma separated values.

func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func csvNumber(v float64) string {
	return strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
}

// ExportReportCSV writes a monthly report in the Section;Item;Value format.
func ExportReportCSV(w io.Writer, ledger *Ledger, r ReportData) error {
	var b strings.Builder
	row := func(section, item string, value float64) {
		fmt.Fprintf(&b, "%s;%s;%s\n", csvQuote(section), csvQuote(item), csvNumber(value))
	}

	b.WriteString("Section;Item;Value\n")

	row("Summary", "Total Income", r.TotalIncome.AsFloat())
	row("Summary", "Total Expenses", r.TotalSpending.AsFloat())
	row("Summary", "Net Savings", r.NetSavings.AsFloat())
	row("Summary", "Cash Flow", r.CashFlow.AsFloat())
	row("Summary", "End of Month Cash", r.EndOfMonthCash.AsFloat())
	row("Summary", "End of Month Investments", r.EndValue.AsFloat())
	row("Summary", "Savings Rate (%)", float64(r.SavingsRate))
	row("Summary", "Investment Rate (%)", float64(r.InvestmentRate))
	b.WriteString("\n")

	row("Income", "Work Income", r.WorkIncome.AsFloat())
	for _, tx := range r.Dividends {
		ticker := ""
		if h, ok := ledger.Holding(tx.Holding); ok {
			ticker = h.Ticker
		}
		row("Income", fmt.Sprintf("Dividend (%s)", ticker), tx.TotalAmount.AsFloat())
	}
	for _, tx := range r.ExtraIncome {
		row("Income", fmt.Sprintf("Extra (%s)", tx.Memo), tx.Amount.AsFloat())
	}
	b.WriteString("\n")

	row("Expenses", "Musts", r.MustSpending.AsFloat())
	row("Expenses", "Wants", r.WantsSpending.AsFloat())
	b.WriteString("\n")
	for _, name := range sortedKeys(r.BySubCategory) {
		row("Expense Category", name, r.BySubCategory[name].Total.AsFloat())
	}
	b.WriteString("\n")

	row("Investments", "Start Value", r.StartValue.AsFloat())
	row("Investments", "End Value", r.EndValue.AsFloat())
	row("Investments", "Net Inflows", r.NetInflows.AsFloat())
	row("Investments", "Total Performance (%)", float64(r.PerfTotal))
	row("Investments", "Stocks Performance (%)", float64(r.PerfStocks))
	row("Investments", "ETFs Performance (%)", float64(r.PerfEtfs))
	row("Investments", "Crypto Performance (%)", float64(r.PerfCrypto))

	_, err := io.WriteString(w, b.String())
	return err
}

// ExportTransactionsCSV writes every cash and investment transaction of a
// month as comma separated values, spending and buys negated so the column
// sums to the month's net cash movement.
func ExportTransactionsCSV(w io.Writer, ledger *Ledger, month Date) error {
	var b strings.Builder
	b.WriteString("Date,Description,Amount,Currency,Account Name,Details\n")

	accountName := func(id string) string {
		if a, ok := ledger.Account(id); ok {
			return a.Name
		}
		return ""
	}
	row := func(day Date, description string, amount Money, account, details string) {
		fmt.Fprintf(&b, "%s,%s,%.2f,%s,%s,%s\n",
			day, csvQuote(description), amount.AsFloat(), amount.Currency(),
			csvQuote(account), csvQuote(details))
	}

	for tx := range ledger.Transactions(TxInMonth(month)) {
		switch t := tx.(type) {
		case Cost:
			row(t.Date, t.Memo, t.Amount.Neg(), accountName(t.Account),
				fmt.Sprintf("%s > %s > %s", t.Category, t.SubCategory, t.Detail))
		case Income:
			row(t.Date, t.Memo, t.Amount, accountName(t.Account), string(t.Type))
		case Transfer:
			row(t.Date, t.Memo, t.Amount.Neg(), accountName(t.From), "Transfer to "+accountName(t.To))
			row(t.Date, t.Memo, t.ToAmount, accountName(t.To), "Transfer from "+accountName(t.From))
		}
	}

	for tx := range ledger.Investments(InvInMonth(month)) {
		ticker := ""
		if h, ok := ledger.Holding(tx.Holding); ok {
			ticker = h.Ticker
		}
		switch tx.Type {
		case CmdBuy:
			row(tx.Date, "Buy "+ticker, tx.TotalAmount.Neg(), accountName(tx.Account),
				fmt.Sprintf("%s x %s", tx.Quantity, tx.PricePerUnit))
		case CmdSell:
			row(tx.Date, "Sell "+ticker, tx.TotalAmount, accountName(tx.Account),
				fmt.Sprintf("%s x %s", tx.Quantity, tx.PricePerUnit))
		case CmdDividend:
			row(tx.Date, "Dividend "+ticker, tx.TotalAmount, accountName(tx.Account), "Dividend")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
