package renderer

import (
	"github.com/etnz/tracker"
)

// Holdings renders the investment positions with their allocation and total
// return, both native and in euros.
func Holdings(summaries []tracker.HoldingSummary) string {
	var b builder
	b.Printf("# Portfolio\n\n")
	if len(summaries) == 0 {
		b.Printf("No holdings yet.\n")
		return b.String()
	}

	b.Printf("| Ticker | Type | Quantity | Price | Market Value | Return | Return (EUR) | Alloc |\n")
	b.Printf("|:---|:---|---:|---:|---:|---:|---:|---:|\n")
	total := tracker.M(0, tracker.EUR)
	for _, s := range summaries {
		h := s.Holding
		ticker := h.Ticker
		if h.NeedsReview {
			ticker += " (review)"
		}
		b.Printf("| %s | %s | %s | %s | %s | %s (%s) | %s (%s) | %s |\n",
			ticker, h.Type, s.Quantity, h.CurrentPrice, s.MarketValue,
			s.TotalReturn, s.ReturnPct.SignedString(),
			s.TotalReturnEUR, s.ReturnPctEUR.SignedString(),
			s.Allocation)
		total = total.Add(s.MarketValueEUR)
	}
	b.Printf("\n**Total market value**: %s\n", total)
	return b.String()
}

// HoldingDetail renders the full position history of one holding.
func HoldingDetail(ledger *tracker.Ledger, s tracker.HoldingSummary) string {
	var b builder
	h := s.Holding
	b.Printf("# %s (%s)\n\n", h.Name, h.Ticker)
	if h.ISIN != "" {
		b.Printf("ISIN: %s\n\n", h.ISIN)
	}
	b.Printf("| | Native | EUR |\n")
	b.Printf("|:---|---:|---:|\n")
	b.Printf("| Cost basis | %s | %s |\n", s.CostBasis, s.CostBasisEUR)
	b.Printf("| Proceeds | %s | %s |\n", s.Proceeds, s.ProceedsEUR)
	b.Printf("| Dividends | %s | %s |\n", s.Dividends, s.DividendsEUR)
	b.Printf("| Market value | %s | %s |\n", s.MarketValue, s.MarketValueEUR)
	b.Printf("| Total return | %s | %s |\n", s.TotalReturn, s.TotalReturnEUR)

	b.Printf("\n## Transactions\n\n")
	b.Printf("| Date | Type | Quantity | Price | Total |\n")
	b.Printf("|:---|:---|---:|---:|---:|\n")
	for tx := range ledger.Investments(tracker.InvByHolding(h.ID)) {
		b.Printf("| %s | %s | %s | %s | %s |\n", tx.Date, tx.Type, tx.Quantity, tx.PricePerUnit, tx.TotalAmount)
	}
	return b.String()
}
