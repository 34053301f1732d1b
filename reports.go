package tracker

import (
	"encoding/json"
	"sort"
)

// SubCategoryTotal aggregates a month's spending under one sub category.
type SubCategoryTotal struct {
	Total    Money
	Category CostCategory
}

// ReportData is the cached monthly report. Reports are generated once and
// persisted; regenerating a report over an unchanged ledger produces the
// exact same bytes, which is what makes the cache safe to keep.
//
// Cash figures convert each account's currency at today's rate. Portfolio
// values are taken on the last day of the previous month and the last day of
// the report month, and the performance between the two is a Modified Dietz
// approximation with net inflows weighted mid-month.
type ReportData struct {
	ID    string
	Year  int
	Month int

	TotalIncome    Money
	TotalSpending  Money
	NetSavings     Money
	NetInvestments Money
	SavingsRate    Percent
	InvestmentRate Percent
	CashFlow       Money
	EndOfMonthCash Money

	WorkIncome  Money
	ExtraIncome []Income
	Dividends   []InvestmentTx

	MustSpending  Money
	WantsSpending Money
	Expenses      []Cost
	BySubCategory map[string]SubCategoryTotal

	Buys  []InvestmentTx
	Sells []InvestmentTx

	StartValue Money
	EndValue   Money
	EndStocks  Money
	EndEtfs    Money
	EndCrypto  Money
	NetInflows Money

	PerfTotal  Percent
	PerfStocks Percent
	PerfEtfs   Percent
	PerfCrypto Percent
}

// GenerateReport computes the full report of a month from the ledger. The
// end of month cash comes from the matching materialized summary when one
// exists, so closed months keep the figure they closed with.
func GenerateReport(ledger *Ledger, rates *Rates, prices *Prices, summaries []MonthlySummary, month Date) ReportData {
	month = month.StartOfMonth()
	r := ReportData{
		ID:    month.MonthKey(),
		Year:  month.Year(),
		Month: int(month.Month()),

		WorkIncome:    M(0, EUR),
		ExtraIncome:   []Income{},
		Dividends:     []InvestmentTx{},
		MustSpending:  M(0, EUR),
		WantsSpending: M(0, EUR),
		Expenses:      []Cost{},
		BySubCategory: map[string]SubCategoryTotal{},
		Buys:          []InvestmentTx{},
		Sells:         []InvestmentTx{},
	}

	extraIncome := M(0, EUR)
	for tx := range ledger.Transactions(TxInMonth(month)) {
		switch t := tx.(type) {
		case Income:
			amount := rates.Convert(t.Amount, EUR)
			if t.Type == Work {
				r.WorkIncome = r.WorkIncome.Add(amount)
			} else {
				extraIncome = extraIncome.Add(amount)
				r.ExtraIncome = append(r.ExtraIncome, t)
			}
		case Cost:
			amount := rates.Convert(t.Amount, EUR)
			if t.Category == Must {
				r.MustSpending = r.MustSpending.Add(amount)
			} else {
				r.WantsSpending = r.WantsSpending.Add(amount)
			}
			r.Expenses = append(r.Expenses, t)

			sub, ok := r.BySubCategory[t.SubCategory]
			if !ok {
				sub = SubCategoryTotal{Total: M(0, EUR), Category: t.Category}
			}
			sub.Total = sub.Total.Add(amount)
			r.BySubCategory[t.SubCategory] = sub
		}
	}

	dividends := M(0, EUR)
	buys := M(0, EUR)
	sells := M(0, EUR)
	for tx := range ledger.Investments(InvInMonth(month)) {
		amount := rates.Convert(tx.TotalAmount, EUR)
		switch tx.Type {
		case CmdDividend:
			dividends = dividends.Add(amount)
			r.Dividends = append(r.Dividends, tx)
		case CmdBuy:
			buys = buys.Add(amount)
			r.Buys = append(r.Buys, tx)
		case CmdSell:
			sells = sells.Add(amount)
			r.Sells = append(r.Sells, tx)
		}
	}

	r.TotalIncome = r.WorkIncome.Add(extraIncome).Add(dividends)
	r.TotalSpending = r.MustSpending.Add(r.WantsSpending)
	r.NetSavings = r.TotalIncome.Sub(r.TotalSpending)
	r.NetInvestments = buys.Sub(sells)
	r.CashFlow = r.TotalIncome.Sub(r.TotalSpending).Sub(r.NetInvestments)
	if r.TotalIncome.IsPositive() {
		r.SavingsRate = Percent(r.NetSavings.AsFloat() / r.TotalIncome.AsFloat() * 100)
		r.InvestmentRate = Percent(r.NetInvestments.AsFloat() / r.TotalIncome.AsFloat() * 100)
	}

	if s, ok := SummaryByID(summaries, r.ID); ok {
		r.EndOfMonthCash = s.EndOfMonthCash
	} else {
		r.EndOfMonthCash = M(0, EUR)
	}

	// portfolio window, last day of the previous month to last day of this one
	start := month.Add(-1)
	end := month.EndOfMonth()

	r.StartValue = ValueAsOf(ledger, rates, prices, start)
	r.EndValue = ValueAsOf(ledger, rates, prices, end)
	r.EndStocks = ValueAsOf(ledger, rates, prices, end, Stock)
	r.EndEtfs = ValueAsOf(ledger, rates, prices, end, ETF)
	r.EndCrypto = ValueAsOf(ledger, rates, prices, end, Crypto)
	r.NetInflows = NetInflows(ledger, rates, start, end)

	r.PerfTotal = ModifiedDietz(r.StartValue, r.EndValue, r.NetInflows)
	r.PerfStocks = ModifiedDietz(
		ValueAsOf(ledger, rates, prices, start, Stock),
		r.EndStocks,
		NetInflows(ledger, rates, start, end, Stock))
	r.PerfEtfs = ModifiedDietz(
		ValueAsOf(ledger, rates, prices, start, ETF),
		r.EndEtfs,
		NetInflows(ledger, rates, start, end, ETF))
	r.PerfCrypto = ModifiedDietz(
		ValueAsOf(ledger, rates, prices, start, Crypto),
		r.EndCrypto,
		NetInflows(ledger, rates, start, end, Crypto))

	return r
}

// ReportByID finds a cached report by its "YYYY-MM" id.
func ReportByID(reports []ReportData, id string) (ReportData, bool) {
	for _, r := range reports {
		if r.ID == id {
			return r, true
		}
	}
	return ReportData{}, false
}

// UpsertReport inserts or replaces a report by id, keeping the document
// sorted by id.
func UpsertReport(reports []ReportData, r ReportData) []ReportData {
	for i := range reports {
		if reports[i].ID == r.ID {
			reports[i] = r
			return reports
		}
	}
	reports = append(reports, r)
	sort.Slice(reports, func(i, j int) bool { return reports[i].ID < reports[j].ID })
	return reports
}

func (r ReportData) MarshalJSON() ([]byte, error) {
	var summary jsonObjectWriter
	summary.Append("totalIncome", r.TotalIncome.value)
	summary.Append("totalSpending", r.TotalSpending.value)
	summary.Append("netSavings", r.NetSavings.value)
	summary.Append("netInvestments", r.NetInvestments.value)
	summary.Append("savingsRate", r.SavingsRate)
	summary.Append("investmentRate", r.InvestmentRate)
	summary.Append("cashFlow", r.CashFlow.value)
	summary.Append("endOfMonthCash", r.EndOfMonthCash.value)
	summary.Append("endOfMonthInvestments", r.EndValue.value)
	summary.Append("endOfMonthInvestmentsStocks", r.EndStocks.value)
	summary.Append("endOfMonthInvestmentsEtfs", r.EndEtfs.value)
	summary.Append("endOfMonthInvestmentsCrypto", r.EndCrypto.value)

	var income jsonObjectWriter
	income.Append("workIncome", r.WorkIncome.value)
	income.Append("extraIncome", r.ExtraIncome)
	income.Append("dividends", r.Dividends)

	var bySub jsonObjectWriter
	keys := make([]string, 0, len(r.BySubCategory))
	for k := range r.BySubCategory {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		var entry jsonObjectWriter
		entry.Append("total", r.BySubCategory[k].Total.value)
		entry.Append("category", r.BySubCategory[k].Category)
		bySub.Append(k, &entry)
	}

	var expenses jsonObjectWriter
	expenses.Append("mustSpending", r.MustSpending.value)
	expenses.Append("wantsSpending", r.WantsSpending.value)
	expenses.Append("transactions", r.Expenses)
	expenses.Append("bySubCategory", &bySub)

	var perf jsonObjectWriter
	perf.Append("total", r.PerfTotal)
	perf.Append("stocks", r.PerfStocks)
	perf.Append("etfs", r.PerfEtfs)
	perf.Append("crypto", r.PerfCrypto)

	var investments jsonObjectWriter
	investments.Append("buys", r.Buys)
	investments.Append("sells", r.Sells)
	investments.Append("performance", &perf)
	investments.Append("startValue", r.StartValue.value)
	investments.Append("endValue", r.EndValue.value)
	investments.Append("netInflows", r.NetInflows.value)

	var w jsonObjectWriter
	w.Append("id", r.ID)
	w.Append("year", r.Year)
	w.Append("month", r.Month)
	w.Append("summary", &summary)
	w.Append("incomeDetails", &income)
	w.Append("expenseDetails", &expenses)
	w.Append("investmentDetails", &investments)
	return w.MarshalJSON()
}

func (r *ReportData) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID      string `json:"id"`
		Year    int    `json:"year"`
		Month   int    `json:"month"`
		Summary struct {
			TotalIncome    float64 `json:"totalIncome"`
			TotalSpending  float64 `json:"totalSpending"`
			NetSavings     float64 `json:"netSavings"`
			NetInvestments float64 `json:"netInvestments"`
			SavingsRate    Percent `json:"savingsRate"`
			InvestmentRate Percent `json:"investmentRate"`
			CashFlow       float64 `json:"cashFlow"`
			EndOfMonthCash float64 `json:"endOfMonthCash"`
			Investments    float64 `json:"endOfMonthInvestments"`
			InvStocks      float64 `json:"endOfMonthInvestmentsStocks"`
			InvEtfs        float64 `json:"endOfMonthInvestmentsEtfs"`
			InvCrypto      float64 `json:"endOfMonthInvestmentsCrypto"`
		} `json:"summary"`
		Income struct {
			WorkIncome  float64        `json:"workIncome"`
			ExtraIncome []Income       `json:"extraIncome"`
			Dividends   []InvestmentTx `json:"dividends"`
		} `json:"incomeDetails"`
		Expenses struct {
			MustSpending  float64 `json:"mustSpending"`
			WantsSpending float64 `json:"wantsSpending"`
			Transactions  []Cost  `json:"transactions"`
			BySubCategory map[string]struct {
				Total    float64      `json:"total"`
				Category CostCategory `json:"category"`
			} `json:"bySubCategory"`
		} `json:"expenseDetails"`
		Investments struct {
			Buys        []InvestmentTx `json:"buys"`
			Sells       []InvestmentTx `json:"sells"`
			Performance struct {
				Total  Percent `json:"total"`
				Stocks Percent `json:"stocks"`
				Etfs   Percent `json:"etfs"`
				Crypto Percent `json:"crypto"`
			} `json:"performance"`
			StartValue float64 `json:"startValue"`
			EndValue   float64 `json:"endValue"`
			NetInflows float64 `json:"netInflows"`
		} `json:"investmentDetails"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	bySub := make(map[string]SubCategoryTotal, len(raw.Expenses.BySubCategory))
	for k, v := range raw.Expenses.BySubCategory {
		bySub[k] = SubCategoryTotal{Total: M(v.Total, EUR), Category: v.Category}
	}

	*r = ReportData{
		ID:    raw.ID,
		Year:  raw.Year,
		Month: raw.Month,

		TotalIncome:    M(raw.Summary.TotalIncome, EUR),
		TotalSpending:  M(raw.Summary.TotalSpending, EUR),
		NetSavings:     M(raw.Summary.NetSavings, EUR),
		NetInvestments: M(raw.Summary.NetInvestments, EUR),
		SavingsRate:    raw.Summary.SavingsRate,
		InvestmentRate: raw.Summary.InvestmentRate,
		CashFlow:       M(raw.Summary.CashFlow, EUR),
		EndOfMonthCash: M(raw.Summary.EndOfMonthCash, EUR),

		WorkIncome:  M(raw.Income.WorkIncome, EUR),
		ExtraIncome: raw.Income.ExtraIncome,
		Dividends:   raw.Income.Dividends,

		MustSpending:  M(raw.Expenses.MustSpending, EUR),
		WantsSpending: M(raw.Expenses.WantsSpending, EUR),
		Expenses:      raw.Expenses.Transactions,
		BySubCategory: bySub,

		Buys:  raw.Investments.Buys,
		Sells: raw.Investments.Sells,

		StartValue: M(raw.Investments.StartValue, EUR),
		EndValue:   M(raw.Investments.EndValue, EUR),
		EndStocks:  M(raw.Summary.InvStocks, EUR),
		EndEtfs:    M(raw.Summary.InvEtfs, EUR),
		EndCrypto:  M(raw.Summary.InvCrypto, EUR),
		NetInflows: M(raw.Investments.NetInflows, EUR),

		PerfTotal:  raw.Investments.Performance.Total,
		PerfStocks: raw.Investments.Performance.Stocks,
		PerfEtfs:   raw.Investments.Performance.Etfs,
		PerfCrypto: raw.Investments.Performance.Crypto,
	}
	return nil
}
