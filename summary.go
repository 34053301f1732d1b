package tracker

import (
	"encoding/json"
	"sort"
)

// MonthlySummary is the materialized cash position of a closed month.
// Summaries are generated once, lazily, and never recomputed: they freeze a
// month's figures at the rates of the day they were produced.
//
// The investment snapshot is only present on summaries built from an import
// with month-end statements; organically generated summaries carry cash
// figures only.
type MonthlySummary struct {
	ID    string
	Year  int
	Month int

	TotalIncome   Money
	TotalSpending Money
	MustSpending  Money
	WantsSpending Money
	NetSavings    Money

	EndOfMonthCash Money

	HasInvestments        bool
	EndOfMonthInvestments Money
	EndOfMonthInvStocks   Money
	EndOfMonthInvEtfs     Money
	EndOfMonthInvCrypto   Money
}

func (s MonthlySummary) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", s.ID)
	w.Append("year", s.Year)
	w.Append("month", s.Month)
	w.Append("totalIncome", s.TotalIncome.value)
	w.Append("totalSpending", s.TotalSpending.value)
	w.Append("mustSpending", s.MustSpending.value)
	w.Append("wantsSpending", s.WantsSpending.value)
	w.Append("netSavings", s.NetSavings.value)
	w.Append("endOfMonthCash", s.EndOfMonthCash.value)
	if s.HasInvestments {
		w.Append("endOfMonthInvestments", s.EndOfMonthInvestments.value)
		w.Append("endOfMonthInvestmentsStocks", s.EndOfMonthInvStocks.value)
		w.Append("endOfMonthInvestmentsEtfs", s.EndOfMonthInvEtfs.value)
		w.Append("endOfMonthInvestmentsCrypto", s.EndOfMonthInvCrypto.value)
	}
	return w.MarshalJSON()
}

func (s *MonthlySummary) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID             string   `json:"id"`
		Year           int      `json:"year"`
		Month          int      `json:"month"`
		TotalIncome    float64  `json:"totalIncome"`
		TotalSpending  float64  `json:"totalSpending"`
		MustSpending   float64  `json:"mustSpending"`
		WantsSpending  float64  `json:"wantsSpending"`
		NetSavings     float64  `json:"netSavings"`
		EndOfMonthCash float64  `json:"endOfMonthCash"`
		Investments    *float64 `json:"endOfMonthInvestments"`
		InvStocks      float64  `json:"endOfMonthInvestmentsStocks"`
		InvEtfs        float64  `json:"endOfMonthInvestmentsEtfs"`
		InvCrypto      float64  `json:"endOfMonthInvestmentsCrypto"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = MonthlySummary{
		ID:             raw.ID,
		Year:           raw.Year,
		Month:          raw.Month,
		TotalIncome:    M(raw.TotalIncome, EUR),
		TotalSpending:  M(raw.TotalSpending, EUR),
		MustSpending:   M(raw.MustSpending, EUR),
		WantsSpending:  M(raw.WantsSpending, EUR),
		NetSavings:     M(raw.NetSavings, EUR),
		EndOfMonthCash: M(raw.EndOfMonthCash, EUR),
	}
	if raw.Investments != nil {
		s.HasInvestments = true
		s.EndOfMonthInvestments = M(*raw.Investments, EUR)
		s.EndOfMonthInvStocks = M(raw.InvStocks, EUR)
		s.EndOfMonthInvEtfs = M(raw.InvEtfs, EUR)
		s.EndOfMonthInvCrypto = M(raw.InvCrypto, EUR)
	}
	return nil
}

// GenerateMonthlySummary computes the summary of a month from the ledger,
// converting every account's figures to euros at today's rate.
func GenerateMonthlySummary(ledger *Ledger, rates *Rates, month Date) MonthlySummary {
	s := MonthlySummary{
		ID:            month.MonthKey(),
		Year:          month.Year(),
		Month:         int(month.Month()),
		TotalIncome:   M(0, EUR),
		MustSpending:  M(0, EUR),
		WantsSpending: M(0, EUR),
	}

	for tx := range ledger.Transactions(TxInMonth(month)) {
		switch t := tx.(type) {
		case Cost:
			amount := rates.Convert(t.Amount, EUR)
			if t.Category == Must {
				s.MustSpending = s.MustSpending.Add(amount)
			} else {
				s.WantsSpending = s.WantsSpending.Add(amount)
			}
		case Income:
			s.TotalIncome = s.TotalIncome.Add(rates.Convert(t.Amount, EUR))
		}
	}

	s.TotalSpending = s.MustSpending.Add(s.WantsSpending)
	s.NetSavings = s.TotalIncome.Sub(s.TotalSpending)
	s.EndOfMonthCash = TotalCashInEUR(ledger, rates, month.EndOfMonth())
	return s
}

// SummaryByID finds a summary by its "YYYY-MM" id.
func SummaryByID(summaries []MonthlySummary, id string) (MonthlySummary, bool) {
	for _, s := range summaries {
		if s.ID == id {
			return s, true
		}
	}
	return MonthlySummary{}, false
}

// UpsertSummary inserts or replaces a summary by id and keeps the document
// sorted by id, which sorts chronologically for "YYYY-MM" keys.
func UpsertSummary(summaries []MonthlySummary, s MonthlySummary) []MonthlySummary {
	for i := range summaries {
		if summaries[i].ID == s.ID {
			summaries[i] = s
			return summaries
		}
	}
	summaries = append(summaries, s)
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries
}

// EnsureSummaries lazily materializes the summary of the previous month, if
// it closed with cash activity and has no summary yet. It returns the
// summaries and whether they changed.
func EnsureSummaries(ledger *Ledger, rates *Rates, summaries []MonthlySummary) ([]MonthlySummary, bool) {
	previous := Today().StartOfMonth().AddMonth(-1)
	if _, ok := SummaryByID(summaries, previous.MonthKey()); ok {
		return summaries, false
	}
	closed := false
	for range ledger.Transactions(TxInMonth(previous)) {
		closed = true
		break
	}
	if !closed {
		return summaries, false
	}
	s := GenerateMonthlySummary(ledger, rates, previous)
	log.Info().Str("month", s.ID).Msg("materialized monthly summary")
	return UpsertSummary(summaries, s), true
}
