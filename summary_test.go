package tracker

import (
	"encoding/json"
	"testing"
	"time"
)

func marchLedger(t *testing.T) *Ledger {
	t.Helper()
	l := testLedger()
	if err := l.Append(
		NewIncome(NewDate(2025, time.March, 5), "salary", "bank", M(3000, EUR), Work),
		NewCost(NewDate(2025, time.March, 10), "rent", "bank", M(800, EUR), Must, "HOME", "RENT"),
		NewCost(NewDate(2025, time.March, 20), "cinema", "bank", M(200, EUR), Wants, "FUN", "CINEMA"),
	); err != nil {
		t.Fatal(err)
	}
	return l
}

func TestGenerateMonthlySummary(t *testing.T) {
	l := marchLedger(t)
	rates := testRates(0.9, nil)

	s := GenerateMonthlySummary(l, rates, NewDate(2025, time.March, 1))
	if s.ID != "2025-03" || s.Year != 2025 || s.Month != 3 {
		t.Errorf("identity = %s %d-%d", s.ID, s.Year, s.Month)
	}
	if !s.TotalIncome.Equal(M(3000, EUR)) {
		t.Errorf("total income = %s", s.TotalIncome)
	}
	if !s.MustSpending.Equal(M(800, EUR)) || !s.WantsSpending.Equal(M(200, EUR)) {
		t.Errorf("spending = %s / %s", s.MustSpending, s.WantsSpending)
	}
	if !s.NetSavings.Equal(M(2000, EUR)) {
		t.Errorf("net savings = %s", s.NetSavings)
	}
	// 1000 + 3000 - 1000 on the bank, plus 5000 USD at 0.9
	if !s.EndOfMonthCash.Equal(M(7500, EUR)) {
		t.Errorf("end of month cash = %s, want 7500 EUR", s.EndOfMonthCash)
	}
	if s.HasInvestments {
		t.Error("organic summaries carry no investment snapshot")
	}
}

func TestUpsertSummaryKeepsSorted(t *testing.T) {
	var sums []MonthlySummary
	sums = UpsertSummary(sums, MonthlySummary{ID: "2025-03"})
	sums = UpsertSummary(sums, MonthlySummary{ID: "2025-01"})
	sums = UpsertSummary(sums, MonthlySummary{ID: "2025-02"})
	sums = UpsertSummary(sums, MonthlySummary{ID: "2025-01", Year: 2025}) // replace

	if len(sums) != 3 {
		t.Fatalf("got %d summaries, want 3", len(sums))
	}
	for i, id := range []string{"2025-01", "2025-02", "2025-03"} {
		if sums[i].ID != id {
			t.Errorf("sums[%d] = %s, want %s", i, sums[i].ID, id)
		}
	}
	if sums[0].Year != 2025 {
		t.Error("upsert did not replace the existing summary")
	}
}

func TestEnsureSummariesSkipsQuietMonths(t *testing.T) {
	l := testLedger()
	rates := testRates(0.9, nil)
	sums, changed := EnsureSummaries(l, rates, nil)
	if changed || len(sums) != 0 {
		t.Errorf("a month without cash activity must not materialize a summary, got %v", sums)
	}
}

func TestSummaryJSONOmitsInvestmentsUnlessPresent(t *testing.T) {
	organic := MonthlySummary{ID: "2025-03", Year: 2025, Month: 3}
	b, err := json.Marshal(organic)
	if err != nil {
		t.Fatal(err)
	}
	var probe map[string]any
	if err := json.Unmarshal(b, &probe); err != nil {
		t.Fatal(err)
	}
	if _, ok := probe["endOfMonthInvestments"]; ok {
		t.Error("organic summary must not serialize an investment snapshot")
	}

	imported := organic
	imported.HasInvestments = true
	imported.EndOfMonthInvestments = M(1500, EUR)
	b, err = json.Marshal(imported)
	if err != nil {
		t.Fatal(err)
	}
	var back MonthlySummary
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if !back.HasInvestments || !back.EndOfMonthInvestments.Equal(M(1500, EUR)) {
		t.Errorf("investment snapshot lost in round trip: %+v", back)
	}
}
