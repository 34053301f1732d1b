package tracker

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLedgerRoundTrip(t *testing.T) {
	store, err := OpenStore(t.TempDir())
	require.NoError(t, err)

	ledger := testLedger()
	h := NewHolding("Apple Inc.", "AAPL", Stock, USD)
	h.CurrentPrice = M(175.5, USD)
	require.NoError(t, ledger.AddHolding(h))
	day := NewDate(2024, time.March, 5)
	require.NoError(t, ledger.Append(
		NewIncome(day, "salary", "bank", M(3000, EUR), Work),
		NewCost(day, "rent", "bank", M(850, EUR), Must, "HOME", "RENT"),
	))
	require.NoError(t, ledger.AppendInvestment(
		NewTrade(CmdBuy, day, h.ID, "broker", Q(5), M(175.5, USD), M(877.5, USD)),
	))

	require.NoError(t, store.SaveLedger(ledger))

	loaded, err := store.LoadLedger()
	require.NoError(t, err)

	acc, ok := loaded.Account("bank")
	require.True(t, ok)
	assert.Equal(t, "Bank", acc.Name)
	got, ok := loaded.Holding(h.ID)
	require.True(t, ok)
	assert.True(t, h.Equal(got))

	var txs []Transaction
	for tx := range loaded.Transactions() {
		txs = append(txs, tx)
	}
	require.Len(t, txs, 2)
	var invs []InvestmentTx
	for tx := range loaded.Investments() {
		invs = append(invs, tx)
	}
	require.Len(t, invs, 1)
	assert.Equal(t, h.ID, invs[0].Holding)
}

func TestStoreLoadLedgerEmpty(t *testing.T) {
	store, err := OpenStore(t.TempDir())
	require.NoError(t, err)

	ledger, err := store.LoadLedger()
	require.NoError(t, err)
	for range ledger.Accounts() {
		t.Fatal("empty store yielded accounts")
	}
	for range ledger.Transactions() {
		t.Fatal("empty store yielded transactions")
	}
}

func TestStoreBudgetDefault(t *testing.T) {
	store, err := OpenStore(t.TempDir())
	require.NoError(t, err)

	budget, err := store.LoadBudget()
	require.NoError(t, err)
	assert.True(t, M(3000, EUR).Equal(budget.MonthlyIncome))
	assert.Equal(t, Percent(50), budget.MustPct)

	budget.SetMust(60)
	require.NoError(t, store.SaveBudget(budget))
	loaded, err := store.LoadBudget()
	require.NoError(t, err)
	assert.Equal(t, Percent(60), loaded.MustPct)
	assert.Equal(t, Percent(30), loaded.WantsPct)
	assert.Equal(t, Percent(10), loaded.SavingsPct)
}

func TestStoreCategoriesRoundTrip(t *testing.T) {
	store, err := OpenStore(t.TempDir())
	require.NoError(t, err)

	var c CustomCategories
	c.AddSubCategory(Wants, "NIGHTLIFE")
	c.AddDetail(Wants, "NIGHTLIFE", "BARS")
	require.NoError(t, store.SaveCategories(c))

	loaded, err := store.LoadCategories()
	require.NoError(t, err)
	assert.Contains(t, loaded.SubCategories(Wants), "NIGHTLIFE")
	assert.Contains(t, loaded.Details(Wants, "NIGHTLIFE"), "BARS")
}

func TestStoreSummariesAndReports(t *testing.T) {
	store, err := OpenStore(t.TempDir())
	require.NoError(t, err)

	ledger := marchLedger(t)
	rates := testRates(0.9, nil)
	sum := GenerateMonthlySummary(ledger, rates, NewDate(2024, time.March, 1))
	require.NoError(t, store.SaveSummaries([]MonthlySummary{sum}))
	sums, err := store.LoadSummaries()
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, sum.ID, sums[0].ID)
	assert.True(t, sum.TotalIncome.Equal(sums[0].TotalIncome))

	report := GenerateReport(ledger, rates, offlinePrices(t), nil, NewDate(2024, time.March, 1))
	require.NoError(t, store.SaveReports([]ReportData{report}))
	reports, err := store.LoadReports()
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, report.ID, reports[0].ID)
	assert.True(t, report.TotalIncome.Equal(reports[0].TotalIncome))
}

func TestStoreRatesRoundTrip(t *testing.T) {
	store, err := OpenStore(t.TempDir())
	require.NoError(t, err)

	rates := testRates(0.91, map[string]float64{histKey("2024-03-05"): 0.88})
	require.NoError(t, store.SaveRates(rates))

	restored := NewRates()
	require.NoError(t, store.LoadRates(restored))
	assert.Equal(t, 0.91, restored.Rate(USD, EUR))
	got := restored.RateForDate(NewDate(2024, time.March, 5), USD, EUR)
	assert.Equal(t, 0.88, got)
}

func TestStoreSaveIsAtomic(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.SaveBudget(DefaultBudget()))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "budget.json", entries[0].Name())

	// a corrupted document surfaces as an error, not as a zero value
	require.NoError(t, os.WriteFile(filepath.Join(dir, "budget.json"), []byte("{oops"), 0o644))
	_, err = store.LoadBudget()
	assert.Error(t, err)
}
