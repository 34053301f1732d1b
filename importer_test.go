package tracker

import (
	"testing"
)

func testImportLogs() *ImportLogs {
	return &ImportLogs{
		Expenses: []ExpenseLog{
			{Month: "2024-01", Group: "Must", Category: "HOUSE", Sub: "RENT", Amount: 800},
			{Month: "2024-01", Group: "Wants", Category: "NIGHTLIFE", Sub: "BAR", Amount: 60},
			{Month: "2024-02", Group: "Must", Category: "HOUSE", Sub: "RENT", Amount: 800},
		},
		Investments: []InvestmentLog{
			{Source: "Stock", Platform: "IBKR", Ticker: "aapl", Date: "2024-01-15", Price: 100, Quantity: 10, Currency: "USD", Type: "Buy", ISINUp: "US0378331005", TCostUp: 1},
			{Source: "", Platform: "IBKR", Ticker: "VWCE.DE", Date: "2024-02-10", Price: 90, Quantity: 5, Currency: "EUR", Type: "Buy"},
			{Platform: "Kraken", Ticker: "BTC", Date: "2024-02-20", Price: 40000, Quantity: 0.01, Currency: "USD", Type: "Buy"},
		},
		Dividends: []DividendLog{
			{Stock: "AAPL", Amount: 12, Currency: "USD", Platform: "IBKR", Date: "05/02/2024", Type: "Ordinary"},
		},
		MonthEnds: []MonthEndLog{
			func() MonthEndLog {
				var m MonthEndLog
				m.Month = "2024-01"
				m.Income.Work = 3000
				m.Income.Extra = 150
				m.EndOfMonth.Cash = 9000
				m.EndOfMonth.Investments.StocksEtfs = 1000
				m.EndOfMonth.Investments.Crypto = 0
				m.EndOfMonth.Investments.Total = 1000
				return m
			}(),
		},
		Balances: &BalancesLog{Accounts: map[string]map[string]float64{
			"Bank":      {"My Bank": 12000},
			"Brokerage": {"IBKR": 2500, "Kraken": 300},
		}},
	}
}

func TestParseImportLogsSplitsBalances(t *testing.T) {
	monthEnd := []byte(`[
		{"month":"2024-01","income":{"work":3000,"extra":0},"endOfMonth":{"cash":9000,"investments":{"stocksEtfs":0,"crypto":0,"total":0}}},
		{"accounts":{"Bank":{"My Bank":12000}}}
	]`)
	logs, err := ParseImportLogs(nil, nil, nil, monthEnd)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs.MonthEnds) != 1 {
		t.Errorf("got %d month ends, want 1", len(logs.MonthEnds))
	}
	if logs.Balances == nil || logs.Balances.Accounts["Bank"]["My Bank"] != 12000 {
		t.Errorf("balances log not recognized: %+v", logs.Balances)
	}
}

func TestParseImportLogsRejectsEmpty(t *testing.T) {
	if _, err := ParseImportLogs(nil, nil, nil, nil); err == nil {
		t.Error("expected an error when all files are empty")
	}
}

func TestImportDiscoversAccountsAndHoldings(t *testing.T) {
	res, err := testImportLogs().Import(testRates(0.9, nil))
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Accounts) != 3 {
		t.Fatalf("got %d accounts, want 3: %+v", len(res.Accounts), res.Accounts)
	}
	byName := make(map[string]Account)
	for _, a := range res.Accounts {
		byName[a.Name] = a
	}
	if byName["IBKR"].Currency != USD {
		t.Errorf("IBKR currency = %q, want USD from its trade logs", byName["IBKR"].Currency)
	}
	if byName["My Bank"].Type != Bank || byName["My Bank"].Currency != EUR {
		t.Errorf("bank account = %+v", byName["My Bank"])
	}

	if len(res.Holdings) != 3 {
		t.Fatalf("got %d holdings, want 3: %+v", len(res.Holdings), res.Holdings)
	}
	for _, h := range res.Holdings {
		if !h.NeedsReview {
			t.Errorf("imported holding %s must be flagged for review", h.Ticker)
		}
		switch h.Ticker {
		case "AAPL":
			if h.Type != Stock || h.ISIN != "US0378331005" {
				t.Errorf("AAPL = %+v", h)
			}
		case "VWCE.DE":
			// no source given, the dot marks an ETF
			if h.Type != ETF {
				t.Errorf("VWCE.DE type = %s, want ETF", h.Type)
			}
		case "BTC":
			if h.Type != Crypto {
				t.Errorf("BTC type = %s, want Crypto", h.Type)
			}
		default:
			t.Errorf("unexpected holding %q", h.Ticker)
		}
	}
}

func TestImportBuildsTransactions(t *testing.T) {
	res, err := testImportLogs().Import(testRates(0.9, nil))
	if err != nil {
		t.Fatal(err)
	}

	// 3 expenses + work and extra income
	if len(res.Transactions) != 5 {
		t.Fatalf("got %d cash transactions, want 5", len(res.Transactions))
	}
	// 3 trades + 1 dividend
	if len(res.Investments) != 4 {
		t.Fatalf("got %d investment transactions, want 4", len(res.Investments))
	}

	for _, tx := range res.Investments {
		if tx.Type == CmdBuy && tx.Date.String() == "2024-01-15" {
			// 10 * 100 plus the 1 USD transaction cost
			if !tx.TotalAmount.Equal(M(1001, USD)) {
				t.Errorf("buy total = %s, want 1001 USD", tx.TotalAmount)
			}
		}
		if tx.Type == CmdDividend {
			if tx.Date.String() != "2024-02-05" {
				t.Errorf("dividend date = %s, want 2024-02-05 from 05/02/2024", tx.Date)
			}
			if !tx.Quantity.IsZero() || !tx.PricePerUnit.IsZero() {
				t.Error("dividend must carry no quantity or price")
			}
		}
	}

	// custom taxonomy grew from the expense logs
	found := false
	for _, sub := range res.Categories.SubCategories(Must) {
		if sub == "HOUSE" {
			found = true
		}
	}
	if !found {
		t.Error("custom sub-category HOUSE not recorded")
	}
}

// The solved initial balances must reproduce the stated present balances
// exactly when the imported history is replayed.
func TestImportSolvesInitialBalances(t *testing.T) {
	logs := testImportLogs()
	rates := testRates(0.9, nil)
	res, err := logs.Import(rates)
	if err != nil {
		t.Fatal(err)
	}

	l := NewLedger()
	l.Replace(res.Accounts, res.Transactions, res.Holdings, res.Investments)

	for typ, accounts := range logs.Balances.Accounts {
		for name, target := range accounts {
			var id, currency string
			for _, a := range res.Accounts {
				if a.Name == name {
					id, currency = a.ID, a.Currency
				}
			}
			got := BalanceAsOf(l, rates, id, Today())
			if !got.Equal(M(target, currency)) {
				t.Errorf("%s/%s balance = %s, want %v %s", typ, name, got, target, currency)
			}
		}
	}
}

func TestImportIsDeterministic(t *testing.T) {
	rates := testRates(0.9, nil)
	a, err := testImportLogs().Import(rates)
	if err != nil {
		t.Fatal(err)
	}
	b, err := testImportLogs().Import(rates)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Transactions {
		if !a.Transactions[i].Equal(b.Transactions[i]) {
			t.Errorf("transaction %d differs between two identical imports", i)
		}
	}
}

func TestImportWithoutBalancesSynthesizesAccounts(t *testing.T) {
	logs := testImportLogs()
	logs.Balances = nil
	res, err := logs.Import(testRates(0.9, nil))
	if err != nil {
		t.Fatal(err)
	}

	byName := make(map[string]Account)
	for _, a := range res.Accounts {
		byName[a.Name] = a
	}
	legacy, ok := byName["Legacy Bank (EUR)"]
	if !ok || !legacy.InitialBalance.Equal(M(8000, EUR)) {
		t.Errorf("legacy bank = %+v", legacy)
	}
	if _, ok := byName["Brokerage (IBKR)"]; !ok {
		t.Errorf("per-platform brokerage missing: %v", res.Accounts)
	}
	// trades still settle against the synthesized brokerages
	if len(res.Investments) != 4 {
		t.Errorf("got %d investment transactions, want 4", len(res.Investments))
	}
}

func TestImportSummaries(t *testing.T) {
	res, err := testImportLogs().Import(testRates(0.9, nil))
	if err != nil {
		t.Fatal(err)
	}

	var jan MonthlySummary
	seen := make(map[string]bool)
	for _, s := range res.Summaries {
		seen[s.ID] = true
		if s.ID == "2024-01" {
			jan = s
		}
	}
	// every month touched by any log gets a summary
	for _, id := range []string{"2024-01", "2024-02"} {
		if !seen[id] {
			t.Errorf("summary %s missing, got %v", id, seen)
		}
	}

	// the month-end statement overrides what the month closed with
	if !jan.HasInvestments {
		t.Fatal("january summary must carry the statement's investment snapshot")
	}
	if !jan.EndOfMonthCash.Equal(M(9000, EUR)) {
		t.Errorf("january cash = %s, want the statement's 9000 EUR", jan.EndOfMonthCash)
	}
	if !jan.EndOfMonthInvStocks.Equal(M(1000, EUR)) || !jan.EndOfMonthInvEtfs.IsZero() {
		t.Errorf("january investments = %s stocks / %s etfs", jan.EndOfMonthInvStocks, jan.EndOfMonthInvEtfs)
	}
	// 3000 work + 150 extra, no dividend in january
	if !jan.TotalIncome.Equal(M(3150, EUR)) {
		t.Errorf("january income = %s, want 3150 EUR", jan.TotalIncome)
	}
}

func TestImportDiscardsRunningMonthStatement(t *testing.T) {
	past := Today().AddMonth(-1).MonthKey()
	running := Today().MonthKey()

	logs := &ImportLogs{}
	for _, key := range []string{past, running} {
		var m MonthEndLog
		m.Month = key
		m.Income.Work = 1000
		m.EndOfMonth.Cash = 5000
		logs.MonthEnds = append(logs.MonthEnds, m)
	}

	res, err := logs.Import(testRates(0.9, nil))
	if err != nil {
		t.Fatal(err)
	}

	for _, s := range res.Summaries {
		if s.ID == running {
			t.Errorf("running month %s got a summary: %+v", running, s)
		}
	}
	seen := false
	for _, s := range res.Summaries {
		if s.ID == past {
			seen = true
			if !s.EndOfMonthCash.Equal(M(5000, EUR)) {
				t.Errorf("%s cash = %s, want the statement's 5000 EUR", past, s.EndOfMonthCash)
			}
		}
	}
	if !seen {
		t.Errorf("closed month %s has no summary", past)
	}

	// no income transaction synthesized for the discarded statement
	for _, tx := range res.Transactions {
		if tx.When().MonthKey() == running {
			t.Errorf("running month got transaction %+v", tx)
		}
	}
}
