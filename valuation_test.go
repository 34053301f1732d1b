package tracker

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestModifiedDietz(t *testing.T) {
	testCases := []struct {
		name                string
		start, end, inflows float64
		want                Percent
	}{
		{"pure growth", 100, 150, 0, 50},
		{"inflows are not performance", 100, 100, 50, -40},
		{"dust portfolio reports zero", 0.5, 1, 0, 0},
		{"inflows weighted mid window", 100, 160, 20, 36.3636},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ModifiedDietz(M(tc.start, EUR), M(tc.end, EUR), M(tc.inflows, EUR))
			if !got.Equal(tc.want) {
				t.Errorf("ModifiedDietz(%v, %v, %v) = %v, want %v", tc.start, tc.end, tc.inflows, got, tc.want)
			}
		})
	}
}

func TestSummarizeEURHolding(t *testing.T) {
	l := testLedger()
	rates := testRates(0.9, nil)
	h := NewHolding("iShares Core", "SXR8.DE", ETF, EUR)
	h.CurrentPrice = M(15, EUR).exact()
	if err := l.AddHolding(h); err != nil {
		t.Fatal(err)
	}
	if err := l.AppendInvestment(
		NewTrade(CmdBuy, NewDate(2025, time.January, 10), h.ID, "bank", Q(10), M(10, EUR), M(100, EUR)),
	); err != nil {
		t.Fatal(err)
	}

	s := Summarize(l, rates, h)
	if !s.Quantity.Equal(Q(10)) {
		t.Errorf("quantity = %s", s.Quantity)
	}
	if !s.MarketValue.Equal(M(150, EUR)) {
		t.Errorf("market value = %s, want 150 EUR", s.MarketValue)
	}
	if !s.TotalReturn.Equal(M(50, EUR)) {
		t.Errorf("total return = %s, want 50 EUR", s.TotalReturn)
	}
	if !s.ReturnPct.Equal(50) {
		t.Errorf("return = %v, want 50%%", s.ReturnPct)
	}
	// euro holdings carry no currency exposure
	if !s.CostBasisEUR.Equal(s.CostBasis) || !s.TotalReturnEUR.Equal(s.TotalReturn) {
		t.Errorf("euro figures diverge from native ones: %s vs %s", s.TotalReturnEUR, s.TotalReturn)
	}
}

// Dollar holdings convert their cost basis at the rate of each trade day,
// but the market value at today's rate: the euro return includes the
// currency move on the invested capital.
func TestSummarizeUSDHolding(t *testing.T) {
	l := testLedger()
	rates := testRates(0.92, map[string]float64{histKey("2025-01-10"): 0.9})
	h := NewHolding("Apple Inc.", "AAPL", Stock, USD)
	h.CurrentPrice = M(120, USD).exact()
	if err := l.AddHolding(h); err != nil {
		t.Fatal(err)
	}
	if err := l.AppendInvestment(
		NewTrade(CmdBuy, NewDate(2025, time.January, 10), h.ID, "broker", Q(10), M(100, USD), M(1000, USD)),
	); err != nil {
		t.Fatal(err)
	}

	s := Summarize(l, rates, h)
	if !s.CostBasisEUR.Equal(M(900, EUR)) {
		t.Errorf("cost basis = %s, want 900 EUR at the trade day's rate", s.CostBasisEUR)
	}
	if !s.MarketValueEUR.Equal(M(1104, EUR)) {
		t.Errorf("market value = %s, want 1104 EUR at today's rate", s.MarketValueEUR)
	}
	if !s.TotalReturnEUR.Equal(M(204, EUR)) {
		t.Errorf("euro return = %s, want 204 EUR", s.TotalReturnEUR)
	}
	if !s.TotalReturn.Equal(M(200, USD)) {
		t.Errorf("native return = %s, want 200 USD", s.TotalReturn)
	}
}

func TestSummariesFiltersDustAndAllocates(t *testing.T) {
	l := testLedger()
	rates := testRates(0.9, nil)

	open := NewHolding("Open", "OPEN", Stock, EUR)
	open.CurrentPrice = M(10, EUR).exact()
	closed := NewHolding("Closed", "CLSD", Stock, EUR)
	never := NewHolding("Watchlist", "WTCH", Stock, EUR)
	for _, h := range []Holding{open, closed, never} {
		if err := l.AddHolding(h); err != nil {
			t.Fatal(err)
		}
	}
	if err := l.AppendInvestment(
		NewTrade(CmdBuy, NewDate(2025, time.January, 10), open.ID, "bank", Q(10), M(10, EUR), M(100, EUR)),
		NewTrade(CmdBuy, NewDate(2025, time.January, 10), closed.ID, "bank", Q(5), M(10, EUR), M(50, EUR)),
		NewTrade(CmdSell, NewDate(2025, time.February, 10), closed.ID, "bank", Q(5), M(12, EUR), M(60, EUR)),
	); err != nil {
		t.Fatal(err)
	}

	summaries := Summaries(l, rates)
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2 (open position and never-traded)", len(summaries))
	}
	for _, s := range summaries {
		if s.Holding.ID == closed.ID {
			t.Error("fully sold position should not be displayed")
		}
		if s.Holding.ID == open.ID && !s.Allocation.Equal(100) {
			t.Errorf("allocation = %v, want 100%%", s.Allocation)
		}
	}
}

func TestQuantityAsOf(t *testing.T) {
	l := testLedger()
	h := NewHolding("Apple Inc.", "AAPL", Stock, USD)
	if err := l.AddHolding(h); err != nil {
		t.Fatal(err)
	}
	if err := l.AppendInvestment(
		NewTrade(CmdBuy, NewDate(2025, time.January, 10), h.ID, "broker", Q(10), M(100, USD), M(1000, USD)),
		NewTrade(CmdSell, NewDate(2025, time.February, 10), h.ID, "broker", Q(4), M(110, USD), M(440, USD)),
	); err != nil {
		t.Fatal(err)
	}
	if got := QuantityAsOf(l, h.ID, NewDate(2025, time.January, 31)); !got.Equal(Q(10)) {
		t.Errorf("quantity in january = %s, want 10", got)
	}
	if got := QuantityAsOf(l, h.ID, NewDate(2025, time.February, 28)); !got.Equal(Q(6)) {
		t.Errorf("quantity in february = %s, want 6", got)
	}
}

// When the quote source has nothing, the valuation falls back to the last
// trade price on or before the day.
func TestValueAsOfFallsBackToTradePrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no data", http.StatusNotFound)
	}))
	defer server.Close()
	prices := NewPricesWith(server.URL, server.URL, server.Client())

	l := testLedger()
	rates := testRates(0.9, nil)
	h := NewHolding("Apple Inc.", "AAPL", Stock, USD)
	if err := l.AddHolding(h); err != nil {
		t.Fatal(err)
	}
	if err := l.AppendInvestment(
		NewTrade(CmdBuy, NewDate(2025, time.January, 10), h.ID, "broker", Q(10), M(100, USD), M(1000, USD)),
		NewTrade(CmdBuy, NewDate(2025, time.March, 10), h.ID, "broker", Q(10), M(120, USD), M(1200, USD)),
	); err != nil {
		t.Fatal(err)
	}

	// on Jan 31 the last trade is the 100 USD buy: 10 * 100 * 0.9
	if got := ValueAsOf(l, rates, prices, NewDate(2025, time.January, 31)); !got.Equal(M(900, EUR)) {
		t.Errorf("value = %s, want 900 EUR", got)
	}
	// on Mar 31 the last trade is the 120 USD buy: 20 * 120 * 0.9
	if got := ValueAsOf(l, rates, prices, NewDate(2025, time.March, 31)); !got.Equal(M(2160, EUR)) {
		t.Errorf("value = %s, want 2160 EUR", got)
	}
}

func TestNetInflows(t *testing.T) {
	l := testLedger()
	rates := testRates(0.9, nil)
	stock := NewHolding("Apple Inc.", "AAPL", Stock, EUR)
	coin := NewHolding("Bitcoin", "BTC", Crypto, EUR)
	for _, h := range []Holding{stock, coin} {
		if err := l.AddHolding(h); err != nil {
			t.Fatal(err)
		}
	}
	if err := l.AppendInvestment(
		NewTrade(CmdBuy, NewDate(2025, time.March, 5), stock.ID, "bank", Q(1), M(500, EUR), M(500, EUR)),
		NewTrade(CmdSell, NewDate(2025, time.March, 20), stock.ID, "bank", Q(1), M(200, EUR), M(200, EUR)),
		NewTrade(CmdBuy, NewDate(2025, time.March, 25), coin.ID, "bank", Q(0.01), M(10000, EUR), M(100, EUR)),
		NewDividend(NewDate(2025, time.March, 26), stock.ID, "bank", M(10, EUR)),
		// outside the window
		NewTrade(CmdBuy, NewDate(2025, time.April, 2), stock.ID, "bank", Q(1), M(500, EUR), M(500, EUR)),
	); err != nil {
		t.Fatal(err)
	}

	from := NewDate(2025, time.February, 28)
	to := NewDate(2025, time.March, 31)
	if got := NetInflows(l, rates, from, to); !got.Equal(M(400, EUR)) {
		t.Errorf("net inflows = %s, want 400 EUR (dividends do not count)", got)
	}
	if got := NetInflows(l, rates, from, to, Crypto); !got.Equal(M(100, EUR)) {
		t.Errorf("crypto net inflows = %s, want 100 EUR", got)
	}
}
