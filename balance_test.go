package tracker

import (
	"testing"
	"time"
)

func TestBalanceAsOfFoldsCashTransactions(t *testing.T) {
	l := testLedger()
	rates := testRates(0.9, nil)
	if err := l.Append(
		NewIncome(NewDate(2025, time.March, 5), "salary", "bank", M(500, EUR), Work),
		NewCost(NewDate(2025, time.March, 10), "rent", "bank", M(200, EUR), Must, "HOME", "RENT"),
	); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name string
		on   Date
		want Money
	}{
		{"before any transaction", NewDate(2025, time.March, 1), M(1000, EUR)},
		{"after income", NewDate(2025, time.March, 5), M(1500, EUR)},
		{"after expense", NewDate(2025, time.March, 31), M(1300, EUR)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BalanceAsOf(l, rates, "bank", tc.on); !got.Equal(tc.want) {
				t.Errorf("balance on %s = %s, want %s", tc.on, got, tc.want)
			}
		})
	}
}

func TestBalanceAsOfInvestmentEffects(t *testing.T) {
	l := testLedger()
	rates := testRates(0.9, nil)
	h := NewHolding("Apple Inc.", "AAPL", Stock, USD)
	if err := l.AddHolding(h); err != nil {
		t.Fatal(err)
	}
	if err := l.AppendInvestment(
		NewTrade(CmdBuy, NewDate(2025, time.January, 10), h.ID, "broker", Q(10), M(100, USD), M(1000, USD)),
		NewTrade(CmdSell, NewDate(2025, time.February, 10), h.ID, "broker", Q(5), M(110, USD), M(550, USD)),
		NewDividend(NewDate(2025, time.March, 10), h.ID, "broker", M(12, USD)),
	); err != nil {
		t.Fatal(err)
	}

	// 5000 - 1000 + 550 + 12, all in the account's own currency
	if got := BalanceAsOf(l, rates, "broker", Today()); !got.Equal(M(4562, USD)) {
		t.Errorf("broker balance = %s, want 4562 USD", got)
	}
}

// A trade settled on an account of another currency converts at today's
// rate, even when the balance is reconstructed for a past day.
func TestBalanceAsOfConvertsSettlementAtCurrentRate(t *testing.T) {
	l := testLedger()
	rates := testRates(0.9, map[string]float64{histKey("2025-01-10"): 0.5})
	h := NewHolding("Apple Inc.", "AAPL", Stock, USD)
	if err := l.AddHolding(h); err != nil {
		t.Fatal(err)
	}
	if err := l.AppendInvestment(
		NewTrade(CmdBuy, NewDate(2025, time.January, 10), h.ID, "bank", Q(1), M(100, USD), M(100, USD)),
	); err != nil {
		t.Fatal(err)
	}

	if got := BalanceAsOf(l, rates, "bank", NewDate(2025, time.January, 31)); !got.Equal(M(910, EUR)) {
		t.Errorf("bank balance = %s, want 910 EUR (100 USD at today's 0.9, not at the trade day's 0.5)", got)
	}
}

func TestTotalCashInEUR(t *testing.T) {
	l := testLedger()
	rates := testRates(0.9, nil)
	// 1000 EUR + 5000 USD * 0.9
	if got := TotalCashInEUR(l, rates, Today()); !got.Equal(M(5500, EUR)) {
		t.Errorf("total cash = %s, want 5500 EUR", got)
	}
}
