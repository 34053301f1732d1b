package tracker

// testRates builds an offline conversion service: a fixed live rate and a
// pre-filled historical cache, so tests never touch the network.
func testRates(live float64, hist map[string]float64) *Rates {
	if hist == nil {
		hist = make(map[string]float64)
	}
	return &Rates{usdToEUR: live, lastUpdated: Today(), hist: hist}
}

// histKey builds the historical cache key for a given day.
func histKey(day string) string {
	return day + "_USD_EUR"
}

// testLedger builds a ledger with one euro bank account and one dollar
// brokerage, the smallest fixture most tests need.
func testLedger() *Ledger {
	l := NewLedger()
	l.AddAccount(Account{ID: "bank", Name: "Bank", Type: Bank, InitialBalance: M(1000, EUR), Currency: EUR})
	l.AddAccount(Account{ID: "broker", Name: "Broker", Type: Brokerage, InitialBalance: M(5000, USD), Currency: USD})
	return l
}
