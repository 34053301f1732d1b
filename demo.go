package tracker

import (
	"fmt"
	"math/rand/v2"
)

// DemoLedger builds a small realistic ledger covering the last three months:
// a euro bank account, a dollar brokerage, two holdings and a spread of
// expenses, income, trades and a dividend. The generator is fixed-seed so
// two demo ledgers are identical.
func DemoLedger() *Ledger {
	rng := rand.New(rand.NewPCG(17, 29))

	bank := Account{ID: "acc-eur-1", Name: "Main Bank (EUR)", Type: Bank, InitialBalance: M(5000, EUR), Currency: EUR}
	broker := Account{ID: "acc-usd-1", Name: "Brokerage (USD)", Type: Brokerage, InitialBalance: M(10000, USD), Currency: USD}

	aapl := Holding{ID: "h-aapl-1", Name: "Apple Inc.", Ticker: "AAPL", Type: Stock, Currency: USD, CurrentPrice: M(175.50, USD).exact()}
	btc := Holding{ID: "h-btc-1", Name: "Bitcoin", Ticker: "BTC", Type: Crypto, Currency: USD, CurrentPrice: M(68000, USD).exact()}

	randomDay := func(month Date) Date {
		return NewDate(month.Year(), month.Month(), 1+rng.IntN(month.EndOfMonth().Day()))
	}
	amount := func(base, spread float64) Money {
		return M(float64(int((base+rng.Float64()*spread)*100))/100, EUR)
	}

	var txs []Transaction
	for i := 3; i > 0; i-- {
		month := Today().StartOfMonth().AddMonth(-i)
		cost := func(id, sub, detail string, category CostCategory, a Money, day Date) Cost {
			return Cost{
				baseTx:      baseTx{TxID: fmt.Sprintf("%s-%d", id, i), Date: day, Memo: detail},
				Account:     bank.ID,
				Amount:      a,
				Category:    category,
				SubCategory: sub,
				Detail:      detail,
			}
		}

		txs = append(txs, Income{
			baseTx:  baseTx{TxID: fmt.Sprintf("tx-income-%d", i), Date: randomDay(month), Memo: "Work Income"},
			Account: bank.ID,
			Amount:  M(3200, EUR),
			Type:    Work,
		})
		txs = append(txs, cost("tx-must-rent", "HOME", "RENT", Must, M(850, EUR), NewDate(month.Year(), month.Month(), 2)))
		for d := 0; d < 5; d++ {
			txs = append(txs, cost(fmt.Sprintf("tx-must-food-%d", d), "HOME", "SUPERMARKET", Must, amount(20, 80), randomDay(month)))
		}
		txs = append(txs, cost("tx-must-gas", "MOVEMENT", "GAS", Must, amount(30, 40), randomDay(month)))
		for d := 0; d < 4; d++ {
			txs = append(txs, cost(fmt.Sprintf("tx-wants-fun-%d", d), "FUN", "FOOD", Wants, amount(15, 50), randomDay(month)))
		}
		txs = append(txs, cost("tx-wants-shop", "SHOPPING", "HAIRCUT", Wants, amount(40, 100), randomDay(month)))
	}

	month3 := Today().StartOfMonth().AddMonth(-3)
	month2 := Today().StartOfMonth().AddMonth(-2)
	month1 := Today().StartOfMonth().AddMonth(-1)

	trade := func(id string, h Holding, typ InvTxType, day Date, qty, price float64) InvestmentTx {
		p := M(price, USD).exact()
		return InvestmentTx{
			TxID: id, Holding: h.ID, Account: broker.ID, Type: typ, Date: day,
			Quantity: Q(qty), PricePerUnit: p, TotalAmount: p.Mul(Q(qty)),
		}
	}
	invTxs := []InvestmentTx{
		trade("inv-1", aapl, CmdBuy, randomDay(month3), 10, 170.12),
		trade("inv-2", btc, CmdBuy, randomDay(month3), 0.05, 65000),
		trade("inv-3", aapl, CmdBuy, randomDay(month2), 5, 172.50),
		trade("inv-4", btc, CmdSell, randomDay(month2), 0.02, 68500),
		{
			TxID: "inv-5", Holding: aapl.ID, Account: broker.ID, Type: CmdDividend,
			Date: randomDay(month1), TotalAmount: M(15*0.24, USD),
		},
	}

	ledger := NewLedger()
	ledger.Replace([]Account{bank, broker}, txs, []Holding{aapl, btc}, invTxs)
	return ledger
}
