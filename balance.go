package tracker

// BalanceAsOf reconstructs the balance of an account on a given day, in the
// account's currency. It folds every cash and investment transaction dated on
// or before the day over the initial balance.
//
// Buys debit the settlement account, sells and dividends credit it. When the
// holding is denominated in another currency the settlement is converted at
// today's rate, whatever the transaction date.
func BalanceAsOf(ledger *Ledger, rates *Rates, accountID string, on Date) Money {
	account, ok := ledger.Account(accountID)
	if !ok {
		return Money{}
	}
	balance := account.InitialBalance

	for tx := range ledger.Transactions(TxOnOrBefore(on)) {
		switch t := tx.(type) {
		case Cost:
			if t.Account == accountID {
				balance = balance.Sub(t.Amount)
			}
		case Income:
			if t.Account == accountID {
				balance = balance.Add(t.Amount)
			}
		case Transfer:
			if t.From == accountID {
				balance = balance.Sub(t.Amount)
			}
			if t.To == accountID {
				balance = balance.Add(t.ToAmount)
			}
		}
	}

	for tx := range ledger.Investments(InvByAccount(accountID), InvOnOrBefore(on)) {
		amount := rates.Convert(tx.TotalAmount, account.Currency)
		switch tx.Type {
		case CmdBuy:
			balance = balance.Sub(amount)
		case CmdSell, CmdDividend:
			balance = balance.Add(amount)
		}
	}

	return balance
}

// Balance returns the current balance of an account.
func Balance(ledger *Ledger, rates *Rates, accountID string) Money {
	return BalanceAsOf(ledger, rates, accountID, Today())
}

// TotalCashInEUR sums the balances of every account on a given day, each
// converted to euros at today's rate.
func TotalCashInEUR(ledger *Ledger, rates *Rates, on Date) Money {
	total := M(0, EUR)
	for a := range ledger.Accounts() {
		balance := BalanceAsOf(ledger, rates, a.ID, on)
		total = total.Add(rates.Convert(balance, EUR))
	}
	return total
}
