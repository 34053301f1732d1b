package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
)

// The historical import ingests the four export files of a legacy
// spreadsheet: monthly expenses, investment trades, dividends and month-end
// statements. It rebuilds a complete ledger from them and replaces
// everything: accounts, transactions, holdings, categories, summaries and
// cached reports.

// ExpenseLog is one aggregated expense line, one amount per month and
// category path.
type ExpenseLog struct {
	Month    string  `json:"month"` // YYYY-MM
	Group    string  `json:"group"` // Must or Wants
	Category string  `json:"category"`
	Sub      string  `json:"sub"`
	Amount   float64 `json:"amount"`
}

// DividendLog is one dividend payment. Dates use the DD/MM/YYYY convention
// of the legacy sheet.
type DividendLog struct {
	Stock    string  `json:"stock"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Platform string  `json:"platform"`
	Date     string  `json:"date"` // DD/MM/YYYY
	Type     string  `json:"type"`
}

// InvestmentLog is one trade. The legacy sheet is inconsistent about the
// casing of the isin and transaction cost columns, both spellings decode.
type InvestmentLog struct {
	Source   string  `json:"source"` // Stock, ETF or Crypto
	Platform string  `json:"platform"`
	Ticker   string  `json:"ticker"`
	Date     string  `json:"date"` // YYYY-MM-DD
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
	Currency string  `json:"currency"`
	Type     string  `json:"type"` // Buy or Sell
	ISINUp   string  `json:"ISIN"`
	ISINLow  string  `json:"isin"`
	TCostUp  float64 `json:"TCOST"`
	TCostLow float64 `json:"tcost"`
}

func (l InvestmentLog) isin() string {
	if l.ISINUp != "" {
		return l.ISINUp
	}
	return l.ISINLow
}

func (l InvestmentLog) transactionCost() float64 {
	if l.TCostUp != 0 {
		return l.TCostUp
	}
	return l.TCostLow
}

// MonthEndLog is the month-end statement: income received and the positions
// the month closed with.
type MonthEndLog struct {
	Month  string `json:"month"` // YYYY-MM
	Income struct {
		Work  float64 `json:"work"`
		Extra float64 `json:"extra"`
	} `json:"income"`
	EndOfMonth struct {
		Cash        float64 `json:"cash"`
		Investments struct {
			StocksEtfs float64 `json:"stocksEtfs"`
			Crypto     float64 `json:"crypto"`
			Total      float64 `json:"total"`
		} `json:"investments"`
	} `json:"endOfMonth"`
}

// BalancesLog is the optional last element of the month-end file: the
// present balance of every account, grouped by account type. When present it
// is the source of truth for the account list.
type BalancesLog struct {
	Accounts map[string]map[string]float64 `json:"accounts"`
}

// ImportLogs holds the parsed content of the four import files.
type ImportLogs struct {
	Expenses    []ExpenseLog
	Dividends   []DividendLog
	Investments []InvestmentLog
	MonthEnds   []MonthEndLog
	Balances    *BalancesLog
}

// ParseImportLogs decodes the four import files, any of which may be nil.
// The month-end file is an array that may end with the account balances
// object, recognized by its "accounts" key.
func ParseImportLogs(expensesJSON, dividendsJSON, investmentsJSON, monthEndJSON []byte) (*ImportLogs, error) {
	logs := &ImportLogs{}
	if len(expensesJSON) > 0 {
		if err := json.Unmarshal(expensesJSON, &logs.Expenses); err != nil {
			return nil, fmt.Errorf("invalid expenses file: %w", err)
		}
	}
	if len(dividendsJSON) > 0 {
		if err := json.Unmarshal(dividendsJSON, &logs.Dividends); err != nil {
			return nil, fmt.Errorf("invalid dividends file: %w", err)
		}
	}
	if len(investmentsJSON) > 0 {
		if err := json.Unmarshal(investmentsJSON, &logs.Investments); err != nil {
			return nil, fmt.Errorf("invalid investments file: %w", err)
		}
	}
	if len(monthEndJSON) > 0 {
		var elements []json.RawMessage
		if err := json.Unmarshal(monthEndJSON, &elements); err != nil {
			return nil, fmt.Errorf("invalid month end file: %w", err)
		}
		if n := len(elements); n > 0 {
			var tail struct {
				Accounts json.RawMessage `json:"accounts"`
			}
			if err := json.Unmarshal(elements[n-1], &tail); err == nil && tail.Accounts != nil {
				logs.Balances = &BalancesLog{}
				if err := json.Unmarshal(elements[n-1], logs.Balances); err != nil {
					return nil, fmt.Errorf("invalid account balances: %w", err)
				}
				elements = elements[:n-1]
			}
		}
		for _, e := range elements {
			var m MonthEndLog
			if err := json.Unmarshal(e, &m); err != nil {
				return nil, fmt.Errorf("invalid month end entry: %w", err)
			}
			logs.MonthEnds = append(logs.MonthEnds, m)
		}
	}
	if len(logs.Expenses) == 0 && len(logs.Dividends) == 0 && len(logs.Investments) == 0 && len(logs.MonthEnds) == 0 {
		return nil, errors.New("no data found in any of the provided files")
	}
	return logs, nil
}

// ImportResult is the full application state rebuilt by an import.
type ImportResult struct {
	Accounts     []Account
	Transactions []Transaction
	Holdings     []Holding
	Investments  []InvestmentTx
	Categories   CustomCategories
	Summaries    []MonthlySummary
}

// Import rebuilds the ledger from the parsed logs.
//
// Accounts come from the balances log when present, otherwise a legacy bank
// plus one brokerage per platform are synthesized. Holdings are discovered
// from trades and dividends, all flagged for review. Expense dates are drawn
// from a fixed-seed generator so the same files always import to the same
// ledger. When the balances log is present, each account's initial balance
// is solved so that replaying the imported history lands exactly on the
// stated present balance.
func (logs *ImportLogs) Import(rates *Rates) (*ImportResult, error) {
	res := &ImportResult{}

	// month-end statements of the running month are not closed yet
	var monthEnds []MonthEndLog
	for _, m := range logs.MonthEnds {
		month, err := ParseMonthKey(m.Month)
		if err != nil {
			return nil, fmt.Errorf("invalid month %q in month end file: %w", m.Month, err)
		}
		if month.Before(Today().StartOfMonth()) {
			monthEnds = append(monthEnds, m)
		}
	}

	rng := rand.New(rand.NewPCG(20, 26))
	randomDay := func(month Date, startDay, endDay int) Date {
		return NewDate(month.Year(), month.Month(), startDay+rng.IntN(endDay-startDay))
	}

	// accounts, from the balances log when present
	accountIDs := make(map[string]string)
	addAccount := func(name, typ string, initial float64, currency string) {
		if _, ok := accountIDs[name]; ok {
			return
		}
		id := fmt.Sprintf("hist-acc-%d", len(res.Accounts))
		accountIDs[name] = id
		res.Accounts = append(res.Accounts, Account{
			ID:             id,
			Name:           name,
			Type:           AccountType(typ),
			InitialBalance: M(initial, currency),
			Currency:       currency,
		})
	}
	platformCurrency := func(name string) string {
		for _, l := range logs.Investments {
			if l.Platform == name {
				if l.Currency == USD {
					return USD
				}
				return EUR
			}
		}
		for _, l := range logs.Dividends {
			if l.Platform == name {
				if l.Currency == USD {
					return USD
				}
				return EUR
			}
		}
		return EUR
	}
	if logs.Balances != nil {
		for _, typ := range sortedKeys(logs.Balances.Accounts) {
			for _, name := range sortedKeys(logs.Balances.Accounts[typ]) {
				currency := EUR
				if typ == string(Brokerage) {
					currency = platformCurrency(name)
				}
				addAccount(name, typ, 0, currency)
			}
		}
	} else {
		addAccount("Legacy Bank (EUR)", string(Bank), 8000, EUR)
		for _, l := range logs.Investments {
			addAccount("Brokerage ("+l.Platform+")", string(Brokerage), 0, platformCurrency(l.Platform))
		}
		for _, l := range logs.Dividends {
			addAccount("Brokerage ("+l.Platform+")", string(Brokerage), 0, platformCurrency(l.Platform))
		}
	}
	hasBank := false
	for _, a := range res.Accounts {
		if a.Type == Bank {
			hasBank = true
			break
		}
	}
	if !hasBank {
		addAccount("Default Bank (EUR)", string(Bank), 0, EUR)
	}

	bankID := res.Accounts[0].ID
	for _, a := range res.Accounts {
		if a.Type == Bank {
			bankID = a.ID
			break
		}
	}
	settlementAccount := func(platform string) (string, bool) {
		if id, ok := accountIDs[platform]; ok {
			return id, true
		}
		id, ok := accountIDs["Brokerage ("+platform+")"]
		return id, ok
	}

	// holdings discovered from trades and dividends, all pending review
	holdingIDs := make(map[string]string)
	holdingIdx := make(map[string]int)
	discover := func(ticker, currency, source, isin string) {
		ticker = strings.ToUpper(ticker)
		if i, ok := holdingIdx[ticker]; ok {
			if res.Holdings[i].ISIN == "" && isin != "" {
				res.Holdings[i].ISIN = isin
			}
			return
		}
		if currency != USD {
			currency = EUR
		}
		var typ InvestmentType
		switch InvestmentType(source) {
		case Stock, ETF, Crypto:
			typ = InvestmentType(source)
		default:
			switch {
			case strings.Contains(ticker, "BTC") || strings.Contains(ticker, "ETH"):
				typ = Crypto
			case strings.Contains(ticker, "."):
				typ = ETF
			default:
				typ = Stock
			}
		}
		id := fmt.Sprintf("hist-hold-%d", len(res.Holdings))
		holdingIDs[ticker] = id
		holdingIdx[ticker] = len(res.Holdings)
		res.Holdings = append(res.Holdings, Holding{
			ID:          id,
			Name:        ticker,
			Ticker:      ticker,
			Type:        typ,
			Currency:    currency,
			ISIN:        isin,
			NeedsReview: true,
		})
	}
	for _, l := range logs.Investments {
		discover(l.Ticker, l.Currency, l.Source, l.isin())
	}
	for _, l := range logs.Dividends {
		discover(l.Stock, l.Currency, "", "")
	}

	holdingCurrency := func(ticker string) string {
		return res.Holdings[holdingIdx[strings.ToUpper(ticker)]].Currency
	}

	// trades
	for i, l := range logs.Investments {
		holdingID, okH := holdingIDs[strings.ToUpper(l.Ticker)]
		accountID, okA := settlementAccount(l.Platform)
		if !okH || !okA {
			log.Warn().Str("ticker", l.Ticker).Str("platform", l.Platform).Msg("skipping trade with unknown holding or platform")
			continue
		}
		day, err := ParseDate(l.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid trade date %q: %w", l.Date, err)
		}
		typ := CmdBuy
		if l.Type == "Sell" {
			typ = CmdSell
		}
		currency := holdingCurrency(l.Ticker)
		price := M(l.Price, currency).exact()
		total := price.Mul(Q(l.Quantity))
		cost := M(l.transactionCost(), currency)
		if typ == CmdBuy {
			total = total.Add(cost)
		} else {
			total = total.Sub(cost)
		}
		res.Investments = append(res.Investments, InvestmentTx{
			TxID:         fmt.Sprintf("hist-invest-%s-%d", l.Date, i),
			Holding:      holdingID,
			Account:      accountID,
			Type:         typ,
			Date:         day,
			Quantity:     Q(l.Quantity),
			PricePerUnit: price,
			TotalAmount:  total,
		})
	}

	// dividends
	for i, l := range logs.Dividends {
		holdingID, okH := holdingIDs[strings.ToUpper(l.Stock)]
		accountID, okA := settlementAccount(l.Platform)
		if !okH || !okA {
			log.Warn().Str("ticker", l.Stock).Str("platform", l.Platform).Msg("skipping dividend with unknown holding or platform")
			continue
		}
		day, err := parseLegacyDate(l.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid dividend date %q: %w", l.Date, err)
		}
		res.Investments = append(res.Investments, InvestmentTx{
			TxID:        fmt.Sprintf("hist-div-%s-%d", day, i),
			Holding:     holdingID,
			Account:     accountID,
			Type:        CmdDividend,
			Date:        day,
			TotalAmount: M(l.Amount, holdingCurrency(l.Stock)),
		})
	}

	// expenses, one cost per line on a random day, growing the taxonomy
	for i, l := range logs.Expenses {
		month, err := ParseMonthKey(l.Month)
		if err != nil {
			return nil, fmt.Errorf("invalid month %q in expenses file: %w", l.Month, err)
		}
		category := Wants
		if l.Group == "Must" {
			category = Must
		}
		res.Categories.AddSubCategory(category, l.Category)
		res.Categories.AddDetail(category, l.Category, l.Sub)
		res.Transactions = append(res.Transactions, Cost{
			baseTx: baseTx{
				TxID: fmt.Sprintf("hist-exp-%s-%d", l.Month, i),
				Date: randomDay(month, 1, 28),
				Memo: l.Sub,
			},
			Account:     bankID,
			Amount:      M(l.Amount, EUR),
			Category:    category,
			SubCategory: l.Category,
			Detail:      l.Sub,
		})
	}

	// income from month-end statements, salary on the 5th, extras late month
	for _, m := range monthEnds {
		month := MustParseDate(m.Month + "-01")
		if m.Income.Work > 0 {
			res.Transactions = append(res.Transactions, Income{
				baseTx: baseTx{
					TxID: "tx-income-work-" + m.Month,
					Date: NewDate(month.Year(), month.Month(), 5),
					Memo: "Work Income",
				},
				Account: bankID,
				Amount:  M(m.Income.Work, EUR),
				Type:    Work,
			})
		}
		if m.Income.Extra > 0 {
			res.Transactions = append(res.Transactions, Income{
				baseTx: baseTx{
					TxID: "tx-income-extra-" + m.Month,
					Date: randomDay(month, 20, 25),
					Memo: "Extra Income",
				},
				Account: bankID,
				Amount:  M(m.Income.Extra, EUR),
				Type:    Extra,
			})
		}
	}

	ledger := &Ledger{}
	ledger.Replace(res.Accounts, res.Transactions, res.Holdings, res.Investments)

	// solve each initial balance so replaying history lands on the stated
	// present balance
	if logs.Balances != nil {
		for _, typ := range sortedKeys(logs.Balances.Accounts) {
			for _, name := range sortedKeys(logs.Balances.Accounts[typ]) {
				target := logs.Balances.Accounts[typ][name]
				id := accountIDs[name]
				for i := range res.Accounts {
					if res.Accounts[i].ID != id {
						continue
					}
					impact := BalanceAsOf(ledger, rates, id, Today())
					initial := M(target, res.Accounts[i].Currency).Sub(impact)
					res.Accounts[i].InitialBalance = initial
					ledger.UpdateAccount(res.Accounts[i])
				}
			}
		}
	}

	// regenerate a summary for every month seen in any log
	months := make(map[string]bool)
	for _, l := range logs.Expenses {
		months[l.Month] = true
	}
	for _, m := range monthEnds {
		months[m.Month] = true
	}
	for _, t := range res.Investments {
		months[t.Date.MonthKey()] = true
	}
	for _, key := range sortedKeys(months) {
		month, err := ParseMonthKey(key)
		if err != nil {
			return nil, fmt.Errorf("invalid month key %q: %w", key, err)
		}
		s := GenerateMonthlySummary(ledger, rates, month)

		for _, m := range monthEnds {
			if m.Month != key {
				continue
			}
			// the statement is authoritative for what the month closed
			// with; historical stocks and ETFs cannot be split apart so
			// everything goes under stocks
			s.EndOfMonthCash = M(m.EndOfMonth.Cash, EUR)
			s.HasInvestments = true
			s.EndOfMonthInvestments = M(m.EndOfMonth.Investments.Total, EUR)
			s.EndOfMonthInvStocks = M(m.EndOfMonth.Investments.StocksEtfs, EUR)
			s.EndOfMonthInvEtfs = M(0, EUR)
			s.EndOfMonthInvCrypto = M(m.EndOfMonth.Investments.Crypto, EUR)

			dividends := M(0, EUR)
			for tx := range ledger.Investments(InvInMonth(month)) {
				if tx.Type == CmdDividend {
					dividends = dividends.Add(rates.Convert(tx.TotalAmount, EUR))
				}
			}
			s.TotalIncome = M(m.Income.Work+m.Income.Extra, EUR).Add(dividends)
			s.NetSavings = s.TotalIncome.Sub(s.TotalSpending)
		}
		res.Summaries = UpsertSummary(res.Summaries, s)
	}

	return res, nil
}

// parseLegacyDate parses the DD/MM/YYYY dates of the legacy dividend file.
func parseLegacyDate(str string) (Date, error) {
	parts := strings.Split(str, "/")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("not a DD/MM/YYYY date: %q", str)
	}
	return ParseDate(parts[2] + "-" + parts[1] + "-" + parts[0])
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
