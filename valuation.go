package tracker

import "sync"

// HoldingSummary aggregates the whole trade history of a holding into its
// present position. Native figures are denominated in the holding's currency;
// the EUR figures convert acquisition costs, proceeds and dividends at the
// rate of each transaction day, but the market value at today's rate, so the
// euro return reflects currency moves on the invested capital.
type HoldingSummary struct {
	Holding Holding
	TxCount int

	Quantity    Quantity
	CostBasis   Money
	Proceeds    Money
	Dividends   Money
	MarketValue Money

	CostBasisEUR   Money
	ProceedsEUR    Money
	DividendsEUR   Money
	MarketValueEUR Money

	TotalReturn    Money
	TotalReturnEUR Money
	ReturnPct      Percent
	ReturnPctEUR   Percent
	Allocation     Percent
}

// Summarize computes the position summary of a single holding.
func Summarize(ledger *Ledger, rates *Rates, h Holding) HoldingSummary {
	s := HoldingSummary{
		Holding:      h,
		Quantity:     Q(0),
		CostBasis:    M(0, h.Currency),
		Proceeds:     M(0, h.Currency),
		Dividends:    M(0, h.Currency),
		MarketValue:  M(0, h.Currency),
		CostBasisEUR: M(0, EUR),
		ProceedsEUR:  M(0, EUR),
		DividendsEUR: M(0, EUR),
	}

	for tx := range ledger.Investments(InvByHolding(h.ID)) {
		s.TxCount++
		switch tx.Type {
		case CmdBuy:
			s.Quantity = s.Quantity.Add(tx.Quantity)
			s.CostBasis = s.CostBasis.Add(tx.TotalAmount)
			s.CostBasisEUR = s.CostBasisEUR.Add(rates.ConvertAt(tx.Date, tx.TotalAmount, EUR))
		case CmdSell:
			s.Quantity = s.Quantity.Sub(tx.Quantity)
			s.Proceeds = s.Proceeds.Add(tx.TotalAmount)
			s.ProceedsEUR = s.ProceedsEUR.Add(rates.ConvertAt(tx.Date, tx.TotalAmount, EUR))
		case CmdDividend:
			s.Dividends = s.Dividends.Add(tx.TotalAmount)
			s.DividendsEUR = s.DividendsEUR.Add(rates.ConvertAt(tx.Date, tx.TotalAmount, EUR))
		}
	}

	if !h.CurrentPrice.IsZero() && s.Quantity.IsPositive() {
		s.MarketValue = h.CurrentPrice.Mul(s.Quantity)
	}
	s.MarketValueEUR = rates.Convert(s.MarketValue, EUR)

	if h.Currency == EUR {
		// no currency exposure, euro figures mirror the native ones
		s.CostBasisEUR = s.CostBasis
		s.ProceedsEUR = s.Proceeds
		s.DividendsEUR = s.Dividends
		s.MarketValueEUR = M(s.MarketValue.value, EUR)
	}

	s.TotalReturn = s.MarketValue.Add(s.Proceeds).Add(s.Dividends).Sub(s.CostBasis)
	s.TotalReturnEUR = s.MarketValueEUR.Add(s.ProceedsEUR).Add(s.DividendsEUR).Sub(s.CostBasisEUR)
	if s.CostBasis.IsPositive() {
		s.ReturnPct = Percent(s.TotalReturn.AsFloat() / s.CostBasis.AsFloat() * 100)
	}
	if s.CostBasisEUR.IsPositive() {
		s.ReturnPctEUR = Percent(s.TotalReturnEUR.AsFloat() / s.CostBasisEUR.AsFloat() * 100)
	}
	return s
}

// Summaries computes the summary of every holding worth displaying: open
// positions, plus holdings that never traded. Allocation is each position's
// share of the total market value in euros.
func Summaries(ledger *Ledger, rates *Rates) []HoldingSummary {
	var summaries []HoldingSummary
	total := 0.0
	for h := range ledger.Holdings() {
		s := Summarize(ledger, rates, h)
		if s.Quantity.Negligible() && s.TxCount > 0 {
			continue
		}
		total += s.MarketValueEUR.AsFloat()
		summaries = append(summaries, s)
	}
	if total > 0 {
		for i := range summaries {
			summaries[i].Allocation = Percent(summaries[i].MarketValueEUR.AsFloat() / total * 100)
		}
	}
	return summaries
}

// QuantityAsOf returns the position size of a holding on a given day.
func QuantityAsOf(ledger *Ledger, holdingID string, on Date) Quantity {
	qty := Q(0)
	for tx := range ledger.Investments(InvByHolding(holdingID), InvOnOrBefore(on)) {
		switch tx.Type {
		case CmdBuy:
			qty = qty.Add(tx.Quantity)
		case CmdSell:
			qty = qty.Sub(tx.Quantity)
		}
	}
	return qty
}

// priceAsOf returns the unit price of a holding on a day, in the holding's
// currency. It asks the quote source first, then falls back to the price of
// the last trade on or before that day, then to zero.
func priceAsOf(ledger *Ledger, prices *Prices, h Holding, on Date) float64 {
	if price, err := prices.HistoricalPrice(h, on); err == nil {
		return price
	} else {
		log.Debug().Err(err).Str("ticker", h.Ticker).Stringer("on", on).Msg("no market quote, using last trade price")
	}
	last := 0.0
	for tx := range ledger.Investments(InvByHolding(h.ID), InvOnOrBefore(on)) {
		if tx.Type == CmdBuy || tx.Type == CmdSell {
			last = tx.PricePerUnit.AsFloat()
		}
	}
	return last
}

// ValueAsOf values the portfolio on a given day, in euros at today's rate,
// optionally restricted to some investment types. Holdings are priced
// concurrently since each may hit a remote quote source.
func ValueAsOf(ledger *Ledger, rates *Rates, prices *Prices, on Date, types ...InvestmentType) Money {
	var holdings []Holding
	for h := range ledger.Holdings() {
		if len(types) > 0 {
			found := false
			for _, t := range types {
				if h.Type == t {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		holdings = append(holdings, h)
	}

	values := make([]Money, len(holdings))
	var wg sync.WaitGroup
	for i, h := range holdings {
		wg.Add(1)
		go func() {
			defer wg.Done()
			qty := QuantityAsOf(ledger, h.ID, on)
			if !qty.IsPositive() {
				values[i] = M(0, EUR)
				return
			}
			price := priceAsOf(ledger, prices, h, on)
			values[i] = rates.Convert(M(price, h.Currency).Mul(qty), EUR)
		}()
	}
	wg.Wait()

	total := M(0, EUR)
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// NetInflows sums the capital moved into the portfolio strictly after from
// and up to to, in euros at today's rate: buys count in, sells count out,
// dividends are performance and do not count.
func NetInflows(ledger *Ledger, rates *Rates, from, to Date, types ...InvestmentType) Money {
	byType := make(map[InvestmentType]bool, len(types))
	for _, t := range types {
		byType[t] = true
	}
	total := M(0, EUR)
	for tx := range ledger.Investments() {
		if !tx.Date.After(from) || tx.Date.After(to) {
			continue
		}
		if len(types) > 0 {
			h, ok := ledger.Holding(tx.Holding)
			if !ok || !byType[h.Type] {
				continue
			}
		}
		amount := rates.Convert(tx.TotalAmount, EUR)
		switch tx.Type {
		case CmdBuy:
			total = total.Add(amount)
		case CmdSell:
			total = total.Sub(amount)
		}
	}
	return total
}

// ModifiedDietz approximates the time-weighted return of a window from its
// start and end values and the net inflows, assuming inflows land mid-window.
// Windows with a negligible denominator return zero rather than a wild
// percentage.
func ModifiedDietz(start, end, inflows Money) Percent {
	gain := end.AsFloat() - start.AsFloat() - inflows.AsFloat()
	denom := start.AsFloat() + inflows.AsFloat()*0.5
	if denom > 1 {
		return Percent(gain / denom * 100)
	}
	return 0
}
