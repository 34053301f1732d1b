package tracker

import (
	"strings"
)

// RefreshPrices reviews and reprices every holding of the ledger.
//
// Holdings flagged for review are first resolved: equities by their ISIN
// against the symbol directory, cryptocurrencies against the static coin
// directory. Then every holding gets a fresh spot price, coins in a single
// batch, equities one by one. Holdings whose quote source fails keep their
// previous price.
//
// It returns the holdings that actually changed, already updated in the
// ledger.
func RefreshPrices(ledger *Ledger, symbols *Symbols, prices *Prices) []Holding {
	var updated []Holding

	type pending struct{ before, h Holding }
	var coins []pending
	var coinIDs []string
	for h := range ledger.Holdings() {
		before := h

		if h.NeedsReview {
			switch h.Type {
			case Crypto:
				if c, ok := coinByTicker(h.Ticker); ok {
					h.Name = c.name
					h.Ticker = c.ticker
					h.NeedsReview = false
				}
			default:
				if h.ISIN != "" {
					name, ticker, err := symbols.LookupISIN(h.ISIN)
					if err != nil {
						log.Warn().Err(err).Str("isin", h.ISIN).Msg("cannot resolve security")
					} else {
						h.Name = name
						h.Ticker = ticker
						h.NeedsReview = false
					}
				}
			}
		}

		if h.Type == Crypto {
			if c, ok := coinByTicker(h.Ticker); ok {
				coins = append(coins, pending{before, h})
				coinIDs = append(coinIDs, c.id)
				continue
			}
			log.Warn().Str("ticker", h.Ticker).Msg("unknown cryptocurrency, price not refreshed")
		} else {
			price, err := prices.SpotEquityPrice(h.Ticker)
			if err != nil {
				log.Warn().Err(err).Str("ticker", h.Ticker).Msg("cannot refresh price")
			} else {
				h.CurrentPrice = M(price, h.Currency).exact()
			}
		}

		if !h.Equal(before) {
			ledger.UpdateHolding(h)
			updated = append(updated, h)
		}
	}

	if len(coins) > 0 {
		quotes, err := prices.SpotCryptoPrices(coinIDs)
		if err != nil {
			log.Warn().Err(err).Msg("cannot refresh cryptocurrency prices")
		}
		for _, p := range coins {
			before, h := p.before, p.h
			c, _ := coinByTicker(h.Ticker)
			if quote, ok := quotes[c.id]; ok {
				if price, ok := quote[strings.ToLower(h.Currency)]; ok && price > 0 {
					h.CurrentPrice = M(price, h.Currency).exact()
				}
			}
			if !h.Equal(before) {
				ledger.UpdateHolding(h)
				updated = append(updated, h)
			}
		}
	}

	return updated
}
