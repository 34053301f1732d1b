package tracker

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/PaesslerAG/jsonpath"
)

// Default price sources.
const (
	DefaultCryptoURL = "https://api.coingecko.com/api/v3"
	DefaultEquityURL = "https://query1.finance.yahoo.com"
)

// Prices quotes holdings, spot and historical. Historical quotes are cached
// per (ticker, day) for the lifetime of the service; the underlying HTTP
// client additionally caches responses on disk for a day.
type Prices struct {
	cryptoURL string
	equityURL string
	client    *http.Client

	mu    sync.Mutex
	cache map[string]float64
}

// NewPrices returns a price service talking to the default sources.
func NewPrices() *Prices {
	return &Prices{
		cryptoURL: DefaultCryptoURL,
		equityURL: DefaultEquityURL,
		client:    daily(),
		cache:     make(map[string]float64),
	}
}

// NewPricesWith returns a price service talking to custom sources, used in
// tests against httptest servers.
func NewPricesWith(cryptoURL, equityURL string, client *http.Client) *Prices {
	p := NewPrices()
	p.cryptoURL = cryptoURL
	p.equityURL = equityURL
	p.client = client
	return p
}

// extract resolves a jsonpath in a decoded JSON document and returns it as a
// positive float.
func extract(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("error parsing response: %q %w", path, err)
	}
	// jsonpath is never clear about whether it returns a list of 1 answer,
	// or a single answer: keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok || val <= 0 {
		return 0, fmt.Errorf("error parsing response: %q not a positive number: %v", path, jval)
	}
	return val, nil
}

// HistoricalPrice returns the market price of a holding on a given day, in
// the holding's currency. It returns an error when the source has no usable
// quote; the valuation layer then falls back to the last trade price.
func (p *Prices) HistoricalPrice(h Holding, on Date) (float64, error) {
	cacheKey := fmt.Sprintf("%s-%s", h.Ticker, on)
	p.mu.Lock()
	cached, ok := p.cache[cacheKey]
	p.mu.Unlock()
	if ok {
		return cached, nil
	}

	var price float64
	var err error
	if h.Type == Crypto {
		price, err = p.historicalCrypto(h, on)
	} else {
		price, err = p.historicalEquity(h.Ticker, on)
	}
	if err != nil {
		return 0, err
	}

	p.mu.Lock()
	p.cache[cacheKey] = price
	p.mu.Unlock()
	return price, nil
}

func (p *Prices) historicalCrypto(h Holding, on Date) (float64, error) {
	c, ok := coinByTicker(h.Ticker)
	if !ok {
		return 0, fmt.Errorf("unknown cryptocurrency %q", h.Ticker)
	}
	// this source wants the date as DD-MM-YYYY
	addr := fmt.Sprintf("%s/coins/%s/history?date=%02d-%02d-%04d", p.cryptoURL, c.id, on.Day(), int(on.Month()), on.Year())
	var jobj any
	if err := jwget(p.client, addr, &jobj); err != nil {
		return 0, fmt.Errorf("error in wget %q: %w", h.Ticker, err)
	}
	path := "$.market_data.current_price." + strings.ToLower(h.Currency)
	return extract(jobj, path)
}

func (p *Prices) historicalEquity(ticker string, on Date) (float64, error) {
	period1 := on.time().Unix()
	period2 := period1 + 86400 // 24 hours later
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d", p.equityURL, ticker, period1, period2)
	var jobj any
	if err := jwget(p.client, addr, &jobj); err != nil {
		return 0, fmt.Errorf("error in wget %q: %w", ticker, err)
	}
	return extract(jobj, "$.chart.result[0].indicators.quote[0].close[0]")
}

// SpotEquityPrice returns the current market price of an equity ticker.
func (p *Prices) SpotEquityPrice(ticker string) (float64, error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s", p.equityURL, ticker)
	var jobj any
	if err := jwget(p.client, addr, &jobj); err != nil {
		return 0, fmt.Errorf("error in wget %q: %w", ticker, err)
	}
	return extract(jobj, "$.chart.result[0].meta.regularMarketPrice")
}

// SpotCryptoPrices returns the current price of several coins in one batch,
// keyed by coin id then by lowercase currency.
func (p *Prices) SpotCryptoPrices(ids []string) (map[string]map[string]float64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	addr := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd,eur", p.cryptoURL, strings.Join(ids, ","))
	prices := make(map[string]map[string]float64)
	if err := jwget(p.client, addr, &prices); err != nil {
		return nil, fmt.Errorf("error in batch crypto quote: %w", err)
	}
	return prices, nil
}
