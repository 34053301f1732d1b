package tracker

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// DefaultRatesURL is the spot and historical FX rate source.
const DefaultRatesURL = "https://api.frankfurter.app"

// defaultUSDToEUR seeds the live rate before the first successful fetch.
const defaultUSDToEUR = 0.93

// Rates converts between EUR and USD. It keeps a live rate refreshed at most
// once per calendar day and a persistent per-date cache of historical rates.
// Only the EUR/USD pair is modeled, any other pair converts 1:1 (documented
// limitation of the conversion service, not silently wrong math elsewhere).
//
// Historical lookups degrade rather than fail: a fetch error falls back to
// the latest known live rate so a bad network day never blocks a report.
type Rates struct {
	baseURL string
	client  *http.Client

	mu          sync.Mutex
	usdToEUR    float64
	lastUpdated Date
	hist        map[string]float64 // key "YYYY-MM-DD_USD_EUR", always stored USD->EUR
}

// NewRates returns a rate service talking to the default source.
func NewRates() *Rates {
	return &Rates{
		baseURL:  DefaultRatesURL,
		client:   daily(),
		usdToEUR: defaultUSDToEUR,
		hist:     make(map[string]float64),
	}
}

// NewRatesWith returns a rate service talking to a custom source, used in
// tests against an httptest server.
func NewRatesWith(baseURL string, client *http.Client) *Rates {
	r := NewRates()
	r.baseURL = baseURL
	r.client = client
	return r
}

// rateSnapshot is the persisted form of the live rate.
type rateSnapshot struct {
	USDToEUR    float64 `json:"USDtoEUR"`
	LastUpdated string  `json:"lastUpdated"`
}

func (r *Rates) state() (rateSnapshot, map[string]float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := rateSnapshot{USDToEUR: r.usdToEUR}
	if !r.lastUpdated.IsZero() {
		snap.LastUpdated = r.lastUpdated.String()
	}
	hist := make(map[string]float64, len(r.hist))
	for k, v := range r.hist {
		hist[k] = v
	}
	return snap, hist
}

func (r *Rates) restore(snap rateSnapshot, hist map[string]float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if snap.USDToEUR > 0 {
		r.usdToEUR = snap.USDToEUR
	}
	if snap.LastUpdated != "" {
		if d, err := ParseDate(snap.LastUpdated); err == nil {
			r.lastUpdated = d
		}
	}
	if hist != nil {
		r.hist = hist
	}
}

// Refresh fetches the live USD to EUR rate, at most once per calendar day.
// A fetch failure keeps the previous rate.
func (r *Rates) Refresh() {
	r.mu.Lock()
	last := r.lastUpdated
	r.mu.Unlock()
	if last == Today() {
		return
	}

	addr := fmt.Sprintf("%s/latest?from=USD&to=EUR", r.baseURL)
	rate, err := r.fetch(addr)
	if err != nil {
		log.Warn().Err(err).Msg("live rate fetch failed, keeping previous rate")
		return
	}

	r.mu.Lock()
	r.usdToEUR = rate
	r.lastUpdated = Today()
	r.mu.Unlock()
	log.Debug().Float64("USDtoEUR", rate).Msg("live rate updated")
}

// fetch gets a rate quote and extracts rates.EUR from the response.
func (r *Rates) fetch(addr string) (float64, error) {
	var jobj any
	if err := jwget(r.client, addr, &jobj); err != nil {
		return 0, fmt.Errorf("error in wget %q: %w", addr, err)
	}
	path := "$.rates.EUR"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("error parsing rate response: %q %w", path, err)
	}
	val, ok := jval.(float64)
	if !ok || val <= 0 {
		return 0, fmt.Errorf("error parsing rate response: %q not a positive number: %v", path, jval)
	}
	return val, nil
}

// USDToEUR returns the latest known live rate.
func (r *Rates) USDToEUR() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.usdToEUR
}

// Rate returns the latest live conversion rate between two currencies.
// Identity for same currency, 1 for any pair other than EUR/USD.
func (r *Rates) Rate(from, to string) float64 {
	if from == to {
		return 1
	}
	switch {
	case from == USD && to == EUR:
		return r.USDToEUR()
	case from == EUR && to == USD:
		return 1 / r.USDToEUR()
	default:
		return 1
	}
}

// Convert converts an amount into another currency at the latest live rate.
func (r *Rates) Convert(m Money, to string) Money {
	if m.Currency() == to {
		return m
	}
	rate := r.Rate(m.Currency(), to)
	return Money{value: m.value.Mul(decimal.NewFromFloat(rate)), cur: to, fractional: m.fractional}
}

// RateForDate returns the conversion rate in effect on the given day.
// Dates today or in the future use the live rate. Past dates use the cached
// historical rate, fetching and caching it on first use. A fetch failure
// falls back to the live rate.
func (r *Rates) RateForDate(on Date, from, to string) float64 {
	if from == to {
		return 1
	}
	isUSDToEUR := from == USD && to == EUR
	if !isUSDToEUR && !(from == EUR && to == USD) {
		return 1
	}

	direct := func(usdToEUR float64) float64 {
		if isUSDToEUR {
			return usdToEUR
		}
		return 1 / usdToEUR
	}

	if !on.Before(Today()) {
		return direct(r.USDToEUR())
	}

	key := fmt.Sprintf("%s_USD_EUR", on)
	r.mu.Lock()
	cached, ok := r.hist[key]
	r.mu.Unlock()
	if ok {
		return direct(cached)
	}

	addr := fmt.Sprintf("%s/%s?from=USD&to=EUR", r.baseURL, on)
	rate, err := r.fetch(addr)
	if err != nil {
		log.Warn().Err(err).Stringer("date", on).Msg("historical rate fetch failed, using live rate")
		return direct(r.USDToEUR())
	}

	r.mu.Lock()
	r.hist[key] = rate
	r.mu.Unlock()
	return direct(rate)
}

// ConvertAt converts an amount into another currency at the rate in effect
// on the given day.
func (r *Rates) ConvertAt(on Date, m Money, to string) Money {
	if m.Currency() == to {
		return m
	}
	rate := r.RateForDate(on, m.Currency(), to)
	return Money{value: m.value.Mul(decimal.NewFromFloat(rate)), cur: to, fractional: m.fractional}
}
