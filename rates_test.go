package tracker

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateServer(t *testing.T, hits *atomic.Int32, handler func(w http.ResponseWriter, r *http.Request)) *Rates {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return NewRatesWith(server.URL, server.Client())
}

func TestRatesRefresh(t *testing.T) {
	var hits atomic.Int32
	rates := rateServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "USD", r.URL.Query().Get("from"))
		assert.Equal(t, "EUR", r.URL.Query().Get("to"))
		fmt.Fprint(w, `{"amount":1,"base":"USD","rates":{"EUR":0.87}}`)
	})

	rates.Refresh()
	assert.Equal(t, 0.87, rates.USDToEUR())

	// at most one live fetch per day
	rates.Refresh()
	assert.Equal(t, int32(1), hits.Load())
}

func TestRatesRefreshKeepsPreviousRateOnFailure(t *testing.T) {
	var hits atomic.Int32
	rates := rateServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})

	rates.Refresh()
	assert.Equal(t, defaultUSDToEUR, rates.USDToEUR())
}

func TestRatesRateDirections(t *testing.T) {
	rates := testRates(0.8, nil)
	assert.Equal(t, 1.0, rates.Rate(EUR, EUR))
	assert.Equal(t, 0.8, rates.Rate(USD, EUR))
	assert.InDelta(t, 1.25, rates.Rate(EUR, USD), 1e-9)
	// unsupported pairs convert 1:1
	assert.Equal(t, 1.0, rates.Rate("GBP", EUR))
}

func TestRateForDateFetchesAndCaches(t *testing.T) {
	day := NewDate(2024, time.June, 3)
	var hits atomic.Int32
	rates := rateServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2024-06-03", r.URL.Path)
		fmt.Fprint(w, `{"amount":1,"base":"USD","date":"2024-06-03","rates":{"EUR":0.75}}`)
	})

	require.Equal(t, 0.75, rates.RateForDate(day, USD, EUR))
	// second lookup comes from the cache
	require.Equal(t, 0.75, rates.RateForDate(day, USD, EUR))
	assert.Equal(t, int32(1), hits.Load())
	// the inverse direction uses the same cached quote
	assert.InDelta(t, 1/0.75, rates.RateForDate(day, EUR, USD), 1e-9)
}

func TestRateForDateFallsBackToLiveRate(t *testing.T) {
	var hits atomic.Int32
	rates := rateServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	rates.usdToEUR = 0.91

	got := rates.RateForDate(NewDate(2024, time.June, 3), USD, EUR)
	assert.Equal(t, 0.91, got)
}

func TestRateForDateTodayUsesLiveRate(t *testing.T) {
	var hits atomic.Int32
	rates := rateServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		t.Error("today's rate must not hit the historical endpoint")
	})
	rates.usdToEUR = 0.93

	assert.Equal(t, 0.93, rates.RateForDate(Today(), USD, EUR))
	assert.Equal(t, 0.93, rates.RateForDate(Today().Add(5), USD, EUR))
	assert.Equal(t, int32(0), hits.Load())
}

func TestRatesStateRoundTrip(t *testing.T) {
	rates := testRates(0.88, map[string]float64{histKey("2024-06-03"): 0.75})
	snap, hist := rates.state()

	restored := NewRates()
	restored.restore(snap, hist)
	assert.Equal(t, 0.88, restored.USDToEUR())
	assert.Equal(t, 0.75, restored.RateForDate(NewDate(2024, time.June, 3), USD, EUR))
}
