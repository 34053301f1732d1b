package tracker

import (
	"fmt"
	"net/http"
	"strings"
)

// DefaultSymbolsURL is the security directory used to resolve ISINs.
const DefaultSymbolsURL = "https://api.openfigi.com/v3"

// Symbols resolves security identifiers against an external directory.
type Symbols struct {
	baseURL string
	client  *http.Client
}

// NewSymbols returns a symbol directory talking to the default source.
func NewSymbols() *Symbols {
	return &Symbols{baseURL: DefaultSymbolsURL, client: daily()}
}

// NewSymbolsWith returns a symbol directory talking to a custom source, used
// in tests against httptest servers.
func NewSymbolsWith(baseURL string, client *http.Client) *Symbols {
	return &Symbols{baseURL: baseURL, client: client}
}

// LookupISIN resolves an ISIN into the security official name and ticker.
func (s *Symbols) LookupISIN(isin string) (name, ticker string, err error) {
	body := []map[string]string{{
		"idType":  "ID_ISIN",
		"idValue": isin,
	}}
	var jobj []struct {
		Data []struct {
			Name   string `json:"name"`
			Ticker string `json:"ticker"`
		} `json:"data"`
	}
	if err := jwpost(s.client, s.baseURL+"/mapping", body, &jobj); err != nil {
		return "", "", fmt.Errorf("error resolving isin %q: %w", isin, err)
	}
	if len(jobj) == 0 || len(jobj[0].Data) == 0 {
		return "", "", fmt.Errorf("isin %q not found", isin)
	}
	return jobj[0].Data[0].Name, jobj[0].Data[0].Ticker, nil
}

// coin is an entry of the static cryptocurrency directory. Coin quote
// sources identify coins by a lowercase id, not by ticker.
type coin struct {
	id     string
	ticker string
	name   string
}

var cryptocurrencies = []coin{
	{"bitcoin", "BTC", "Bitcoin"},
	{"ethereum", "ETH", "Ethereum"},
	{"tether", "USDT", "Tether"},
	{"binancecoin", "BNB", "BNB"},
	{"solana", "SOL", "Solana"},
	{"ripple", "XRP", "XRP"},
	{"usd-coin", "USDC", "USDC"},
	{"cardano", "ADA", "Cardano"},
	{"dogecoin", "DOGE", "Dogecoin"},
	{"avalanche-2", "AVAX", "Avalanche"},
	{"polkadot", "DOT", "Polkadot"},
	{"chainlink", "LINK", "Chainlink"},
	{"matic-network", "MATIC", "Polygon"},
	{"litecoin", "LTC", "Litecoin"},
	{"cosmos", "ATOM", "Cosmos"},
}

// coinByTicker finds a coin by ticker or name, case insensitive.
func coinByTicker(t string) (coin, bool) {
	for _, c := range cryptocurrencies {
		if strings.EqualFold(c.ticker, t) || strings.EqualFold(c.name, t) {
			return c, true
		}
	}
	return coin{}, false
}

// IsKnownCoin reports whether a ticker belongs to the cryptocurrency
// directory.
func IsKnownCoin(ticker string) bool {
	_, ok := coinByTicker(ticker)
	return ok
}
