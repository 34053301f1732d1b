package renderer

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/etnz/tracker"
)

// fixture returns the demo ledger and a rate service pointing at a dead
// source, so conversions use the built-in default rate and tests stay
// offline.
func fixture(t *testing.T) (*tracker.Ledger, *tracker.Rates) {
	t.Helper()
	server := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(server.Close)
	return tracker.DemoLedger(), tracker.NewRatesWith(server.URL, server.Client())
}

func TestAccounts(t *testing.T) {
	ledger, rates := fixture(t)
	md := Accounts(ledger, rates)
	for _, want := range []string{"# Accounts", "| Main Bank (EUR) |", "| Brokerage (USD) |", "**Total cash**"} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q in:\n%s", want, md)
		}
	}
}

func TestHoldings(t *testing.T) {
	ledger, rates := fixture(t)
	md := Holdings(tracker.Summaries(ledger, rates))
	for _, want := range []string{"# Portfolio", "| AAPL |", "| BTC |", "**Total market value**"} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q in:\n%s", want, md)
		}
	}

	if got := Holdings(nil); !strings.Contains(got, "No holdings yet.") {
		t.Errorf("unexpected empty rendering %q", got)
	}
}

func TestTransactions(t *testing.T) {
	ledger, _ := fixture(t)
	month := tracker.Today().StartOfMonth().AddMonth(-1)
	md := Transactions(ledger, month)
	if !strings.Contains(md, "| Date | Description | Amount | Details |") {
		t.Errorf("missing table header in:\n%s", md)
	}

	empty := Transactions(tracker.NewLedger(), tracker.NewDate(1999, time.January, 1))
	if empty != "No transactions this month.\n" {
		t.Errorf("unexpected empty rendering %q", empty)
	}
}

func TestSummariesAndBudget(t *testing.T) {
	sums := []tracker.MonthlySummary{{ID: "2024-03", Year: 2024, Month: 3}}
	if md := Summaries(sums); !strings.Contains(md, "| 2024-03 |") {
		t.Errorf("missing summary row in:\n%s", md)
	}
	if md := Summaries(nil); !strings.Contains(md, "No summaries yet.") {
		t.Errorf("unexpected empty rendering %q", md)
	}

	md := Budget(tracker.DefaultBudget())
	for _, want := range []string{"# Budget", "| Musts | 50.00% |", "| Savings | 20.00% |"} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q in:\n%s", want, md)
		}
	}
}
