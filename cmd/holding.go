package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
)

// addHoldingCmd declares a new investment holding.
type addHoldingCmd struct {
	name     string
	ticker   string
	typ      string
	currency string
	isin     string
	price    float64
}

func (*addHoldingCmd) Name() string     { return "add-holding" }
func (*addHoldingCmd) Synopsis() string { return "declare a new investment holding" }
func (*addHoldingCmd) Usage() string {
	return `pft add-holding -ticker <ticker> [-name <name>] [-type <type>] [-cur <currency>] [-isin <isin>] [-price <price>]

  Declares a holding so that trades can reference it.

Usage Example:
$ pft add-holding -ticker AAPL -name "Apple Inc." -type Stock -cur USD
`
}

func (c *addHoldingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Holding display name (defaults to the ticker).")
	f.StringVar(&c.ticker, "ticker", "", "Ticker symbol.")
	f.StringVar(&c.typ, "type", string(tracker.Stock), "Investment type (Stock, ETF, Crypto).")
	f.StringVar(&c.currency, "cur", tracker.USD, "Quote currency (EUR or USD).")
	f.StringVar(&c.isin, "isin", "", "ISIN, used to resolve the official name on update.")
	f.Float64Var(&c.price, "price", 0, "Current price per unit.")
}

func (c *addHoldingCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" {
		fmt.Fprintln(os.Stderr, "Error: -ticker is required")
		return subcommands.ExitUsageError
	}
	if c.name == "" {
		c.name = c.ticker
	}
	store, err := openStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	ledger, err := store.LoadLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	h := tracker.NewHolding(c.name, c.ticker, tracker.InvestmentType(c.typ), c.currency)
	h.ISIN = c.isin
	if c.price > 0 {
		h.CurrentPrice = tracker.M(c.price, c.currency)
	}
	if err := ledger.AddHolding(h); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := store.SaveLedger(ledger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created holding %s (%s)\n", h.Ticker, h.ID)
	return subcommands.ExitSuccess
}

// portfolioCmd shows every position with returns and allocation.
type portfolioCmd struct{}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "show investment positions and returns" }
func (*portfolioCmd) Usage() string {
	return `pft portfolio

  Shows every open position with its market value, total return (native and
  in euros) and share of the portfolio.
`
}
func (*portfolioCmd) SetFlags(f *flag.FlagSet) {}

func (c *portfolioCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := openStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	ledger, err := store.LoadLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	rates, err := loadRates(store)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.Holdings(tracker.Summaries(ledger, rates)))
	if err := store.SaveRates(rates); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// holdingCmd shows the details of one holding.
type holdingCmd struct {
	ticker string
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "show the details of one holding" }
func (*holdingCmd) Usage() string {
	return `pft holding -t <ticker>

  Shows the full position of a holding: cost basis, proceeds, dividends,
  market value and the trade history.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Ticker of the holding.")
}

func (c *holdingCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := openStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	ledger, err := store.LoadLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	rates, err := loadRates(store)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	h, ok := ledger.HoldingByTicker(c.ticker)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown holding %q\n", c.ticker)
		return subcommands.ExitUsageError
	}
	printMarkdown(renderer.HoldingDetail(ledger, tracker.Summarize(ledger, rates, h)))
	if err := store.SaveRates(rates); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
