package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
)

// updateCmd refreshes the live exchange rate and every holding's price.
type updateCmd struct{}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "refresh exchange rates and holding prices" }
func (*updateCmd) Usage() string {
	return `pft update

  Fetches the live exchange rate and a fresh price for every holding.
  Holdings flagged for review are resolved against the symbol directory
  first. Sources that fail leave the previous price untouched.
`
}
func (*updateCmd) SetFlags(f *flag.FlagSet) {}

func (c *updateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	rates.Refresh()
	updated := tracker.RefreshPrices(ledger, tracker.NewSymbols(), tracker.NewPrices())

	if err := store.SaveLedger(ledger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := store.SaveRates(rates); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if len(updated) == 0 {
		fmt.Println("All prices already up to date.")
		return subcommands.ExitSuccess
	}
	for _, h := range updated {
		fmt.Printf("%s: %s\n", h.Ticker, h.CurrentPrice)
	}
	return subcommands.ExitSuccess
}
