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

// txCmd lists the transactions of a month.
type txCmd struct {
	month string
}

func (*txCmd) Name() string     { return "transactions" }
func (*txCmd) Synopsis() string { return "list the transactions of a month" }
func (*txCmd) Usage() string {
	return `pft transactions [-m <YYYY-MM>]

  Lists every cash and investment transaction of a month in chronological
  order.

Usage Example:
$ pft transactions -m 2024-03
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", tracker.Today().MonthKey(), "Month to list, as YYYY-MM.")
}

func (c *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := tracker.ParseMonthKey(c.month)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
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

	printMarkdown(renderer.Transactions(ledger, month))
	return subcommands.ExitSuccess
}
