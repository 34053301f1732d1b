package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
)

// transferCmd moves money between two accounts, converting currencies at
// today's rate when they differ.
type transferCmd struct {
	date   string
	from   string
	to     string
	memo   string
	amount float64
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move money between two accounts" }
func (*transferCmd) Usage() string {
	return `pft transfer -from <account> -to <account> -amount <amount> [-d <date>] [-m <memo>]

  Moves money between two accounts. When the currencies differ, the credited
  amount is converted at today's rate and frozen in the transaction.

Usage Example:
$ pft transfer -from "Main Bank" -to "Brokerage" -amount 500
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the transfer (defaults to today).")
	f.StringVar(&c.from, "from", "", "Source account name or id.")
	f.StringVar(&c.to, "to", "", "Destination account name or id.")
	f.StringVar(&c.memo, "m", "", "Free text description.")
	f.Float64Var(&c.amount, "amount", 0, "Amount to move, in the source account currency.")
}

func (c *transferCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := parseDayFlag(c.date)
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
	rates, err := loadRates(store)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	rates.Refresh()

	from, ok := resolveAccount(ledger, c.from)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown account %q\n", c.from)
		return subcommands.ExitUsageError
	}
	to, ok := resolveAccount(ledger, c.to)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown account %q\n", c.to)
		return subcommands.ExitUsageError
	}

	tx, err := ledger.MoveFunds(rates, day, c.memo, from.ID, to.ID, tracker.M(c.amount, from.Currency))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := store.SaveLedger(ledger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := store.SaveRates(rates); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Moved %s from %q to %q (credited %s)\n", tx.Amount, from.Name, to.Name, tx.ToAmount)
	return subcommands.ExitSuccess
}
