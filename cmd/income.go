package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
)

// incomeCmd records money received into an account.
type incomeCmd struct {
	date    string
	account string
	memo    string
	amount  float64
	typ     string
}

func (*incomeCmd) Name() string     { return "income" }
func (*incomeCmd) Synopsis() string { return "record an income" }
func (*incomeCmd) Usage() string {
	return `pft income -a <account> -amount <amount> [-d <date>] [-m <memo>] [-t Work|Extra]

  Records an income on an account.

Usage Example:
$ pft income -a "Main Bank" -amount 3200 -t Work -m "Salary"
`
}

func (c *incomeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the income (defaults to today).")
	f.StringVar(&c.account, "a", "", "Account name or id.")
	f.StringVar(&c.memo, "m", "", "Free text description.")
	f.Float64Var(&c.amount, "amount", 0, "Amount received, in the account currency.")
	f.StringVar(&c.typ, "t", string(tracker.Work), "Income type (Work or Extra).")
}

func (c *incomeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	account, ok := resolveAccount(ledger, c.account)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown account %q\n", c.account)
		return subcommands.ExitUsageError
	}

	tx := tracker.NewIncome(day, c.memo, account.ID,
		tracker.M(c.amount, account.Currency), tracker.IncomeType(c.typ))
	if err := ledger.Append(tx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := store.SaveLedger(ledger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %s income on %q\n", tracker.M(c.amount, account.Currency), account.Name)
	return subcommands.ExitSuccess
}
