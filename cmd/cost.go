package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
)

// costCmd records money spent from an account.
type costCmd struct {
	date     string
	account  string
	memo     string
	amount   float64
	category string
	sub      string
	detail   string
}

func (*costCmd) Name() string     { return "cost" }
func (*costCmd) Synopsis() string { return "record an expense" }
func (*costCmd) Usage() string {
	return `pft cost -a <account> -amount <amount> [-d <date>] [-m <memo>] [-c MUST|WANTS] [-sub <category>] [-detail <detail>]

  Records an expense on an account, classified in the must/wants taxonomy.
  New sub-categories and details are added to the custom taxonomy.

Usage Example:
$ pft cost -a "Main Bank" -amount 52.30 -c MUST -sub HOME -detail SUPERMARKET
`
}

func (c *costCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the expense (defaults to today).")
	f.StringVar(&c.account, "a", "", "Account name or id.")
	f.StringVar(&c.memo, "m", "", "Free text description.")
	f.Float64Var(&c.amount, "amount", 0, "Amount spent, in the account currency.")
	f.StringVar(&c.category, "c", string(tracker.Must), "Budget group (MUST or WANTS).")
	f.StringVar(&c.sub, "sub", "OTHER", "Sub-category.")
	f.StringVar(&c.detail, "detail", "OTHER", "Detail within the sub-category.")
}

func (c *costCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	tx := tracker.NewCost(day, c.memo, account.ID,
		tracker.M(c.amount, account.Currency),
		tracker.CostCategory(c.category), c.sub, c.detail)
	if err := ledger.Append(tx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	categories, err := store.LoadCategories()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	categories.AddSubCategory(tracker.CostCategory(c.category), c.sub)
	categories.AddDetail(tracker.CostCategory(c.category), c.sub, c.detail)

	if err := store.SaveLedger(ledger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := store.SaveCategories(categories); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %s expense on %q\n", tracker.M(c.amount, account.Currency), account.Name)
	return subcommands.ExitSuccess
}

// parseDayFlag parses a -d flag value, empty meaning today.
func parseDayFlag(s string) (tracker.Date, error) {
	if s == "" {
		return tracker.Today(), nil
	}
	return tracker.ParseDate(s)
}
