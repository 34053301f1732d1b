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

// budgetCmd shows or adjusts the monthly budget rule.
type budgetCmd struct {
	income float64
	must   float64
	wants  float64
}

func (*budgetCmd) Name() string     { return "budget" }
func (*budgetCmd) Synopsis() string { return "show or adjust the monthly budget rule" }
func (*budgetCmd) Usage() string {
	return `pft budget [-income <amount>] [-must <pct>] [-wants <pct>]

  Without flags, shows the budget rule and the monthly amounts it allows.
  With flags, adjusts the rule; shares are clamped so must+wants never
  exceeds 100, savings takes the remainder.

Usage Example:
$ pft budget -income 3200 -must 55
`
}

func (c *budgetCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.income, "income", -1, "Expected monthly net income in euros.")
	f.Float64Var(&c.must, "must", -1, "Must share in percent.")
	f.Float64Var(&c.wants, "wants", -1, "Wants share in percent.")
}

func (c *budgetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := openStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	budget, err := store.LoadBudget()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	changed := false
	if c.income >= 0 {
		budget.SetIncome(tracker.M(c.income, tracker.EUR))
		changed = true
	}
	if c.must >= 0 {
		budget.SetMust(tracker.Percent(c.must))
		changed = true
	}
	if c.wants >= 0 {
		budget.SetWants(tracker.Percent(c.wants))
		changed = true
	}
	if changed {
		if err := store.SaveBudget(budget); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}

	printMarkdown(renderer.Budget(budget))
	return subcommands.ExitSuccess
}
