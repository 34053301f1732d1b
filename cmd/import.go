package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
)

// importCmd rebuilds the ledger from legacy spreadsheet export files.
type importCmd struct {
	expenses    string
	dividends   string
	investments string
	monthEnd    string
	force       bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import legacy spreadsheet export files" }
func (*importCmd) Usage() string {
	return `pft import [-expenses <file>] [-dividends <file>] [-investments <file>] [-monthend <file>] [-force]

  Rebuilds the whole ledger from legacy export files: expense logs, dividend
  logs, investment logs and month-end statements. At least one file is
  required. The import replaces accounts, transactions, holdings and
  summaries; replacing a non-empty ledger requires -force. Initial balances
  are solved so that current balances match the last statement.

Usage Example:
$ pft import -expenses expenses.json -monthend monthend.json
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.expenses, "expenses", "", "Expense log file (JSON).")
	f.StringVar(&c.dividends, "dividends", "", "Dividend log file (JSON).")
	f.StringVar(&c.investments, "investments", "", "Investment log file (JSON).")
	f.StringVar(&c.monthEnd, "monthend", "", "Month-end statement file (JSON).")
	f.BoolVar(&c.force, "force", false, "Replace a non-empty ledger.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var readErr error
	read := func(path string) []byte {
		if path == "" || readErr != nil {
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			readErr = err
		}
		return b
	}

	logs, err := tracker.ParseImportLogs(read(c.expenses), read(c.dividends), read(c.investments), read(c.monthEnd))
	if readErr != nil {
		fmt.Fprintln(os.Stderr, readErr)
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	store, err := openStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if !c.force {
		existing, err := store.LoadLedger()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		for range existing.Accounts() {
			fmt.Fprintln(os.Stderr, "Error: the ledger is not empty, use -force to replace it")
			return subcommands.ExitUsageError
		}
	}
	rates, err := loadRates(store)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	rates.Refresh()

	result, err := logs.Import(rates)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	ledger := tracker.NewLedger()
	ledger.Replace(result.Accounts, result.Transactions, result.Holdings, result.Investments)
	if err := store.SaveLedger(ledger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := store.SaveCategories(result.Categories); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := store.SaveSummaries(result.Summaries); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	// cached reports describe the replaced ledger
	if err := store.SaveReports([]tracker.ReportData{}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := store.SaveRates(rates); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Imported %d accounts, %d transactions, %d holdings, %d trades, %d summaries\n",
		len(result.Accounts), len(result.Transactions), len(result.Holdings),
		len(result.Investments), len(result.Summaries))
	fmt.Println("Run 'pft update' to resolve imported holdings and fetch prices.")
	return subcommands.ExitSuccess
}

// demoCmd seeds the store with a small demo ledger.
type demoCmd struct{}

func (*demoCmd) Name() string     { return "demo" }
func (*demoCmd) Synopsis() string { return "seed the data directory with demo data" }
func (*demoCmd) Usage() string {
	return `pft demo

  Replaces the ledger with a small generated data set covering the last
  three months, useful to explore the tool.
`
}
func (*demoCmd) SetFlags(f *flag.FlagSet) {}

func (c *demoCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := openStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := store.SaveLedger(tracker.DemoLedger()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	// summaries, reports and categories from a previous ledger do not
	// describe the demo data
	if err := store.SaveSummaries([]tracker.MonthlySummary{}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := store.SaveReports([]tracker.ReportData{}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := store.SaveCategories(tracker.CustomCategories{}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println("Demo data written. Try 'pft accounts' or 'pft portfolio'.")
	return subcommands.ExitSuccess
}
