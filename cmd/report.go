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

// reportCmd generates or displays the monthly report.
type reportCmd struct {
	month string
	csv   bool
	force bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "show the monthly report" }
func (*reportCmd) Usage() string {
	return `pft report [-m <YYYY-MM>] [-csv] [-force]

  Shows the report of a month. Reports of closed months are cached; -force
  regenerates the report from the ledger. -csv writes the spreadsheet form
  to stdout instead of the markdown view.

Usage Example:
$ pft report -m 2024-03 -csv > report.csv
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", tracker.Today().MonthKey(), "Month to report on, as YYYY-MM.")
	f.BoolVar(&c.csv, "csv", false, "Write the report as CSV to stdout.")
	f.BoolVar(&c.force, "force", false, "Regenerate the report even if cached.")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := tracker.ParseMonthKey(c.month)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing month: %v\n", err)
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
	summaries, err := store.LoadSummaries()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	reports, err := store.LoadReports()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	report, cached := tracker.ReportByID(reports, month.MonthKey())
	if !cached || c.force {
		rates.Refresh()
		report = tracker.GenerateReport(ledger, rates, tracker.NewPrices(), summaries, month)
		reports = tracker.UpsertReport(reports, report)
		if err := store.SaveReports(reports); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		if err := store.SaveRates(rates); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}

	if c.csv {
		if err := tracker.ExportReportCSV(os.Stdout, ledger, report); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.Report(ledger, report))
	return subcommands.ExitSuccess
}

// exportCmd writes the transactions of a month as CSV.
type exportCmd struct {
	month string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the transactions of a month as CSV" }
func (*exportCmd) Usage() string {
	return `pft export [-m <YYYY-MM>]

  Writes every cash and investment transaction of a month to stdout as CSV,
  spending and buys negated so the amount column sums to the net movement.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", tracker.Today().MonthKey(), "Month to export, as YYYY-MM.")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := tracker.ParseMonthKey(c.month)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing month: %v\n", err)
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

	if err := tracker.ExportTransactionsCSV(os.Stdout, ledger, month); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
