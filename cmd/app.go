// Package cmd implements the CLI application to track personal finances.
package cmd

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Commands lists every subcommand of the application. A main package
// registers them all and executes the user-selected one.
var Commands = []subcommands.Command{
	&accountsCmd{},
	&addAccountCmd{},
	&deleteAccountCmd{},
	&costCmd{},
	&incomeCmd{},
	&transferCmd{},
	&balanceCmd{},
	&txCmd{},
	&addHoldingCmd{},
	&portfolioCmd{},
	&holdingCmd{},
	&buyCmd{},
	&sellCmd{},
	&dividendCmd{},
	&budgetCmd{},
	&summaryCmd{},
	&reportCmd{},
	&exportCmd{},
	&updateCmd{},
	&importCmd{},
	&demoCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to
// use global variables.

var (
	dataDir = flag.String("data", defaultDataDir(), "Path to the data directory")
	verbose = flag.Bool("v", false, "Log engine activity to stderr")
)

func defaultDataDir() string {
	if env := os.Getenv("PFT_DATA"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pft"
	}
	return filepath.Join(home, ".pft")
}

// openStore opens the application data directory.
func openStore() (*tracker.Store, error) {
	if *verbose {
		w := zerolog.ConsoleWriter{Out: os.Stderr}
		tracker.SetLogger(zerolog.New(w).With().Timestamp().Logger())
	}
	return tracker.OpenStore(*dataDir)
}

// loadRates restores the rate service from the store. The caller decides
// whether to Refresh; most read-only commands work from the persisted rate.
func loadRates(store *tracker.Store) (*tracker.Rates, error) {
	rates := tracker.NewRates()
	if err := store.LoadRates(rates); err != nil {
		return nil, err
	}
	return rates, nil
}

// resolveAccount finds an account by id or by name.
func resolveAccount(ledger *tracker.Ledger, ref string) (tracker.Account, bool) {
	if a, ok := ledger.Account(ref); ok {
		return a, true
	}
	return ledger.AccountByName(ref)
}
