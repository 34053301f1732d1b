package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
)

// tradeFlags holds the flags shared by the buy and sell subcommands.
type tradeFlags struct {
	date     string
	ticker   string
	account  string
	quantity float64
	price    float64
	tcost    float64
}

func (c *tradeFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the trade (defaults to today).")
	f.StringVar(&c.ticker, "t", "", "Ticker of the holding.")
	f.StringVar(&c.account, "a", "", "Settlement account name or id.")
	f.Float64Var(&c.quantity, "q", 0, "Quantity traded.")
	f.Float64Var(&c.price, "price", 0, "Price per unit, in the holding currency.")
	f.Float64Var(&c.tcost, "tcost", 0, "Transaction cost, embedded in the settled amount.")
}

// record validates and appends a trade. Buys settle quantity*price+tcost,
// sells quantity*price-tcost.
func (c *tradeFlags) record(typ tracker.InvTxType) subcommands.ExitStatus {
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

	h, ok := ledger.HoldingByTicker(c.ticker)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown holding %q\n", c.ticker)
		return subcommands.ExitUsageError
	}
	account, ok := resolveAccount(ledger, c.account)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown account %q\n", c.account)
		return subcommands.ExitUsageError
	}

	total := c.quantity * c.price
	if typ == tracker.CmdBuy {
		total += c.tcost
	} else {
		total -= c.tcost
	}
	tx := tracker.NewTrade(typ, day, h.ID, account.ID,
		tracker.Q(c.quantity), tracker.M(c.price, h.Currency), tracker.M(total, h.Currency))
	if err := ledger.AppendInvestment(tx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := store.SaveLedger(ledger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %s of %s x %s, settled %s on %q\n",
		typ, tx.Quantity, tx.PricePerUnit, tx.TotalAmount, account.Name)
	return subcommands.ExitSuccess
}

type buyCmd struct{ tradeFlags }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a purchase of a holding" }
func (*buyCmd) Usage() string {
	return `pft buy -t <ticker> -a <account> -q <quantity> -price <price> [-tcost <cost>] [-d <date>]

  Records a buy. The settlement account is debited quantity*price+tcost in
  the holding's currency, converted if the account uses another currency.

Usage Example:
$ pft buy -t AAPL -a "Brokerage" -q 5 -price 178.25 -tcost 1
`
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.record(tracker.CmdBuy)
}

type sellCmd struct{ tradeFlags }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sale of a holding" }
func (*sellCmd) Usage() string {
	return `pft sell -t <ticker> -a <account> -q <quantity> -price <price> [-tcost <cost>] [-d <date>]

  Records a sell. The settlement account is credited quantity*price-tcost.
`
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.record(tracker.CmdSell)
}

// dividendCmd records a cash dividend paid by a holding.
type dividendCmd struct {
	date    string
	ticker  string
	account string
	amount  float64
}

func (*dividendCmd) Name() string     { return "dividend" }
func (*dividendCmd) Synopsis() string { return "record a dividend payment" }
func (*dividendCmd) Usage() string {
	return `pft dividend -t <ticker> -a <account> -amount <amount> [-d <date>]

  Records a cash dividend, credited to the settlement account.
`
}

func (c *dividendCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the payment (defaults to today).")
	f.StringVar(&c.ticker, "t", "", "Ticker of the holding.")
	f.StringVar(&c.account, "a", "", "Settlement account name or id.")
	f.Float64Var(&c.amount, "amount", 0, "Cash amount, in the holding currency.")
}

func (c *dividendCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	h, ok := ledger.HoldingByTicker(c.ticker)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown holding %q\n", c.ticker)
		return subcommands.ExitUsageError
	}
	account, ok := resolveAccount(ledger, c.account)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown account %q\n", c.account)
		return subcommands.ExitUsageError
	}

	tx := tracker.NewDividend(day, h.ID, account.ID, tracker.M(c.amount, h.Currency))
	if err := ledger.AppendInvestment(tx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := store.SaveLedger(ledger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %s dividend from %s on %q\n", tx.TotalAmount, h.Ticker, account.Name)
	return subcommands.ExitSuccess
}
