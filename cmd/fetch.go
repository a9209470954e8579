package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/ogerman/ordersplit"
	"github.com/ogerman/ordersplit/date"
)

type fetchCmd struct {
	since string
	payee string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "download ledger transactions into the local snapshot" }
func (*fetchCmd) Usage() string {
	return `osp fetch [-since <date>] [-payee <prefix>]

  Downloads the budget's transactions, keeps those whose payee starts
  with the given prefix, and writes them to the transaction snapshot.

Usage Examples:
# Fetch the last month of Amazon transactions.
$ osp fetch

# Fetch everything since March for another payee.
$ osp fetch -since 2025-03-01 -payee "Whole Foods"
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.since, "since", "", "Only fetch transactions on or after this date. Defaults to 30 days ago.")
	f.StringVar(&c.payee, "payee", "Amazon", "Keep only transactions whose payee starts with this prefix. Empty keeps all.")
}

func (c *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	since := date.Today().Add(-30)
	if c.since != "" {
		var err error
		since, err = date.Parse(c.since)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -since: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	txns, err := ordersplit.FetchTransactions(budgetID(), since)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	kept := ordersplit.FilterByPayee(txns, c.payee)

	if err := ordersplit.SaveTransactions(*transactionsFile, kept); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Fetched %d transactions since %s, kept %d for payee %q in %s\n",
		len(txns), since, len(kept), c.payee, *transactionsFile)

	// The order snapshot comes from the external order-history scraper;
	// report its coverage so a stale file gets noticed now, not at
	// reconcile time.
	if orders, err := LoadOrders(); err == nil {
		fmt.Printf("Order snapshot %s holds %d orders.\n", *ordersFile, len(orders))
	} else {
		fmt.Printf("No usable order snapshot at %s yet.\n", *ordersFile)
	}
	return subcommands.ExitSuccess
}
