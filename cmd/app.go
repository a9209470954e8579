// Package cmd implements the CLI application to itemize ledger
// transactions from an order history.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/ogerman/ordersplit"
)

// Commands lists every subcommand. A main package registers them all on
// a commander and executes the user-selected one.
var Commands = []subcommands.Command{
	subcommands.HelpCommand(),
	subcommands.FlagsCommand(),
	subcommands.CommandsCommand(),
	&fetchCmd{},
	&reconcileCmd{},
	&txCmd{},
	&ordersCmd{},
	&topicCmd{},
	&assistCmd{},
}

// As a CLI application it has a very short lived lifecycle, so it is ok
// to use global variables for the shared flags.

var ordersFile = flag.String("orders-file", "orders.json", "Path to the order snapshot file (JSON)")
var transactionsFile = flag.String("transactions-file", "transactions.json", "Path to the transaction snapshot file (JSON)")
var budgetFlag = flag.String("budget-id", "", "Budget to read and write.\n If missing it will read from the environment variable \"YNAB_BUDGET_ID\", then fall back to 'last-used'")

// budgetID resolves the budget from the flag, the environment, or the
// API's 'last-used' alias.
func budgetID() string {
	if *budgetFlag == "" {
		*budgetFlag = os.Getenv("YNAB_BUDGET_ID")
	}
	if *budgetFlag == "" {
		*budgetFlag = "last-used"
	}
	return *budgetFlag
}

// LoadOrders loads the order snapshot from the app orders file.
func LoadOrders() ([]*ordersplit.Order, error) {
	return ordersplit.LoadOrders(*ordersFile)
}

// LoadTransactions loads the transaction snapshot from the app transactions file.
func LoadTransactions() ([]ordersplit.LedgerTransaction, error) {
	return ordersplit.LoadTransactions(*transactionsFile)
}

// printMarkdown renders markdown for the terminal, falling back to the
// raw text when rendering fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Println(out)
}
