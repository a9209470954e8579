package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/ogerman/ordersplit/renderer"
)

type txCmd struct {
	head int
	tail int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions in the local snapshot" }
func (*txCmd) Usage() string {
	return `osp tx [-head <n>] [-tail <n>]

  Lists the transactions from the snapshot file as a table.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N transactions.")
}

func (c *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.head > 0 && c.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}

	txns, err := LoadTransactions()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	if c.head > 0 && len(txns) > c.head {
		txns = txns[:c.head]
	}
	if c.tail > 0 && len(txns) > c.tail {
		txns = txns[len(txns)-c.tail:]
	}

	printMarkdown(renderer.Transactions(txns))
	return subcommands.ExitSuccess
}

type ordersCmd struct{}

func (*ordersCmd) Name() string     { return "orders" }
func (*ordersCmd) Synopsis() string { return "list the orders in the local snapshot" }
func (*ordersCmd) Usage() string {
	return `osp orders

  Lists the orders from the snapshot file as a table, with a count of
  items that have no readable price.
`
}

func (*ordersCmd) SetFlags(f *flag.FlagSet) {}

func (*ordersCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	orders, err := LoadOrders()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Orders(orders))
	return subcommands.ExitSuccess
}
