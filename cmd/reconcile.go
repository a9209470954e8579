package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/ogerman/ordersplit"
	"github.com/ogerman/ordersplit/renderer"
)

type reconcileCmd struct {
	yes     bool
	dryRun  bool
	preview int
}

func (*reconcileCmd) Name() string { return "reconcile" }
func (*reconcileCmd) Synopsis() string {
	return "match transactions against orders and upload itemized splits"
}
func (*reconcileCmd) Usage() string {
	return `osp reconcile [-dry-run] [-y] [-preview <n>]

  Matches each snapshot transaction against the order history by amount,
  builds an itemized split per match, verifies every split interactively,
  and uploads the accepted ones in a single batched write.

Usage Examples:
# See what would happen without touching the budget.
$ osp reconcile -dry-run

# Reconcile without the final confirmation prompt.
$ osp reconcile -y
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "Upload without asking for confirmation.")
	f.BoolVar(&c.dryRun, "dry-run", false, "Print the report and stop before verification and upload.")
	f.IntVar(&c.preview, "preview", 10, "Maximum number of planned updates shown in the report, 0 for all.")
}

func (c *reconcileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	orders, err := LoadOrders()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	txns, err := LoadTransactions()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	cfg := ordersplit.DefaultConfig()
	rep := ordersplit.NewReconciler(cfg, orders).Run(txns)
	printMarkdown(renderer.Report(rep, c.preview))

	if c.dryRun {
		return subcommands.ExitSuccess
	}
	if len(rep.Updates) == 0 {
		fmt.Println("Nothing to upload.")
		return subcommands.ExitSuccess
	}

	prompter := newConsolePrompter(os.Stdin)
	result, err := ordersplit.Verify(rep, cfg, prompter)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if result.HardFailure() {
		fmt.Fprintln(os.Stderr, "Error: no update verified, nothing uploaded.")
		return subcommands.ExitFailure
	}
	if len(result.Unresolved) > 0 {
		fmt.Printf("Skipping %d unresolved transaction(s).\n", len(result.Unresolved))
	}
	if len(result.Accepted) == 0 {
		fmt.Println("Nothing to upload.")
		return subcommands.ExitSuccess
	}

	if !c.yes && !prompter.Confirm(fmt.Sprintf("Upload %d update(s) to budget %q?", len(result.Accepted), budgetID())) {
		fmt.Println("Aborted.")
		return subcommands.ExitSuccess
	}

	if err := ordersplit.PatchTransactions(budgetID(), result.Accepted); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("✅ Uploaded %d update(s).\n", len(result.Accepted))
	return subcommands.ExitSuccess
}
