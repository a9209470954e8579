// Package renderer formats reconciliation reports and snapshots as
// markdown, for terminal display or piping into files.
package renderer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ogerman/ordersplit"
)

// mdRenderer accumulates a markdown document.
type mdRenderer struct {
	*strings.Builder
}

// Printf formats according to a format specifier and writes to the renderer's buffer.
func (r *mdRenderer) Printf(format string, args ...any) {
	fmt.Fprintf(r, format, args...)
}

func newRenderer() *mdRenderer {
	return &mdRenderer{Builder: &strings.Builder{}}
}

// Report renders the outcome of a reconciliation run. The first preview
// updates are shown line by line; preview <= 0 shows all of them.
func Report(rep *ordersplit.Report, preview int) string {
	r := newRenderer()
	r.Printf("# Reconciliation %s\n\n", rep.ID)
	r.renderSummary(rep)

	if len(rep.Updates) > 0 {
		shown := rep.Updates
		if preview > 0 && preview < len(shown) {
			shown = shown[:preview]
		}
		r.Printf("## Planned Updates\n\n")
		for _, upd := range shown {
			r.renderUpdate(upd, rep.MatchedOrders[upd.ID])
		}
		if hidden := len(rep.Updates) - len(shown); hidden > 0 {
			r.Printf("... and %d more update(s) not shown.\n\n", hidden)
		}
	}

	r.renderUnmatched(rep)
	r.renderAmbiguous(rep)
	r.renderUnpriced(rep)
	return r.String()
}

func (r *mdRenderer) renderSummary(rep *ordersplit.Report) {
	r.Printf("| Metric | Count |\n")
	r.Printf("|:---|---:|\n")
	r.Printf("| Updates planned | %d |\n", len(rep.Updates))
	r.Printf("| Already annotated | %d |\n", rep.SkippedAnnotated)
	r.Printf("| Unmatched transactions | %d |\n", len(rep.Unmatched))
	r.Printf("| Ambiguous matches | %d |\n", len(rep.Ambiguous))
	r.Printf("| Orders with unpriced items | %d |\n", len(rep.Unpriced))
	r.Printf("\n")
}

func (r *mdRenderer) renderUpdate(upd *ordersplit.Update, o *ordersplit.Order) {
	r.Printf("### %s %s (%d items)\n\n", upd.ID, upd.Amount.Format(), upd.NumItems)
	if o != nil {
		r.Printf("Order %s of %s\n\n", o.OrderNumber, o.Date)
	}
	r.Printf("| Line | Amount |\n")
	r.Printf("|:---|---:|\n")
	for _, line := range upd.Subtransactions {
		r.Printf("| %s | %s |\n", line.Memo, line.Amount.Format())
	}
	r.Printf("| **Total** | **%s** |\n\n", upd.Subtotal().Format())
}

func (r *mdRenderer) renderUnmatched(rep *ordersplit.Report) {
	if len(rep.Unmatched) == 0 {
		return
	}
	r.Printf("## Unmatched Transactions\n\n")
	r.Printf("| ID | Date | Payee | Amount |\n")
	r.Printf("|:---|:---|:---|---:|\n")
	for _, txn := range rep.Unmatched {
		r.Printf("| %s | %s | %s | %s |\n", txn.ID, txn.Date, txn.PayeeName, txn.Amount.Format())
	}
	r.Printf("\n")
}

func (r *mdRenderer) renderAmbiguous(rep *ordersplit.Report) {
	if len(rep.Ambiguous) == 0 {
		return
	}
	r.Printf("## Ambiguous Matches\n\n")
	r.Printf("These transactions matched more than one order; the first match was used.\n\n")
	for _, id := range rep.Ambiguous {
		r.Printf("* %s\n", id)
	}
	r.Printf("\n")
}

func (r *mdRenderer) renderUnpriced(rep *ordersplit.Report) {
	if len(rep.Unpriced) == 0 {
		return
	}
	r.Printf("## Unpriced Items\n\n")
	r.Printf("The scraper could not read a price for these items; their orders were annotated without them.\n\n")

	links := make([]string, 0, len(rep.Unpriced))
	for link := range rep.Unpriced {
		links = append(links, link)
	}
	sort.Strings(links)
	for _, link := range links {
		r.Printf("* %s\n", link)
		for _, it := range rep.Unpriced[link] {
			r.Printf("  * %s\n", it.Title)
		}
	}
	r.Printf("\n")
}

// Transactions renders a ledger transaction snapshot as a markdown table.
func Transactions(txns []ordersplit.LedgerTransaction) string {
	r := newRenderer()
	r.Printf("| Date | Payee | Amount | Lines | Memo |\n")
	r.Printf("|:---|:---|---:|---:|:---|\n")
	for _, txn := range txns {
		r.Printf("| %s | %s | %s | %d | %s |\n",
			txn.Date, txn.PayeeName, txn.Amount.Format(), len(txn.Subtransactions), txn.Memo)
	}
	return r.String()
}

// Orders renders an order snapshot as a markdown table.
func Orders(orders []*ordersplit.Order) string {
	r := newRenderer()
	r.Printf("| Date | Order | Total | Items | Unpriced |\n")
	r.Printf("|:---|:---|---:|---:|---:|\n")
	for _, o := range orders {
		unpriced := 0
		for _, it := range o.Items {
			if !it.Price.Present() {
				unpriced++
			}
		}
		total := "?"
		if o.Total.Present() {
			total = o.Total.Milliunits().Format()
		}
		r.Printf("| %s | %s | %s | %d | %d |\n", o.Date, o.OrderNumber, total, len(o.Items), unpriced)
	}
	return r.String()
}
