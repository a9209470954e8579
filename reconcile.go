package ordersplit

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Config carries the knobs of a reconciliation run. It is passed
// explicitly to NewReconciler; nothing is read from ambient state.
type Config struct {
	// PayeeName is stamped on every generated line item.
	PayeeName string
	// DetailsMarker identifies an already-processed transaction by its
	// memo content, the second idempotency guard next to existing
	// subtransactions.
	DetailsMarker string
	// MatchTolerance is the absolute decimal gap below which an order
	// total and a transaction amount are considered the same charge.
	MatchTolerance decimal.Decimal
	// ResidualTolerance is the largest rounding gap, in milliunits,
	// folded into an allocation's largest line.
	ResidualTolerance Milliunits
	// VerifyTolerance is the largest accepted gap, in milliunits, between
	// an update's amount and the sum of its lines at verification.
	VerifyTolerance Milliunits
}

// DefaultConfig returns the configuration matching the order source's
// conventions.
func DefaultConfig() Config {
	return Config{
		PayeeName:         "Amazon",
		DetailsMarker:     "amazon.com/gp/your-account/order-details",
		MatchTolerance:    decimal.New(1, -2),
		ResidualTolerance: 10,
		VerifyTolerance:   1,
	}
}

// Reconciler matches ledger transactions against an order snapshot and
// builds the pending updates for one run. It is single-threaded by
// design: mismatch resolution blocks on interactive I/O.
type Reconciler struct {
	cfg    Config
	orders []*Order
}

// NewReconciler returns a Reconciler over an immutable order snapshot.
func NewReconciler(cfg Config, orders []*Order) *Reconciler {
	return &Reconciler{cfg: cfg, orders: orders}
}

// Match returns the first order whose total equals the transaction
// amount within tolerance, in snapshot encounter order, along with the
// number of candidates. Ties are not disambiguated: first match wins.
func (r *Reconciler) Match(amount Milliunits) (*Order, int) {
	// the transaction is expense-negative, the order total is positive
	want := (-amount).Decimal()
	var first *Order
	count := 0
	for _, order := range r.orders {
		if !order.Total.Present() {
			continue
		}
		if order.Total.Decimal().Sub(want).Abs().LessThan(r.cfg.MatchTolerance) {
			if first == nil {
				first = order
			}
			count++
		}
	}
	return first, count
}

// Report is the in-memory outcome of one reconciliation run.
type Report struct {
	// ID identifies the run in rendered reports and audit output.
	ID string

	// Updates are the pending writes, sorted by item count descending so
	// multi-item allocations surface first for review.
	Updates []*Update

	// Unpriced lists items excluded from allocations for lack of a
	// price, keyed by the order's details link.
	Unpriced map[string][]Item

	// MatchedOrders maps an update's transaction ID to its order, kept
	// for verification context and the assistant.
	MatchedOrders map[string]*Order

	// Unmatched are transactions with no order at their amount. Left for
	// manual handling, not an error.
	Unmatched []LedgerTransaction

	// Ambiguous are transaction IDs where several orders shared the
	// amount; the first was used, flagged here for audit.
	Ambiguous []string

	// SkippedAnnotated counts transactions excluded by the idempotency
	// guards.
	SkippedAnnotated int
}

// Run processes every ledger transaction against the order snapshot and
// returns the run report. Transactions that already carry
// subtransactions or an order link in their memo are skipped so a rerun
// never produces duplicate updates.
func (r *Reconciler) Run(txns []LedgerTransaction) *Report {
	rep := &Report{
		ID:            uuid.NewString(),
		Unpriced:      make(map[string][]Item),
		MatchedOrders: make(map[string]*Order),
	}

	for _, txn := range txns {
		if len(txn.Subtransactions) > 0 {
			log.Printf("skipping transaction %s: already has %d subtransactions", txn.ID, len(txn.Subtransactions))
			rep.SkippedAnnotated++
			continue
		}
		if r.cfg.DetailsMarker != "" && strings.Contains(txn.Memo, r.cfg.DetailsMarker) {
			log.Printf("skipping transaction %s: memo already links an order", txn.ID)
			rep.SkippedAnnotated++
			continue
		}

		order, count := r.Match(txn.Amount)
		if order == nil {
			log.Printf("no order matches transaction %s (%s)", txn.ID, txn.Amount)
			rep.Unmatched = append(rep.Unmatched, txn)
			continue
		}
		if count > 1 {
			log.Printf("transaction %s: %d orders share total %s, using the first", txn.ID, count, txn.Amount.Abs())
			rep.Ambiguous = append(rep.Ambiguous, txn.ID)
		}

		alloc, unpriced := BuildAllocation(order, txn.Amount, r.cfg.ResidualTolerance)
		for i := range alloc {
			alloc[i].PayeeName = r.cfg.PayeeName
		}

		rep.Updates = append(rep.Updates, &Update{
			AccountID:       txn.AccountID,
			ID:              txn.ID,
			Amount:          txn.Amount,
			Memo:            r.memo(txn.Memo, order),
			Subtransactions: alloc,
			NumItems:        len(order.Items),
		})
		rep.MatchedOrders[txn.ID] = order
		if len(unpriced) > 0 {
			rep.Unpriced[order.DetailsLink] = unpriced
		}
	}

	sort.SliceStable(rep.Updates, func(i, j int) bool {
		return rep.Updates[i].NumItems > rep.Updates[j].NumItems
	})
	return rep
}

// memo builds the update memo: the existing memo, the single item's
// title when the order has exactly one item, then the order details link.
func (r *Reconciler) memo(existing string, order *Order) string {
	if len(order.Items) == 1 {
		return strings.TrimSpace(fmt.Sprintf("%s %s - %s", existing, truncateTitle(order.Items[0].Title), order.DetailsLink))
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s", existing, order.DetailsLink))
}
