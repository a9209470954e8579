package ordersplit

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Allocation is the itemized decomposition of one ledger transaction's
// total into signed line items. Invariant: after residual reconciliation
// its sum equals the transaction's authoritative amount whenever the gap
// is within tolerance.
type Allocation []SubTransaction

// Sum returns the total of all line items.
func (a Allocation) Sum() Milliunits {
	var total Milliunits
	for _, line := range a {
		total += line.Amount
	}
	return total
}

// largest returns the index of the line with the greatest magnitude,
// first occurrence on ties.
func (a Allocation) largest() int {
	best := 0
	for i, line := range a {
		if line.Amount.Abs() > a[best].Amount.Abs() {
			best = i
		}
	}
	return best
}

// titleRunes caps item titles in memos. First 40 runes regardless of
// display width; this is a presentation approximation.
const titleRunes = 40

// shippingNetThreshold is the one-cent-equivalent below which a net
// shipping charge is considered noise and emitted as no line at all.
const shippingNetThreshold = Milliunits(10)

// truncateTitle cuts an item title to the first titleRunes runes.
func truncateTitle(title string) string {
	r := []rune(title)
	if len(r) > titleRunes {
		r = r[:titleRunes]
	}
	return string(r)
}

// itemMemo formats a line-item memo from a title and an effective count.
func itemMemo(title string, qty int) string {
	if qty > 1 {
		return fmt.Sprintf("%s... (Qty: %d)", truncateTitle(title), qty)
	}
	return truncateTitle(title) + "..."
}

// itemLine builds the cost line for a priced item: price times quantity,
// converted to milliunits once, negated for the expense convention.
func itemLine(title string, price decimal.Decimal, qty int) SubTransaction {
	amount := ToMilliunits(price.Mul(decimal.NewFromInt(int64(qty))).Neg())
	return SubTransaction{Amount: amount, Memo: itemMemo(title, qty)}
}

// adjustmentLine builds a single fixed-memo line for an adjustment field.
// The raw field value is sign-flipped: charges (tax, shipping) are
// positive in the order record and become negative expense lines, while
// discounts are negative in the order record and become positive lines.
func adjustmentLine(value Amount, memo string) SubTransaction {
	return SubTransaction{Amount: ToMilliunits(value.Decimal().Neg()), Memo: memo}
}

// BuildAllocation decomposes an order into line items against the ledger
// transaction's authoritative amount. Items without a usable price are
// returned separately for manual review; their cost is simply absent from
// the allocation.
//
// If the allocation is non-empty and its sum misses the target by no more
// than residual milliunits, the whole difference is folded into the
// largest-magnitude line so the allocation closes exactly. Larger gaps
// are left for the verification pass.
func BuildAllocation(order *Order, target Milliunits, residual Milliunits) (Allocation, []Item) {
	var alloc Allocation
	var unpriced []Item

	for _, item := range order.Items {
		if !item.Price.Present() {
			unpriced = append(unpriced, item)
			continue
		}
		alloc = append(alloc, itemLine(item.Title, item.Price.Decimal(), item.Quantity.N()))
	}

	// Shipping counts only when the net of the raw charge and the free
	// shipping discount exceeds one cent in magnitude. Both lines come
	// from the raw fields, not the net, so each stays traceable while
	// their sum equals the net.
	if order.ShippingTotal.Present() && !order.ShippingTotal.IsZero() {
		net := order.ShippingTotal.Decimal()
		if order.FreeShipping.Present() {
			// free shipping is itself non-positive
			net = net.Add(order.FreeShipping.Decimal())
		}
		if ToMilliunits(net).Abs() > shippingNetThreshold {
			alloc = append(alloc, adjustmentLine(order.ShippingTotal, "Shipping Cost"))
			if order.FreeShipping.Present() && !order.FreeShipping.IsZero() {
				alloc = append(alloc, adjustmentLine(order.FreeShipping, "Free Shipping Discount"))
			}
		}
	}

	for _, adj := range []struct {
		value Amount
		memo  string
	}{
		{order.CouponSavings, "Coupon Savings"},
		{order.SubscriptionDiscount, "Subscription Discount"},
		{order.EstimatedTax, "Sales Tax"},
	} {
		if adj.value.Present() && !adj.value.IsZero() {
			alloc = append(alloc, adjustmentLine(adj.value, adj.memo))
		}
	}

	// Residual reconciliation. An empty allocation has nothing to adjust.
	if len(alloc) > 0 {
		diff := target - alloc.Sum()
		if diff != 0 && diff.Abs() <= residual {
			alloc[alloc.largest()].Amount += diff
		}
	}

	return alloc, unpriced
}
