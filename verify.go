package ordersplit

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
)

// Mismatch describes an update whose line items do not sum to the
// transaction's authoritative amount within the verify tolerance. It
// carries enough context to reconcile manually outside the system.
type Mismatch struct {
	Update *Update
	// Order is the matched order, nil if the engine lost track of it.
	Order *Order
	// Difference is amount minus subtotal, in milliunits.
	Difference Milliunits
}

// ResolutionAction selects one of the three ways out of a mismatch.
type ResolutionAction int

const (
	// ResolveSkip leaves the transaction unresolved for this run.
	ResolveSkip ResolutionAction = iota
	// ResolveAddItem appends a new line item built from Title, Price and
	// Quantity with the usual sign, rounding and memo rules.
	ResolveAddItem
	// ResolveAdjust appends a manual adjustment line from Delta and Memo.
	// Delta uses the real-world sign convention (negative for credits and
	// refunds) and is negated once more to the ledger's expense-negative
	// convention.
	ResolveAdjust
)

// Resolution is the structured answer to a mismatch prompt.
type Resolution struct {
	Action   ResolutionAction
	Title    string
	Price    decimal.Decimal
	Quantity int
	Delta    decimal.Decimal
	Memo     string
}

// Prompter supplies answers for mismatched updates. The engine blocks on
// each call; substituting a scripted implementation makes the whole run
// headless.
type Prompter interface {
	ResolveMismatch(m Mismatch) (Resolution, error)
}

// VerifyResult is the outcome of the post-build verification pass.
type VerifyResult struct {
	// Accepted are the updates whose lines now sum to their amount
	// within tolerance, including those that needed no fixing.
	Accepted []*Update
	// Unresolved are the updates the user skipped while a gap remained.
	Unresolved []*Update
	// HadMismatch reports whether any update needed intervention.
	HadMismatch bool
}

// HardFailure reports whether the pass failed outright: mismatches were
// found and not a single update verified.
func (v *VerifyResult) HardFailure() bool {
	return v.HadMismatch && len(v.Accepted) == 0
}

// Verify checks every pending update against its authoritative amount.
// Updates within cfg.VerifyTolerance are accepted as-is; the rest are
// handed to the prompter repeatedly until the gap closes or the user
// skips. Only a prompter error aborts the pass.
func Verify(rep *Report, cfg Config, prompter Prompter) (*VerifyResult, error) {
	result := &VerifyResult{}

	for _, upd := range rep.Updates {
		resolved, err := verifyUpdate(rep, cfg, prompter, upd, result)
		if err != nil {
			return result, err
		}
		if resolved {
			result.Accepted = append(result.Accepted, upd)
		} else {
			result.Unresolved = append(result.Unresolved, upd)
		}
	}
	return result, nil
}

// verifyUpdate loops on a single update until it verifies or is skipped.
func verifyUpdate(rep *Report, cfg Config, prompter Prompter, upd *Update, result *VerifyResult) (bool, error) {
	for {
		diff := upd.Amount - upd.Subtotal()
		if diff.Abs() <= cfg.VerifyTolerance {
			return true, nil
		}
		result.HadMismatch = true

		mismatch := Mismatch{
			Update:     upd,
			Order:      rep.MatchedOrders[upd.ID],
			Difference: diff,
		}
		logMismatch(mismatch)

		res, err := prompter.ResolveMismatch(mismatch)
		if err != nil {
			return false, fmt.Errorf("resolving mismatch on transaction %s: %w", upd.ID, err)
		}

		switch res.Action {
		case ResolveAddItem:
			qty := res.Quantity
			if qty < 1 {
				qty = 1
			}
			line := itemLine(res.Title, res.Price, qty)
			line.PayeeName = cfg.PayeeName
			upd.Subtransactions = append(upd.Subtransactions, line)
		case ResolveAdjust:
			memo := res.Memo
			if memo == "" {
				memo = "Manual Adjustment"
			}
			upd.Subtransactions = append(upd.Subtransactions, SubTransaction{
				Amount:    ToMilliunits(res.Delta.Neg()),
				PayeeName: cfg.PayeeName,
				Memo:      memo,
			})
		default:
			return false, nil
		}
	}
}

// logMismatch reports the full mismatch context: raw amounts, computed
// subtotal and every line, so the gap can be chased outside the tool.
func logMismatch(m Mismatch) {
	link := "(unknown order)"
	if m.Order != nil {
		link = m.Order.DetailsLink
	}
	log.Printf("transaction %s amount mismatch:", m.Update.ID)
	log.Printf("  order link: %s", link)
	log.Printf("  transaction amount: %s (%d milliunits)", m.Update.Amount, m.Update.Amount)
	log.Printf("  sum of line items:  %s (%d milliunits)", m.Update.Subtotal(), m.Update.Subtotal())
	for _, line := range m.Update.Subtransactions {
		log.Printf("    %s  %s", line.Amount, line.Memo)
	}
	log.Printf("  difference: %s", m.Difference)
}
