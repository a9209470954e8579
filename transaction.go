package ordersplit

import (
	"strings"

	"github.com/ogerman/ordersplit/date"
)

// SubTransaction is one split line of a ledger transaction, both as read
// from the ledger and as written back in an Update.
type SubTransaction struct {
	Amount    Milliunits `json:"amount"`
	PayeeName string     `json:"payee_name,omitempty"`
	Memo      string     `json:"memo"`
}

// LedgerTransaction is a ledger entry as returned by the ledger API.
// Amount is in milliunits, negative for expenses.
type LedgerTransaction struct {
	ID              string           `json:"id"`
	AccountID       string           `json:"account_id"`
	Date            date.Date        `json:"date"`
	PayeeName       string           `json:"payee_name"`
	Amount          Milliunits       `json:"amount"`
	Memo            string           `json:"memo"`
	Subtransactions []SubTransaction `json:"subtransactions,omitempty"`
}

// Update is the pending modification for one matched transaction,
// destined for a single batched write.
type Update struct {
	AccountID       string     `json:"account_id"`
	ID              string     `json:"id"`
	Amount          Milliunits `json:"amount"`
	Memo            string     `json:"memo"`
	Subtransactions Allocation `json:"subtransactions"`

	// NumItems orders the review: multi-item allocations surface first.
	// It is not part of the ledger payload.
	NumItems int `json:"-"`
}

// Subtotal sums the update's split lines.
func (u *Update) Subtotal() Milliunits { return u.Subtransactions.Sum() }

// FilterByPayee keeps the transactions whose payee name starts with
// prefix, case-insensitively. An empty prefix keeps everything.
func FilterByPayee(txns []LedgerTransaction, prefix string) []LedgerTransaction {
	if prefix == "" {
		return txns
	}
	lower := strings.ToLower(prefix)
	var kept []LedgerTransaction
	for _, txn := range txns {
		if strings.HasPrefix(strings.ToLower(txn.PayeeName), lower) {
			kept = append(kept, txn)
		}
	}
	return kept
}
