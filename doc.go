// Package ordersplit reconciles e-commerce order history against ledger
// transactions, splitting each matched transaction into itemized
// sub-transactions that sum to the original charge.
//
// The core pieces are:
//   - Currency normalization: all monetary math happens in integer
//     milliunits (1/1000 of the major unit) to avoid floating-point drift.
//   - Allocation building: decomposing an order's items, shipping, tax and
//     discounts into signed line items, with small rounding gaps folded
//     into the largest line so totals always close.
//   - Reconciliation: matching ledger transactions to orders by amount,
//     with idempotency guards against reprocessing.
//   - Verification: a final pass that checks every pending update against
//     the ledger's authoritative amount and hands mismatches to a
//     pluggable Prompter for interactive resolution.
//
// Orders and transactions are loaded once per run from two JSON snapshot
// files; the only output is a single batched write to the ledger API plus
// an audit list of items that had no price.
//
// This package is the foundational logic for the `osp` command-line tool.
package ordersplit
