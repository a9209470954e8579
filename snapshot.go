package ordersplit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// The two snapshot files are the only state carried between pipeline
// stages: one holds the order history for a year, the other the
// payee-filtered ledger transactions for a date range. Both are plain
// JSON arrays, indented for diffability.

// DecodeOrders reads an order snapshot from r.
func DecodeOrders(r io.Reader) ([]*Order, error) {
	var orders []*Order
	if err := json.NewDecoder(r).Decode(&orders); err != nil {
		return nil, fmt.Errorf("could not decode order snapshot: %w", err)
	}
	return orders, nil
}

// EncodeOrders writes an order snapshot to w.
func EncodeOrders(w io.Writer, orders []*Order) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(orders); err != nil {
		return fmt.Errorf("could not encode order snapshot: %w", err)
	}
	return nil
}

// DecodeTransactions reads a ledger transaction snapshot from r.
func DecodeTransactions(r io.Reader) ([]LedgerTransaction, error) {
	var txns []LedgerTransaction
	if err := json.NewDecoder(r).Decode(&txns); err != nil {
		return nil, fmt.Errorf("could not decode transaction snapshot: %w", err)
	}
	return txns, nil
}

// EncodeTransactions writes a ledger transaction snapshot to w.
func EncodeTransactions(w io.Writer, txns []LedgerTransaction) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(txns); err != nil {
		return fmt.Errorf("could not encode transaction snapshot: %w", err)
	}
	return nil
}

// LoadOrders opens and decodes the order snapshot file.
func LoadOrders(path string) ([]*Order, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open order snapshot %q: %w", path, err)
	}
	defer f.Close()

	orders, err := DecodeOrders(f)
	if err != nil {
		return nil, fmt.Errorf("in %q: %w", path, err)
	}
	return orders, nil
}

// SaveOrders writes the order snapshot file.
func SaveOrders(path string, orders []*Order) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create order snapshot %q: %w", path, err)
	}
	defer f.Close()
	return EncodeOrders(f, orders)
}

// LoadTransactions opens and decodes the transaction snapshot file.
func LoadTransactions(path string) ([]LedgerTransaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open transaction snapshot %q: %w", path, err)
	}
	defer f.Close()

	txns, err := DecodeTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("in %q: %w", path, err)
	}
	return txns, nil
}

// SaveTransactions writes the transaction snapshot file.
func SaveTransactions(path string, txns []LedgerTransaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create transaction snapshot %q: %w", path, err)
	}
	defer f.Close()
	return EncodeTransactions(f, txns)
}
