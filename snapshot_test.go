package ordersplit

import (
	"path/filepath"
	"strings"
	"testing"
)

const ordersJSON = `[
  {
    "date": "2025-03-04",
    "order_number": "123-4567890-0000001",
    "grand_total": 25.98,
    "order_details_link": "https://www.amazon.com/gp/your-account/order-details?orderID=123-4567890-0000001",
    "estimated_tax": "0.00",
    "coupon_savings": null,
    "subscription_discount": "None",
    "shipping_total": 5.00,
    "free_shipping": -5.00,
    "items": [
      {"title": "Widget", "price": "12.99", "quantity": 2},
      {"title": "Gadget", "price": "None", "quantity": null}
    ]
  }
]`

const transactionsJSON = `[
  {
    "id": "t1",
    "account_id": "acct-1",
    "date": "2025-03-05",
    "payee_name": "Amazon.com",
    "amount": -25980,
    "memo": null,
    "subtransactions": []
  },
  {
    "id": "t2",
    "account_id": "acct-1",
    "date": "2025-03-06",
    "payee_name": "Amazon Prime",
    "amount": -14990,
    "memo": "prime renewal",
    "subtransactions": [{"amount": -14990, "memo": "split"}]
  }
]`

func TestDecodeOrders(t *testing.T) {
	orders, err := DecodeOrders(strings.NewReader(ordersJSON))
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 1 {
		t.Fatalf("got %d orders, want 1", len(orders))
	}

	o := orders[0]
	if !o.Total.Present() || o.Total.Decimal().String() != "25.98" {
		t.Errorf("total = %v", o.Total)
	}
	if o.Date.String() != "2025-03-04" {
		t.Errorf("date = %s", o.Date)
	}
	// present-with-zero stays distinct from absent
	if !o.EstimatedTax.Present() || !o.EstimatedTax.IsZero() {
		t.Error("estimated_tax should be present and zero")
	}
	if o.CouponSavings.Present() || o.SubscriptionDiscount.Present() {
		t.Error("null and \"None\" adjustments should be absent")
	}
	if len(o.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(o.Items))
	}
	if !o.Items[0].Price.Present() || o.Items[0].Quantity.N() != 2 {
		t.Errorf("item 0 = %+v", o.Items[0])
	}
	if o.Items[1].Price.Present() || o.Items[1].Quantity.N() != 1 {
		t.Errorf("item 1 = %+v", o.Items[1])
	}
}

func TestDecodeTransactions(t *testing.T) {
	txns, err := DecodeTransactions(strings.NewReader(transactionsJSON))
	if err != nil {
		t.Fatal(err)
	}
	if len(txns) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txns))
	}
	if txns[0].Amount != -25980 || txns[0].Memo != "" {
		t.Errorf("t1 = %+v", txns[0])
	}
	if len(txns[1].Subtransactions) != 1 {
		t.Errorf("t2 should keep its existing subtransactions")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()

	orders, err := DecodeOrders(strings.NewReader(ordersJSON))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "orders.json")
	if err := SaveOrders(path, orders); err != nil {
		t.Fatal(err)
	}
	back, err := LoadOrders(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != 1 || back[0].OrderNumber != orders[0].OrderNumber {
		t.Errorf("round trip lost data: %+v", back)
	}
	if !back[0].EstimatedTax.Present() {
		t.Error("present-zero tax should survive the round trip")
	}
	if back[0].CouponSavings.Present() {
		t.Error("absent coupon should survive the round trip as absent")
	}

	txns, err := DecodeTransactions(strings.NewReader(transactionsJSON))
	if err != nil {
		t.Fatal(err)
	}
	tpath := filepath.Join(dir, "transactions.json")
	if err := SaveTransactions(tpath, txns); err != nil {
		t.Fatal(err)
	}
	tback, err := LoadTransactions(tpath)
	if err != nil {
		t.Fatal(err)
	}
	if len(tback) != 2 || tback[0].Amount != -25980 {
		t.Errorf("round trip lost data: %+v", tback)
	}
}

func TestLoadOrders_MissingFile(t *testing.T) {
	if _, err := LoadOrders(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("want an error for a missing snapshot")
	}
}

func TestFilterByPayee(t *testing.T) {
	txns := []LedgerTransaction{
		{ID: "a", PayeeName: "Amazon.com"},
		{ID: "b", PayeeName: "amazon prime"},
		{ID: "c", PayeeName: "Whole Foods"},
		{ID: "d", PayeeName: "AMAZON MKTPLACE"},
	}

	got := FilterByPayee(txns, "Amazon")
	if len(got) != 3 {
		t.Fatalf("got %d transactions, want 3", len(got))
	}
	for _, txn := range got {
		if txn.ID == "c" {
			t.Error("Whole Foods should be filtered out")
		}
	}

	if got := FilterByPayee(txns, ""); len(got) != 4 {
		t.Errorf("empty prefix keeps everything, got %d", len(got))
	}
}
