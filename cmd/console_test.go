package cmd

import (
	"strings"
	"testing"

	"github.com/ogerman/ordersplit"
)

func mismatch() ordersplit.Mismatch {
	return ordersplit.Mismatch{
		Update:     &ordersplit.Update{ID: "t1", Amount: -10000},
		Difference: -1500,
	}
}

func TestConsolePrompter_AddItem(t *testing.T) {
	p := newConsolePrompter(strings.NewReader("1\nForgotten Sponge\n1.50\n2\n"))

	res, err := p.ResolveMismatch(mismatch())
	if err != nil {
		t.Fatal(err)
	}
	if res.Action != ordersplit.ResolveAddItem {
		t.Fatalf("action = %v, want add item", res.Action)
	}
	if res.Title != "Forgotten Sponge" || res.Price.String() != "1.5" || res.Quantity != 2 {
		t.Errorf("resolution = %+v", res)
	}
}

func TestConsolePrompter_AddItemDefaultQuantity(t *testing.T) {
	p := newConsolePrompter(strings.NewReader("1\nSoap\n3.00\n\n"))

	res, err := p.ResolveMismatch(mismatch())
	if err != nil {
		t.Fatal(err)
	}
	if res.Quantity != 1 {
		t.Errorf("quantity = %d, want the default 1", res.Quantity)
	}
}

func TestConsolePrompter_Adjustment(t *testing.T) {
	p := newConsolePrompter(strings.NewReader("2\n-2.00\n\n"))

	res, err := p.ResolveMismatch(mismatch())
	if err != nil {
		t.Fatal(err)
	}
	if res.Action != ordersplit.ResolveAdjust {
		t.Fatalf("action = %v, want adjust", res.Action)
	}
	if res.Delta.String() != "-2" || res.Memo != "" {
		t.Errorf("resolution = %+v", res)
	}
}

func TestConsolePrompter_AdjustmentWithPlusSign(t *testing.T) {
	p := newConsolePrompter(strings.NewReader("2\n+2.50\ngift wrap\n"))

	res, err := p.ResolveMismatch(mismatch())
	if err != nil {
		t.Fatal(err)
	}
	if res.Delta.String() != "2.5" || res.Memo != "gift wrap" {
		t.Errorf("resolution = %+v", res)
	}
}

func TestConsolePrompter_SkipAndGarbage(t *testing.T) {
	for _, input := range []string{"3\n", "\n", "nope\n"} {
		p := newConsolePrompter(strings.NewReader(input))
		res, err := p.ResolveMismatch(mismatch())
		if err != nil {
			t.Fatal(err)
		}
		if res.Action != ordersplit.ResolveSkip {
			t.Errorf("input %q: action = %v, want skip", input, res.Action)
		}
	}
}

func TestConsolePrompter_BadPriceSkips(t *testing.T) {
	p := newConsolePrompter(strings.NewReader("1\nSoap\nabc\n"))

	res, err := p.ResolveMismatch(mismatch())
	if err != nil {
		t.Fatal(err)
	}
	if res.Action != ordersplit.ResolveSkip {
		t.Errorf("action = %v, want skip on an unparseable price", res.Action)
	}
}

func TestConsolePrompter_Confirm(t *testing.T) {
	testCases := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"\n", false},
		{"whatever\n", false},
	}
	for _, tc := range testCases {
		p := newConsolePrompter(strings.NewReader(tc.in))
		if got := p.Confirm("upload?"); got != tc.want {
			t.Errorf("Confirm with %q = %v, want %v", tc.in, got, tc.want)
		}
	}
}
