package ordersplit

import (
	"encoding/json"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// displayCurrency is used for formatting only; all arithmetic is in milliunits.
const displayCurrency = money.USD

// Milliunits is an integer amount in 1/1000 of the major currency unit,
// the ledger's native representation. Negative amounts are expenses.
type Milliunits int64

var thousand = decimal.NewFromInt(1000)

// ToMilliunits converts a decimal amount to milliunits, rounding half away
// from zero: 0.0005 becomes 1 milliunit, -0.0005 becomes -1.
func ToMilliunits(d decimal.Decimal) Milliunits {
	return Milliunits(d.Mul(thousand).Round(0).IntPart())
}

// Decimal returns the amount as a decimal in major units.
func (m Milliunits) Decimal() decimal.Decimal { return decimal.New(int64(m), -3) }

// String renders the amount with two decimal places. Display only, never
// feed the result back into arithmetic.
func (m Milliunits) String() string { return m.Decimal().StringFixed(2) }

// Format renders the amount with the display currency's symbol and grouping.
func (m Milliunits) Format() string {
	// the Money constructor is the only way to get a never-nil currency
	cur := *money.New(0, displayCurrency).Currency()
	units := m.Decimal().Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(units)
}

// Abs returns the magnitude of the amount.
func (m Milliunits) Abs() Milliunits {
	if m < 0 {
		return -m
	}
	return m
}

// Amount is an optional decimal value. Order records distinguish a field
// that is present with value zero from a field that is absent or
// unparseable; Amount preserves that distinction through JSON round trips.
type Amount struct {
	value   decimal.Decimal
	present bool
}

// NewAmount returns a present Amount holding d.
func NewAmount(d decimal.Decimal) Amount { return Amount{value: d, present: true} }

// ParseAmount parses a decimal string into an Amount. Empty, "None" and
// unparseable inputs yield an absent Amount, never an error: absence is a
// legal state tracked by the caller, not a failure.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return Amount{}
	}
	// order snapshots occasionally carry currency symbols and grouping
	s = strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}
	}
	return Amount{value: d, present: true}
}

// Present reports whether the value was present and parseable.
func (a Amount) Present() bool { return a.present }

// IsZero reports whether the value is absent or exactly zero.
func (a Amount) IsZero() bool { return !a.present || a.value.IsZero() }

// Decimal returns the underlying value, zero when absent.
func (a Amount) Decimal() decimal.Decimal { return a.value }

// Milliunits returns the value converted to milliunits, zero when absent.
func (a Amount) Milliunits() Milliunits { return ToMilliunits(a.value) }

// UnmarshalJSON accepts a JSON number, a decimal string, "None" or null.
// Anything unparseable decodes to an absent Amount.
func (a *Amount) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*a = Amount{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = ParseAmount(s)
		return nil
	}
	var d decimal.Decimal
	if err := json.Unmarshal(b, &d); err != nil {
		*a = Amount{}
		return nil
	}
	*a = Amount{value: d, present: true}
	return nil
}

// MarshalJSON encodes a present Amount as a number and an absent one as null.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.present {
		return []byte("null"), nil
	}
	return a.value.MarshalJSON()
}

// Quantity is an optional item count. The zero value means "not specified"
// and counts as one.
type Quantity int

// N returns the effective count, defaulting to 1.
func (q Quantity) N() int {
	if q < 1 {
		return 1
	}
	return int(q)
}

// UnmarshalJSON accepts a JSON number, a numeric string, "None" or null.
// Unparseable input decodes to the unspecified quantity.
func (q *Quantity) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*q = 0
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*q = Quantity(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err == nil {
			*q = Quantity(d.IntPart())
			return nil
		}
	}
	*q = 0
	return nil
}

// MarshalJSON encodes the quantity as a number, null when unspecified.
func (q Quantity) MarshalJSON() ([]byte, error) {
	if q < 1 {
		return []byte("null"), nil
	}
	return json.Marshal(int(q))
}
