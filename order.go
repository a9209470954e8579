package ordersplit

import (
	"github.com/ogerman/ordersplit/date"
)

// Item is a single order line from the order-history snapshot. Price can
// legitimately be absent (bundles, gift cards, promotions); such items are
// excluded from allocations and surfaced in the unpriced audit list instead.
type Item struct {
	Title    string   `json:"title"`
	Price    Amount   `json:"price"`
	Quantity Quantity `json:"quantity"`
}

// Order is one purchase from the order-history snapshot, read-only input
// to the reconciliation run. The six adjustment fields are optional:
// "present but zero" and "absent" are distinct states (see Amount).
type Order struct {
	Date        date.Date `json:"date"`
	OrderNumber string    `json:"order_number"`
	Total       Amount    `json:"grand_total"`
	DetailsLink string    `json:"order_details_link"`

	EstimatedTax         Amount `json:"estimated_tax"`
	CouponSavings        Amount `json:"coupon_savings"`
	SubscriptionDiscount Amount `json:"subscription_discount"`
	ShippingTotal        Amount `json:"shipping_total"`
	FreeShipping         Amount `json:"free_shipping"`

	// Carried from the order source for audit and the assistant; these do
	// not participate in allocation.
	RefundTotal Amount `json:"refund_total,omitempty"`
	GiftCard    Amount `json:"gift_card,omitempty"`
	GiftWrap    Amount `json:"gift_wrap,omitempty"`

	Items []Item `json:"items"`
}
