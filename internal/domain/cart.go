package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is a per-session mapping of product id to cart entry.
// Keys are product UUIDs in string form so the cart serializes to a flat
// JSON object in the session store.
type Cart map[string]CartEntry

// CartEntry holds the quantity for one product plus display fields cached
// at add-to-cart time. The cached price is never used for pricing; summaries
// and checkout always read the current catalog price.
type CartEntry struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image"`
	Quantity int             `json:"quantity"`
}

// TotalQuantity sums the quantities across all entries.
// Entries with a non-positive quantity are ignored.
func (c Cart) TotalQuantity() int {
	total := 0
	for _, entry := range c {
		if entry.Quantity > 0 {
			total += entry.Quantity
		}
	}
	return total
}

// IsEmpty reports whether the cart has no entries
func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// CartLine is one priced line in a cart summary. Price and Subtotal carry
// the exact decimal values; rounding to two places happens at the transport
// boundary.
type CartLine struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
	ImageURL string          `json:"image"`
}

// CartSummary is the full priced view of a cart against the current catalog
type CartSummary struct {
	Items      []CartLine      `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	TotalQty   int             `json:"total_qty"`
}
