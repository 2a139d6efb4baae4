package domain

import "github.com/shopspring/decimal"

// CartLine is a product held in the cart. Quantity is always at least 1.
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price * quantity for the line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Snapshot is a read-only copy of the store state plus derived totals.
type Snapshot struct {
	Version       uint64     `json:"version"`
	CartItems     []CartLine `json:"cart_items"`
	WishlistItems []Product  `json:"wishlist_items"`
	TotalPrice    string     `json:"total_price"`
	// ItemCount is the number of cart lines, shown as the cart badge.
	ItemCount int `json:"item_count"`
	UnitCount int `json:"unit_count"`
}

// TotalPrice sums price * quantity over lines, rounded to two places.
func TotalPrice(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total.Round(2)
}

// FormatPrice renders d with exactly two decimals.
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// UnitCount returns the sum of quantities over lines.
func UnitCount(lines []CartLine) int {
	var n int
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

// Quantity returns the cart quantity for id, or 0 when it is not in the cart.
func (s Snapshot) Quantity(id ProductID) int {
	id = id.Canonical()
	for _, l := range s.CartItems {
		if l.ID == id {
			return l.Quantity
		}
	}
	return 0
}

// Wishlisted reports whether id is in the wishlist.
func (s Snapshot) Wishlisted(id ProductID) bool {
	id = id.Canonical()
	for _, p := range s.WishlistItems {
		if p.ID == id {
			return true
		}
	}
	return false
}
