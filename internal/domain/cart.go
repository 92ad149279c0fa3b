package domain

import "time"

// CartItem is one design in a viewer's cart. Quantity is always at least 1.
type CartItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	DesignID  string    `json:"design_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Design    *Design   `json:"design,omitempty"`
}

// Subtotal is price × quantity in cents. A missing design or a design
// without a price contributes 0.
func (c CartItem) Subtotal() int64 {
	return c.Design.PriceOrZero() * int64(c.Quantity)
}

// ItemCount returns the sum of quantities across items.
func ItemCount(items []CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// TotalCents returns the sum of line subtotals.
func TotalCents(items []CartItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Subtotal()
	}
	return total
}
