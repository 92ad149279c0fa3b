package domain

import (
	"time"
)

// Design is a catalog entry: a monogram design shoppers can favorite and
// add to their cart.
type Design struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url"`
	Price       *int64    `json:"price,omitempty"` // cents; nil means "price on request"
	Category    string    `json:"category,omitempty"`
	IsFeatured  bool      `json:"is_featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PriceOrZero returns the price in cents, or 0 when the design has no price.
func (d *Design) PriceOrZero() int64 {
	if d == nil || d.Price == nil {
		return 0
	}
	return *d.Price
}

// DesignFilter narrows a catalog listing. A zero Limit means no limit.
type DesignFilter struct {
	FeaturedOnly bool
	Limit        int
}
