package domain

import "time"

// Phone.Quantity is the stock still available for reservation. Every active
// order item referencing the phone has already been subtracted from it.
type Phone struct {
	ID            uint
	BrandID       uint
	Price         float64
	Quantity      int
	Description   string
	Specification string
	Discount      float64
	Brand         *Brand
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasStockFor reports whether quantity units can still be reserved.
// Reserving exactly the remaining stock is allowed and empties the phone.
func (p Phone) HasStockFor(quantity int) bool {
	return quantity <= p.Quantity
}
