package domain

import "time"

type Product struct {
	ID         int
	Name       string
	Category   string
	Material   string
	PriceCents Cents
	Stock      int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CanSatisfy reports whether current stock covers a demand of quantity units.
func (p Product) CanSatisfy(quantity int) bool {
	return quantity >= 0 && p.Stock >= quantity
}
