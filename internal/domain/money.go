package domain

import "github.com/shopspring/decimal"

// Cents is a monetary amount in currency minor units. All arithmetic on
// money happens on this type; conversion to major units is display-only.
type Cents int64

// Decimal returns the exact major-unit value (cents / 100).
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}
