package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCents_String(t *testing.T) {
	assert.Equal(t, "19.99", Cents(1999).String())
	assert.Equal(t, "0.00", Cents(0).String())
	assert.Equal(t, "0.01", Cents(1).String())
	assert.Equal(t, "100.00", Cents(10000).String())
	assert.Equal(t, "-5.50", Cents(-550).String())
}

func TestCents_Decimal_Exact(t *testing.T) {
	// 0.1 + 0.2 style drift must not exist: 10 + 20 cents is exactly 30.
	sum := Cents(10).Decimal().Add(Cents(20).Decimal())
	assert.True(t, sum.Equal(decimal.New(30, -2)))
}
