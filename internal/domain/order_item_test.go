package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderItem_LineTotal(t *testing.T) {
	item := OrderItem{
		ProductID:      7,
		ProductName:    "Linen Tote",
		Quantity:       3,
		UnitPriceCents: 1999,
	}

	assert.Equal(t, Cents(5997), item.LineTotal())
}

func TestOrderItem_LineTotal_SingleUnit(t *testing.T) {
	item := OrderItem{Quantity: 1, UnitPriceCents: 450}

	assert.Equal(t, Cents(450), item.LineTotal())
}

func TestProduct_CanSatisfy(t *testing.T) {
	p := Product{ID: 1, Stock: 5}

	assert.True(t, p.CanSatisfy(5))
	assert.True(t, p.CanSatisfy(3))
	assert.False(t, p.CanSatisfy(6))
	assert.False(t, p.CanSatisfy(-1))
}
