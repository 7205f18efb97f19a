package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrder_Creation(t *testing.T) {
	createdAt := time.Now()
	updatedAt := time.Now()
	address := "123 Main St"

	order := Order{
		ID:           1,
		OrderNumber:  "ORD-9F2C41A07B3D",
		CustomerName: "John Doe",
		Email:        "john@example.com",
		Phone:        "1234567890",
		Address:      &address,
		Status:       OrderStatusPending,
		TotalCents:   9999,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}

	assert.Equal(t, uint(1), order.ID)
	assert.Equal(t, "ORD-9F2C41A07B3D", order.OrderNumber)
	assert.Equal(t, "John Doe", order.CustomerName)
	assert.Equal(t, "john@example.com", order.Email)
	assert.Equal(t, "1234567890", order.Phone)
	assert.Equal(t, &address, order.Address)
	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Equal(t, Cents(9999), order.TotalCents)
}

func TestOrder_NullableFields(t *testing.T) {
	order := Order{
		ID:           1,
		CustomerName: "Jane Smith",
		Phone:        "5550001111",
		Status:       OrderStatusPaid,
	}

	assert.Nil(t, order.Address)
	assert.Nil(t, order.Size)
	assert.Nil(t, order.Color)
	assert.Nil(t, order.DeliveryNotes)
}

func TestIsValidOrderStatus(t *testing.T) {
	for _, status := range OrderStatuses {
		assert.True(t, IsValidOrderStatus(status), status)
	}

	assert.False(t, IsValidOrderStatus("shipped"))
	assert.False(t, IsValidOrderStatus("PAID"))
	assert.False(t, IsValidOrderStatus(""))
}

func TestRevenueStatuses(t *testing.T) {
	assert.Equal(t, []string{OrderStatusPaid, OrderStatusCompleted}, RevenueStatuses)
}
