package domain

import "time"

type Order struct {
	ID            uint
	OrderNumber   string
	CustomerName  string
	Email         string
	Phone         string
	Address       *string
	Size          *string
	Color         *string
	DeliveryNotes *string
	Status        string
	TotalCents    Cents
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Items         []OrderItem
}

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
	OrderStatusRefunded  = "refunded"
	OrderStatusFailed    = "failed"
)

// OrderStatuses is the allow-list of recognized status labels.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusCompleted,
	OrderStatusCancelled,
	OrderStatusRefunded,
	OrderStatusFailed,
}

// RevenueStatuses are the statuses counted as realized revenue in reporting.
var RevenueStatuses = []string{OrderStatusPaid, OrderStatusCompleted}

func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}
