package domain

// OrderItem is one line of an order. UnitPriceCents and ProductName are
// snapshots taken at order-creation time; later catalog changes never
// affect them.
type OrderItem struct {
	ID             uint
	OrderID        uint
	ProductID      int
	ProductName    string
	Quantity       int
	UnitPriceCents Cents
}

// LineTotal is the snapshotted unit price times quantity, in minor units.
func (i OrderItem) LineTotal() Cents {
	return i.UnitPriceCents * Cents(i.Quantity)
}
