package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atelier/internal/domain"
	"atelier/internal/errors"
	"atelier/internal/testutil"
)

func TestNewMySQLOrderRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLOrderRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func setupOrderRepo(t *testing.T) (*MySQLOrderRepository, *sql.DB) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	return NewMySQLOrderRepository(db), db
}

func insertOrder(t *testing.T, db *sql.DB, orderNumber, name, email, status string, totalCents int64) uint {
	result, err := db.Exec(`
		INSERT INTO Orders (orderNumber, customerName, email, phone, status, totalCents)
		VALUES (?, ?, ?, '1234567890', ?, ?)`,
		orderNumber, name, email, status, totalCents,
	)
	require.NoError(t, err)

	id, err := result.LastInsertId()
	require.NoError(t, err)
	return uint(id)
}

func TestOrderRepository_InsertAndFindByID(t *testing.T) {
	repo, _ := setupOrderRepo(t)

	address := "123 Main St"
	order := &domain.Order{
		OrderNumber:  "ORD-A1B2C3D4E5F6",
		CustomerName: "John Doe",
		Email:        "john@example.com",
		Phone:        "1234567890",
		Address:      &address,
		Status:       domain.OrderStatusPending,
		TotalCents:   5997,
	}

	id, err := repo.Insert(context.Background(), nil, order)
	require.NoError(t, err)
	require.NotZero(t, id)

	found, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, "ORD-A1B2C3D4E5F6", found.OrderNumber)
	assert.Equal(t, "John Doe", found.CustomerName)
	assert.Equal(t, domain.OrderStatusPending, found.Status)
	assert.Equal(t, domain.Cents(5997), found.TotalCents)
	require.NotNil(t, found.Address)
	assert.Equal(t, address, *found.Address)
	assert.Nil(t, found.Size)
}

func TestOrderRepository_FindByID_NotFound(t *testing.T) {
	repo, _ := setupOrderRepo(t)

	order, err := repo.FindByID(context.Background(), 999999)
	assert.Nil(t, order)
	require.Error(t, err)

	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, _ := setupOrderRepo(t)

	err := repo.UpdateStatus(context.Background(), nil, 999999, domain.OrderStatusPaid)
	require.Error(t, err)

	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderRepository_List_StatusFilter(t *testing.T) {
	repo, db := setupOrderRepo(t)
	insertOrder(t, db, "ORD-000000000001", "John Doe", "john@example.com", domain.OrderStatusPending, 100)
	insertOrder(t, db, "ORD-000000000002", "Jane Smith", "jane@example.com", domain.OrderStatusPaid, 200)
	insertOrder(t, db, "ORD-000000000003", "Joan Dark", "joan@example.com", domain.OrderStatusPaid, 300)

	orders, total, err := repo.List(context.Background(), ListQuery{
		Status:   domain.OrderStatusPaid,
		Page:     1,
		PageSize: 10,
		SortBy:   SortByCreatedAt,
		SortDesc: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, total)
	require.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, domain.OrderStatusPaid, o.Status)
	}
}

func TestOrderRepository_List_Search(t *testing.T) {
	repo, db := setupOrderRepo(t)
	insertOrder(t, db, "ORD-AAAA00000001", "John Doe", "john@example.com", domain.OrderStatusPending, 100)
	insertOrder(t, db, "ORD-BBBB00000002", "Jane Smith", "jane@shop.example", domain.OrderStatusPending, 200)

	// Case-insensitive match over customer name.
	orders, total, err := repo.List(context.Background(), ListQuery{
		Search:   "jane",
		Page:     1,
		PageSize: 10,
		SortBy:   SortByCreatedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, "Jane Smith", orders[0].CustomerName)

	// Match over order number.
	orders, total, err = repo.List(context.Background(), ListQuery{
		Search:   "bbbb",
		Page:     1,
		PageSize: 10,
		SortBy:   SortByCreatedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "ORD-BBBB00000002", orders[0].OrderNumber)

	// Match over email.
	_, total, err = repo.List(context.Background(), ListQuery{
		Search:   "shop.example",
		Page:     1,
		PageSize: 10,
		SortBy:   SortByCreatedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestOrderRepository_List_SortByTotal(t *testing.T) {
	repo, db := setupOrderRepo(t)
	insertOrder(t, db, "ORD-000000000001", "A", "a@example.com", domain.OrderStatusPending, 300)
	insertOrder(t, db, "ORD-000000000002", "B", "b@example.com", domain.OrderStatusPending, 100)
	insertOrder(t, db, "ORD-000000000003", "C", "c@example.com", domain.OrderStatusPending, 200)

	orders, _, err := repo.List(context.Background(), ListQuery{
		Page:     1,
		PageSize: 10,
		SortBy:   SortByTotal,
		SortDesc: false,
	})
	require.NoError(t, err)

	require.Len(t, orders, 3)
	assert.Equal(t, domain.Cents(100), orders[0].TotalCents)
	assert.Equal(t, domain.Cents(200), orders[1].TotalCents)
	assert.Equal(t, domain.Cents(300), orders[2].TotalCents)
}

func TestOrderRepository_List_Pagination(t *testing.T) {
	repo, db := setupOrderRepo(t)
	for i := 0; i < 45; i++ {
		insertOrder(t, db,
			fmt.Sprintf("ORD-%012d", i),
			"Customer", "customer@example.com",
			domain.OrderStatusPending, int64(100+i),
		)
	}

	orders, total, err := repo.List(context.Background(), ListQuery{
		Page:     2,
		PageSize: 20,
		SortBy:   SortByCreatedAt,
		SortDesc: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 45, total)
	assert.Len(t, orders, 20)

	orders, total, err = repo.List(context.Background(), ListQuery{
		Page:     3,
		PageSize: 20,
		SortBy:   SortByCreatedAt,
		SortDesc: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 45, total)
	assert.Len(t, orders, 5)
}

func TestOrderRepository_List_Unpaginated(t *testing.T) {
	repo, db := setupOrderRepo(t)
	for i := 0; i < 5; i++ {
		insertOrder(t, db,
			fmt.Sprintf("ORD-%012d", i),
			"Customer", "customer@example.com",
			domain.OrderStatusPending, 100,
		)
	}

	orders, total, err := repo.List(context.Background(), ListQuery{
		SortBy:   SortByCreatedAt,
		SortDesc: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, total)
	assert.Len(t, orders, 5)
}

func TestOrderItemRepository_InsertAndFind(t *testing.T) {
	_, db := setupOrderRepo(t)
	itemRepo := NewMySQLOrderItemRepository(db)

	result, err := db.Exec(`INSERT INTO Product (name, priceCents, stock) VALUES ('Linen Tote', 1999, 5)`)
	require.NoError(t, err)
	productID, err := result.LastInsertId()
	require.NoError(t, err)

	orderID := insertOrder(t, db, "ORD-000000000001", "John Doe", "john@example.com", domain.OrderStatusPending, 5997)

	id, err := itemRepo.Insert(context.Background(), nil, domain.OrderItem{
		OrderID:        orderID,
		ProductID:      int(productID),
		ProductName:    "Linen Tote",
		Quantity:       3,
		UnitPriceCents: 1999,
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	items, err := itemRepo.FindByOrderID(context.Background(), orderID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, int(productID), items[0].ProductID)
	assert.Equal(t, "Linen Tote", items[0].ProductName)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, domain.Cents(1999), items[0].UnitPriceCents)
	assert.Equal(t, domain.Cents(5997), items[0].LineTotal())
}
