package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atelier/internal/domain"
	"atelier/internal/testutil"
)

func setupReportRepo(t *testing.T) (*MySQLRepository, *sql.DB) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	return NewMySQLRepository(db), db
}

func seedOrder(t *testing.T, db *sql.DB, orderNumber, status string, totalCents int64) uint {
	result, err := db.Exec(`
		INSERT INTO Orders (orderNumber, customerName, email, phone, status, totalCents)
		VALUES (?, 'Customer', 'customer@example.com', '1234567890', ?, ?)`,
		orderNumber, status, totalCents,
	)
	require.NoError(t, err)

	id, err := result.LastInsertId()
	require.NoError(t, err)
	return uint(id)
}

func weekAgo() time.Time {
	return time.Now().AddDate(0, 0, -7)
}

func TestSummary_ZeroOrders(t *testing.T) {
	repo, _ := setupReportRepo(t)

	row, err := repo.Summary(context.Background(), weekAgo())
	require.NoError(t, err)

	assert.Equal(t, domain.Cents(0), row.RevenueCents)
	assert.Equal(t, 0, row.RevenueOrders)
	assert.Equal(t, 0, row.TotalOrders)
	assert.Equal(t, domain.Cents(0), row.PendingValueCents)
}

func TestSummary_RevenueCountingSet(t *testing.T) {
	repo, db := setupReportRepo(t)
	seedOrder(t, db, "ORD-000000000001", domain.OrderStatusPaid, 1000)
	seedOrder(t, db, "ORD-000000000002", domain.OrderStatusCompleted, 2000)
	seedOrder(t, db, "ORD-000000000003", domain.OrderStatusPending, 4000)
	seedOrder(t, db, "ORD-000000000004", domain.OrderStatusCancelled, 8000)

	row, err := repo.Summary(context.Background(), weekAgo())
	require.NoError(t, err)

	// Only paid and completed count as revenue; pending value is separate.
	assert.Equal(t, domain.Cents(3000), row.RevenueCents)
	assert.Equal(t, 2, row.RevenueOrders)
	assert.Equal(t, 4, row.TotalOrders)
	assert.Equal(t, domain.Cents(4000), row.PendingValueCents)
}

func TestStatusCounts(t *testing.T) {
	repo, db := setupReportRepo(t)
	seedOrder(t, db, "ORD-000000000001", domain.OrderStatusPaid, 1000)
	seedOrder(t, db, "ORD-000000000002", domain.OrderStatusPaid, 2000)
	seedOrder(t, db, "ORD-000000000003", domain.OrderStatusFailed, 500)

	counts, err := repo.StatusCounts(context.Background(), weekAgo())
	require.NoError(t, err)

	byStatus := make(map[string]int)
	for _, sc := range counts {
		byStatus[sc.Status] = sc.Count
	}
	assert.Equal(t, 2, byStatus[domain.OrderStatusPaid])
	assert.Equal(t, 1, byStatus[domain.OrderStatusFailed])
}

func TestDailyRevenue_BucketsByDay(t *testing.T) {
	repo, db := setupReportRepo(t)
	seedOrder(t, db, "ORD-000000000001", domain.OrderStatusPaid, 1000)
	seedOrder(t, db, "ORD-000000000002", domain.OrderStatusCompleted, 500)
	seedOrder(t, db, "ORD-000000000003", domain.OrderStatusPending, 9000)

	buckets, err := repo.DailyRevenue(context.Background(), weekAgo())
	require.NoError(t, err)

	// All seeded today: one bucket, revenue from the revenue set only,
	// order count from every status.
	require.Len(t, buckets, 1)
	assert.Equal(t, domain.Cents(1500), buckets[0].RevenueCents)
	assert.Equal(t, 3, buckets[0].Orders)
}

func TestTopProducts_RanksByRevenue(t *testing.T) {
	repo, db := setupReportRepo(t)

	res, err := db.Exec(`INSERT INTO Product (name, priceCents, stock) VALUES ('Linen Tote', 1999, 50)`)
	require.NoError(t, err)
	tote, _ := res.LastInsertId()

	res, err = db.Exec(`INSERT INTO Product (name, priceCents, stock) VALUES ('Wool Scarf', 2990, 50)`)
	require.NoError(t, err)
	scarf, _ := res.LastInsertId()

	paidOrder := seedOrder(t, db, "ORD-000000000001", domain.OrderStatusPaid, 0)
	pendingOrder := seedOrder(t, db, "ORD-000000000002", domain.OrderStatusPending, 0)

	insertItem := func(orderID uint, productID int64, name string, quantity int, price int64) {
		_, err := db.Exec(`
			INSERT INTO OrderItems (orderId, productId, productName, quantity, unitPriceCents)
			VALUES (?, ?, ?, ?, ?)`,
			orderID, productID, name, quantity, price,
		)
		require.NoError(t, err)
	}

	insertItem(paidOrder, tote, "Linen Tote", 2, 1999)  // 3998
	insertItem(paidOrder, scarf, "Wool Scarf", 3, 2990) // 8970
	insertItem(pendingOrder, tote, "Linen Tote", 100, 1999)

	products, err := repo.TopProducts(context.Background(), weekAgo(), 10)
	require.NoError(t, err)

	// Pending orders do not count; scarf revenue ranks first.
	require.Len(t, products, 2)
	assert.Equal(t, "Wool Scarf", products[0].ProductName)
	assert.Equal(t, domain.Cents(8970), products[0].RevenueCents)
	assert.Equal(t, 3, products[0].UnitsSold)
	assert.Equal(t, "Linen Tote", products[1].ProductName)
	assert.Equal(t, domain.Cents(3998), products[1].RevenueCents)
}
