package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"atelier/internal/domain"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

// SummaryRow is the raw aggregate over the trailing window. Revenue counts
// only the revenue-counting status set; COALESCE keeps a zero-order window a
// row of zeros, not an error.
type SummaryRow struct {
	RevenueCents      domain.Cents
	RevenueOrders     int
	TotalOrders       int
	PendingValueCents domain.Cents
}

type StatusCount struct {
	Status string
	Count  int
}

type DailyBucket struct {
	Day          string
	RevenueCents domain.Cents
	Orders       int
}

type TopProduct struct {
	ProductID    int
	ProductName  string
	UnitsSold    int
	RevenueCents domain.Cents
}

// revenueSet renders the revenue-counting status set as SQL placeholders.
func revenueSet() (string, []interface{}) {
	placeholders := make([]string, len(domain.RevenueStatuses))
	args := make([]interface{}, len(domain.RevenueStatuses))
	for i, s := range domain.RevenueStatuses {
		placeholders[i] = "?"
		args[i] = s
	}
	return strings.Join(placeholders, ", "), args
}

func (r *MySQLRepository) Summary(ctx context.Context, since time.Time) (*SummaryRow, error) {
	in, inArgs := revenueSet()
	query := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(CASE WHEN status IN (%s) THEN totalCents ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status IN (%s) THEN 1 ELSE 0 END), 0),
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = ? THEN totalCents ELSE 0 END), 0)
		FROM Orders
		WHERE createdAt >= ?`, in, in)

	args := append(append(append([]interface{}{}, inArgs...), inArgs...),
		domain.OrderStatusPending, since)

	var row SummaryRow
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&row.RevenueCents, &row.RevenueOrders, &row.TotalOrders, &row.PendingValueCents,
	)
	if err != nil {
		return nil, fmt.Errorf("querying sales summary: %w", err)
	}

	return &row, nil
}

func (r *MySQLRepository) StatusCounts(ctx context.Context, since time.Time) ([]StatusCount, error) {
	query := `
		SELECT status, COUNT(*)
		FROM Orders
		WHERE createdAt >= ?
		GROUP BY status
	`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("querying status counts: %w", err)
	}
	defer rows.Close()

	var counts []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("scanning status count row: %w", err)
		}
		counts = append(counts, sc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status count rows: %w", err)
	}

	return counts, nil
}

func (r *MySQLRepository) DailyRevenue(ctx context.Context, since time.Time) ([]DailyBucket, error) {
	in, inArgs := revenueSet()
	query := fmt.Sprintf(`
		SELECT
			DATE(createdAt),
			COALESCE(SUM(CASE WHEN status IN (%s) THEN totalCents ELSE 0 END), 0),
			COUNT(*)
		FROM Orders
		WHERE createdAt >= ?
		GROUP BY DATE(createdAt)
		ORDER BY DATE(createdAt)`, in)

	args := append(append([]interface{}{}, inArgs...), since)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying daily revenue: %w", err)
	}
	defer rows.Close()

	var buckets []DailyBucket
	for rows.Next() {
		var b DailyBucket
		if err := rows.Scan(&b.Day, &b.RevenueCents, &b.Orders); err != nil {
			return nil, fmt.Errorf("scanning daily revenue row: %w", err)
		}
		buckets = append(buckets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating daily revenue rows: %w", err)
	}

	return buckets, nil
}

func (r *MySQLRepository) TopProducts(ctx context.Context, since time.Time, limit int) ([]TopProduct, error) {
	in, inArgs := revenueSet()
	query := fmt.Sprintf(`
		SELECT
			oi.productId,
			oi.productName,
			SUM(oi.quantity),
			SUM(oi.quantity * oi.unitPriceCents)
		FROM OrderItems oi
		JOIN Orders o ON o.id = oi.orderId
		WHERE o.status IN (%s)
		  AND o.createdAt >= ?
		GROUP BY oi.productId, oi.productName
		ORDER BY SUM(oi.quantity * oi.unitPriceCents) DESC
		LIMIT ?`, in)

	args := append(append([]interface{}{}, inArgs...), since, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying top products: %w", err)
	}
	defer rows.Close()

	var products []TopProduct
	for rows.Next() {
		var tp TopProduct
		if err := rows.Scan(&tp.ProductID, &tp.ProductName, &tp.UnitsSold, &tp.RevenueCents); err != nil {
			return nil, fmt.Errorf("scanning top product row: %w", err)
		}
		products = append(products, tp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating top product rows: %w", err)
	}

	return products, nil
}
