package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"atelier/internal/domain"
	"atelier/internal/errors"
)

// ListQuery is the filter/sort/pagination input for order listings. A
// PageSize <= 0 disables pagination (used by the CSV export).
type ListQuery struct {
	Status   string
	Search   string
	Page     int
	PageSize int
	SortBy   string
	SortDesc bool
}

const (
	SortByCreatedAt = "createdAt"
	SortByStatus    = "status"
	SortByTotal     = "total"
)

// sortColumns is the allow-list of sortable columns. Anything else falls
// back to creation time.
var sortColumns = map[string]string{
	SortByCreatedAt: "createdAt",
	SortByStatus:    "status",
	SortByTotal:     "totalCents",
}

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *MySQLOrderRepository) on(tx *sql.Tx) executor {
	if tx != nil {
		return tx
	}
	return r.db
}

const orderColumns = `id, orderNumber, customerName, email, phone, address,
	       size, color, deliveryNotes, status, totalCents, createdAt, updatedAt`

func scanOrder(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerName, &o.Email, &o.Phone, &o.Address,
		&o.Size, &o.Color, &o.DeliveryNotes, &o.Status, &o.TotalCents,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Insert persists the order header and returns the generated id. The caller
// owns the transaction so header and items commit or roll back together.
func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) (uint, error) {
	query := `
		INSERT INTO Orders (orderNumber, customerName, email, phone, address,
		                    size, color, deliveryNotes, status, totalCents)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.on(tx).ExecContext(ctx, query,
		order.OrderNumber, order.CustomerName, order.Email, order.Phone,
		order.Address, order.Size, order.Color, order.DeliveryNotes,
		order.Status, order.TotalCents,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE id = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return order, nil
}

// FindStatusForUpdate locks the order row and returns its current status.
// Used by the paid transition so two concurrent transitions serialize on the
// order row and the idempotence guard holds under concurrency.
func (r *MySQLOrderRepository) FindStatusForUpdate(ctx context.Context, tx *sql.Tx, id uint) (string, error) {
	query := `SELECT status FROM Orders WHERE id = ? FOR UPDATE`

	var status string
	err := tx.QueryRowContext(ctx, query, id).Scan(&status)
	if err == sql.ErrNoRows {
		return "", errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return "", fmt.Errorf("locking order row: %w", err)
	}

	return status, nil
}

func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id uint, status string) error {
	query := `UPDATE Orders SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`

	result, err := r.on(tx).ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}

	return nil
}

// List returns the filtered page of orders plus the total count matching the
// filter (for totalPages).
func (r *MySQLOrderRepository) List(ctx context.Context, q ListQuery) ([]domain.Order, int, error) {
	where, args := buildWhere(q)

	countQuery := `SELECT COUNT(*) FROM Orders` + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = sortColumns[SortByCreatedAt]
	}
	direction := "ASC"
	if q.SortDesc {
		direction = "DESC"
	}

	query := `SELECT ` + orderColumns + ` FROM Orders` + where +
		fmt.Sprintf(" ORDER BY %s %s", column, direction)

	if q.PageSize > 0 {
		offset := (q.Page - 1) * q.PageSize
		query += " LIMIT ? OFFSET ?"
		args = append(args, q.PageSize, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, total, nil
}

func buildWhere(q ListQuery) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if q.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, q.Status)
	}

	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		clauses = append(clauses,
			"(LOWER(orderNumber) LIKE ? OR LOWER(customerName) LIKE ? OR LOWER(email) LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
