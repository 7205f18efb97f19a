package repository

import (
	"context"
	"database/sql"
	"fmt"

	"atelier/internal/domain"
	"atelier/internal/errors"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

// executor lets repository methods run either on the pool or inside a
// caller-owned transaction.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *MySQLRepository) on(tx *sql.Tx) executor {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *MySQLRepository) FindByID(ctx context.Context, tx *sql.Tx, id int) (*domain.Product, error) {
	query := `
		SELECT id, name, category, material, priceCents, stock, createdAt, updatedAt
		FROM Product
		WHERE id = ?
	`

	var p domain.Product
	err := r.on(tx).QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Category, &p.Material, &p.PriceCents, &p.Stock,
		&p.CreatedAt, &p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}

	return &p, nil
}

// FindByIDForUpdate is the locking variant: inside a REPEATABLE READ
// transaction a plain read would come from the snapshot, not the current
// committed row.
func (r *MySQLRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int) (*domain.Product, error) {
	query := `
		SELECT id, name, category, material, priceCents, stock, createdAt, updatedAt
		FROM Product
		WHERE id = ?
		FOR UPDATE
	`

	var p domain.Product
	err := tx.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Category, &p.Material, &p.PriceCents, &p.Stock,
		&p.CreatedAt, &p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id for update: %w", err)
	}

	return &p, nil
}

func (r *MySQLRepository) List(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, category, material, priceCents, stock, createdAt, updatedAt
		FROM Product
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(
			&p.ID, &p.Name, &p.Category, &p.Material, &p.PriceCents, &p.Stock,
			&p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

// DecrementStock performs the conditional compare-and-decrement. It reports
// whether a row changed; false means stock < quantity or no such product.
// The check and the write are one statement so two concurrent reservations
// for the last unit cannot both succeed.
func (r *MySQLRepository) DecrementStock(ctx context.Context, tx *sql.Tx, productID, quantity int) (bool, error) {
	query := `UPDATE Product SET stock = stock - ? WHERE id = ? AND stock >= ?`

	result, err := r.on(tx).ExecContext(ctx, query, quantity, productID, quantity)
	if err != nil {
		return false, fmt.Errorf("decrementing stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// IncrementStock reverses a decrement. The caller guarantees at most one
// release per successful reserve.
func (r *MySQLRepository) IncrementStock(ctx context.Context, tx *sql.Tx, productID, quantity int) error {
	query := `UPDATE Product SET stock = stock + ? WHERE id = ?`

	result, err := r.on(tx).ExecContext(ctx, query, quantity, productID)
	if err != nil {
		return fmt.Errorf("incrementing stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", productID))
	}

	return nil
}
