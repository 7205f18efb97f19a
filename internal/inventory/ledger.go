package inventory

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"atelier/internal/domain"
	"atelier/internal/errors"
)

type CatalogRepository interface {
	FindByID(ctx context.Context, tx *sql.Tx, id int) (*domain.Product, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int) (*domain.Product, error)
	DecrementStock(ctx context.Context, tx *sql.Tx, productID, quantity int) (bool, error)
	IncrementStock(ctx context.Context, tx *sql.Tx, productID, quantity int) error
}

// Ledger holds the authoritative stock-adjustment operations. A reservation
// is a single conditional decrement against the store, never a read followed
// by a write.
type Ledger struct {
	catalog CatalogRepository
	logger  *zap.Logger
}

func NewLedger(catalog CatalogRepository, logger *zap.Logger) *Ledger {
	return &Ledger{
		catalog: catalog,
		logger:  logger,
	}
}

// Reserve decrements stock by quantity if stock covers it. When tx is
// non-nil the decrement joins the caller's transaction, so a later rollback
// undoes it.
func (l *Ledger) Reserve(ctx context.Context, tx *sql.Tx, productID, quantity int) error {
	changed, err := l.catalog.DecrementStock(ctx, tx, productID, quantity)
	if err != nil {
		return err
	}
	if changed {
		l.logger.Debug("stock reserved",
			zap.Int("productId", productID),
			zap.Int("quantity", quantity),
		)
		return nil
	}

	// No row changed: either the product is missing or stock is short. Use
	// a locking read inside a transaction so the reported availability is
	// current, not the snapshot.
	var product *domain.Product
	if tx != nil {
		product, err = l.catalog.FindByIDForUpdate(ctx, tx, productID)
	} else {
		product, err = l.catalog.FindByID(ctx, tx, productID)
	}
	if err != nil {
		return err
	}

	l.logger.Warn("reservation rejected",
		zap.Int("productId", productID),
		zap.Int("available", product.Stock),
		zap.Int("requested", quantity),
	)
	return errors.NewInsufficientStockError(productID, product.Stock, quantity)
}

// Release reverses a successful Reserve. The caller guarantees at most one
// release per reserve.
func (l *Ledger) Release(ctx context.Context, tx *sql.Tx, productID, quantity int) error {
	if err := l.catalog.IncrementStock(ctx, tx, productID, quantity); err != nil {
		return err
	}

	l.logger.Debug("stock released",
		zap.Int("productId", productID),
		zap.Int("quantity", quantity),
	)
	return nil
}
