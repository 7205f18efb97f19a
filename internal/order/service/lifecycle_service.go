package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"go.uber.org/zap"

	"atelier/internal/domain"
	"atelier/internal/errors"
	"atelier/internal/order/repository"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) (uint, error)
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	FindStatusForUpdate(ctx context.Context, tx *sql.Tx, id uint) (string, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id uint, status string) error
	List(ctx context.Context, q repository.ListQuery) ([]domain.Order, int, error)
}

type OrderItemRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, item domain.OrderItem) (uint, error)
	FindByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error)
}

type ProductRepository interface {
	FindByID(ctx context.Context, tx *sql.Tx, id int) (*domain.Product, error)
}

type StockLedger interface {
	Reserve(ctx context.Context, tx *sql.Tx, productID, quantity int) error
	Release(ctx context.Context, tx *sql.Tx, productID, quantity int) error
}

// LifecycleService drives orders through the status state machine. Creation
// never touches stock; the only stock side effect in the whole lifecycle is
// the pending→paid transition.
type LifecycleService struct {
	db          TransactionManager
	orderRepo   OrderRepository
	itemRepo    OrderItemRepository
	productRepo ProductRepository
	ledger      StockLedger
	logger      *zap.Logger
	txTimeout   time.Duration
}

func NewLifecycleService(
	db TransactionManager,
	orderRepo OrderRepository,
	itemRepo OrderItemRepository,
	productRepo ProductRepository,
	ledger StockLedger,
	logger *zap.Logger,
	txTimeout time.Duration,
) *LifecycleService {
	return &LifecycleService{
		db:          db,
		orderRepo:   orderRepo,
		itemRepo:    itemRepo,
		productRepo: productRepo,
		ledger:      ledger,
		logger:      logger,
		txTimeout:   txTimeout,
	}
}

// CreateOrder validates and prices the order against the current catalog and
// persists header plus items atomically in status pending. Stock is checked
// but not decremented.
func (s *LifecycleService) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if err := ValidateCreateOrder(input); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	// Rollback is a no-op once committed.
	defer tx.Rollback()

	var total domain.Cents
	items := make([]domain.OrderItem, 0, len(input.Items))

	for _, line := range input.Items {
		product, err := s.productRepo.FindByID(txCtx, tx, line.ProductID)
		if err != nil {
			return nil, err
		}

		if !product.CanSatisfy(line.Quantity) {
			return nil, errors.NewInsufficientStockError(product.ID, product.Stock, line.Quantity)
		}

		items = append(items, domain.OrderItem{
			ProductID:      product.ID,
			ProductName:    product.Name,
			Quantity:       line.Quantity,
			UnitPriceCents: product.PriceCents,
		})
		total += product.PriceCents * domain.Cents(line.Quantity)
	}

	order := &domain.Order{
		OrderNumber:   NewOrderNumber(),
		CustomerName:  input.CustomerName,
		Email:         input.Email,
		Phone:         input.Phone,
		Address:       input.Address,
		Size:          input.Size,
		Color:         input.Color,
		DeliveryNotes: input.DeliveryNotes,
		Status:        domain.OrderStatusPending,
		TotalCents:    total,
	}

	orderID, err := s.orderRepo.Insert(txCtx, tx, order)
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].OrderID = orderID
		if _, err := s.itemRepo.Insert(txCtx, tx, items[i]); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit order creation", zap.Error(err))
		return nil, err
	}

	s.logger.Info("order created",
		zap.Uint("orderId", orderID),
		zap.String("orderNumber", order.OrderNumber),
		zap.Int("itemCount", len(items)),
		zap.Int64("totalCents", int64(total)),
	)

	return s.GetOrder(ctx, orderID)
}

// UpdateStatus moves an order to the target status. The paid edge reserves
// every line's stock all-or-nothing; every other recognized target is a plain
// field write with no inventory effect.
func (s *LifecycleService) UpdateStatus(ctx context.Context, orderID uint, target string) (*domain.Order, error) {
	if !domain.IsValidOrderStatus(target) {
		return nil, errors.NewValidationError("invalid status", errors.ValidationDetail{
			Field:   "status",
			Message: "status must be one of: pending, paid, completed, cancelled, refunded, failed",
		})
	}

	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		return nil, err
	}

	if target == domain.OrderStatusPaid {
		if err := s.markPaid(ctx, orderID); err != nil {
			return nil, err
		}
	} else {
		if err := s.orderRepo.UpdateStatus(ctx, nil, orderID, target); err != nil {
			return nil, err
		}
		s.logger.Info("order status updated",
			zap.Uint("orderId", orderID),
			zap.String("status", target),
		)
	}

	return s.GetOrder(ctx, orderID)
}

// markPaid runs the side-effecting transition. The row lock on the order
// serializes concurrent paid calls, so the idempotence guard cannot be raced
// past; the surrounding transaction makes the reservations all-or-nothing —
// a failure at line k reverts lines 1..k-1.
func (s *LifecycleService) markPaid(ctx context.Context, orderID uint) error {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	current, err := s.orderRepo.FindStatusForUpdate(txCtx, tx, orderID)
	if err != nil {
		return err
	}

	if current == domain.OrderStatusPaid {
		// Already paid: repeated calls must not decrement again.
		s.logger.Info("order already paid, skipping reservation", zap.Uint("orderId", orderID))
		return nil
	}

	items, err := s.itemRepo.FindByOrderID(txCtx, orderID)
	if err != nil {
		return err
	}

	// Lock product rows in a fixed order to avoid lock-order deadlocks.
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	for _, item := range items {
		if err := s.ledger.Reserve(txCtx, tx, item.ProductID, item.Quantity); err != nil {
			s.logger.Warn("paid transition aborted",
				zap.Uint("orderId", orderID),
				zap.Int("productId", item.ProductID),
				zap.Error(err),
			)
			return err
		}
	}

	if err := s.orderRepo.UpdateStatus(txCtx, tx, orderID, domain.OrderStatusPaid); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit paid transition", zap.Uint("orderId", orderID), zap.Error(err))
		return err
	}

	s.logger.Info("order paid, stock reserved",
		zap.Uint("orderId", orderID),
		zap.Int("itemCount", len(items)),
	)
	return nil
}

// GetOrder returns the order with its priced line items.
func (s *LifecycleService) GetOrder(ctx context.Context, orderID uint) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	items, err := s.itemRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// OrderPage is one page of an order listing.
type OrderPage struct {
	Orders     []domain.Order
	TotalCount int
	Page       int
	PageSize   int
	TotalPages int
}

// ListOrders applies the filter after clamping pagination and sort inputs.
func (s *LifecycleService) ListOrders(ctx context.Context, q repository.ListQuery) (*OrderPage, error) {
	q = clampListQuery(q)

	orders, total, err := s.orderRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + q.PageSize - 1) / q.PageSize
	}

	return &OrderPage{
		Orders:     orders,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
	}, nil
}

// ListForExport returns the whole filtered order set, unpaginated, sorted
// like the default listing.
func (s *LifecycleService) ListForExport(ctx context.Context, q repository.ListQuery) ([]domain.Order, error) {
	q.Page = 0
	q.PageSize = 0
	if q.SortBy == "" {
		q.SortBy = repository.SortByCreatedAt
		q.SortDesc = true
	}

	orders, _, err := s.orderRepo.List(ctx, q)
	return orders, err
}

func clampListQuery(q repository.ListQuery) repository.ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}
	if q.PageSize > 100 {
		q.PageSize = 100
	}
	if _, ok := map[string]bool{
		repository.SortByCreatedAt: true,
		repository.SortByStatus:    true,
		repository.SortByTotal:     true,
	}[q.SortBy]; !ok {
		q.SortBy = repository.SortByCreatedAt
		q.SortDesc = true
	}
	return q
}
