package usecase

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"atelier/internal/domain"
	apperrors "atelier/internal/errors"
	"atelier/internal/order/repository"
	"atelier/internal/order/service"
)

type LifecycleService interface {
	CreateOrder(ctx context.Context, input service.CreateOrderInput) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID uint, target string) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID uint) (*domain.Order, error)
	ListOrders(ctx context.Context, q repository.ListQuery) (*service.OrderPage, error)
	ListForExport(ctx context.Context, q repository.ListQuery) ([]domain.Order, error)
}

// OrderUseCase fronts the lifecycle service and retries status transitions
// that lose a MySQL deadlock or lock-wait race.
type OrderUseCase struct {
	svc              LifecycleService
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewOrderUseCase(svc LifecycleService, logger *zap.Logger, maxRetryAttempts int) *OrderUseCase {
	return &OrderUseCase{
		svc:              svc,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *OrderUseCase) CreateOrder(ctx context.Context, input service.CreateOrderInput) (*domain.Order, error) {
	uc.logger.Info("create order started", zap.Int("itemCount", len(input.Items)))
	return uc.svc.CreateOrder(ctx, input)
}

func (uc *OrderUseCase) GetOrder(ctx context.Context, orderID uint) (*domain.Order, error) {
	return uc.svc.GetOrder(ctx, orderID)
}

func (uc *OrderUseCase) ListOrders(ctx context.Context, q repository.ListQuery) (*service.OrderPage, error) {
	return uc.svc.ListOrders(ctx, q)
}

func (uc *OrderUseCase) ListForExport(ctx context.Context, q repository.ListQuery) ([]domain.Order, error) {
	return uc.svc.ListForExport(ctx, q)
}

func (uc *OrderUseCase) UpdateStatus(ctx context.Context, orderID uint, target string) (*domain.Order, error) {
	maxAttempts := uc.maxRetryAttempts
	// Backoff per attempt: 0ms, 100ms, 200ms, ...
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		order, err := uc.svc.UpdateStatus(ctx, orderID, target)
		if err == nil {
			return order, nil
		}

		if !isDeadlockError(err) {
			return nil, err
		}

		if attempt < maxAttempts {
			base := backoffs[len(backoffs)-1]
			if attempt-1 < len(backoffs) {
				base = backoffs[attempt-1]
			}
			// ±20% jitter so retries from concurrent losers spread out.
			jitter := time.Duration(float64(base) * (0.8 + rand.Float64()*0.4))
			time.Sleep(jitter)
			uc.logger.Warn("deadlock detected, retrying",
				zap.Int("attempt", attempt),
				zap.Int("maxAttempts", maxAttempts),
				zap.Uint("orderId", orderID),
			)
		}
	}

	return nil, apperrors.NewDeadlockError("max retries exceeded")
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
