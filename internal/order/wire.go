package order

import (
	"database/sql"

	"go.uber.org/zap"

	catalogrepo "atelier/internal/catalog/repository"
	"atelier/internal/config"
	"atelier/internal/inventory"
	"atelier/internal/order/controller"
	orderrepo "atelier/internal/order/repository"
	"atelier/internal/order/service"
	"atelier/internal/order/usecase"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *controller.Controller {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	orderItemRepo := orderrepo.NewMySQLOrderItemRepository(db)
	productRepo := catalogrepo.NewMySQLRepository(db)

	ledger := inventory.NewLedger(productRepo, logger)

	lifecycleSvc := service.NewLifecycleService(
		db,
		orderRepo,
		orderItemRepo,
		productRepo,
		ledger,
		logger,
		cfg.Order.TxTimeout,
	)

	uc := usecase.NewOrderUseCase(lifecycleSvc, logger, cfg.Order.MaxRetryAttempts)

	return controller.NewController(uc, logger)
}
