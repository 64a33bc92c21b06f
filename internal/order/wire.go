package order

import (
	"database/sql"

	"go.uber.org/zap"

	"phonestore/internal/config"
	"phonestore/internal/inventory"
	"phonestore/internal/order/controller"
	"phonestore/internal/order/repository"
	"phonestore/internal/order/service"
	"phonestore/internal/phone"
)

// Module bundles the order feature's controllers plus the order service,
// which the user feature consumes for order history.
type Module struct {
	Orders     *controller.OrderController
	OrderItems *controller.OrderItemController
	Service    *service.OrderService
}

func NewModule(db *sql.DB, users service.UserLookup, cfg *config.Config, logger *zap.Logger) *Module {
	orderRepo := repository.NewMySQLOrderRepository(db)
	itemRepo := repository.NewMySQLOrderItemRepository(db)
	phoneRepo := phone.NewMySQLRepository(db)

	ledger := inventory.NewLedger(phoneRepo, logger)

	orderSvc := service.NewOrderService(
		db,
		orderRepo,
		itemRepo,
		users,
		ledger,
		logger,
		cfg.Order.ReservationTxTimeout,
		cfg.Order.MaxRetryAttempts,
	)
	itemSvc := service.NewOrderItemService(
		db,
		itemRepo,
		orderRepo,
		ledger,
		logger,
		cfg.Order.ReservationTxTimeout,
		cfg.Order.MaxRetryAttempts,
	)

	return &Module{
		Orders:     controller.NewOrderController(orderSvc, logger),
		OrderItems: controller.NewOrderItemController(itemSvc, orderSvc, logger),
		Service:    orderSvc,
	}
}
