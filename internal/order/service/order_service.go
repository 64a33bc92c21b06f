package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"phonestore/internal/domain"
)

// StockLedger is the inventory ledger consumed by both order services. All
// methods run inside the transaction the service opens.
type StockLedger interface {
	Reserve(ctx context.Context, tx *sql.Tx, phoneID uint, quantity int) (*domain.Phone, error)
	Reconcile(ctx context.Context, tx *sql.Tx, oldPhoneID uint, oldQuantity int, newPhoneID uint, newQuantity int) (*domain.Phone, *domain.Phone, error)
	Release(ctx context.Context, tx *sql.Tx, phoneID uint, quantity int) (*domain.Phone, error)
}

type UserLookup interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, order domain.Order) (uint, error)
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
	FindByUsername(ctx context.Context, username string) ([]domain.Order, error)
	OwnerUsername(ctx context.Context, id uint) (string, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
}

type OrderItemRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, item domain.OrderItem) (uint, error)
	FindByID(ctx context.Context, id uint) (*domain.OrderItem, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.OrderItem, error)
	FindAll(ctx context.Context) ([]domain.OrderItem, error)
	FindByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error)
	Update(ctx context.Context, tx *sql.Tx, item domain.OrderItem) error
	Delete(ctx context.Context, tx *sql.Tx, id uint) error
}

type OrderService struct {
	db               TransactionManager
	orders           OrderRepository
	items            OrderItemRepository
	users            UserLookup
	ledger           StockLedger
	logger           *zap.Logger
	txTimeout        time.Duration
	maxRetryAttempts int
}

func NewOrderService(
	db TransactionManager,
	orders OrderRepository,
	items OrderItemRepository,
	users UserLookup,
	ledger StockLedger,
	logger *zap.Logger,
	txTimeout time.Duration,
	maxRetryAttempts int,
) *OrderService {
	return &OrderService{
		db:               db,
		orders:           orders,
		items:            items,
		users:            users,
		ledger:           ledger,
		logger:           logger,
		txTimeout:        txTimeout,
		maxRetryAttempts: maxRetryAttempts,
	}
}

// CreateOrder reserves stock for every requested item and persists the order
// with status PENDING. All reservations share one transaction: when a later
// item comes up short, the earlier decrements roll back with it and no phone
// is left over-reserved.
func (s *OrderService) CreateOrder(ctx context.Context, username string, items []domain.OrderItem) (*domain.Order, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	s.logger.Info("order creation started",
		zap.String("username", username),
		zap.Int("itemCount", len(items)))

	var created *domain.Order
	err = withDeadlockRetry(ctx, s.logger, s.maxRetryAttempts, func() error {
		return runInTx(ctx, s.db, s.txTimeout, func(txCtx context.Context, tx *sql.Tx) error {
			order, err := s.createOrderInTx(txCtx, tx, user.ID, items)
			if err != nil {
				return err
			}
			created = order
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.Uint("orderId", created.ID),
		zap.String("username", username))
	return created, nil
}

func (s *OrderService) createOrderInTx(ctx context.Context, tx *sql.Tx, userID uint, items []domain.OrderItem) (*domain.Order, error) {
	order := domain.Order{
		UserID: userID,
		Status: domain.OrderStatusPending,
	}

	reserved := make([]domain.OrderItem, len(items))
	for i, item := range items {
		phone, err := s.ledger.Reserve(ctx, tx, item.PhoneID, item.Quantity)
		if err != nil {
			return nil, err
		}
		reserved[i] = item
		reserved[i].Phone = phone
	}

	orderID, err := s.orders.Insert(ctx, tx, order)
	if err != nil {
		return nil, err
	}

	for i := range reserved {
		reserved[i].OrderID = orderID
		itemID, err := s.items.Insert(ctx, tx, reserved[i])
		if err != nil {
			return nil, err
		}
		reserved[i].ID = itemID
	}

	order.ID = orderID
	order.Items = reserved
	return &order, nil
}

func (s *OrderService) GetAllOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, orders)
}

func (s *OrderService) GetOrderByID(ctx context.Context, id uint) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.items.FindByOrderID(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (s *OrderService) GetOrdersByUsername(ctx context.Context, username string) ([]domain.Order, error) {
	if _, err := s.users.FindByUsername(ctx, username); err != nil {
		return nil, err
	}

	orders, err := s.orders.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, orders)
}

// OrderOwner reports which username owns the order, for ownership checks at
// the controller.
func (s *OrderService) OrderOwner(ctx context.Context, id uint) (string, error) {
	return s.orders.OwnerUsername(ctx, id)
}

// UpdateOrderStatus applies the guarded status transition. Item changes go
// through the order item operations, never through this path.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uint, status string) (*domain.Order, error) {
	order, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.TransitionTo(status); err != nil {
		return nil, err
	}

	if err := s.orders.UpdateStatus(ctx, id, order.Status); err != nil {
		return nil, err
	}

	s.logger.Info("order status updated", zap.Uint("orderId", id), zap.String("status", order.Status))
	return order, nil
}

// DeleteOrder removes the order and, via the schema's cascade, its items.
// Stock is not released here; only item-level deletion returns stock.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	if _, err := s.orders.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("order deleted", zap.Uint("orderId", id))
	return nil
}

func (s *OrderService) attachItems(ctx context.Context, orders []domain.Order) ([]domain.Order, error) {
	for i := range orders {
		items, err := s.items.FindByOrderID(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}
