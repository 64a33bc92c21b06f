package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"phonestore/internal/domain"
)

// OrderItemService wraps the inventory ledger with the order item lifecycle.
// Each operation is one transaction: the stock adjustment and the item row
// change land together or not at all.
type OrderItemService struct {
	db               TransactionManager
	items            OrderItemRepository
	orders           OrderRepository
	ledger           StockLedger
	logger           *zap.Logger
	txTimeout        time.Duration
	maxRetryAttempts int
}

func NewOrderItemService(
	db TransactionManager,
	items OrderItemRepository,
	orders OrderRepository,
	ledger StockLedger,
	logger *zap.Logger,
	txTimeout time.Duration,
	maxRetryAttempts int,
) *OrderItemService {
	return &OrderItemService{
		db:               db,
		items:            items,
		orders:           orders,
		ledger:           ledger,
		logger:           logger,
		txTimeout:        txTimeout,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (s *OrderItemService) GetAllOrderItems(ctx context.Context) ([]domain.OrderItem, error) {
	return s.items.FindAll(ctx)
}

func (s *OrderItemService) GetOrderItemByID(ctx context.Context, id uint) (*domain.OrderItem, error) {
	return s.items.FindByID(ctx, id)
}

func (s *OrderItemService) GetOrderItems(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
	if _, err := s.orders.FindByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.items.FindByOrderID(ctx, orderID)
}

// CreateOrderItem reserves stock for the new item and attaches it to an
// existing order.
func (s *OrderItemService) CreateOrderItem(ctx context.Context, orderID, phoneID uint, quantity int) (*domain.OrderItem, error) {
	if _, err := s.orders.FindByID(ctx, orderID); err != nil {
		return nil, err
	}

	var created *domain.OrderItem
	err := withDeadlockRetry(ctx, s.logger, s.maxRetryAttempts, func() error {
		return runInTx(ctx, s.db, s.txTimeout, func(txCtx context.Context, tx *sql.Tx) error {
			item, err := s.createItemInTx(txCtx, tx, orderID, phoneID, quantity)
			if err != nil {
				return err
			}
			created = item
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order item created",
		zap.Uint("orderItemId", created.ID),
		zap.Uint("orderId", orderID),
		zap.Uint("phoneId", phoneID),
		zap.Int("quantity", quantity))
	return created, nil
}

func (s *OrderItemService) createItemInTx(ctx context.Context, tx *sql.Tx, orderID, phoneID uint, quantity int) (*domain.OrderItem, error) {
	phone, err := s.ledger.Reserve(ctx, tx, phoneID, quantity)
	if err != nil {
		return nil, err
	}

	item := domain.OrderItem{
		OrderID:  orderID,
		PhoneID:  phoneID,
		Quantity: quantity,
		Phone:    phone,
	}

	itemID, err := s.items.Insert(ctx, tx, item)
	if err != nil {
		return nil, err
	}
	item.ID = itemID

	return &item, nil
}

// UpdateOrderItem reconciles the stock delta between the stored item and the
// requested phone/quantity, then rewrites the item. The item only records the
// new values once reconciliation succeeded.
func (s *OrderItemService) UpdateOrderItem(ctx context.Context, id, phoneID uint, quantity int) (*domain.OrderItem, error) {
	var updated *domain.OrderItem
	err := withDeadlockRetry(ctx, s.logger, s.maxRetryAttempts, func() error {
		return runInTx(ctx, s.db, s.txTimeout, func(txCtx context.Context, tx *sql.Tx) error {
			item, err := s.updateItemInTx(txCtx, tx, id, phoneID, quantity)
			if err != nil {
				return err
			}
			updated = item
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order item updated",
		zap.Uint("orderItemId", id),
		zap.Uint("phoneId", phoneID),
		zap.Int("quantity", quantity))
	return updated, nil
}

func (s *OrderItemService) updateItemInTx(ctx context.Context, tx *sql.Tx, id, phoneID uint, quantity int) (*domain.OrderItem, error) {
	item, err := s.items.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	_, newPhone, err := s.ledger.Reconcile(ctx, tx, item.PhoneID, item.Quantity, phoneID, quantity)
	if err != nil {
		return nil, err
	}

	item.PhoneID = phoneID
	item.Quantity = quantity
	item.Phone = newPhone

	if err := s.items.Update(ctx, tx, *item); err != nil {
		return nil, err
	}

	return item, nil
}

// DeleteOrderItem releases the item's reserved stock back to its phone and
// removes the item from its order.
func (s *OrderItemService) DeleteOrderItem(ctx context.Context, id uint) error {
	err := withDeadlockRetry(ctx, s.logger, s.maxRetryAttempts, func() error {
		return runInTx(ctx, s.db, s.txTimeout, func(txCtx context.Context, tx *sql.Tx) error {
			return s.deleteItemInTx(txCtx, tx, id)
		})
	})
	if err != nil {
		return err
	}

	s.logger.Info("order item deleted", zap.Uint("orderItemId", id))
	return nil
}

func (s *OrderItemService) deleteItemInTx(ctx context.Context, tx *sql.Tx, id uint) error {
	item, err := s.items.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}

	if _, err := s.ledger.Release(ctx, tx, item.PhoneID, item.Quantity); err != nil {
		return err
	}

	return s.items.Delete(ctx, tx, id)
}
