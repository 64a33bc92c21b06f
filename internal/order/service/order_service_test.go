package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go.uber.org/zap"

	"phonestore/internal/domain"
	apperrors "phonestore/internal/errors"
)

// Mock implementations

type mockOrderRepository struct {
	InsertFunc         func(ctx context.Context, tx *sql.Tx, order domain.Order) (uint, error)
	FindByIDFunc       func(ctx context.Context, id uint) (*domain.Order, error)
	FindAllFunc        func(ctx context.Context) ([]domain.Order, error)
	FindByUsernameFunc func(ctx context.Context, username string) ([]domain.Order, error)
	OwnerUsernameFunc  func(ctx context.Context, id uint) (string, error)
	UpdateStatusFunc   func(ctx context.Context, id uint, status string) error
	DeleteFunc         func(ctx context.Context, id uint) error
}

func (m *mockOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order domain.Order) (uint, error) {
	return m.InsertFunc(ctx, tx, order)
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockOrderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	return m.FindAllFunc(ctx)
}

func (m *mockOrderRepository) FindByUsername(ctx context.Context, username string) ([]domain.Order, error) {
	return m.FindByUsernameFunc(ctx, username)
}

func (m *mockOrderRepository) OwnerUsername(ctx context.Context, id uint) (string, error) {
	return m.OwnerUsernameFunc(ctx, id)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return m.UpdateStatusFunc(ctx, id, status)
}

func (m *mockOrderRepository) Delete(ctx context.Context, id uint) error {
	return m.DeleteFunc(ctx, id)
}

type mockOrderItemRepository struct {
	InsertFunc            func(ctx context.Context, tx *sql.Tx, item domain.OrderItem) (uint, error)
	FindByIDFunc          func(ctx context.Context, id uint) (*domain.OrderItem, error)
	FindByIDForUpdateFunc func(ctx context.Context, tx *sql.Tx, id uint) (*domain.OrderItem, error)
	FindAllFunc           func(ctx context.Context) ([]domain.OrderItem, error)
	FindByOrderIDFunc     func(ctx context.Context, orderID uint) ([]domain.OrderItem, error)
	UpdateFunc            func(ctx context.Context, tx *sql.Tx, item domain.OrderItem) error
	DeleteFunc            func(ctx context.Context, tx *sql.Tx, id uint) error
}

func (m *mockOrderItemRepository) Insert(ctx context.Context, tx *sql.Tx, item domain.OrderItem) (uint, error) {
	return m.InsertFunc(ctx, tx, item)
}

func (m *mockOrderItemRepository) FindByID(ctx context.Context, id uint) (*domain.OrderItem, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockOrderItemRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.OrderItem, error) {
	return m.FindByIDForUpdateFunc(ctx, tx, id)
}

func (m *mockOrderItemRepository) FindAll(ctx context.Context) ([]domain.OrderItem, error) {
	return m.FindAllFunc(ctx)
}

func (m *mockOrderItemRepository) FindByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
	return m.FindByOrderIDFunc(ctx, orderID)
}

func (m *mockOrderItemRepository) Update(ctx context.Context, tx *sql.Tx, item domain.OrderItem) error {
	return m.UpdateFunc(ctx, tx, item)
}

func (m *mockOrderItemRepository) Delete(ctx context.Context, tx *sql.Tx, id uint) error {
	return m.DeleteFunc(ctx, tx, id)
}

type mockUserLookup struct {
	FindByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
}

func (m *mockUserLookup) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.FindByUsernameFunc(ctx, username)
}

type mockLedger struct {
	ReserveFunc   func(ctx context.Context, tx *sql.Tx, phoneID uint, quantity int) (*domain.Phone, error)
	ReconcileFunc func(ctx context.Context, tx *sql.Tx, oldPhoneID uint, oldQuantity int, newPhoneID uint, newQuantity int) (*domain.Phone, *domain.Phone, error)
	ReleaseFunc   func(ctx context.Context, tx *sql.Tx, phoneID uint, quantity int) (*domain.Phone, error)
}

func (m *mockLedger) Reserve(ctx context.Context, tx *sql.Tx, phoneID uint, quantity int) (*domain.Phone, error) {
	return m.ReserveFunc(ctx, tx, phoneID, quantity)
}

func (m *mockLedger) Reconcile(ctx context.Context, tx *sql.Tx, oldPhoneID uint, oldQuantity int, newPhoneID uint, newQuantity int) (*domain.Phone, *domain.Phone, error) {
	return m.ReconcileFunc(ctx, tx, oldPhoneID, oldQuantity, newPhoneID, newQuantity)
}

func (m *mockLedger) Release(ctx context.Context, tx *sql.Tx, phoneID uint, quantity int) (*domain.Phone, error) {
	return m.ReleaseFunc(ctx, tx, phoneID, quantity)
}

func newTestOrderService(
	orders OrderRepository,
	items OrderItemRepository,
	users UserLookup,
	ledger StockLedger,
) *OrderService {
	return NewOrderService(nil, orders, items, users, ledger, zap.NewNop(), 0, 3)
}

// Tests

func TestCreateOrder_UserNotFound(t *testing.T) {
	users := &mockUserLookup{
		FindByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
			return nil, apperrors.NewNotFoundError("no user with username ghost exists")
		},
	}

	svc := newTestOrderService(&mockOrderRepository{}, &mockOrderItemRepository{}, users, &mockLedger{})

	_, err := svc.CreateOrder(context.Background(), "ghost", []domain.OrderItem{{PhoneID: 1, Quantity: 1}})

	if _, ok := apperrors.IsNotFoundError(err); !ok {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestCreateOrderInTx_ReservesEveryItemInInputOrder(t *testing.T) {
	var reservedPhones []uint

	ledger := &mockLedger{
		ReserveFunc: func(ctx context.Context, tx *sql.Tx, phoneID uint, quantity int) (*domain.Phone, error) {
			reservedPhones = append(reservedPhones, phoneID)
			return &domain.Phone{ID: phoneID, Quantity: 100 - quantity}, nil
		},
	}

	orders := &mockOrderRepository{
		InsertFunc: func(ctx context.Context, tx *sql.Tx, order domain.Order) (uint, error) {
			if order.Status != domain.OrderStatusPending {
				t.Errorf("expected new order status PENDING, got %s", order.Status)
			}
			return 10, nil
		},
	}

	nextItemID := uint(0)
	items := &mockOrderItemRepository{
		InsertFunc: func(ctx context.Context, tx *sql.Tx, item domain.OrderItem) (uint, error) {
			if item.OrderID != 10 {
				t.Errorf("expected item attached to order 10, got %d", item.OrderID)
			}
			nextItemID++
			return nextItemID, nil
		},
	}

	svc := newTestOrderService(orders, items, &mockUserLookup{}, ledger)

	order, err := svc.createOrderInTx(context.Background(), nil, 7, []domain.OrderItem{
		{PhoneID: 3, Quantity: 2},
		{PhoneID: 1, Quantity: 5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(reservedPhones) != 2 || reservedPhones[0] != 3 || reservedPhones[1] != 1 {
		t.Errorf("expected reservations in input order [3 1], got %v", reservedPhones)
	}
	if order.ID != 10 || len(order.Items) != 2 {
		t.Errorf("unexpected order: %+v", order)
	}
	if order.Items[0].Phone == nil || order.Items[0].Phone.Quantity != 98 {
		t.Errorf("expected updated phone attached to item, got %+v", order.Items[0].Phone)
	}
}

// A later item failing its stock check aborts the whole creation before any
// row is written; combined with the transaction envelope this reverts the
// earlier reservations too, instead of leaving them committed.
func TestCreateOrderInTx_RollsBackEarlierReservations(t *testing.T) {
	ledger := &mockLedger{
		ReserveFunc: func(ctx context.Context, tx *sql.Tx, phoneID uint, quantity int) (*domain.Phone, error) {
			if phoneID == 2 {
				return nil, apperrors.NewInsufficientStockError(2, quantity, 0)
			}
			return &domain.Phone{ID: phoneID}, nil
		},
	}

	orders := &mockOrderRepository{
		InsertFunc: func(ctx context.Context, tx *sql.Tx, order domain.Order) (uint, error) {
			t.Error("order must not be inserted when a reservation fails")
			return 0, nil
		},
	}

	svc := newTestOrderService(orders, &mockOrderItemRepository{}, &mockUserLookup{}, ledger)

	_, err := svc.createOrderInTx(context.Background(), nil, 7, []domain.OrderItem{
		{PhoneID: 1, Quantity: 1},
		{PhoneID: 2, Quantity: 9},
	})

	if _, ok := apperrors.IsInsufficientStockError(err); !ok {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
}

func TestGetOrderByID_AttachesItems(t *testing.T) {
	orders := &mockOrderRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return &domain.Order{ID: id, Status: domain.OrderStatusPending}, nil
		},
	}

	items := &mockOrderItemRepository{
		FindByOrderIDFunc: func(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
			return []domain.OrderItem{{ID: 1, OrderID: orderID, PhoneID: 4, Quantity: 2}}, nil
		},
	}

	svc := newTestOrderService(orders, items, &mockUserLookup{}, &mockLedger{})

	order, err := svc.GetOrderByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(order.Items) != 1 || order.Items[0].PhoneID != 4 {
		t.Errorf("unexpected items: %+v", order.Items)
	}
}

func TestUpdateOrderStatus_PendingToCompleted(t *testing.T) {
	var persistedStatus string

	orders := &mockOrderRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return &domain.Order{ID: id, Status: domain.OrderStatusPending}, nil
		},
		UpdateStatusFunc: func(ctx context.Context, id uint, status string) error {
			persistedStatus = status
			return nil
		},
	}

	items := &mockOrderItemRepository{
		FindByOrderIDFunc: func(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
			return nil, nil
		},
	}

	svc := newTestOrderService(orders, items, &mockUserLookup{}, &mockLedger{})

	order, err := svc.UpdateOrderStatus(context.Background(), 1, domain.OrderStatusCompleted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.Status != domain.OrderStatusCompleted || persistedStatus != domain.OrderStatusCompleted {
		t.Errorf("expected COMPLETED persisted, got %q / %q", order.Status, persistedStatus)
	}
}

func TestUpdateOrderStatus_CompletedToPendingRejected(t *testing.T) {
	orders := &mockOrderRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return &domain.Order{ID: id, Status: domain.OrderStatusCompleted}, nil
		},
		UpdateStatusFunc: func(ctx context.Context, id uint, status string) error {
			t.Error("status must not be persisted for an invalid transition")
			return nil
		},
	}

	items := &mockOrderItemRepository{
		FindByOrderIDFunc: func(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
			return nil, nil
		},
	}

	svc := newTestOrderService(orders, items, &mockUserLookup{}, &mockLedger{})

	_, err := svc.UpdateOrderStatus(context.Background(), 1, domain.OrderStatusPending)

	if _, ok := apperrors.IsInvalidStateTransitionError(err); !ok {
		t.Fatalf("expected InvalidStateTransitionError, got %v", err)
	}
}

func TestDeleteOrder_NotFound(t *testing.T) {
	orders := &mockOrderRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return nil, apperrors.NewNotFoundError("order with id 99 was not found")
		},
		DeleteFunc: func(ctx context.Context, id uint) error {
			return errors.New("should not be called")
		},
	}

	svc := newTestOrderService(orders, &mockOrderItemRepository{}, &mockUserLookup{}, &mockLedger{})

	err := svc.DeleteOrder(context.Background(), 99)

	if _, ok := apperrors.IsNotFoundError(err); !ok {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
