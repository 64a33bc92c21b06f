package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"phonestore/internal/domain"
	apperrors "phonestore/internal/errors"
	"phonestore/internal/inventory"
	"phonestore/internal/order/repository"
	"phonestore/internal/phone"
	"phonestore/internal/testutil"
	"phonestore/internal/user"
)

type integrationEnv struct {
	db       *sql.DB
	phones   *phone.MySQLRepository
	orders   *OrderService
	items    *OrderItemService
	userName string
	phoneID  uint
}

func setupIntegrationEnv(t *testing.T, initialStock int) *integrationEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	_, err := db.Exec(`INSERT INTO brands (name) VALUES ('Nokia')`)
	require.NoError(t, err)
	result, err := db.Exec(`INSERT INTO phones (brand_id, quantity) SELECT brand_id, ? FROM brands WHERE name = 'Nokia'`, initialStock)
	require.NoError(t, err)
	phoneID, err := result.LastInsertId()
	require.NoError(t, err)

	_, err = db.Exec(`
		INSERT INTO users (username, password, email, full_name, is_active, user_type)
		VALUES ('alice', 'hash', 'alice@example.com', 'Alice', 1, 'CUSTOMER')`)
	require.NoError(t, err)

	logger := zap.NewNop()
	phoneRepo := phone.NewMySQLRepository(db)
	orderRepo := repository.NewMySQLOrderRepository(db)
	itemRepo := repository.NewMySQLOrderItemRepository(db)
	userRepo := user.NewMySQLRepository(db)
	ledger := inventory.NewLedger(phoneRepo, logger)

	return &integrationEnv{
		db:       db,
		phones:   phoneRepo,
		orders:   NewOrderService(db, orderRepo, itemRepo, userRepo, ledger, logger, 5*time.Second, 3),
		items:    NewOrderItemService(db, itemRepo, orderRepo, ledger, logger, 5*time.Second, 3),
		userName: "alice",
		phoneID:  uint(phoneID),
	}
}

func (e *integrationEnv) stock(t *testing.T) int {
	t.Helper()
	p, err := e.phones.FindByID(context.Background(), e.phoneID)
	require.NoError(t, err)
	return p.Quantity
}

// Full item lifecycle: reserve on create, reconcile on update, release on
// delete. The phone ends up back at its starting stock.
func TestOrderItemLifecycle_RestoresStock(t *testing.T) {
	env := setupIntegrationEnv(t, 100)
	ctx := context.Background()

	order, err := env.orders.CreateOrder(ctx, env.userName, []domain.OrderItem{
		{PhoneID: env.phoneID, Quantity: 10},
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 90, env.stock(t))

	item := order.Items[0]

	_, err = env.items.UpdateOrderItem(ctx, item.ID, env.phoneID, 15)
	require.NoError(t, err)
	assert.Equal(t, 85, env.stock(t))

	require.NoError(t, env.items.DeleteOrderItem(ctx, item.ID))
	assert.Equal(t, 100, env.stock(t))
}

func TestCreateOrder_InsufficientStockRollsBackWholeOrder(t *testing.T) {
	env := setupIntegrationEnv(t, 5)
	ctx := context.Background()

	_, err := env.orders.CreateOrder(ctx, env.userName, []domain.OrderItem{
		{PhoneID: env.phoneID, Quantity: 3},
		{PhoneID: env.phoneID, Quantity: 4},
	})

	_, ok := apperrors.IsInsufficientStockError(err)
	require.True(t, ok, "expected InsufficientStockError, got %v", err)

	assert.Equal(t, 5, env.stock(t), "the first reservation must roll back with the failed one")

	orders, err := env.orders.GetOrdersByUsername(ctx, env.userName)
	require.NoError(t, err)
	assert.Empty(t, orders, "no order row may survive a failed reservation")
}

func TestReserveExactRemainingStock_EmptiesPhone(t *testing.T) {
	env := setupIntegrationEnv(t, 10)
	ctx := context.Background()

	_, err := env.orders.CreateOrder(ctx, env.userName, []domain.OrderItem{
		{PhoneID: env.phoneID, Quantity: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, env.stock(t))

	_, err = env.orders.CreateOrder(ctx, env.userName, []domain.OrderItem{
		{PhoneID: env.phoneID, Quantity: 1},
	})
	_, ok := apperrors.IsInsufficientStockError(err)
	assert.True(t, ok, "expected InsufficientStockError, got %v", err)
}

func TestUpdateOrderItem_SwapMovesStockBetweenPhones(t *testing.T) {
	env := setupIntegrationEnv(t, 10)
	ctx := context.Background()

	result, err := env.db.Exec(`INSERT INTO phones (brand_id, quantity) SELECT brand_id, 4 FROM brands WHERE name = 'Nokia'`)
	require.NoError(t, err)
	otherID64, err := result.LastInsertId()
	require.NoError(t, err)
	otherID := uint(otherID64)

	order, err := env.orders.CreateOrder(ctx, env.userName, []domain.OrderItem{
		{PhoneID: env.phoneID, Quantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 8, env.stock(t))

	_, err = env.items.UpdateOrderItem(ctx, order.Items[0].ID, otherID, 3)
	require.NoError(t, err)

	assert.Equal(t, 10, env.stock(t), "the old phone gets its reservation back")

	other, err := env.phones.FindByID(ctx, otherID)
	require.NoError(t, err)
	assert.Equal(t, 1, other.Quantity, "the new phone pays for the swapped item")
}
