package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"phonestore/internal/domain"
	"phonestore/internal/errors"
)

// fakePhoneStore keeps phones in memory. The tx parameter is ignored, the
// ledger only threads it through to the repository.
type fakePhoneStore struct {
	phones map[uint]*domain.Phone
}

func newFakePhoneStore(phones ...*domain.Phone) *fakePhoneStore {
	store := &fakePhoneStore{phones: map[uint]*domain.Phone{}}
	for _, p := range phones {
		store.phones[p.ID] = p
	}
	return store
}

func (f *fakePhoneStore) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Phone, error) {
	phone, ok := f.phones[id]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("phone with id %d does not exist", id))
	}
	copied := *phone
	return &copied, nil
}

func (f *fakePhoneStore) UpdateQuantity(ctx context.Context, tx *sql.Tx, id uint, quantity int) error {
	phone, ok := f.phones[id]
	if !ok {
		return errors.NewNotFoundError(fmt.Sprintf("phone with id %d does not exist", id))
	}
	phone.Quantity = quantity
	return nil
}

func (f *fakePhoneStore) quantity(t *testing.T, id uint) int {
	t.Helper()
	phone, ok := f.phones[id]
	if !ok {
		t.Fatalf("phone %d missing from store", id)
	}
	return phone.Quantity
}

func newTestLedger(store PhoneStore) *Ledger {
	return NewLedger(store, zap.NewNop())
}

func TestReserve_DecrementsStock(t *testing.T) {
	store := newFakePhoneStore(&domain.Phone{ID: 1, Quantity: 100})
	ledger := newTestLedger(store)

	phone, err := ledger.Reserve(context.Background(), nil, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if phone.Quantity != 90 {
		t.Errorf("expected returned phone quantity 90, got %d", phone.Quantity)
	}
	if got := store.quantity(t, 1); got != 90 {
		t.Errorf("expected persisted quantity 90, got %d", got)
	}
}

func TestReserve_RejectsOverdraw(t *testing.T) {
	store := newFakePhoneStore(&domain.Phone{ID: 1, Quantity: 4})
	ledger := newTestLedger(store)

	_, err := ledger.Reserve(context.Background(), nil, 1, 5)

	ise, ok := errors.IsInsufficientStockError(err)
	if !ok {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if ise.Requested != 5 || ise.Available != 4 {
		t.Errorf("unexpected error fields: %+v", ise)
	}
	if got := store.quantity(t, 1); got != 4 {
		t.Errorf("stock must be unchanged after rejection, got %d", got)
	}
}

func TestReserve_BoundaryEmptiesPhone(t *testing.T) {
	store := newFakePhoneStore(&domain.Phone{ID: 1, Quantity: 4})
	ledger := newTestLedger(store)

	phone, err := ledger.Reserve(context.Background(), nil, 1, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if phone.Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", phone.Quantity)
	}
}

func TestReserve_UnknownPhone(t *testing.T) {
	ledger := newTestLedger(newFakePhoneStore())

	_, err := ledger.Reserve(context.Background(), nil, 99, 1)

	if _, ok := errors.IsNotFoundError(err); !ok {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestReconcile_SamePhoneIncrease(t *testing.T) {
	// Item holds 1 unit, phone shows 4 available. Raising the item to 3
	// consumes delta 2.
	store := newFakePhoneStore(&domain.Phone{ID: 1, Quantity: 4})
	ledger := newTestLedger(store)

	_, phone, err := ledger.Reconcile(context.Background(), nil, 1, 1, 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if phone.Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", phone.Quantity)
	}
}

func TestReconcile_SamePhoneIncreaseBeyondStock(t *testing.T) {
	// Item holds 1 unit, phone shows 4 available. Raising to 6 means delta 5,
	// which exceeds the 4 still available.
	store := newFakePhoneStore(&domain.Phone{ID: 1, Quantity: 4})
	ledger := newTestLedger(store)

	_, _, err := ledger.Reconcile(context.Background(), nil, 1, 1, 1, 6)

	if _, ok := errors.IsInsufficientStockError(err); !ok {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if got := store.quantity(t, 1); got != 4 {
		t.Errorf("stock must remain 4 after rejection, got %d", got)
	}
}

func TestReconcile_SamePhoneDecreaseReturnsStock(t *testing.T) {
	store := newFakePhoneStore(&domain.Phone{ID: 1, Quantity: 4})
	ledger := newTestLedger(store)

	_, phone, err := ledger.Reconcile(context.Background(), nil, 1, 5, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Negative delta grows the stock.
	if phone.Quantity != 7 {
		t.Errorf("expected quantity 7, got %d", phone.Quantity)
	}
}

func TestReconcile_PhoneSwap(t *testing.T) {
	store := newFakePhoneStore(
		&domain.Phone{ID: 1, Quantity: 10},
		&domain.Phone{ID: 2, Quantity: 5},
	)
	ledger := newTestLedger(store)

	oldPhone, newPhone, err := ledger.Reconcile(context.Background(), nil, 1, 1, 2, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if oldPhone.Quantity != 11 {
		t.Errorf("expected old phone quantity 11, got %d", oldPhone.Quantity)
	}
	if newPhone.Quantity != 2 {
		t.Errorf("expected new phone quantity 2, got %d", newPhone.Quantity)
	}
}

func TestReconcile_PhoneSwapInsufficientNewStock(t *testing.T) {
	store := newFakePhoneStore(
		&domain.Phone{ID: 1, Quantity: 10},
		&domain.Phone{ID: 2, Quantity: 2},
	)
	ledger := newTestLedger(store)

	_, _, err := ledger.Reconcile(context.Background(), nil, 1, 1, 2, 3)

	if _, ok := errors.IsInsufficientStockError(err); !ok {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	// The old phone credit is written inside the same transaction as the
	// failed reservation, so a real caller's rollback discards it. The fake
	// store has no transactions, which is exactly why the service layer wraps
	// the ledger in BEGIN ... ROLLBACK.
}

func TestRelease_ReturnsStock(t *testing.T) {
	store := newFakePhoneStore(&domain.Phone{ID: 1, Quantity: 3})
	ledger := newTestLedger(store)

	phone, err := ledger.Release(context.Background(), nil, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if phone.Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", phone.Quantity)
	}
}

func TestLedger_InvariantAcrossLifecycle(t *testing.T) {
	// Stock 100: reserve 10 -> 90, reconcile to 15 -> 85, release 15 -> 100.
	store := newFakePhoneStore(&domain.Phone{ID: 1, Quantity: 100})
	ledger := newTestLedger(store)
	ctx := context.Background()

	if _, err := ledger.Reserve(ctx, nil, 1, 10); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if got := store.quantity(t, 1); got != 90 {
		t.Fatalf("after reserve expected 90, got %d", got)
	}

	if _, _, err := ledger.Reconcile(ctx, nil, 1, 10, 1, 15); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if got := store.quantity(t, 1); got != 85 {
		t.Fatalf("after reconcile expected 85, got %d", got)
	}

	if _, err := ledger.Release(ctx, nil, 1, 15); err != nil {
		t.Fatalf("release: %v", err)
	}
	if got := store.quantity(t, 1); got != 100 {
		t.Fatalf("after release expected 100, got %d", got)
	}
}
