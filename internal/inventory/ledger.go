package inventory

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"phonestore/internal/domain"
	"phonestore/internal/errors"
)

// PhoneStore is the slice of the phone repository the ledger needs. Reads go
// through FOR UPDATE so the row stays locked for the rest of the transaction.
type PhoneStore interface {
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Phone, error)
	UpdateQuantity(ctx context.Context, tx *sql.Tx, id uint, quantity int) error
}

// Ledger keeps phone stock consistent with the set of active order items.
// Every method runs inside the caller's transaction; the ledger never commits
// or rolls back on its own, so a failed multi-phone adjustment aborts whole.
type Ledger struct {
	phones PhoneStore
	logger *zap.Logger
}

func NewLedger(phones PhoneStore, logger *zap.Logger) *Ledger {
	return &Ledger{
		phones: phones,
		logger: logger,
	}
}

// Reserve decrements quantity units from the phone's stock. Reserving exactly
// the remaining stock is allowed and leaves the phone at zero.
func (l *Ledger) Reserve(ctx context.Context, tx *sql.Tx, phoneID uint, quantity int) (*domain.Phone, error) {
	phone, err := l.phones.FindByIDForUpdate(ctx, tx, phoneID)
	if err != nil {
		return nil, err
	}

	if !phone.HasStockFor(quantity) {
		l.logger.Warn("reservation rejected",
			zap.Uint("phoneId", phoneID),
			zap.Int("requested", quantity),
			zap.Int("available", phone.Quantity))
		return nil, errors.NewInsufficientStockError(phoneID, quantity, phone.Quantity)
	}

	phone.Quantity -= quantity
	if err := l.phones.UpdateQuantity(ctx, tx, phoneID, phone.Quantity); err != nil {
		return nil, err
	}

	l.logger.Debug("stock reserved",
		zap.Uint("phoneId", phoneID),
		zap.Int("quantity", quantity),
		zap.Int("remaining", phone.Quantity))
	return phone, nil
}

// Reconcile adjusts stock when an existing order item changes phone and/or
// quantity. Both phones are mutated in the caller's transaction, so a failed
// swap leaves neither phone touched.
func (l *Ledger) Reconcile(ctx context.Context, tx *sql.Tx, oldPhoneID uint, oldQuantity int, newPhoneID uint, newQuantity int) (*domain.Phone, *domain.Phone, error) {
	if oldPhoneID == newPhoneID {
		phone, err := l.phones.FindByIDForUpdate(ctx, tx, oldPhoneID)
		if err != nil {
			return nil, nil, err
		}

		delta := newQuantity - oldQuantity
		if delta > phone.Quantity {
			return nil, nil, errors.NewInsufficientStockError(oldPhoneID, delta, phone.Quantity)
		}

		phone.Quantity -= delta
		if err := l.phones.UpdateQuantity(ctx, tx, oldPhoneID, phone.Quantity); err != nil {
			return nil, nil, err
		}

		l.logger.Debug("stock reconciled",
			zap.Uint("phoneId", oldPhoneID),
			zap.Int("delta", delta),
			zap.Int("remaining", phone.Quantity))
		return phone, phone, nil
	}

	oldPhone, err := l.phones.FindByIDForUpdate(ctx, tx, oldPhoneID)
	if err != nil {
		return nil, nil, err
	}

	oldPhone.Quantity += oldQuantity
	if err := l.phones.UpdateQuantity(ctx, tx, oldPhoneID, oldPhone.Quantity); err != nil {
		return nil, nil, err
	}

	newPhone, err := l.Reserve(ctx, tx, newPhoneID, newQuantity)
	if err != nil {
		return nil, nil, err
	}

	l.logger.Debug("stock moved across phones",
		zap.Uint("oldPhoneId", oldPhoneID),
		zap.Int("returned", oldQuantity),
		zap.Uint("newPhoneId", newPhoneID),
		zap.Int("reserved", newQuantity))
	return oldPhone, newPhone, nil
}

// Release returns previously reserved stock to a phone. Stock only grows
// here, so there is no upper bound check.
func (l *Ledger) Release(ctx context.Context, tx *sql.Tx, phoneID uint, quantity int) (*domain.Phone, error) {
	phone, err := l.phones.FindByIDForUpdate(ctx, tx, phoneID)
	if err != nil {
		return nil, err
	}

	phone.Quantity += quantity
	if err := l.phones.UpdateQuantity(ctx, tx, phoneID, phone.Quantity); err != nil {
		return nil, err
	}

	l.logger.Debug("stock released",
		zap.Uint("phoneId", phoneID),
		zap.Int("quantity", quantity),
		zap.Int("remaining", phone.Quantity))
	return phone, nil
}
