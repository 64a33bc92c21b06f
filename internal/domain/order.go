package domain

import (
	"time"

	"phonestore/internal/errors"
)

type Order struct {
	ID        uint
	UserID    uint
	Status    string
	Items     []OrderItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	OrderStatusPending   = "PENDING"
	OrderStatusCompleted = "COMPLETED"
)

// TransitionTo guards order status changes. Only PENDING -> COMPLETED is a
// legal transition; setting the current status again is a no-op.
func (o *Order) TransitionTo(status string) error {
	if status == o.Status {
		return nil
	}
	if o.Status == OrderStatusPending && status == OrderStatusCompleted {
		o.Status = status
		return nil
	}
	return errors.NewInvalidStateTransitionError(o.Status, status)
}
