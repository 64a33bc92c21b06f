package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderItem_Creation(t *testing.T) {
	item := OrderItem{
		ID:       1,
		OrderID:  100,
		PhoneID:  5,
		Quantity: 3,
	}

	assert.Equal(t, uint(1), item.ID)
	assert.Equal(t, uint(100), item.OrderID)
	assert.Equal(t, uint(5), item.PhoneID)
	assert.Equal(t, 3, item.Quantity)
}

func TestPhone_HasStockFor(t *testing.T) {
	phone := Phone{ID: 1, Quantity: 4}

	assert.True(t, phone.HasStockFor(3))
	assert.True(t, phone.HasStockFor(4), "reserving exactly the remaining stock is allowed")
	assert.False(t, phone.HasStockFor(5))
}
