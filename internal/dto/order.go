package dto

import (
	"time"

	"phonestore/internal/domain"
)

type OrderItemDto struct {
	ID       uint      `json:"id"`
	OrderID  uint      `json:"orderId"`
	PhoneID  uint      `json:"phoneId"`
	Quantity int       `json:"quantity"`
	Phone    *PhoneDto `json:"phone,omitempty"`
}

type OrderDto struct {
	ID        uint           `json:"id"`
	Status    string         `json:"status"`
	Items     []OrderItemDto `json:"orderItems"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type CreateOrderDto struct {
	Items []CreateOrderItemDto `json:"orderItems"`
}

type CreateOrderItemDto struct {
	PhoneID  uint `json:"phoneId"`
	Quantity int  `json:"quantity"`
}

type UpdateOrderDto struct {
	Status string `json:"status"`
}

type CreateUpdateOrderItemDto struct {
	PhoneID  uint `json:"phoneId"`
	Quantity int  `json:"quantity"`
}

func OrderItemToDto(item domain.OrderItem) OrderItemDto {
	dto := OrderItemDto{
		ID:       item.ID,
		OrderID:  item.OrderID,
		PhoneID:  item.PhoneID,
		Quantity: item.Quantity,
	}
	if item.Phone != nil {
		phone := PhoneToDto(*item.Phone)
		dto.Phone = &phone
	}
	return dto
}

func OrderToDto(order domain.Order) OrderDto {
	items := make([]OrderItemDto, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemToDto(item)
	}
	return OrderDto{
		ID:        order.ID,
		Status:    order.Status,
		Items:     items,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}

func OrdersToDto(orders []domain.Order) []OrderDto {
	dtos := make([]OrderDto, len(orders))
	for i, o := range orders {
		dtos[i] = OrderToDto(o)
	}
	return dtos
}
