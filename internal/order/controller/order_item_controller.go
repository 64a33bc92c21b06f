package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"phonestore/internal/api"
	"phonestore/internal/auth"
	"phonestore/internal/domain"
	"phonestore/internal/dto"
	apperrors "phonestore/internal/errors"
)

type OrderItemService interface {
	GetOrderItems(ctx context.Context, orderID uint) ([]domain.OrderItem, error)
	GetOrderItemByID(ctx context.Context, id uint) (*domain.OrderItem, error)
	CreateOrderItem(ctx context.Context, orderID, phoneID uint, quantity int) (*domain.OrderItem, error)
	UpdateOrderItem(ctx context.Context, id, phoneID uint, quantity int) (*domain.OrderItem, error)
	DeleteOrderItem(ctx context.Context, id uint) error
}

// OrderOwnership resolves the owning username of an order for access checks.
type OrderOwnership interface {
	OrderOwner(ctx context.Context, id uint) (string, error)
}

type OrderItemController struct {
	service OrderItemService
	orders  OrderOwnership
	logger  *zap.Logger
}

func NewOrderItemController(service OrderItemService, orders OrderOwnership, logger *zap.Logger) *OrderItemController {
	return &OrderItemController{
		service: service,
		orders:  orders,
		logger:  logger,
	}
}

func (c *OrderItemController) GetAll(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseOrderID(r)
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	if err := c.authorizeItemAccess(r, orderID); err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	items, err := c.service.GetOrderItems(r.Context(), orderID)
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	dtos := make([]dto.OrderItemDto, len(items))
	for i, item := range items {
		dtos[i] = dto.OrderItemToDto(item)
	}
	api.WriteJSON(w, c.logger, http.StatusOK, dtos)
}

// Create adds a line item to an existing order, reserving its stock.
func (c *OrderItemController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, err := parseOrderID(r)
	if err != nil {
		api.WriteError(w, logger, err)
		return
	}

	if err := c.authorizeItemAccess(r, orderID); err != nil {
		api.WriteError(w, logger, err)
		return
	}

	req, err := decodeItemRequest(r)
	if err != nil {
		api.WriteError(w, logger, err)
		return
	}

	item, err := c.service.CreateOrderItem(r.Context(), orderID, req.PhoneID, req.Quantity)
	if err != nil {
		api.WriteError(w, logger, err)
		return
	}

	api.WriteJSON(w, logger, http.StatusCreated, dto.OrderItemToDto(*item))
}

// Update changes a line item's phone or quantity, reconciling the stock delta.
func (c *OrderItemController) Update(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, err := parseOrderID(r)
	if err != nil {
		api.WriteError(w, logger, err)
		return
	}
	itemID, err := parsePathID(r, "itemID")
	if err != nil {
		api.WriteError(w, logger, err)
		return
	}

	if err := c.authorizeItemAccess(r, orderID); err != nil {
		api.WriteError(w, logger, err)
		return
	}
	if err := c.checkItemBelongsToOrder(r.Context(), itemID, orderID); err != nil {
		api.WriteError(w, logger, err)
		return
	}

	req, err := decodeItemRequest(r)
	if err != nil {
		api.WriteError(w, logger, err)
		return
	}

	item, err := c.service.UpdateOrderItem(r.Context(), itemID, req.PhoneID, req.Quantity)
	if err != nil {
		api.WriteError(w, logger, err)
		return
	}

	api.WriteJSON(w, logger, http.StatusOK, dto.OrderItemToDto(*item))
}

// Delete removes a line item and releases its reserved stock.
func (c *OrderItemController) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseOrderID(r)
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}
	itemID, err := parsePathID(r, "itemID")
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	if err := c.authorizeItemAccess(r, orderID); err != nil {
		api.WriteError(w, c.logger, err)
		return
	}
	if err := c.checkItemBelongsToOrder(r.Context(), itemID, orderID); err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	if err := c.service.DeleteOrderItem(r.Context(), itemID); err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	api.WriteJSON(w, c.logger, http.StatusOK, nil)
}

func (c *OrderItemController) authorizeItemAccess(r *http.Request, orderID uint) error {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		return apperrors.NewUnauthorizedError("authentication required")
	}
	if principal.UserType == domain.UserTypeAdmin {
		return nil
	}

	owner, err := c.orders.OrderOwner(r.Context(), orderID)
	if err != nil {
		return err
	}
	if owner != principal.Username {
		return apperrors.NewForbiddenError("order belongs to another user")
	}
	return nil
}

// checkItemBelongsToOrder stops cross-order item access through a guessed id.
func (c *OrderItemController) checkItemBelongsToOrder(ctx context.Context, itemID, orderID uint) error {
	item, err := c.service.GetOrderItemByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.OrderID != orderID {
		return apperrors.NewNotFoundError("order item does not belong to this order")
	}
	return nil
}

func decodeItemRequest(r *http.Request) (dto.CreateUpdateOrderItemDto, error) {
	var req dto.CreateUpdateOrderItemDto
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
	}

	var details []apperrors.ValidationDetail
	if req.PhoneID == 0 {
		details = append(details, apperrors.ValidationDetail{Field: "phoneId", Message: "phoneId must be a positive integer"})
	}
	if req.Quantity < 1 {
		details = append(details, apperrors.ValidationDetail{Field: "quantity", Message: "quantity must be at least 1"})
	}
	if len(details) > 0 {
		return req, apperrors.NewValidationError("validation failed", details...)
	}

	return req, nil
}
