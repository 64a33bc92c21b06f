package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"phonestore/internal/api"
	"phonestore/internal/auth"
	"phonestore/internal/domain"
	"phonestore/internal/dto"
	apperrors "phonestore/internal/errors"
)

type OrderService interface {
	CreateOrder(ctx context.Context, username string, items []domain.OrderItem) (*domain.Order, error)
	GetAllOrders(ctx context.Context) ([]domain.Order, error)
	GetOrderByID(ctx context.Context, id uint) (*domain.Order, error)
	OrderOwner(ctx context.Context, id uint) (string, error)
	UpdateOrderStatus(ctx context.Context, id uint, status string) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id uint) error
}

type OrderController struct {
	service OrderService
	logger  *zap.Logger
}

func NewOrderController(service OrderService, logger *zap.Logger) *OrderController {
	return &OrderController{
		service: service,
		logger:  logger,
	}
}

// Create places an order for the authenticated caller, reserving stock for
// every line item.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		api.WriteError(w, logger, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	var req dto.CreateOrderDto
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, logger, apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		}))
		return
	}
	if err := validateOrderItems(req.Items); err != nil {
		api.WriteError(w, logger, err)
		return
	}

	items := make([]domain.OrderItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = domain.OrderItem{PhoneID: it.PhoneID, Quantity: it.Quantity}
	}

	order, err := c.service.CreateOrder(r.Context(), principal.Username, items)
	if err != nil {
		api.WriteError(w, logger, err)
		return
	}

	api.WriteJSON(w, logger, http.StatusCreated, dto.OrderToDto(*order))
}

func (c *OrderController) GetAll(w http.ResponseWriter, r *http.Request) {
	orders, err := c.service.GetAllOrders(r.Context())
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	api.WriteJSON(w, c.logger, http.StatusOK, dto.OrdersToDto(orders))
}

func (c *OrderController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseOrderID(r)
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	if err := c.authorizeOrderAccess(r, id); err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	order, err := c.service.GetOrderByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	api.WriteJSON(w, c.logger, http.StatusOK, dto.OrderToDto(*order))
}

func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, err := parseOrderID(r)
	if err != nil {
		api.WriteError(w, logger, err)
		return
	}

	if err := c.authorizeOrderAccess(r, id); err != nil {
		api.WriteError(w, logger, err)
		return
	}

	var req dto.UpdateOrderDto
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, logger, apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		}))
		return
	}
	if req.Status != domain.OrderStatusPending && req.Status != domain.OrderStatusCompleted {
		api.WriteError(w, logger, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status must be PENDING or COMPLETED",
		}))
		return
	}

	order, err := c.service.UpdateOrderStatus(r.Context(), id, req.Status)
	if err != nil {
		api.WriteError(w, logger, err)
		return
	}

	api.WriteJSON(w, logger, http.StatusOK, dto.OrderToDto(*order))
}

func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseOrderID(r)
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	if err := c.authorizeOrderAccess(r, id); err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	if err := c.service.DeleteOrder(r.Context(), id); err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	api.WriteJSON(w, c.logger, http.StatusOK, nil)
}

// authorizeOrderAccess lets an order through to its owner or to an admin.
func (c *OrderController) authorizeOrderAccess(r *http.Request, orderID uint) error {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		return apperrors.NewUnauthorizedError("authentication required")
	}
	if principal.UserType == domain.UserTypeAdmin {
		return nil
	}

	owner, err := c.service.OrderOwner(r.Context(), orderID)
	if err != nil {
		return err
	}
	if owner != principal.Username {
		return apperrors.NewForbiddenError("order belongs to another user")
	}
	return nil
}

func validateOrderItems(items []dto.CreateOrderItemDto) error {
	var details []apperrors.ValidationDetail
	if len(items) == 0 {
		details = append(details, apperrors.ValidationDetail{Field: "orderItems", Message: "orderItems must not be empty"})
	}
	for i, it := range items {
		if it.PhoneID == 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "orderItems[" + strconv.Itoa(i) + "].phoneId",
				Message: "phoneId must be a positive integer",
			})
		}
		if it.Quantity < 1 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "orderItems[" + strconv.Itoa(i) + "].quantity",
				Message: "quantity must be at least 1",
			})
		}
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func parseOrderID(r *http.Request) (uint, error) {
	return parsePathID(r, "orderID")
}

func parsePathID(r *http.Request, param string) (uint, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   param,
			Message: param + " must be a positive integer",
		})
	}
	return uint(id), nil
}
