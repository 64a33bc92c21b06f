package phone

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"phonestore/internal/api"
	"phonestore/internal/domain"
	"phonestore/internal/dto"
	apperrors "phonestore/internal/errors"
)

type PhoneService interface {
	GetAllPhones(ctx context.Context) ([]domain.Phone, error)
	GetPhoneByID(ctx context.Context, id uint) (*domain.Phone, error)
	GetPhonesByBrandName(ctx context.Context, name string) ([]domain.Phone, error)
	CreatePhone(ctx context.Context, phone domain.Phone, brandName string) (*domain.Phone, error)
	UpdatePhone(ctx context.Context, id uint, input domain.Phone, brandName string) (*domain.Phone, error)
	DeletePhone(ctx context.Context, id uint) error
}

type Controller struct {
	service PhoneService
	logger  *zap.Logger
}

func NewController(service PhoneService, logger *zap.Logger) *Controller {
	return &Controller{
		service: service,
		logger:  logger,
	}
}

// GetAll lists every phone, optionally filtered by the brand query parameter.
func (c *Controller) GetAll(w http.ResponseWriter, r *http.Request) {
	var (
		phones []domain.Phone
		err    error
	)
	if brand := r.URL.Query().Get("brand"); brand != "" {
		phones, err = c.service.GetPhonesByBrandName(r.Context(), brand)
	} else {
		phones, err = c.service.GetAllPhones(r.Context())
	}
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	api.WriteJSON(w, c.logger, http.StatusOK, dto.PhonesToDto(phones))
}

func (c *Controller) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parsePhoneID(r)
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	phone, err := c.service.GetPhoneByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	api.WriteJSON(w, c.logger, http.StatusOK, dto.PhoneToDto(*phone))
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	req, err := decodePhoneRequest(r)
	if err != nil {
		api.WriteError(w, logger, err)
		return
	}

	phone, err := c.service.CreatePhone(r.Context(), phoneFromRequest(req), req.BrandName)
	if err != nil {
		api.WriteError(w, logger, err)
		return
	}

	api.WriteJSON(w, logger, http.StatusCreated, dto.PhoneToDto(*phone))
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, err := parsePhoneID(r)
	if err != nil {
		api.WriteError(w, logger, err)
		return
	}

	req, err := decodePhoneRequest(r)
	if err != nil {
		api.WriteError(w, logger, err)
		return
	}

	phone, err := c.service.UpdatePhone(r.Context(), id, phoneFromRequest(req), req.BrandName)
	if err != nil {
		api.WriteError(w, logger, err)
		return
	}

	api.WriteJSON(w, logger, http.StatusOK, dto.PhoneToDto(*phone))
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parsePhoneID(r)
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	if err := c.service.DeletePhone(r.Context(), id); err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	api.WriteJSON(w, c.logger, http.StatusOK, nil)
}

func decodePhoneRequest(r *http.Request) (dto.CreateUpdatePhoneDto, error) {
	var req dto.CreateUpdatePhoneDto
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
	}

	var details []apperrors.ValidationDetail
	if req.Price < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "price must not be negative"})
	}
	if req.Quantity < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "quantity", Message: "quantity must not be negative"})
	}
	if req.BrandName == "" {
		details = append(details, apperrors.ValidationDetail{Field: "brandName", Message: "brandName must not be empty"})
	}
	if len(details) > 0 {
		return req, apperrors.NewValidationError("validation failed", details...)
	}

	return req, nil
}

func phoneFromRequest(req dto.CreateUpdatePhoneDto) domain.Phone {
	return domain.Phone{
		Price:         req.Price,
		Quantity:      req.Quantity,
		Description:   req.Description,
		Specification: req.Specification,
		Discount:      req.Discount,
	}
}

func parsePhoneID(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "phoneID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "phoneID",
			Message: "phoneID must be a positive integer",
		})
	}
	return uint(id), nil
}
