package brand

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

type BrandService interface {
	GetAllBrands(ctx context.Context) ([]domain.Brand, error)
	GetBrandByID(ctx context.Context, id uint) (*domain.Brand, error)
	GetBrandByName(ctx context.Context, name string) (*domain.Brand, error)
	CreateBrand(ctx context.Context, brand domain.Brand) (*domain.Brand, error)
	UpdateBrand(ctx context.Context, id uint, input domain.Brand) (*domain.Brand, error)
	DeleteBrand(ctx context.Context, id uint) error
	GetBrandPhones(ctx context.Context, name string) ([]domain.Phone, error)
}

type Controller struct {
	service BrandService
	logger  *zap.Logger
}

func NewController(service BrandService, logger *zap.Logger) *Controller {
	return &Controller{
		service: service,
		logger:  logger,
	}
}

func (c *Controller) GetAll(w http.ResponseWriter, r *http.Request) {
	brands, err := c.service.GetAllBrands(r.Context())
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	dtos := make([]dto.BrandDto, len(brands))
	for i, b := range brands {
		dtos[i] = dto.BrandToDto(b)
	}
	api.WriteJSON(w, c.logger, http.StatusOK, dtos)
}

func (c *Controller) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "brandID")
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	brand, err := c.service.GetBrandByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	api.WriteJSON(w, c.logger, http.StatusOK, dto.BrandToDto(*brand))
}

func (c *Controller) GetByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "brandName")

	brand, err := c.service.GetBrandByName(r.Context(), name)
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	api.WriteJSON(w, c.logger, http.StatusOK, dto.BrandToDto(*brand))
}

func (c *Controller) GetPhones(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "brandID")
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	brand, err := c.service.GetBrandByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	phones, err := c.service.GetBrandPhones(r.Context(), brand.Name)
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	api.WriteJSON(w, c.logger, http.StatusOK, dto.PhonesToDto(phones))
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreateUpdateBrandDto
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, logger, apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		}))
		return
	}

	if req.Name == "" {
		api.WriteError(w, logger, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "name",
			Message: "name must not be empty",
		}))
		return
	}

	brand, err := c.service.CreateBrand(r.Context(), domain.Brand{Name: req.Name})
	if err != nil {
		api.WriteError(w, logger, err)
		return
	}

	api.WriteJSON(w, logger, http.StatusCreated, dto.BrandToDto(*brand))
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "brandID")
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	var req dto.CreateUpdateBrandDto
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, c.logger, apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		}))
		return
	}

	brand, err := c.service.UpdateBrand(r.Context(), id, domain.Brand{Name: req.Name})
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	api.WriteJSON(w, c.logger, http.StatusOK, dto.BrandToDto(*brand))
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "brandID")
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	if err := c.service.DeleteBrand(r.Context(), id); err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	api.WriteJSON(w, c.logger, http.StatusOK, nil)
}

func parseID(r *http.Request, param string) (uint, error) {
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
