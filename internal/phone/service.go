package phone

import (
	"context"

	"go.uber.org/zap"

	"phonestore/internal/domain"
)

// BrandLookup resolves the owning brand when phones are created or updated.
type BrandLookup interface {
	FindByName(ctx context.Context, name string) (*domain.Brand, error)
}

type Repository interface {
	FindAll(ctx context.Context) ([]domain.Phone, error)
	FindByID(ctx context.Context, id uint) (*domain.Phone, error)
	FindByBrandName(ctx context.Context, name string) ([]domain.Phone, error)
	Insert(ctx context.Context, phone domain.Phone) (uint, error)
	Update(ctx context.Context, phone domain.Phone) error
	Delete(ctx context.Context, id uint) error
}

type Service struct {
	repo   Repository
	brands BrandLookup
	logger *zap.Logger
}

func NewService(repo Repository, brands BrandLookup, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		brands: brands,
		logger: logger,
	}
}

func (s *Service) GetAllPhones(ctx context.Context) ([]domain.Phone, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) GetPhoneByID(ctx context.Context, id uint) (*domain.Phone, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) GetPhonesByBrandName(ctx context.Context, name string) ([]domain.Phone, error) {
	return s.repo.FindByBrandName(ctx, name)
}

func (s *Service) CreatePhone(ctx context.Context, phone domain.Phone, brandName string) (*domain.Phone, error) {
	brand, err := s.brands.FindByName(ctx, brandName)
	if err != nil {
		return nil, err
	}
	phone.BrandID = brand.ID
	phone.Brand = brand

	id, err := s.repo.Insert(ctx, phone)
	if err != nil {
		return nil, err
	}
	phone.ID = id

	s.logger.Info("phone created", zap.Uint("phoneId", id), zap.String("brand", brand.Name))
	return &phone, nil
}

// UpdatePhone overwrites price, quantity, description, specification, discount
// and brand. Fields are replaced wholesale; there is no merge of absent values.
func (s *Service) UpdatePhone(ctx context.Context, id uint, input domain.Phone, brandName string) (*domain.Phone, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	brand, err := s.brands.FindByName(ctx, brandName)
	if err != nil {
		return nil, err
	}

	existing.Price = input.Price
	existing.Quantity = input.Quantity
	existing.Description = input.Description
	existing.Specification = input.Specification
	existing.Discount = input.Discount
	existing.BrandID = brand.ID
	existing.Brand = brand

	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, err
	}

	s.logger.Info("phone updated", zap.Uint("phoneId", id))
	return existing, nil
}

func (s *Service) DeletePhone(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
