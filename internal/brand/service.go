package brand

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"phonestore/internal/domain"
	"phonestore/internal/errors"
)

type Repository interface {
	FindAll(ctx context.Context) ([]domain.Brand, error)
	FindByID(ctx context.Context, id uint) (*domain.Brand, error)
	FindByName(ctx context.Context, name string) (*domain.Brand, error)
	Insert(ctx context.Context, brand domain.Brand) (uint, error)
	Update(ctx context.Context, brand domain.Brand) error
	Delete(ctx context.Context, id uint) error
}

// PhoneLister lists the phones belonging to a brand.
type PhoneLister interface {
	FindByBrandName(ctx context.Context, name string) ([]domain.Phone, error)
}

type Service struct {
	repo   Repository
	phones PhoneLister
	logger *zap.Logger
}

func NewService(repo Repository, phones PhoneLister, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		phones: phones,
		logger: logger,
	}
}

func (s *Service) GetAllBrands(ctx context.Context) ([]domain.Brand, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) GetBrandByID(ctx context.Context, id uint) (*domain.Brand, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) GetBrandByName(ctx context.Context, name string) (*domain.Brand, error) {
	return s.repo.FindByName(ctx, name)
}

func (s *Service) CreateBrand(ctx context.Context, brand domain.Brand) (*domain.Brand, error) {
	if _, err := s.repo.FindByName(ctx, brand.Name); err == nil {
		return nil, errors.NewConflictError(fmt.Sprintf("brand with name %s already exists", brand.Name))
	} else if _, ok := errors.IsNotFoundError(err); !ok {
		return nil, err
	}

	id, err := s.repo.Insert(ctx, brand)
	if err != nil {
		return nil, err
	}
	brand.ID = id

	s.logger.Info("brand created", zap.Uint("brandId", id), zap.String("name", brand.Name))
	return &brand, nil
}

func (s *Service) UpdateBrand(ctx context.Context, id uint, input domain.Brand) (*domain.Brand, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if other, err := s.repo.FindByName(ctx, input.Name); err == nil && other.ID != id {
		return nil, errors.NewConflictError(fmt.Sprintf("brand with name %s already exists", input.Name))
	} else if err != nil {
		if _, ok := errors.IsNotFoundError(err); !ok {
			return nil, err
		}
	}

	existing.Name = input.Name
	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, err
	}

	s.logger.Info("brand updated", zap.Uint("brandId", id))
	return existing, nil
}

func (s *Service) DeleteBrand(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetBrandPhones(ctx context.Context, name string) ([]domain.Phone, error) {
	if _, err := s.repo.FindByName(ctx, name); err != nil {
		return nil, err
	}
	return s.phones.FindByBrandName(ctx, name)
}
