package user

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"phonestore/internal/domain"
	"phonestore/internal/errors"
)

type Repository interface {
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Insert(ctx context.Context, user domain.User) (uint, error)
	Update(ctx context.Context, user domain.User) error
	Delete(ctx context.Context, username string) error
}

type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *Service) CreateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	if _, err := s.repo.FindByUsername(ctx, user.Username); err == nil {
		return nil, errors.NewConflictError(fmt.Sprintf("user with username %s already exists", user.Username))
	} else if _, ok := errors.IsNotFoundError(err); !ok {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewInternalError("hashing password", err)
	}
	user.Password = string(hashed)
	user.IsActive = true

	id, err := s.repo.Insert(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	s.logger.Info("user created", zap.String("username", user.Username), zap.String("userType", user.UserType))
	return &user, nil
}

// UpdateUser overwrites email, full name, active flag and user type, and
// re-hashes the supplied password. The username itself never changes.
func (s *Service) UpdateUser(ctx context.Context, username string, input domain.User) (*domain.User, error) {
	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewInternalError("hashing password", err)
	}

	existing.Password = string(hashed)
	existing.Email = input.Email
	existing.FullName = input.FullName
	existing.IsActive = input.IsActive
	existing.UserType = input.UserType

	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, err
	}

	s.logger.Info("user updated", zap.String("username", username))
	return existing, nil
}

func (s *Service) DeleteUser(ctx context.Context, username string) error {
	if _, err := s.repo.FindByUsername(ctx, username); err != nil {
		return err
	}
	return s.repo.Delete(ctx, username)
}

func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errors.NewUnauthorizedError("invalid credentials")
	}

	return user, nil
}

// Register creates a customer account. The role is forced to CUSTOMER so the
// public endpoint can never mint admins.
func (s *Service) Register(ctx context.Context, user domain.User) (*domain.User, error) {
	user.UserType = domain.UserTypeCustomer
	return s.CreateUser(ctx, user)
}
