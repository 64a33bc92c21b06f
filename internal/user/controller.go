package user

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"phonestore/internal/api"
	"phonestore/internal/auth"
	"phonestore/internal/domain"
	"phonestore/internal/dto"
	apperrors "phonestore/internal/errors"
)

type UserService interface {
	GetAllUsers(ctx context.Context) ([]domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	CreateUser(ctx context.Context, user domain.User) (*domain.User, error)
	UpdateUser(ctx context.Context, username string, input domain.User) (*domain.User, error)
	DeleteUser(ctx context.Context, username string) error
	Login(ctx context.Context, username, password string) (*domain.User, error)
	Register(ctx context.Context, user domain.User) (*domain.User, error)
}

// UserOrders exposes the order history lookup behind GET /users/@self/orders.
type UserOrders interface {
	GetOrdersByUsername(ctx context.Context, username string) ([]domain.Order, error)
}

type TokenIssuer interface {
	Generate(user domain.User) (string, error)
}

type Controller struct {
	service UserService
	orders  UserOrders
	tokens  TokenIssuer
	logger  *zap.Logger
}

func NewController(service UserService, orders UserOrders, tokens TokenIssuer, logger *zap.Logger) *Controller {
	return &Controller{
		service: service,
		orders:  orders,
		tokens:  tokens,
		logger:  logger,
	}
}

func (c *Controller) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := c.service.GetAllUsers(r.Context())
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	dtos := make([]dto.UserDto, len(users))
	for i, u := range users {
		dtos[i] = dto.UserToDto(u)
	}
	api.WriteJSON(w, c.logger, http.StatusOK, dtos)
}

func (c *Controller) GetByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := c.service.GetUserByUsername(r.Context(), username)
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	api.WriteJSON(w, c.logger, http.StatusOK, dto.UserToDto(*user))
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreateUpdateUserDto
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, logger, invalidBody())
		return
	}
	if err := validateUserRequest(req.Username, req.Password); err != nil {
		api.WriteError(w, logger, err)
		return
	}

	user, err := c.service.CreateUser(r.Context(), domain.User{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		FullName: req.FullName,
		UserType: req.UserType,
	})
	if err != nil {
		api.WriteError(w, logger, err)
		return
	}

	api.WriteJSON(w, logger, http.StatusCreated, dto.UserToDto(*user))
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	username := chi.URLParam(r, "username")

	var req dto.CreateUpdateUserDto
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, logger, invalidBody())
		return
	}

	user, err := c.service.UpdateUser(r.Context(), username, domain.User{
		Password: req.Password,
		Email:    req.Email,
		FullName: req.FullName,
		UserType: req.UserType,
	})
	if err != nil {
		api.WriteError(w, logger, err)
		return
	}

	api.WriteJSON(w, logger, http.StatusOK, dto.UserToDto(*user))
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if err := c.service.DeleteUser(r.Context(), username); err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	api.WriteJSON(w, c.logger, http.StatusOK, nil)
}

// Login verifies the credentials and hands back a signed bearer token.
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.LoginRequestDto
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, logger, invalidBody())
		return
	}
	if err := validateUserRequest(req.Username, req.Password); err != nil {
		api.WriteError(w, logger, err)
		return
	}

	user, err := c.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		api.WriteError(w, logger, err)
		return
	}

	token, err := c.tokens.Generate(*user)
	if err != nil {
		api.WriteError(w, logger, err)
		return
	}

	logger.Info("user logged in", zap.String("username", user.Username))
	api.WriteJSON(w, logger, http.StatusOK, dto.LoginResponseDto{
		AccessToken: token,
		User:        dto.UserToDto(*user),
	})
}

// Register creates a customer account. The user type in the request is
// ignored; self-registration never grants admin.
func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.RegisterRequestDto
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, logger, invalidBody())
		return
	}
	if err := validateUserRequest(req.Username, req.Password); err != nil {
		api.WriteError(w, logger, err)
		return
	}

	user, err := c.service.Register(r.Context(), domain.User{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		api.WriteError(w, logger, err)
		return
	}

	api.WriteJSON(w, logger, http.StatusCreated, dto.UserToDto(*user))
}

// SelfOrders returns the order history of the authenticated caller.
func (c *Controller) SelfOrders(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		api.WriteError(w, c.logger, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	orders, err := c.orders.GetOrdersByUsername(r.Context(), principal.Username)
	if err != nil {
		api.WriteError(w, c.logger, err)
		return
	}

	api.WriteJSON(w, c.logger, http.StatusOK, dto.OrdersToDto(orders))
}

func invalidBody() error {
	return apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
		Field:   "body",
		Message: "request body must be valid JSON",
	})
}

func validateUserRequest(username, password string) error {
	var details []apperrors.ValidationDetail
	if username == "" {
		details = append(details, apperrors.ValidationDetail{Field: "username", Message: "username must not be empty"})
	}
	if password == "" {
		details = append(details, apperrors.ValidationDetail{Field: "password", Message: "password must not be empty"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
