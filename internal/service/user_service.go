package service

import (
	"context"
	"strings"

	"cashierhub-api/internal/model"
	"cashierhub-api/internal/repository"
	"cashierhub-api/pkg/apperr"
	"cashierhub-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrUserNotFound = apperr.NotFound("user not found")

	userUniqueFields = []apperr.UniqueField{
		{Column: "username", Message: "username already in use"},
		{Column: "email", Message: "email already in use"},
	}
)

type UserService interface {
	GetAllUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
	CreateUser(ctx context.Context, req *CreateUserRequest) (*model.UserResponse, error)
	UpdateUser(ctx context.Context, id uuid.UUID, patch *model.UserPatch) (*model.UserResponse, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"notblank,max=100"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Role     string `json:"role" validate:"notblank"`
}

type userService struct {
	userRepo   repository.UserRepository
	bcryptCost int
	log        zerolog.Logger
}

func NewUserService(userRepo repository.UserRepository, bcryptCost int, log zerolog.Logger) UserService {
	return &userService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
		log:        log.With().Str("component", "users").Logger(),
	}
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, apperr.FromStore(err, ErrUserNotFound.Message())
	}
	return model.ToUserResponses(users), nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, ErrUserNotFound.Message())
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest) (*model.UserResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation(validator.Message(errs))
	}

	user := &model.User{
		Username: strings.TrimSpace(req.Username),
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Phone:    req.Phone,
		Address:  req.Address,
		Role:     strings.TrimSpace(req.Role),
	}
	if err := user.SetPassword(req.Password, s.bcryptCost); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "failed to hash password")
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperr.FromStore(err, ErrUserNotFound.Message(), userUniqueFields...)
	}

	s.log.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("user created")
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, patch *model.UserPatch) (*model.UserResponse, error) {
	cols, err := patch.Columns(func(password string) (string, error) {
		return model.HashPassword(password, s.bcryptCost)
	})
	if err != nil {
		if apperr.As(err) == nil {
			return nil, apperr.Wrap(apperr.CodeInternal, err, "failed to hash password")
		}
		return nil, err
	}

	if len(cols) > 0 {
		if err := s.userRepo.Update(ctx, id, cols); err != nil {
			return nil, apperr.FromStore(err, ErrUserNotFound.Message(), userUniqueFields...)
		}
	}
	return s.GetUserByID(ctx, id)
}

func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return apperr.FromStore(err, ErrUserNotFound.Message())
	}
	s.log.Info().Str("user_id", id.String()).Msg("user deleted")
	return nil
}
