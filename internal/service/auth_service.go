package service

import (
	"context"
	"errors"

	"cashierhub-api/internal/model"
	"cashierhub-api/internal/repository"
	"cashierhub-api/pkg/apperr"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Unknown user and wrong password share one message so usernames cannot be probed.
var ErrInvalidCredentials = apperr.Unauthorized("invalid username or password")

type AuthService interface {
	Login(ctx context.Context, username, password string) (*model.UserResponse, error)
	ResetPassword(ctx context.Context, username, newPassword string) error
}

type authService struct {
	userRepo   repository.UserRepository
	bcryptCost int
	log        zerolog.Logger
}

func NewAuthService(userRepo repository.UserRepository, bcryptCost int, log zerolog.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
		log:        log.With().Str("component", "auth").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*model.UserResponse, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn().Str("username", username).Msg("login failed: unknown user")
			return nil, ErrInvalidCredentials
		}
		return nil, apperr.FromStore(err, ErrInvalidCredentials.Message())
	}

	if !user.CheckPassword(password) {
		s.log.Warn().Str("username", username).Msg("login failed: wrong password")
		return nil, ErrInvalidCredentials
	}
	if !user.HasHashedPassword() {
		s.log.Warn().Str("user_id", user.ID.String()).Msg("user still has a plaintext password")
	}

	s.log.Info().Str("user_id", user.ID.String()).Str("role", user.Role).Msg("login succeeded")
	resp := user.ToResponse()
	return &resp, nil
}

// ResetPassword sets a new bcrypt password for username. Used by the operator CLI.
func (s *authService) ResetPassword(ctx context.Context, username, newPassword string) error {
	if len(newPassword) < model.MinPasswordLength {
		return apperr.Validation("password must be at least 6 characters")
	}
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return apperr.FromStore(err, ErrUserNotFound.Message())
	}
	hashed, err := model.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, err, "failed to hash password")
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return apperr.FromStore(err, ErrUserNotFound.Message())
	}
	s.log.Info().Str("user_id", user.ID.String()).Msg("password reset")
	return nil
}
