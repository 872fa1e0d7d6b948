package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coursemate/backend/internal/app/models"
	"github.com/coursemate/backend/internal/app/models/dto"
	"github.com/coursemate/backend/internal/app/repositories"
	"github.com/coursemate/backend/internal/pkg/apperrors"
	"github.com/coursemate/backend/internal/pkg/auth"
	"github.com/coursemate/backend/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// AuthService handles registration and login
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*models.User, error)
	Signin(ctx context.Context, req *dto.SigninRequest) (*dto.TokenResponse, error)
}

type authServiceImpl struct {
	userRepo repositories.IUserRepository
	tokens   TokenIssuer
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.IUserRepository, tokens TokenIssuer, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Signup registers a new user with a bcrypt-hashed password. The request
// has already passed its binding tags.
func (s *authServiceImpl) Signup(ctx context.Context, req *dto.SignupRequest) (*models.User, error) {
	email := helpers.NormalizeEmail(req.Email)

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		FullName: strings.TrimSpace(req.FullName),
		Email:    email,
		Phone:    strings.TrimSpace(req.Phone),
		Password: hash,
		Badges:   []string{},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("email", email).Msg("User registered")
	return user, nil
}

// Signin verifies credentials and issues an access token.
// Unknown email and wrong password fail the same way.
func (s *authServiceImpl) Signin(ctx context.Context, req *dto.SigninRequest) (*dto.TokenResponse, error) {
	email := helpers.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Debug().Str("email", email).Msg("Signin for unknown email")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Debug().Int64("userID", user.ID).Msg("Signin with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: expiresIn,
	}, nil
}
