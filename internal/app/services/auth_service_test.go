package services

import (
	"context"
	"testing"

	"github.com/coursemate/backend/internal/app/models"
	"github.com/coursemate/backend/internal/app/models/dto"
	"github.com/coursemate/backend/internal/pkg/apperrors"
	"github.com/coursemate/backend/internal/pkg/auth"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("registers with normalised email and hashed password", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("EmailExists", ctx, "john@example.com").Return(false, nil)
		users.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.Email == "john@example.com" && auth.CheckPassword(u.Password, "secret1")
		})).Return(nil)

		svc := NewAuthService(users, new(mockTokens), zerolog.Nop())
		user, err := svc.Signup(ctx, &dto.SignupRequest{FullName: " John ", Email: " John@Example.com ", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, "John", user.FullName)
		users.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("EmailExists", ctx, "john@example.com").Return(true, nil)

		svc := NewAuthService(users, new(mockTokens), zerolog.Nop())
		_, err := svc.Signup(ctx, &dto.SignupRequest{Email: "john@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestSignin(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	stored := &models.User{ID: 5, Email: "john@example.com", Password: hash}

	t.Run("issues a token", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("GetByEmail", ctx, "john@example.com").Return(stored, nil)
		tokens := new(mockTokens)
		tokens.On("GenerateToken", int64(5), "john@example.com").Return("signed.jwt.token", int64(86400), nil)

		svc := NewAuthService(users, tokens, zerolog.Nop())
		resp, err := svc.Signin(ctx, &dto.SigninRequest{Email: "JOHN@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, "signed.jwt.token", resp.Token)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, int64(86400), resp.ExpiresIn)
	})

	t.Run("wrong password and unknown email fail the same way", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("GetByEmail", ctx, "john@example.com").Return(stored, nil)
		users.On("GetByEmail", ctx, "nobody@example.com").Return(nil, apperrors.ErrUserNotFound)

		svc := NewAuthService(users, new(mockTokens), zerolog.Nop())
		_, errWrong := svc.Signin(ctx, &dto.SigninRequest{Email: "john@example.com", Password: "secret2"})
		_, errUnknown := svc.Signin(ctx, &dto.SigninRequest{Email: "nobody@example.com", Password: "secret1"})

		assert.ErrorIs(t, errWrong, apperrors.ErrInvalidCredentials)
		assert.ErrorIs(t, errUnknown, apperrors.ErrInvalidCredentials)
	})
}
