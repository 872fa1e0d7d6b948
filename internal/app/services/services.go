package services

import (
	"context"
	"mime/multipart"

	"github.com/coursemate/backend/internal/app/repositories"
	"github.com/coursemate/backend/internal/pkg/auth"
	"github.com/coursemate/backend/internal/pkg/filestorage"
	"github.com/coursemate/backend/internal/pkg/upload"
	"github.com/rs/zerolog"
)

// FileUploader validates and stores multipart files
type FileUploader interface {
	Accept(ctx context.Context, fh *multipart.FileHeader, kind upload.Kind) (*filestorage.StoredFile, error)
	Delete(ctx context.Context, path string) error
}

// TokenIssuer signs access tokens
type TokenIssuer interface {
	GenerateToken(userID int64, email string) (string, int64, error)
}

// Services defined in this package:
// - AuthService: signup and signin
// - UserService: profile, password, avatar and dashboard
// - ResourceService: catalog, uploads, ratings and downloads
type Services struct {
	AuthService     AuthService
	UserService     UserService
	ResourceService ResourceService
}

// NewServices wires every service over the repositories
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService, uploader FileUploader, logger zerolog.Logger) *Services {
	return &Services{
		AuthService:     NewAuthService(repos.UserRepository, jwtService, logger),
		UserService:     NewUserService(repos.UserRepository, repos.UserCourseRepository, repos.ResourceRepository, uploader, logger),
		ResourceService: NewResourceService(repos.ResourceRepository, uploader, logger),
	}
}
