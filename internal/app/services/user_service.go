package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/coursemate/backend/internal/app/models"
	"github.com/coursemate/backend/internal/app/models/dto"
	"github.com/coursemate/backend/internal/app/repositories"
	"github.com/coursemate/backend/internal/pkg/apperrors"
	"github.com/coursemate/backend/internal/pkg/auth"
	"github.com/coursemate/backend/internal/pkg/helpers"
	"github.com/coursemate/backend/internal/pkg/upload"
	"github.com/coursemate/backend/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// Account messages shown to clients
const (
	MsgPasswordsRequired    = "Current and new password are required"
	MsgCurrentPasswordWrong = "Current password is incorrect"
	MsgCourseRequired       = "Course ID and name are required"
	MsgInvalidCourseCode    = "Course code should follow format like CSE110"
	MsgYearOutOfRange       = "Year must be between 2000 and 2100"
)

// UserService handles the signed-in user's account and dashboard
type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error
	UploadAvatar(ctx context.Context, userID int64, file *multipart.FileHeader) (string, error)
	ListCourses(ctx context.Context, userID int64) ([]models.TrackedCourse, error)
	AddCourse(ctx context.Context, userID int64, req *dto.AddCourseRequest) ([]models.TrackedCourse, error)
	RemoveCourse(ctx context.Context, userID int64, courseID string) ([]models.TrackedCourse, error)
	DashboardResources(ctx context.Context, userID int64) ([]*models.Resource, error)
}

type userServiceImpl struct {
	userRepo     repositories.IUserRepository
	courseRepo   repositories.IUserCourseRepository
	resourceRepo repositories.IResourceRepository
	uploader     FileUploader
	logger       zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.IUserRepository,
	courseRepo repositories.IUserCourseRepository,
	resourceRepo repositories.IResourceRepository,
	uploader FileUploader,
	logger zerolog.Logger,
) UserService {
	return &userServiceImpl{
		userRepo:     userRepo,
		courseRepo:   courseRepo,
		resourceRepo: resourceRepo,
		uploader:     uploader,
		logger:       logger,
	}
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile changes only the fields present in req
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error) {
	update := req.ToModel()
	if update.FullName != nil {
		trimmed := strings.TrimSpace(*update.FullName)
		update.FullName = &trimmed
	}
	return s.userRepo.UpdateProfile(ctx, userID, update)
}

// ChangePassword checks the current password before storing the new hash
func (s *userServiceImpl) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewBadRequestError(MsgPasswordsRequired)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		return apperrors.NewBadRequestError(MsgCurrentPasswordWrong)
	}
	if len(req.NewPassword) < validation.PasswordMinLength {
		return apperrors.NewBadRequestError(dto.MsgPasswordTooShort)
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, userID, hash)
}

// UploadAvatar stores an image and points the profile picture at it
func (s *userServiceImpl) UploadAvatar(ctx context.Context, userID int64, file *multipart.FileHeader) (string, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return "", err
	}

	stored, err := s.uploader.Accept(ctx, file, upload.KindAvatar)
	if err != nil {
		return "", err
	}

	if _, err := s.userRepo.UpdateProfile(ctx, userID, models.ProfileUpdate{ProfilePicture: &stored.URL}); err != nil {
		s.discard(ctx, stored.Path)
		return "", err
	}
	return stored.URL, nil
}

func (s *userServiceImpl) ListCourses(ctx context.Context, userID int64) ([]models.TrackedCourse, error) {
	return s.courseRepo.List(ctx, userID)
}

// AddCourse pins a course to the dashboard and returns the updated list
func (s *userServiceImpl) AddCourse(ctx context.Context, userID int64, req *dto.AddCourseRequest) ([]models.TrackedCourse, error) {
	courseID := strings.TrimSpace(req.CourseID)
	courseName := strings.TrimSpace(req.CourseName)
	if courseID == "" || courseName == "" {
		return nil, apperrors.NewBadRequestError(MsgCourseRequired)
	}
	if !validation.IsValidCourseCode(courseID) {
		return nil, apperrors.NewBadRequestError(MsgInvalidCourseCode)
	}

	year := req.Year
	if year == 0 {
		year = helpers.CurrentYear()
	} else if !helpers.ValidYear(year) {
		return nil, apperrors.NewBadRequestError(MsgYearOutOfRange)
	}

	course := &models.TrackedCourse{
		UserID:     userID,
		CourseID:   courseID,
		CourseName: courseName,
		Semester:   helpers.FirstNonEmpty(strings.TrimSpace(req.Semester), models.DefaultSemester),
		Year:       year,
	}
	if err := s.courseRepo.Add(ctx, course); err != nil {
		return nil, err
	}

	return s.courseRepo.List(ctx, userID)
}

// RemoveCourse unpins a course; unknown codes are ignored
func (s *userServiceImpl) RemoveCourse(ctx context.Context, userID int64, courseID string) ([]models.TrackedCourse, error) {
	if err := s.courseRepo.Remove(ctx, userID, strings.TrimSpace(courseID)); err != nil {
		return nil, err
	}
	return s.courseRepo.List(ctx, userID)
}

// DashboardResources lists catalog resources for the tracked courses, best rated first
func (s *userServiceImpl) DashboardResources(ctx context.Context, userID int64) ([]*models.Resource, error) {
	codes, err := s.courseRepo.CourseCodes(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return []*models.Resource{}, nil
	}

	resources, err := s.resourceRepo.List(ctx, repositories.CatalogFilter{Courses: codes, Sort: repositories.SortRating})
	if err != nil {
		return nil, apperrors.NewDatabaseError(err, MsgQueryFailed)
	}
	return resources, nil
}

func (s *userServiceImpl) discard(ctx context.Context, path string) {
	if err := s.uploader.Delete(ctx, path); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove orphaned upload")
	}
}
