package services

import (
	"context"
	"mime/multipart"

	"github.com/coursemate/backend/internal/app/models"
	"github.com/coursemate/backend/internal/app/repositories"
	"github.com/coursemate/backend/internal/pkg/filestorage"
	"github.com/coursemate/backend/internal/pkg/upload"
	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, userID int64, update models.ProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, userID, update)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	return m.Called(ctx, userID, passwordHash).Error(0)
}

type mockCourseRepo struct{ mock.Mock }

func (m *mockCourseRepo) List(ctx context.Context, userID int64) ([]models.TrackedCourse, error) {
	args := m.Called(ctx, userID)
	courses, _ := args.Get(0).([]models.TrackedCourse)
	return courses, args.Error(1)
}

func (m *mockCourseRepo) Add(ctx context.Context, course *models.TrackedCourse) error {
	return m.Called(ctx, course).Error(0)
}

func (m *mockCourseRepo) Remove(ctx context.Context, userID int64, courseCode string) error {
	return m.Called(ctx, userID, courseCode).Error(0)
}

func (m *mockCourseRepo) CourseCodes(ctx context.Context, userID int64) ([]string, error) {
	args := m.Called(ctx, userID)
	codes, _ := args.Get(0).([]string)
	return codes, args.Error(1)
}

type mockResourceRepo struct{ mock.Mock }

func (m *mockResourceRepo) Create(ctx context.Context, resource *models.Resource) error {
	args := m.Called(ctx, resource)
	if args.Error(0) == nil {
		resource.ID = 10
	}
	return args.Error(0)
}

func (m *mockResourceRepo) GetByID(ctx context.Context, id int64) (*models.Resource, error) {
	args := m.Called(ctx, id)
	resource, _ := args.Get(0).(*models.Resource)
	return resource, args.Error(1)
}

func (m *mockResourceRepo) List(ctx context.Context, filter repositories.CatalogFilter) ([]*models.Resource, error) {
	args := m.Called(ctx, filter)
	resources, _ := args.Get(0).([]*models.Resource)
	return resources, args.Error(1)
}

func (m *mockResourceRepo) UpdateMetadata(ctx context.Context, id int64, update models.ResourceUpdate) (*models.Resource, error) {
	args := m.Called(ctx, id, update)
	resource, _ := args.Get(0).(*models.Resource)
	return resource, args.Error(1)
}

func (m *mockResourceRepo) Rate(ctx context.Context, id int64, rating int) (*models.RatingResult, error) {
	args := m.Called(ctx, id, rating)
	result, _ := args.Get(0).(*models.RatingResult)
	return result, args.Error(1)
}

func (m *mockResourceRepo) IncrementDownloads(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *mockResourceRepo) DistinctCourses(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	courses, _ := args.Get(0).([]string)
	return courses, args.Error(1)
}

type mockUploader struct{ mock.Mock }

func (m *mockUploader) Accept(ctx context.Context, fh *multipart.FileHeader, kind upload.Kind) (*filestorage.StoredFile, error) {
	args := m.Called(ctx, fh, kind)
	stored, _ := args.Get(0).(*filestorage.StoredFile)
	return stored, args.Error(1)
}

func (m *mockUploader) Delete(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

type mockTokens struct{ mock.Mock }

func (m *mockTokens) GenerateToken(userID int64, email string) (string, int64, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}
