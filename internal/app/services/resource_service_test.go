package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/coursemate/backend/internal/app/models"
	"github.com/coursemate/backend/internal/app/models/dto"
	"github.com/coursemate/backend/internal/app/repositories"
	"github.com/coursemate/backend/internal/pkg/apperrors"
	"github.com/coursemate/backend/internal/pkg/filestorage"
	"github.com/coursemate/backend/internal/pkg/helpers"
	"github.com/coursemate/backend/internal/pkg/upload"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCatalogFilter(t *testing.T) {
	t.Run("owner scope unless browsing", func(t *testing.T) {
		filter, _ := NormalizeCatalogFilter(3, dto.CatalogFilterRequest{})
		require.NotNil(t, filter.OwnerID)
		assert.Equal(t, int64(3), *filter.OwnerID)

		filter, _ = NormalizeCatalogFilter(3, dto.CatalogFilterRequest{Browse: "true"})
		assert.Nil(t, filter.OwnerID)

		for _, browse := range []string{"1", "TRUE", "True", "yes", " true"} {
			filter, _ = NormalizeCatalogFilter(3, dto.CatalogFilterRequest{Browse: browse})
			require.NotNil(t, filter.OwnerID, browse)
			assert.Equal(t, int64(3), *filter.OwnerID, browse)
		}
	})

	t.Run("blank values are absent", func(t *testing.T) {
		filter, warnings := NormalizeCatalogFilter(1, dto.CatalogFilterRequest{Field: "  ", Course: " CSE110 ", Semester: ""})
		assert.Nil(t, filter.Field)
		assert.Nil(t, filter.Semester)
		require.NotNil(t, filter.Course)
		assert.Equal(t, "CSE110", *filter.Course)
		assert.Empty(t, warnings)
	})

	t.Run("known resource type matches exactly in any case", func(t *testing.T) {
		filter, _ := NormalizeCatalogFilter(1, dto.CatalogFilterRequest{ResourceType: "NoTeS"})
		require.NotNil(t, filter.ResourceType)
		assert.Equal(t, "notes", *filter.ResourceType)
		assert.True(t, filter.ResourceTypeExact)
	})

	t.Run("unknown resource type is kept case-insensitive", func(t *testing.T) {
		filter, _ := NormalizeCatalogFilter(1, dto.CatalogFilterRequest{ResourceType: "Slides"})
		require.NotNil(t, filter.ResourceType)
		assert.Equal(t, "slides", *filter.ResourceType)
		assert.False(t, filter.ResourceTypeExact)
	})

	t.Run("out of range year is dropped with a warning", func(t *testing.T) {
		for _, year := range []string{"1999", "2101", "abc"} {
			filter, warnings := NormalizeCatalogFilter(1, dto.CatalogFilterRequest{Year: year})
			assert.Nil(t, filter.Year, year)
			assert.Len(t, warnings, 1, year)
		}

		filter, warnings := NormalizeCatalogFilter(1, dto.CatalogFilterRequest{Year: "2024"})
		require.NotNil(t, filter.Year)
		assert.Equal(t, 2024, *filter.Year)
		assert.Empty(t, warnings)
	})

	t.Run("sort keys match exactly", func(t *testing.T) {
		filter, _ := NormalizeCatalogFilter(1, dto.CatalogFilterRequest{Sort: "downloads"})
		assert.Equal(t, repositories.SortDownloads, filter.Sort)

		// Anything else falls back to rating order
		for _, sort := range []string{"DATE", "Downloads", " date"} {
			filter, _ := NormalizeCatalogFilter(1, dto.CatalogFilterRequest{Sort: sort})
			sql, _, err := repositories.BuildCatalogQuery(filter).ToSql()
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(sql, "ORDER BY rating DESC, id ASC"), "sort %q: %s", sort, sql)
		}
	})
}

func TestListResources_QueryFailure(t *testing.T) {
	repo := new(mockResourceRepo)
	repo.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	svc := NewResourceService(repo, new(mockUploader), zerolog.Nop())
	_, err := svc.ListResources(context.Background(), 1, &dto.CatalogFilterRequest{})
	require.Error(t, err)
	msg, ok := apperrors.MessageOf(err)
	assert.True(t, ok)
	assert.Equal(t, MsgQueryFailed, msg)
}

func TestRateResource(t *testing.T) {
	ctx := context.Background()

	t.Run("out of range ratings never reach the store", func(t *testing.T) {
		repo := new(mockResourceRepo)
		svc := NewResourceService(repo, new(mockUploader), zerolog.Nop())

		for _, r := range []int{0, 6, -1} {
			_, err := svc.RateResource(ctx, 1, r)
			assert.ErrorIs(t, err, apperrors.ErrBadRequest)
			msg, _ := apperrors.MessageOf(err)
			assert.Equal(t, MsgRatingOutOfRange, msg)
		}
		repo.AssertNotCalled(t, "Rate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("valid rating", func(t *testing.T) {
		repo := new(mockResourceRepo)
		repo.On("Rate", ctx, int64(1), 4).Return(&models.RatingResult{Rating: 4.5, RatingCount: 2}, nil)
		svc := NewResourceService(repo, new(mockUploader), zerolog.Nop())

		result, err := svc.RateResource(ctx, 1, 4)
		require.NoError(t, err)
		assert.Equal(t, 4.5, result.Rating)
		assert.Equal(t, 2, result.RatingCount)
	})
}

func TestUpdateResource(t *testing.T) {
	ctx := context.Background()
	existing := &models.Resource{ID: 9, UserID: 2, Title: "Old"}

	t.Run("title is required", func(t *testing.T) {
		svc := NewResourceService(new(mockResourceRepo), new(mockUploader), zerolog.Nop())
		_, err := svc.UpdateResource(ctx, 2, 9, &dto.UpdateResourceRequest{Title: "  "})
		msg, _ := apperrors.MessageOf(err)
		assert.Equal(t, MsgTitleRequired, msg)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		repo := new(mockResourceRepo)
		repo.On("GetByID", ctx, int64(9)).Return(existing, nil)
		svc := NewResourceService(repo, new(mockUploader), zerolog.Nop())

		_, err := svc.UpdateResource(ctx, 3, 9, &dto.UpdateResourceRequest{Title: "New"})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
		repo.AssertNotCalled(t, "UpdateMetadata", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("owner edit", func(t *testing.T) {
		course := "CSE220"
		repo := new(mockResourceRepo)
		repo.On("GetByID", ctx, int64(9)).Return(existing, nil)
		repo.On("UpdateMetadata", ctx, int64(9), models.ResourceUpdate{Title: "New", Course: &course}).
			Return(&models.Resource{ID: 9, UserID: 2, Title: "New", Course: course}, nil)
		svc := NewResourceService(repo, new(mockUploader), zerolog.Nop())

		updated, err := svc.UpdateResource(ctx, 2, 9, &dto.UpdateResourceRequest{Title: " New ", Course: &course})
		require.NoError(t, err)
		assert.Equal(t, "New", updated.Title)
	})

	t.Run("course must match the pattern", func(t *testing.T) {
		bad := "cse-110"
		svc := NewResourceService(new(mockResourceRepo), new(mockUploader), zerolog.Nop())
		_, err := svc.UpdateResource(ctx, 2, 9, &dto.UpdateResourceRequest{Title: "New", Course: &bad})
		msg, _ := apperrors.MessageOf(err)
		assert.Equal(t, MsgInvalidCourseCode, msg)
	})
}

func TestUploadResource(t *testing.T) {
	ctx := context.Background()
	fh := &multipart.FileHeader{Filename: "review.pdf", Size: 2048}
	stored := &filestorage.StoredFile{
		Filename:    "abc-1.pdf",
		Path:        "abc-1.pdf",
		URL:         "http://localhost:5050/uploads/abc-1.pdf",
		Size:        2048,
		ContentType: "application/pdf",
	}
	valid := dto.UploadResourceRequest{Title: "Midterm Review", Field: "Engineering", Branch: "CSE", Course: "CSE110", ResourceType: "Quiz"}

	t.Run("stores and records the resource", func(t *testing.T) {
		repo := new(mockResourceRepo)
		repo.On("Create", ctx, mock.MatchedBy(func(r *models.Resource) bool {
			return r.Course == "CSE110" && r.ResourceType == models.ResourceQuiz &&
				r.Semester == models.DefaultSemester && r.Year == helpers.CurrentYear() &&
				r.OriginalName == "review.pdf" && r.FileURL == stored.URL
		})).Return(nil)
		uploader := new(mockUploader)
		uploader.On("Accept", ctx, fh, upload.KindResource).Return(stored, nil)

		svc := NewResourceService(repo, uploader, zerolog.Nop())
		req := valid
		resource, err := svc.UploadResource(ctx, 1, &req, fh)
		require.NoError(t, err)
		assert.Equal(t, int64(10), resource.ID)
		assert.Equal(t, 0, resource.Downloads)
		repo.AssertExpectations(t)
	})

	t.Run("metadata is validated before the file is touched", func(t *testing.T) {
		tests := []struct {
			mutate func(*dto.UploadResourceRequest)
			want   string
		}{
			{func(r *dto.UploadResourceRequest) { r.Title = "" }, MsgMetadataRequired},
			{func(r *dto.UploadResourceRequest) { r.Course = "cse110" }, MsgInvalidCourseCode},
			{func(r *dto.UploadResourceRequest) { r.ResourceType = "slides" }, MsgInvalidResourceType},
			{func(r *dto.UploadResourceRequest) { r.Year = "1999" }, MsgYearOutOfRange},
			{func(r *dto.UploadResourceRequest) { r.Year = "next" }, MsgYearOutOfRange},
		}

		uploader := new(mockUploader)
		svc := NewResourceService(new(mockResourceRepo), uploader, zerolog.Nop())
		for _, tt := range tests {
			req := valid
			tt.mutate(&req)
			_, err := svc.UploadResource(ctx, 1, &req, fh)
			msg, _ := apperrors.MessageOf(err)
			assert.Equal(t, tt.want, msg)
		}
		uploader.AssertNotCalled(t, "Accept", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing file is reported before the metadata", func(t *testing.T) {
		uploader := new(mockUploader)
		svc := NewResourceService(new(mockResourceRepo), uploader, zerolog.Nop())

		_, err := svc.UploadResource(ctx, 1, &dto.UploadResourceRequest{}, nil)
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		msg, _ := apperrors.MessageOf(err)
		assert.Equal(t, upload.MsgNoFile, msg)
		uploader.AssertNotCalled(t, "Accept", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed insert removes the stored file", func(t *testing.T) {
		repo := new(mockResourceRepo)
		repo.On("Create", ctx, mock.Anything).Return(errors.New("insert failed"))
		uploader := new(mockUploader)
		uploader.On("Accept", ctx, fh, upload.KindResource).Return(stored, nil)
		uploader.On("Delete", ctx, "abc-1.pdf").Return(nil)

		svc := NewResourceService(repo, uploader, zerolog.Nop())
		req := valid
		_, err := svc.UploadResource(ctx, 1, &req, fh)
		require.Error(t, err)
		uploader.AssertCalled(t, "Delete", ctx, "abc-1.pdf")
	})
}

func TestTrackDownload(t *testing.T) {
	ctx := context.Background()
	repo := new(mockResourceRepo)
	repo.On("IncrementDownloads", ctx, int64(4)).Return(11, nil)
	repo.On("IncrementDownloads", ctx, int64(5)).Return(0, apperrors.ErrFileNotFound)
	svc := NewResourceService(repo, new(mockUploader), zerolog.Nop())

	downloads, err := svc.TrackDownload(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 11, downloads)

	_, err = svc.TrackDownload(ctx, 5)
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
}

func TestListCourses(t *testing.T) {
	ctx := context.Background()

	t.Run("distinct courses", func(t *testing.T) {
		repo := new(mockResourceRepo)
		repo.On("DistinctCourses", ctx).Return([]string{"CSE110", "MAT120"}, nil)
		svc := NewResourceService(repo, new(mockUploader), zerolog.Nop())
		assert.Equal(t, []string{"CSE110", "MAT120"}, svc.ListCourses(ctx))
	})

	t.Run("falls back on empty result and on error", func(t *testing.T) {
		empty := new(mockResourceRepo)
		empty.On("DistinctCourses", ctx).Return([]string{}, nil)
		broken := new(mockResourceRepo)
		broken.On("DistinctCourses", ctx).Return(nil, errors.New("db down"))

		want := []string{"CSE110", "CSE220", "CSE422"}
		assert.Equal(t, want, NewResourceService(empty, new(mockUploader), zerolog.Nop()).ListCourses(ctx))
		assert.Equal(t, want, NewResourceService(broken, new(mockUploader), zerolog.Nop()).ListCourses(ctx))
	})
}
