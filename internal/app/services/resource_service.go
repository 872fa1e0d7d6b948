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
	"github.com/coursemate/backend/internal/pkg/helpers"
	"github.com/coursemate/backend/internal/pkg/metrics"
	"github.com/coursemate/backend/internal/pkg/ratings"
	"github.com/coursemate/backend/internal/pkg/upload"
	"github.com/coursemate/backend/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// Resource messages shown to clients
const (
	MsgQueryFailed         = "Error executing query"
	MsgMetadataRequired    = "Field, branch, course, and title are required"
	MsgInvalidResourceType = "Invalid resource type"
	MsgTitleRequired       = "Title is required"
	MsgRatingOutOfRange    = "Rating must be between 1 and 5"
	MsgNotOwner            = "You can only edit files you uploaded"
)

// ResourceService handles the shared catalog
type ResourceService interface {
	ListResources(ctx context.Context, userID int64, req *dto.CatalogFilterRequest) ([]*models.Resource, error)
	GetResource(ctx context.Context, id int64) (*models.Resource, error)
	UpdateResource(ctx context.Context, userID, id int64, req *dto.UpdateResourceRequest) (*models.Resource, error)
	UploadResource(ctx context.Context, userID int64, req *dto.UploadResourceRequest, file *multipart.FileHeader) (*models.Resource, error)
	TrackDownload(ctx context.Context, id int64) (int, error)
	RateResource(ctx context.Context, id int64, rating int) (*models.RatingResult, error)
	ListCourses(ctx context.Context) []string
}

type resourceServiceImpl struct {
	resourceRepo repositories.IResourceRepository
	uploader     FileUploader
	logger       zerolog.Logger
}

// NewResourceService creates a new ResourceService
func NewResourceService(resourceRepo repositories.IResourceRepository, uploader FileUploader, logger zerolog.Logger) ResourceService {
	return &resourceServiceImpl{
		resourceRepo: resourceRepo,
		uploader:     uploader,
		logger:       logger,
	}
}

// NormalizeCatalogFilter trims the query parameters and turns them into a
// store filter. Values that cannot be used are dropped and reported as warnings.
func NormalizeCatalogFilter(userID int64, req dto.CatalogFilterRequest) (repositories.CatalogFilter, []string) {
	var warnings []string
	filter := repositories.CatalogFilter{
		Field:    helpers.TrimPtr(&req.Field),
		Branch:   helpers.TrimPtr(&req.Branch),
		Course:   helpers.TrimPtr(&req.Course),
		Semester: helpers.TrimPtr(&req.Semester),
		Sort:     repositories.SortKey(req.Sort),
	}

	// Only the literal "true" opens the whole catalog
	if req.Browse != "true" {
		filter.OwnerID = &userID
	}

	if rt := helpers.TrimPtr(&req.ResourceType); rt != nil {
		parsed, known := models.ParseResourceType(*rt)
		value := string(parsed)
		filter.ResourceType = &value
		filter.ResourceTypeExact = known
	}

	if raw := helpers.TrimPtr(&req.Year); raw != nil {
		if year, ok := helpers.ParseYear(*raw); ok {
			filter.Year = &year
		} else {
			warnings = append(warnings, fmt.Sprintf("ignoring year filter %q: must be between %d and %d", *raw, helpers.MinYear, helpers.MaxYear))
		}
	}

	return filter, warnings
}

// ListResources runs a catalog query for the requesting user
func (s *resourceServiceImpl) ListResources(ctx context.Context, userID int64, req *dto.CatalogFilterRequest) ([]*models.Resource, error) {
	filter, warnings := NormalizeCatalogFilter(userID, *req)
	for _, w := range warnings {
		s.logger.Warn().Int64("userID", userID).Msg(w)
	}

	resources, err := s.resourceRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("Catalog query failed")
		return nil, apperrors.NewDatabaseError(err, MsgQueryFailed)
	}

	if len(resources) == 0 {
		s.logger.Debug().Interface("filter", filter).Msg("Catalog query matched no resources")
	}
	return resources, nil
}

func (s *resourceServiceImpl) GetResource(ctx context.Context, id int64) (*models.Resource, error) {
	return s.resourceRepo.GetByID(ctx, id)
}

// UpdateResource edits catalog metadata. Only the uploader may edit.
func (s *resourceServiceImpl) UpdateResource(ctx context.Context, userID, id int64, req *dto.UpdateResourceRequest) (*models.Resource, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewBadRequestError(MsgTitleRequired)
	}

	update := models.ResourceUpdate{
		Title:  title,
		Field:  helpers.TrimPtr(req.Field),
		Branch: helpers.TrimPtr(req.Branch),
		Course: helpers.TrimPtr(req.Course),
	}
	if update.Course != nil && !validation.IsValidCourseCode(*update.Course) {
		return nil, apperrors.NewBadRequestError(MsgInvalidCourseCode)
	}

	existing, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		s.logger.Warn().Int64("userID", userID).Int64("resourceID", id).Msg("Rejected edit by non-owner")
		return nil, apperrors.NewForbiddenError(MsgNotOwner)
	}

	return s.resourceRepo.UpdateMetadata(ctx, id, update)
}

// UploadResource checks a file was sent, validates the metadata, stores the
// file and records it. The stored file is removed again when the record
// cannot be written.
func (s *resourceServiceImpl) UploadResource(ctx context.Context, userID int64, req *dto.UploadResourceRequest, file *multipart.FileHeader) (*models.Resource, error) {
	if file == nil {
		return nil, apperrors.NewBadRequestError(upload.MsgNoFile)
	}

	resource, err := resourceFromUpload(userID, req)
	if err != nil {
		return nil, err
	}

	stored, err := s.uploader.Accept(ctx, file, upload.KindResource)
	if err != nil {
		return nil, err
	}

	resource.Filename = stored.Filename
	resource.OriginalName = file.Filename
	resource.StoragePath = stored.Path
	resource.FileURL = stored.URL
	resource.FileSize = stored.Size
	resource.FileType = stored.ContentType

	if err := s.resourceRepo.Create(ctx, resource); err != nil {
		if delErr := s.uploader.Delete(ctx, stored.Path); delErr != nil {
			s.logger.Warn().Err(delErr).Str("path", stored.Path).Msg("Failed to remove orphaned upload")
		}
		return nil, err
	}

	s.logger.Info().
		Int64("resourceID", resource.ID).
		Int64("userID", userID).
		Str("course", resource.Course).
		Str("type", string(resource.ResourceType)).
		Msg("Resource uploaded")
	return resource, nil
}

func resourceFromUpload(userID int64, req *dto.UploadResourceRequest) (*models.Resource, error) {
	title := strings.TrimSpace(req.Title)
	field := strings.TrimSpace(req.Field)
	branch := strings.TrimSpace(req.Branch)
	course := strings.TrimSpace(req.Course)
	if field == "" || branch == "" || course == "" || title == "" {
		return nil, apperrors.NewBadRequestError(MsgMetadataRequired)
	}
	if !validation.IsValidCourseCode(course) {
		return nil, apperrors.NewBadRequestError(MsgInvalidCourseCode)
	}

	resourceType := models.ResourceNotes
	if raw := strings.TrimSpace(req.ResourceType); raw != "" {
		parsed, known := models.ParseResourceType(raw)
		if !known {
			return nil, apperrors.NewBadRequestError(MsgInvalidResourceType)
		}
		resourceType = parsed
	}

	year := helpers.CurrentYear()
	if raw := strings.TrimSpace(req.Year); raw != "" {
		parsed, ok := helpers.ParseYear(raw)
		if !ok {
			return nil, apperrors.NewBadRequestError(MsgYearOutOfRange)
		}
		year = parsed
	}

	return &models.Resource{
		UserID:       userID,
		Title:        title,
		Field:        field,
		Branch:       branch,
		Course:       course,
		ResourceType: resourceType,
		Semester:     helpers.FirstNonEmpty(strings.TrimSpace(req.Semester), models.DefaultSemester),
		Year:         year,
	}, nil
}

// TrackDownload increments the download counter
func (s *resourceServiceImpl) TrackDownload(ctx context.Context, id int64) (int, error) {
	downloads, err := s.resourceRepo.IncrementDownloads(ctx, id)
	if err != nil {
		return 0, err
	}
	metrics.DownloadsTracked.Inc()
	return downloads, nil
}

// RateResource folds a 1-5 rating into the resource's average
func (s *resourceServiceImpl) RateResource(ctx context.Context, id int64, rating int) (*models.RatingResult, error) {
	if err := ratings.Validate(rating); err != nil {
		return nil, apperrors.NewBadRequestError(MsgRatingOutOfRange)
	}

	result, err := s.resourceRepo.Rate(ctx, id, rating)
	if err != nil {
		return nil, err
	}
	metrics.RatingsSubmitted.Inc()
	return result, nil
}

// ListCourses returns every course with resources, or the default list
// when there are none or the store cannot be read.
func (s *resourceServiceImpl) ListCourses(ctx context.Context) []string {
	courses, err := s.resourceRepo.DistinctCourses(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list courses, using defaults")
		return defaultCourses()
	}
	if len(courses) == 0 {
		return defaultCourses()
	}
	return courses
}

func defaultCourses() []string {
	return append([]string(nil), models.DefaultCourses...)
}
