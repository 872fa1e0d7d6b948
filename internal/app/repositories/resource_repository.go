package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/coursemate/backend/internal/app/models"
	"github.com/coursemate/backend/internal/pkg/apperrors"
	"github.com/coursemate/backend/internal/pkg/dberrors"
	"github.com/coursemate/backend/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IResourceRepository defines the interface for resource database operations
type IResourceRepository interface {
	Create(ctx context.Context, resource *models.Resource) error
	GetByID(ctx context.Context, id int64) (*models.Resource, error)
	List(ctx context.Context, filter CatalogFilter) ([]*models.Resource, error)
	UpdateMetadata(ctx context.Context, id int64, update models.ResourceUpdate) (*models.Resource, error)
	Rate(ctx context.Context, id int64, rating int) (*models.RatingResult, error)
	IncrementDownloads(ctx context.Context, id int64) (int, error)
	DistinctCourses(ctx context.Context) ([]string, error)
}

// ResourceRepository handles resource database operations
type ResourceRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewResourceRepository creates a new ResourceRepository
func NewResourceRepository(db *pgxpool.Pool) *ResourceRepository {
	return &ResourceRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

// ScanResource reads one resources row selected with the catalog column list
func ScanResource(row pgx.Row) (*models.Resource, error) {
	var (
		r            models.Resource
		resourceType string
	)
	err := row.Scan(
		&r.ID, &r.UserID, &r.Filename, &r.OriginalName, &r.Title, &r.StoragePath, &r.FileURL,
		&r.FileSize, &r.FileType, &r.Field, &r.Branch, &r.Course, &resourceType, &r.Semester,
		&r.Year, &r.Rating, &r.RatingCount, &r.Downloads, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.ResourceType = models.ResourceType(resourceType)
	return &r, nil
}

// Create inserts a resource. Counters start at zero.
func (r *ResourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	sql, args, err := r.sb.Insert("resources").
		Columns("user_id", "filename", "original_name", "title", "storage_path", "file_url",
			"file_size", "file_type", "field", "branch", "course", "resource_type", "semester", "year").
		Values(resource.UserID, resource.Filename, resource.OriginalName, resource.Title,
			resource.StoragePath, resource.FileURL, resource.FileSize, resource.FileType,
			resource.Field, resource.Branch, resource.Course, string(resource.ResourceType),
			resource.Semester, resource.Year).
		Suffix("RETURNING id, rating, rating_count, downloads, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&resource.ID, &resource.Rating, &resource.RatingCount, &resource.Downloads,
		&resource.CreatedAt, &resource.UpdatedAt,
	)
	if err != nil {
		if dberrors.IsForeignKeyError(err, dberrors.ResourcesUserIDFkey) {
			return apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", resource.UserID).Msg("Error inserting resource")
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// GetByID retrieves a resource by ID
func (r *ResourceRepository) GetByID(ctx context.Context, id int64) (*models.Resource, error) {
	sql, args, err := r.sb.Select(resourceColumns...).From("resources").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	resource, err := ScanResource(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFileNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return resource, nil
}

// List runs a catalog query
func (r *ResourceRepository) List(ctx context.Context, filter CatalogFilter) ([]*models.Resource, error) {
	sql, args, err := BuildCatalogQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	resources := make([]*models.Resource, 0)
	for rows.Next() {
		resource, err := ScanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		resources = append(resources, resource)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return resources, nil
}

// UpdateMetadata changes the title and any supplied catalog fields
func (r *ResourceRepository) UpdateMetadata(ctx context.Context, id int64, update models.ResourceUpdate) (*models.Resource, error) {
	query := r.sb.Update("resources").
		Set("title", update.Title).
		Set("updated_at", squirrel.Expr("NOW()"))
	if update.Field != nil {
		query = query.Set("field", *update.Field)
	}
	if update.Branch != nil {
		query = query.Set("branch", *update.Branch)
	}
	if update.Course != nil {
		query = query.Set("course", *update.Course)
	}

	sql, args, err := query.Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(resourceColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	resource, err := ScanResource(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFileNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return resource, nil
}

// Rate folds one rating into the running average in a single statement
func (r *ResourceRepository) Rate(ctx context.Context, id int64, rating int) (*models.RatingResult, error) {
	sql, args, err := r.sb.Update("resources").
		Set("rating", squirrel.Expr("(rating * rating_count + ?) / (rating_count + 1)", float64(rating))).
		Set("rating_count", squirrel.Expr("rating_count + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING rating, rating_count").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var result models.RatingResult
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&result.Rating, &result.RatingCount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFileNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &result, nil
}

// IncrementDownloads bumps the download counter and returns the new value
func (r *ResourceRepository) IncrementDownloads(ctx context.Context, id int64) (int, error) {
	sql, args, err := r.sb.Update("resources").
		Set("downloads", squirrel.Expr("downloads + 1")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING downloads").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var downloads int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&downloads); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrFileNotFound
		}
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return downloads, nil
}

// DistinctCourses lists every course code that has at least one resource
func (r *ResourceRepository) DistinctCourses(ctx context.Context) ([]string, error) {
	sql, args, err := r.sb.Select("DISTINCT course").From("resources").OrderBy("course").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	courses := make([]string, 0)
	for rows.Next() {
		var course string
		if err := rows.Scan(&course); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return courses, nil
}
