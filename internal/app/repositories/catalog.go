package repositories

import (
	"github.com/Masterminds/squirrel"
)

// SortKey orders catalog results
type SortKey string

const (
	SortRating    SortKey = "rating"
	SortDate      SortKey = "date"
	SortDownloads SortKey = "downloads"
)

// CatalogFilter is a normalised catalog query. Nil fields do not filter.
type CatalogFilter struct {
	OwnerID      *int64
	Field        *string
	Branch       *string
	Course       *string
	Courses      []string // any of, used by the dashboard feed
	ResourceType *string
	// ResourceTypeExact is true when ResourceType is a known enum value;
	// other values match case-insensitively.
	ResourceTypeExact bool
	Semester          *string
	Year              *int
	Sort              SortKey
}

var resourceColumns = []string{
	"id", "user_id", "filename", "original_name", "title", "storage_path", "file_url",
	"file_size", "file_type", "field", "branch", "course", "resource_type", "semester",
	"year", "rating", "rating_count", "downloads", "created_at", "updated_at",
}

// BuildCatalogQuery turns a filter into a SELECT over resources.
// Ties always break on id so equal keys keep insertion order.
func BuildCatalogQuery(f CatalogFilter) squirrel.SelectBuilder {
	query := squirrel.Select(resourceColumns...).
		From("resources").
		PlaceholderFormat(squirrel.Dollar)

	if f.OwnerID != nil {
		query = query.Where(squirrel.Eq{"user_id": *f.OwnerID})
	}
	if f.Field != nil {
		query = query.Where(squirrel.Eq{"field": *f.Field})
	}
	if f.Branch != nil {
		query = query.Where(squirrel.Eq{"branch": *f.Branch})
	}
	if f.Course != nil {
		query = query.Where(squirrel.Eq{"course": *f.Course})
	}
	if f.Courses != nil {
		query = query.Where(squirrel.Eq{"course": f.Courses})
	}
	if f.ResourceType != nil {
		if f.ResourceTypeExact {
			query = query.Where(squirrel.Eq{"resource_type": *f.ResourceType})
		} else {
			query = query.Where("LOWER(resource_type) = LOWER(?)", *f.ResourceType)
		}
	}
	if f.Semester != nil {
		query = query.Where(squirrel.Eq{"semester": *f.Semester})
	}
	if f.Year != nil {
		query = query.Where(squirrel.Eq{"year": *f.Year})
	}

	return query.OrderBy(orderColumn(f.Sort)+" DESC", "id ASC")
}

func orderColumn(sort SortKey) string {
	switch sort {
	case SortDate:
		return "created_at"
	case SortDownloads:
		return "downloads"
	default:
		return "rating"
	}
}
