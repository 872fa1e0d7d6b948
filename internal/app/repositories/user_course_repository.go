package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/coursemate/backend/internal/app/models"
	"github.com/coursemate/backend/internal/pkg/apperrors"
	"github.com/coursemate/backend/internal/pkg/dberrors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IUserCourseRepository manages the courses pinned to a dashboard
type IUserCourseRepository interface {
	List(ctx context.Context, userID int64) ([]models.TrackedCourse, error)
	Add(ctx context.Context, course *models.TrackedCourse) error
	Remove(ctx context.Context, userID int64, courseCode string) error
	CourseCodes(ctx context.Context, userID int64) ([]string, error)
}

// UserCourseRepository handles user_courses database operations
type UserCourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserCourseRepository creates a new UserCourseRepository
func NewUserCourseRepository(db *pgxpool.Pool) *UserCourseRepository {
	return &UserCourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// List returns the user's courses in the order they were added
func (r *UserCourseRepository) List(ctx context.Context, userID int64) ([]models.TrackedCourse, error) {
	sql, args, err := r.sb.Select("id", "user_id", "course_code", "course_name", "semester", "year", "added_at").
		From("user_courses").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("added_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	courses := make([]models.TrackedCourse, 0)
	for rows.Next() {
		var c models.TrackedCourse
		if err := rows.Scan(&c.ID, &c.UserID, &c.CourseID, &c.CourseName, &c.Semester, &c.Year, &c.AddedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return courses, nil
}

// Add pins a course. The (user, course code) pair is unique.
func (r *UserCourseRepository) Add(ctx context.Context, course *models.TrackedCourse) error {
	sql, args, err := r.sb.Insert("user_courses").
		Columns("user_id", "course_code", "course_name", "semester", "year").
		Values(course.UserID, course.CourseID, course.CourseName, course.Semester, course.Year).
		Suffix("RETURNING id, added_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.AddedAt)
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, dberrors.UserCoursesUniqueCode):
			return apperrors.ErrCourseAlreadyAdded
		case dberrors.IsForeignKeyError(err, dberrors.UserCoursesUserIDFkey):
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// Remove unpins a course. Removing a course that is not pinned is not an error.
func (r *UserCourseRepository) Remove(ctx context.Context, userID int64, courseCode string) error {
	sql, args, err := r.sb.Delete("user_courses").
		Where(squirrel.Eq{"user_id": userID, "course_code": courseCode}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// CourseCodes returns the codes of the user's pinned courses
func (r *UserCourseRepository) CourseCodes(ctx context.Context, userID int64) ([]string, error) {
	courses, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(courses))
	for _, c := range courses {
		codes = append(codes, c.CourseID)
	}
	return codes, nil
}
