//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/coursemate/backend/internal/app/migrations"
	"github.com/coursemate/backend/internal/app/models"
	"github.com/coursemate/backend/internal/pkg/apperrors"
	"github.com/coursemate/backend/internal/pkg/ratings"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("coursemate_test"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.NewMigrator(pool, zerolog.Nop()).Up(ctx))
	return pool
}

func createUser(t *testing.T, repo *UserRepository, email string) *models.User {
	t.Helper()
	user := &models.User{FullName: "Test User", Email: email, Password: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func newResource(ownerID int64, course string, rt models.ResourceType, title string) *models.Resource {
	return &models.Resource{
		UserID:       ownerID,
		Filename:     "abc-1.pdf",
		OriginalName: "review.pdf",
		Title:        title,
		StoragePath:  "uploads/abc-1.pdf",
		FileURL:      "http://localhost:5050/uploads/abc-1.pdf",
		FileSize:     1024,
		FileType:     "application/pdf",
		Field:        "Engineering",
		Branch:       "CSE",
		Course:       course,
		ResourceType: rt,
		Semester:     models.DefaultSemester,
		Year:         2024,
	}
}

func TestRepositories_Integration(t *testing.T) {
	pool := setupTestPool(t)
	repos := NewRepositories(pool)
	ctx := context.Background()

	owner := createUser(t, repos.UserRepository, "owner@example.com")
	other := createUser(t, repos.UserRepository, "other@example.com")

	t.Run("duplicate email", func(t *testing.T) {
		err := repos.UserRepository.Create(ctx, &models.User{Email: "owner@example.com", Password: "x"})
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repos.UserRepository.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("profile update touches only supplied fields", func(t *testing.T) {
		bio := "Loves compilers"
		updated, err := repos.UserRepository.UpdateProfile(ctx, owner.ID, models.ProfileUpdate{Bio: &bio})
		require.NoError(t, err)
		assert.Equal(t, "Loves compilers", updated.Bio)
		assert.Equal(t, "Test User", updated.FullName)
		assert.Equal(t, []string{}, updated.Badges)
	})

	t.Run("upload then browse by course and type", func(t *testing.T) {
		quiz := newResource(owner.ID, "CSE110", models.ResourceQuiz, "Midterm Review")
		require.NoError(t, repos.ResourceRepository.Create(ctx, quiz))
		require.NoError(t, repos.ResourceRepository.Create(ctx, newResource(owner.ID, "CSE110", models.ResourceNotes, "Week 1")))

		course, rt := "CSE110", "quiz"
		found, err := repos.ResourceRepository.List(ctx, CatalogFilter{
			Course: &course, ResourceType: &rt, ResourceTypeExact: true,
		})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, quiz.ID, found[0].ID)
		assert.Equal(t, "Midterm Review", found[0].Title)
		assert.Equal(t, 0, found[0].Downloads)
		assert.Equal(t, 0.0, found[0].Rating)
	})

	t.Run("owner scope", func(t *testing.T) {
		require.NoError(t, repos.ResourceRepository.Create(ctx, newResource(other.ID, "CSE220", models.ResourceFinal, "Final prep")))

		mine, err := repos.ResourceRepository.List(ctx, CatalogFilter{OwnerID: &other.ID})
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, "Final prep", mine[0].Title)
	})

	t.Run("rating fold and downloads", func(t *testing.T) {
		res := newResource(owner.ID, "CSE422", models.ResourceNotes, "AI notes")
		require.NoError(t, repos.ResourceRepository.Create(ctx, res))

		avg, count := 0.0, 0
		var result *models.RatingResult
		for _, r := range []int{5, 3, 4} {
			var err error
			avg, count, err = ratings.Fold(avg, count, r)
			require.NoError(t, err)
			result, err = repos.ResourceRepository.Rate(ctx, res.ID, r)
			require.NoError(t, err)
		}
		assert.InDelta(t, avg, result.Rating, 1e-9)
		assert.Equal(t, 3, result.RatingCount)

		downloads, err := repos.ResourceRepository.IncrementDownloads(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, downloads)

		_, err = repos.ResourceRepository.Rate(ctx, 999999, 5)
		assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
	})

	t.Run("distinct courses", func(t *testing.T) {
		courses, err := repos.ResourceRepository.DistinctCourses(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"CSE110", "CSE220", "CSE422"}, courses)
	})

	t.Run("tracked courses", func(t *testing.T) {
		course := &models.TrackedCourse{UserID: owner.ID, CourseID: "CSE110", CourseName: "Programming I", Semester: "Fall", Year: 2024}
		require.NoError(t, repos.UserCourseRepository.Add(ctx, course))

		dup := &models.TrackedCourse{UserID: owner.ID, CourseID: "CSE110", CourseName: "Again", Semester: "Fall", Year: 2024}
		assert.ErrorIs(t, repos.UserCourseRepository.Add(ctx, dup), apperrors.ErrCourseAlreadyAdded)

		codes, err := repos.UserCourseRepository.CourseCodes(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"CSE110"}, codes)

		require.NoError(t, repos.UserCourseRepository.Remove(ctx, owner.ID, "CSE110"))
		require.NoError(t, repos.UserCourseRepository.Remove(ctx, owner.ID, "CSE110"))

		list, err := repos.UserCourseRepository.List(ctx, owner.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
