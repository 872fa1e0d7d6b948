package seed

import (
	"strings"
	"testing"

	"github.com/coursemate/backend/internal/app/models"
	"github.com/coursemate/backend/internal/pkg/helpers"
	"github.com/coursemate/backend/internal/pkg/ratings"
	"github.com/coursemate/backend/internal/pkg/validation"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestBuildResource_ProducesCatalogReadyValues(t *testing.T) {
	f := NewFactory(42, "http://localhost:5050/")

	for i := 0; i < 50; i++ {
		r := f.BuildResource(7)

		assert.Equal(t, int64(7), r.UserID)
		assert.True(t, validation.IsValidCourseCode(r.Course), r.Course)
		_, ok := models.ParseResourceType(string(r.ResourceType))
		assert.True(t, ok, r.ResourceType)
		assert.True(t, helpers.ValidYear(r.Year), r.Year)
		assert.True(t, strings.HasPrefix(r.FileURL, "http://localhost:5050/uploads/"), r.FileURL)
		assert.NotEmpty(t, r.Title)

		if r.RatingCount == 0 {
			assert.Zero(t, r.Rating)
		} else {
			assert.GreaterOrEqual(t, r.Rating, float64(ratings.Min))
			assert.LessOrEqual(t, r.Rating, float64(ratings.Max))
		}
	}
}

func TestBuildResource_VideoUsesVideoMime(t *testing.T) {
	f := NewFactory(1, "")
	for i := 0; i < 100; i++ {
		r := f.BuildResource(1)
		if r.ResourceType == models.ResourceVideo {
			assert.Equal(t, "video/mp4", r.FileType)
			assert.True(t, strings.HasSuffix(r.Filename, ".mp4"))
		} else {
			assert.Equal(t, "application/pdf", r.FileType)
		}
	}
}

func TestFactory_FixedSeedIsDeterministic(t *testing.T) {
	a := NewFactory(99, "").BuildUser("hash")
	b := NewFactory(99, "").BuildUser("hash")

	assert.Equal(t, a.Email, b.Email)
	assert.Equal(t, a.FullName, b.FullName)
	assert.Equal(t, "hash", a.Password)
	assert.NoError(t, validator.New().Var(a.Email, "required,email"), a.Email)
}

func TestBuildTrackedCourse(t *testing.T) {
	c := NewFactory(3, "").BuildTrackedCourse(5)

	assert.Equal(t, int64(5), c.UserID)
	assert.NotEmpty(t, c.CourseName)
	assert.Equal(t, models.DefaultSemester, c.Semester)
	assert.Equal(t, helpers.CurrentYear(), c.Year)
}
