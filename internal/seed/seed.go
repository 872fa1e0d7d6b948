// Package seed creates demo users, tracked courses and catalog resources.
// It is meant for local development only.
package seed

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/coursemate/backend/internal/app/models"
	"github.com/coursemate/backend/internal/db"
	"github.com/coursemate/backend/internal/pkg/auth"
	"github.com/coursemate/backend/internal/pkg/helpers"
	"github.com/coursemate/backend/internal/pkg/ratings"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// DemoPassword is the plain-text password of every seeded account
const DemoPassword = "password123"

// DemoEmail is the fixed account created by EnsureDemoUser
const DemoEmail = "demo@coursemate.app"

// Options controls how much data Run creates
type Options struct {
	Users            int
	ResourcesPerUser int
	Clean            bool
	BaseURL          string // prefix for the placeholder file URLs
	Seed             int64  // 0 picks a random seed
}

var courseCatalog = map[string]struct{ Name, Field, Branch string }{
	"CSE110": {"Programming Language I", "Engineering", "CSE"},
	"CSE220": {"Data Structures", "Engineering", "CSE"},
	"CSE422": {"Artificial Intelligence", "Engineering", "CSE"},
	"EEE101": {"Electrical Circuits I", "Engineering", "EEE"},
	"MAT120": {"Integral Calculus", "Science", "MAT"},
	"PHY111": {"Principles of Physics I", "Science", "PHY"},
	"BUS201": {"Business Communication", "Business", "BBA"},
}

// Factory builds unsaved domain values from fake data
type Factory struct {
	faker   *gofakeit.Faker
	baseURL string
	codes   []string
}

// NewFactory creates a Factory. A zero seed is replaced by the current time.
func NewFactory(seed int64, baseURL string) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	codes := make([]string, 0, len(courseCatalog))
	for code := range courseCatalog {
		codes = append(codes, code)
	}
	// Map order is random; sort so a fixed seed gives fixed output
	sort.Strings(codes)

	return &Factory{
		faker:   gofakeit.New(seed),
		baseURL: strings.TrimRight(baseURL, "/"),
		codes:   codes,
	}
}

// BuildUser returns a student profile carrying passwordHash
func (f *Factory) BuildUser(passwordHash string) *models.User {
	age := f.faker.Number(18, 30)
	return &models.User{
		FullName:  f.faker.Name(),
		Email:     strings.ToLower(f.faker.Username()) + fmt.Sprintf("%d@example.com", f.faker.Number(100, 999)),
		Phone:     f.faker.Phone(),
		Password:  passwordHash,
		Age:       &age,
		Gender:    f.faker.RandomString([]string{"Male", "Female", ""}),
		Status:    "Student",
		Education: f.faker.RandomString([]string{"Undergraduate", "Graduate"}),
		Location:  f.faker.City(),
		Languages: "English",
		Quote:     f.faker.Quote(),
		Bio:       f.faker.Sentence(12),
		Badges:    []string{},
	}
}

// BuildResource returns a catalog entry owned by userID
func (f *Factory) BuildResource(userID int64) *models.Resource {
	code := f.faker.RandomString(f.codes)
	course := courseCatalog[code]
	rt := models.ResourceTypes[f.faker.Number(0, len(models.ResourceTypes)-1)]

	ext, mimeType := ".pdf", "application/pdf"
	if rt == models.ResourceVideo {
		ext, mimeType = ".mp4", "video/mp4"
	}
	filename := strings.ReplaceAll(f.faker.UUID(), "-", "") + ext

	var rating float64
	count := 0
	for i := f.faker.Number(0, 6); i > 0; i-- {
		rating, count, _ = ratings.Fold(rating, count, f.faker.Number(ratings.Min, ratings.Max))
	}

	return &models.Resource{
		UserID:       userID,
		Filename:     filename,
		OriginalName: strings.ToLower(code) + "-" + string(rt) + ext,
		Title:        strings.TrimSuffix(f.faker.Sentence(f.faker.Number(2, 5)), "."),
		StoragePath:  filename,
		FileURL:      f.baseURL + "/uploads/" + filename,
		FileSize:     int64(f.faker.Number(20_000, 5_000_000)),
		FileType:     mimeType,
		Field:        course.Field,
		Branch:       course.Branch,
		Course:       code,
		ResourceType: rt,
		Semester:     f.faker.RandomString([]string{"Spring", "Summer", "Fall"}),
		Year:         f.faker.Number(helpers.CurrentYear()-4, helpers.CurrentYear()),
		Rating:       rating,
		RatingCount:  count,
		Downloads:    f.faker.Number(0, 250),
	}
}

// BuildTrackedCourse pins one of the known courses for userID
func (f *Factory) BuildTrackedCourse(userID int64) models.TrackedCourse {
	code := f.faker.RandomString(f.codes)
	return models.TrackedCourse{
		UserID:     userID,
		CourseID:   code,
		CourseName: courseCatalog[code].Name,
		Semester:   models.DefaultSemester,
		Year:       helpers.CurrentYear(),
	}
}

// Seeder persists factory output
type Seeder struct {
	pool    *pgxpool.Pool
	log     zerolog.Logger
	factory *Factory
	opts    Options
	sb      squirrel.StatementBuilderType
}

// NewSeeder creates a Seeder bound to pool
func NewSeeder(pool *pgxpool.Pool, log zerolog.Logger, opts Options) *Seeder {
	return &Seeder{
		pool:    pool,
		log:     log,
		factory: NewFactory(opts.Seed, opts.BaseURL),
		opts:    opts,
		sb:      squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Run creates the configured number of users, each with resources and
// tracked courses, in one transaction.
func (s *Seeder) Run(ctx context.Context) error {
	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	var users, resources int
	err = db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		if s.opts.Clean {
			if _, err := tx.Exec(ctx, "TRUNCATE resources, user_courses, users RESTART IDENTITY CASCADE"); err != nil {
				return fmt.Errorf("failed to clean tables: %w", err)
			}
			s.log.Info().Msg("Cleared existing data")
		}

		for i := 0; i < s.opts.Users; i++ {
			user := s.factory.BuildUser(hash)
			if i == 0 {
				user.Email = DemoEmail
				user.FullName = "Demo Student"
			}
			id, created, err := s.insertUser(ctx, tx, user)
			if err != nil {
				return err
			}
			if !created {
				continue
			}
			users++

			for j := 0; j < s.opts.ResourcesPerUser; j++ {
				if err := s.insertResource(ctx, tx, s.factory.BuildResource(id)); err != nil {
					return err
				}
				resources++
			}
			for j := 0; j < 2; j++ {
				if err := s.insertTrackedCourse(ctx, tx, s.factory.BuildTrackedCourse(id)); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info().Int("users", users).Int("resources", resources).Msg("Seed data created")
	return nil
}

// EnsureDemoUser creates the demo account when it does not exist yet
func (s *Seeder) EnsureDemoUser(ctx context.Context) error {
	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	user := s.factory.BuildUser(hash)
	user.Email = DemoEmail
	user.FullName = "Demo Student"

	return db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		_, created, err := s.insertUser(ctx, tx, user)
		if err != nil {
			return err
		}
		if created {
			s.log.Info().Str("email", DemoEmail).Msg("Demo user created")
		}
		return nil
	})
}

// insertUser reports created=false when the email is already taken
func (s *Seeder) insertUser(ctx context.Context, tx pgx.Tx, u *models.User) (int64, bool, error) {
	sql, args, err := s.sb.Insert("users").
		Columns("full_name", "email", "phone", "password", "age", "gender", "status",
			"education", "location", "languages", "quote", "bio").
		Values(u.FullName, u.Email, u.Phone, u.Password, u.Age, u.Gender, u.Status,
			u.Education, u.Location, u.Languages, u.Quote, u.Bio).
		Suffix("ON CONFLICT ON CONSTRAINT users_email_key DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("error executing query: %w", err)
	}
	return id, true, nil
}

func (s *Seeder) insertResource(ctx context.Context, tx pgx.Tx, r *models.Resource) error {
	sql, args, err := s.sb.Insert("resources").
		Columns("user_id", "filename", "original_name", "title", "storage_path", "file_url",
			"file_size", "file_type", "field", "branch", "course", "resource_type", "semester",
			"year", "rating", "rating_count", "downloads").
		Values(r.UserID, r.Filename, r.OriginalName, r.Title, r.StoragePath, r.FileURL,
			r.FileSize, r.FileType, r.Field, r.Branch, r.Course, string(r.ResourceType), r.Semester,
			r.Year, r.Rating, r.RatingCount, r.Downloads).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

func (s *Seeder) insertTrackedCourse(ctx context.Context, tx pgx.Tx, c models.TrackedCourse) error {
	sql, args, err := s.sb.Insert("user_courses").
		Columns("user_id", "course_code", "course_name", "semester", "year").
		Values(c.UserID, c.CourseID, c.CourseName, c.Semester, c.Year).
		Suffix("ON CONFLICT ON CONSTRAINT user_courses_user_id_course_code_key DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}
