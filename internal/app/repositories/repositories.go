package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories contains all repository instances
type Repositories struct {
	UserRepository       *UserRepository
	UserCourseRepository *UserCourseRepository
	ResourceRepository   *ResourceRepository
}

// NewRepositories creates all repositories over one pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		UserCourseRepository: NewUserCourseRepository(db),
		ResourceRepository:   NewResourceRepository(db),
	}
}
