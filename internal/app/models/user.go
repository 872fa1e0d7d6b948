package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID             int64     `json:"id" db:"id" example:"1"`
	FullName       string    `json:"fullName" db:"full_name" example:"John Doe"`
	Email          string    `json:"email" db:"email" example:"john@example.com"`
	Phone          string    `json:"phone" db:"phone" example:"+8801700000000"`
	Password       string    `json:"-" db:"password"` // bcrypt hash, never serialized
	Age            *int      `json:"age,omitempty" db:"age" example:"21"`
	Gender         string    `json:"gender" db:"gender"`
	Status         string    `json:"status" db:"status" example:"Student"`
	Education      string    `json:"education" db:"education"`
	Location       string    `json:"location" db:"location"`
	Languages      string    `json:"languages" db:"languages"`
	Quote          string    `json:"quote" db:"quote"`
	Bio            string    `json:"bio" db:"bio"`
	Badges         []string  `json:"badges" db:"badges"`
	ProfilePicture string    `json:"profilePicture" db:"profile_picture" example:"http://localhost:5050/uploads/avatars/abc.png"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// TrackedCourse is a course pinned to a user's dashboard ('user_courses' table)
type TrackedCourse struct {
	ID         int64     `json:"-" db:"id"`
	UserID     int64     `json:"-" db:"user_id"`
	CourseID   string    `json:"courseId" db:"course_code" example:"CSE110"`
	CourseName string    `json:"courseName" db:"course_name" example:"Programming Language I"`
	Semester   string    `json:"semester" db:"semester" example:"Spring"`
	Year       int       `json:"year" db:"year" example:"2024"`
	AddedAt    time.Time `json:"addedAt" db:"added_at"`
}

// ProfileUpdate carries the optional fields of a profile edit.
// Nil fields are left unchanged.
type ProfileUpdate struct {
	FullName       *string
	Phone          *string
	Age            *int
	Gender         *string
	Status         *string
	Education      *string
	Location       *string
	Languages      *string
	Quote          *string
	Bio            *string
	ProfilePicture *string
}

// IsEmpty reports whether no field is set
func (p ProfileUpdate) IsEmpty() bool {
	return p.FullName == nil && p.Phone == nil && p.Age == nil && p.Gender == nil &&
		p.Status == nil && p.Education == nil && p.Location == nil && p.Languages == nil &&
		p.Quote == nil && p.Bio == nil && p.ProfilePicture == nil
}
