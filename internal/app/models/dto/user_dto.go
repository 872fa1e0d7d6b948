package dto

import "github.com/coursemate/backend/internal/app/models"

// UpdateProfileRequest carries a partial profile edit; absent fields are kept
type UpdateProfileRequest struct {
	FullName       *string `json:"fullName,omitempty" example:"John Doe"`
	Phone          *string `json:"phone,omitempty"`
	Age            *int    `json:"age,omitempty" binding:"omitempty,min=0,max=150" example:"21"`
	Gender         *string `json:"gender,omitempty"`
	Status         *string `json:"status,omitempty"`
	Education      *string `json:"education,omitempty"`
	Location       *string `json:"location,omitempty"`
	Languages      *string `json:"languages,omitempty"`
	Quote          *string `json:"quote,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

// ToModel maps the request onto the repository update
func (r UpdateProfileRequest) ToModel() models.ProfileUpdate {
	return models.ProfileUpdate{
		FullName:       r.FullName,
		Phone:          r.Phone,
		Age:            r.Age,
		Gender:         r.Gender,
		Status:         r.Status,
		Education:      r.Education,
		Location:       r.Location,
		Languages:      r.Languages,
		Quote:          r.Quote,
		Bio:            r.Bio,
		ProfilePicture: r.ProfilePicture,
	}
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AddCourseRequest pins a course to the dashboard
type AddCourseRequest struct {
	CourseID   string `json:"courseId" binding:"omitempty,coursecode" example:"CSE110"`
	CourseName string `json:"courseName" example:"Programming Language I"`
	Semester   string `json:"semester,omitempty" example:"Spring"`
	Year       int    `json:"year,omitempty" example:"2024"`
}

// ProfileUpdateResponse is returned after a profile edit
type ProfileUpdateResponse struct {
	User *models.User `json:"user"`
}

// AvatarResponse is returned after an avatar upload
type AvatarResponse struct {
	ProfilePicture string `json:"profilePicture"`
}

// CoursesResponse wraps the tracked course list after a change
type CoursesResponse struct {
	Courses []models.TrackedCourse `json:"courses"`
}
