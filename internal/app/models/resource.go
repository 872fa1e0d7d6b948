package models

import "time"

// Resource is an uploaded study file with its catalog metadata ('resources' table)
type Resource struct {
	ID           int64        `json:"id" db:"id" example:"1"`
	UserID       int64        `json:"userId" db:"user_id" example:"1"`
	Filename     string       `json:"filename" db:"filename" example:"9f86d081884c7d659a2feaa0c55ad015-1700000000000.pdf"`
	OriginalName string       `json:"originalName" db:"original_name" example:"midterm-review.pdf"`
	Title        string       `json:"title" db:"title" example:"Midterm Review"`
	StoragePath  string       `json:"path" db:"storage_path"`
	FileURL      string       `json:"fileURL" db:"file_url" example:"http://localhost:5050/uploads/9f86d081884c7d659a2feaa0c55ad015-1700000000000.pdf"`
	FileSize     int64        `json:"fileSize" db:"file_size" example:"1048576"`
	FileType     string       `json:"fileType" db:"file_type" example:"application/pdf"`
	Field        string       `json:"field" db:"field" example:"Engineering"`
	Branch       string       `json:"branch" db:"branch" example:"CSE"`
	Course       string       `json:"course" db:"course" example:"CSE110"`
	ResourceType ResourceType `json:"resourceType" db:"resource_type" example:"notes"`
	Semester     string       `json:"semester" db:"semester" example:"Spring"`
	Year         int          `json:"year" db:"year" example:"2024"`
	Rating       float64      `json:"rating" db:"rating" example:"4.5"`
	RatingCount  int          `json:"ratingCount" db:"rating_count" example:"2"`
	Downloads    int          `json:"downloads" db:"downloads" example:"10"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt" db:"updated_at"`
}

// ResourceUpdate holds the owner-editable metadata. Nil fields are left unchanged.
type ResourceUpdate struct {
	Title  string
	Field  *string
	Branch *string
	Course *string
}

// RatingResult is the aggregate after a rating was folded in
type RatingResult struct {
	Rating      float64 `json:"rating" example:"4.5"`
	RatingCount int     `json:"ratingCount" example:"2"`
}
