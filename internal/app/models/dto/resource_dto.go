package dto

import "github.com/coursemate/backend/internal/app/models"

// CatalogFilterRequest holds the optional catalog query parameters
type CatalogFilterRequest struct {
	Field        string `form:"field"`
	Branch       string `form:"branch"`
	Course       string `form:"course"`
	ResourceType string `form:"resourceType"`
	Semester     string `form:"semester"`
	Year         string `form:"year"`
	Browse       string `form:"browse"`
	Sort         string `form:"sort" example:"rating"`
}

// UploadResourceRequest is the metadata part of a multipart upload
type UploadResourceRequest struct {
	Title        string `form:"title"`
	Field        string `form:"field"`
	Branch       string `form:"branch"`
	Course       string `form:"course"`
	ResourceType string `form:"resourceType"`
	Semester     string `form:"semester"`
	Year         string `form:"year"`
}

// UpdateResourceRequest edits the catalog metadata of a resource
type UpdateResourceRequest struct {
	Title  string  `json:"title" example:"Midterm Review"`
	Field  *string `json:"field,omitempty"`
	Branch *string `json:"branch,omitempty"`
	Course *string `json:"course,omitempty" binding:"omitempty,coursecode"`
}

// RateRequest submits a 1-5 star rating
type RateRequest struct {
	Rating int `json:"rating" example:"5"`
}

// ResourceResponse wraps a single resource after a write
type ResourceResponse struct {
	File *models.Resource `json:"file"`
}

// DownloadResponse reports the new download count
type DownloadResponse struct {
	Downloads int `json:"downloads" example:"11"`
}
