package controllers

import (
	"net/http"

	"github.com/coursemate/backend/internal/app/models/dto"
	"github.com/coursemate/backend/internal/app/services"
	"github.com/coursemate/backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ResourceController serves the shared catalog under /notes
type ResourceController struct {
	resourceService services.ResourceService
	logger          zerolog.Logger
}

// NewResourceController creates a new ResourceController
func NewResourceController(resourceService services.ResourceService, logger zerolog.Logger) *ResourceController {
	return &ResourceController{
		resourceService: resourceService,
		logger:          logger,
	}
}

// ListResources godoc
// @Summary Browse the catalog
// @Description Lists my uploads, or every upload with browse=true. Invalid years are ignored.
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param field query string false "Field of study"
// @Param branch query string false "Branch"
// @Param course query string false "Course code" example(CSE110)
// @Param resourceType query string false "notes, quiz, midterm, final or video"
// @Param semester query string false "Semester"
// @Param year query int false "Year between 2000 and 2100"
// @Param browse query bool false "Include every uploader"
// @Param sort query string false "rating (default), date or downloads"
// @Success 200 {object} dto.APIResponse{data=[]models.Resource}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Error executing query"
// @Router /notes [get]
func (c *ResourceController) ListResources(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CatalogFilterRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	resources, err := c.resourceService.ListResources(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Data:    resources,
	})
}

// GetResource godoc
// @Summary Get a resource
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Success 200 {object} dto.APIResponse{data=models.Resource}
// @Failure 404 {object} dto.ErrorResponse "File not found"
// @Router /notes/{id} [get]
func (c *ResourceController) GetResource(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		respondInvalidID(ctx)
		return
	}

	resource, err := c.resourceService.GetResource(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Data:    resource,
	})
}

// UpdateResource godoc
// @Summary Edit resource metadata
// @Description Only the uploader may edit
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Param request body dto.UpdateResourceRequest true "New metadata"
// @Success 200 {object} dto.APIResponse{data=dto.ResourceResponse}
// @Failure 400 {object} dto.ErrorResponse "Title is required"
// @Failure 403 {object} dto.ErrorResponse "Not the uploader"
// @Failure 404 {object} dto.ErrorResponse "File not found"
// @Router /notes/{id} [put]
func (c *ResourceController) UpdateResource(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		respondInvalidID(ctx)
		return
	}

	var req dto.UpdateResourceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	resource, err := c.resourceService.UpdateResource(ctx.Request.Context(), userID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "File updated successfully",
		Data:    dto.ResourceResponse{File: resource},
	})
}

// UploadResource godoc
// @Summary Upload a resource
// @Tags notes
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Study material"
// @Param title formData string true "Title"
// @Param field formData string true "Field"
// @Param branch formData string true "Branch"
// @Param course formData string true "Course code" example(CSE110)
// @Param resourceType formData string false "notes (default), quiz, midterm, final or video"
// @Param semester formData string false "Semester, default Spring"
// @Param year formData int false "Year, default current year"
// @Success 201 {object} dto.APIResponse{data=dto.ResourceResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed or file rejected"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /notes/upload [post]
func (c *ResourceController) UploadResource(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.UploadResourceRequest
	if err := ctx.ShouldBind(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	// A missing part is reported by the service
	file, _ := ctx.FormFile("file")

	resource, err := c.resourceService.UploadResource(ctx.Request.Context(), userID, &req, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Success: true,
		Message: "File uploaded successfully",
		Data:    dto.ResourceResponse{File: resource},
	})
}

// TrackDownload godoc
// @Summary Count a download
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Success 200 {object} dto.APIResponse{data=dto.DownloadResponse}
// @Failure 404 {object} dto.ErrorResponse "File not found"
// @Router /notes/{id}/download [post]
func (c *ResourceController) TrackDownload(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		respondInvalidID(ctx)
		return
	}

	downloads, err := c.resourceService.TrackDownload(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Download tracked successfully",
		Data:    dto.DownloadResponse{Downloads: downloads},
	})
}

// RateResource godoc
// @Summary Rate a resource
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Param request body dto.RateRequest true "Rating from 1 to 5"
// @Success 200 {object} dto.APIResponse{data=models.RatingResult}
// @Failure 400 {object} dto.ErrorResponse "Rating must be between 1 and 5"
// @Failure 404 {object} dto.ErrorResponse "File not found"
// @Router /notes/{id}/rate [post]
func (c *ResourceController) RateResource(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		respondInvalidID(ctx)
		return
	}

	var req dto.RateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	result, err := c.resourceService.RateResource(ctx.Request.Context(), id, req.Rating)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Rating submitted successfully",
		Data:    result,
	})
}

// ListCourses godoc
// @Summary List courses with resources
// @Description Falls back to a default list when the catalog is empty
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]string}
// @Router /notes/courses/all [get]
func (c *ResourceController) ListCourses(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Data:    c.resourceService.ListCourses(ctx.Request.Context()),
	})
}
