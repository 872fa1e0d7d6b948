package controllers

import (
	"net/http"

	"github.com/coursemate/backend/internal/app/models/dto"
	"github.com/coursemate/backend/internal/app/services"
	"github.com/coursemate/backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// UserController handles the signed-in user's account and dashboard
type UserController struct {
	userService services.UserService
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService, logger zerolog.Logger) *UserController {
	return &UserController{
		userService: userService,
		logger:      logger,
	}
}

// GetProfile godoc
// @Summary Get my profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.User}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	user, err := c.userService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Data:    user,
	})
}

// UpdateProfile godoc
// @Summary Update my profile
// @Description Partial update; only supplied fields change
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileUpdateResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	user, err := c.userService.UpdateProfile(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Profile updated successfully",
		Data:    dto.ProfileUpdateResponse{User: user},
	})
}

// ChangePassword godoc
// @Summary Change my password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.ErrorResponse "Missing fields or current password incorrect"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/password [put]
func (c *UserController) ChangePassword(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	if err := c.userService.ChangePassword(ctx.Request.Context(), userID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", userID).Msg("Password changed")
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Password updated successfully",
	})
}

// UploadAvatar godoc
// @Summary Upload my avatar
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "JPG, PNG or GIF image"
// @Success 200 {object} dto.APIResponse{data=dto.AvatarResponse}
// @Failure 400 {object} dto.ErrorResponse "No avatar file uploaded or invalid type"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	// A missing part is reported by the upload handler
	file, _ := ctx.FormFile("avatar")

	url, err := c.userService.UploadAvatar(ctx.Request.Context(), userID, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Avatar uploaded successfully",
		Data:    dto.AvatarResponse{ProfilePicture: url},
	})
}

// GetDashboardCourses godoc
// @Summary List my tracked courses
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.TrackedCourse}
// @Router /users/dashboard/courses [get]
func (c *UserController) GetDashboardCourses(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	courses, err := c.userService.ListCourses(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Data:    courses,
	})
}

// AddDashboardCourse godoc
// @Summary Track a course
// @Tags dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddCourseRequest true "Course to track"
// @Success 201 {object} dto.APIResponse{data=dto.CoursesResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing fields, bad course code or already tracked"
// @Router /users/dashboard/courses [post]
func (c *UserController) AddDashboardCourse(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.AddCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	courses, err := c.userService.AddCourse(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Success: true,
		Message: "Course added to dashboard",
		Data:    dto.CoursesResponse{Courses: courses},
	})
}

// RemoveDashboardCourse godoc
// @Summary Stop tracking a course
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course code" example(CSE110)
// @Success 200 {object} dto.APIResponse{data=dto.CoursesResponse}
// @Router /users/dashboard/courses/{courseId} [delete]
func (c *UserController) RemoveDashboardCourse(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	courses, err := c.userService.RemoveCourse(ctx.Request.Context(), userID, ctx.Param("courseId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Course removed from dashboard",
		Data:    dto.CoursesResponse{Courses: courses},
	})
}

// GetDashboardResources godoc
// @Summary Resources for my tracked courses
// @Description Catalog resources from every uploader whose course is tracked, best rated first
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Resource}
// @Failure 500 {object} dto.ErrorResponse "Error executing query"
// @Router /users/dashboard/resources [get]
func (c *UserController) GetDashboardResources(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	resources, err := c.userService.DashboardResources(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Data:    resources,
	})
}
