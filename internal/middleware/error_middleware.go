package middleware

import (
	"errors"
	"net/http"

	"github.com/coursemate/backend/internal/app/models/dto"
	"github.com/coursemate/backend/internal/pkg/apperrors"
	"github.com/coursemate/backend/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// HandleAPIError handles common API errors and returns appropriate responses.
// A CustomError message in the chain replaces the default text for its status;
// other internal errors are reported with a generic message.
func HandleAPIError(c *gin.Context, err error) {
	status, code, message := classify(err)

	if custom, ok := apperrors.MessageOf(err); ok {
		message = custom
	}

	detail := dto.NewErrorDetail(code, message)
	switch status {
	case http.StatusInternalServerError:
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error while serving request")
		detail = detail.WithSeverity(dto.ErrorSeverityCritical)
	case http.StatusTooManyRequests:
		detail = detail.WithSeverity(dto.ErrorSeverityWarning)
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func classify(err error) (int, dto.ErrorCode, string) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusBadRequest, dto.ErrorCodeInvalidCredentials, "Invalid credentials"
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusBadRequest, dto.ErrorCodeEmailInUse, "Email already in use"
	case errors.Is(err, apperrors.ErrCourseAlreadyAdded):
		return http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "Course already in dashboard"
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"
	case errors.Is(err, apperrors.ErrFileNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "File not found"
	case errors.Is(err, apperrors.ErrUserNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.ErrorCodeConflict, "Conflict"
	case errors.Is(err, apperrors.ErrTooManyRequests):
		return http.StatusTooManyRequests, dto.ErrorCodeRateLimited, "Too many requests"
	case errors.Is(err, apperrors.ErrDatabase):
		return http.StatusInternalServerError, dto.ErrorCodeDatabaseError, "Error executing query"
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Server error"
	}
}
