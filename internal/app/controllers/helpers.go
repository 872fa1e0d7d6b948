package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/coursemate/backend/internal/app/models/dto"
	"github.com/coursemate/backend/internal/middleware"
	"github.com/coursemate/backend/internal/pkg/apperrors"
	"github.com/gin-gonic/gin"
)

var errInvalidID = errors.New("invalid id")

// parseIDParam parses a positive ID parameter from the request path
func parseIDParam(ctx *gin.Context, paramName string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(paramName), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// requireUserID reads the authenticated user id or aborts with 401
func requireUserID(ctx *gin.Context) (int64, bool) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return 0, false
	}
	return userID, true
}

func respondBindingError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}

func respondInvalidID(ctx *gin.Context) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid file ID")
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}
