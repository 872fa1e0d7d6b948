package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coursemate/backend/internal/app/models/dto"
	"github.com/coursemate/backend/internal/pkg/apperrors"
	"github.com/coursemate/backend/internal/pkg/auth"
	"github.com/coursemate/backend/internal/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func newJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "coursemate"})
}

func protectedRouter(jwtService *auth.JWTService) *gin.Engine {
	router := gin.New()
	router.Use(NewAuthMiddleware(jwtService).JWTAuth())
	router.GET("/me", func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"userID": userID, "email": c.GetString(ContextEmail)})
	})
	return router
}

func TestJWTAuth_AcceptsBearerHeader(t *testing.T) {
	jwtService := newJWT()
	token, _, err := jwtService.GenerateToken(7, "jane@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protectedRouter(jwtService).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userID":7,"email":"jane@example.com"}`, w.Body.String())
}

func TestJWTAuth_AcceptsQueryToken(t *testing.T) {
	jwtService := newJWT()
	token, _, err := jwtService.GenerateToken(7, "jane@example.com")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	protectedRouter(jwtService).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me?token="+token, nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuth_Rejections(t *testing.T) {
	jwtService := newJWT()
	foreign, _, err := auth.NewJWTService(auth.JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "coursemate"}).GenerateToken(7, "x@y.co")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   dto.ErrorCode
	}{
		{"missing", "", dto.ErrorCodeUnauthorized},
		{"wrong scheme", "Basic abc", dto.ErrorCodeInvalidToken},
		{"garbage", "Bearer not-a-token", dto.ErrorCodeInvalidToken},
		{"wrong secret", "Bearer " + foreign, dto.ErrorCodeInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			protectedRouter(jwtService).ServeHTTP(w, req)

			require.Equal(t, http.StatusUnauthorized, w.Code)
			resp := decodeError(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, "Unauthorized", resp.Error.Message)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHandleAPIError_StatusMapping(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{apperrors.ErrInvalidCredentials, http.StatusBadRequest, "Invalid credentials"},
		{apperrors.ErrEmailAlreadyExists, http.StatusBadRequest, "Email already in use"},
		{apperrors.NewBadRequestError("Title is required"), http.StatusBadRequest, "Title is required"},
		{apperrors.ErrCourseAlreadyAdded, http.StatusBadRequest, "Course already in dashboard"},
		{apperrors.ErrTokenExpired, http.StatusUnauthorized, "Token expired"},
		{apperrors.NewForbiddenError("You can only edit your own files"), http.StatusForbidden, "You can only edit your own files"},
		{fmt.Errorf("get resource: %w", apperrors.ErrFileNotFound), http.StatusNotFound, "File not found"},
		{apperrors.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{apperrors.NewConflictError("taken"), http.StatusConflict, "taken"},
		{apperrors.ErrTooManyRequests, http.StatusTooManyRequests, "Too many requests"},
		{apperrors.NewDatabaseError(errors.New("pg: connection reset"), "Error executing query"), http.StatusInternalServerError, "Error executing query"},
		{errors.New("pg: connection reset"), http.StatusInternalServerError, "Server error"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		HandleAPIError(c, tt.err)

		assert.Equal(t, tt.status, w.Code, tt.err.Error())
		resp := decodeError(t, w)
		assert.Equal(t, tt.message, resp.Error.Message)
		assert.True(t, c.IsAborted())
	}
}

func TestHandleAPIError_CodeAndSeverity(t *testing.T) {
	tests := []struct {
		err      error
		code     dto.ErrorCode
		severity dto.ErrorSeverity
	}{
		{apperrors.NewBadRequestError("Title is required"), dto.ErrorCodeBadRequest, dto.ErrorSeverityError},
		{apperrors.ErrTooManyRequests, dto.ErrorCodeRateLimited, dto.ErrorSeverityWarning},
		{fmt.Errorf("list: %w", apperrors.NewDatabaseError(errors.New("pg: timeout"), "Error executing query")), dto.ErrorCodeDatabaseError, dto.ErrorSeverityCritical},
		{errors.New("boom"), dto.ErrorCodeInternalServer, dto.ErrorSeverityCritical},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		HandleAPIError(c, tt.err)

		resp := decodeError(t, w)
		assert.Equal(t, tt.code, resp.Error.Code, tt.err.Error())
		assert.Equal(t, tt.severity, resp.Error.Severity, tt.err.Error())
	}
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestRateLimit(t *testing.T) {
	router := gin.New()
	router.POST("/users/signin", RateLimit(ratelimit.NewMemoryLimiter(2, time.Minute), "signin", zerolog.Nop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users/signin", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	router := gin.New()
	router.POST("/notes/upload", RateLimit(failingLimiter{}, "upload", zerolog.Nop()), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/notes/upload", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	router := gin.New()
	router.Use(CORS("http://localhost:3000"))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	router := gin.New()
	router.Use(RequestLogger(zerolog.Nop()))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, "pong", w.Body.String())
}
