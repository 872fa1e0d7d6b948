package routes

import (
	"net/http"

	"github.com/coursemate/backend/internal/app/controllers"
	"github.com/coursemate/backend/internal/app/models/dto"
	"github.com/coursemate/backend/internal/middleware"
	"github.com/coursemate/backend/internal/pkg/metrics"
	"github.com/coursemate/backend/internal/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth     *controllers.AuthController
	User     *controllers.UserController
	Resource *controllers.ResourceController
}

// Options controls the optional parts of the route table
type Options struct {
	BasePath    string
	UploadDir   string            // served at /uploads and /notes/uploads when set
	MetricsPath string            // empty disables /metrics
	Limiter     ratelimit.Limiter // nil disables throttling
	Logger      zerolog.Logger
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrls Controllers, authMiddleware *middleware.AuthMiddleware, opts Options) {
	api := router.Group(opts.BasePath)

	throttle := func(name string) gin.HandlerFunc {
		if opts.Limiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimit(opts.Limiter, name, opts.Logger)
	}

	// --- Public routes ---
	api.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.APIResponse{
			Success: true,
			Message: "CourseMate API is running",
		})
	})
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	if opts.MetricsPath != "" {
		router.GET(opts.MetricsPath, gin.WrapH(metrics.Handler()))
	}

	if opts.UploadDir != "" {
		api.Static("/uploads", opts.UploadDir)
		api.Static("/notes/uploads", opts.UploadDir)
	}

	users := api.Group("/users")
	{
		users.POST("/signup", throttle("signup"), ctrls.Auth.Signup)
		users.POST("/signin", throttle("signin"), ctrls.Auth.Signin)
	}

	// --- Authenticated routes ---
	account := users.Group("", authMiddleware.JWTAuth())
	{
		account.GET("/profile", ctrls.User.GetProfile)
		account.PUT("/profile", ctrls.User.UpdateProfile)
		account.PUT("/password", ctrls.User.ChangePassword)
		account.POST("/avatar", ctrls.User.UploadAvatar)

		dashboard := account.Group("/dashboard")
		dashboard.GET("/courses", ctrls.User.GetDashboardCourses)
		dashboard.POST("/courses", ctrls.User.AddDashboardCourse)
		dashboard.DELETE("/courses/:courseId", ctrls.User.RemoveDashboardCourse)
		dashboard.GET("/resources", ctrls.User.GetDashboardResources)
	}

	notes := api.Group("/notes", authMiddleware.JWTAuth())
	{
		notes.GET("", ctrls.Resource.ListResources)
		notes.GET("/courses/all", ctrls.Resource.ListCourses)
		notes.POST("/upload", throttle("upload"), ctrls.Resource.UploadResource)
		notes.GET("/:id", ctrls.Resource.GetResource)
		notes.PUT("/:id", ctrls.Resource.UpdateResource)
		notes.POST("/:id/download", ctrls.Resource.TrackDownload)
		notes.POST("/:id/rate", ctrls.Resource.RateResource)
	}
}
