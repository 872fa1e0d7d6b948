package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	appControllers "github.com/coursemate/backend/internal/app/controllers"
	appMigrations "github.com/coursemate/backend/internal/app/migrations"
	appRepos "github.com/coursemate/backend/internal/app/repositories"
	appRoutes "github.com/coursemate/backend/internal/app/routes"
	appServices "github.com/coursemate/backend/internal/app/services"
	"github.com/coursemate/backend/internal/config"
	"github.com/coursemate/backend/internal/db"
	appMiddleware "github.com/coursemate/backend/internal/middleware"
	pkgAuth "github.com/coursemate/backend/internal/pkg/auth"
	"github.com/coursemate/backend/internal/pkg/filestorage"
	"github.com/coursemate/backend/internal/pkg/helpers"
	"github.com/coursemate/backend/internal/pkg/logger"
	"github.com/coursemate/backend/internal/pkg/metrics"
	"github.com/coursemate/backend/internal/pkg/ratelimit"
	"github.com/coursemate/backend/internal/pkg/upload"
	"github.com/coursemate/backend/internal/pkg/validation"
	"github.com/coursemate/backend/internal/seed"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos              *appRepos.Repositories
	Services           *appServices.Services
	AuthController     *appControllers.AuthController
	UserController     *appControllers.UserController
	ResourceController *appControllers.ResourceController
	AuthMiddleware     *appMiddleware.AuthMiddleware
	JWTService         *pkgAuth.JWTService
	FileStorage        filestorage.FileStorage
	Uploader           *upload.Handler
	Limiter            ratelimit.Limiter
	Redis              *redis.Client // nil unless the redis limiter is used
	Logger             zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(config.PathFromEnv())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool, lgr).Up(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	if cfg.Seed.OnStartup {
		seeder := seed.NewSeeder(dbPool, lgr, seed.Options{BaseURL: cfg.PublicBaseURL()})
		if err := seeder.EnsureDemoUser(ctx); err != nil {
			// Startup continues without demo data
			lgr.Error().Err(err).Msg("Failed to create demo user, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// SetupStorage picks the file backend named by upload.driver
func SetupStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (filestorage.FileStorage, error) {
	switch strings.ToLower(cfg.Upload.Driver) {
	case "s3":
		storage, err := filestorage.NewS3Storage(ctx, filestorage.S3Config{
			Endpoint:     cfg.S3.Endpoint,
			Region:       cfg.S3.Region,
			Bucket:       cfg.S3.Bucket,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			UsePathStyle: cfg.S3.UsePathStyle,
			PublicURL:    cfg.S3.PublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize s3 storage: %w", err)
		}
		if err := storage.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("failed to prepare s3 bucket: %w", err)
		}
		lgr.Info().Str("bucket", cfg.S3.Bucket).Msg("Using S3 file storage")
		return storage, nil
	default:
		storage, err := filestorage.NewLocalStorage(cfg.Upload.Dir, cfg.PublicBaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file storage: %w", err)
		}
		lgr.Info().Str("path", storage.BasePath()).Msg("Using local file storage")
		return storage, nil
	}
}

// SetupLimiter builds the request throttle. It returns a nil limiter when
// rate limiting is disabled.
func SetupLimiter(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (ratelimit.Limiter, *redis.Client, error) {
	if !cfg.RateLimit.Enabled {
		lgr.Info().Msg("Rate limiting disabled")
		return nil, nil, nil
	}

	window := helpers.ParseDuration(cfg.RateLimit.Window, time.Minute)
	if strings.ToLower(cfg.RateLimit.Backend) != "redis" {
		return ratelimit.NewMemoryLimiter(cfg.RateLimit.Requests, window), nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Using redis rate limiter")
	return ratelimit.NewRedisLimiter(client, cfg.RateLimit.Requests, window), client, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	var err error
	deps.FileStorage, err = SetupStorage(ctx, cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, err
	}
	deps.Uploader = upload.NewHandler(deps.FileStorage, cfg.MaxUploadBytes())

	deps.Limiter, deps.Redis, err = SetupLimiter(ctx, cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize rate limiter")
		return nil, err
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Repos = appRepos.NewRepositories(dbPool)
	deps.Services = appServices.NewServices(deps.Repos, deps.JWTService, deps.Uploader, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.AuthController = appControllers.NewAuthController(deps.Services.AuthService, lgr)
	deps.UserController = appControllers.NewUserController(deps.Services.UserService, lgr)
	deps.ResourceController = appControllers.NewResourceController(deps.Services.ResourceService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := validation.RegisterCustomValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.CORS(cfg.Server.CORSOrigin),
	)

	opts := appRoutes.Options{
		BasePath: cfg.Server.BasePath,
		Limiter:  deps.Limiter,
		Logger:   lgr,
	}
	if cfg.Metrics.Enabled {
		router.Use(metrics.Middleware())
		opts.MetricsPath = cfg.Metrics.Path
	}
	if local, ok := deps.FileStorage.(*filestorage.LocalStorage); ok {
		opts.UploadDir = local.BasePath()
	}

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, appRoutes.Controllers{
		Auth:     deps.AuthController,
		User:     deps.UserController,
		Resource: deps.ResourceController,
	}, deps.AuthMiddleware, opts)

	return router, nil
}
