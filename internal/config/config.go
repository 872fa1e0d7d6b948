package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when CONFIG_PATH is not set
const DefaultConfigPath = "configs/config.yaml"

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port         string `yaml:"port" env:"SERVER_PORT"`
		Mode         string `yaml:"mode" env:"SERVER_MODE"`
		BasePath     string `yaml:"base_path" env:"SERVER_BASE_PATH"`
		PublicURL    string `yaml:"public_url" env:"SERVER_PUBLIC_URL"`
		ReadTimeout  string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		IdleTimeout  string `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT"`
		CORSOrigin   string `yaml:"cors_origin" env:"SERVER_CORS_ORIGIN"`
	} `yaml:"server"`

	Database struct {
		Host                 string `yaml:"host" env:"DB_HOST"`
		Port                 string `yaml:"port" env:"DB_PORT"`
		User                 string `yaml:"user" env:"DB_USER"`
		Password             string `yaml:"password" env:"DB_PASSWORD"`
		DBName               string `yaml:"dbname" env:"DB_NAME"`
		SSLMode              string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns         int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns         int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime      string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		ConnectRetryInterval string `yaml:"connect_retry_interval" env:"DB_CONNECT_RETRY_INTERVAL"`
		ConnectMaxAttempts   int    `yaml:"connect_max_attempts" env:"DB_CONNECT_MAX_ATTEMPTS"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Upload struct {
		Driver        string `yaml:"driver" env:"UPLOAD_DRIVER"`
		Dir           string `yaml:"dir" env:"UPLOAD_DIR"`
		MaxFileSizeMB int64  `yaml:"max_file_size_mb" env:"MAX_FILE_SIZE"`
	} `yaml:"upload"`

	S3 struct {
		Endpoint     string `yaml:"endpoint" env:"S3_ENDPOINT"`
		Region       string `yaml:"region" env:"S3_REGION"`
		Bucket       string `yaml:"bucket" env:"S3_BUCKET"`
		AccessKey    string `yaml:"access_key" env:"S3_ACCESS_KEY"`
		SecretKey    string `yaml:"secret_key" env:"S3_SECRET_KEY"`
		UsePathStyle bool   `yaml:"use_path_style" env:"S3_USE_PATH_STYLE"`
		PublicURL    string `yaml:"public_url" env:"S3_PUBLIC_URL"`
	} `yaml:"s3"`

	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	RateLimit struct {
		Enabled  bool   `yaml:"enabled" env:"RATE_LIMIT_ENABLED"`
		Backend  string `yaml:"backend" env:"RATE_LIMIT_BACKEND"`
		Requests int    `yaml:"requests" env:"RATE_LIMIT_REQUESTS"`
		Window   string `yaml:"window" env:"RATE_LIMIT_WINDOW"`
	} `yaml:"rate_limit"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
		Path    string `yaml:"path" env:"METRICS_PATH"`
	} `yaml:"metrics"`

	Seed struct {
		OnStartup bool `yaml:"on_startup" env:"SEED_ON_STARTUP"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a .env file, a YAML file and environment variables,
// in that order of increasing precedence.
func LoadConfig(configPath string) (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// PathFromEnv returns CONFIG_PATH or the default location
func PathFromEnv() string {
	return GetEnv("CONFIG_PATH", DefaultConfigPath)
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "5050"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = "30s"
	config.Server.WriteTimeout = "60s"
	config.Server.IdleTimeout = "120s"
	config.Server.CORSOrigin = "http://localhost:3000"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "coursemate"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.ConnectRetryInterval = "5s"

	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "coursemate"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Upload.Driver = "local"
	config.Upload.Dir = "uploads"
	config.Upload.MaxFileSizeMB = 100

	config.S3.Region = "us-east-1"
	config.S3.UsePathStyle = true

	config.Redis.Addr = "localhost:6379"

	config.RateLimit.Enabled = true
	config.RateLimit.Backend = "memory"
	config.RateLimit.Requests = 20
	config.RateLimit.Window = "1m"

	config.Metrics.Enabled = true
	config.Metrics.Path = "/metrics"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	durations := map[string]string{
		"JWT access token expiration":  config.JWT.AccessTokenExpiration,
		"database connection lifetime": config.Database.ConnMaxLifetime,
		"database connect retry":       config.Database.ConnectRetryInterval,
		"server read timeout":          config.Server.ReadTimeout,
		"server write timeout":         config.Server.WriteTimeout,
		"server idle timeout":          config.Server.IdleTimeout,
		"rate limit window":            config.RateLimit.Window,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	if config.Upload.MaxFileSizeMB <= 0 {
		return fmt.Errorf("upload max file size must be positive")
	}

	switch strings.ToLower(config.Upload.Driver) {
	case "local":
		if config.Upload.Dir == "" {
			return fmt.Errorf("upload dir is required for the local driver")
		}
	case "s3":
		if config.S3.Bucket == "" {
			return fmt.Errorf("s3 bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unsupported upload driver %q", config.Upload.Driver)
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 {
			return fmt.Errorf("rate limit requests must be positive")
		}
		switch strings.ToLower(config.RateLimit.Backend) {
		case "memory", "redis":
		default:
			return fmt.Errorf("unsupported rate limit backend %q", config.RateLimit.Backend)
		}
	}

	if config.Server.PublicURL != "" {
		if _, err := url.ParseRequestURI(config.Server.PublicURL); err != nil {
			return fmt.Errorf("invalid server public url: %w", err)
		}
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(c.Database.User),
		url.QueryEscape(c.Database.Password),
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// PublicBaseURL is the externally reachable origin used to build file URLs
func (c *Config) PublicBaseURL() string {
	if c.Server.PublicURL != "" {
		return strings.TrimRight(c.Server.PublicURL, "/")
	}
	return "http://localhost:" + c.Server.Port
}

// MaxUploadBytes returns the upload limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return c.Upload.MaxFileSizeMB * 1024 * 1024
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
