package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// DefaultStoreFile is the conventional store file name in the project root.
const DefaultStoreFile = "harvesthub.db"

// FallbackStorePath is used when no project-relative location can be
// determined (hosted environments with a mounted data volume).
const FallbackStorePath = "/mnt/data/harvesthub.db"

// ErrNotAbsolute is returned when the resolved store location is not an
// absolute, usable path.
var ErrNotAbsolute = errors.New("store path must be absolute")

// StoreConfig holds embedded store configuration.
type StoreConfig struct {
	Path            string
	BusyTimeout     time.Duration
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	SigningKey      string
	ExpirationHours int
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Prefix string
}

// Config holds all configuration.
type Config struct {
	ServiceName string
	Store       StoreConfig
	Server      ServerConfig
	JWT         JWTConfig
	Log         LogConfig
	Metrics     MetricsConfig

	// SilentInit suppresses informational logging during store
	// initialization and migration runs.
	SilentInit bool
}

// Load loads configuration from environment variables.
func Load(serviceName string) (*Config, error) {
	// .env file is optional
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	storePath, err := ResolveStorePath()
	if err != nil {
		return nil, err
	}

	config := &Config{
		ServiceName: serviceName,
		Store: StoreConfig{
			Path:            storePath,
			BusyTimeout:     getEnvAsDuration("DB_BUSY_TIMEOUT", 20*time.Second),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 1*time.Hour),
			LogLevel:        getEnvAsLogLevel("DB_LOG_LEVEL", logger.Warn),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		JWT: JWTConfig{
			SigningKey:      getEnv("JWT_SIGNING_KEY", "defaultsecretkey"),
			ExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", serviceName),
		},
		SilentInit: getEnv("HARVESTHUB_SILENT_INIT", "") != "",
	}

	return config, nil
}

// ResolveStorePath determines the single canonical store file location.
//
// Priority:
//  1. HARVESTHUB_DB_PATH environment variable
//  2. DATABASE_URL legacy override (sqlite DSN, must be absolute)
//  3. <working dir>/harvesthub.db
//  4. /mnt/data/harvesthub.db
func ResolveStorePath() (string, error) {
	if env := os.Getenv("HARVESTHUB_DB_PATH"); env != "" {
		abs, err := filepath.Abs(env)
		if err != nil {
			return "", fmt.Errorf("%w: HARVESTHUB_DB_PATH=%q: %v", ErrNotAbsolute, env, err)
		}
		return abs, nil
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		path, err := storePathFromURL(url)
		if err != nil {
			return "", err
		}
		return path, nil
	}

	wd, err := os.Getwd()
	if err == nil {
		path := filepath.Join(wd, DefaultStoreFile)
		if !filepath.IsAbs(path) {
			return "", fmt.Errorf("%w: %q", ErrNotAbsolute, path)
		}
		return path, nil
	}

	return FallbackStorePath, nil
}

// storePathFromURL parses the legacy DATABASE_URL override. Only sqlite URLs
// with an absolute file path are accepted.
func storePathFromURL(url string) (string, error) {
	const scheme = "sqlite://"
	if !strings.HasPrefix(url, scheme) {
		return "", fmt.Errorf("%w: DATABASE_URL must be a sqlite:// URL with an absolute path, got %q", ErrNotAbsolute, url)
	}
	path := strings.TrimPrefix(url, scheme)
	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("%w: DATABASE_URL path %q", ErrNotAbsolute, path)
	}
	return path, nil
}

// LogConfig returns the configuration as zap logger fields.
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("store_path", c.Store.Path),
		zap.String("server_port", c.Server.Port),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsLogLevel(key string, defaultValue logger.LogLevel) logger.LogLevel {
	switch getEnv(key, "") {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}
