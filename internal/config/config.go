package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Import   ImportConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	Host           string
	Addr           string // Combined host:port for convenience
	MaxUploadBytes int64
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// ImportConfig holds the statement import settings.
type ImportConfig struct {
	// PageSize is the page size used when collecting existing activity hashes.
	PageSize int
	// HashCacheTTL is how long collected hashes are reused per account.
	HashCacheTTL time.Duration
	// CacheTTL is how long a processed statement stays reviewable.
	CacheTTL time.Duration
	// CacheKey is the base64 fernet key for cached results. Empty means a
	// key is generated at startup and cached results do not survive a restart.
	CacheKey string
	// Timezone is the zone activity dates are normalized to before hashing.
	Timezone string
	// PurgeSchedule is the cron spec of the expired-import purge.
	PurgeSchedule string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	maxUpload, err := getEnvInt("MAX_UPLOAD_BYTES", 32<<20)
	if err != nil {
		return nil, err
	}
	pageSize, err := getEnvInt("IMPORT_PAGE_SIZE", 100)
	if err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("IMPORT_PAGE_SIZE must be positive, got %d", pageSize)
	}
	hashTTL, err := getEnvDuration("IMPORT_HASH_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getEnvDuration("IMPORT_CACHE_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	if cacheTTL <= 0 {
		return nil, fmt.Errorf("IMPORT_CACHE_TTL must be positive, got %s", cacheTTL)
	}

	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "5001"),
			Host:           getEnv("SERVER_HOST", "localhost"),
			MaxUploadBytes: int64(maxUpload),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/broker_importer.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Import: ImportConfig{
			PageSize:      pageSize,
			HashCacheTTL:  hashTTL,
			CacheTTL:      cacheTTL,
			CacheKey:      getEnv("IMPORT_CACHE_KEY", ""),
			Timezone:      getEnv("IMPORT_TIMEZONE", "Asia/Kolkata"),
			PurgeSchedule: getEnv("IMPORT_PURGE_SCHEDULE", "@every 1h"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

// getEnvList splits a comma-separated variable, dropping empty entries.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
