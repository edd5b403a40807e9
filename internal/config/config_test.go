package config

import (
	"slices"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{
			"SERVER_PORT", "SERVER_HOST", "DB_PATH", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL",
			"MAX_UPLOAD_BYTES", "IMPORT_PAGE_SIZE", "IMPORT_HASH_CACHE_TTL", "IMPORT_CACHE_TTL",
			"IMPORT_CACHE_KEY", "IMPORT_TIMEZONE", "IMPORT_PURGE_SCHEDULE",
		} {
			t.Setenv(key, "")
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}

		if cfg.Server.Addr != "localhost:5001" {
			t.Errorf("Expected addr localhost:5001, got %s", cfg.Server.Addr)
		}
		if cfg.Server.MaxUploadBytes != 32<<20 {
			t.Errorf("Expected 32 MiB upload limit, got %d", cfg.Server.MaxUploadBytes)
		}
		if cfg.Import.PageSize != 100 {
			t.Errorf("Expected page size 100, got %d", cfg.Import.PageSize)
		}
		if cfg.Import.HashCacheTTL != 5*time.Minute || cfg.Import.CacheTTL != 24*time.Hour {
			t.Errorf("Unexpected TTLs %s / %s", cfg.Import.HashCacheTTL, cfg.Import.CacheTTL)
		}
		if cfg.Import.Timezone != "Asia/Kolkata" {
			t.Errorf("Expected Asia/Kolkata, got %s", cfg.Import.Timezone)
		}
		if cfg.Import.PurgeSchedule != "@every 1h" {
			t.Errorf("Expected @every 1h, got %s", cfg.Import.PurgeSchedule)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("Expected log level info, got %s", cfg.LogLevel)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("SERVER_HOST", "0.0.0.0")
		t.Setenv("SERVER_PORT", "8080")
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
		t.Setenv("IMPORT_PAGE_SIZE", "25")
		t.Setenv("IMPORT_CACHE_TTL", "30m")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}

		if cfg.Server.Addr != "0.0.0.0:8080" {
			t.Errorf("Expected addr 0.0.0.0:8080, got %s", cfg.Server.Addr)
		}
		want := []string{"https://a.example", "https://b.example"}
		if !slices.Equal(cfg.CORS.AllowedOrigins, want) {
			t.Errorf("Expected origins %v, got %v", want, cfg.CORS.AllowedOrigins)
		}
		if cfg.Import.PageSize != 25 {
			t.Errorf("Expected page size 25, got %d", cfg.Import.PageSize)
		}
		if cfg.Import.CacheTTL != 30*time.Minute {
			t.Errorf("Expected 30m cache TTL, got %s", cfg.Import.CacheTTL)
		}
	})

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric page size", "IMPORT_PAGE_SIZE", "many"},
		{"zero page size", "IMPORT_PAGE_SIZE", "0"},
		{"bad duration", "IMPORT_HASH_CACHE_TTL", "5 minutes"},
		{"non-positive cache ttl", "IMPORT_CACHE_TTL", "0s"},
		{"bad upload limit", "MAX_UPLOAD_BYTES", "1MB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
