// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// MirrorConfig provides settings for the legacy spreadsheet mirror.
type MirrorConfig interface {
	GetMirrorSpreadsheetID() string
	GetMirrorCredentialsFile() string
	IsMirrorEnabled() bool
}

// StoreConfig provides per-call timeouts for the two persistence backends.
type StoreConfig interface {
	GetStoreTimeout() time.Duration
	GetMirrorTimeout() time.Duration
}

// SchedulerConfig provides settings for the asynq client and worker.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// SyncConfig provides settings for the mirror reconciliation job.
type SyncConfig interface {
	GetAdminSyncSecret() string
	GetSyncCron() string
	GetSyncLockTTL() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                   string
	HTTPAddr              string
	DatabaseURL           string
	CORSAllowAll          bool
	CORSOrigins           []string
	CORSAllowCreds        bool
	RateLimitRPS          float64
	RateLimitBurst        int
	MirrorSpreadsheetID   string
	MirrorCredentialsFile string
	StoreTimeout          time.Duration
	MirrorTimeout         time.Duration
	AdminSyncSecret       string
	SyncCron              string
	SyncLockTTL           time.Duration
	RedisURL              string
	RedisTLSInsecure      bool
	AsynqQueueName        string
	AsynqConcurrency      int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string       { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool     { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string  { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool   { return c.CORSAllowCreds }
func (c *Config) GetRateLimitRPS() float64  { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int    { return c.RateLimitBurst }

// MirrorConfig implementation
func (c *Config) GetMirrorSpreadsheetID() string   { return c.MirrorSpreadsheetID }
func (c *Config) GetMirrorCredentialsFile() string { return c.MirrorCredentialsFile }
func (c *Config) IsMirrorEnabled() bool            { return c.MirrorSpreadsheetID != "" }

// StoreConfig implementation
func (c *Config) GetStoreTimeout() time.Duration  { return c.StoreTimeout }
func (c *Config) GetMirrorTimeout() time.Duration { return c.MirrorTimeout }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string        { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool  { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string  { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int   { return c.AsynqConcurrency }

// SyncConfig implementation
func (c *Config) GetAdminSyncSecret() string      { return c.AdminSyncSecret }
func (c *Config) GetSyncCron() string             { return c.SyncCron }
func (c *Config) GetSyncLockTTL() time.Duration   { return c.SyncLockTTL }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		CORSAllowAll:          corsAllowAll,
		CORSOrigins:           corsOrigins,
		CORSAllowCreds:        strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		RateLimitRPS:          mustFloat(getEnv("RATE_LIMIT_RPS", "10")),
		RateLimitBurst:        mustInt(getEnv("RATE_LIMIT_BURST", "20")),
		MirrorSpreadsheetID:   getEnv("MIRROR_SPREADSHEET_ID", ""),
		MirrorCredentialsFile: getEnv("MIRROR_CREDENTIALS_FILE", ""),
		StoreTimeout:          mustDuration(getEnv("STORE_TIMEOUT", "5s")),
		MirrorTimeout:         mustDuration(getEnv("MIRROR_TIMEOUT", "8s")),
		AdminSyncSecret:       getEnv("ADMIN_SYNC_SECRET", ""),
		SyncCron:              getEnv("SYNC_CRON", ""),
		SyncLockTTL:           mustDuration(getEnv("SYNC_LOCK_TTL", "10m")),
		RedisURL:              getEnv("REDIS_URL", ""),
		RedisTLSInsecure:      strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:        getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:      mustInt(getEnv("ASYNQ_CONCURRENCY", "4")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.StoreTimeout <= 0 || cfg.MirrorTimeout <= 0 {
		return nil, fmt.Errorf("STORE_TIMEOUT and MIRROR_TIMEOUT must be positive durations")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
