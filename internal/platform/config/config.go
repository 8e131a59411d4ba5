package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionStoreMemory   = "memory"
	SessionStorePostgres = "postgres"
	SessionStoreValkey   = "valkey"
)

type Config struct {
	Addr                    string
	Environment             string
	APIBaseURL              string
	APITimeout              time.Duration
	SessionStore            string
	DatabaseURL             string
	ValkeyURL               string
	SessionTTL              time.Duration
	SessionSecret           string
	SessionSweepSchedule    string
	ToastTimeout            time.Duration
	AuditRetention          time.Duration
	GoogleClientID          string
	CompanyName             string
	MaxUploadBytes          int64
	LoginRateLimitPerMinute int
	MetricsEnabled          bool
	RunMigrations           bool
	MigrationsDir           string
}

// Load reads .env (when present) and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("dotenv load failed", "err", err)
	}
	return FromEnv()
}

func FromEnv() Config {
	return Config{
		Addr:                    getEnv("APP_ADDR", ":3000"),
		Environment:             getEnv("APP_ENV", "development"),
		APIBaseURL:              strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080/api/v1"), "/"),
		APITimeout:              getEnvDuration("API_TIMEOUT", 15*time.Second),
		SessionStore:            strings.ToLower(getEnv("SESSION_STORE", SessionStoreMemory)),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		ValkeyURL:               getEnv("VALKEY_URL", ""),
		SessionTTL:              getEnvDuration("SESSION_TTL", 8*time.Hour),
		SessionSecret:           getEnv("SESSION_SECRET", getEnv("DATA_ENCRYPTION_KEY", "")),
		SessionSweepSchedule:    getEnv("SESSION_SWEEP_SCHEDULE", "@every 15m"),
		ToastTimeout:            getEnvDuration("TOAST_TIMEOUT", 4*time.Second),
		AuditRetention:          getEnvDuration("AUDIT_RETENTION", 90*24*time.Hour),
		GoogleClientID:          getEnv("GOOGLE_CLIENT_ID", ""),
		CompanyName:             getEnv("COMPANY_NAME", "HRMS"),
		MaxUploadBytes:          int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),
		LoginRateLimitPerMinute: getEnvInt("LOGIN_RATE_LIMIT_PER_MINUTE", 10),
		MetricsEnabled:          getEnvBool("METRICS_ENABLED", true),
		RunMigrations:           getEnvBool("RUN_MIGRATIONS", true),
		MigrationsDir:           getEnv("MIGRATIONS_DIR", "migrations"),
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("API_BASE_URL must be an http(s) URL")
	}
	switch c.SessionStore {
	case SessionStoreMemory:
	case SessionStorePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when SESSION_STORE is postgres")
		}
	case SessionStoreValkey:
		if strings.TrimSpace(c.ValkeyURL) == "" {
			return fmt.Errorf("VALKEY_URL is required when SESSION_STORE is valkey")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be one of memory, postgres, valkey")
	}
	if c.IsProduction() {
		if strings.TrimSpace(c.SessionSecret) == "" {
			return fmt.Errorf("SESSION_SECRET must be set in production")
		}
		if c.SessionStore == SessionStoreMemory {
			return fmt.Errorf("SESSION_STORE memory is not allowed in production")
		}
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.ToastTimeout <= 0 {
		return fmt.Errorf("TOAST_TIMEOUT must be positive")
	}
	if c.AuditRetention < 0 {
		return fmt.Errorf("AUDIT_RETENTION must not be negative")
	}
	if c.MaxUploadBytes < 1024 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be at least 1024")
	}
	if c.LoginRateLimitPerMinute <= 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}
