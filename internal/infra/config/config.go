package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

// Pending operation stores selectable with PENDING_STORE.
const (
	PendingStoreMemory   = "memory"
	PendingStorePostgres = "postgres"
	PendingStoreRedis    = "redis"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	APIBaseURL string
	APIToken   string
	APITimeout time.Duration

	LogLevel    string
	Environment string

	ResolveMaxAttempts   int
	ResolveRetryBackoff  time.Duration
	ReconcileMaxAttempts int
	CronSpecReconcile    string
	CronSpecRefresh      string

	PendingStore string
	DatabaseURL  string
	RedisURL     string

	TelegramToken   string // optional; alerts are only logged without it
	AdminTelegramID int64

	MetricsAddr string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.APIBaseURL = getEnv("API_BASE_URL", "http://localhost:5000")
	cfg.APIToken = os.Getenv("API_TOKEN")
	if cfg.APITimeout, err = getDuration("API_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(getEnv("ENVIRONMENT", "development"))

	if cfg.ResolveMaxAttempts, err = getPositiveInt("RESOLVE_MAX_ATTEMPTS", 3); err != nil {
		return nil, err
	}
	if cfg.ResolveRetryBackoff, err = getDuration("RESOLVE_RETRY_BACKOFF", 500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.ReconcileMaxAttempts, err = getPositiveInt("RECONCILE_MAX_ATTEMPTS", 20); err != nil {
		return nil, err
	}
	cfg.CronSpecReconcile = getEnv("CRON_SPEC_RECONCILE", "*/5 * * * *") // every 5 minutes
	cfg.CronSpecRefresh = getEnv("CRON_SPEC_REFRESH", "* * * * *")       // every minute

	cfg.PendingStore = strings.ToLower(getEnv("PENDING_STORE", PendingStoreMemory))
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	switch cfg.PendingStore {
	case PendingStoreMemory:
	case PendingStorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is not set (required for PENDING_STORE=postgres)")
		}
	case PendingStoreRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is not set (required for PENDING_STORE=redis)")
		}
	default:
		return nil, fmt.Errorf("invalid PENDING_STORE %q: want memory, postgres or redis", cfg.PendingStore)
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID"); adminIDStr != "" {
		cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
	}
	if cfg.TelegramToken != "" && cfg.AdminTelegramID == 0 {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is not set (required with TELEGRAM_TOKEN)")
	}

	cfg.MetricsAddr = getEnv("METRICS_ADDR", ":9090")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getPositiveInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("invalid %s: must be at least 1", key)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
