package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string

	// Identities used by the CLI (single-operator local mode)
	CustomerID string
	VendorID   string

	// Database
	DatabaseURL string
	SQLitePath  string
	MaxConns    int

	// Redis
	RedisURL string

	// RabbitMQ
	RabbitMQURL string

	// Payment gateway
	PaymentGatewayURL   string
	PaymentGatewayToken string

	// Outbox
	OutboxPollInterval     time.Duration
	OutboxBatchSize        int
	OutboxMaxRetries       int
	OutboxRetentionDays    int
	OutboxCleanupInterval  time.Duration
	OutboxProcessorEnabled bool

	// Worker
	WorkerHealthAddr     string
	RenewalSweepInterval time.Duration
	RenewalBatchSize     int
}

// Load loads configuration from the environment, reading .env first when
// present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		CustomerID: getEnv("FIXNEST_CUSTOMER_ID", "00000000-0000-0000-0000-000000000001"),
		VendorID:   getEnv("FIXNEST_VENDOR_ID", "00000000-0000-0000-0000-000000000002"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("FIXNEST_SQLITE_PATH", "fixnest.db"),
		MaxConns:    getIntEnv("DATABASE_MAX_CONNS", 10),

		RedisURL:    getEnv("REDIS_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		PaymentGatewayURL:   getEnv("PAYMENT_GATEWAY_URL", ""),
		PaymentGatewayToken: getEnv("PAYMENT_GATEWAY_TOKEN", ""),

		OutboxPollInterval:     getDurationEnv("OUTBOX_POLL_INTERVAL", 100*time.Millisecond),
		OutboxBatchSize:        getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:       getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxRetentionDays:    getIntEnv("OUTBOX_RETENTION_DAYS", 14),
		OutboxCleanupInterval:  getDurationEnv("OUTBOX_CLEANUP_INTERVAL", 24*time.Hour),
		OutboxProcessorEnabled: getBoolEnv("OUTBOX_PROCESSOR_ENABLED", true),

		WorkerHealthAddr:     getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),
		RenewalSweepInterval: getDurationEnv("RENEWAL_SWEEP_INTERVAL", time.Hour),
		RenewalBatchSize:     getIntEnv("RENEWAL_BATCH_SIZE", 100),
	}

	return cfg, nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UseLocalMode reports whether the app falls back to the SQLite local mode.
func (c *Config) UseLocalMode() bool {
	return c.DatabaseURL == ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
