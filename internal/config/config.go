package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort           string
	CartAPIBaseURL     string
	OrderAPIBaseURL    string
	PaymentAPIBaseURL  string
	RedisAddr          string
	AccountReference   string
	AllowedOrigins     []string
	RequestTimeout     time.Duration
	RemoteTimeout      time.Duration
	ShutdownTimeout    time.Duration
	SessionMaxIdle     time.Duration
	SessionSweepEvery  time.Duration
	MaxRequestBodySize int64
}

// Load reads configuration from the environment, honoring a local .env
// file when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		CartAPIBaseURL:     getEnv("CART_API_URL", "http://localhost:9000"),
		OrderAPIBaseURL:    getEnv("ORDER_API_URL", "http://localhost:9000"),
		PaymentAPIBaseURL:  getEnv("PAYMENT_API_URL", "http://localhost:9000"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		AccountReference:   getEnv("PAYMENT_ACCOUNT_REFERENCE", "storefront"),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		RequestTimeout:     30 * time.Second,
		RemoteTimeout:      10 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		SessionMaxIdle:     24 * time.Hour,
		SessionSweepEvery:  time.Hour,
		MaxRequestBodySize: 1 << 20, // 1MB
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
