package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Port                 string
	DatabaseURL          string
	RedisURL             string
	DispatchWorkers      int
	DispatchPollInterval time.Duration
	HandlerTimeout       time.Duration
	NotifyRateLimit      int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	port := getEnv("PORT", "8080")
	dbURL := getEnv("DATABASE_URL", "")
	redisURL := getEnv("REDIS_URL", "")
	dispatchWorkers := getEnvInt("DISPATCH_WORKERS", 20)
	pollInterval := getEnvDuration("DISPATCH_POLL_INTERVAL", 5*time.Second)
	handlerTimeout := getEnvDuration("HANDLER_TIMEOUT", 30*time.Second)
	notifyRateLimit := getEnvInt("NOTIFY_RATE_LIMIT", 10)

	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	return &Config{
		Port:                 port,
		DatabaseURL:          dbURL,
		RedisURL:             redisURL,
		DispatchWorkers:      dispatchWorkers,
		DispatchPollInterval: pollInterval,
		HandlerTimeout:       handlerTimeout,
		NotifyRateLimit:      notifyRateLimit,
	}, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err == nil {
			return d
		}
	}
	return fallback
}
