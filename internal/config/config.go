package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BackendURL     string
	BackendTimeout time.Duration

	HTTPPort int
	GRPCPort int

	// Optional integrations; empty disables them.
	RedisAddr     string
	RedisPassword string
	CatalogTTL    time.Duration
	MySQLDSN      string
	RabbitMQURL   string

	RabbitMQExchange string

	LogLevel string
	LogFile  string
}

// Load reads envFile when it exists and then the process environment.
// A missing file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		BackendURL:       strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8081/api/pedidos"), "/"),
		HTTPPort:         8080,
		GRPCPort:         50051,
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		MySQLDSN:         getEnv("MYSQL_DSN", ""),
		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "pedidos.sessions"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFile:          getEnv("LOG_FILE", ""),
	}

	var err error
	if cfg.BackendTimeout, err = getEnvAsDuration("BACKEND_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.CatalogTTL, err = getEnvAsDuration("CATALOG_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.HTTPPort, err = getEnvAsInt("HTTP_PORT", cfg.HTTPPort); err != nil {
		return nil, err
	}
	if cfg.GRPCPort, err = getEnvAsInt("GRPC_PORT", cfg.GRPCPort); err != nil {
		return nil, err
	}

	if cfg.BackendURL == "" {
		return nil, errors.New("BACKEND_URL must not be empty")
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
