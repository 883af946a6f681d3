package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Хранилища симуляций
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config содержит конфигурацию сервера
type Config struct {
	Port             int
	MaxPrincipal     float64
	MaxMonths        int
	MaxMonthlyRate   float64
	MaxEarlyPayments int
	StoreBackend     string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RateLimit        int
	RateLimitWindow  time.Duration
	ReportTemplate   string
	OTELEndpoint     string
	OTELServiceName  string
	LogLevel         string
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	// Загружаем .env файл, если он существует (игнорируем ошибку)
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnvInt("PORT", 8000),
		MaxPrincipal:     getEnvFloat("MAX_PRINCIPAL", 1e9),
		MaxMonths:        getEnvInt("MAX_MONTHS", 600),
		MaxMonthlyRate:   getEnvFloat("MAX_MONTHLY_RATE", 0.2),
		MaxEarlyPayments: getEnvInt("MAX_EARLY_PAYMENTS", 120),
		StoreBackend:     getEnvString("STORE_BACKEND", StoreMemory),
		RedisAddr:        getEnvString("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnvString("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		RateLimit:        getEnvInt("RATE_LIMIT_CAPACITY", 60),
		RateLimitWindow:  getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		ReportTemplate:   getEnvString("REPORT_TEMPLATE", ""),
		OTELEndpoint:     getEnvString("OTEL_ENDPOINT", ""),
		OTELServiceName:  getEnvString("OTEL_SERVICE_NAME", "mcp-finance-planner"),
		LogLevel:         getEnvString("LOG_LEVEL", "INFO"),
	}

	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// UsesRedis сообщает, выбрано ли хранилище Redis
func (c *Config) UsesRedis() bool {
	return c.StoreBackend == StoreRedis
}
