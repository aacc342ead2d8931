package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ledger-backend/fees"
	"ledger-backend/logger"
)

type Config struct {
	Port string

	// Database
	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	DBTimeZone  string

	// HTTP
	AllowedOrigins  string
	BodyLimitBytes  int
	RateLimitMax    int
	RateLimitWindow time.Duration

	JWTSecret string

	// Text generation; an empty key means template-only reports
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	FeeRates fees.Rates

	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "3000"),
		DBDriver:        strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", ""),
		DBUser:          getEnv("DB_USER", ""),
		DBPassword:      getEnv("DB_PASSWORD", ""),
		DBName:          getEnv("DB_NAME", "ledger"),
		DBSSLMode:       getEnv("DB_SSLMODE", "disable"),
		DBTimeZone:      getEnv("DB_TIMEZONE", "UTC"),
		AllowedOrigins:  getEnv("ALLOWED_ORIGINS", "http://localhost:5173"),
		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX", 100),
		RateLimitWindow: time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		JWTSecret:       firstEnv("JWT_SECRET_KEY", "JWT_SECRET"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:   getEnv("LOG_TIME_FORMAT", time.RFC3339),
		LogOutput:       getEnv("LOG_OUTPUT", "stdout"),
	}

	cfg.BodyLimitBytes = getEnvInt("BODY_LIMIT_BYTES", 0)
	if cfg.BodyLimitBytes <= 0 {
		cfg.BodyLimitBytes = getEnvInt("BODY_LIMIT_MB", 5) * 1024 * 1024
	}

	rates, err := fees.ParseRates(fees.DefaultRates(), getEnv("FEE_RATES", ""))
	if err != nil {
		return nil, fmt.Errorf("FEE_RATES: %w", err)
	}
	cfg.FeeRates = rates

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or mysql, got %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.RateLimitMax <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive")
	}
	return nil
}

// DSN builds the connection string for the configured driver unless
// DATABASE_URL is set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.DBDriver == "mysql" {
		port := c.DBPort
		if port == "" {
			port = "3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.DBUser, c.DBPassword, c.DBHost, port, c.DBName)
	}
	port := c.DBPort
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, port, c.DBSSLMode, c.DBTimeZone)
}

func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getEnvInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return def
}
