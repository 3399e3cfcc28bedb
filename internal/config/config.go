package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Telegram TelegramConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Checker  CheckerConfig
	Browser  BrowserConfig
	Server   ServerConfig
	Logging  LoggingConfig
}

type TelegramConfig struct {
	Token          string
	OperatorChatID int64
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type CheckerConfig struct {
	Concurrency int
	MaxRetries  int
	RetryDelay  time.Duration
	Interval    time.Duration
}

type BrowserConfig struct {
	Headless       bool
	Timeout        time.Duration
	ViewportWidth  int
	ViewportHeight int
	Locale         string
	TimezoneID     string
}

type ServerConfig struct {
	Host            string
	Port            string
	ShutdownTimeout time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Telegram: TelegramConfig{
			Token:          os.Getenv("TELEGRAM_BOT_TOKEN"),
			OperatorChatID: getInt64OrDefault("TELEGRAM_OPERATOR_CHAT_ID", 0),
		},
		Database: DatabaseConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getIntOrDefault("DB_PORT", 5432),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", ""),
			DBName:   getEnvOrDefault("DB_NAME", "stockwatch"),
			MaxConns: int32(getIntOrDefault("DB_MAX_CONNS", 10)),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getIntOrDefault("REDIS_DB", 0),
		},
		Checker: CheckerConfig{
			Concurrency: getIntOrDefault("CHECKER_CONCURRENCY", 3),
			MaxRetries:  getIntOrDefault("CHECKER_MAX_RETRIES", 2),
			RetryDelay:  getDurationOrDefault("CHECKER_RETRY_DELAY", 2*time.Second),
			Interval:    getDurationOrDefault("CHECK_INTERVAL", 5*time.Minute),
		},
		Browser: BrowserConfig{
			Headless:       getBoolOrDefault("BROWSER_HEADLESS", true),
			Timeout:        getDurationOrDefault("BROWSER_TIMEOUT", 30*time.Second),
			ViewportWidth:  getIntOrDefault("BROWSER_VIEWPORT_WIDTH", 800),
			ViewportHeight: getIntOrDefault("BROWSER_VIEWPORT_HEIGHT", 800),
			Locale:         getEnvOrDefault("BROWSER_LOCALE", "de-DE"),
			TimezoneID:     getEnvOrDefault("BROWSER_TIMEZONE", "Europe/Berlin"),
		},
		Server: ServerConfig{
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvOrDefault("SERVER_PORT", "8080"),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	if c.Checker.Concurrency < 1 {
		return fmt.Errorf("CHECKER_CONCURRENCY must be at least 1")
	}

	if c.Checker.MaxRetries < 0 {
		return fmt.Errorf("CHECKER_MAX_RETRIES cannot be negative")
	}

	if c.Checker.Interval <= 0 {
		return fmt.Errorf("CHECK_INTERVAL must be positive")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
