package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	AppPort string `mapstructure:"APP_PORT"`

	// Record store
	StoreDriver string `mapstructure:"STORE_DRIVER"` // sqlite | postgres | redis | memory
	DatabaseDSN string `mapstructure:"DATABASE_DSN"`
	RedisAddr   string `mapstructure:"REDIS_ADDR"`
	RedisDB     int    `mapstructure:"REDIS_DB"`

	// Events; empty disables publishing
	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	// Sessions
	JWTSecret       string `mapstructure:"JWT_SECRET"`
	SessionTTLHours int    `mapstructure:"SESSION_TTL_HOURS"`

	// Logging
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogPretty bool   `mapstructure:"LOG_PRETTY"`

	OrderDateLayout string `mapstructure:"ORDER_DATE_LAYOUT"`
}

// SessionTTL returns the session token lifetime.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("STORE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "kirana.db")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("JWT_SECRET", "kirana-dev-secret")
	v.SetDefault("SESSION_TTL_HOURS", 24)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("ORDER_DATE_LAYOUT", "02/01/2006, 15:04:05")

	// optional .env for local development
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.SessionTTLHours <= 0 {
		return nil, fmt.Errorf("SESSION_TTL_HOURS must be positive, got %d", cfg.SessionTTLHours)
	}
	return cfg, nil
}
