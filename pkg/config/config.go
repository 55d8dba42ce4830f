package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Store   StoreConfig
	Editor  EditorConfig
	Redis   RedisConfig
	Events  EventsConfig
	Session SessionConfig
	Log     LogConfig
	OTEL    OTELConfig
}

// StoreConfig holds the remote record store configuration
type StoreConfig struct {
	BaseURL          string
	Timeout          time.Duration
	LoginPath        string
	PlaceholderImage string
}

// EditorConfig holds draft editor limits
type EditorConfig struct {
	// MaxImages caps kept+queued attachments per draft. Zero means unbounded.
	MaxImages int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// EventsConfig holds record event publication settings
type EventsConfig struct {
	Channel string
}

// SessionConfig holds operator session settings
type SessionConfig struct {
	Key string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Env   string
	Level string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Store: StoreConfig{
			BaseURL:          strings.TrimRight(getEnv("STORE_BASE_URL", "http://localhost:5000"), "/"),
			Timeout:          getEnvAsDuration("STORE_TIMEOUT", 15*time.Second),
			LoginPath:        getEnv("STORE_LOGIN_PATH", "/api/auth/login"),
			PlaceholderImage: getEnv("STORE_PLACEHOLDER_IMAGE", "https://via.placeholder.com/600x600.png?text=No+Image"),
		},
		Editor: EditorConfig{
			MaxImages: getEnvAsInt("EDITOR_MAX_IMAGES", 0),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Events: EventsConfig{
			Channel: getEnv("EVENTS_CHANNEL", "catalog:records"),
		},
		Session: SessionConfig{
			Key: getEnv("SESSION_KEY", "catalogadmin:session"),
		},
		Log: LogConfig{
			Env:   getEnv("APP_ENV", "production"),
			Level: getEnv("LOG_LEVEL", "info"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "catalog-admin"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that have no usable fallback.
func (c *Config) Validate() error {
	if c.Store.BaseURL == "" {
		return fmt.Errorf("STORE_BASE_URL must not be empty")
	}
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive, got %s", c.Store.Timeout)
	}
	if c.Editor.MaxImages < 0 {
		return fmt.Errorf("EDITOR_MAX_IMAGES must not be negative, got %d", c.Editor.MaxImages)
	}
	return nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
