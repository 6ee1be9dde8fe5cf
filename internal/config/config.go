package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Auth      AuthConfig      `mapstructure:",squash"`
	Cache     CacheConfig     `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
	Tracing   TracingConfig   `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
	CORSOrigin   string        `mapstructure:"CORS_ALLOWED_ORIGIN"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"DATABASE_URL"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
	AutoMigrate     bool          `mapstructure:"DATABASE_AUTO_MIGRATE"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"REDIS_ADDR"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type AuthConfig struct {
	DefaultPassword string        `mapstructure:"AUTH_DEFAULT_PASSWORD"`
	OwnerID         string        `mapstructure:"AUTH_OWNER_ID"`
	OwnerName       string        `mapstructure:"AUTH_OWNER_NAME"`
	SessionTTL      time.Duration `mapstructure:"AUTH_SESSION_TTL"`
	CookieSecure    bool          `mapstructure:"AUTH_COOKIE_SECURE"`
}

type CacheConfig struct {
	DashboardTTL time.Duration `mapstructure:"DASHBOARD_CACHE_TTL"`
}

type SchedulerConfig struct {
	OverdueSpec   string `mapstructure:"SCHEDULER_OVERDUE_SPEC"`
	DashboardSpec string `mapstructure:"SCHEDULER_DASHBOARD_SPEC"`
	Timezone      string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type TracingConfig struct {
	Endpoint    string `mapstructure:"OTEL_ENDPOINT"`
	ServiceName string `mapstructure:"OTEL_SERVICE_NAME"`
}

var defaults = map[string]any{
	"SERVER_PORT":                "8080",
	"SERVER_HOST":                "0.0.0.0",
	"ENV":                        "development",
	"SERVER_READ_TIMEOUT":        "15s",
	"SERVER_WRITE_TIMEOUT":       "30s",
	"CORS_ALLOWED_ORIGIN":        "*",
	"DATABASE_URL":               "",
	"DATABASE_MAX_OPEN_CONNS":    10,
	"DATABASE_MAX_IDLE_CONNS":    5,
	"DATABASE_CONN_MAX_LIFETIME": "30m",
	"DATABASE_AUTO_MIGRATE":      false,
	"REDIS_ADDR":                 "localhost:6379",
	"REDIS_PASSWORD":             "",
	"REDIS_DB":                   0,
	"AUTH_DEFAULT_PASSWORD":      "151612",
	"AUTH_OWNER_ID":              "00000000-0000-0000-0000-000000000001",
	"AUTH_OWNER_NAME":            "Sistema",
	"AUTH_SESSION_TTL":           "720h",
	"AUTH_COOKIE_SECURE":         false,
	"DASHBOARD_CACHE_TTL":        "1m",
	"SCHEDULER_OVERDUE_SPEC":     "0 0 6 * * *",
	"SCHEDULER_DASHBOARD_SPEC":   "0 */15 * * * *",
	"SCHEDULER_TIMEZONE":         "UTC",
	"LOG_LEVEL":                  "info",
	"LOG_FORMAT":                 "json",
	"OTEL_ENDPOINT":              "",
	"OTEL_SERVICE_NAME":          "loan-ledger",
}

// Load reads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Don't fail if .env file doesn't exist
	for _, path := range []string{".env", "./deployments/.env"} {
		_ = godotenv.Load(path)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if _, err := uuid.Parse(c.Auth.OwnerID); err != nil {
		return fmt.Errorf("AUTH_OWNER_ID must be a valid UUID: %w", err)
	}

	if len(c.Auth.DefaultPassword) < 4 {
		return fmt.Errorf("AUTH_DEFAULT_PASSWORD must have at least 4 characters")
	}

	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("AUTH_SESSION_TTL must be greater than 0")
	}

	if c.Cache.DashboardTTL < 0 {
		return fmt.Errorf("DASHBOARD_CACHE_TTL must not be negative")
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.Scheduler.OverdueSpec); err != nil {
		return fmt.Errorf("SCHEDULER_OVERDUE_SPEC must be a valid cron spec: %w", err)
	}
	if _, err := parser.Parse(c.Scheduler.DashboardSpec); err != nil {
		return fmt.Errorf("SCHEDULER_DASHBOARD_SPEC must be a valid cron spec: %w", err)
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid time zone: %w", err)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text")
	}

	return nil
}

// DSN returns the Postgres connection string
func (c DatabaseConfig) DSN() string {
	return c.URL
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// OwnerID returns the identity granted by the shared password
func (c *Config) OwnerID() uuid.UUID {
	id, _ := uuid.Parse(c.Auth.OwnerID)
	return id
}

// Location returns the scheduler time zone
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// NewLogger builds the slog logger described by the logging section and
// installs it as the default.
func (c *Config) NewLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(c.Logging.Format) == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
