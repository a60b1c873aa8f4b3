package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/ulule/limiter/v3"

	"github.com/ekaya-inc/ekaya-mes/pkg/kpi"
)

// DefaultPath is the config file read by Load.
const DefaultPath = "config.yaml"

// Config holds all configuration for ekaya-mes.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// RateLimit is a ulule/limiter formatted rate ("100-M", "10-S"). An empty
	// RATE_LIMIT disables limiting.
	RateLimit string `yaml:"rate_limit" env:"RATE_LIMIT" env-default:"300-M"`

	// MigrationsPath is the directory holding the SQL migrations.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`

	Database  DatabaseConfig  `yaml:"database"`
	Alerts    AlertsConfig    `yaml:"alerts"`
	Analytics AnalyticsConfig `yaml:"analytics"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"ekaya"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"ekaya_mes"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// AlertsConfig controls the alert synthesis schedule.
type AlertsConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval" env:"ALERTS_REFRESH_INTERVAL" env-default:"60s"`
}

// AnalyticsConfig controls how analytics windows are resolved.
type AnalyticsConfig struct {
	DefaultRange string `yaml:"default_range" env:"ANALYTICS_DEFAULT_RANGE" env-default:"30d"`
	Timezone     string `yaml:"timezone" env:"ANALYTICS_TIMEZONE" env-default:"UTC"`

	// Location is Timezone resolved at load time.
	Location *time.Location `yaml:"-"`
}

// Load reads configuration from DefaultPath with environment variable overrides.
func Load(version string) (*Config, error) {
	return LoadFile(DefaultPath, version)
}

// LoadFile reads configuration from path with environment variable overrides.
// A missing file is not an error; the environment and defaults are used alone.
func LoadFile(path, version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	r, err := kpi.ParseRange(c.Analytics.DefaultRange)
	if err != nil {
		return fmt.Errorf("analytics.default_range: %w", err)
	}
	if r == kpi.RangeCustom {
		return fmt.Errorf("analytics.default_range: custom needs explicit dates and cannot be the default")
	}

	loc, err := time.LoadLocation(c.Analytics.Timezone)
	if err != nil {
		return fmt.Errorf("analytics.timezone: %w", err)
	}
	c.Analytics.Location = loc

	if c.Alerts.RefreshInterval <= 0 {
		return fmt.Errorf("alerts.refresh_interval must be positive, got %s", c.Alerts.RefreshInterval)
	}

	if c.RateLimit != "" {
		if _, err := limiter.NewRateFromFormatted(c.RateLimit); err != nil {
			return fmt.Errorf("rate_limit: %w", err)
		}
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// ListenAddr is the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return c.BindAddr + ":" + c.Port
}
