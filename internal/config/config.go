// Package config provides configuration management for the DealFlow service.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App           AppConfig           `mapstructure:"app" validate:"required"`
	Database      DatabaseConfig      `mapstructure:"database" validate:"required"`
	Server        ServerConfig        `mapstructure:"server" validate:"required"`
	Storage       StorageConfig       `mapstructure:"storage" validate:"required"`
	Listing       ListingConfig       `mapstructure:"listing" validate:"required"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Metrics       MetricsConfig       `mapstructure:"metrics" validate:"required"`
	Scheduler     SchedulerConfig     `mapstructure:"scheduler"`
	Features      FeaturesConfig      `mapstructure:"features"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ServerConfig represents the HTTP API server configuration
type ServerConfig struct {
	Host                string   `mapstructure:"host"`
	Port                int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	AllowedOrigins      []string `mapstructure:"allowed_origins" validate:"required,min=1"`
	ReadTimeoutSeconds  int      `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds int      `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
}

// StorageConfig represents pitch deck blob storage configuration
type StorageConfig struct {
	Bucket         string `mapstructure:"bucket" validate:"required"`
	Region         string `mapstructure:"region" validate:"required"`
	KeyPrefix      string `mapstructure:"key_prefix" validate:"required"`
	PublicBaseURL  string `mapstructure:"public_base_url" validate:"required,url"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes" validate:"required,gt=0"`
}

// ListingConfig represents deal list paging and cache configuration
type ListingConfig struct {
	PageSize        int `mapstructure:"page_size" validate:"required,gt=0,lte=100"`
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// NotificationsConfig represents outbound notification configuration
type NotificationsConfig struct {
	WebhookURL         string  `mapstructure:"webhook_url" validate:"omitempty,url"`
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" validate:"omitempty,gt=0"`
	MaxRetries         int     `mapstructure:"max_retries" validate:"gte=0"`
	TimeoutSeconds     int     `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig represents background job scheduling
type SchedulerConfig struct {
	HealthRefreshCron string `mapstructure:"health_refresh_cron"`
}

// FeaturesConfig represents feature flags
type FeaturesConfig struct {
	UploadsEnabled   bool `mapstructure:"uploads_enabled"`
	WebhookEnabled   bool `mapstructure:"webhook_enabled"`
	SchedulerEnabled bool `mapstructure:"scheduler_enabled"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetServerAddr returns the listen address for the API server
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
