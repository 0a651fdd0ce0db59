// Package config provides configuration management for the sales forecasting harness.
package config

import (
	"fmt"
	"time"

	"github.com/yourusername/sales-forecast/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Data     DataConfig     `mapstructure:"data" validate:"required"`
	Model    ModelConfig    `mapstructure:"model" validate:"required"`
	Search   SearchConfig   `mapstructure:"search" validate:"required"`
	Artifact ArtifactConfig `mapstructure:"artifact" validate:"required"`
	Registry RegistryConfig `mapstructure:"registry" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
	LogFormat   string `mapstructure:"log_format" validate:"required,logformat"`
}

// DataConfig describes where the series comes from and where split files go
type DataConfig struct {
	SourceURL      string  `mapstructure:"source_url" validate:"omitempty,url"`
	AuthToken      string  `mapstructure:"auth_token"`
	RawPath        string  `mapstructure:"raw_path" validate:"required"`
	DatasetPath    string  `mapstructure:"dataset_path" validate:"required"`
	ValidationPath string  `mapstructure:"validation_path" validate:"required"`
	StationaryPath string  `mapstructure:"stationary_path" validate:"required"`
	Horizon        int     `mapstructure:"horizon" validate:"required,gt=0"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
}

// ModelConfig represents the order to finalize and the fitter settings
type ModelConfig struct {
	Lag            int          `mapstructure:"lag" validate:"required,gt=0"`
	Order          models.Order `mapstructure:"order"`
	Bias           *float64     `mapstructure:"bias"`
	MaxIterations  int          `mapstructure:"max_iterations" validate:"required,gt=0"`
	MaxEvaluations int          `mapstructure:"max_evaluations" validate:"required,gt=0"`
	Tolerance      float64      `mapstructure:"tolerance" validate:"required,gt=0"`
}

// SearchConfig represents grid search configuration
type SearchConfig struct {
	Grid                    models.Grid `mapstructure:"grid"`
	TrainFraction           float64     `mapstructure:"train_fraction" validate:"required,gt=0,lt=1"`
	Workers                 int         `mapstructure:"workers" validate:"required,gt=0"`
	CandidateTimeoutSeconds int         `mapstructure:"candidate_timeout_seconds" validate:"gte=0"`
}

// ArtifactConfig represents where the finalized model is stored
type ArtifactConfig struct {
	Dir       string `mapstructure:"dir" validate:"required"`
	ModelFile string `mapstructure:"model_file" validate:"required"`
	BiasFile  string `mapstructure:"bias_file" validate:"required,nefield=ModelFile"`
}

// RegistryConfig represents the model registry backend
type RegistryConfig struct {
	Driver     string         `mapstructure:"driver" validate:"required,registrydriver"`
	ModelName  string         `mapstructure:"model_name" validate:"required"`
	SQLitePath string         `mapstructure:"sqlite_path"`
	Database   DatabaseConfig `mapstructure:"database"`
}

// DatabaseConfig represents PostgreSQL connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// MetricsConfig represents metrics export configuration
type MetricsConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	TextfilePath string `mapstructure:"textfile_path"`
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
	db := c.Registry.Database
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
		db.SSLMode,
	)
}

// CandidateTimeout returns the per-candidate search timeout, zero when disabled
func (c *Config) CandidateTimeout() time.Duration {
	return time.Duration(c.Search.CandidateTimeoutSeconds) * time.Second
}

// DownloadTimeout returns the HTTP timeout for dataset downloads
func (c *Config) DownloadTimeout() time.Duration {
	return time.Duration(c.Data.TimeoutSeconds) * time.Second
}
