package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variable overrides, e.g.
// SALES_FORECAST_MODEL_LAG.
const EnvPrefix = "SALES_FORECAST"

const defaultConfigPath = "config/config.yaml"

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sales-forecast")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "text")

	v.SetDefault("data.source_url", "https://raw.githubusercontent.com/jbrownlee/Datasets/master/monthly_champagne_sales.csv")
	v.SetDefault("data.raw_path", "data/champagne.csv")
	v.SetDefault("data.dataset_path", "data/dataset.csv")
	v.SetDefault("data.validation_path", "data/validation.csv")
	v.SetDefault("data.stationary_path", "data/stationary.csv")
	v.SetDefault("data.horizon", 12)
	v.SetDefault("data.timeout_seconds", 30)
	v.SetDefault("data.max_retries", 3)
	v.SetDefault("data.rate_limit", 1.0)

	v.SetDefault("model.lag", 12)
	v.SetDefault("model.order.p", 4)
	v.SetDefault("model.order.d", 0)
	v.SetDefault("model.order.q", 1)
	v.SetDefault("model.max_iterations", 2000)
	v.SetDefault("model.max_evaluations", 20000)
	v.SetDefault("model.tolerance", 1e-10)

	v.SetDefault("search.grid.p.min", 0)
	v.SetDefault("search.grid.p.max", 6)
	v.SetDefault("search.grid.d.min", 0)
	v.SetDefault("search.grid.d.max", 2)
	v.SetDefault("search.grid.q.min", 0)
	v.SetDefault("search.grid.q.max", 6)
	v.SetDefault("search.train_fraction", 0.5)
	v.SetDefault("search.workers", 1)
	v.SetDefault("search.candidate_timeout_seconds", 60)

	v.SetDefault("artifact.dir", "artifacts")
	v.SetDefault("artifact.model_file", "model.json")
	v.SetDefault("artifact.bias_file", "model_bias.json")

	v.SetDefault("registry.driver", "none")
	v.SetDefault("registry.model_name", "champagne-sales")
	v.SetDefault("registry.sqlite_path", "data/registry.db")
	v.SetDefault("registry.database.host", "localhost")
	v.SetDefault("registry.database.port", 5432)
	v.SetDefault("registry.database.name", "forecast")
	v.SetDefault("registry.database.user", "forecast")
	v.SetDefault("registry.database.password", "")
	v.SetDefault("registry.database.ssl_mode", "disable")
	v.SetDefault("registry.database.max_connections", 5)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.textfile_path", "metrics/forecast.prom")
}
