package config

import (
	"os"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

const (
	validConfigPath              = "testdata/valid_config.yaml"
	nonexistentConfigPath        = "testdata/nonexistent_config.yaml"
	expectedNoErrorLoadingConfig = "expected no error loading config, got %v"
	expectedNoErrorMsg           = "expected no error, got %v"
	expectedNonNilConfig         = "expected non-nil config"
	salesForecastName            = "sales-forecast"
	developmentEnv               = "development"
	testAppName                  = "test-app"
	testDBPassword               = "TEST_DB_PASSWORD"
	expandedSecretValue          = "expanded_secret_value"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg == nil {
		t.Fatal(expectedNonNilConfig)
	}

	if cfg.App.Name != salesForecastName {
		t.Errorf("expected app name '%s', got '%s'", salesForecastName, cfg.App.Name)
	}
	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}
	if cfg.Model.Lag != 12 {
		t.Errorf("expected lag 12, got %d", cfg.Model.Lag)
	}
	if cfg.Model.Order.P != 4 || cfg.Model.Order.D != 0 || cfg.Model.Order.Q != 1 {
		t.Errorf("expected order (4, 0, 1), got %s", cfg.Model.Order)
	}
	if cfg.Search.Grid.Size() != 147 {
		t.Errorf("expected 147 candidates, got %d", cfg.Search.Grid.Size())
	}
	if cfg.Model.Bias != nil {
		t.Errorf("expected no bias override, got %v", *cfg.Model.Bias)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	if _, err := Load(nonexistentConfigPath); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("SALES_FORECAST_APP_NAME", testAppName)
	t.Setenv("SALES_FORECAST_SEARCH_WORKERS", "8")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
	if cfg.Search.Workers != 8 {
		t.Errorf("expected 8 workers from environment, got %d", cfg.Search.Workers)
	}
}

// TestLoadConfigExpansion tests ${VAR} expansion in the YAML file
func TestLoadConfigExpansion(t *testing.T) {
	t.Setenv(testDBPassword, expandedSecretValue)

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.Registry.Database.Password != expandedSecretValue {
		t.Errorf("expected expanded password, got '%s'", cfg.Registry.Database.Password)
	}
	if !strings.Contains(cfg.GetDatabaseDSN(), expandedSecretValue) {
		t.Errorf("expected DSN to contain the password, got '%s'", cfg.GetDatabaseDSN())
	}
}

// TestLoadWithDefaults tests defaults when no file exists
func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.Model.Lag != 12 || cfg.Data.Horizon != 12 {
		t.Errorf("expected lag and horizon 12, got %d and %d", cfg.Model.Lag, cfg.Data.Horizon)
	}
	if cfg.Search.TrainFraction != 0.5 {
		t.Errorf("expected train fraction 0.5, got %v", cfg.Search.TrainFraction)
	}
	if cfg.Search.Grid.Size() != 147 {
		t.Errorf("expected 147 candidates, got %d", cfg.Search.Grid.Size())
	}
	if cfg.Artifact.ModelFile != "model.json" || cfg.Artifact.BiasFile != "model_bias.json" {
		t.Errorf("unexpected artifact files %s, %s", cfg.Artifact.ModelFile, cfg.Artifact.BiasFile)
	}
	if cfg.Registry.Driver != "none" {
		t.Errorf("expected registry driver none, got %s", cfg.Registry.Driver)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateFailures tests field and cross-field validation failures
func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"invalid environment", func(c *Config) { c.App.Environment = "invalid" }, "Environment"},
		{"invalid log level", func(c *Config) { c.App.LogLevel = "trace" }, "LogLevel"},
		{"invalid log format", func(c *Config) { c.App.LogFormat = "xml" }, "LogFormat"},
		{"invalid registry driver", func(c *Config) { c.Registry.Driver = "mysql" }, "Driver"},
		{"zero lag", func(c *Config) { c.Model.Lag = 0 }, "Lag"},
		{"train fraction of one", func(c *Config) { c.Search.TrainFraction = 1 }, "TrainFraction"},
		{"same artifact files", func(c *Config) { c.Artifact.BiasFile = c.Artifact.ModelFile }, "BiasFile"},
		{"inverted grid", func(c *Config) { c.Search.Grid.P.Min = 7 }, "search grid p"},
		{"postgres without host", func(c *Config) { c.Registry.Database.Host = "" }, "postgres"},
		{"sqlite without path", func(c *Config) {
			c.Registry.Driver = "sqlite"
			c.Registry.SQLitePath = ""
		}, "sqlite_path"},
		{"metrics without path", func(c *Config) { c.Metrics.TextfilePath = "" }, "textfile_path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(validConfigPath)
			if err != nil {
				t.Fatalf(expectedNoErrorLoadingConfig, err)
			}
			tt.mutate(cfg)

			err = Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error to mention '%s', got %v", tt.want, err)
			}
		})
	}
}

// TestNewValidatorRegistersCustomRules tests that every custom tag is usable
func TestNewValidatorRegistersCustomRules(t *testing.T) {
	cv, err := NewValidator()
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	type tagged struct {
		Environment string `validate:"environment"`
		LogLevel    string `validate:"loglevel"`
		LogFormat   string `validate:"logformat"`
		Driver      string `validate:"registrydriver"`
	}
	if err := cv.validator.Struct(tagged{developmentEnv, "info", "json", "sqlite"}); err != nil {
		t.Errorf(expectedNoErrorMsg, err)
	}
	if err := cv.validator.Struct(tagged{"staging-eu", "info", "json", "sqlite"}); err == nil {
		t.Error("expected unknown environment to fail")
	}
	if len(customRules) != 4 {
		t.Errorf("expected 4 custom rules, got %d", len(customRules))
	}
}

// TestValidateEnvironment tests production requirements
func TestValidateEnvironment(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}
	cfg.App.Environment = "production"
	if err := ValidateEnvironment(cfg); err == nil {
		t.Error("expected production without registry to fail")
	}

	cfg.Registry.Driver = "postgres"
	cfg.Registry.Database.User = "test_user"
	if err := ValidateEnvironment(cfg); err == nil {
		t.Error("expected test credentials to be rejected in production")
	}

	cfg.Registry.Database.User = "forecaster"
	if err := ValidateEnvironment(cfg); err != nil {
		t.Errorf(expectedNoErrorMsg, err)
	}
}

// TestSecretsOverlay tests applying secrets parsed from a Secrets Manager response
func TestSecretsOverlay(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	secrets, err := parseSecretData(&secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"database_password":"from-aws","data_auth_token":"token"}`),
	})
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	overlaySecretsOnConfig(cfg, secrets)

	if cfg.Registry.Database.Password != "from-aws" {
		t.Errorf("expected overlaid password, got '%s'", cfg.Registry.Database.Password)
	}
	if cfg.Data.AuthToken != "token" {
		t.Errorf("expected overlaid token, got '%s'", cfg.Data.AuthToken)
	}

	if _, err := parseSecretData(&secretsmanager.GetSecretValueOutput{}); err == nil {
		t.Error("expected error for empty secret")
	}
}

// TestLoadDotEnv tests loading variables from a .env file
func TestLoadDotEnv(t *testing.T) {
	path := t.TempDir() + "/.env"
	if err := os.WriteFile(path, []byte("SALES_FORECAST_DOTENV_PROBE=loaded\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("SALES_FORECAST_DOTENV_PROBE") })

	if err := LoadDotEnv(path, t.TempDir()+"/missing.env"); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if got := os.Getenv("SALES_FORECAST_DOTENV_PROBE"); got != "loaded" {
		t.Errorf("expected variable from .env, got '%s'", got)
	}
}

// TestSecretsFromEnv tests the secrets overlay switch
func TestSecretsFromEnv(t *testing.T) {
	t.Setenv("AWS_SECRETS_ENABLED", "false")
	if enabled, _, _ := SecretsFromEnv(); enabled {
		t.Error("expected overlay to be disabled")
	}

	t.Setenv("AWS_SECRETS_ENABLED", "true")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("AWS_SECRET_NAME", "")
	enabled, region, name := SecretsFromEnv()
	if !enabled || region != "eu-west-1" || name != "sales-forecast/config" {
		t.Errorf("unexpected overlay settings: %v %s %s", enabled, region, name)
	}
}
