package config

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// customRules are the tags the configuration structs use beyond the built-ins.
var customRules = map[string]validator.Func{
	"environment":    validateEnvironment,
	"loglevel":       validateLogLevel,
	"logformat":      validateLogFormat,
	"registrydriver": validateRegistryDriver,
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() (*CustomValidator, error) {
	v := validator.New()
	for tag, fn := range customRules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("failed to register %q validation: %w", tag, err)
		}
	}
	return &CustomValidator{validator: v}, nil
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv, err := NewValidator()
	if err != nil {
		return err
	}
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateLogFormat(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "json", "text":
		return true
	default:
		return false
	}
}

func validateRegistryDriver(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "none", "sqlite", "postgres":
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	grid := cfg.Search.Grid
	for _, r := range []struct {
		name     string
		min, max int
	}{
		{"p", grid.P.Min, grid.P.Max},
		{"d", grid.D.Min, grid.D.Max},
		{"q", grid.Q.Min, grid.Q.Max},
	} {
		if r.min > r.max {
			return fmt.Errorf("search grid %s: min %d exceeds max %d", r.name, r.min, r.max)
		}
	}

	if err := cfg.Model.Order.Validate(); err != nil {
		return fmt.Errorf("model order: %w", err)
	}

	switch cfg.Registry.Driver {
	case "sqlite":
		if cfg.Registry.SQLitePath == "" {
			return fmt.Errorf("registry sqlite_path is required for the sqlite driver")
		}
	case "postgres":
		db := cfg.Registry.Database
		if db.Host == "" || db.Port == 0 || db.Name == "" || db.User == "" {
			return fmt.Errorf("registry database host, port, name and user are required for the postgres driver")
		}
		if cfg.IsProduction() && db.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
	}

	if cfg.Metrics.Enabled && cfg.Metrics.TextfilePath == "" {
		return fmt.Errorf("metrics textfile_path is required when metrics are enabled")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "logformat":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: json, text\n", field)
		case "registrydriver":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: none, sqlite, postgres\n", field)
		case "oneof", "nefield":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() && cfg.Registry.Driver == "postgres" {
		if isTestCredential(cfg.Registry.Database.User) {
			return fmt.Errorf("production environment should not use test registry credentials")
		}
	}
	if cfg.IsProduction() && cfg.Registry.Driver == "none" {
		return fmt.Errorf("production environment requires a model registry")
	}
	return nil
}

// isTestCredential checks if a credential looks like a test credential
func isTestCredential(credential string) bool {
	testPatterns := []string{
		"test", "demo", "example", "placeholder", "YOUR_",
	}

	for _, pattern := range testPatterns {
		if match, _ := regexp.MatchString("(?i)"+pattern, credential); match {
			return true
		}
	}

	return false
}
