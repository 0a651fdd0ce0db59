package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/sales-forecast/internal/arima"
	"github.com/yourusername/sales-forecast/internal/artifact"
	"github.com/yourusername/sales-forecast/internal/datasource"
	"github.com/yourusername/sales-forecast/internal/forecast"
	"github.com/yourusername/sales-forecast/internal/logger"
	"github.com/yourusername/sales-forecast/internal/models"
	"github.com/yourusername/sales-forecast/internal/repository"
)

func newFitter() *forecast.ARIMAFitter {
	settings := arima.DefaultSettings()
	settings.MaxIterations = cfg.Model.MaxIterations
	settings.MaxEvaluations = cfg.Model.MaxEvaluations
	settings.RelativeTol = cfg.Model.Tolerance
	return forecast.NewARIMAFitter(settings)
}

func newStore() *artifact.FileStore {
	return artifact.NewFileStore(cfg.Artifact.Dir, cfg.Artifact.ModelFile, cfg.Artifact.BiasFile)
}

func newWalkForward(bias float64) *forecast.WalkForward {
	return &forecast.WalkForward{
		Fitter:   newFitter(),
		Lag:      cfg.Model.Lag,
		Bias:     bias,
		Logger:   log,
		Progress: os.Stdout,
	}
}

// loadDataset reads the training file written by split.
func loadDataset() (models.Series, error) {
	series, err := datasource.ReadCSVFile(cfg.Data.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset (run split first): %w", err)
	}
	return series, nil
}

// loadValidation reads the held-out file written by split.
func loadValidation() (models.Series, error) {
	series, err := datasource.ReadCSVFile(cfg.Data.ValidationPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read validation set (run split first): %w", err)
	}
	return series, nil
}

// openRegistry returns nil repositories when the registry is disabled.
func openRegistry(ctx context.Context) (*repository.Repositories, error) {
	repos, err := repository.Open(ctx, &cfg.Registry)
	if err != nil {
		return nil, fmt.Errorf("failed to open model registry: %w", err)
	}
	return repos, nil
}

func modelLogger() *logger.ModelLogger {
	return logger.NewModelLogger(log)
}

// addOrderFlags registers --p, --d and --q on cmd.
func addOrderFlags(cmd *cobra.Command) {
	cmd.Flags().Int("p", 0, "Autoregressive order (default from model.order)")
	cmd.Flags().Int("d", 0, "Differencing order (default from model.order)")
	cmd.Flags().Int("q", 0, "Moving-average order (default from model.order)")
}

// orderFromFlags returns the configured order with any explicitly set flags applied.
func orderFromFlags(cmd *cobra.Command) (models.Order, error) {
	order := cfg.Model.Order
	for name, dst := range map[string]*int{"p": &order.P, "d": &order.D, "q": &order.Q} {
		if !cmd.Flags().Changed(name) {
			continue
		}
		v, err := cmd.Flags().GetInt(name)
		if err != nil {
			return order, err
		}
		*dst = v
	}
	return order, order.Validate()
}

// biasFromFlags returns --bias when set, otherwise model.bias from the configuration.
func biasFromFlags(cmd *cobra.Command) (*float64, error) {
	if cmd.Flags().Changed("bias") {
		v, err := cmd.Flags().GetFloat64("bias")
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
	return cfg.Model.Bias, nil
}
