// Package main provides the sales forecasting CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/sales-forecast/internal/config"
	"github.com/yourusername/sales-forecast/internal/logger"
	"github.com/yourusername/sales-forecast/internal/metrics"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	envFile    string
	outputPath string
	log        *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to .env file loaded before the configuration")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Write a JSON export of the run to this path")

	rootCmd.AddCommand(
		fetchCmd,
		splitCmd,
		differenceCmd,
		baselineCmd,
		evaluateCmd,
		residualsCmd,
		searchCmd,
		finalizeCmd,
		predictCmd,
		validateCmd,
		statusCmd,
		versionCmd,
	)
}

var rootCmd = &cobra.Command{
	Use:           "forecast",
	Short:         "Seasonal ARIMA forecasting harness for monthly sales",
	Long:          `Downloads a monthly sales series, searches ARIMA orders by walk-forward RMSE, finalizes a bias-corrected model and validates it on held-out months.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == versionCmd {
			return nil
		}
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		metrics.InitRegistry()
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil || !cfg.Metrics.Enabled {
			return nil
		}
		if err := metrics.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		log.WithField("path", cfg.Metrics.TextfilePath).Debug("Metrics written")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("forecast %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if log == nil {
			log = logger.New("info", "text")
		}
		stop()
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig(ctx context.Context) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	loaded, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if enabled, region, secretName := config.SecretsFromEnv(); enabled {
		if err := config.LoadSecretsFromAWS(ctx, loaded, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(loaded); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cfg = loaded
	log = logger.New(cfg.App.LogLevel, cfg.App.LogFormat)
	log.WithFields(logrus.Fields{
		"config":      configFile,
		"environment": cfg.App.Environment,
		"registry":    cfg.Registry.Driver,
	}).Debug("Configuration loaded")

	return config.ValidateEnvironment(cfg)
}
