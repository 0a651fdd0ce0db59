package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/sales-forecast/internal/datasource"
	"github.com/yourusername/sales-forecast/internal/forecast"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the raw sales series",
	Long:  `Fetches data.source_url and stores it at data.raw_path after checking that it parses as a monthly series.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Data.SourceURL == "" {
			return fmt.Errorf("data.source_url is not set")
		}

		client := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
			Timeout:           cfg.DownloadTimeout(),
			MaxRetries:        cfg.Data.MaxRetries,
			RetryWaitMin:      500 * time.Millisecond,
			RetryWaitMax:      10 * time.Second,
			RateLimit:         cfg.Data.RateLimit,
			CircuitBreakerMax: 5,
		}, log)
		defer client.Close()

		source, err := datasource.NewSource(cfg.Data.SourceURL, cfg.Data.AuthToken, client, log)
		if err != nil {
			return err
		}

		var n int
		switch s := source.(type) {
		case *datasource.HTTPSource:
			series, err := s.Download(cmd.Context(), cfg.Data.RawPath)
			if err != nil {
				return err
			}
			n = len(series)
		default:
			series, err := source.Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := datasource.WriteCSVFile(cfg.Data.RawPath, series); err != nil {
				return err
			}
			n = len(series)
		}

		log.WithFields(logrus.Fields{
			"source":       source.Name(),
			"path":         cfg.Data.RawPath,
			"observations": n,
		}).Info("Series downloaded")
		return nil
	},
}

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split the raw series into dataset and validation files",
	Long:  `Holds out the last data.horizon observations of the raw series as the validation set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		series, err := datasource.ReadCSVFile(cfg.Data.RawPath)
		if err != nil {
			return err
		}

		training, holdout, err := forecast.Split(series, cfg.Data.Horizon)
		if err != nil {
			return err
		}

		fmt.Printf("Dataset %d, Validation %d\n", len(training), len(holdout))

		if err := datasource.WriteCSVFile(cfg.Data.DatasetPath, training); err != nil {
			return err
		}
		if err := datasource.WriteCSVFile(cfg.Data.ValidationPath, holdout); err != nil {
			return err
		}

		log.WithFields(logrus.Fields{
			"dataset":    cfg.Data.DatasetPath,
			"validation": cfg.Data.ValidationPath,
		}).Info("Series split")
		return nil
	},
}

var differenceCmd = &cobra.Command{
	Use:   "difference",
	Short: "Write the seasonally differenced dataset",
	Long:  `Differences the dataset at model.lag and writes the stationary series to data.stationary_path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		series, err := loadDataset()
		if err != nil {
			return err
		}

		stationary, err := forecast.SeasonalDifference(series, cfg.Model.Lag)
		if err != nil {
			return err
		}
		if err := datasource.WriteCSVFile(cfg.Data.StationaryPath, stationary); err != nil {
			return err
		}

		log.WithFields(logrus.Fields{
			"path":         cfg.Data.StationaryPath,
			"lag":          cfg.Model.Lag,
			"observations": len(stationary),
		}).Info("Stationary series written")
		return nil
	},
}
