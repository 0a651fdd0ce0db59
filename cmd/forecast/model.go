package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/sales-forecast/internal/forecast"
	"github.com/yourusername/sales-forecast/internal/models"
	"github.com/yourusername/sales-forecast/internal/report"
)

const modelType = "arima"

func init() {
	addOrderFlags(finalizeCmd)
	finalizeCmd.Flags().Float64("bias", 0, "Bias to store instead of the mean in-sample residual (default from model.bias)")
	validateCmd.Flags().Bool("table", false, "Print a step-by-step table instead of progress lines")
}

var finalizeCmd = &cobra.Command{
	Use:   "finalize",
	Short: "Fit the chosen order on the whole dataset and save it",
	RunE: func(cmd *cobra.Command, args []string) error {
		order, err := orderFromFlags(cmd)
		if err != nil {
			return err
		}
		override, err := biasFromFlags(cmd)
		if err != nil {
			return err
		}

		series, err := loadDataset()
		if err != nil {
			return err
		}

		store := newStore()
		finalizer := &forecast.Finalizer{
			Fitter: newFitter(),
			Store:  store,
			Lag:    cfg.Model.Lag,
			Logger: log,
		}
		a, err := finalizer.Finalize(cmd.Context(), series.Values(), order, override)
		if err != nil {
			return err
		}

		fmt.Print(report.ConsoleSummary(a))
		modelLogger().LogArtifactWritten(a, store.ModelPath())
		registerModel(cmd.Context(), a, store.ModelPath())
		return nil
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Forecast the month after the dataset from the saved model",
	RunE: func(cmd *cobra.Command, args []string) error {
		series, err := loadDataset()
		if err != nil {
			return err
		}

		yhat, a, err := newReplayer().Predict(series.Values())
		if err != nil {
			return err
		}
		fmt.Printf("Predicted=%.3f\n", yhat)

		if outputPath != "" {
			out := struct {
				ArtifactID string       `json:"artifact_id"`
				Order      models.Order `json:"order"`
				Predicted  float64      `json:"predicted"`
			}{a.ID.String(), a.Order, yhat}
			return report.ExportToJSON(out, outputPath)
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Replay the saved model over the validation set",
	Long:  `Predicts the first held-out month from the saved fit, then refits at every later month on the data seen so far and reports the RMSE.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		training, err := loadDataset()
		if err != nil {
			return err
		}
		holdout, err := loadValidation()
		if err != nil {
			return err
		}

		table, _ := cmd.Flags().GetBool("table")
		replayer := newReplayer()
		if table {
			replayer.Progress = nil
		}
		result, a, err := replayer.Validate(cmd.Context(), training.Values(), holdout.Values())
		if err != nil {
			return err
		}
		if table {
			report.WriteValidationTable(os.Stdout, result)
		} else {
			fmt.Printf("RMSE=%.3f\n", result.RMSE)
		}

		modelLogger().LogValidation(a.ID.String(), a.Order, len(result.Predictions), result.RMSE)
		recordValidation(cmd.Context(), a, result.RMSE)

		if outputPath != "" {
			return report.ExportToJSON(report.NewValidationExport(result, a, a.Bias, nil), outputPath)
		}
		return nil
	},
}

func newReplayer() *forecast.Replayer {
	fitter := newFitter()
	return &forecast.Replayer{
		Fitter:   fitter,
		Restorer: fitter,
		Store:    newStore(),
		Logger:   log,
		Progress: os.Stdout,
	}
}

// registerModel records a finalized artifact and makes it the active version.
// Registry failures are logged; the artifact on disk stays authoritative.
func registerModel(ctx context.Context, a *models.Artifact, path string) {
	repos, err := openRegistry(ctx)
	if err != nil {
		modelLogger().LogRegistryError("open", err)
		return
	}
	if repos == nil {
		return
	}
	defer repos.Close()

	hp, err := json.Marshal(models.Hyperparameters{Order: a.Order, Lag: a.Lag, Bias: a.Bias})
	if err != nil {
		modelLogger().LogRegistryError("encode hyperparameters", err)
		return
	}
	record := &models.Model{
		ID:              a.ID,
		Name:            cfg.Registry.ModelName,
		Version:         fmt.Sprintf("%s-%s", a.CreatedAt.UTC().Format("20060102T150405Z"), a.ID.String()[:8]),
		ModelType:       modelType,
		Path:            path,
		Hyperparameters: hp,
		TrainedAt:       a.CreatedAt,
	}
	if err := record.SetMetric("training_size", a.TrainingSize); err != nil {
		modelLogger().LogRegistryError("encode metrics", err)
		return
	}
	if err := repos.Model.Create(ctx, record); err != nil {
		modelLogger().LogRegistryError("create model", err)
		return
	}
	if err := repos.Model.SetActive(ctx, record.ID); err != nil {
		modelLogger().LogRegistryError("activate model", err)
		return
	}
	log.WithField("version", record.Version).Info("Model registered")
}

// recordValidation stores the validation RMSE on the artifact's registry record.
func recordValidation(ctx context.Context, a *models.Artifact, rmse float64) {
	repos, err := openRegistry(ctx)
	if err != nil {
		modelLogger().LogRegistryError("open", err)
		return
	}
	if repos == nil {
		return
	}
	defer repos.Close()

	record, err := repos.Model.GetByID(ctx, a.ID)
	if errors.Is(err, models.ErrNotFound) {
		log.WithField("artifact_id", a.ID.String()).Warn("Artifact is not registered, validation RMSE not recorded")
		return
	}
	if err != nil {
		modelLogger().LogRegistryError("get model", err)
		return
	}
	if err := record.SetMetric("validation_rmse", rmse); err != nil {
		modelLogger().LogRegistryError("encode metrics", err)
		return
	}
	if err := repos.Model.Update(ctx, record); err != nil {
		modelLogger().LogRegistryError("update model", err)
	}
}
