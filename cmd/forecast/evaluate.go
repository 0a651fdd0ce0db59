package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/sales-forecast/internal/forecast"
	"github.com/yourusername/sales-forecast/internal/models"
	"github.com/yourusername/sales-forecast/internal/report"
)

func init() {
	addOrderFlags(evaluateCmd)
	evaluateCmd.Flags().Float64("bias", 0, "Constant added to every prediction (default from model.bias)")
	addOrderFlags(residualsCmd)
}

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Score the persistence forecast on the dataset",
	Long:  `Walks the second part of the dataset predicting each month as the previous one and reports its RMSE.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		train, test, err := trainTest()
		if err != nil {
			return err
		}

		result, err := forecast.Persistence(cmd.Context(), train, test, os.Stdout)
		if err != nil {
			return err
		}
		fmt.Printf("RMSE=%.3f\n", result.RMSE)

		log.WithField("rmse", result.RMSE).Info("Persistence baseline scored")
		return exportEvaluation(result, 0, nil)
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Walk-forward evaluate one ARIMA order on the dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		order, err := orderFromFlags(cmd)
		if err != nil {
			return err
		}
		bias, err := biasFromFlags(cmd)
		if err != nil {
			return err
		}
		var b float64
		if bias != nil {
			b = *bias
		}

		train, test, err := trainTest()
		if err != nil {
			return err
		}

		result, err := newWalkForward(b).Evaluate(cmd.Context(), train, test, order)
		if err != nil {
			return err
		}
		fmt.Printf("RMSE=%.3f\n", result.RMSE)

		log.WithFields(logrus.Fields{
			"order": order.String(),
			"bias":  b,
			"rmse":  result.RMSE,
		}).Info("Order evaluated")
		return exportEvaluation(result, b, nil)
	},
}

var residualsCmd = &cobra.Command{
	Use:   "residuals",
	Short: "Summarise walk-forward residuals of one ARIMA order",
	Long:  `Runs the walk-forward evaluation without bias and describes expected minus predicted. The mean is the bias a finalized model should add.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		order, err := orderFromFlags(cmd)
		if err != nil {
			return err
		}

		train, test, err := trainTest()
		if err != nil {
			return err
		}

		wf := newWalkForward(0)
		wf.Progress = nil
		result, err := wf.Evaluate(cmd.Context(), train, test, order)
		if err != nil {
			return err
		}

		summary, err := forecast.SummarizeResiduals(result.Residuals())
		if err != nil {
			return err
		}
		report.WriteResidualSummary(os.Stdout, summary)
		fmt.Printf("Suggested bias: %.6f\n", summary.Mean)

		return exportEvaluation(result, 0, &summary)
	},
}

// trainTest loads the dataset and splits it by search.train_fraction.
func trainTest() ([]float64, []float64, error) {
	series, err := loadDataset()
	if err != nil {
		return nil, nil, err
	}
	return forecast.SplitFraction(series.Values(), cfg.Search.TrainFraction)
}

func exportEvaluation(result models.EvaluationResult, bias float64, summary *forecast.ResidualSummary) error {
	if outputPath == "" {
		return nil
	}
	if err := report.ExportToJSON(report.NewValidationExport(result, nil, bias, summary), outputPath); err != nil {
		return err
	}
	log.WithField("path", outputPath).Info("Results exported")
	return nil
}
