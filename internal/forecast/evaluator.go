package forecast

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/sales-forecast/internal/metrics"
	"github.com/yourusername/sales-forecast/internal/models"
	"github.com/yourusername/sales-forecast/internal/transform"
	"gonum.org/v1/gonum/floats"
)

// WalkForward runs rolling-origin evaluation: at every step the model is
// refitted on the seasonally differenced history, the forecast is mapped
// back to the original scale, and the true observation is appended.
type WalkForward struct {
	Fitter Fitter
	Lag    int
	// Bias is added to every prediction.
	Bias     float64
	Logger   logrus.FieldLogger
	Progress io.Writer
}

// Evaluate walks test one step at a time starting from train.
// Neither input is modified.
func (w *WalkForward) Evaluate(ctx context.Context, train, test []float64, order models.Order) (models.EvaluationResult, error) {
	if w.Fitter == nil {
		return models.EvaluationResult{}, fmt.Errorf("fitter is required")
	}
	if len(test) == 0 {
		return models.EvaluationResult{}, &models.InsufficientDataError{Have: 0, Need: 1}
	}

	history := make([]float64, len(train), len(train)+len(test))
	copy(history, train)

	predictions, err := w.walk(ctx, history, test, order, 0)
	if err != nil {
		return models.EvaluationResult{}, err
	}
	rmse, err := RMSE(test, predictions)
	if err != nil {
		return models.EvaluationResult{}, err
	}

	fieldLogger(w.Logger).WithFields(logrus.Fields{
		"order": order.String(),
		"steps": len(test),
		"rmse":  rmse,
	}).Debug("Walk-forward evaluation complete")

	return models.EvaluationResult{
		Order:       order,
		Predictions: predictions,
		Expected:    append([]float64(nil), test...),
		RMSE:        rmse,
	}, nil
}

// walk predicts every element of test in turn. history is owned by the
// caller's private copy and grows by one true observation per step; step
// indexes reported in errors start at firstStep.
func (w *WalkForward) walk(ctx context.Context, history, test []float64, order models.Order, firstStep int) ([]float64, error) {
	logger := fieldLogger(w.Logger)
	predictions := make([]float64, 0, len(test))

	for i, obs := range test {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		step := firstStep + i

		diff, err := transform.Difference(history, w.Lag)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		model, err := w.Fitter.Fit(ctx, diff, order)
		metrics.RecordFit(time.Since(start).Seconds(), err)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, &models.ModelFitError{Order: order, Step: step, Err: err}
		}
		delta, err := model.Forecast()
		if err != nil {
			return nil, &models.ModelFitError{Order: order, Step: step, Err: err}
		}

		yhat, err := transform.InverseDifference(history, delta, w.Lag)
		if err != nil {
			return nil, err
		}
		yhat += w.Bias

		predictions = append(predictions, yhat)
		history = append(history, obs)
		metrics.RecordWalkForwardStep()

		logger.WithFields(logrus.Fields{
			"order":     order.String(),
			"step":      step,
			"predicted": yhat,
			"expected":  obs,
		}).Debug("Walk-forward step")
		if w.Progress != nil {
			fmt.Fprintf(w.Progress, ">Predicted=%.3f, Expected=%.3f\n", yhat, obs)
		}
	}
	return predictions, nil
}

// RMSE returns the root-mean-squared error between expected and predicted.
func RMSE(expected, predicted []float64) (float64, error) {
	if len(expected) != len(predicted) {
		return 0, fmt.Errorf("length mismatch: %d expected, %d predicted", len(expected), len(predicted))
	}
	if len(expected) == 0 {
		return 0, &models.InsufficientDataError{Have: 0, Need: 1}
	}
	return floats.Distance(expected, predicted, 2) / math.Sqrt(float64(len(expected))), nil
}
