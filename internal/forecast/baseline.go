package forecast

import (
	"context"
	"fmt"
	"io"

	"github.com/yourusername/sales-forecast/internal/models"
)

// Persistence evaluates the naive forecast yhat = last observed value with
// the same rolling-origin protocol as WalkForward. It is the floor any
// fitted order has to beat.
func Persistence(ctx context.Context, train, test []float64, progress io.Writer) (models.EvaluationResult, error) {
	if len(train) == 0 || len(test) == 0 {
		return models.EvaluationResult{}, &models.InsufficientDataError{Have: len(train) + len(test), Need: 2}
	}

	history := make([]float64, len(train), len(train)+len(test))
	copy(history, train)
	predictions := make([]float64, 0, len(test))

	for _, obs := range test {
		if err := ctx.Err(); err != nil {
			return models.EvaluationResult{}, err
		}
		yhat := history[len(history)-1]
		predictions = append(predictions, yhat)
		history = append(history, obs)
		if progress != nil {
			fmt.Fprintf(progress, ">Predicted=%.3f, Expected=%.3f\n", yhat, obs)
		}
	}

	rmse, err := RMSE(test, predictions)
	if err != nil {
		return models.EvaluationResult{}, err
	}
	return models.EvaluationResult{
		Predictions: predictions,
		Expected:    append([]float64(nil), test...),
		RMSE:        rmse,
	}, nil
}
