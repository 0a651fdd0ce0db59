package forecast

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/sales-forecast/internal/metrics"
	"github.com/yourusername/sales-forecast/internal/models"
	"github.com/yourusername/sales-forecast/internal/transform"
)

// Replayer reloads a persisted artifact and validates it on held-out data.
type Replayer struct {
	Fitter   Fitter
	Restorer Restorer
	Store    ArtifactStore
	Logger   logrus.FieldLogger
	Progress io.Writer
}

// Validate predicts holdout[0] from the saved fit, then walks the rest of
// holdout refitting at every step on training plus the holdout seen so far.
// The artifact's bias is added to every prediction.
func (r *Replayer) Validate(ctx context.Context, training, holdout []float64) (models.EvaluationResult, *models.Artifact, error) {
	if len(holdout) == 0 {
		return models.EvaluationResult{}, nil, &models.InsufficientDataError{Have: 0, Need: 1}
	}
	if r.Fitter == nil {
		return models.EvaluationResult{}, nil, fmt.Errorf("fitter is required")
	}

	artifact, first, err := r.predictFromArtifact(training)
	if err != nil {
		return models.EvaluationResult{}, nil, err
	}
	if r.Progress != nil {
		fmt.Fprintf(r.Progress, ">Predicted=%.3f, Expected=%.3f\n", first, holdout[0])
	}
	metrics.RecordWalkForwardStep()

	history := make([]float64, 0, len(training)+len(holdout))
	history = append(history, training...)
	history = append(history, holdout[0])

	wf := &WalkForward{
		Fitter:   r.Fitter,
		Lag:      artifact.Lag,
		Bias:     artifact.Bias,
		Logger:   r.Logger,
		Progress: r.Progress,
	}
	rest, err := wf.walk(ctx, history, holdout[1:], artifact.Order, 1)
	if err != nil {
		return models.EvaluationResult{}, artifact, err
	}

	predictions := append([]float64{first}, rest...)
	rmse, err := RMSE(holdout, predictions)
	if err != nil {
		return models.EvaluationResult{}, artifact, err
	}
	metrics.UpdateValidationRMSE(rmse)

	fieldLogger(r.Logger).WithFields(logrus.Fields{
		"artifact_id": artifact.ID.String(),
		"order":       artifact.Order.String(),
		"rmse":        rmse,
	}).Info("Validation complete")

	return models.EvaluationResult{
		Order:       artifact.Order,
		Predictions: predictions,
		Expected:    append([]float64(nil), holdout...),
		RMSE:        rmse,
	}, artifact, nil
}

// Predict forecasts the period after training from the saved fit alone.
func (r *Replayer) Predict(training []float64) (float64, *models.Artifact, error) {
	artifact, yhat, err := r.predictFromArtifact(training)
	if err != nil {
		return 0, nil, err
	}
	fieldLogger(r.Logger).WithFields(logrus.Fields{
		"artifact_id": artifact.ID.String(),
		"predicted":   yhat,
	}).Info("Prediction complete")
	return yhat, artifact, nil
}

func (r *Replayer) predictFromArtifact(training []float64) (*models.Artifact, float64, error) {
	if r.Store == nil || r.Restorer == nil {
		return nil, 0, fmt.Errorf("store and restorer are required")
	}
	artifact, err := r.Store.Load()
	if err != nil {
		return nil, 0, err
	}
	if artifact.TrainingSize != len(training) {
		return nil, 0, fmt.Errorf("%w: artifact was fitted on %d observations, training series has %d",
			models.ErrInvalidSeries, artifact.TrainingSize, len(training))
	}

	model, err := r.Restorer.Restore(artifact.State)
	if err != nil {
		return nil, 0, &models.PersistenceError{Op: "restore", Path: artifact.ID.String(), Err: err}
	}
	delta, err := model.Forecast()
	if err != nil {
		return nil, 0, &models.ModelFitError{Order: artifact.Order, Step: 0, Err: err}
	}
	yhat, err := transform.InverseDifference(training, delta, artifact.Lag)
	if err != nil {
		return nil, 0, err
	}
	return artifact, yhat + artifact.Bias, nil
}
