package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/sales-forecast/internal/metrics"
	"github.com/yourusername/sales-forecast/internal/models"
	"github.com/yourusername/sales-forecast/internal/transform"
	"gonum.org/v1/gonum/stat"
)

// Finalizer fits one order on the full training series and persists it.
type Finalizer struct {
	Fitter Fitter
	Store  ArtifactStore
	Lag    int
	Logger logrus.FieldLogger
}

// Finalize differences training at Lag, fits order once and saves the state
// with its bias. The bias is the mean in-sample residual of the fit unless
// override is non-nil.
func (f *Finalizer) Finalize(ctx context.Context, training []float64, order models.Order, override *float64) (*models.Artifact, error) {
	if f.Fitter == nil || f.Store == nil {
		return nil, fmt.Errorf("fitter and store are required")
	}

	diff, err := transform.Difference(training, f.Lag)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	fitted, err := f.Fitter.Fit(ctx, diff, order)
	metrics.RecordFit(time.Since(start).Seconds(), err)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &models.ModelFitError{Order: order, Step: -1, Err: err}
	}
	model, ok := fitted.(StatefulModel)
	if !ok {
		return nil, fmt.Errorf("fitted ARIMA%s model cannot be persisted", order)
	}

	bias := meanResidual(model.Residuals())
	if override != nil {
		bias = *override
	}

	state, err := model.MarshalState()
	if err != nil {
		return nil, &models.PersistenceError{Op: "encode", Path: "model state", Err: err}
	}

	artifact := &models.Artifact{
		ID:           uuid.New(),
		Order:        order,
		Lag:          f.Lag,
		TrainingSize: len(training),
		State:        state,
		Bias:         bias,
		CreatedAt:    time.Now().UTC(),
	}
	if err := f.Store.Save(artifact); err != nil {
		return nil, err
	}
	metrics.RecordArtifactWritten(bias)

	fieldLogger(f.Logger).WithFields(logrus.Fields{
		"artifact_id": artifact.ID.String(),
		"order":       order.String(),
		"bias":        bias,
		"overridden":  override != nil,
	}).Info("Model finalized")
	return artifact, nil
}

func meanResidual(residuals []float64) float64 {
	if len(residuals) == 0 {
		return 0
	}
	return stat.Mean(residuals, nil)
}
