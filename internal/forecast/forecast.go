// Package forecast implements the evaluation harness: splitting, walk-forward
// validation, order search, finalisation and replay of a persisted model.
package forecast

import (
	"context"
	"encoding/json"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/sales-forecast/internal/models"
)

// Model is a fitted model that forecasts the next value of the series it was fitted on.
type Model interface {
	Forecast() (float64, error)
}

// StatefulModel is a Model that can be persisted and reports its in-sample residuals.
type StatefulModel interface {
	Model
	Residuals() []float64
	MarshalState() (json.RawMessage, error)
}

// Fitter fits a model of the given order against a series.
type Fitter interface {
	Fit(ctx context.Context, series []float64, order models.Order) (Model, error)
}

// FitterFunc adapts an ordinary function to the Fitter interface.
type FitterFunc func(ctx context.Context, series []float64, order models.Order) (Model, error)

// Fit calls f.
func (f FitterFunc) Fit(ctx context.Context, series []float64, order models.Order) (Model, error) {
	return f(ctx, series, order)
}

// Restorer rebuilds a fitted model from persisted state without refitting.
type Restorer interface {
	Restore(state json.RawMessage) (Model, error)
}

// ArtifactStore persists the finalized model and its bias.
type ArtifactStore interface {
	Save(artifact *models.Artifact) error
	Load() (*models.Artifact, error)
}

func fieldLogger(logger logrus.FieldLogger) logrus.FieldLogger {
	if logger != nil {
		return logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
