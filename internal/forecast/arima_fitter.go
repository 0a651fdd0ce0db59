package forecast

import (
	"context"
	"encoding/json"

	"github.com/yourusername/sales-forecast/internal/arima"
	"github.com/yourusername/sales-forecast/internal/models"
)

// ARIMAFitter fits and restores models with the arima package.
type ARIMAFitter struct {
	settings arima.Settings
}

// NewARIMAFitter creates a fitter using the given optimiser settings.
func NewARIMAFitter(settings arima.Settings) *ARIMAFitter {
	return &ARIMAFitter{settings: settings}
}

// Fit implements Fitter.
func (f *ARIMAFitter) Fit(ctx context.Context, series []float64, order models.Order) (Model, error) {
	m, err := arima.Fit(ctx, series, order, f.settings)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Restore implements Restorer.
func (f *ARIMAFitter) Restore(state json.RawMessage) (Model, error) {
	m, err := arima.Restore(state)
	if err != nil {
		return nil, err
	}
	return m, nil
}
