package forecast

import (
	"fmt"

	"github.com/yourusername/sales-forecast/internal/models"
	"github.com/yourusername/sales-forecast/internal/transform"
)

// Split partitions series into training (all but the last horizon
// observations) and holdout (the last horizon observations).
func Split(series models.Series, horizon int) (models.Series, models.Series, error) {
	if horizon <= 0 {
		return nil, nil, fmt.Errorf("horizon must be positive, got %d", horizon)
	}
	if len(series) <= horizon {
		return nil, nil, &models.InsufficientDataError{Have: len(series), Need: horizon + 1}
	}
	cut := len(series) - horizon
	return series[:cut:cut], series[cut:], nil
}

// SplitFraction splits values at int(len*fraction) into train and test.
// Both halves must be non-empty.
func SplitFraction(values []float64, fraction float64) ([]float64, []float64, error) {
	if fraction <= 0 || fraction >= 1 {
		return nil, nil, fmt.Errorf("train fraction must be in (0, 1), got %g", fraction)
	}
	size := int(float64(len(values)) * fraction)
	if size < 1 || size >= len(values) {
		return nil, nil, &models.InsufficientDataError{Have: len(values), Need: 2}
	}
	return values[:size:size], values[size:], nil
}

// SeasonalDifference returns series differenced at lag. Each value keeps the
// timestamp of the later of the two observations it was computed from.
func SeasonalDifference(series models.Series, lag int) (models.Series, error) {
	diff, err := transform.Difference(series.Values(), lag)
	if err != nil {
		return nil, err
	}
	out := make(models.Series, len(diff))
	for i, v := range diff {
		out[i] = models.Observation{Time: series[i+lag].Time, Value: v}
	}
	return out, nil
}
