// Package transform implements seasonal differencing and its per-step inverse.
package transform

import (
	"fmt"

	"github.com/yourusername/sales-forecast/internal/models"
)

// Difference returns series[i] - series[i-lag] for every i in [lag, len(series)).
// The result has len(series)-lag elements and never aliases the input.
func Difference(series []float64, lag int) ([]float64, error) {
	if lag < 1 {
		return nil, fmt.Errorf("lag must be positive, got %d", lag)
	}
	if len(series) <= lag {
		return nil, &models.InsufficientDataError{Have: len(series), Need: lag + 1}
	}
	diff := make([]float64, len(series)-lag)
	for i := lag; i < len(series); i++ {
		diff[i-lag] = series[i] - series[i-lag]
	}
	return diff, nil
}

// InverseDifference maps a forecast delta back to the original scale using
// the observation lag periods before the forecast point.
func InverseDifference(history []float64, delta float64, lag int) (float64, error) {
	if lag < 1 {
		return 0, fmt.Errorf("lag must be positive, got %d", lag)
	}
	if len(history) < lag {
		return 0, &models.InsufficientDataError{Have: len(history), Need: lag}
	}
	return delta + history[len(history)-lag], nil
}
