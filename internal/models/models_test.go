package models

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthly(values ...float64) Series {
	start := time.Date(1964, time.January, 1, 0, 0, 0, 0, time.UTC)
	s := make(Series, len(values))
	for i, v := range values {
		s[i] = Observation{Time: start.AddDate(0, i, 0), Value: v}
	}
	return s
}

func TestSeriesValidate(t *testing.T) {
	assert.NoError(t, monthly(1, 2, 3).Validate())

	dup := monthly(1, 2, 3)
	dup[2].Time = dup[1].Time
	assert.ErrorIs(t, dup.Validate(), ErrInvalidSeries)

	backwards := monthly(1, 2, 3)
	backwards[2].Time = backwards[0].Time.AddDate(-1, 0, 0)
	assert.ErrorIs(t, backwards.Validate(), ErrInvalidSeries)

	nan := monthly(1, math.NaN())
	assert.ErrorIs(t, nan.Validate(), ErrInvalidSeries)
}

func TestSeriesValuesIsCopy(t *testing.T) {
	s := monthly(1, 2, 3)
	values := s.Values()
	values[0] = 100
	assert.Equal(t, 1.0, s[0].Value)
}

func TestGridOrdersLexicographic(t *testing.T) {
	grid := Grid{P: Range{0, 1}, D: Range{0, 1}, Q: Range{0, 1}}
	orders := grid.Orders()
	require.Len(t, orders, 8)
	assert.Equal(t, 8, grid.Size())
	assert.Equal(t, Order{0, 0, 0}, orders[0])
	assert.Equal(t, Order{0, 0, 1}, orders[1])
	assert.Equal(t, Order{0, 1, 0}, orders[2])
	assert.Equal(t, Order{1, 1, 1}, orders[7])
}

func TestGridFullOriginalSpace(t *testing.T) {
	grid := Grid{P: Range{0, 6}, D: Range{0, 2}, Q: Range{0, 6}}
	assert.Equal(t, 147, grid.Size())
}

func TestRangeInverted(t *testing.T) {
	assert.Empty(t, Range{Min: 3, Max: 1}.Values())
}

func TestOrderString(t *testing.T) {
	assert.Equal(t, "(4, 0, 1)", Order{P: 4, D: 0, Q: 1}.String())
	assert.Error(t, Order{P: -1}.Validate())
}

func TestTypedErrors(t *testing.T) {
	cause := errors.New("did not converge")
	fitErr := &ModelFitError{Order: Order{1, 0, 1}, Step: 3, Err: cause}
	wrapped := fmt.Errorf("evaluate: %w", fitErr)

	assert.ErrorIs(t, wrapped, ErrModelFit)
	assert.ErrorIs(t, wrapped, cause)
	assert.Contains(t, fitErr.Error(), "step 3")

	var target *ModelFitError
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, Order{1, 0, 1}, target.Order)

	assert.ErrorIs(t, &InsufficientDataError{Have: 3, Need: 13}, ErrInsufficientData)
	assert.ErrorIs(t, &PersistenceError{Op: "read", Path: "model.json", Err: cause}, ErrPersistence)
}

func TestModelMetrics(t *testing.T) {
	m := &Model{}
	require.NoError(t, m.SetMetric("validation_rmse", 361.1))
	require.NoError(t, m.SetMetric("search_rmse", 939.5))

	v, err := m.GetMetric("validation_rmse")
	require.NoError(t, err)
	assert.InDelta(t, 361.1, v.(float64), 1e-9)
}

func TestNewCandidate(t *testing.T) {
	runID := uuid.New()
	ok := NewCandidate(runID, CandidateResult{Index: 2, Order: Order{1, 0, 0}, Status: CandidateSucceeded, RMSE: 10}, time.Now())
	require.NotNil(t, ok.RMSE)
	assert.Equal(t, 10.0, *ok.RMSE)
	assert.Equal(t, Order{1, 0, 0}, ok.Order())

	failed := NewCandidate(runID, CandidateResult{Index: 3, Status: CandidateFailed, RMSE: math.Inf(1), Err: errors.New("boom")}, time.Now())
	assert.Nil(t, failed.RMSE)
	assert.Equal(t, "boom", failed.Error)
}

func TestEvaluationResultResiduals(t *testing.T) {
	r := EvaluationResult{Predictions: []float64{1, 2}, Expected: []float64{3, 1}}
	assert.Equal(t, []float64{2, -1}, r.Residuals())
}
