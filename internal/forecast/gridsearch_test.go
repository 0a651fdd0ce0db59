package forecast

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/sales-forecast/internal/arima"
	"github.com/yourusername/sales-forecast/internal/models"
)

func smallGrid() models.Grid {
	return models.Grid{
		P: models.Range{Min: 0, Max: 2},
		D: models.Range{Min: 0, Max: 0},
		Q: models.Range{Min: 0, Max: 1},
	}
}

func TestGridSearchAllCandidatesFail(t *testing.T) {
	fitter := FitterFunc(func(ctx context.Context, series []float64, order models.Order) (Model, error) {
		return nil, errors.New("did not converge")
	})
	search := &GridSearch{Fitter: fitter, Lag: 12, TrainFraction: 0.5, Workers: 3}

	result, err := search.Search(context.Background(), champagneSales, smallGrid())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNoViableCandidate)
	require.NotNil(t, result)
	assert.Nil(t, result.Best)
	assert.True(t, math.IsInf(result.BestScore, 1))
	assert.Equal(t, 0, result.Viable())
	require.Len(t, result.Results, 6)
	for i, c := range result.Results {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, models.CandidateFailed, c.Status)
		assert.ErrorIs(t, c.Err, models.ErrModelFit)
	}
}

// tieFitter gives p = 1 and p = 2 identical forecasts and every other order a worse one.
func tieFitter() Fitter {
	return FitterFunc(func(ctx context.Context, series []float64, order models.Order) (Model, error) {
		if order.P == 1 || order.P == 2 {
			return constModel(0), nil
		}
		return constModel(-5000 - float64(order.Q)), nil
	})
}

func TestGridSearchTieBreakFirstInEnumerationOrder(t *testing.T) {
	for _, workers := range []int{1, 4} {
		search := &GridSearch{Fitter: tieFitter(), Lag: 12, TrainFraction: 0.5, Workers: workers}

		result, err := search.Search(context.Background(), champagneSales, smallGrid())
		require.NoError(t, err)
		require.NotNil(t, result.Best)
		assert.Equal(t, models.Order{P: 1, D: 0, Q: 0}, *result.Best, "workers=%d", workers)
		assert.Equal(t, result.Results[2].RMSE, result.BestScore)
		assert.Equal(t, result.Results[2].RMSE, result.Results[4].RMSE)
		assert.Equal(t, 6, result.Viable())
		for i, c := range result.Results {
			assert.Equal(t, i, c.Index)
		}
	}
}

func TestGridSearchSkipsFailingCandidates(t *testing.T) {
	fitter := FitterFunc(func(ctx context.Context, series []float64, order models.Order) (Model, error) {
		if order.Q == 1 {
			return nil, arima.ErrNonInvertible
		}
		return constModel(float64(order.P) * 10), nil
	})
	var progress bytes.Buffer
	search := &GridSearch{Fitter: fitter, Lag: 12, TrainFraction: 0.5, Progress: &progress}

	result, err := search.Search(context.Background(), champagneSales, smallGrid())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Viable())
	for _, c := range result.Results {
		if c.Order.Q == 1 {
			assert.Equal(t, models.CandidateFailed, c.Status)
			assert.ErrorIs(t, c.Err, arima.ErrNonInvertible)
		} else {
			assert.Equal(t, models.CandidateSucceeded, c.Status)
		}
	}

	lines := strings.Split(strings.TrimSpace(progress.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ARIMA(0, 0, 0) RMSE="))
	assert.True(t, strings.HasPrefix(lines[1], "ARIMA(1, 0, 0) RMSE="))
	assert.True(t, strings.HasPrefix(lines[2], "ARIMA(2, 0, 0) RMSE="))
}

func TestGridSearchCandidateTimeout(t *testing.T) {
	fitter := FitterFunc(func(ctx context.Context, series []float64, order models.Order) (Model, error) {
		if order.P == 2 {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return constModel(0), nil
	})
	search := &GridSearch{
		Fitter:           fitter,
		Lag:              12,
		TrainFraction:    0.5,
		Workers:          2,
		CandidateTimeout: 50 * time.Millisecond,
	}

	result, err := search.Search(context.Background(), champagneSales, smallGrid())
	require.NoError(t, err)
	for _, c := range result.Results {
		if c.Order.P == 2 {
			assert.Equal(t, models.CandidateTimedOut, c.Status)
			assert.ErrorIs(t, c.Err, models.ErrModelFit)
			assert.ErrorIs(t, c.Err, context.DeadlineExceeded)
		} else {
			assert.Equal(t, models.CandidateSucceeded, c.Status)
		}
	}
	assert.Equal(t, 0, result.Best.P)
}

func TestGridSearchAbortsOnInsufficientData(t *testing.T) {
	search := &GridSearch{Fitter: constFitter(0), Lag: 12, TrainFraction: 0.5}
	_, err := search.Search(context.Background(), champagneSales[:20], smallGrid())
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestGridSearchParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	search := &GridSearch{Fitter: constFitter(0), Lag: 12, TrainFraction: 0.5, Workers: 2}
	_, err := search.Search(ctx, champagneSales, smallGrid())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGridSearchARIMA(t *testing.T) {
	grid := models.Grid{
		P: models.Range{Min: 0, Max: 1},
		D: models.Range{Min: 0, Max: 1},
		Q: models.Range{Min: 0, Max: 0},
	}
	search := &GridSearch{
		Fitter:        NewARIMAFitter(arima.DefaultSettings()),
		Lag:           12,
		TrainFraction: 0.5,
		Workers:       2,
	}

	result, err := search.Search(context.Background(), champagneSales[:93], grid)
	require.NoError(t, err)
	require.NotNil(t, result.Best)
	assert.Greater(t, result.BestScore, 0.0)
	assert.False(t, math.IsInf(result.BestScore, 0))
	require.Len(t, result.Results, 4)
	for _, c := range result.Results {
		if c.Viable() {
			assert.GreaterOrEqual(t, c.RMSE, result.BestScore)
		}
	}
}

func TestGridSearchARIMAMixedOrdersAreViable(t *testing.T) {
	if testing.Short() {
		t.Skip("walk-forward over thirty orders")
	}
	grid := models.Grid{
		P: models.Range{Min: 0, Max: 4},
		D: models.Range{Min: 0, Max: 1},
		Q: models.Range{Min: 0, Max: 2},
	}
	search := &GridSearch{
		Fitter:        NewARIMAFitter(arima.DefaultSettings()),
		Lag:           12,
		TrainFraction: 0.5,
		Workers:       4,
	}

	result, err := search.Search(context.Background(), champagneSales[:93], grid)
	require.NoError(t, err)
	require.Len(t, result.Results, 30)
	assert.GreaterOrEqual(t, result.Viable(), 20, "most of the grid should fit")

	for _, c := range result.Results {
		if c.Order == (models.Order{P: 4, D: 0, Q: 1}) {
			assert.True(t, c.Viable(), "%s: %v", c.Order, c.Err)
		}
	}
}
