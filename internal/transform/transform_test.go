package transform

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/sales-forecast/internal/models"
)

func TestDifference(t *testing.T) {
	series := []float64{1, 2, 4, 7, 11}
	diff, err := Difference(series, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4}, diff)

	seasonal, err := Difference(series, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 9}, seasonal)
}

func TestDifferenceLength(t *testing.T) {
	series := make([]float64, 93)
	diff, err := Difference(series, 12)
	require.NoError(t, err)
	assert.Len(t, diff, 81)
}

func TestDifferenceInsufficientData(t *testing.T) {
	_, err := Difference([]float64{1, 2, 3}, 3)
	assert.ErrorIs(t, err, models.ErrInsufficientData)

	_, err = Difference(nil, 12)
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestDifferenceDoesNotMutateInput(t *testing.T) {
	series := []float64{5, 6, 7, 8}
	_, err := Difference(series, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6, 7, 8}, series)
}

func TestInverseDifference(t *testing.T) {
	v, err := InverseDifference([]float64{10, 20, 30}, 5, 2)
	require.NoError(t, err)
	assert.Equal(t, 25.0, v)

	_, err = InverseDifference([]float64{10}, 5, 2)
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, lag := range []int{1, 3, 12} {
		series := make([]float64, 60)
		for i := range series {
			series[i] = 1000 + 500*math.Sin(float64(i)/2) + rng.NormFloat64()*50
		}
		diff, err := Difference(series, lag)
		require.NoError(t, err)

		for i, delta := range diff {
			// history ends just before the value being reconstructed
			history := series[:lag+i]
			got, err := InverseDifference(history, delta, lag)
			require.NoError(t, err)
			assert.InDelta(t, series[lag+i], got, 1e-9, "lag %d index %d", lag, i)
		}
	}
}

func TestNonPositiveLag(t *testing.T) {
	_, err := Difference([]float64{1, 2, 3}, 0)
	assert.Error(t, err)
	_, err = InverseDifference([]float64{1, 2, 3}, 1, -1)
	assert.Error(t, err)
}
