package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/sales-forecast/internal/models"
)

func newArtifact() *models.Artifact {
	return &models.Artifact{
		ID:           uuid.New(),
		Order:        models.Order{P: 6, D: 0, Q: 5},
		Lag:          12,
		TrainingSize: 93,
		State:        json.RawMessage(`{"order":{"p":6,"d":0,"q":5}}`),
		Bias:         146.401198,
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir(), "", "")
	want := newArtifact()

	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Order, got.Order)
	assert.Equal(t, want.Lag, got.Lag)
	assert.Equal(t, want.TrainingSize, got.TrainingSize)
	assert.Equal(t, want.Bias, got.Bias)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	assert.JSONEq(t, string(want.State), string(got.State))
}

func TestFileStoreWritesBiasArray(t *testing.T) {
	store := NewFileStore(t.TempDir(), "m.json", "b.json")
	require.NoError(t, store.Save(newArtifact()))

	data, err := os.ReadFile(store.BiasPath())
	require.NoError(t, err)
	var bias []float64
	require.NoError(t, json.Unmarshal(data, &bias))
	assert.Equal(t, []float64{146.401198}, bias)

	entries, err := os.ReadDir(filepath.Dir(store.ModelPath()))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temporary files must not be left behind")
}

func TestFileStoreMissingFiles(t *testing.T) {
	store := NewFileStore(t.TempDir(), "", "")
	_, err := store.Load()
	assert.ErrorIs(t, err, models.ErrPersistence)

	require.NoError(t, store.Save(newArtifact()))
	require.NoError(t, os.Remove(store.BiasPath()))
	_, err = store.Load()
	assert.ErrorIs(t, err, models.ErrPersistence)
}

func TestFileStoreRejectsMismatchedBias(t *testing.T) {
	store := NewFileStore(t.TempDir(), "", "")
	require.NoError(t, store.Save(newArtifact()))
	require.NoError(t, os.WriteFile(store.BiasPath(), []byte("[0.5]"), 0o644))

	_, err := store.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrPersistence)
	assert.ErrorIs(t, err, errDigestMismatch)
}

func TestFileStoreRejectsCorruptModel(t *testing.T) {
	store := NewFileStore(t.TempDir(), "", "")
	require.NoError(t, store.Save(newArtifact()))
	require.NoError(t, os.WriteFile(store.ModelPath(), []byte("{not json"), 0o644))

	_, err := store.Load()
	assert.ErrorIs(t, err, models.ErrPersistence)
}

func TestFileStoreOverwrite(t *testing.T) {
	store := NewFileStore(t.TempDir(), "", "")
	first := newArtifact()
	require.NoError(t, store.Save(first))

	second := newArtifact()
	second.Bias = -3.25
	require.NoError(t, store.Save(second))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, -3.25, got.Bias)
}
