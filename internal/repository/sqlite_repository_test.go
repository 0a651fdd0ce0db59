package repository

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/sales-forecast/internal/config"
	"github.com/yourusername/sales-forecast/internal/database"
	"github.com/yourusername/sales-forecast/internal/models"
)

func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	repos, err := NewSQLiteRepositories(db)
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })
	return repos
}

func newModel(version string, trainedAt time.Time) *models.Model {
	hp, _ := json.Marshal(models.Hyperparameters{Order: models.Order{P: 4, D: 0, Q: 1}, Lag: 12, Bias: 165.9})
	return &models.Model{
		ID:              uuid.New(),
		Name:            "champagne",
		Version:         version,
		ModelType:       "arima",
		Path:            "artifacts/model.json",
		Hyperparameters: hp,
		TrainedAt:       trainedAt,
	}
}

func TestSQLiteModelCreateAndGet(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	trained := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	m := newModel("v1", trained)
	require.NoError(t, repos.Model.Create(ctx, m))
	assert.False(t, m.CreatedAt.IsZero())

	got, err := repos.Model.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, "champagne", got.Name)
	assert.True(t, trained.Equal(got.TrainedAt))
	assert.Nil(t, got.Metrics)

	hp, err := got.GetHyperparameters()
	require.NoError(t, err)
	assert.Equal(t, models.Order{P: 4, D: 0, Q: 1}, hp.Order)
	assert.Equal(t, 165.9, hp.Bias)

	byVersion, err := repos.Model.GetByVersion(ctx, "champagne", "v1")
	require.NoError(t, err)
	assert.Equal(t, m.ID, byVersion.ID)
}

func TestSQLiteModelNotFound(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	_, err := repos.Model.GetByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, models.ErrNotFound))

	_, err = repos.Model.GetLatest(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = repos.Model.Update(ctx, newModel("v9", time.Now()))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSQLiteModelDuplicateVersion(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Model.Create(ctx, newModel("v1", time.Now())))
	assert.Error(t, repos.Model.Create(ctx, newModel("v1", time.Now())))
}

func TestSQLiteModelLatestAndUpdate(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	older := newModel("v1", base)
	newer := newModel("v2", base.Add(500*time.Millisecond))
	require.NoError(t, repos.Model.Create(ctx, newer))
	require.NoError(t, repos.Model.Create(ctx, older))

	latest, err := repos.Model.GetLatest(ctx, "champagne")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)

	require.NoError(t, latest.SetMetric("validation_rmse", 361.1))
	require.NoError(t, repos.Model.Update(ctx, latest))

	reloaded, err := repos.Model.GetByID(ctx, latest.ID)
	require.NoError(t, err)
	v, err := reloaded.GetMetric("validation_rmse")
	require.NoError(t, err)
	assert.InDelta(t, 361.1, v.(float64), 1e-9)
}

func TestSQLiteModelSetActive(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	v1 := newModel("v1", time.Now())
	v2 := newModel("v2", time.Now())
	require.NoError(t, repos.Model.Create(ctx, v1))
	require.NoError(t, repos.Model.Create(ctx, v2))

	require.NoError(t, repos.Model.SetActive(ctx, v1.ID))
	require.NoError(t, repos.Model.SetActive(ctx, v2.ID))

	active, err := repos.Model.GetActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, v2.ID, active[0].ID)
	assert.True(t, active[0].IsActive())

	assert.ErrorIs(t, repos.Model.SetActive(ctx, uuid.New()), models.ErrNotFound)
}

func TestSQLiteCandidates(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	runID := uuid.New()
	at := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)
	results := []models.CandidateResult{
		{Index: 0, Order: models.Order{P: 0}, Status: models.CandidateSucceeded, RMSE: 20},
		{Index: 1, Order: models.Order{P: 1}, Status: models.CandidateFailed, RMSE: math.Inf(1), Err: errors.New("not converged")},
		{Index: 2, Order: models.Order{P: 2}, Status: models.CandidateSucceeded, RMSE: 10},
		{Index: 3, Order: models.Order{P: 3}, Status: models.CandidateSucceeded, RMSE: 10},
	}
	// reversed insert order; reads come back by position
	candidates := make([]*models.Candidate, 0, len(results))
	for i := len(results) - 1; i >= 0; i-- {
		candidates = append(candidates, models.NewCandidate(runID, results[i], at))
	}
	require.NoError(t, repos.Candidate.InsertBatch(ctx, candidates))
	require.NoError(t, repos.Candidate.InsertBatch(ctx, nil))

	got, err := repos.Candidate.GetByRunID(ctx, runID)
	require.NoError(t, err)
	require.Len(t, got, 4)
	for i, c := range got {
		assert.Equal(t, i, c.Position)
	}
	assert.Nil(t, got[1].RMSE)
	assert.Equal(t, "not converged", got[1].Error)
	assert.True(t, at.Equal(got[0].EvaluatedAt))

	best, err := repos.Candidate.GetBest(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, 2, best.Position)
	assert.Equal(t, models.Order{P: 2}, best.Order())

	_, err = repos.Candidate.GetBest(ctx, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestOpenByDriver(t *testing.T) {
	ctx := context.Background()

	repos, err := Open(ctx, &config.RegistryConfig{Driver: "none"})
	require.NoError(t, err)
	assert.Nil(t, repos)
	assert.NoError(t, repos.Close())

	repos, err = Open(ctx, &config.RegistryConfig{Driver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	require.NotNil(t, repos)
	assert.NoError(t, repos.Close())

	_, err = Open(ctx, &config.RegistryConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestNewRepositoriesRequiresDB(t *testing.T) {
	_, err := NewRepositories(nil)
	assert.Error(t, err)
	_, err = NewSQLiteRepositories(nil)
	assert.Error(t, err)
}
