package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yourusername/sales-forecast/internal/models"
)

// ModelRepository defines the interface for model registry data access
type ModelRepository interface {
	Create(ctx context.Context, model *models.Model) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Model, error)
	GetActive(ctx context.Context) ([]*models.Model, error)
	GetByVersion(ctx context.Context, name, version string) (*models.Model, error)
	GetLatest(ctx context.Context, name string) (*models.Model, error)
	Update(ctx context.Context, model *models.Model) error
	SetActive(ctx context.Context, id uuid.UUID) error
}

// CandidateRepository defines the interface for grid search candidate data access
type CandidateRepository interface {
	InsertBatch(ctx context.Context, candidates []*models.Candidate) error
	GetByRunID(ctx context.Context, runID uuid.UUID) ([]*models.Candidate, error)
	GetBest(ctx context.Context, runID uuid.UUID) (*models.Candidate, error)
}
