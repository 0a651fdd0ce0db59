package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/sales-forecast/internal/database"
	"github.com/yourusername/sales-forecast/internal/models"
)

const modelColumns = `id, name, version, model_type, path, hyperparameters, metrics, trained_at, active, created_at, updated_at`

// PostgresModelRepository implements ModelRepository for PostgreSQL
type PostgresModelRepository struct {
	db *database.DB
}

// NewPostgresModelRepository creates a new model repository
func NewPostgresModelRepository(db *database.DB) ModelRepository {
	return &PostgresModelRepository{db: db}
}

// Create inserts a new model record
func (m *PostgresModelRepository) Create(ctx context.Context, model *models.Model) error {
	query := `
		INSERT INTO models (id, name, version, model_type, path, hyperparameters, metrics, trained_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := m.db.GetPool().QueryRow(ctx, query,
		model.ID, model.Name, model.Version, model.ModelType, model.Path,
		nullJSON(model.Hyperparameters), nullJSON(model.Metrics), model.TrainedAt, model.Active,
	).Scan(&model.CreatedAt, &model.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create model: %w", err)
	}

	return nil
}

// GetByID retrieves a model by ID
func (m *PostgresModelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Model, error) {
	query := `SELECT ` + modelColumns + ` FROM models WHERE id = $1`

	model, err := scanPostgresModel(m.db.GetPool().QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get model: %w", err)
	}
	return model, nil
}

// GetActive retrieves all active models
func (m *PostgresModelRepository) GetActive(ctx context.Context) ([]*models.Model, error) {
	query := `
		SELECT ` + modelColumns + `
		FROM models
		WHERE active = true
		ORDER BY name ASC, version DESC
	`

	rows, err := m.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active models: %w", err)
	}
	defer rows.Close()

	var result []*models.Model
	for rows.Next() {
		model, err := scanPostgresModel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}
		result = append(result, model)
	}

	return result, rows.Err()
}

// GetByVersion retrieves a specific model version
func (m *PostgresModelRepository) GetByVersion(ctx context.Context, name, version string) (*models.Model, error) {
	query := `SELECT ` + modelColumns + ` FROM models WHERE name = $1 AND version = $2`

	model, err := scanPostgresModel(m.db.GetPool().QueryRow(ctx, query, name, version))
	if err != nil {
		return nil, fmt.Errorf("failed to get model by version: %w", err)
	}
	return model, nil
}

// GetLatest retrieves the most recently trained version of a model
func (m *PostgresModelRepository) GetLatest(ctx context.Context, name string) (*models.Model, error) {
	query := `
		SELECT ` + modelColumns + `
		FROM models
		WHERE name = $1
		ORDER BY trained_at DESC, created_at DESC
		LIMIT 1
	`

	model, err := scanPostgresModel(m.db.GetPool().QueryRow(ctx, query, name))
	if err != nil {
		return nil, fmt.Errorf("failed to get latest model: %w", err)
	}
	return model, nil
}

// Update updates an existing model
func (m *PostgresModelRepository) Update(ctx context.Context, model *models.Model) error {
	query := `
		UPDATE models SET
			path = $2, hyperparameters = $3, metrics = $4, trained_at = $5, active = $6, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := m.db.GetPool().Exec(ctx, query,
		model.ID, model.Path, nullJSON(model.Hyperparameters), nullJSON(model.Metrics), model.TrainedAt, model.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to update model: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// SetActive sets a model as active and deactivates other versions
func (m *PostgresModelRepository) SetActive(ctx context.Context, id uuid.UUID) error {
	model, err := m.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return m.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "UPDATE models SET active = false WHERE name = $1 AND id != $2", model.Name, id); err != nil {
			return fmt.Errorf("failed to deactivate other versions: %w", err)
		}
		if _, err := tx.Exec(ctx, "UPDATE models SET active = true, updated_at = NOW() WHERE id = $1", id); err != nil {
			return fmt.Errorf("failed to activate model: %w", err)
		}
		return nil
	})
}

func scanPostgresModel(row pgx.Row) (*models.Model, error) {
	model := &models.Model{}
	var hyperparameters, metrics []byte
	err := row.Scan(
		&model.ID, &model.Name, &model.Version, &model.ModelType, &model.Path, &hyperparameters,
		&metrics, &model.TrainedAt, &model.Active, &model.CreatedAt, &model.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	model.Hyperparameters = hyperparameters
	model.Metrics = metrics
	return model, nil
}

// nullJSON maps an empty document to SQL NULL.
func nullJSON(doc []byte) any {
	if len(doc) == 0 {
		return nil
	}
	return string(doc)
}
