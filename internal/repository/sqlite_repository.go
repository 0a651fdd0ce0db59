package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/sales-forecast/internal/models"
)

// SQLiteModelRepository implements ModelRepository on a local SQLite file
type SQLiteModelRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteModelRepository creates a model repository over an opened SQLite handle
func NewSQLiteModelRepository(db *sql.DB) ModelRepository {
	return &SQLiteModelRepository{db: db, now: time.Now}
}

// Create inserts a new model record
func (m *SQLiteModelRepository) Create(ctx context.Context, model *models.Model) error {
	now := m.now().UTC()
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO models (id, name, version, model_type, path, hyperparameters, metrics, trained_at, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		model.ID.String(), model.Name, model.Version, model.ModelType, model.Path,
		nullJSON(model.Hyperparameters), nullJSON(model.Metrics),
		formatTime(model.TrainedAt), model.Active, formatTime(now), formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("repository.SQLiteModel.Create: %w", err)
	}
	model.CreatedAt = now
	model.UpdatedAt = now
	return nil
}

// GetByID retrieves a model by ID
func (m *SQLiteModelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Model, error) {
	row := m.db.QueryRowContext(ctx, `SELECT `+modelColumns+` FROM models WHERE id = ?`, id.String())
	model, err := scanSQLiteModel(row)
	if err != nil {
		return nil, fmt.Errorf("repository.SQLiteModel.GetByID: %w", err)
	}
	return model, nil
}

// GetActive retrieves all active models
func (m *SQLiteModelRepository) GetActive(ctx context.Context) ([]*models.Model, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT `+modelColumns+`
		FROM models
		WHERE active = 1
		ORDER BY name ASC, version DESC`)
	if err != nil {
		return nil, fmt.Errorf("repository.SQLiteModel.GetActive: %w", err)
	}
	defer rows.Close()

	var result []*models.Model
	for rows.Next() {
		model, err := scanSQLiteModel(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.SQLiteModel.GetActive: scan: %w", err)
		}
		result = append(result, model)
	}
	return result, rows.Err()
}

// GetByVersion retrieves a specific model version
func (m *SQLiteModelRepository) GetByVersion(ctx context.Context, name, version string) (*models.Model, error) {
	row := m.db.QueryRowContext(ctx, `SELECT `+modelColumns+` FROM models WHERE name = ? AND version = ?`, name, version)
	model, err := scanSQLiteModel(row)
	if err != nil {
		return nil, fmt.Errorf("repository.SQLiteModel.GetByVersion: %w", err)
	}
	return model, nil
}

// GetLatest retrieves the most recently trained version of a model
func (m *SQLiteModelRepository) GetLatest(ctx context.Context, name string) (*models.Model, error) {
	row := m.db.QueryRowContext(ctx, `
		SELECT `+modelColumns+`
		FROM models
		WHERE name = ?
		ORDER BY trained_at DESC, created_at DESC
		LIMIT 1`, name)
	model, err := scanSQLiteModel(row)
	if err != nil {
		return nil, fmt.Errorf("repository.SQLiteModel.GetLatest: %w", err)
	}
	return model, nil
}

// Update updates an existing model
func (m *SQLiteModelRepository) Update(ctx context.Context, model *models.Model) error {
	now := m.now().UTC()
	res, err := m.db.ExecContext(ctx, `
		UPDATE models SET
			path = ?, hyperparameters = ?, metrics = ?, trained_at = ?, active = ?, updated_at = ?
		WHERE id = ?`,
		model.Path, nullJSON(model.Hyperparameters), nullJSON(model.Metrics),
		formatTime(model.TrainedAt), model.Active, formatTime(now), model.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("repository.SQLiteModel.Update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository.SQLiteModel.Update: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	model.UpdatedAt = now
	return nil
}

// SetActive sets a model as active and deactivates other versions
func (m *SQLiteModelRepository) SetActive(ctx context.Context, id uuid.UUID) error {
	model, err := m.GetByID(ctx, id)
	if err != nil {
		return err
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository.SQLiteModel.SetActive: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE models SET active = 0 WHERE name = ? AND id != ?`, model.Name, id.String()); err != nil {
		return fmt.Errorf("repository.SQLiteModel.SetActive: deactivate: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE models SET active = 1, updated_at = ? WHERE id = ?`, formatTime(m.now().UTC()), id.String()); err != nil {
		return fmt.Errorf("repository.SQLiteModel.SetActive: activate: %w", err)
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteModel(row rowScanner) (*models.Model, error) {
	var (
		model                           models.Model
		id                              string
		hyperparameters, metrics        sql.NullString
		trainedAt, createdAt, updatedAt string
		active                          int64
	)
	err := row.Scan(
		&id, &model.Name, &model.Version, &model.ModelType, &model.Path, &hyperparameters,
		&metrics, &trainedAt, &active, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if model.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse id %q: %w", id, err)
	}
	if hyperparameters.Valid {
		model.Hyperparameters = []byte(hyperparameters.String)
	}
	if metrics.Valid {
		model.Metrics = []byte(metrics.String)
	}
	model.Active = active != 0
	if model.TrainedAt, err = parseTime(trainedAt); err != nil {
		return nil, err
	}
	if model.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if model.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &model, nil
}

// SQLiteCandidateRepository implements CandidateRepository on a local SQLite file
type SQLiteCandidateRepository struct {
	db *sql.DB
}

// NewSQLiteCandidateRepository creates a candidate repository over an opened SQLite handle
func NewSQLiteCandidateRepository(db *sql.DB) CandidateRepository {
	return &SQLiteCandidateRepository{db: db}
}

// InsertBatch inserts a whole search run in one transaction
func (c *SQLiteCandidateRepository) InsertBatch(ctx context.Context, candidates []*models.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository.SQLiteCandidate.InsertBatch: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO search_candidates (`+candidateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("repository.SQLiteCandidate.InsertBatch: prepare: %w", err)
	}
	defer stmt.Close()

	for _, cand := range candidates {
		var rmse sql.NullFloat64
		if cand.RMSE != nil {
			rmse = sql.NullFloat64{Float64: *cand.RMSE, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			cand.ID.String(), cand.RunID.String(), cand.Position, cand.P, cand.D, cand.Q,
			rmse, cand.Status, cand.Error, formatTime(cand.EvaluatedAt),
		); err != nil {
			return fmt.Errorf("repository.SQLiteCandidate.InsertBatch: position %d: %w", cand.Position, err)
		}
	}
	return tx.Commit()
}

// GetByRunID retrieves a run's candidates in enumeration order
func (c *SQLiteCandidateRepository) GetByRunID(ctx context.Context, runID uuid.UUID) ([]*models.Candidate, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT `+candidateColumns+` FROM search_candidates WHERE run_id = ? ORDER BY position ASC`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("repository.SQLiteCandidate.GetByRunID: %w", err)
	}
	defer rows.Close()

	var result []*models.Candidate
	for rows.Next() {
		cand, err := scanSQLiteCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.SQLiteCandidate.GetByRunID: scan: %w", err)
		}
		result = append(result, cand)
	}
	return result, rows.Err()
}

// GetBest retrieves the lowest-scoring viable candidate, earliest position first on ties
func (c *SQLiteCandidateRepository) GetBest(ctx context.Context, runID uuid.UUID) (*models.Candidate, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT `+candidateColumns+`
		FROM search_candidates
		WHERE run_id = ? AND rmse IS NOT NULL
		ORDER BY rmse ASC, position ASC
		LIMIT 1`, runID.String())
	cand, err := scanSQLiteCandidate(row)
	if err != nil {
		return nil, fmt.Errorf("repository.SQLiteCandidate.GetBest: %w", err)
	}
	return cand, nil
}

func scanSQLiteCandidate(row rowScanner) (*models.Candidate, error) {
	var (
		cand        models.Candidate
		id, runID   string
		rmse        sql.NullFloat64
		evaluatedAt string
	)
	err := row.Scan(&id, &runID, &cand.Position, &cand.P, &cand.D, &cand.Q, &rmse, &cand.Status, &cand.Error, &evaluatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if cand.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse id %q: %w", id, err)
	}
	if cand.RunID, err = uuid.Parse(runID); err != nil {
		return nil, fmt.Errorf("parse run id %q: %w", runID, err)
	}
	if rmse.Valid {
		v := rmse.Float64
		cand.RMSE = &v
	}
	if cand.EvaluatedAt, err = parseTime(evaluatedAt); err != nil {
		return nil, err
	}
	return &cand, nil
}

// fixed-width so text ordering matches time ordering
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
