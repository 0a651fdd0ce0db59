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

const candidateColumns = `id, run_id, position, p, d, q, rmse, status, error, evaluated_at`

// PostgresCandidateRepository implements CandidateRepository for PostgreSQL
type PostgresCandidateRepository struct {
	db *database.DB
}

// NewPostgresCandidateRepository creates a new candidate repository
func NewPostgresCandidateRepository(db *database.DB) CandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

// InsertBatch inserts a whole search run using COPY
func (c *PostgresCandidateRepository) InsertBatch(ctx context.Context, candidates []*models.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	columns := []string{"id", "run_id", "position", "p", "d", "q", "rmse", "status", "error", "evaluated_at"}

	rows := make([][]interface{}, len(candidates))
	for i, cand := range candidates {
		rows[i] = []interface{}{
			cand.ID, cand.RunID, cand.Position, cand.P, cand.D, cand.Q,
			cand.RMSE, cand.Status, cand.Error, cand.EvaluatedAt,
		}
	}

	count, err := c.db.GetPool().CopyFrom(ctx, pgx.Identifier{"search_candidates"}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to batch insert candidates: %w", err)
	}

	if count != int64(len(candidates)) {
		return fmt.Errorf("inserted %d rows, expected %d", count, len(candidates))
	}

	return nil
}

// GetByRunID retrieves a run's candidates in enumeration order
func (c *PostgresCandidateRepository) GetByRunID(ctx context.Context, runID uuid.UUID) ([]*models.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM search_candidates WHERE run_id = $1 ORDER BY position ASC`

	rows, err := c.db.GetPool().Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	var result []*models.Candidate
	for rows.Next() {
		cand := &models.Candidate{}
		if err := rows.Scan(
			&cand.ID, &cand.RunID, &cand.Position, &cand.P, &cand.D, &cand.Q,
			&cand.RMSE, &cand.Status, &cand.Error, &cand.EvaluatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		result = append(result, cand)
	}

	return result, rows.Err()
}

// GetBest retrieves the lowest-scoring viable candidate, earliest position first on ties
func (c *PostgresCandidateRepository) GetBest(ctx context.Context, runID uuid.UUID) (*models.Candidate, error) {
	query := `
		SELECT ` + candidateColumns + `
		FROM search_candidates
		WHERE run_id = $1 AND rmse IS NOT NULL
		ORDER BY rmse ASC, position ASC
		LIMIT 1
	`

	cand := &models.Candidate{}
	err := c.db.GetPool().QueryRow(ctx, query, runID).Scan(
		&cand.ID, &cand.RunID, &cand.Position, &cand.P, &cand.D, &cand.Q,
		&cand.RMSE, &cand.Status, &cand.Error, &cand.EvaluatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get best candidate: %w", err)
	}

	return cand, nil
}
