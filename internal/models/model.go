package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Model is a registry record of a finalized forecasting model
type Model struct {
	ID              uuid.UUID       `db:"id" json:"id" validate:"required"`
	Name            string          `db:"name" json:"name" validate:"required"`
	Version         string          `db:"version" json:"version" validate:"required"`
	ModelType       string          `db:"model_type" json:"model_type" validate:"required"`
	Path            string          `db:"path" json:"path" validate:"required"`
	Metrics         json.RawMessage `db:"metrics" json:"metrics"`
	Hyperparameters json.RawMessage `db:"hyperparameters" json:"hyperparameters"`
	TrainedAt       time.Time       `db:"trained_at" json:"trained_at" validate:"required"`
	Active          bool            `db:"active" json:"active"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// Hyperparameters is the JSON document stored with a model record
type Hyperparameters struct {
	Order Order   `json:"order"`
	Lag   int     `json:"lag"`
	Bias  float64 `json:"bias"`
}

// IsActive checks if the model is currently active
func (m *Model) IsActive() bool {
	return m.Active
}

// GetMetric retrieves a metric value from the Metrics JSON
func (m *Model) GetMetric(name string) (interface{}, error) {
	if m.Metrics == nil {
		return nil, nil
	}

	var metrics map[string]interface{}
	if err := json.Unmarshal(m.Metrics, &metrics); err != nil {
		return nil, err
	}

	return metrics[name], nil
}

// SetMetric merges a single metric into the Metrics JSON
func (m *Model) SetMetric(name string, value interface{}) error {
	metrics := map[string]interface{}{}
	if len(m.Metrics) > 0 {
		if err := json.Unmarshal(m.Metrics, &metrics); err != nil {
			return err
		}
	}
	metrics[name] = value
	data, err := json.Marshal(metrics)
	if err != nil {
		return err
	}
	m.Metrics = data
	return nil
}

// GetHyperparameters decodes the Hyperparameters JSON
func (m *Model) GetHyperparameters() (Hyperparameters, error) {
	var hp Hyperparameters
	if len(m.Hyperparameters) == 0 {
		return hp, nil
	}
	err := json.Unmarshal(m.Hyperparameters, &hp)
	return hp, err
}

// Candidate is a registry record of one grid search candidate
type Candidate struct {
	ID          uuid.UUID `db:"id" json:"id"`
	RunID       uuid.UUID `db:"run_id" json:"run_id"`
	Position    int       `db:"position" json:"position"`
	P           int       `db:"p" json:"p"`
	D           int       `db:"d" json:"d"`
	Q           int       `db:"q" json:"q"`
	RMSE        *float64  `db:"rmse" json:"rmse,omitempty"`
	Status      string    `db:"status" json:"status"`
	Error       string    `db:"error" json:"error,omitempty"`
	EvaluatedAt time.Time `db:"evaluated_at" json:"evaluated_at"`
}

// Order returns the candidate's ARIMA order
func (c *Candidate) Order() Order {
	return Order{P: c.P, D: c.D, Q: c.Q}
}

// NewCandidate builds a registry record from a search outcome
func NewCandidate(runID uuid.UUID, result CandidateResult, evaluatedAt time.Time) *Candidate {
	c := &Candidate{
		ID:          uuid.New(),
		RunID:       runID,
		Position:    result.Index,
		P:           result.Order.P,
		D:           result.Order.D,
		Q:           result.Order.Q,
		Status:      string(result.Status),
		Error:       result.ErrorMessage(),
		EvaluatedAt: evaluatedAt,
	}
	if result.Viable() {
		rmse := result.RMSE
		c.RMSE = &rmse
	}
	return c
}
