package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Artifact is the durable pairing of a fitted model state and its bias correction.
type Artifact struct {
	ID           uuid.UUID       `json:"id"`
	Order        Order           `json:"order"`
	Lag          int             `json:"lag"`
	TrainingSize int             `json:"training_size"`
	State        json.RawMessage `json:"state"`
	Bias         float64         `json:"bias"`
	CreatedAt    time.Time       `json:"created_at"`
}
