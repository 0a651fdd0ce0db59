package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/sales-forecast/internal/forecast"
	"github.com/yourusername/sales-forecast/internal/models"
)

// CandidateExport is one grid search row. RMSE is omitted for non-viable candidates.
type CandidateExport struct {
	Index  int                    `json:"index"`
	Order  models.Order           `json:"order"`
	Status models.CandidateStatus `json:"status"`
	RMSE   *float64               `json:"rmse,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// SearchExport represents a grid search run
type SearchExport struct {
	RunID      uuid.UUID         `json:"run_id"`
	StartedAt  time.Time         `json:"started_at"`
	Duration   string            `json:"duration"`
	Lag        int               `json:"lag"`
	Grid       models.Grid       `json:"grid"`
	Best       *models.Order     `json:"best,omitempty"`
	BestScore  *float64          `json:"best_rmse,omitempty"`
	Viable     int               `json:"viable"`
	Candidates []CandidateExport `json:"candidates"`
}

// ValidationExport represents a validation or evaluation run
type ValidationExport struct {
	ArtifactID  *uuid.UUID                `json:"artifact_id,omitempty"`
	Order       models.Order              `json:"order"`
	Bias        float64                   `json:"bias"`
	RMSE        float64                   `json:"rmse"`
	Predictions []float64                 `json:"predictions"`
	Expected    []float64                 `json:"expected"`
	Residuals   *forecast.ResidualSummary `json:"residuals,omitempty"`
}

// NewSearchExport converts a search result into its JSON form
func NewSearchExport(runID uuid.UUID, startedAt time.Time, elapsed time.Duration, lag int, grid models.Grid, result *forecast.SearchResult) SearchExport {
	export := SearchExport{
		RunID:      runID,
		StartedAt:  startedAt,
		Duration:   elapsed.Round(time.Millisecond).String(),
		Lag:        lag,
		Grid:       grid,
		Best:       result.Best,
		BestScore:  finite(result.BestScore),
		Viable:     result.Viable(),
		Candidates: make([]CandidateExport, 0, len(result.Results)),
	}
	if result.Best == nil {
		export.BestScore = nil
	}
	for _, c := range result.Results {
		row := CandidateExport{
			Index:  c.Index,
			Order:  c.Order,
			Status: c.Status,
			Error:  c.ErrorMessage(),
		}
		if c.Viable() {
			row.RMSE = finite(c.RMSE)
		}
		export.Candidates = append(export.Candidates, row)
	}
	return export
}

// NewValidationExport converts an evaluation into its JSON form. artifact may be nil.
func NewValidationExport(result models.EvaluationResult, artifact *models.Artifact, bias float64, summary *forecast.ResidualSummary) ValidationExport {
	export := ValidationExport{
		Order:       result.Order,
		Bias:        bias,
		RMSE:        result.RMSE,
		Predictions: result.Predictions,
		Expected:    result.Expected,
		Residuals:   summary,
	}
	if artifact != nil {
		id := artifact.ID
		export.ArtifactID = &id
		export.Bias = artifact.Bias
	}
	return export
}

// ExportToJSON writes export data to a JSON file
func ExportToJSON(export any, outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}
	return os.WriteFile(outputPath, data, 0o644)
}

// finite returns nil for values JSON cannot carry.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
