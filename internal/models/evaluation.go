package models

import "math"

// EvaluationResult pairs an order with its walk-forward predictions and RMSE.
type EvaluationResult struct {
	Order       Order     `json:"order"`
	Predictions []float64 `json:"predictions"`
	Expected    []float64 `json:"expected"`
	RMSE        float64   `json:"rmse"`
}

// Residuals returns expected minus predicted for each step.
func (r EvaluationResult) Residuals() []float64 {
	n := min(len(r.Predictions), len(r.Expected))
	residuals := make([]float64, n)
	for i := 0; i < n; i++ {
		residuals[i] = r.Expected[i] - r.Predictions[i]
	}
	return residuals
}

// CandidateStatus is the outcome of one grid search candidate.
type CandidateStatus string

const (
	CandidateSucceeded CandidateStatus = "success"
	CandidateFailed    CandidateStatus = "failure"
	CandidateTimedOut  CandidateStatus = "timeout"
)

// CandidateResult is the per-candidate sum type collected by the grid search:
// either a scored evaluation or the error that made the order non-viable.
type CandidateResult struct {
	Index  int             `json:"index"`
	Order  Order           `json:"order"`
	Status CandidateStatus `json:"status"`
	RMSE   float64         `json:"rmse"`
	Err    error           `json:"-"`
}

// Viable reports whether the candidate produced a finite score.
func (c CandidateResult) Viable() bool {
	return c.Status == CandidateSucceeded && !math.IsNaN(c.RMSE) && !math.IsInf(c.RMSE, 0)
}

// ErrorMessage returns the failure text, empty on success.
func (c CandidateResult) ErrorMessage() string {
	if c.Err == nil {
		return ""
	}
	return c.Err.Error()
}
