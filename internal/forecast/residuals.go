package forecast

import (
	"sort"

	"github.com/yourusername/sales-forecast/internal/models"
	"gonum.org/v1/gonum/stat"
)

// ResidualSummary describes the distribution of walk-forward residuals.
// Mean is the additive bias that would centre them on zero.
type ResidualSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// SummarizeResiduals computes count, mean, sample standard deviation, and
// the quartiles of residuals.
func SummarizeResiduals(residuals []float64) (ResidualSummary, error) {
	if len(residuals) == 0 {
		return ResidualSummary{}, &models.InsufficientDataError{Have: 0, Need: 1}
	}
	sorted := append([]float64(nil), residuals...)
	sort.Float64s(sorted)

	summary := ResidualSummary{
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Min:    sorted[0],
		Q25:    stat.Quantile(0.25, stat.LinInterp, sorted, nil),
		Median: stat.Quantile(0.5, stat.LinInterp, sorted, nil),
		Q75:    stat.Quantile(0.75, stat.LinInterp, sorted, nil),
		Max:    sorted[len(sorted)-1],
	}
	if len(sorted) > 1 {
		summary.Std = stat.StdDev(sorted, nil)
	}
	return summary, nil
}
