package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search counter vectors
var (
	SearchCandidatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sales_forecast",
		Name:      "search_candidates_total",
		Help:      "Total number of grid search candidates by status",
	}, []string{"status"})
	SearchRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sales_forecast",
		Name:      "search_runs_total",
		Help:      "Total number of grid search runs by status",
	}, []string{"status"})
)

// Search gauges and histograms
var (
	SearchBestRMSE = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sales_forecast",
		Name:      "search_best_rmse",
		Help:      "Best RMSE found by the last grid search",
	})
	SearchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sales_forecast",
		Name:      "search_duration_seconds",
		Help:      "Duration of grid search runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// RecordCandidate records a candidate outcome.
// status should be one of: "success", "failure", "timeout"
func RecordCandidate(status string) {
	SearchCandidatesTotal.WithLabelValues(status).Inc()
}

// RecordSearchRun records a finished search. A run without a viable
// candidate is recorded with status "exhausted".
func RecordSearchRun(status string, durationSeconds float64) {
	SearchRunsTotal.WithLabelValues(status).Inc()
	SearchDuration.Observe(durationSeconds)
}

// UpdateBestRMSE updates the best search RMSE gauge.
func UpdateBestRMSE(rmse float64) {
	SearchBestRMSE.Set(rmse)
}
