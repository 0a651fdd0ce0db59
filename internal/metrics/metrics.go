// Package metrics provides the centralized Prometheus registry for the forecasting harness.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ModelFitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sales_forecast",
		Name:      "model_fits_total",
		Help:      "Total number of model fits by outcome",
	}, []string{"outcome"})
	WalkForwardStepsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sales_forecast",
		Name:      "walk_forward_steps_total",
		Help:      "Total number of walk-forward prediction steps",
	})
	ArtifactsWrittenTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sales_forecast",
		Name:      "artifacts_written_total",
		Help:      "Total number of finalized model artifacts written",
	})
)

// Gauge metrics
var (
	ValidationRMSE = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sales_forecast",
		Name:      "validation_rmse",
		Help:      "RMSE of the last holdout validation",
	})
	ModelBias = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sales_forecast",
		Name:      "model_bias",
		Help:      "Bias correction of the last finalized model",
	})
)

// Histogram metrics
var (
	ModelFitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sales_forecast",
		Name:      "model_fit_duration_seconds",
		Help:      "Duration of single model fits in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(ModelFitsTotal)
		registry.MustRegister(WalkForwardStepsTotal)
		registry.MustRegister(ArtifactsWrittenTotal)

		registry.MustRegister(ValidationRMSE)
		registry.MustRegister(ModelBias)

		registry.MustRegister(ModelFitDuration)

		// Register search metrics
		registry.MustRegister(SearchCandidatesTotal)
		registry.MustRegister(SearchRunsTotal)
		registry.MustRegister(SearchBestRMSE)
		registry.MustRegister(SearchDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// WriteTextfile writes the registry in text exposition format, for the node
// exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, GetRegistry())
}

// RecordFit records one model fit and its latency.
func RecordFit(durationSeconds float64, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	ModelFitsTotal.WithLabelValues(outcome).Inc()
	ModelFitDuration.Observe(durationSeconds)
}

// RecordWalkForwardStep records one walk-forward prediction.
func RecordWalkForwardStep() {
	WalkForwardStepsTotal.Inc()
}

// RecordArtifactWritten records a finalized artifact and its bias.
func RecordArtifactWritten(bias float64) {
	ArtifactsWrittenTotal.Inc()
	ModelBias.Set(bias)
}

// UpdateValidationRMSE updates the validation RMSE gauge.
func UpdateValidationRMSE(rmse float64) {
	ValidationRMSE.Set(rmse)
}
