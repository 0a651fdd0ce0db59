package logger

import (
	"github.com/sirupsen/logrus"
	"github.com/yourusername/sales-forecast/internal/models"
)

// ModelLogger provides dedicated logging for model lifecycle events.
type ModelLogger struct {
	*logrus.Entry
}

// NewModelLogger creates a new model logger.
func NewModelLogger(baseLogger *logrus.Logger) *ModelLogger {
	return &ModelLogger{
		Entry: baseLogger.WithField("component", "model"),
	}
}

// LogSearchSummary logs the outcome of a grid search run.
func (ml *ModelLogger) LogSearchSummary(runID string, candidates, viable int, best *models.Order, bestScore float64) {
	fields := logrus.Fields{
		"run_id":     runID,
		"candidates": candidates,
		"viable":     viable,
	}
	if best == nil {
		ml.WithFields(fields).Error("Grid search found no viable candidate")
		return
	}
	fields["order"] = best.String()
	fields["rmse"] = bestScore
	ml.WithFields(fields).Info("Grid search completed")
}

// LogArtifactWritten logs a finalized artifact.
func (ml *ModelLogger) LogArtifactWritten(artifact *models.Artifact, path string) {
	ml.WithFields(logrus.Fields{
		"artifact_id":   artifact.ID.String(),
		"order":         artifact.Order.String(),
		"lag":           artifact.Lag,
		"training_size": artifact.TrainingSize,
		"bias":          artifact.Bias,
		"path":          path,
	}).Info("Model artifact written")
}

// LogValidation logs a holdout validation result.
func (ml *ModelLogger) LogValidation(artifactID string, order models.Order, steps int, rmse float64) {
	ml.WithFields(logrus.Fields{
		"artifact_id": artifactID,
		"order":       order.String(),
		"steps":       steps,
		"rmse":        rmse,
	}).Info("Holdout validation completed")
}

// LogRegistryError logs a registry write that failed after the main
// operation succeeded.
func (ml *ModelLogger) LogRegistryError(operation string, err error) {
	ml.WithFields(logrus.Fields{
		"operation": operation,
		"error":     err.Error(),
	}).Error("Model registry update failed")
}
