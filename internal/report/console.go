// Package report renders search, validation and residual results for the
// terminal and exports them as JSON.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/yourusername/sales-forecast/internal/forecast"
	"github.com/yourusername/sales-forecast/internal/models"
)

// WriteSearchTable prints one row per candidate in enumeration order and a
// closing line naming the best order.
func WriteSearchTable(w io.Writer, result *forecast.SearchResult) {
	table := tablewriter.NewWriter(w)
	table.Header("#", "Order", "Status", "RMSE", "Error")

	for _, c := range result.Results {
		table.Append(
			fmt.Sprintf("%d", c.Index),
			c.Order.String(),
			string(c.Status),
			formatScore(c.RMSE),
			truncate(c.ErrorMessage(), 48),
		)
	}
	table.Render()

	if result.Best == nil {
		fmt.Fprintf(w, "No viable candidate among %d orders\n", len(result.Results))
		return
	}
	fmt.Fprintf(w, "Best ARIMA%s RMSE=%.3f (%d/%d viable)\n",
		result.Best, result.BestScore, result.Viable(), len(result.Results))
}

// WriteValidationTable prints the step-by-step predictions of an evaluation.
func WriteValidationTable(w io.Writer, result models.EvaluationResult) {
	table := tablewriter.NewWriter(w)
	table.Header("Step", "Predicted", "Expected", "Residual")

	residuals := result.Residuals()
	for i, r := range residuals {
		table.Append(
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.3f", result.Predictions[i]),
			fmt.Sprintf("%.3f", result.Expected[i]),
			fmt.Sprintf("%.3f", r),
		)
	}
	table.Render()

	fmt.Fprintf(w, "RMSE=%.3f\n", result.RMSE)
}

// WriteResidualSummary prints the describe-style summary of residuals.
func WriteResidualSummary(w io.Writer, summary forecast.ResidualSummary) {
	table := tablewriter.NewWriter(w)
	table.Header("Statistic", "Value")

	rows := []struct {
		name  string
		value float64
	}{
		{"count", float64(summary.Count)},
		{"mean", summary.Mean},
		{"std", summary.Std},
		{"min", summary.Min},
		{"25%", summary.Q25},
		{"50%", summary.Median},
		{"75%", summary.Q75},
		{"max", summary.Max},
	}
	for _, r := range rows {
		table.Append(r.name, formatScore(r.value))
	}
	table.Render()
}

// WriteModelTable prints registry records with their order and recorded metrics.
func WriteModelTable(w io.Writer, records []*models.Model) {
	table := tablewriter.NewWriter(w)
	table.Header("Name", "Version", "Order", "Bias", "Active", "Trained", "Validation RMSE")

	for _, m := range records {
		order, bias := "-", "-"
		if hp, err := m.GetHyperparameters(); err == nil && len(m.Hyperparameters) > 0 {
			order = "ARIMA" + hp.Order.String()
			bias = fmt.Sprintf("%.3f", hp.Bias)
		}
		table.Append(
			m.Name,
			m.Version,
			order,
			bias,
			fmt.Sprintf("%t", m.Active),
			m.TrainedAt.UTC().Format("2006-01-02 15:04:05"),
			formatMetric(m, "validation_rmse"),
		)
	}
	table.Render()
}

// WriteCandidateTable prints the stored candidates of one search run and the
// best of them, if any was viable.
func WriteCandidateTable(w io.Writer, candidates []*models.Candidate, best *models.Candidate) {
	table := tablewriter.NewWriter(w)
	table.Header("#", "Order", "Status", "RMSE", "Error")

	for _, c := range candidates {
		rmse := "INF"
		if c.RMSE != nil {
			rmse = formatScore(*c.RMSE)
		}
		table.Append(
			fmt.Sprintf("%d", c.Position),
			c.Order().String(),
			c.Status,
			rmse,
			truncate(c.Error, 48),
		)
	}
	table.Render()

	if best == nil || best.RMSE == nil {
		fmt.Fprintf(w, "No viable candidate among %d orders\n", len(candidates))
		return
	}
	fmt.Fprintf(w, "Best ARIMA%s RMSE=%.3f\n", best.Order(), *best.RMSE)
}

// ConsoleSummary formats an artifact for terminal output
func ConsoleSummary(a *models.Artifact) string {
	var builder strings.Builder
	builder.WriteString("Model Artifact\n")
	builder.WriteString("==============\n")
	builder.WriteString(fmt.Sprintf("ID: %s\n", a.ID))
	builder.WriteString(fmt.Sprintf("Order: ARIMA%s\n", a.Order))
	builder.WriteString(fmt.Sprintf("Seasonal Lag: %d\n", a.Lag))
	builder.WriteString(fmt.Sprintf("Training Size: %d\n", a.TrainingSize))
	builder.WriteString(fmt.Sprintf("Bias: %.6f\n", a.Bias))
	builder.WriteString(fmt.Sprintf("Created: %s\n", a.CreatedAt.Format("2006-01-02 15:04:05")))
	return builder.String()
}

func formatScore(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "INF"
	case math.IsInf(v, -1):
		return "-INF"
	}
	return fmt.Sprintf("%.3f", v)
}

func formatMetric(m *models.Model, name string) string {
	v, err := m.GetMetric(name)
	if err != nil || v == nil {
		return "-"
	}
	if f, ok := v.(float64); ok {
		return formatScore(f)
	}
	return fmt.Sprintf("%v", v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
