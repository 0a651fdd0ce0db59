package main

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yourusername/sales-forecast/internal/forecast"
	"github.com/yourusername/sales-forecast/internal/models"
	"github.com/yourusername/sales-forecast/internal/report"
)

func init() {
	searchCmd.Flags().Int("workers", 0, "Concurrent candidate evaluations (default from search.workers)")
	searchCmd.Flags().Duration("candidate-timeout", 0, "Per-candidate time limit (default from search.candidate_timeout_seconds)")
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Grid search ARIMA orders by walk-forward RMSE",
	Long:  `Evaluates every order of search.grid on the dataset and reports the lowest RMSE. Orders that fail to fit are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		series, err := loadDataset()
		if err != nil {
			return err
		}

		gs := &forecast.GridSearch{
			Fitter:           newFitter(),
			Lag:              cfg.Model.Lag,
			TrainFraction:    cfg.Search.TrainFraction,
			Workers:          cfg.Search.Workers,
			CandidateTimeout: cfg.CandidateTimeout(),
			Logger:           log,
			Progress:         os.Stdout,
		}
		if cmd.Flags().Changed("workers") {
			gs.Workers, _ = cmd.Flags().GetInt("workers")
		}
		if cmd.Flags().Changed("candidate-timeout") {
			gs.CandidateTimeout, _ = cmd.Flags().GetDuration("candidate-timeout")
		}

		runID := uuid.New()
		started := time.Now()
		result, searchErr := gs.Search(cmd.Context(), series.Values(), cfg.Search.Grid)
		if result == nil {
			return searchErr
		}
		elapsed := time.Since(started)

		report.WriteSearchTable(os.Stdout, result)
		modelLogger().LogSearchSummary(runID.String(), len(result.Results), result.Viable(), result.Best, result.BestScore)

		recordCandidates(cmd, runID, started, result)

		if outputPath != "" {
			export := report.NewSearchExport(runID, started, elapsed, cfg.Model.Lag, cfg.Search.Grid, result)
			if err := report.ExportToJSON(export, outputPath); err != nil {
				return err
			}
			log.WithField("path", outputPath).Info("Search exported")
		}

		// exhausted grids still report their table and candidates before failing
		return searchErr
	},
}

// recordCandidates stores every candidate of the run in the registry, if one is configured.
func recordCandidates(cmd *cobra.Command, runID uuid.UUID, at time.Time, result *forecast.SearchResult) {
	repos, err := openRegistry(cmd.Context())
	if err != nil {
		modelLogger().LogRegistryError("open", err)
		return
	}
	if repos == nil {
		return
	}
	defer repos.Close()

	candidates := make([]*models.Candidate, 0, len(result.Results))
	for _, c := range result.Results {
		candidates = append(candidates, models.NewCandidate(runID, c, at))
	}
	if err := repos.Candidate.InsertBatch(cmd.Context(), candidates); err != nil {
		modelLogger().LogRegistryError("insert candidates", err)
		return
	}
	log.WithField("run_id", runID.String()).Debug("Candidates recorded")
}
