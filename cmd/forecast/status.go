package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yourusername/sales-forecast/internal/models"
	"github.com/yourusername/sales-forecast/internal/report"
	"github.com/yourusername/sales-forecast/internal/repository"
)

func init() {
	statusCmd.Flags().String("run", "", "Show the stored candidates of this search run ID")
	statusCmd.Flags().String("version", "", "Show this version of registry.model_name")
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show registered models or a stored search run",
	Long:  `Lists the active models, falling back to the latest version of registry.model_name when none is active. With --run it lists a search run's candidates and its best order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repos, err := openRegistry(cmd.Context())
		if err != nil {
			return err
		}
		if repos == nil {
			return fmt.Errorf("model registry is disabled (registry.driver=%q)", cfg.Registry.Driver)
		}
		defer repos.Close()

		if run, _ := cmd.Flags().GetString("run"); run != "" {
			runID, err := uuid.Parse(run)
			if err != nil {
				return fmt.Errorf("invalid run ID %q: %w", run, err)
			}
			return showRun(cmd, repos, runID)
		}

		if version, _ := cmd.Flags().GetString("version"); version != "" {
			record, err := repos.Model.GetByVersion(cmd.Context(), cfg.Registry.ModelName, version)
			if err != nil {
				return err
			}
			report.WriteModelTable(os.Stdout, []*models.Model{record})
			return nil
		}

		records, err := repos.Model.GetActive(cmd.Context())
		if err != nil {
			return err
		}
		if len(records) == 0 {
			latest, err := repos.Model.GetLatest(cmd.Context(), cfg.Registry.ModelName)
			if errors.Is(err, models.ErrNotFound) {
				fmt.Printf("No %s models registered\n", cfg.Registry.ModelName)
				return nil
			}
			if err != nil {
				return err
			}
			records = []*models.Model{latest}
		}
		report.WriteModelTable(os.Stdout, records)
		return nil
	},
}

func showRun(cmd *cobra.Command, repos *repository.Repositories, runID uuid.UUID) error {
	candidates, err := repos.Candidate.GetByRunID(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return fmt.Errorf("search run %s: %w", runID, models.ErrNotFound)
	}

	best, err := repos.Candidate.GetBest(cmd.Context(), runID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}
	report.WriteCandidateTable(os.Stdout, candidates, best)
	return nil
}
