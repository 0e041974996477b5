package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"mcp-health-journal/internal/analysis"
	"mcp-health-journal/internal/config"
	"mcp-health-journal/internal/models"
	"mcp-health-journal/internal/storage"
)

// rangeFlags selects the part of the journal a command analyses.
type rangeFlags struct {
	startDate string
	endDate   string
	days      int
}

func (r *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.startDate, "start-date", "", "First date to include (YYYY-MM-DD); overrides --days")
	cmd.Flags().StringVar(&r.endDate, "end-date", "", "Last date to include (YYYY-MM-DD)")
	cmd.Flags().IntVar(&r.days, "days", -1, "Analyse the last N days (7, 30, 90) or 0 for all time; defaults to analysis_days")
}

// resolve returns the date range to load.
func (r *rangeFlags) resolve(cfg *config.Config, now time.Time) (string, string, error) {
	for _, d := range []string{r.startDate, r.endDate} {
		if d == "" {
			continue
		}
		if err := models.ValidateDate(d); err != nil {
			return "", "", err
		}
	}
	if r.startDate != "" {
		return r.startDate, r.endDate, nil
	}
	days := r.days
	if days < 0 {
		days = cfg.AnalysisDays
	}
	return analysis.RangeStart(now, days), r.endDate, nil
}

func (a *app) newAnalyzeCmd() *cobra.Command {
	var (
		rng          rangeFlags
		lookbackDays int
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Print the full analysis report as JSON",
		Long: `Load the journal for a date range and print correlations, positive
correlations, allergy warnings, summary statistics and the timeline.`,
		Example: `  # Last 90 days with a 12 hour window
  health-journal analyze --days 90 --window-hours 12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if lookbackDays <= 0 {
				lookbackDays = cfg.LookbackDays
			}

			now := time.Now()
			journal, err := loadJournal(cmd.Context(), cfg, &rng, now)
			if err != nil {
				return err
			}

			report := analysis.Analyze(journal, analysis.Options{
				WindowHours:  cfg.WindowHours,
				LookbackDays: lookbackDays,
				Now:          now,
			})
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	rng.register(cmd)
	cmd.Flags().IntVar(&lookbackDays, "lookback-days", 0, "Days scanned for allergy warnings")

	return cmd
}

// loadJournal opens the configured database and reads one snapshot.
func loadJournal(ctx context.Context, cfg *config.Config, rng *rangeFlags, now time.Time) (models.Journal, error) {
	start, end, err := rng.resolve(cfg, now)
	if err != nil {
		return models.Journal{}, err
	}

	store, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return models.Journal{}, fmt.Errorf("failed to open journal: %w", err)
	}
	defer store.Close()

	return store.Snapshot(ctx, start, end)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
