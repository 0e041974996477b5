package cli

import (
	"time"

	"github.com/spf13/cobra"

	"mcp-health-journal/internal/analysis"
)

func (a *app) newPredictCmd() *cobra.Command {
	var rng rangeFlags

	cmd := &cobra.Command{
		Use:   "predict <ingredient>...",
		Short: "Predict how a meal is likely to affect you",
		Long: `Score a hypothetical meal against the correlations found in the
journal and the known allergies. Nothing is written to the journal.`,
		Example: `  health-journal predict milk bread "peanut butter"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			journal, err := loadJournal(cmd.Context(), cfg, &rng, time.Now())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), analysis.Predict(journal, args, cfg.WindowHours))
		},
	}

	rng.register(cmd)
	return cmd
}
