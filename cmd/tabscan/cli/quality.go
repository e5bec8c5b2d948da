package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tabscan/tabscan/internal/model"
	"github.com/tabscan/tabscan/internal/profile"
)

func newQualityCmd() *cobra.Command {
	var (
		srcFlags   sourceFlags
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "quality [csv-file]",
		Short: "Score a dataset and gate on the result",
		Long: `Run the full quality check: row/column counts, missing-share threshold,
constant and zero-heavy column detection, and the aggregate score.
Exits with status 1 when the dataset fails the gate, so the command can
guard a pipeline step.`,
		Example: `  tabscan quality data.csv
  tabscan quality data.csv --json
  tabscan quality data.csv && train_model data.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			tbl, err := loadTable(cmd.Context(), args, &srcFlags)
			if err != nil {
				return err
			}

			summary := profile.Summarize(tbl)
			missing := profile.Missingness(tbl)
			flags := profile.ComputeFlags(tbl, summary, missing, cfg.Quality)

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(model.NewQualityResponse(flags, 0)); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "Quality score:      %.2f\n", flags.QualityScore)
				fmt.Fprintf(out, "OK for modeling:    %v\n", flags.OKForModel())
				fmt.Fprintf(out, "Too few rows:       %v\n", flags.TooFewRows)
				fmt.Fprintf(out, "Too many columns:   %v\n", flags.TooManyColumns)
				fmt.Fprintf(out, "Max missing share:  %.2f%%\n", flags.MaxMissingShare*100)
				fmt.Fprintf(out, "Constant columns:   %v\n", flags.HasConstantColumns)
				fmt.Fprintf(out, "Zero-heavy columns: %v\n", flags.HasManyZeroValues)
			}

			if !flags.OKForModel() {
				return fmt.Errorf("dataset failed the quality gate (score %.2f)", flags.QualityScore)
			}
			return nil
		},
	}

	addSourceFlags(cmd, &srcFlags)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
