package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tabscan/tabscan/internal/model"
	"github.com/tabscan/tabscan/internal/profile"
)

func newOverviewCmd() *cobra.Command {
	var (
		srcFlags   sourceFlags
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "overview [csv-file]",
		Short: "Print per-column descriptive statistics",
		Long: `Profile every column of a dataset: kind, missing and unique counts,
min/max/mean/std for numeric columns, and the most frequent value for
categorical ones.`,
		Example: `  tabscan overview data.csv
  tabscan overview data.csv --json
  tabscan overview --driver postgres --dsn $DSN --table orders`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := loadTable(cmd.Context(), args, &srcFlags)
			if err != nil {
				return err
			}
			summary := profile.Summarize(tbl)

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(model.NewSummaryResponse(summary, 0))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rows: %d  Columns: %d\n\n", summary.NRows, summary.NCols)

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "COLUMN\tKIND\tMISSING\tUNIQUE\tMIN\tMAX\tMEAN\tSTD\tTOP VALUE")
			for _, col := range summary.Columns {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
					col.Name, col.Kind, col.NMissing, col.NUnique,
					formatStat(col, func(n profile.NumericStats) float64 { return n.Min }),
					formatStat(col, func(n profile.NumericStats) float64 { return n.Max }),
					formatStat(col, func(n profile.NumericStats) float64 { return n.Mean }),
					formatStat(col, func(n profile.NumericStats) float64 { return n.Std }),
					formatTop(col),
				)
			}
			return w.Flush()
		},
	}

	addSourceFlags(cmd, &srcFlags)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func formatStat(col profile.ColumnSummary, pick func(profile.NumericStats) float64) string {
	if col.Numeric == nil {
		return "-"
	}
	return fmt.Sprintf("%.4g", pick(*col.Numeric))
}

func formatTop(col profile.ColumnSummary) string {
	if col.Categorical == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%d)", col.Categorical.TopValue, col.Categorical.TopCount)
}
