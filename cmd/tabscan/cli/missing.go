package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tabscan/tabscan/internal/model"
	"github.com/tabscan/tabscan/internal/profile"
)

func newMissingCmd() *cobra.Command {
	var (
		srcFlags   sourceFlags
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "missing [csv-file]",
		Short: "Report missing values per column",
		Example: `  tabscan missing data.csv
  tabscan missing --driver sqlite --dsn app.db --table users`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := loadTable(cmd.Context(), args, &srcFlags)
			if err != nil {
				return err
			}
			report := profile.Missingness(tbl)

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(model.NewMissingResponse(report, 0))
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "COLUMN\tMISSING\tSHARE")
			for _, e := range report.Columns {
				fmt.Fprintf(w, "%s\t%d\t%.2f%%\n", e.Name, e.NMissing, e.Share*100)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nMax missing share: %.2f%%\n", report.MaxShare()*100)
			return nil
		},
	}

	addSourceFlags(cmd, &srcFlags)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
