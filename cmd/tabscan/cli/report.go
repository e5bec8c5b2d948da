package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tabscan/tabscan/internal/profile"
	"github.com/tabscan/tabscan/internal/report"
)

func newReportCmd() *cobra.Command {
	var (
		srcFlags        sourceFlags
		outDir          string
		title           string
		maxHistColumns  int
		minMissingShare float64
		topK            int
	)

	cmd := &cobra.Command{
		Use:   "report [csv-file]",
		Short: "Write a Markdown EDA report",
		Long: `Run the full analysis and write a Markdown report into the output
directory, along with one CSV table of top categories per categorical
column. Plots are rendered by external tooling; when their files exist
in the output directory the report links them, otherwise it notes their
absence.`,
		Example: `  tabscan report data.csv
  tabscan report data.csv --out-dir reports --title "Orders EDA"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = cfg.Report.OutDir
			}
			if title == "" {
				title = cfg.Report.Title
			}
			if minMissingShare < 0 {
				minMissingShare = cfg.Report.MinMissingShare
			}
			if topK <= 0 {
				topK = cfg.Report.TopK
			}

			tbl, err := loadTable(cmd.Context(), args, &srcFlags)
			if err != nil {
				return err
			}

			summary := profile.Summarize(tbl)
			missing := profile.Missingness(tbl)
			in := report.Input{
				Summary:     summary,
				Missing:     missing,
				Flags:       profile.ComputeFlags(tbl, summary, missing, cfg.Quality),
				Correlation: profile.Correlate(tbl),
				Categories:  profile.TopCategories(tbl, topK),
			}

			path, err := report.Write(in, report.Options{
				Title:           title,
				OutDir:          outDir,
				MinMissingShare: minMissingShare,
				Artifacts:       findArtifacts(outDir, maxHistColumns),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
			return nil
		},
	}

	addSourceFlags(cmd, &srcFlags)
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Output directory (default from config: reports)")
	cmd.Flags().StringVar(&title, "title", "", "Report title (default from config: EDA Report)")
	cmd.Flags().IntVar(&maxHistColumns, "max-hist-columns", 6, "Reference at most this many histogram files")
	cmd.Flags().Float64Var(&minMissingShare, "min-missing-share", -1, "Minimum missing share for a column to appear in the report")
	cmd.Flags().IntVar(&topK, "top-k", 0, "Top categories per column (default from config)")

	return cmd
}

// findArtifacts looks for plot files an external renderer may already have
// placed in the output directory and returns their names for the report to
// reference.
func findArtifacts(outDir string, maxHist int) report.Artifacts {
	var a report.Artifacts
	hists, _ := filepath.Glob(filepath.Join(outDir, "hist_*.png"))
	sort.Strings(hists)
	for _, h := range hists {
		if len(a.Histograms) >= maxHist {
			break
		}
		a.Histograms = append(a.Histograms, filepath.Base(h))
	}
	if _, err := os.Stat(filepath.Join(outDir, "missing_matrix.png")); err == nil {
		a.MissingMatrix = "missing_matrix.png"
	}
	if _, err := os.Stat(filepath.Join(outDir, "correlation_heatmap.png")); err == nil {
		a.CorrelationHeatmap = "correlation_heatmap.png"
	}
	return a
}
