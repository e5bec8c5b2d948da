// Package report renders analysis results as a Markdown report plus
// supporting CSV tables. Plot rendering happens outside this module;
// the writer only references artifact paths handed to it.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tabscan/tabscan/internal/profile"
)

// Artifacts names externally rendered plot files. Paths are relative to
// the report output directory. Empty fields mean the plot was not
// rendered and the report falls back to a placeholder.
type Artifacts struct {
	Histograms         []string
	MissingMatrix      string
	CorrelationHeatmap string
}

// Options controls report layout and destination.
type Options struct {
	Title  string
	OutDir string
	// MinMissingShare filters the missing-values table: columns below
	// this share are left out of the report.
	MinMissingShare float64
	Artifacts       Artifacts
}

// Input bundles the analysis results the report is rendered from.
type Input struct {
	Summary     profile.DatasetSummary
	Missing     profile.MissingReport
	Flags       profile.Flags
	Correlation profile.Correlation
	Categories  []profile.ColumnCategories
}

// Write renders the Markdown report into opts.OutDir along with one CSV
// table per categorical column, and returns the path of the report file.
func Write(in Input, opts Options) (string, error) {
	if opts.Title == "" {
		opts.Title = "EDA Report"
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	catPaths, err := writeCategoryTables(in.Categories, opts.OutDir)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", opts.Title)

	writeDatasetSection(&b, in.Summary)
	writeQualitySection(&b, in.Flags)
	writeMissingSection(&b, in.Missing, opts.MinMissingShare)
	writeCorrelationSection(&b, in.Correlation)
	writeCategoriesSection(&b, in.Categories, catPaths)
	writeArtifactsSection(&b, opts.Artifacts)

	path := filepath.Join(opts.OutDir, "report.md")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func writeDatasetSection(b *strings.Builder, s profile.DatasetSummary) {
	b.WriteString("## Dataset\n\n")
	fmt.Fprintf(b, "- Rows: %d\n", s.NRows)
	fmt.Fprintf(b, "- Columns: %d\n\n", s.NCols)
}

func writeQualitySection(b *strings.Builder, f profile.Flags) {
	b.WriteString("## Data quality\n\n")
	fmt.Fprintf(b, "- Quality score: %.2f\n", f.QualityScore)
	fmt.Fprintf(b, "- OK for modeling: %s\n", yesNo(f.OKForModel()))
	fmt.Fprintf(b, "- Too few rows: %s\n", yesNo(f.TooFewRows))
	fmt.Fprintf(b, "- Too many columns: %s\n", yesNo(f.TooManyColumns))
	fmt.Fprintf(b, "- Max missing share: %.2f%%\n", f.MaxMissingShare*100)
	fmt.Fprintf(b, "- Constant columns present: %s\n", yesNo(f.HasConstantColumns))
	fmt.Fprintf(b, "- Zero-heavy columns present: %s\n\n", yesNo(f.HasManyZeroValues))
}

func writeMissingSection(b *strings.Builder, m profile.MissingReport, minShare float64) {
	b.WriteString("## Missing values\n\n")

	var shown []profile.MissingEntry
	for _, e := range m.Columns {
		if e.Share >= minShare && e.NMissing > 0 {
			shown = append(shown, e)
		}
	}
	if len(shown) == 0 {
		fmt.Fprintf(b, "No columns with missing share >= %.2f%%.\n\n", minShare*100)
		return
	}

	b.WriteString("| Column | Missing | Share |\n")
	b.WriteString("|---|---|---|\n")
	for _, e := range shown {
		fmt.Fprintf(b, "| %s | %d | %.2f%% |\n", e.Name, e.NMissing, e.Share*100)
	}
	b.WriteString("\n")
}

func writeCorrelationSection(b *strings.Builder, c profile.Correlation) {
	b.WriteString("## Correlation\n\n")

	cols := c.Columns()
	if len(cols) < 2 {
		b.WriteString("Fewer than two numeric columns; no correlation matrix.\n\n")
		return
	}

	b.WriteString("| |")
	for _, name := range cols {
		fmt.Fprintf(b, " %s |", name)
	}
	b.WriteString("\n|---|")
	for range cols {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for i, row := range cols {
		fmt.Fprintf(b, "| %s |", row)
		for j := range cols {
			if v, ok := c.At(i, j); ok {
				fmt.Fprintf(b, " %.3f |", v)
			} else {
				b.WriteString(" - |")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeCategoriesSection(b *strings.Builder, cats []profile.ColumnCategories, paths map[string]string) {
	b.WriteString("## Top categories\n\n")
	if len(cats) == 0 {
		b.WriteString("No categorical columns.\n\n")
		return
	}
	for _, col := range cats {
		fmt.Fprintf(b, "### %s\n\n", col.Name)
		b.WriteString("| Value | Count |\n")
		b.WriteString("|---|---|\n")
		for _, vc := range col.Values {
			fmt.Fprintf(b, "| %s | %d |\n", vc.Value, vc.Count)
		}
		if p, ok := paths[col.Name]; ok {
			fmt.Fprintf(b, "\nFull table: [%s](./%s)\n", p, p)
		}
		b.WriteString("\n")
	}
}

func writeArtifactsSection(b *strings.Builder, a Artifacts) {
	b.WriteString("## Visualizations\n\n")
	if len(a.Histograms) == 0 {
		b.WriteString("No histograms.\n")
	} else {
		for _, h := range a.Histograms {
			fmt.Fprintf(b, "![](./%s)\n", h)
		}
	}
	if a.MissingMatrix != "" {
		fmt.Fprintf(b, "![](./%s)\n", a.MissingMatrix)
	}
	if a.CorrelationHeatmap != "" {
		fmt.Fprintf(b, "![](./%s)\n", a.CorrelationHeatmap)
	}
	b.WriteString("\n")
}

// writeCategoryTables writes one CSV file per categorical column and
// returns the file name for each column.
func writeCategoryTables(cats []profile.ColumnCategories, outDir string) (map[string]string, error) {
	paths := make(map[string]string, len(cats))
	for _, col := range cats {
		name := "top_categories_" + sanitize(col.Name) + ".csv"
		f, err := os.Create(filepath.Join(outDir, name))
		if err != nil {
			return nil, fmt.Errorf("create category table: %w", err)
		}
		w := csv.NewWriter(f)
		if err := w.Write([]string{"value", "count"}); err != nil {
			f.Close()
			return nil, fmt.Errorf("write category table: %w", err)
		}
		for _, vc := range col.Values {
			if err := w.Write([]string{vc.Value, strconv.Itoa(vc.Count)}); err != nil {
				f.Close()
				return nil, fmt.Errorf("write category table: %w", err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, fmt.Errorf("flush category table: %w", err)
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		paths[col.Name] = name
	}
	return paths, nil
}

// sanitize maps a column name to a safe file name fragment.
func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
