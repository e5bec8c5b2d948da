package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tabscan/tabscan/internal/profile"
	"github.com/tabscan/tabscan/internal/table"
)

func fixtureInput(t *testing.T) Input {
	t.Helper()

	tbl, err := table.New(
		table.FromStrings("id", []string{"1", "2", "3", "4"}),
		table.FromStrings("amount", []string{"10", "", "30", "40"}),
		table.FromStrings("region", []string{"north", "south", "north", "east"}),
	)
	if err != nil {
		t.Fatal(err)
	}

	summary := profile.Summarize(tbl)
	missing := profile.Missingness(tbl)
	return Input{
		Summary:     summary,
		Missing:     missing,
		Flags:       profile.ComputeFlags(tbl, summary, missing, profile.DefaultQualityConfig()),
		Correlation: profile.Correlate(tbl),
		Categories:  profile.TopCategories(tbl, 5),
	}
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	path, err := Write(fixtureInput(t), Options{
		Title:           "Orders Report",
		OutDir:          dir,
		MinMissingShare: 0.05,
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if path != filepath.Join(dir, "report.md") {
		t.Errorf("report path = %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	md := string(raw)

	for _, want := range []string{
		"# Orders Report",
		"## Dataset",
		"- Rows: 4",
		"- Columns: 3",
		"## Data quality",
		"Too few rows: yes",
		"## Missing values",
		"| amount | 1 | 25.00% |",
		"## Correlation",
		"## Top categories",
		"### region",
		"| north | 2 |",
		"No histograms.",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestWriteCategoryCSV(t *testing.T) {
	dir := t.TempDir()
	if _, err := Write(fixtureInput(t), Options{OutDir: dir}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "top_categories_region.csv"))
	if err != nil {
		t.Fatalf("category table not written: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read category table: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want header + 3 values", len(rows))
	}
	if rows[0][0] != "value" || rows[0][1] != "count" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "north" || rows[1][1] != "2" {
		t.Errorf("first value = %v, want north,2", rows[1])
	}
}

func TestMissingShareFilter(t *testing.T) {
	dir := t.TempDir()
	_, err := Write(fixtureInput(t), Options{
		OutDir:          dir,
		MinMissingShare: 0.5,
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "report.md"))
	if err != nil {
		t.Fatal(err)
	}
	md := string(raw)
	if strings.Contains(md, "| amount |") {
		t.Error("amount at 25% missing should be filtered by a 50% threshold")
	}
	if !strings.Contains(md, "No columns with missing share") {
		t.Error("expected empty-table placeholder")
	}
}

func TestArtifactReferences(t *testing.T) {
	dir := t.TempDir()
	_, err := Write(fixtureInput(t), Options{
		OutDir: dir,
		Artifacts: Artifacts{
			Histograms:         []string{"hist_amount.png"},
			MissingMatrix:      "missing_matrix.png",
			CorrelationHeatmap: "correlation_heatmap.png",
		},
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "report.md"))
	if err != nil {
		t.Fatal(err)
	}
	md := string(raw)
	for _, want := range []string{
		"![](./hist_amount.png)",
		"![](./missing_matrix.png)",
		"![](./correlation_heatmap.png)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing artifact reference %q", want)
		}
	}
	if strings.Contains(md, "No histograms.") {
		t.Error("placeholder should be absent when histograms exist")
	}
}
