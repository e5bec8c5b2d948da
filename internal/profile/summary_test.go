package profile

import (
	"math"
	"testing"

	"github.com/tabscan/tabscan/internal/table"
)

// mustTable builds a table from name/values pairs, failing the test on
// ragged input.
func mustTable(t *testing.T, cols ...table.Column) *table.Table {
	t.Helper()
	tbl, err := table.New(cols...)
	if err != nil {
		t.Fatalf("table.New: %v", err)
	}
	return tbl
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarizeShape(t *testing.T) {
	tbl := mustTable(t,
		table.FromStrings("a", []string{"1", "2", "3"}),
		table.FromStrings("b", []string{"x", "y", "x"}),
	)
	s := Summarize(tbl)
	if s.NRows != 3 || s.NCols != 2 {
		t.Fatalf("shape = %dx%d, want 3x2", s.NRows, s.NCols)
	}
	if len(s.Columns) != s.NCols {
		t.Fatalf("len(Columns) = %d, want %d", len(s.Columns), s.NCols)
	}
	if s.Columns[0].Name != "a" || s.Columns[1].Name != "b" {
		t.Errorf("column order not preserved: %q, %q", s.Columns[0].Name, s.Columns[1].Name)
	}
}

func TestSummarizeNumericColumn(t *testing.T) {
	tbl := mustTable(t, table.FromStrings("v", []string{"2", "4", "", "6"}))
	s := Summarize(tbl).Columns[0]

	if s.Kind != table.Numeric {
		t.Fatalf("Kind = %s, want numeric", s.Kind)
	}
	if s.NMissing != 1 || s.NUnique != 3 {
		t.Errorf("NMissing=%d NUnique=%d, want 1 and 3", s.NMissing, s.NUnique)
	}
	if s.Numeric == nil {
		t.Fatal("numeric stats absent")
	}
	if s.Categorical != nil {
		t.Error("categorical stats populated for a numeric column")
	}
	if s.Numeric.Min != 2 || s.Numeric.Max != 6 {
		t.Errorf("min/max = %v/%v, want 2/6", s.Numeric.Min, s.Numeric.Max)
	}
	if !almostEqual(s.Numeric.Mean, 4) {
		t.Errorf("Mean = %v, want 4", s.Numeric.Mean)
	}
	// Sample std of {2,4,6} is 2.
	if !almostEqual(s.Numeric.Std, 2) {
		t.Errorf("Std = %v, want 2", s.Numeric.Std)
	}
}

func TestSummarizeSingleValueStd(t *testing.T) {
	tbl := mustTable(t, table.FromStrings("v", []string{"7"}))
	s := Summarize(tbl).Columns[0]
	if s.Numeric == nil {
		t.Fatal("numeric stats absent for single-row column")
	}
	if s.Numeric.Std != 0 {
		t.Errorf("Std = %v, want 0 for a single value", s.Numeric.Std)
	}
}

func TestSummarizeAllMissingColumn(t *testing.T) {
	tbl := mustTable(t, table.FromStrings("v", []string{"", "NA", "NaN"}))
	s := Summarize(tbl).Columns[0]
	if s.NMissing != 3 || s.NUnique != 0 {
		t.Errorf("NMissing=%d NUnique=%d, want 3 and 0", s.NMissing, s.NUnique)
	}
	if s.Numeric != nil || s.Categorical != nil {
		t.Error("all-missing column must have absent stats, not zero stats")
	}
}

func TestSummarizeCategoricalColumn(t *testing.T) {
	tbl := mustTable(t, table.FromStrings("city", []string{"rome", "oslo", "rome", "", "oslo", "rome"}))
	s := Summarize(tbl).Columns[0]

	if s.Kind != table.Categorical {
		t.Fatalf("Kind = %s, want categorical", s.Kind)
	}
	if s.NMissing != 1 || s.NUnique != 2 {
		t.Errorf("NMissing=%d NUnique=%d, want 1 and 2", s.NMissing, s.NUnique)
	}
	if s.Categorical == nil {
		t.Fatal("categorical stats absent")
	}
	if s.Numeric != nil {
		t.Error("numeric stats populated for a categorical column")
	}
	if s.Categorical.TopValue != "rome" || s.Categorical.TopCount != 3 {
		t.Errorf("top = %q x%d, want rome x3", s.Categorical.TopValue, s.Categorical.TopCount)
	}
}

func TestSummarizeTopValueTieBreaksByFirstOccurrence(t *testing.T) {
	tbl := mustTable(t, table.FromStrings("c", []string{"b", "a", "b", "a"}))
	s := Summarize(tbl).Columns[0]
	if s.Categorical.TopValue != "b" {
		t.Errorf("TopValue = %q, want first-seen %q on tie", s.Categorical.TopValue, "b")
	}
}

func TestSummarizeOtherKindGetsCategoricalStats(t *testing.T) {
	col, err := table.FromValues("flag", table.Other, []any{true, false, true})
	if err != nil {
		t.Fatalf("FromValues: %v", err)
	}
	s := Summarize(mustTable(t, col)).Columns[0]
	if s.Kind != table.Other {
		t.Fatalf("Kind = %s, want other", s.Kind)
	}
	if s.Categorical == nil || s.Categorical.TopValue != "true" {
		t.Errorf("other column should fall back to categorical stats, got %+v", s.Categorical)
	}
}

func TestSummarizeEmptyTable(t *testing.T) {
	s := Summarize(mustTable(t))
	if s.NRows != 0 || s.NCols != 0 || len(s.Columns) != 0 {
		t.Errorf("empty table summary = %+v", s)
	}
}
