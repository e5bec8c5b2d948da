package profile

import (
	"testing"

	"github.com/tabscan/tabscan/internal/table"
)

func TestCorrelateSymmetricDiagonalOne(t *testing.T) {
	tbl := mustTable(t,
		table.FromStrings("x", []string{"1", "2", "3", "4"}),
		table.FromStrings("y", []string{"2", "4", "6", "8"}),
		table.FromStrings("label", []string{"a", "b", "c", "d"}),
	)
	c := Correlate(tbl)

	if got := c.Columns(); len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Fatalf("Columns() = %v, want [x y]", got)
	}
	for i := 0; i < 2; i++ {
		d, ok := c.At(i, i)
		if !ok || d != 1.0 {
			t.Errorf("diagonal (%d,%d) = %v, %v; want exactly 1", i, i, d, ok)
		}
		for j := 0; j < 2; j++ {
			a, okA := c.At(i, j)
			b, okB := c.At(j, i)
			if okA != okB || a != b {
				t.Errorf("matrix not symmetric at (%d,%d)", i, j)
			}
		}
	}
	r, ok := c.At(0, 1)
	if !ok || !almostEqual(r, 1.0) {
		t.Errorf("corr(x, y) = %v, want 1 for perfectly linear data", r)
	}
}

func TestCorrelateNegative(t *testing.T) {
	tbl := mustTable(t,
		table.FromStrings("x", []string{"1", "2", "3"}),
		table.FromStrings("y", []string{"6", "4", "2"}),
	)
	r, ok := Correlate(tbl).At(0, 1)
	if !ok || !almostEqual(r, -1.0) {
		t.Errorf("corr = %v, want -1", r)
	}
}

func TestCorrelateConstantColumnUndefined(t *testing.T) {
	tbl := mustTable(t,
		table.FromStrings("x", []string{"1", "2", "3"}),
		table.FromStrings("const", []string{"5", "5", "5"}),
	)
	c := Correlate(tbl)
	if _, ok := c.At(0, 1); ok {
		t.Error("pair with constant column should be undefined")
	}
	if _, ok := c.At(1, 1); ok {
		t.Error("constant column diagonal should be undefined")
	}
	if d, ok := c.At(0, 0); !ok || d != 1.0 {
		t.Errorf("non-constant diagonal = %v, %v; want 1", d, ok)
	}
}

func TestCorrelateFewerThanTwoNumericColumns(t *testing.T) {
	tests := []struct {
		name string
		cols []table.Column
	}{
		{"no columns", nil},
		{"one numeric", []table.Column{table.FromStrings("x", []string{"1", "2"})}},
		{"only categorical", []table.Column{
			table.FromStrings("a", []string{"x", "y"}),
			table.FromStrings("b", []string{"p", "q"}),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Correlate(mustTable(t, tt.cols...))
			if len(c.Columns()) != 0 {
				t.Errorf("want empty matrix, got columns %v", c.Columns())
			}
		})
	}
}

func TestCorrelatePairwiseCompleteObservations(t *testing.T) {
	// Rows 0 and 3 are complete for both columns; the pair statistics use
	// only those.
	tbl := mustTable(t,
		table.FromStrings("x", []string{"1", "", "3", "4"}),
		table.FromStrings("y", []string{"10", "20", "", "40"}),
	)
	r, ok := Correlate(tbl).At(0, 1)
	if !ok || !almostEqual(r, 1.0) {
		t.Errorf("corr over complete pairs = %v, %v; want 1", r, ok)
	}
}

func TestCorrelationMapOmitsUndefined(t *testing.T) {
	tbl := mustTable(t,
		table.FromStrings("x", []string{"1", "2", "3"}),
		table.FromStrings("const", []string{"5", "5", "5"}),
	)
	m := Correlate(tbl).Map()
	if _, ok := m["x"]["x"]; !ok {
		t.Error("defined diagonal missing from map")
	}
	if _, ok := m["x"]["const"]; ok {
		t.Error("undefined pair present in map")
	}
	if _, ok := m["const"]["const"]; ok {
		t.Error("undefined diagonal present in map")
	}
}
