// Package profile is the profiling-and-scoring engine: dataset and column
// summarization, missingness tabulation, pairwise correlation, category
// frequencies, and the quality-flag computation that consumes them. Every
// function here is a pure, synchronous computation over an in-memory table;
// results are fresh per call and read-only afterward.
package profile

import (
	"math"

	"github.com/tabscan/tabscan/internal/table"
)

// NumericStats are the descriptive statistics of a numeric column, computed
// over non-missing values only.
type NumericStats struct {
	Min  float64
	Max  float64
	Mean float64
	// Std is the sample standard deviation (n-1 denominator). A column with
	// exactly one non-missing value has Std 0, not an undefined value.
	Std float64
}

// CategoricalStats describe the modal value of a categorical (or other)
// column. Ties are broken by first occurrence in source order.
type CategoricalStats struct {
	TopValue string
	TopCount int
}

// ColumnSummary is the per-column profiling result. Exactly one of Numeric
// and Categorical is populated, selected by Kind; both are nil for a column
// whose values are all missing, so absent statistics are never mistaken for
// zero-valued ones.
type ColumnSummary struct {
	Name        string
	Kind        table.Kind
	NMissing    int
	NUnique     int
	Numeric     *NumericStats
	Categorical *CategoricalStats
}

// DatasetSummary is the whole-table profiling result. Columns preserve
// source order and its length equals NCols.
type DatasetSummary struct {
	NRows   int
	NCols   int
	Columns []ColumnSummary
}

// Summarize profiles every column of t. Rectangularity is guaranteed by
// table construction, so the pass cannot fail; an empty table yields an
// empty summary.
func Summarize(t *table.Table) DatasetSummary {
	s := DatasetSummary{
		NRows:   t.NRows(),
		NCols:   t.NCols(),
		Columns: make([]ColumnSummary, 0, t.NCols()),
	}
	for i := 0; i < t.NCols(); i++ {
		s.Columns = append(s.Columns, summarizeColumn(t.Column(i)))
	}
	return s
}

// summarizeColumn profiles a single column.
func summarizeColumn(c *table.Column) ColumnSummary {
	s := ColumnSummary{Name: c.Name(), Kind: c.Kind()}

	if c.Kind() == table.Numeric {
		summarizeNumeric(c, &s)
	} else {
		summarizeCategorical(c, &s)
	}
	return s
}

func summarizeNumeric(c *table.Column, s *ColumnSummary) {
	distinct := make(map[float64]struct{})
	var (
		values []float64
		sum    float64
	)
	for i := 0; i < c.Len(); i++ {
		v, ok := c.Num(i)
		if !ok {
			s.NMissing++
			continue
		}
		distinct[v] = struct{}{}
		values = append(values, v)
		sum += v
	}
	s.NUnique = len(distinct)
	if len(values) == 0 {
		return
	}

	stats := &NumericStats{Min: values[0], Max: values[0], Mean: sum / float64(len(values))}
	for _, v := range values {
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
	}
	if len(values) > 1 {
		var sq float64
		for _, v := range values {
			d := v - stats.Mean
			sq += d * d
		}
		stats.Std = math.Sqrt(sq / float64(len(values)-1))
	}
	s.Numeric = stats
}

func summarizeCategorical(c *table.Column, s *ColumnSummary) {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i := 0; i < c.Len(); i++ {
		if c.Missing(i) {
			s.NMissing++
			continue
		}
		v := c.Raw(i)
		if _, ok := counts[v]; !ok {
			firstSeen[v] = i
		}
		counts[v]++
	}
	s.NUnique = len(counts)
	if len(counts) == 0 {
		return
	}

	top := &CategoricalStats{TopCount: -1}
	for v, n := range counts {
		if n > top.TopCount || (n == top.TopCount && firstSeen[v] < firstSeen[top.TopValue]) {
			top.TopValue = v
			top.TopCount = n
		}
	}
	s.Categorical = top
}
