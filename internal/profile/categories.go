package profile

import (
	"sort"

	"github.com/tabscan/tabscan/internal/table"
)

// DefaultTopK is the number of value/count pairs reported per categorical
// column when the caller does not override it.
const DefaultTopK = 5

// ValueCount is one value-frequency pair.
type ValueCount struct {
	Value string
	Count int
}

// ColumnCategories holds the top values of one categorical/other column,
// ordered by descending count, then by first occurrence in the source.
type ColumnCategories struct {
	Name   string
	Values []ValueCount
}

// TopCategories computes per-column top-k frequencies for every
// non-numeric column of t. k <= 0 falls back to DefaultTopK. Reporting
// only; never consumed by scoring.
func TopCategories(t *table.Table, k int) []ColumnCategories {
	if k <= 0 {
		k = DefaultTopK
	}
	var out []ColumnCategories
	for i := 0; i < t.NCols(); i++ {
		c := t.Column(i)
		if c.Kind() == table.Numeric {
			continue
		}
		out = append(out, ColumnCategories{Name: c.Name(), Values: topValues(c, k)})
	}
	return out
}

func topValues(c *table.Column, k int) []ValueCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i := 0; i < c.Len(); i++ {
		if c.Missing(i) {
			continue
		}
		v := c.Raw(i)
		if _, ok := counts[v]; !ok {
			firstSeen[v] = i
		}
		counts[v]++
	}

	pairs := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		pairs = append(pairs, ValueCount{Value: v, Count: n})
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		return firstSeen[pairs[i].Value] < firstSeen[pairs[j].Value]
	})
	if len(pairs) > k {
		pairs = pairs[:k]
	}
	return pairs
}
