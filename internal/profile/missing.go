package profile

import "github.com/tabscan/tabscan/internal/table"

// MissingEntry is the missingness record for one column.
type MissingEntry struct {
	Name     string
	NMissing int
	// Share is NMissing / NRows, defined as 0 (not NaN) for a zero-row
	// table so downstream threshold comparisons stay well-formed.
	Share float64
}

// MissingReport tabulates missing values per column, in source order.
type MissingReport struct {
	Columns []MissingEntry
}

// Missingness computes the missing-value report for t. It is independent of
// Summarize so a lightweight missing-only report needs no full profile.
func Missingness(t *table.Table) MissingReport {
	r := MissingReport{Columns: make([]MissingEntry, 0, t.NCols())}
	for i := 0; i < t.NCols(); i++ {
		c := t.Column(i)
		n := 0
		for j := 0; j < c.Len(); j++ {
			if c.Missing(j) {
				n++
			}
		}
		e := MissingEntry{Name: c.Name(), NMissing: n}
		if t.NRows() > 0 {
			e.Share = float64(n) / float64(t.NRows())
		}
		r.Columns = append(r.Columns, e)
	}
	return r
}

// MaxShare returns the largest per-column missing share, 0 when the report
// has no columns.
func (r MissingReport) MaxShare() float64 {
	max := 0.0
	for _, e := range r.Columns {
		if e.Share > max {
			max = e.Share
		}
	}
	return max
}
