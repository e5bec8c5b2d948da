// Package table holds the in-memory rectangular table the profiling engine
// operates on. A Table is immutable once constructed: every analysis pass
// receives its own table and produces fresh results, so concurrent analyses
// need no synchronization.
package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the coarse storage category of a column. Classification is by
// storage type only; cardinality plays no part in it.
type Kind int

const (
	// Numeric columns hold values coercible to float64.
	Numeric Kind = iota
	// Categorical columns hold free-form text.
	Categorical
	// Other covers remaining storage types (booleans, timestamps, ...).
	// They are summarized with categorical-style statistics as a fallback.
	Other
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "other"
	}
}

// DefaultMissingTokens are the raw cell values treated as missing when
// loading text data, mirroring the usual CSV conventions.
var DefaultMissingTokens = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "None"}

// cell is one column entry. For numeric columns num holds the parsed value;
// raw always holds the display form.
type cell struct {
	raw     string
	num     float64
	missing bool
}

// Column is a named, ordered sequence of cells sharing one storage kind.
type Column struct {
	name  string
	kind  Kind
	cells []cell
}

// Name returns the column identifier, unique within its table.
func (c *Column) Name() string { return c.name }

// Kind returns the column's storage category.
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of cells, including missing ones.
func (c *Column) Len() int { return len(c.cells) }

// Missing reports whether the cell at index i is a missing value.
func (c *Column) Missing(i int) bool { return c.cells[i].missing }

// Raw returns the textual form of the cell at index i. For a missing cell it
// returns the empty string.
func (c *Column) Raw(i int) string {
	if c.cells[i].missing {
		return ""
	}
	return c.cells[i].raw
}

// Num returns the parsed numeric value at index i. The second return is
// false for missing cells and for non-numeric columns.
func (c *Column) Num(i int) (float64, bool) {
	if c.kind != Numeric || c.cells[i].missing {
		return 0, false
	}
	return c.cells[i].num, true
}

// stringsOptions collects the knobs for FromStrings.
type stringsOptions struct {
	missing map[string]struct{}
}

// Option configures text-based column construction.
type Option func(*stringsOptions)

// WithMissingTokens replaces the default set of raw values treated as missing.
func WithMissingTokens(tokens []string) Option {
	return func(o *stringsOptions) {
		o.missing = make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			o.missing[t] = struct{}{}
		}
	}
}

// FromStrings builds a column from raw text, inferring its kind: numeric if
// every non-missing value parses as a float, categorical otherwise. An
// all-missing text column is numeric (all values are vacuously
// numeric-or-missing), with its statistics absent downstream.
func FromStrings(name string, values []string, opts ...Option) Column {
	o := stringsOptions{}
	WithMissingTokens(DefaultMissingTokens)(&o)
	for _, opt := range opts {
		opt(&o)
	}

	cells := make([]cell, len(values))
	numeric := true
	for i, v := range values {
		trimmed := strings.TrimSpace(v)
		if _, ok := o.missing[trimmed]; ok {
			cells[i] = cell{missing: true}
			continue
		}
		cells[i] = cell{raw: v}
		if numeric {
			f, err := strconv.ParseFloat(trimmed, 64)
			if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
				numeric = false
			} else {
				cells[i].num = f
			}
		}
	}

	kind := Categorical
	if numeric {
		kind = Numeric
	}
	return Column{name: name, kind: kind, cells: cells}
}

// FromValues builds a column of a declared kind from typed values, the path
// used by database-backed sources. nil values are missing. A value that
// cannot be coerced to a declared-numeric column is a *ValueError; nothing
// is coerced or dropped silently.
func FromValues(name string, kind Kind, values []any) (Column, error) {
	cells := make([]cell, len(values))
	for i, v := range values {
		if v == nil {
			cells[i] = cell{missing: true}
			continue
		}
		switch kind {
		case Numeric:
			f, ok := toFloat(v)
			if !ok {
				return Column{}, &ValueError{Column: name, Row: i, Value: v, Kind: kind}
			}
			if math.IsNaN(f) {
				cells[i] = cell{missing: true}
				continue
			}
			cells[i] = cell{raw: strconv.FormatFloat(f, 'g', -1, 64), num: f}
		default:
			cells[i] = cell{raw: toString(v)}
		}
	}
	return Column{name: name, kind: kind, cells: cells}, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int:
		return float64(n), true
	case uint64:
		return float64(n), true
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case time.Time:
		return s.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Table is a rectangular set of ordered, uniquely named columns.
type Table struct {
	columns []Column
	nRows   int
}

// New assembles a table from columns, enforcing rectangularity. Columns of
// differing lengths produce a *ShapeError; no partial table is returned.
// Zero columns is a valid (empty) table.
func New(columns ...Column) (*Table, error) {
	t := &Table{columns: columns}
	if len(columns) == 0 {
		return t, nil
	}
	t.nRows = columns[0].Len()
	for _, c := range columns[1:] {
		if c.Len() != t.nRows {
			return nil, &ShapeError{Column: c.name, Row: -1, Want: t.nRows, Got: c.Len()}
		}
	}
	return t, nil
}

// NRows returns the number of rows. Zero for a column-less table.
func (t *Table) NRows() int { return t.nRows }

// NCols returns the number of columns.
func (t *Table) NCols() int { return len(t.columns) }

// Columns returns the columns in source order.
func (t *Table) Columns() []Column { return t.columns }

// Column returns the column at index i.
func (t *Table) Column(i int) *Column { return &t.columns[i] }
