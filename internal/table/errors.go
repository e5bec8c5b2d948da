package table

import (
	"errors"
	"fmt"
)

// ErrEmptyDataset is returned by loading layers when the input carries no
// columns at all (e.g. a CSV file without a header row). A table with zero
// rows but named columns is valid and is not this error.
var ErrEmptyDataset = errors.New("empty dataset: no columns")

// ShapeError reports a non-rectangular table: a column (or record) whose
// length disagrees with the rest of the input.
type ShapeError struct {
	Column string // offending column name, empty when only a row index is known
	Row    int    // offending record index, -1 when only a column is known
	Want   int
	Got    int
}

func (e *ShapeError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("ragged table: column %q has %d values, want %d", e.Column, e.Got, e.Want)
	}
	return fmt.Sprintf("ragged table: record %d has %d fields, want %d", e.Row, e.Got, e.Want)
}

// ValueError reports a value that cannot be coerced to a column's declared
// kind, e.g. a non-numeric string in a column declared numeric.
type ValueError struct {
	Column string
	Row    int
	Value  any
	Kind   Kind
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("column %q: value %v at row %d is not coercible to %s", e.Column, e.Value, e.Row, e.Kind)
}
