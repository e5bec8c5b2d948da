package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tabscan/tabscan/internal/table"
)

// CSVOptions control CSV parsing.
type CSVOptions struct {
	// Comma is the field delimiter; ',' when zero.
	Comma rune
	// MissingTokens overrides table.DefaultMissingTokens when non-nil.
	MissingTokens []string
	// MaxRows caps the number of data rows read; 0 means unlimited.
	MaxRows int
}

// CSVFile is a Source backed by a CSV file on disk.
type CSVFile struct {
	Path    string
	Options CSVOptions
}

// Name returns the file path.
func (s *CSVFile) Name() string { return s.Path }

// Load opens and parses the file.
func (s *CSVFile) Load(ctx context.Context) (*table.Table, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()
	return ReadCSV(ctx, f, s.Options)
}

// ReadCSV parses UTF-8 CSV text into a table. The first record is the
// header; input without one is table.ErrEmptyDataset. Ragged records are a
// *table.ShapeError: nothing is truncated or padded.
func ReadCSV(ctx context.Context, r io.Reader, opts CSVOptions) (*table.Table, error) {
	reader := csv.NewReader(r)
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}
	// Length mismatches are reported as our own typed error below.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, table.ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cells := make([][]string, len(header))
	row := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record %d: %w", row, err)
		}
		if len(record) != len(header) {
			return nil, &table.ShapeError{Row: row, Want: len(header), Got: len(record)}
		}
		for i, v := range record {
			cells[i] = append(cells[i], v)
		}
		row++
		if opts.MaxRows > 0 && row >= opts.MaxRows {
			break
		}
	}

	var colOpts []table.Option
	if opts.MissingTokens != nil {
		colOpts = append(colOpts, table.WithMissingTokens(opts.MissingTokens))
	}
	cols := make([]table.Column, len(header))
	for i, name := range header {
		cols[i] = table.FromStrings(name, cells[i], colOpts...)
	}
	return table.New(cols...)
}

// IsBadInput reports whether err is a client-side data problem rather than
// an environment failure. The service layer maps these to 4xx responses.
func IsBadInput(err error) bool {
	var shapeErr *table.ShapeError
	var valueErr *table.ValueError
	var parseErr *csv.ParseError
	return errors.Is(err, table.ErrEmptyDataset) ||
		errors.As(err, &shapeErr) ||
		errors.As(err, &valueErr) ||
		errors.As(err, &parseErr)
}
