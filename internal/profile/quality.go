package profile

import (
	"fmt"

	"github.com/tabscan/tabscan/internal/table"
)

// QualityConfig carries the explicit, overridable thresholds and penalty
// weights of the flag engine. Zero values are not meaningful; start from
// DefaultQualityConfig and adjust.
type QualityConfig struct {
	// MinRows is the row count below which TooFewRows triggers. A dataset
	// with exactly MinRows rows is acceptable.
	MinRows int `yaml:"min_rows"`
	// MaxCols is the column count above which TooManyColumns triggers.
	MaxCols int `yaml:"max_cols"`
	// MaxMissingShare is the per-column missing share above which
	// TooManyMissing triggers.
	MaxMissingShare float64 `yaml:"max_missing_share"`
	// ZeroShare is the share of zero-valued non-missing entries above which
	// a numeric column counts as zero-heavy.
	ZeroShare float64 `yaml:"zero_share"`
	// Penalties are the per-flag score deductions.
	Penalties Penalties `yaml:"penalties"`
}

// Penalties are the fixed per-flag weights subtracted from a perfect score.
// Their sum must not exceed 1.0 so a clean dataset scores exactly 1.0 and a
// fully flagged one never goes below 0.
type Penalties struct {
	TooFewRows         float64 `yaml:"too_few_rows"`
	TooManyColumns     float64 `yaml:"too_many_columns"`
	TooManyMissing     float64 `yaml:"too_many_missing"`
	HasConstantColumns float64 `yaml:"has_constant_columns"`
	HasManyZeroValues  float64 `yaml:"has_many_zero_values"`
}

func (p Penalties) sum() float64 {
	return p.TooFewRows + p.TooManyColumns + p.TooManyMissing + p.HasConstantColumns + p.HasManyZeroValues
}

// DefaultQualityConfig returns the documented default thresholds.
func DefaultQualityConfig() QualityConfig {
	return QualityConfig{
		MinRows:         100,
		MaxCols:         100,
		MaxMissingShare: 0.5,
		ZeroShare:       0.9,
		Penalties: Penalties{
			TooFewRows:         0.3,
			TooManyColumns:     0.1,
			TooManyMissing:     0.3,
			HasConstantColumns: 0.15,
			HasManyZeroValues:  0.15,
		},
	}
}

// Validate rejects configurations whose thresholds or weights are out of
// range before any analysis runs with them.
func (c QualityConfig) Validate() error {
	if c.MinRows < 0 || c.MaxCols < 0 {
		return fmt.Errorf("quality config: row/column thresholds must be non-negative")
	}
	if c.MaxMissingShare < 0 || c.MaxMissingShare > 1 {
		return fmt.Errorf("quality config: max_missing_share %v outside [0, 1]", c.MaxMissingShare)
	}
	if c.ZeroShare < 0 || c.ZeroShare > 1 {
		return fmt.Errorf("quality config: zero_share %v outside [0, 1]", c.ZeroShare)
	}
	p := c.Penalties
	for _, w := range []float64{p.TooFewRows, p.TooManyColumns, p.TooManyMissing, p.HasConstantColumns, p.HasManyZeroValues} {
		if w < 0 {
			return fmt.Errorf("quality config: penalty weights must be non-negative")
		}
	}
	if s := p.sum(); s > 1.0 {
		return fmt.Errorf("quality config: penalty weights sum to %v, must not exceed 1.0", s)
	}
	return nil
}

// Flags is the fixed, typed quality verdict. Every flag is a named field;
// there is no dynamic keying to mistype or silently default.
type Flags struct {
	TooFewRows         bool    `json:"too_few_rows"`
	TooManyColumns     bool    `json:"too_many_columns"`
	TooManyMissing     bool    `json:"too_many_missing"`
	MaxMissingShare    float64 `json:"max_missing_share"`
	HasConstantColumns bool    `json:"has_constant_columns"`
	HasManyZeroValues  bool    `json:"has_many_zero_values"`
	// QualityScore is 1.0 minus the triggered penalties, clamped to [0, 1].
	// Monotone non-increasing in the set of triggered flags.
	QualityScore float64 `json:"quality_score"`
}

// OKForModel reports whether the dataset passes the modeling gate.
func (f Flags) OKForModel() bool { return f.QualityScore > 0.5 }

// ComputeFlags derives the quality flags and score from a real analysis
// pass: the raw table (for the zero-value check), its summary (for the
// constant-column check), and its missingness report.
//
// Policy decisions:
//   - a column counts as constant only with exactly one distinct
//     non-missing value; all-missing columns (NUnique 0) are excluded,
//     since "no values" is not "one value repeated";
//   - numeric columns with zero non-missing entries are excluded from the
//     zero-heavy check rather than flagged.
func ComputeFlags(t *table.Table, s DatasetSummary, m MissingReport, cfg QualityConfig) Flags {
	f := Flags{
		TooFewRows:      s.NRows < cfg.MinRows,
		TooManyColumns:  s.NCols > cfg.MaxCols,
		MaxMissingShare: m.MaxShare(),
	}
	f.TooManyMissing = f.MaxMissingShare > cfg.MaxMissingShare

	for _, col := range s.Columns {
		if col.NUnique == 1 {
			f.HasConstantColumns = true
			break
		}
	}

	for i := 0; i < t.NCols(); i++ {
		if zeroHeavy(t.Column(i), cfg.ZeroShare) {
			f.HasManyZeroValues = true
			break
		}
	}

	f.QualityScore = score(f, cfg.Penalties)
	return f
}

// EstimateFromShape scores a dataset from its shape alone: row count,
// column count, and the maximum missing share. It is a purely arithmetic
// path for parameter-only callers; the data-dependent flags (constant
// columns, zero-heavy columns) cannot be evaluated without values and stay
// false. Use ComputeFlags when the actual table is available.
func EstimateFromShape(nRows, nCols int, maxMissingShare float64, cfg QualityConfig) Flags {
	f := Flags{
		TooFewRows:      nRows < cfg.MinRows,
		TooManyColumns:  nCols > cfg.MaxCols,
		MaxMissingShare: maxMissingShare,
	}
	f.TooManyMissing = maxMissingShare > cfg.MaxMissingShare
	f.QualityScore = score(f, cfg.Penalties)
	return f
}

func zeroHeavy(c *table.Column, threshold float64) bool {
	if c.Kind() != table.Numeric {
		return false
	}
	nonMissing, zeros := 0, 0
	for i := 0; i < c.Len(); i++ {
		v, ok := c.Num(i)
		if !ok {
			continue
		}
		nonMissing++
		if v == 0 {
			zeros++
		}
	}
	if nonMissing == 0 {
		return false
	}
	return float64(zeros)/float64(nonMissing) > threshold
}

func score(f Flags, p Penalties) float64 {
	total := 0.0
	if f.TooFewRows {
		total += p.TooFewRows
	}
	if f.TooManyColumns {
		total += p.TooManyColumns
	}
	if f.TooManyMissing {
		total += p.TooManyMissing
	}
	if f.HasConstantColumns {
		total += p.HasConstantColumns
	}
	if f.HasManyZeroValues {
		total += p.HasManyZeroValues
	}
	s := 1.0 - total
	if s < 0 {
		s = 0
	}
	return s
}
