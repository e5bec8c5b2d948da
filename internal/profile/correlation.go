package profile

import (
	"math"

	"github.com/tabscan/tabscan/internal/table"
)

// Correlation is the pairwise Pearson correlation over numeric columns.
// The matrix is symmetric; undefined entries (constant columns, pairs with
// fewer than two complete observations) are NaN internally and omitted from
// the serialized form.
type Correlation struct {
	columns []string
	coef    [][]float64
}

// Columns returns the numeric column names, in source order.
func (c Correlation) Columns() []string { return c.columns }

// At returns the coefficient for the pair (i, j) and whether it is defined.
func (c Correlation) At(i, j int) (float64, bool) {
	v := c.coef[i][j]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Map renders the matrix as a nested column-name map, skipping undefined
// entries. Used by the serialization boundary.
func (c Correlation) Map() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(c.columns))
	for i, a := range c.columns {
		row := make(map[string]float64)
		for j, b := range c.columns {
			if v, ok := c.At(i, j); ok {
				row[b] = v
			}
		}
		out[a] = row
	}
	return out
}

// Correlate computes the correlation matrix for the numeric columns of t
// using pairwise-complete observations. Fewer than two numeric columns
// yields an empty matrix, not an error.
func Correlate(t *table.Table) Correlation {
	var cols []*table.Column
	var names []string
	for i := 0; i < t.NCols(); i++ {
		c := t.Column(i)
		if c.Kind() == table.Numeric {
			cols = append(cols, c)
			names = append(names, c.Name())
		}
	}
	if len(cols) < 2 {
		return Correlation{}
	}

	coef := make([][]float64, len(cols))
	for i := range coef {
		coef[i] = make([]float64, len(cols))
	}
	for i := range cols {
		coef[i][i] = diagonal(cols[i])
		for j := i + 1; j < len(cols); j++ {
			r := pearson(cols[i], cols[j])
			coef[i][j] = r
			coef[j][i] = r
		}
	}
	return Correlation{columns: names, coef: coef}
}

// diagonal is exactly 1 for a column with nonzero variance and undefined
// for a constant (or empty) one.
func diagonal(c *table.Column) float64 {
	var first float64
	seen := false
	constant := true
	n := 0
	for i := 0; i < c.Len(); i++ {
		v, ok := c.Num(i)
		if !ok {
			continue
		}
		n++
		if !seen {
			first, seen = v, true
		} else if v != first {
			constant = false
		}
	}
	if n < 2 || constant {
		return math.NaN()
	}
	return 1.0
}

// pearson computes the sample correlation over rows where both columns are
// non-missing.
func pearson(a, b *table.Column) float64 {
	var xs, ys []float64
	for i := 0; i < a.Len(); i++ {
		x, ok := a.Num(i)
		if !ok {
			continue
		}
		y, ok := b.Num(i)
		if !ok {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	n := len(xs)
	if n < 2 {
		return math.NaN()
	}

	var meanX, meanY float64
	for i := 0; i < n; i++ {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return math.NaN()
	}
	r := cov / math.Sqrt(varX*varY)
	// Guard against floating-point drift outside [-1, 1].
	return math.Max(-1, math.Min(1, r))
}
