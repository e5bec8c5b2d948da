// Package model defines the serialized forms exchanged at the API and CLI
// boundary. The engine's internal result types are converted here, never
// exposed raw.
package model

import (
	"github.com/tabscan/tabscan/internal/profile"
)

// ColumnRecord is the flattened, serializable form of one column summary.
// Statistics that are absent for the column's kind (or because every value
// is missing) are omitted rather than zeroed.
type ColumnRecord struct {
	Name          string   `json:"name"`
	DTypeCategory string   `json:"dtype_category"`
	NMissing      int      `json:"n_missing"`
	NUnique       int      `json:"n_unique"`
	Min           *float64 `json:"min,omitempty"`
	Max           *float64 `json:"max,omitempty"`
	Mean          *float64 `json:"mean,omitempty"`
	Std           *float64 `json:"std,omitempty"`
	TopValue      *string  `json:"top_value,omitempty"`
	TopValueCount *int     `json:"top_value_count,omitempty"`
}

// SummaryResponse is the payload of the column-summary endpoint.
type SummaryResponse struct {
	NRows     int            `json:"n_rows"`
	NCols     int            `json:"n_cols"`
	Columns   []ColumnRecord `json:"columns"`
	LatencyMs float64        `json:"latency_ms"`
}

// MissingColumn is the per-column entry of the missing-value report.
type MissingColumn struct {
	NMissing     int     `json:"n_missing"`
	MissingShare float64 `json:"missing_share"`
}

// MissingResponse is the payload of the missing-report endpoint. Columns
// preserves source order; ByColumn is keyed access to the same entries.
type MissingResponse struct {
	Columns         []string                 `json:"columns"`
	ByColumn        map[string]MissingColumn `json:"by_column"`
	MaxMissingShare float64                  `json:"max_missing_share"`
	LatencyMs       float64                  `json:"latency_ms"`
}

// QualityResponse is the payload of the quality endpoints.
type QualityResponse struct {
	OKForModel   bool          `json:"ok_for_model"`
	QualityScore float64       `json:"quality_score"`
	Flags        profile.Flags `json:"flags"`
	LatencyMs    float64       `json:"latency_ms"`
}

// CorrelationResponse is the payload of the correlation endpoint. Matrix is
// symmetric with undefined pairs omitted.
type CorrelationResponse struct {
	Columns   []string                      `json:"columns"`
	Matrix    map[string]map[string]float64 `json:"matrix"`
	LatencyMs float64                       `json:"latency_ms"`
}

// CategoryCount is one value/count pair.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ColumnCategories lists the top values of one categorical column.
type ColumnCategories struct {
	Name   string          `json:"name"`
	Values []CategoryCount `json:"values"`
}

// CategoriesResponse is the payload of the top-categories endpoint.
type CategoriesResponse struct {
	Columns   []ColumnCategories `json:"columns"`
	LatencyMs float64            `json:"latency_ms"`
}

// QualityRequest is the body of the shape-only quality estimate.
type QualityRequest struct {
	NRows           int     `json:"n_rows"`
	NCols           int     `json:"n_cols"`
	MaxMissingShare float64 `json:"max_missing_share"`
}

// HealthResponse is the payload of the health probe.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Service string `json:"service"`
}

// ErrorResponse is the standard envelope for error responses.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the structured error information returned by the API.
type ErrorDetail struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

// NewColumnRecord flattens one engine column summary.
func NewColumnRecord(s profile.ColumnSummary) ColumnRecord {
	r := ColumnRecord{
		Name:          s.Name,
		DTypeCategory: s.Kind.String(),
		NMissing:      s.NMissing,
		NUnique:       s.NUnique,
	}
	if s.Numeric != nil {
		r.Min = ptr(s.Numeric.Min)
		r.Max = ptr(s.Numeric.Max)
		r.Mean = ptr(s.Numeric.Mean)
		r.Std = ptr(s.Numeric.Std)
	}
	if s.Categorical != nil {
		r.TopValue = ptr(s.Categorical.TopValue)
		r.TopValueCount = ptr(s.Categorical.TopCount)
	}
	return r
}

// NewSummaryResponse flattens a dataset summary into the wire form.
func NewSummaryResponse(s profile.DatasetSummary, latencyMs float64) SummaryResponse {
	cols := make([]ColumnRecord, 0, len(s.Columns))
	for _, c := range s.Columns {
		cols = append(cols, NewColumnRecord(c))
	}
	return SummaryResponse{NRows: s.NRows, NCols: s.NCols, Columns: cols, LatencyMs: latencyMs}
}

// NewMissingResponse converts the engine missing report.
func NewMissingResponse(r profile.MissingReport, latencyMs float64) MissingResponse {
	resp := MissingResponse{
		Columns:         make([]string, 0, len(r.Columns)),
		ByColumn:        make(map[string]MissingColumn, len(r.Columns)),
		MaxMissingShare: r.MaxShare(),
		LatencyMs:       latencyMs,
	}
	for _, e := range r.Columns {
		resp.Columns = append(resp.Columns, e.Name)
		resp.ByColumn[e.Name] = MissingColumn{NMissing: e.NMissing, MissingShare: e.Share}
	}
	return resp
}

// NewQualityResponse wraps engine flags for the wire.
func NewQualityResponse(f profile.Flags, latencyMs float64) QualityResponse {
	return QualityResponse{
		OKForModel:   f.OKForModel(),
		QualityScore: f.QualityScore,
		Flags:        f,
		LatencyMs:    latencyMs,
	}
}

// NewCorrelationResponse converts the engine correlation matrix.
func NewCorrelationResponse(c profile.Correlation, latencyMs float64) CorrelationResponse {
	return CorrelationResponse{
		Columns:   c.Columns(),
		Matrix:    c.Map(),
		LatencyMs: latencyMs,
	}
}

// NewCategoriesResponse converts the engine category frequencies.
func NewCategoriesResponse(cats []profile.ColumnCategories, latencyMs float64) CategoriesResponse {
	resp := CategoriesResponse{Columns: make([]ColumnCategories, 0, len(cats)), LatencyMs: latencyMs}
	for _, c := range cats {
		col := ColumnCategories{Name: c.Name, Values: make([]CategoryCount, 0, len(c.Values))}
		for _, v := range c.Values {
			col.Values = append(col.Values, CategoryCount{Value: v.Value, Count: v.Count})
		}
		resp.Columns = append(resp.Columns, col)
	}
	return resp
}

func ptr[T any](v T) *T { return &v }
