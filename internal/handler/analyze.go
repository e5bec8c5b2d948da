// Package handler implements the HTTP endpoints of the profiling service.
// Handlers parse the request, run the pure engine, and serialize the
// result; they hold no state beyond their configuration.
package handler

import (
	"net/http"
	"time"

	"github.com/tabscan/tabscan/internal/model"
	"github.com/tabscan/tabscan/internal/profile"
)

// AnalyzeHandler serves the dataset-analysis endpoints. Each request is an
// independent computation over its own uploaded table, so concurrent
// requests need no coordination.
type AnalyzeHandler struct {
	quality     profile.QualityConfig
	topK        int
	maxBodySize int64
}

// NewAnalyzeHandler builds the handler from explicit configuration.
func NewAnalyzeHandler(quality profile.QualityConfig, topK int, maxBodySize int64) *AnalyzeHandler {
	return &AnalyzeHandler{quality: quality, topK: topK, maxBodySize: maxBodySize}
}

// Summary handles POST /api/v1/summary: full per-column descriptive
// statistics for an uploaded CSV.
func (h *AnalyzeHandler) Summary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	tbl, err := tableFromRequest(r, h.maxBodySize)
	if err != nil {
		code, msg := classifyEngineError(err)
		writeError(w, code, msg)
		return
	}
	s := profile.Summarize(tbl)
	writeJSON(w, http.StatusOK, model.NewSummaryResponse(s, sinceMs(start)))
}

// Missing handles POST /api/v1/missing: the standalone missing-value
// report, without a full profile pass.
func (h *AnalyzeHandler) Missing(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	tbl, err := tableFromRequest(r, h.maxBodySize)
	if err != nil {
		code, msg := classifyEngineError(err)
		writeError(w, code, msg)
		return
	}
	m := profile.Missingness(tbl)
	writeJSON(w, http.StatusOK, model.NewMissingResponse(m, sinceMs(start)))
}

// QualityFromCSV handles POST /api/v1/quality/csv: full analysis of an
// uploaded CSV ending in the quality verdict.
func (h *AnalyzeHandler) QualityFromCSV(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	flags, ok := h.analyzeQuality(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, model.NewQualityResponse(flags, sinceMs(start)))
}

// QualityFlags handles POST /api/v1/quality/flags: the bare flag set for
// an uploaded CSV.
func (h *AnalyzeHandler) QualityFlags(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	flags, ok := h.analyzeQuality(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Flags     profile.Flags `json:"flags"`
		LatencyMs float64       `json:"latency_ms"`
	}{flags, sinceMs(start)})
}

// analyzeQuality runs the full scoring pipeline for an uploaded table. On
// failure it writes the error response and returns ok=false.
func (h *AnalyzeHandler) analyzeQuality(w http.ResponseWriter, r *http.Request) (profile.Flags, bool) {
	tbl, err := tableFromRequest(r, h.maxBodySize)
	if err != nil {
		code, msg := classifyEngineError(err)
		writeError(w, code, msg)
		return profile.Flags{}, false
	}
	summary := profile.Summarize(tbl)
	missing := profile.Missingness(tbl)
	return profile.ComputeFlags(tbl, summary, missing, h.quality), true
}

// QualityEstimate handles POST /api/v1/quality: the parameter-only score
// estimated from dataset shape alone. No table is synthesized; the
// data-dependent flags are not evaluated on this path.
func (h *AnalyzeHandler) QualityEstimate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req model.QualityRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.NRows < 0 || req.NCols < 0 {
		writeError(w, http.StatusBadRequest, "n_rows and n_cols must be non-negative")
		return
	}
	if req.MaxMissingShare < 0 || req.MaxMissingShare > 1 {
		writeError(w, http.StatusBadRequest, "max_missing_share must be in [0, 1]")
		return
	}
	flags := profile.EstimateFromShape(req.NRows, req.NCols, req.MaxMissingShare, h.quality)
	writeJSON(w, http.StatusOK, model.NewQualityResponse(flags, sinceMs(start)))
}

// Correlation handles POST /api/v1/correlation.
func (h *AnalyzeHandler) Correlation(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	tbl, err := tableFromRequest(r, h.maxBodySize)
	if err != nil {
		code, msg := classifyEngineError(err)
		writeError(w, code, msg)
		return
	}
	c := profile.Correlate(tbl)
	writeJSON(w, http.StatusOK, model.NewCorrelationResponse(c, sinceMs(start)))
}

// Categories handles POST /api/v1/categories. The k query parameter
// overrides the configured top-K.
func (h *AnalyzeHandler) Categories(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	k := queryInt(r, "k", h.topK)
	tbl, err := tableFromRequest(r, h.maxBodySize)
	if err != nil {
		code, msg := classifyEngineError(err)
		writeError(w, code, msg)
		return
	}
	cats := profile.TopCategories(tbl, k)
	writeJSON(w, http.StatusOK, model.NewCategoriesResponse(cats, sinceMs(start)))
}
