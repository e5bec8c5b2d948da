package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/tabscan/tabscan/internal/model"
	"github.com/tabscan/tabscan/internal/source"
	"github.com/tabscan/tabscan/internal/table"
)

// writeJSON serializes v as JSON and writes it to the response with the given
// HTTP status code. The Content-Type header is set to application/json.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a structured error response using the standard error
// envelope. The optional ctx map provides additional context fields.
func writeError(w http.ResponseWriter, code int, message string, ctx ...map[string]any) {
	var ctxMap map[string]any
	if len(ctx) > 0 {
		ctxMap = ctx[0]
	}
	writeJSON(w, code, model.ErrorResponse{
		Error: model.ErrorDetail{
			Code:    code,
			Message: message,
			Context: ctxMap,
		},
	})
}

// readJSON decodes the request body as JSON into v. The body is closed after
// decoding regardless of success or failure.
func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// queryInt extracts an integer query parameter, returning defaultVal if the
// parameter is missing or cannot be parsed.
func queryInt(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// tableFromRequest parses the uploaded CSV into a table. Both raw-body
// uploads and multipart forms with a "file" field are accepted. maxBody
// caps the payload size.
func tableFromRequest(r *http.Request, maxBody int64) (*table.Table, error) {
	defer r.Body.Close()
	r.Body = http.MaxBytesReader(nil, r.Body, maxBody)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("missing multipart field %q: %w", "file", err)
		}
		defer f.Close()
		return source.ReadCSV(r.Context(), f, source.CSVOptions{})
	}
	return source.ReadCSV(r.Context(), r.Body, source.CSVOptions{})
}

// classifyEngineError maps engine and parsing failures to HTTP status
// codes. Bad input is the client's problem; anything else is ours.
func classifyEngineError(err error) (int, string) {
	var maxBytes *http.MaxBytesError
	switch {
	case source.IsBadInput(err):
		return http.StatusBadRequest, "invalid dataset: " + err.Error()
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, "dataset too large"
	default:
		return http.StatusInternalServerError, "analysis failed: " + err.Error()
	}
}

// sinceMs returns the elapsed time in milliseconds, the latency unit used
// across responses.
func sinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
