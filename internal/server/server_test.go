package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tabscan/tabscan/internal/config"
	"github.com/tabscan/tabscan/internal/model"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

const ordersCSV = `order_id,amount,region
1,10.5,north
2,20.0,south
3,,north
4,15.25,east
5,30.0,north
`

// testEnv holds the shared state for server integration tests.
type testEnv struct {
	server *Server
	cfg    config.Config
}

// newTestEnv creates a fully wired Server over default configuration. The
// quality thresholds are relaxed so small fixture tables do not trip the
// row-count flag unless the test wants them to.
func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.Quality.MinRows = 3
	for _, fn := range mutate {
		fn(&cfg)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testEnv{server: New(cfg, "test", logger), cfg: cfg}
}

// do executes an HTTP request against the test server and returns the
// recorder. headers is an optional map of header key-value pairs.
func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	e.server.ServeHTTP(rr, req)
	return rr
}

// postCSV uploads CSV text to the given path as a text/csv body.
func (e *testEnv) postCSV(t *testing.T, path, csv string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, "POST", path, strings.NewReader(csv), map[string]string{
		"Content-Type": "text/csv",
	})
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("jsonBody: %v", err)
	}
	return bytes.NewReader(b)
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, rr.Body.String())
	}
}

func assertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d\nbody: %s", rr.Code, want, rr.Body.String())
	}
}

// ---------------------------------------------------------------------------
// Health and spec endpoints
// ---------------------------------------------------------------------------

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "GET", "/healthz", nil, nil)
	assertStatus(t, rr, http.StatusOK)

	var resp model.HealthResponse
	decodeJSON(t, rr, &resp)
	if resp.Status != "healthy" {
		t.Errorf("status = %q, want healthy", resp.Status)
	}
	if resp.Service != "tabscan" {
		t.Errorf("service = %q, want tabscan", resp.Service)
	}
	if resp.Version != "test" {
		t.Errorf("version = %q, want test", resp.Version)
	}
}

func TestReadyz(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "GET", "/readyz", nil, nil)
	assertStatus(t, rr, http.StatusOK)
}

func TestOpenAPISpec(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "GET", "/openapi.json", nil, nil)
	assertStatus(t, rr, http.StatusOK)

	var doc map[string]any
	decodeJSON(t, rr, &doc)
	paths, ok := doc["paths"].(map[string]any)
	if !ok {
		t.Fatal("spec has no paths object")
	}
	for _, p := range []string{"/api/v1/quality", "/api/v1/summary", "/api/v1/correlation"} {
		if _, ok := paths[p]; !ok {
			t.Errorf("spec missing path %s", p)
		}
	}
}

func TestRequestIDHeaderOnResponses(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "GET", "/healthz", nil, nil)
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID header")
	}
}

// ---------------------------------------------------------------------------
// Analysis endpoints
// ---------------------------------------------------------------------------

func TestSummaryEndpoint(t *testing.T) {
	env := newTestEnv(t)
	rr := env.postCSV(t, "/api/v1/summary", ordersCSV)
	assertStatus(t, rr, http.StatusOK)

	var resp model.SummaryResponse
	decodeJSON(t, rr, &resp)
	if resp.NRows != 5 || resp.NCols != 3 {
		t.Errorf("shape = %dx%d, want 5x3", resp.NRows, resp.NCols)
	}
	if len(resp.Columns) != 3 {
		t.Fatalf("got %d column records, want 3", len(resp.Columns))
	}

	amount := resp.Columns[1]
	if amount.Name != "amount" || amount.DTypeCategory != "numeric" {
		t.Errorf("column 1 = %s/%s, want amount/numeric", amount.Name, amount.DTypeCategory)
	}
	if amount.NMissing != 1 {
		t.Errorf("amount n_missing = %d, want 1", amount.NMissing)
	}
	if amount.Mean == nil || *amount.Mean != 18.9375 {
		t.Errorf("amount mean = %v, want 18.9375", amount.Mean)
	}

	region := resp.Columns[2]
	if region.DTypeCategory != "categorical" {
		t.Errorf("region kind = %s, want categorical", region.DTypeCategory)
	}
	if region.TopValue == nil || *region.TopValue != "north" {
		t.Errorf("region top_value = %v, want north", region.TopValue)
	}
}

func TestMissingEndpoint(t *testing.T) {
	env := newTestEnv(t)
	rr := env.postCSV(t, "/api/v1/missing", ordersCSV)
	assertStatus(t, rr, http.StatusOK)

	var resp model.MissingResponse
	decodeJSON(t, rr, &resp)
	if got := resp.ByColumn["amount"].NMissing; got != 1 {
		t.Errorf("amount n_missing = %d, want 1", got)
	}
	if resp.MaxMissingShare != 0.2 {
		t.Errorf("max_missing_share = %v, want 0.2", resp.MaxMissingShare)
	}
}

func TestQualityEstimateEndpoint(t *testing.T) {
	env := newTestEnv(t)

	body := jsonBody(t, model.QualityRequest{NRows: 500, NCols: 12, MaxMissingShare: 0.1})
	rr := env.do(t, "POST", "/api/v1/quality", body, map[string]string{"Content-Type": "application/json"})
	assertStatus(t, rr, http.StatusOK)

	var resp model.QualityResponse
	decodeJSON(t, rr, &resp)
	if !resp.OKForModel {
		t.Error("clean shape should be ok_for_model")
	}
	if resp.QualityScore != 1.0 {
		t.Errorf("quality_score = %v, want 1.0", resp.QualityScore)
	}
}

func TestQualityEstimateRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		req  model.QualityRequest
	}{
		{"negative rows", model.QualityRequest{NRows: -1, NCols: 3}},
		{"negative cols", model.QualityRequest{NRows: 10, NCols: -3}},
		{"share above one", model.QualityRequest{NRows: 10, NCols: 3, MaxMissingShare: 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, "POST", "/api/v1/quality", jsonBody(t, tt.req), nil)
			assertStatus(t, rr, http.StatusBadRequest)

			var resp model.ErrorResponse
			decodeJSON(t, rr, &resp)
			if resp.Error.Code != http.StatusBadRequest {
				t.Errorf("error.code = %d, want 400", resp.Error.Code)
			}
		})
	}
}

func TestQualityCSVEndpoint(t *testing.T) {
	env := newTestEnv(t)
	rr := env.postCSV(t, "/api/v1/quality/csv", ordersCSV)
	assertStatus(t, rr, http.StatusOK)

	var resp model.QualityResponse
	decodeJSON(t, rr, &resp)
	if resp.Flags.TooFewRows {
		t.Error("five rows over a min of three should not flag too_few_rows")
	}
	if resp.QualityScore <= 0 || resp.QualityScore > 1 {
		t.Errorf("quality_score = %v, want in (0, 1]", resp.QualityScore)
	}
}

func TestQualityFlagsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	rr := env.postCSV(t, "/api/v1/quality/flags", ordersCSV)
	assertStatus(t, rr, http.StatusOK)

	var resp struct {
		Flags struct {
			QualityScore float64 `json:"quality_score"`
		} `json:"flags"`
		LatencyMs float64 `json:"latency_ms"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Flags.QualityScore == 0 {
		t.Error("expected nonzero quality_score in flags payload")
	}
}

func TestCorrelationEndpoint(t *testing.T) {
	env := newTestEnv(t)
	csv := "x,y\n1,2\n2,4\n3,6\n4,8\n"
	rr := env.postCSV(t, "/api/v1/correlation", csv)
	assertStatus(t, rr, http.StatusOK)

	var resp model.CorrelationResponse
	decodeJSON(t, rr, &resp)
	if got := resp.Matrix["x"]["y"]; got != 1.0 {
		t.Errorf("corr(x, y) = %v, want 1.0", got)
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	env := newTestEnv(t)
	rr := env.postCSV(t, "/api/v1/categories?k=1", ordersCSV)
	assertStatus(t, rr, http.StatusOK)

	var resp model.CategoriesResponse
	decodeJSON(t, rr, &resp)
	if len(resp.Columns) != 1 {
		t.Fatalf("got %d categorical columns, want 1", len(resp.Columns))
	}
	col := resp.Columns[0]
	if col.Name != "region" {
		t.Errorf("column = %q, want region", col.Name)
	}
	if len(col.Values) != 1 {
		t.Fatalf("k=1 returned %d values", len(col.Values))
	}
	if col.Values[0].Value != "north" || col.Values[0].Count != 3 {
		t.Errorf("top = %+v, want north/3", col.Values[0])
	}
}

func TestMultipartUpload(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	contentType := newMultipart(t, &buf, "file", "orders.csv", ordersCSV)
	rr := env.do(t, "POST", "/api/v1/summary", &buf, map[string]string{
		"Content-Type": contentType,
	})
	assertStatus(t, rr, http.StatusOK)

	var resp model.SummaryResponse
	decodeJSON(t, rr, &resp)
	if resp.NRows != 5 {
		t.Errorf("n_rows = %d, want 5", resp.NRows)
	}
}

// ---------------------------------------------------------------------------
// Error classification
// ---------------------------------------------------------------------------

func TestEmptyUploadIsBadRequest(t *testing.T) {
	env := newTestEnv(t)
	rr := env.postCSV(t, "/api/v1/summary", "")
	assertStatus(t, rr, http.StatusBadRequest)
}

func TestRaggedUploadIsBadRequest(t *testing.T) {
	env := newTestEnv(t)
	rr := env.postCSV(t, "/api/v1/summary", "a,b\n1,2\n3\n")
	assertStatus(t, rr, http.StatusBadRequest)
}

func TestOversizeUploadIsRejected(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config) {
		cfg.Server.MaxBodySize = 64
	})
	big := "a,b\n" + strings.Repeat("1,2\n", 100)
	rr := env.postCSV(t, "/api/v1/summary", big)
	assertStatus(t, rr, http.StatusRequestEntityTooLarge)
}

// ---------------------------------------------------------------------------
// Auth and rate limiting
// ---------------------------------------------------------------------------

func TestAPIKeyGuardsAnalysisRoutes(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config) {
		cfg.Server.APIKey = "topsecret"
	})

	rr := env.postCSV(t, "/api/v1/summary", ordersCSV)
	assertStatus(t, rr, http.StatusUnauthorized)

	rr = env.do(t, "POST", "/api/v1/summary", strings.NewReader(ordersCSV), map[string]string{
		"Content-Type": "text/csv",
		"X-API-Key":    "topsecret",
	})
	assertStatus(t, rr, http.StatusOK)

	// Health probes stay open.
	rr = env.do(t, "GET", "/healthz", nil, nil)
	assertStatus(t, rr, http.StatusOK)
}

func TestRateLimitOnAnalysisRoutes(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config) {
		cfg.Server.RatePerMinute = 2
	})

	var last int
	for i := 0; i < 3; i++ {
		rr := env.postCSV(t, "/api/v1/summary", ordersCSV)
		last = rr.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", last)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "GET", "/api/v1/nope", nil, nil)
	assertStatus(t, rr, http.StatusNotFound)
}

// newMultipart writes a single-file multipart body and returns its
// Content-Type value.
func newMultipart(t *testing.T, buf *bytes.Buffer, field, filename, content string) string {
	t.Helper()
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("multipart: %v", err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		t.Fatalf("multipart write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("multipart close: %v", err)
	}
	return w.FormDataContentType()
}
