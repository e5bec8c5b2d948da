package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tabscan/tabscan/internal/config"
	"github.com/tabscan/tabscan/internal/model"
)

func newTestServer(t *testing.T) *MCPServer {
	t.Helper()
	cfg := config.Default()
	cfg.Quality.MinRows = 2
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewMCPServer(cfg, "test", logger)
}

func toolRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		val      int
		min      int
		max      int
		expected int
	}{
		{"value in range", 5, 1, 10, 5},
		{"value below min", -3, 1, 10, 1},
		{"value above max", 200, 1, 100, 100},
		{"value equals min", 1, 1, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clamp(tt.val, tt.min, tt.max); got != tt.expected {
				t.Errorf("clamp(%d, %d, %d) = %d, want %d", tt.val, tt.min, tt.max, got, tt.expected)
			}
		})
	}
}

func TestReadOnlyAnnotation(t *testing.T) {
	ann := readOnlyAnnotation()
	if ann.ReadOnlyHint == nil || !*ann.ReadOnlyHint {
		t.Error("all tabscan tools must carry ReadOnlyHint=true")
	}
}

func TestSourceFromRequest(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		args    map[string]any
		wantErr bool
	}{
		{"csv path", map[string]any{"csv_path": "data.csv"}, false},
		{"sql table", map[string]any{"driver": "sqlite", "dsn": ":memory:", "table": "t"}, false},
		{"no source", map[string]any{}, true},
		{"both sources", map[string]any{"csv_path": "x.csv", "driver": "sqlite", "dsn": "d", "table": "t"}, true},
		{"driver without dsn", map[string]any{"driver": "postgres", "table": "t"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.sourceFromRequest(toolRequest(tt.args))
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDatasetSummaryTool(t *testing.T) {
	s := newTestServer(t)
	path := writeTempCSV(t, "id,region\n1,north\n2,south\n3,north\n")

	res, err := s.handleDatasetSummary(context.Background(), toolRequest(map[string]any{
		"csv_path": path,
	}))
	if err != nil {
		t.Fatalf("handleDatasetSummary: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool returned error result: %+v", res.Content)
	}

	text, ok := mcp.AsTextContent(res.Content[0])
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	var resp model.SummaryResponse
	if err := json.Unmarshal([]byte(text.Text), &resp); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if resp.NRows != 3 || resp.NCols != 2 {
		t.Errorf("shape = %dx%d, want 3x2", resp.NRows, resp.NCols)
	}
}

func TestQualityReportTool(t *testing.T) {
	s := newTestServer(t)
	path := writeTempCSV(t, "a,b\n1,x\n2,y\n3,x\n")

	res, err := s.handleQualityReport(context.Background(), toolRequest(map[string]any{
		"csv_path": path,
	}))
	if err != nil {
		t.Fatalf("handleQualityReport: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool returned error result: %+v", res.Content)
	}

	text, _ := mcp.AsTextContent(res.Content[0])
	var resp model.QualityResponse
	if err := json.Unmarshal([]byte(text.Text), &resp); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if !resp.OKForModel {
		t.Error("clean three-row table over a two-row minimum should pass the gate")
	}
}

func TestToolErrorOnMissingFile(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleMissingReport(context.Background(), toolRequest(map[string]any{
		"csv_path": filepath.Join(t.TempDir(), "absent.csv"),
	}))
	if err != nil {
		t.Fatalf("tool-level failures must not become protocol errors: %v", err)
	}
	if !res.IsError {
		t.Error("expected IsError result for missing file")
	}
}

func TestTopCategoriesToolHonorsK(t *testing.T) {
	s := newTestServer(t)
	path := writeTempCSV(t, "c\nred\nblue\nred\ngreen\nblue\nred\n")

	res, err := s.handleTopCategories(context.Background(), toolRequest(map[string]any{
		"csv_path": path,
		"k":        2,
	}))
	if err != nil {
		t.Fatalf("handleTopCategories: %v", err)
	}
	text, _ := mcp.AsTextContent(res.Content[0])
	var resp model.CategoriesResponse
	if err := json.Unmarshal([]byte(text.Text), &resp); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(resp.Columns) != 1 || len(resp.Columns[0].Values) != 2 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp.Columns[0].Values[0].Value != "red" {
		t.Errorf("top value = %q, want red", resp.Columns[0].Values[0].Value)
	}
}
