package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tabscan/tabscan/internal/source"
)

// --------------------------------------------------------------------------
// Parameter extraction helpers
// --------------------------------------------------------------------------

// optionalString extracts an optional string argument from the tool request.
func optionalString(request mcp.CallToolRequest, key string) string {
	return request.GetString(key, "")
}

// optionalInt extracts an optional integer argument from the tool request.
func optionalInt(request mcp.CallToolRequest, key string, defaultVal int) int {
	return request.GetInt(key, defaultVal)
}

// sourceFromRequest resolves a dataset source from the tool arguments.
// Either csv_path alone, or driver+dsn+table for a database table.
func (s *MCPServer) sourceFromRequest(request mcp.CallToolRequest) (source.Source, error) {
	csvPath := optionalString(request, "csv_path")
	driver := optionalString(request, "driver")

	switch {
	case csvPath != "" && driver != "":
		return nil, fmt.Errorf("csv_path and driver are mutually exclusive")
	case csvPath != "":
		return &source.CSVFile{Path: csvPath}, nil
	case driver != "":
		dsn := optionalString(request, "dsn")
		tbl := optionalString(request, "table")
		if dsn == "" || tbl == "" {
			return nil, fmt.Errorf("driver requires dsn and table parameters")
		}
		return &source.SQLTable{Driver: driver, DSN: dsn, Table: tbl}, nil
	default:
		return nil, fmt.Errorf("either csv_path or driver+dsn+table is required")
	}
}

// --------------------------------------------------------------------------
// Response builders
// --------------------------------------------------------------------------

// successJSON marshals data to JSON and returns it as a tool result.
func successJSON(data interface{}) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

// toolError returns a tool-level error result. Errors returned this way are
// visible to the LLM so it can self-correct; they do NOT terminate the MCP
// session.
func toolError(format string, args ...interface{}) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(fmt.Sprintf(format, args...)), nil
}

// clamp constrains val to [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
