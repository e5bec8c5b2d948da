package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tabscan/tabscan/internal/model"
	"github.com/tabscan/tabscan/internal/profile"
	"github.com/tabscan/tabscan/internal/source"
)

// registerResources adds MCP resource definitions to the server. Resources
// provide read-only data that LLM clients can load into their context.
func (s *MCPServer) registerResources(srv *server.MCPServer) {

	// -------------------------------------------------------------------
	// tabscan://config/quality — active quality thresholds
	// -------------------------------------------------------------------
	srv.AddResource(
		mcp.NewResource(
			"tabscan://config/quality",
			"Quality Thresholds",
			mcp.WithResourceDescription(
				"The quality thresholds and penalty weights the server applies "+
					"when scoring datasets: minimum rows, maximum columns, missing "+
					"and zero-share limits.",
			),
			mcp.WithMIMEType("application/json"),
		),
		s.handleQualityConfigResource,
	)

	// -------------------------------------------------------------------
	// tabscan://summary/{path} — dataset summary for a CSV file (template)
	// -------------------------------------------------------------------
	srv.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"tabscan://summary/{path}",
			"Dataset Summary",
			mcp.WithTemplateDescription(
				"Per-column descriptive statistics for the CSV file at the "+
					"given path, same payload as the dataset_summary tool.",
			),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handleSummaryResource,
	)
}

// handleQualityConfigResource returns the active quality configuration.
func (s *MCPServer) handleQualityConfigResource(
	ctx context.Context,
	request mcp.ReadResourceRequest,
) ([]mcp.ResourceContents, error) {

	b, err := json.MarshalIndent(s.cfg.Quality, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal quality config: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "tabscan://config/quality",
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}

// handleSummaryResource profiles the CSV file named in the URI.
func (s *MCPServer) handleSummaryResource(
	ctx context.Context,
	request mcp.ReadResourceRequest,
) ([]mcp.ResourceContents, error) {

	// Extract the file path from "tabscan://summary/{path}".
	uri := request.Params.URI
	path := strings.TrimPrefix(uri, "tabscan://summary/")
	if path == "" || path == uri {
		return nil, fmt.Errorf("invalid summary URI %q: expected tabscan://summary/{path}", uri)
	}

	src := &source.CSVFile{Path: path}
	tbl, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", path, err)
	}

	summary := profile.Summarize(tbl)
	b, err := json.MarshalIndent(model.NewSummaryResponse(summary, 0), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}
