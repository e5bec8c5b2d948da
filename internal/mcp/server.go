package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tabscan/tabscan/internal/config"
)

// MCPServer wraps the mcp-go server with tabscan-specific tool and resource
// registrations. It exposes the profiling engine as MCP tools so AI agents
// can inspect datasets, check quality, and pull category breakdowns without
// shelling out to the CLI.
type MCPServer struct {
	cfg    config.Config
	logger *slog.Logger
	server *server.MCPServer
}

// NewMCPServer creates an MCPServer pre-loaded with all tabscan tools and
// resources. The returned server is ready to serve over stdio or HTTP.
func NewMCPServer(cfg config.Config, version string, logger *slog.Logger) *MCPServer {
	s := &MCPServer{
		cfg:    cfg,
		logger: logger,
	}

	mcpServer := server.NewMCPServer(
		"tabscan Dataset Profiler",
		version,
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.server = mcpServer
	return s
}

// Server returns the underlying mcp-go MCPServer instance. Useful for
// advanced configuration or testing.
func (s *MCPServer) Server() *server.MCPServer {
	return s.server
}

// ServeStdio starts the MCP server in stdio mode. This is the primary
// integration path for MCP clients that launch the server as a subprocess.
func (s *MCPServer) ServeStdio() error {
	s.logger.Info("starting MCP server in stdio mode")
	return server.ServeStdio(s.server)
}

// ServeHTTP starts the MCP server in Streamable HTTP mode, listening on
// the given address (e.g. ":3001"). This is suitable for remote MCP clients.
func (s *MCPServer) ServeHTTP(addr string) error {
	httpServer := server.NewStreamableHTTPServer(s.server)
	s.logger.Info("MCP HTTP server starting", "addr", addr)
	return httpServer.Start(addr)
}

// All tabscan tools are read-only: they analyze datasets and never write.
func readOnlyAnnotation() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		ReadOnlyHint: boolPtr(true),
	}
}

func boolPtr(b bool) *bool {
	return &b
}
