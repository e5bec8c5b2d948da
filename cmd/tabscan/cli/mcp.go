package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	tmcp "github.com/tabscan/tabscan/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	var (
		transport string
		port      int
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server for AI agents",
		Long: `Start a Model Context Protocol (MCP) server that exposes the profiling
engine as read-only tools for AI agents. Supports stdio (default) and
Streamable HTTP transports.

In stdio mode, the MCP server communicates over stdin/stdout using
JSON-RPC, suitable for direct integration with MCP clients that launch
the server as a subprocess.`,
		Example: `  tabscan mcp                              # stdio mode
  tabscan mcp --transport http --port 3001  # Streamable HTTP mode`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(transport, port)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport mode: stdio or http")
	cmd.Flags().IntVar(&port, "port", 3001, "HTTP port (only used with --transport http)")

	return cmd
}

func runMCP(transport string, port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Logging.Level, false)
	srv := tmcp.NewMCPServer(cfg, versionString(), logger)

	switch transport {
	case "stdio":
		return srv.ServeStdio()
	case "http":
		return srv.ServeHTTP(fmt.Sprintf(":%d", port))
	default:
		return fmt.Errorf("unsupported transport %q; use 'stdio' or 'http'", transport)
	}
}
