package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tabscan/tabscan/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the tabscan HTTP API server",
		Long:  "Start the HTTP server that profiles uploaded datasets and answers quality checks.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(host, port, dev, cmd.Flags().Changed("host"), cmd.Flags().Changed("port"))
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP listen port")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable development mode (verbose logging)")

	return cmd
}

func runServe(host string, port int, dev, hostSet, portSet bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if hostSet {
		cfg.Server.Host = host
	}
	if portSet {
		cfg.Server.Port = port
	}

	logger := newLogger(cfg.Logging.Level, dev)
	srv := server.New(cfg, versionString(), logger)

	fmt.Printf("tabscan %s\n", versionString())
	fmt.Printf("→ Listening on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("→ OpenAPI: http://%s:%d/openapi.json\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("→ Health:  http://%s:%d/healthz\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println()

	return srv.ListenAndServe()
}
