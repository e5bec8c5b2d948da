package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tabscan/tabscan/internal/openapi"
)

func newOpenAPICmd() *cobra.Command {
	var (
		outputFile string
		baseURL    string
	)

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Generate the OpenAPI specification",
		Long: `Generate the OpenAPI 3.1 specification for the tabscan HTTP API,
covering the quality, summary, missing, correlation, and categories
endpoints.`,
		Example: `  tabscan openapi                   # print to stdout
  tabscan openapi -o openapi.json   # write to file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := openapi.Generate(versionString(), baseURL)
			b, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal spec: %w", err)
			}
			if outputFile != "" {
				if err := os.WriteFile(outputFile, b, 0o644); err != nil {
					return fmt.Errorf("write spec: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "OpenAPI spec written to %s\n", outputFile)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write spec to file instead of stdout")
	cmd.Flags().StringVar(&baseURL, "base-url", "http://localhost:8080", "Server URL embedded in the spec")

	return cmd
}
