package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tabscan/tabscan/internal/config"
	"github.com/tabscan/tabscan/internal/source"
	"github.com/tabscan/tabscan/internal/table"
)

// loadConfig builds the effective configuration: defaults, then the YAML
// file viper located, then TABSCAN_* environment overrides for the server
// keys pipelines most often change.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.ConfigFileUsed())
	if err != nil {
		return cfg, err
	}
	if viper.IsSet("server.host") {
		cfg.Server.Host = viper.GetString("server.host")
	}
	if viper.IsSet("server.port") {
		cfg.Server.Port = viper.GetInt("server.port")
	}
	if viper.IsSet("server.api_key") {
		cfg.Server.APIKey = viper.GetString("server.api_key")
	}
	if viper.IsSet("server.rate_per_minute") {
		cfg.Server.RatePerMinute = viper.GetInt("server.rate_per_minute")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger builds the slog logger the long-running commands use.
func newLogger(level string, dev bool) *slog.Logger {
	logLevel := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	if dev {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// sourceFlags holds the dataset-selection flags shared by the analysis
// commands: a positional CSV path, or --driver/--dsn/--table for SQL.
type sourceFlags struct {
	driver    string
	dsn       string
	tableName string
	delimiter string
	maxRows   int
}

func addSourceFlags(cmd *cobra.Command, f *sourceFlags) {
	cmd.Flags().StringVar(&f.driver, "driver", "", "Database driver: postgres, mysql, or sqlite")
	cmd.Flags().StringVar(&f.dsn, "dsn", "", "Database connection string")
	cmd.Flags().StringVar(&f.tableName, "table", "", "Database table to profile")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", ",", "CSV field delimiter")
	cmd.Flags().IntVar(&f.maxRows, "max-rows", 0, "Read at most this many rows (0 = all)")
}

// resolveSource picks the dataset source from the positional argument or
// the SQL flags. Exactly one of the two forms must be present.
func resolveSource(args []string, f *sourceFlags) (source.Source, error) {
	hasPath := len(args) > 0
	hasSQL := f.driver != "" || f.dsn != "" || f.tableName != ""

	switch {
	case hasPath && hasSQL:
		return nil, fmt.Errorf("a CSV path and --driver/--dsn/--table are mutually exclusive")
	case hasPath:
		comma := ','
		if f.delimiter != "" {
			comma = []rune(f.delimiter)[0]
		}
		return &source.CSVFile{
			Path: args[0],
			Options: source.CSVOptions{
				Comma:   comma,
				MaxRows: f.maxRows,
			},
		}, nil
	case hasSQL:
		if f.driver == "" || f.dsn == "" || f.tableName == "" {
			return nil, fmt.Errorf("--driver, --dsn, and --table must all be set for a SQL source")
		}
		return &source.SQLTable{
			Driver:  f.driver,
			DSN:     f.dsn,
			Table:   f.tableName,
			MaxRows: f.maxRows,
		}, nil
	default:
		return nil, fmt.Errorf("provide a CSV path or --driver/--dsn/--table")
	}
}

// loadTable resolves and loads the dataset for an analysis command.
func loadTable(ctx context.Context, args []string, f *sourceFlags) (*table.Table, error) {
	src, err := resolveSource(args, f)
	if err != nil {
		return nil, err
	}
	tbl, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Name(), err)
	}
	return tbl, nil
}

// versionString returns a display version string.
func versionString() string {
	if appVersion == "" || appVersion == "dev" {
		return "dev"
	}
	if strings.HasPrefix(appVersion, "v") {
		return appVersion
	}
	return "v" + appVersion
}
