// Package config defines the application configuration: one explicit object
// passed into the CLI, server, and MCP entry points. There is no global
// state; every knob has a documented default and is overridable via the
// config file or TABSCAN_ environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tabscan/tabscan/internal/profile"
)

// Config is the top-level tabscan configuration.
type Config struct {
	Server  ServerConfig          `yaml:"server"`
	Quality profile.QualityConfig `yaml:"quality"`
	Report  ReportConfig          `yaml:"report"`
	Logging LoggingConfig         `yaml:"logging"`
}

// ServerConfig controls the HTTP service.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	// MaxBodySize caps uploaded CSV payloads, in bytes.
	MaxBodySize int64 `yaml:"max_body_size"`
	// RatePerMinute limits requests per client IP; 0 disables limiting.
	RatePerMinute int `yaml:"rate_per_minute"`
	// APIKey, when set, is required in the X-API-Key header on /api routes.
	APIKey string `yaml:"api_key"`
}

// ReportConfig carries the Markdown report defaults.
type ReportConfig struct {
	OutDir          string  `yaml:"out_dir"`
	Title           string  `yaml:"title"`
	MaxHistColumns  int     `yaml:"max_hist_columns"`
	MinMissingShare float64 `yaml:"min_missing_share"`
	TopK            int     `yaml:"top_k"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: 30 * time.Second,
			CORSOrigins:     []string{"*"},
			MaxBodySize:     50 * 1024 * 1024, // 50MB
			RatePerMinute:   0,
		},
		Quality: profile.DefaultQualityConfig(),
		Report: ReportConfig{
			OutDir:          "reports",
			Title:           "EDA Report",
			MaxHistColumns:  6,
			MinMissingShare: 0.05,
			TopK:            profile.DefaultTopK,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML config file over the defaults. A missing path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints before the config is used.
func (c Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server port %d out of range", c.Server.Port)
	}
	if c.Server.MaxBodySize <= 0 {
		return fmt.Errorf("config: max_body_size must be positive")
	}
	if c.Report.MinMissingShare < 0 || c.Report.MinMissingShare > 1 {
		return fmt.Errorf("config: report min_missing_share %v outside [0, 1]", c.Report.MinMissingShare)
	}
	if c.Report.TopK < 0 || c.Report.MaxHistColumns < 0 {
		return fmt.Errorf("config: report counts must be non-negative")
	}
	return c.Quality.Validate()
}
