// Package config handles static configuration loading using viper.
package config

import (
	"firestige.xyz/snooper/internal/capture"
	"firestige.xyz/snooper/internal/core"
	"firestige.xyz/snooper/internal/log"
	"firestige.xyz/snooper/internal/report"
)

// Config is the static application configuration. The run configuration
// (device, period, output, format, filter) is entered interactively; the
// Defaults section only seeds the prompts.
type Config struct {
	Capture  *capture.Options  `mapstructure:"capture" yaml:"capture"`
	Log      *log.LoggerConfig `mapstructure:"log" yaml:"log"`
	Metrics  MetricsConfig     `mapstructure:"metrics" yaml:"metrics"`
	Defaults DefaultsConfig    `mapstructure:"defaults" yaml:"defaults"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr    string `mapstructure:"addr" yaml:"addr"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// DefaultsConfig seeds the interactive prompts.
type DefaultsConfig struct {
	TimeInterval int    `mapstructure:"time_interval" yaml:"time_interval"`
	FilePath     string `mapstructure:"file_path" yaml:"file_path"`
	Format       string `mapstructure:"format" yaml:"format"`
	Filter       string `mapstructure:"filter" yaml:"filter"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Capture: capture.DefaultOptions(),
		Log:     log.DefaultConfig(),
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9464",
			Path:    "/metrics",
		},
		Defaults: DefaultsConfig{
			TimeInterval: 60,
			FilePath:     "output.txt",
			Format:       string(report.FormatReport),
		},
	}
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.Defaults.TimeInterval <= 0 {
		return core.ErrInvalidInterval
	}
	if c.Defaults.FilePath == "" {
		return core.ErrInvalidFilePath
	}
	if _, err := report.ParseFormat(c.Defaults.Format); err != nil {
		return err
	}
	if _, err := capture.ParseType(string(c.Capture.Backend)); err != nil {
		return err
	}
	return nil
}
