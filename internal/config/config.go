// Package config provides configuration loading for collegeroi.
//
// Configuration is read from an optional YAML file and overridden by
// COLLEGEROI_* environment variables. Missing values fall back to Default().
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds the complete collegeroi configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Storage   StorageConfig   `koanf:"storage"`
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	Views     ViewsConfig     `koanf:"views"`
	Logging   LoggingConfig   `koanf:"logging"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"http_port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
	// RateLimit is requests per second per client IP. Zero disables limiting.
	RateLimit float64 `koanf:"rate_limit"`
}

// StorageConfig selects where datasets and attribution artifacts are read from.
// S3 fields are flat so that COLLEGEROI_STORAGE_S3_BUCKET maps onto them.
type StorageConfig struct {
	Driver      StorageDriver `koanf:"driver"`
	Root        string        `koanf:"root"`
	Prefix      string        `koanf:"prefix"`
	S3Bucket    string        `koanf:"s3_bucket"`
	S3Region    string        `koanf:"s3_region"`
	S3Endpoint  string        `koanf:"s3_endpoint"`
	S3PathStyle bool          `koanf:"s3_path_style"`
}

// ArtifactsConfig controls how artifacts are parsed and when they are loaded.
type ArtifactsConfig struct {
	IndexColumn string `koanf:"index_column"`
	Preload     bool   `koanf:"preload"`
}

// ViewsConfig holds view derivation defaults.
type ViewsConfig struct {
	MaxDisplay int `koanf:"max_display"`
}

// LoggingConfig holds the subset of logger settings exposed to operators.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Endpoint    string `koanf:"endpoint"`
	Protocol    string `koanf:"protocol"` // grpc or http/protobuf
	Insecure    bool   `koanf:"insecure"`
	ServiceName string `koanf:"service_name"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Validate validates the configuration.
//
// Returns an error if:
//   - Server port is not between 1 and 65535
//   - Shutdown timeout is not positive
//   - Storage driver is unknown, or s3 is selected without a bucket
//   - Views max_display is below 1
//   - Logging level or format is unknown
//   - Telemetry is enabled without an endpoint
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		return errors.New("shutdown timeout must be positive")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("rate limit cannot be negative: %v", c.Server.RateLimit)
	}

	if !c.Storage.Driver.Valid() {
		return fmt.Errorf("unknown storage driver %q (want fs, memory or s3)", c.Storage.Driver)
	}
	if c.Storage.Driver == DriverS3 && c.Storage.S3Bucket == "" {
		return errors.New("storage.s3_bucket is required for the s3 driver")
	}
	if c.Storage.Driver == DriverFilesystem && c.Storage.Root == "" {
		return errors.New("storage.root is required for the fs driver")
	}

	if strings.TrimSpace(c.Artifacts.IndexColumn) == "" {
		return errors.New("artifacts.index_column cannot be empty")
	}

	if c.Views.MaxDisplay < 1 {
		return fmt.Errorf("views.max_display must be >= 1, got %d", c.Views.MaxDisplay)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown logging level %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging format must be 'json' or 'console', got %q", c.Logging.Format)
	}

	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return errors.New("telemetry endpoint required when telemetry is enabled")
	}

	return nil
}
