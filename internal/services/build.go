package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/collegeroi/internal/artifact"
	"github.com/fyrsmithlabs/collegeroi/internal/config"
	"github.com/fyrsmithlabs/collegeroi/internal/logging"
	"github.com/fyrsmithlabs/collegeroi/internal/selection"
	"github.com/fyrsmithlabs/collegeroi/internal/storage"
	"github.com/fyrsmithlabs/collegeroi/internal/telemetry"
)

// BuildOptions adjusts how Build wires the process.
type BuildOptions struct {
	// Version is reported as the telemetry service version.
	Version string

	// LogOutput is "stdout" or "stderr". The MCP stdio server needs
	// stderr so that stdout carries only protocol frames.
	LogOutput string

	// Reader replaces the storage backend selected by cfg.Storage.
	Reader storage.Reader

	// Logger replaces the logger built from cfg.Logging.
	Logger *logging.Logger
}

// Build initializes every service from cfg:
//  1. Validates configuration
//  2. Initializes logger and telemetry, teeing logs into OTEL when export is on
//  3. Opens artifact storage
//  4. Creates the artifact store, preloading both horizons when configured
//     (preload failures are logged, not fatal)
//  5. Creates the selection controller
//
// Telemetry must be installed before the store and controller are created
// so that their instruments bind to the configured providers.
func Build(ctx context.Context, cfg *config.Config, opts BuildOptions) (Registry, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logCfg, err := logging.FromSettings(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if opts.LogOutput != "" {
		logCfg.Output = opts.LogOutput
	}

	logger := opts.Logger
	if logger == nil {
		logger, err = logging.NewLogger(logCfg, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	tel, err := telemetry.New(ctx, telemetryConfig(cfg, opts.Version), logger.Underlying())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	// Rebuild the logger once the OTEL log bridge has a provider.
	if opts.Logger == nil && tel.LoggerProvider() != nil {
		logCfg.OTEL = true
		logger, err = logging.NewLogger(logCfg, tel.LoggerProvider())
		if err != nil {
			_ = tel.Shutdown(ctx)
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	reader := opts.Reader
	if reader == nil {
		reader, err = storage.Open(ctx, storageConfig(cfg))
		if err != nil {
			_ = tel.Shutdown(ctx)
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
	}

	store, err := artifact.NewStore(&artifact.Config{
		Layout:      artifact.Layout{Prefix: cfg.Storage.Prefix},
		IndexColumn: cfg.Artifacts.IndexColumn,
	}, reader, logger.Underlying().Named("artifact"))
	if err != nil {
		_ = tel.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create artifact store: %w", err)
	}

	// A horizon that fails to preload is retried on first use; the
	// other horizon keeps serving.
	if cfg.Artifacts.Preload {
		if err := store.Preload(ctx); err != nil {
			logger.Warn(ctx, "artifact preload incomplete",
				zap.Int("loaded", len(store.Loaded())),
				zap.Error(err),
			)
		}
	}

	controller, err := selection.NewController(&selection.Config{
		MaxDisplay: cfg.Views.MaxDisplay,
	}, store, logger.Underlying().Named("selection"))
	if err != nil {
		_ = tel.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create selection controller: %w", err)
	}

	logger.Info(ctx, "services initialized",
		zap.String("storage", string(reader.Driver())),
		zap.Bool("preloaded", cfg.Artifacts.Preload),
		zap.Bool("telemetry", tel.IsEnabled()),
	)

	return NewRegistry(Options{
		Config:    cfg,
		Logger:    logger,
		Telemetry: tel,
		Storage:   reader,
		Artifacts: store,
		Selection: controller,
	}), nil
}

func telemetryConfig(cfg *config.Config, version string) *telemetry.Config {
	tc := telemetry.NewDefaultConfig()
	tc.Enabled = cfg.Telemetry.Enabled
	if cfg.Telemetry.Endpoint != "" {
		tc.Endpoint = cfg.Telemetry.Endpoint
	}
	if cfg.Telemetry.Protocol != "" {
		tc.Protocol = cfg.Telemetry.Protocol
	}
	if cfg.Telemetry.ServiceName != "" {
		tc.ServiceName = cfg.Telemetry.ServiceName
	}
	tc.Insecure = cfg.Telemetry.Insecure
	if version != "" {
		tc.ServiceVersion = version
	}
	return tc
}

func storageConfig(cfg *config.Config) storage.Config {
	return storage.Config{
		Driver: storage.Driver(cfg.Storage.Driver),
		Root:   cfg.Storage.Root,
		S3: storage.S3Config{
			Bucket:    cfg.Storage.S3Bucket,
			Region:    cfg.Storage.S3Region,
			Endpoint:  cfg.Storage.S3Endpoint,
			PathStyle: cfg.Storage.S3PathStyle,
		},
	}
}
