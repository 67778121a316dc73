// Collegeroid serves college income explanations over HTTP or MCP stdio.
//
// Artifacts are read from the storage backend named in the configuration
// and loaded lazily per horizon unless artifacts.preload is set.
//
// Configuration is loaded from ~/.config/collegeroi/config.yaml and
// COLLEGEROI_* environment variables. See internal/config for details.
//
// Usage:
//
//	# Start the HTTP server with defaults
//	collegeroid
//
//	# Serve MCP tools on stdin/stdout
//	collegeroid mcp
//
//	# Configure via environment
//	COLLEGEROI_SERVER_HTTP_PORT=8080 COLLEGEROI_STORAGE_ROOT=./saved_data collegeroid serve
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/collegeroi/internal/config"
	httpserver "github.com/fyrsmithlabs/collegeroi/internal/http"
	"github.com/fyrsmithlabs/collegeroi/internal/services"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var configPath = flag.String("config", "", "path to config.yaml (default ~/.config/collegeroi/config.yaml)")

func main() {
	flag.Parse()
	args := flag.Args()

	command := "serve"
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "version":
		printVersion(os.Stdout)
		return
	case "serve", "mcp":
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		fmt.Fprintf(os.Stderr, "\nUsage:\n")
		fmt.Fprintf(os.Stderr, "  collegeroid [serve]   Start the HTTP server\n")
		fmt.Fprintf(os.Stderr, "  collegeroid mcp       Serve MCP tools on stdio\n")
		fmt.Fprintf(os.Stderr, "  collegeroid version   Show version information\n")
		os.Exit(1)
	}

	cfg, err := config.LoadWithFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "Received signal %v, shutting down gracefully...\n", sig)
		cancel()
	}()

	if command == "mcp" {
		err = runStdioServer(ctx, cfg, services.BuildOptions{})
	} else {
		err = run(ctx, cfg, services.BuildOptions{})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "collegeroid by Fyrsmith Labs\n")
	fmt.Fprintf(w, "Version:    %s\n", version)
	fmt.Fprintf(w, "Commit:     %s\n", gitCommit)
	fmt.Fprintf(w, "Build Date: %s\n", buildDate)
}

// run starts the HTTP server and blocks until ctx is cancelled.
//
// This function:
//  1. Builds the service registry (logger, telemetry, storage, store, controller)
//  2. Creates the HTTP server over the selection controller
//  3. Serves until ctx is cancelled or the listener fails
//  4. Shuts down within the configured shutdown timeout
func run(ctx context.Context, cfg *config.Config, opts services.BuildOptions) error {
	if opts.Version == "" {
		opts.Version = version
	}
	reg, err := services.Build(ctx, cfg, opts)
	if err != nil {
		return err
	}
	defer closeRegistry(reg, cfg.Server.ShutdownTimeout.Duration())

	logger := reg.Logger()
	logger.Info(ctx, "starting collegeroid",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout.Duration()))

	srv, err := httpserver.NewServer(reg.Selection(), reg.Artifacts(), logger.Underlying().Named("http"), &httpserver.Config{
		Host:      cfg.Server.Host,
		Port:      cfg.Server.Port,
		RateLimit: cfg.Server.RateLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info(ctx, "server shutdown complete")
	return nil
}

// closeRegistry flushes telemetry and the logger with a bounded wait.
func closeRegistry(reg services.Registry, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_ = reg.Close(ctx) // Best-effort flush on shutdown
}
