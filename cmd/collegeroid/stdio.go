package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/collegeroi/internal/config"
	"github.com/fyrsmithlabs/collegeroi/internal/mcp"
	"github.com/fyrsmithlabs/collegeroi/internal/services"
)

// runStdioServer serves the MCP tools on stdin/stdout until ctx is cancelled
// or the client disconnects. Logs go to stderr so stdout carries only
// protocol messages.
func runStdioServer(ctx context.Context, cfg *config.Config, opts services.BuildOptions) error {
	opts.LogOutput = "stderr"
	if opts.Version == "" {
		opts.Version = version
	}
	reg, err := services.Build(ctx, cfg, opts)
	if err != nil {
		return err
	}
	defer closeRegistry(reg, cfg.Server.ShutdownTimeout.Duration())

	mcpServer, err := newMCPServer(reg)
	if err != nil {
		return err
	}

	reg.Logger().Info(ctx, "starting collegeroid in MCP stdio mode")

	if err := mcpServer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server error: %w", err)
	}

	reg.Logger().Info(ctx, "stdio MCP server shutdown complete")
	return nil
}

func newMCPServer(reg services.Registry) (*mcp.Server, error) {
	srv, err := mcp.NewServer(&mcp.Config{
		Name:    "collegeroi",
		Version: version,
		Logger:  reg.Logger().Underlying().Named("mcp"),
	}, reg.Selection())
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP server: %w", err)
	}
	return srv, nil
}
