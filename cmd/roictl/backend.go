package main

import (
	"context"

	"github.com/fyrsmithlabs/collegeroi/internal/config"
	"github.com/fyrsmithlabs/collegeroi/internal/explorer"
	httpserver "github.com/fyrsmithlabs/collegeroi/internal/http"
	"github.com/fyrsmithlabs/collegeroi/internal/services"
)

// backend answers roictl queries either in-process or through collegeroid.
type backend interface {
	explorer.Explainer
	Health(ctx context.Context) (*httpserver.HealthResponse, error)
	Close() error
}

// openBackend is replaced in tests.
var openBackend = func(ctx context.Context) (backend, error) {
	if serverURL != "" {
		return newRemoteBackend(ctx, serverURL)
	}
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return nil, err
	}
	if !verbose {
		cfg.Logging.Level = "warn"
	}
	reg, err := services.Build(ctx, cfg, services.BuildOptions{Version: version, LogOutput: "stderr"})
	if err != nil {
		return nil, err
	}
	return &localBackend{Explainer: reg.Selection(), reg: reg}, nil
}

// localBackend serves queries from an in-process registry.
type localBackend struct {
	explorer.Explainer
	reg services.Registry
}

func (b *localBackend) Health(ctx context.Context) (*httpserver.HealthResponse, error) {
	resp := &httpserver.HealthResponse{Status: "ok", LoadedHorizons: []int{}}
	for _, h := range b.reg.Artifacts().Loaded() {
		resp.LoadedHorizons = append(resp.LoadedHorizons, int(h))
	}
	return resp, nil
}

func (b *localBackend) Close() error {
	return b.reg.Close(context.Background())
}
