package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/collegeroi/internal/artifact"
	"github.com/fyrsmithlabs/collegeroi/internal/config"
	httpserver "github.com/fyrsmithlabs/collegeroi/internal/http"
	"github.com/fyrsmithlabs/collegeroi/internal/logging"
	"github.com/fyrsmithlabs/collegeroi/internal/services"
	"github.com/fyrsmithlabs/collegeroi/internal/storage"
)

// sampleRegistry builds services over the two-horizon sample fixtures.
func sampleRegistry(t *testing.T) services.Registry {
	t.Helper()
	mem := storage.NewMemory()
	for _, h := range artifact.Horizons() {
		require.NoError(t, artifact.SampleFixture(h).Seed(mem, artifact.Layout{}))
	}
	cfg := config.Default()
	cfg.Storage.Driver = config.DriverMemory
	reg, err := services.Build(context.Background(), cfg, services.BuildOptions{
		Reader: mem,
		Logger: logging.NewTestLogger().Logger,
	})
	require.NoError(t, err)
	return reg
}

// sampleServer serves the sample registry over collegeroid's HTTP API.
func sampleServer(t *testing.T) *httptest.Server {
	t.Helper()
	reg := sampleRegistry(t)
	srv, err := httpserver.NewServer(reg.Selection(), reg.Artifacts(), reg.Logger().Underlying(), nil)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Echo())
	t.Cleanup(ts.Close)
	return ts
}

// execute runs roictl against an in-process sample backend and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	outputFormat, serverURL, maxDisplay, limit = "text", "", 0, 0
	reg := sampleRegistry(t)
	restore := openBackend
	openBackend = func(ctx context.Context) (backend, error) {
		return &localBackend{Explainer: reg.Selection(), reg: reg}, nil
	}
	t.Cleanup(func() { openBackend = restore })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}
