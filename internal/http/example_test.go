package http_test

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/collegeroi/internal/artifact"
	httpserver "github.com/fyrsmithlabs/collegeroi/internal/http"
	"github.com/fyrsmithlabs/collegeroi/internal/selection"
	"github.com/fyrsmithlabs/collegeroi/internal/storage"
)

// ExampleServer demonstrates how to create and start the HTTP server.
func ExampleServer() {
	logger := zap.NewNop()

	// Seed an in-memory store with a sample horizon
	mem := storage.NewMemory()
	if err := artifact.SampleFixture(artifact.Horizon6).Seed(mem, artifact.Layout{}); err != nil {
		panic(err)
	}
	store, err := artifact.NewStore(nil, mem, logger)
	if err != nil {
		panic(err)
	}
	ctrl, err := selection.NewController(nil, store, logger)
	if err != nil {
		panic(err)
	}

	server, err := httpserver.NewServer(ctrl, store, logger, &httpserver.Config{
		Host: "localhost",
		Port: 0,
	})
	if err != nil {
		panic(err)
	}

	// Start server in background
	go func() {
		if err := server.Start(); err != nil {
			logger.Error("server error", zap.Error(err))
		}
	}()

	// Give server time to start
	time.Sleep(100 * time.Millisecond)

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	fmt.Println("Server started and stopped successfully")
	// Output: Server started and stopped successfully
}
