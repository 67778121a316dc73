package services

import (
	"context"
	"errors"

	"github.com/fyrsmithlabs/collegeroi/internal/artifact"
	"github.com/fyrsmithlabs/collegeroi/internal/config"
	"github.com/fyrsmithlabs/collegeroi/internal/logging"
	"github.com/fyrsmithlabs/collegeroi/internal/selection"
	"github.com/fyrsmithlabs/collegeroi/internal/storage"
	"github.com/fyrsmithlabs/collegeroi/internal/telemetry"
)

// Registry provides access to the wired collegeroi services.
// Use accessor methods to retrieve individual services.
type Registry interface {
	Config() *config.Config
	Logger() *logging.Logger
	Telemetry() *telemetry.Telemetry
	Storage() storage.Reader
	Artifacts() *artifact.Store
	Selection() *selection.Controller

	// Close flushes telemetry and syncs the logger.
	Close(ctx context.Context) error
}

// Options configures the registry with service instances.
type Options struct {
	Config    *config.Config
	Logger    *logging.Logger
	Telemetry *telemetry.Telemetry
	Storage   storage.Reader
	Artifacts *artifact.Store
	Selection *selection.Controller
}

// registry is the concrete implementation of Registry.
type registry struct {
	config    *config.Config
	logger    *logging.Logger
	telemetry *telemetry.Telemetry
	storage   storage.Reader
	artifacts *artifact.Store
	selection *selection.Controller
}

// NewRegistry creates a new service registry.
func NewRegistry(opts Options) Registry {
	return &registry{
		config:    opts.Config,
		logger:    opts.Logger,
		telemetry: opts.Telemetry,
		storage:   opts.Storage,
		artifacts: opts.Artifacts,
		selection: opts.Selection,
	}
}

func (r *registry) Config() *config.Config           { return r.config }
func (r *registry) Logger() *logging.Logger          { return r.logger }
func (r *registry) Telemetry() *telemetry.Telemetry  { return r.telemetry }
func (r *registry) Storage() storage.Reader          { return r.storage }
func (r *registry) Artifacts() *artifact.Store       { return r.artifacts }
func (r *registry) Selection() *selection.Controller { return r.selection }

func (r *registry) Close(ctx context.Context) error {
	var errs []error
	if r.telemetry != nil {
		if err := r.telemetry.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if r.logger != nil {
		if err := r.logger.Sync(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
