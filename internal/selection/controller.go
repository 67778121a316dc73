package selection

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/collegeroi/internal/artifact"
	"github.com/fyrsmithlabs/collegeroi/internal/index"
	"github.com/fyrsmithlabs/collegeroi/internal/views"
)

const instrumentationName = "github.com/fyrsmithlabs/collegeroi/internal/selection"

// Loader supplies a horizon's artifacts. *artifact.Store implements it.
type Loader interface {
	Load(ctx context.Context, h artifact.Horizon) (*artifact.Dataset, *artifact.Attribution, error)
}

// Config configures a Controller.
type Config struct {
	// MaxDisplay is used when a selection leaves Params.MaxDisplay at zero.
	MaxDisplay int
}

// Params carries the view-specific part of a selection.
type Params struct {
	School     string `json:"school,omitempty"`
	Feature    string `json:"feature,omitempty"`
	MaxDisplay int    `json:"max_display,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

// Controller resolves selections. It is safe for concurrent use.
type Controller struct {
	config *Config
	loader Loader
	logger *zap.Logger
	tracer trace.Tracer
	meter  metric.Meter

	mu      sync.Mutex
	indexes map[artifact.Horizon]*index.Index

	resolves metric.Int64Counter
	duration metric.Float64Histogram
}

// NewController creates a Controller over loader.
func NewController(cfg *Config, loader Loader, logger *zap.Logger) (*Controller, error) {
	if loader == nil {
		return nil, errors.New("artifact loader is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.MaxDisplay <= 0 {
		cfg.MaxDisplay = views.DefaultMaxDisplay
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Controller{
		config:  cfg,
		loader:  loader,
		logger:  logger,
		tracer:  otel.Tracer(instrumentationName),
		meter:   otel.Meter(instrumentationName),
		indexes: make(map[artifact.Horizon]*index.Index),
	}
	c.initMetrics()
	return c, nil
}

func (c *Controller) initMetrics() {
	var err error

	c.resolves, err = c.meter.Int64Counter(
		"collegeroi.selection.resolves_total",
		metric.WithDescription("Total number of view selections resolved"),
		metric.WithUnit("{selection}"),
	)
	if err != nil {
		c.logger.Warn("failed to create resolves counter", zap.Error(err))
	}

	c.duration, err = c.meter.Float64Histogram(
		"collegeroi.selection.resolve_duration_seconds",
		metric.WithDescription("Duration of view selection resolution, including artifact loads"),
		metric.WithUnit("s"),
	)
	if err != nil {
		c.logger.Warn("failed to create duration histogram", zap.Error(err))
	}
}

// ListHorizons returns the supported horizons in ascending order.
func (c *Controller) ListHorizons() []int {
	hs := artifact.Horizons()
	out := make([]int, len(hs))
	for i, h := range hs {
		out[i] = int(h)
	}
	return out
}

// ListSchools returns the horizon's school names in lexicographic order.
func (c *Controller) ListSchools(ctx context.Context, horizon int) ([]string, error) {
	idx, _, _, err := c.open(ctx, horizon)
	if err != nil {
		return nil, err
	}
	return idx.Schools(), nil
}

// ListFeatures returns the horizon's feature names in lexicographic order.
func (c *Controller) ListFeatures(ctx context.Context, horizon int) ([]string, error) {
	idx, _, _, err := c.open(ctx, horizon)
	if err != nil {
		return nil, err
	}
	return idx.Features(), nil
}

// Resolve derives the view named by kind for horizon.
func (c *Controller) Resolve(ctx context.Context, kind views.Kind, horizon int, params Params) (_ *views.Result, err error) {
	ctx, span := c.tracer.Start(ctx, "selection.resolve",
		trace.WithAttributes(
			attribute.String("view", string(kind)),
			attribute.Int("horizon", horizon),
		))
	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		attrs := metric.WithAttributes(attribute.String("kind", string(kind)), attribute.String("result", result))
		if c.resolves != nil {
			c.resolves.Add(ctx, 1, attrs)
		}
		if c.duration != nil {
			c.duration.Record(ctx, time.Since(start).Seconds(), attrs)
		}
		c.logger.Debug("selection resolved",
			zap.String("view", string(kind)),
			zap.Int("horizon", horizon),
			zap.String("result", result),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		span.End()
	}()

	if _, err := artifact.ParseHorizon(horizon); err != nil {
		return nil, err
	}
	switch kind {
	case views.KindInstance, views.KindScatter, views.KindImportance, views.KindPredictions:
	default:
		return nil, &UnknownViewError{Kind: kind}
	}

	idx, ds, att, err := c.open(ctx, horizon)
	if err != nil {
		return nil, err
	}

	maxDisplay := params.MaxDisplay
	if maxDisplay <= 0 {
		maxDisplay = c.config.MaxDisplay
	}

	res := &views.Result{Kind: kind}
	switch kind {
	case views.KindInstance:
		row, err := idx.ResolveSchool(params.School)
		if err != nil {
			return nil, err
		}
		v := views.Instance(ds, att, row, maxDisplay)
		res.Instance = &v
	case views.KindScatter:
		col, err := idx.ResolveFeature(params.Feature)
		if err != nil {
			return nil, err
		}
		v := views.Scatter(ds, att, col)
		res.Scatter = &v
	case views.KindImportance:
		v := views.Importance(att, maxDisplay)
		res.Importance = &v
	case views.KindPredictions:
		v := views.Predictions(ds, att, params.Limit)
		res.Predictions = &v
	}
	return res, nil
}

// open validates horizon and returns its artifacts with an index over them.
func (c *Controller) open(ctx context.Context, horizon int) (*index.Index, *artifact.Dataset, *artifact.Attribution, error) {
	h, err := artifact.ParseHorizon(horizon)
	if err != nil {
		return nil, nil, nil, err
	}
	ds, att, err := c.loader.Load(ctx, h)
	if err != nil {
		return nil, nil, nil, err
	}
	return c.indexFor(h, ds, att), ds, att, nil
}

// indexFor returns the index built over ds, building it on first use.
// A loader that hands back a different dataset for h replaces the entry.
func (c *Controller) indexFor(h artifact.Horizon, ds *artifact.Dataset, att *artifact.Attribution) *index.Index {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx, ok := c.indexes[h]; ok && idx.Dataset() == ds {
		return idx
	}
	idx := index.New(h, ds, att)
	c.indexes[h] = idx
	return idx
}
