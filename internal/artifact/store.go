package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/fyrsmithlabs/collegeroi/internal/storage"
)

const instrumentationName = "github.com/fyrsmithlabs/collegeroi/internal/artifact"

// Config configures a Store.
type Config struct {
	Layout Layout

	// IndexColumn names the CSV column holding the school key.
	IndexColumn string
}

// DefaultConfig returns the layout of the original saved_data directory.
func DefaultConfig() *Config {
	return &Config{IndexColumn: DefaultIndexColumn}
}

// entry is one memoized horizon.
type entry struct {
	ds  *Dataset
	att *Attribution
}

// Store loads and memoizes horizon artifacts. Safe for concurrent use.
type Store struct {
	config *Config
	reader storage.Reader
	logger *zap.Logger
	tracer trace.Tracer

	group singleflight.Group

	mu    sync.RWMutex
	cache map[Horizon]*entry
}

// NewStore creates a Store reading through reader.
func NewStore(cfg *Config, reader storage.Reader, logger *zap.Logger) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.IndexColumn == "" {
		cfg.IndexColumn = DefaultIndexColumn
	}
	if reader == nil {
		return nil, errors.New("storage reader is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{
		config: cfg,
		reader: reader,
		logger: logger,
		tracer: otel.Tracer(instrumentationName),
		cache:  make(map[Horizon]*entry),
	}, nil
}

// Load returns the dataset and attribution for h, reading storage on the
// first successful call only. Every caller sees the same pointers.
//
// If ctx ends while waiting on another caller's load, Load returns ctx.Err()
// and the load continues for the remaining waiters.
func (s *Store) Load(ctx context.Context, h Horizon) (*Dataset, *Attribution, error) {
	if _, err := ParseHorizon(int(h)); err != nil {
		return nil, nil, err
	}
	if e := s.cached(h); e != nil {
		return e.ds, e.att, nil
	}

	ch := s.group.DoChan(h.String(), func() (any, error) {
		if e := s.cached(h); e != nil {
			return e, nil
		}
		e, err := s.load(context.WithoutCancel(ctx), h)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cache[h] = e
		n := len(s.cache)
		s.mu.Unlock()
		CachedHorizons.Set(float64(n))
		return e, nil
	})

	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, nil, res.Err
		}
		e := res.Val.(*entry)
		return e.ds, e.att, nil
	}
}

// Loaded returns the horizons currently cached, ascending.
func (s *Store) Loaded() []Horizon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Horizon, 0, len(s.cache))
	for h := range s.cache {
		out = append(out, h)
	}
	slices.Sort(out)
	return out
}

// Preload loads the given horizons concurrently, or all horizons when none
// are given. Every horizon is attempted and all failures are joined.
func (s *Store) Preload(ctx context.Context, horizons ...Horizon) error {
	if len(horizons) == 0 {
		horizons = Horizons()
	}
	errs := make([]error, len(horizons))
	var g errgroup.Group
	for i, h := range horizons {
		g.Go(func() error {
			_, _, errs[i] = s.Load(ctx, h)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func (s *Store) cached(h Horizon) *entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[h]
}

// load reads and validates every artifact of h.
func (s *Store) load(ctx context.Context, h Horizon) (_ *entry, err error) {
	ctx, span := s.tracer.Start(ctx, "artifact.load",
		trace.WithAttributes(attribute.Int("horizon", int(h))))
	defer span.End()

	start := time.Now()
	label := h.String()
	defer func() {
		LoadDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
		if err != nil {
			LoadsTotal.WithLabelValues(label, "error").Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.Error("artifact load failed", zap.Int("horizon", int(h)), zap.Error(err))
			return
		}
		LoadsTotal.WithLabelValues(label, "success").Inc()
	}()

	files := s.config.Layout.Files(h)
	ds := &Dataset{Horizon: h}

	if ds.Full, err = s.table(ctx, h, files.Full); err != nil {
		return nil, err
	}
	if ds.Train, err = s.table(ctx, h, files.Train); err != nil {
		return nil, err
	}
	if ds.Test, err = s.table(ctx, h, files.Test); err != nil {
		return nil, err
	}
	if ds.TrainTarget, err = s.series(ctx, h, files.TrainTarget); err != nil {
		return nil, err
	}
	if ds.TestTarget, err = s.series(ctx, h, files.TestTarget); err != nil {
		return nil, err
	}
	if err := validateSplit(ds.Full, ds.Train, ds.TrainTarget); err != nil {
		return nil, &LoadError{Horizon: h, Artifact: files.Train, Err: err}
	}
	if err := validateSplit(ds.Full, ds.Test, ds.TestTarget); err != nil {
		return nil, &LoadError{Horizon: h, Artifact: files.Test, Err: err}
	}

	att, err := s.attribution(ctx, h, files.Attribution)
	if err != nil {
		return nil, err
	}
	if err := validateAlignment(ds, att); err != nil {
		return nil, &LoadError{Horizon: h, Artifact: files.Attribution, Err: err}
	}

	s.logger.Info("artifacts loaded",
		zap.Int("horizon", int(h)),
		zap.Int("schools", ds.Full.Rows()),
		zap.Int("features", ds.Full.Cols()),
		zap.Int("train_rows", ds.Train.Rows()),
		zap.Int("test_rows", ds.Test.Rows()),
		zap.Duration("duration", time.Since(start)),
	)
	return &entry{ds: ds, att: att}, nil
}

func (s *Store) table(ctx context.Context, h Horizon, name string) (*Table, error) {
	var t *Table
	err := s.read(ctx, h, name, func(r io.Reader) (err error) {
		t, err = readTable(r, s.config.IndexColumn)
		return err
	})
	return t, err
}

func (s *Store) series(ctx context.Context, h Horizon, name string) (*Series, error) {
	var out *Series
	err := s.read(ctx, h, name, func(r io.Reader) (err error) {
		out, err = readSeries(r, s.config.IndexColumn)
		return err
	})
	return out, err
}

func (s *Store) attribution(ctx context.Context, h Horizon, name string) (*Attribution, error) {
	var att *Attribution
	err := s.read(ctx, h, name, func(r io.Reader) (err error) {
		att, err = readAttribution(r)
		return err
	})
	if att != nil {
		att.Horizon = h
	}
	return att, err
}

// read opens name and hands it to decode, wrapping any failure in a LoadError.
func (s *Store) read(ctx context.Context, h Horizon, name string, decode func(io.Reader) error) error {
	rc, err := s.reader.Get(ctx, s.config.Layout.Key(name))
	if err != nil {
		return &LoadError{Horizon: h, Artifact: name, Err: err}
	}
	defer rc.Close()

	if err := decode(rc); err != nil {
		return &LoadError{Horizon: h, Artifact: name, Err: fmt.Errorf("decode: %w", err)}
	}
	s.logger.Debug("artifact read", zap.Int("horizon", int(h)), zap.String("artifact", name))
	return nil
}
