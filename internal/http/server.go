// Package http provides the HTTP API for collegeroi.
package http

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/collegeroi/internal/artifact"
	"github.com/fyrsmithlabs/collegeroi/internal/logging"
	"github.com/fyrsmithlabs/collegeroi/internal/selection"
	"github.com/fyrsmithlabs/collegeroi/internal/views"
)

// Explainer is the selection surface the API serves. *selection.Controller implements it.
type Explainer interface {
	ListHorizons() []int
	ListSchools(ctx context.Context, horizon int) ([]string, error)
	ListFeatures(ctx context.Context, horizon int) ([]string, error)
	Resolve(ctx context.Context, kind views.Kind, horizon int, params selection.Params) (*views.Result, error)
}

// LoadReporter reports which horizons are cached. *artifact.Store implements it.
type LoadReporter interface {
	Loaded() []artifact.Horizon
}

// Server provides HTTP endpoints for collegeroi.
type Server struct {
	echo      *echo.Echo
	explainer Explainer
	loads     LoadReporter
	logger    *zap.Logger
	config    *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int

	// RateLimit is requests per second per client IP. Zero disables limiting.
	RateLimit float64
}

// NewServer creates a new HTTP server. loads may be nil.
func NewServer(explainer Explainer, loads LoadReporter, logger *zap.Logger, cfg *Config) (*Server, error) {
	if explainer == nil {
		return nil, fmt.Errorf("explainer cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 9090,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(NewHTTPMetrics(logger).MetricsMiddleware())
	e.Use(requestLogger(logger))
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.RateLimit),
				Burst:     int(math.Max(1, math.Ceil(cfg.RateLimit))),
				ExpiresIn: 3 * time.Minute,
			}),
		}))
	}

	s := &Server{
		echo:      e,
		explainer: explainer,
		loads:     loads,
		logger:    logger,
		config:    cfg,
	}

	// Register routes
	s.registerRoutes()

	return s, nil
}

// requestLogger attaches the request ID and transport to the request context
// and logs every request once it completes.
func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			ctx := logging.WithTransport(req.Context(), "http")
			if id := c.Response().Header().Get(echo.HeaderXRequestID); logging.ValidateRequestID(id) == nil {
				ctx = logging.WithRequestID(ctx, id)
			}
			c.SetRequest(req.WithContext(ctx))

			err := next(c)
			if err != nil {
				// Resolve the status before logging.
				c.Error(err)
			}

			fields := append([]zap.Field{
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
			}, logging.ContextFields(ctx)...)
			logger.Info("http request", fields...)

			return nil
		}
	}
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// API v1 routes
	v1 := s.echo.Group("/api/v1")
	v1.GET("/horizons", s.handleHorizons)

	h := v1.Group("/horizons/:horizon")
	h.GET("/schools", s.handleSchools)
	h.GET("/features", s.handleFeatures)
	h.GET("/explanation", s.handleView(views.KindInstance))
	h.GET("/scatter", s.handleView(views.KindScatter))
	h.GET("/importance", s.handleView(views.KindImportance))
	h.GET("/predictions", s.handleView(views.KindPredictions))
}

// Echo exposes the underlying router for additional routes.
func (s *Server) Echo() *echo.Echo { return s.echo }

// handleHealth reports liveness and which horizons are already loaded.
func (s *Server) handleHealth(c echo.Context) error {
	resp := HealthResponse{Status: "ok", LoadedHorizons: []int{}}
	if s.loads != nil {
		for _, h := range s.loads.Loaded() {
			resp.LoadedHorizons = append(resp.LoadedHorizons, int(h))
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHorizons(c echo.Context) error {
	return c.JSON(http.StatusOK, HorizonsResponse{Horizons: s.explainer.ListHorizons()})
}

func (s *Server) handleSchools(c echo.Context) error {
	h, err := horizonParam(c)
	if err != nil {
		return err
	}
	schools, err := s.explainer.ListSchools(c.Request().Context(), h)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, SchoolsResponse{Horizon: h, Schools: schools})
}

func (s *Server) handleFeatures(c echo.Context) error {
	h, err := horizonParam(c)
	if err != nil {
		return err
	}
	features, err := s.explainer.ListFeatures(c.Request().Context(), h)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, FeaturesResponse{Horizon: h, Features: features})
}

// handleView resolves one view kind and responds with the view itself.
func (s *Server) handleView(kind views.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		h, err := horizonParam(c)
		if err != nil {
			return err
		}
		params := selection.Params{
			School:  c.QueryParam("school"),
			Feature: c.QueryParam("feature"),
		}
		if params.MaxDisplay, err = intQuery(c, "max_display"); err != nil {
			return err
		}
		if params.Limit, err = intQuery(c, "limit"); err != nil {
			return err
		}

		res, err := s.explainer.Resolve(c.Request().Context(), kind, h, params)
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(http.StatusOK, res.View())
	}
}

func horizonParam(c echo.Context) (int, error) {
	raw := c.Param("horizon")
	h, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid horizon %q", raw))
	}
	return h, nil
}

// intQuery parses an optional non-negative integer query parameter.
func intQuery(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s must be a non-negative integer, got %q", name, raw))
	}
	return v, nil
}

// Start starts the HTTP server. Returns nil after a graceful Shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
