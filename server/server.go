// SPDX-License-Identifier: MIT

// Package server is the HTTP boundary of the engine.
//
//	POST /results/graph   run a calculation, JSON result with chart slices
//	POST /results/csv     same request, contribution table as CSV
//	POST /units/convert   convert a value between two units
//	GET  /health          readiness
//	GET  /metrics         Prometheus scrape (when a handler is configured)
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/katalvlaran/lca/analysis"
	"github.com/katalvlaran/lca/units"
)

// ShutdownTimeout bounds graceful shutdown in Run.
const ShutdownTimeout = 10 * time.Second

// Calculator runs one calculation; *analysis.Engine implements it.
type Calculator interface {
	Calculate(ctx context.Context, req analysis.Request) (*analysis.Result, error)
}

// CustomValidator adapts go-playground/validator to echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate checks struct tags of i.
func (cv *CustomValidator) Validate(i any) error {
	return cv.validator.Struct(i)
}

// Server wires the routes onto an echo instance.
type Server struct {
	echo       *echo.Echo
	calc       Calculator
	normalizer *units.Normalizer
	logger     *log.Logger
	metrics    http.Handler
	health     func(context.Context) error
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithHealthCheck sets the check behind GET /health.
func WithHealthCheck(f func(context.Context) error) Option {
	return func(s *Server) { s.health = f }
}

// WithNormalizer sets the normalizer behind /units/convert.
func WithNormalizer(n *units.Normalizer) Option {
	return func(s *Server) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// New builds the echo instance and registers every route.
func New(calc Calculator, opts ...Option) *Server {
	s := &Server{
		echo:       echo.New(),
		calc:       calc,
		normalizer: units.NewNormalizer(),
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))

	s.routes()

	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.echo }

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", addr)
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(sctx); err != nil {
		s.logger.Error("failed to shut down server", "err", err)
		return err
	}
	s.logger.Info("server stopped")

	return nil
}
