// SPDX-License-Identifier: MIT

// Command lcad serves the calculation engine over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/katalvlaran/lca/analysis"
	"github.com/katalvlaran/lca/config"
	"github.com/katalvlaran/lca/logging"
	"github.com/katalvlaran/lca/metrics"
	"github.com/katalvlaran/lca/server"
	"github.com/katalvlaran/lca/store/pgstore"
	"github.com/katalvlaran/lca/store/yamlstore"
)

func main() {
	cfg, err := config.Load()
	logger := logging.New(logging.Options{Debug: cfg.Debug, Prefix: "lcad"})
	if err != nil {
		logger.Fatal("failed to load configuration", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server failed", "err", err)
	}
}

func run(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	src, health, closeSrc, err := openSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSrc()

	collector, err := metrics.New()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	opts := append(cfg.EngineOptions(logger), analysis.WithRecorder(collector))
	engine := analysis.New(src, opts...)

	srv := server.New(engine,
		server.WithLogger(logger),
		server.WithMetrics(collector.Handler()),
		server.WithHealthCheck(health),
	)

	return srv.Run(ctx, fmt.Sprintf(":%d", cfg.Port))
}

// openSource prefers PostgreSQL when DATABASE_URL is set, else watches the dataset file.
func openSource(ctx context.Context, cfg config.Config, logger *log.Logger) (analysis.Source, func(context.Context) error, func(), error) {
	if cfg.DatabaseURL != "" {
		if err := pgstore.Migrate(cfg.DatabaseURL); err != nil {
			return nil, nil, nil, err
		}
		s, err := pgstore.Connect(ctx, cfg.DatabaseURL, pgstore.WithLogger(logger))
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("using postgres reference data")
		return s, s.Ping, s.Close, nil
	}

	s, err := yamlstore.Open(cfg.Dataset, yamlstore.WithLogger(logger))
	if err != nil {
		return nil, nil, nil, err
	}
	go func() {
		if err := s.Watch(ctx); err != nil {
			logger.Error("dataset watch stopped", "err", err)
		}
	}()
	logger.Info("using dataset file", "path", s.Path())
	health := func(ctx context.Context) error {
		_, err := s.Snapshot(ctx)
		return err
	}

	return s, health, func() {}, nil
}
