// SPDX-License-Identifier: MIT

// Package calc implements "lca calc": one calculation printed as JSON or CSV.
package calc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/youta-t/flarc"

	"github.com/katalvlaran/lca/analysis"
	"github.com/katalvlaran/lca/config"
	"github.com/katalvlaran/lca/logging"
	"github.com/katalvlaran/lca/report"
	"github.com/katalvlaran/lca/scaling"
	"github.com/katalvlaran/lca/store/pgstore"
	"github.com/katalvlaran/lca/store/yamlstore"
)

// Flags of "lca calc".
type Flags struct {
	Dataset           string `flag:"dataset" help:"YAML dataset file (env LCA_DATASET)."`
	Database          string `flag:"database" help:"PostgreSQL URL; takes precedence over --dataset (env DATABASE_URL)."`
	Category          string `flag:"category" help:"Impact category (env LCA_DEFAULT_CATEGORY)."`
	NonProductColumns int    `flag:"non-product-columns" help:"Technology columns padded with zero demand (env LCA_NON_PRODUCT_COLUMNS)."`
	CSV               bool   `flag:"csv" help:"Print the contribution table as CSV instead of JSON."`
	Debug             bool   `flag:"debug" help:"Log pipeline diagnostics to stderr."`
}

// ARG_DEMAND holds the final-demand values.
const ARG_DEMAND = "DEMAND"

// Opener returns the reference data source named by the flags and a function releasing it.
type Opener func(ctx context.Context, flags Flags) (analysis.Source, func(), error)

// New builds the command with defaults taken from the environment.
func New() (flarc.Command, error) {
	def := config.Default()
	return flarc.NewCommand(
		"Run one life cycle impact calculation.",
		Flags{
			Dataset:           config.GetEnv(config.EnvDataset),
			Database:          config.GetEnv(config.EnvDatabaseURL),
			Category:          config.GetEnvString(config.EnvDefaultCategory, def.DefaultCategory),
			NonProductColumns: config.GetEnvInt(config.EnvNonProductColumns, 0),
		},
		flarc.Args{
			{
				Name: ARG_DEMAND, Required: true, Repeatable: true,
				Help: "Final demand of each product column, e.g. `4 9` or `4,9`.",
			},
		},
		Task(Open),
	)
}

// Open connects to --database when set, else reads --dataset.
func Open(ctx context.Context, flags Flags) (analysis.Source, func(), error) {
	if flags.Database != "" {
		s, err := pgstore.Connect(ctx, flags.Database)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
	if flags.Dataset == "" {
		return nil, nil, fmt.Errorf("%w: --dataset or --database is required", flarc.ErrUsage)
	}
	s, err := yamlstore.Open(flags.Dataset)
	if err != nil {
		return nil, nil, err
	}

	return s, func() {}, nil
}

// Task runs the calculation against the source returned by open.
func Task(open Opener) func(context.Context, flarc.Commandline[Flags], []any) error {
	return func(ctx context.Context, c flarc.Commandline[Flags], _ []any) error {
		flags := c.Flags()
		if flags.NonProductColumns < 0 {
			return fmt.Errorf("%w: --non-product-columns must be >= 0", flarc.ErrUsage)
		}
		demand, err := scaling.ParseDemand(strings.Join(c.Args()[ARG_DEMAND], " "))
		if err != nil {
			return fmt.Errorf("%w: %v", flarc.ErrUsage, err)
		}

		src, release, err := open(ctx, flags)
		if err != nil {
			return err
		}
		defer release()

		logger := logging.Discard()
		if flags.Debug {
			logger = logging.New(logging.Options{Debug: true, Prefix: "lca", Output: c.Stderr()})
		}
		engine := analysis.New(src,
			analysis.WithDefaultCategory(flags.Category),
			analysis.WithNonProductColumns(flags.NonProductColumns),
			analysis.WithLogger(logger),
		)
		res, err := engine.Calculate(ctx, analysis.Request{Demand: demand})
		if err != nil {
			return err
		}
		for _, w := range res.Warnings {
			fmt.Fprintln(c.Stderr(), "warning:", w.String())
		}

		if flags.CSV {
			return report.WriteCSV(c.Stdout(), res.Contributions)
		}
		enc := json.NewEncoder(c.Stdout())
		enc.SetIndent("", "  ")

		return enc.Encode(res)
	}
}
