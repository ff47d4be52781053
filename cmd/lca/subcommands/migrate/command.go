// SPDX-License-Identifier: MIT

// Package migrate implements "lca migrate": apply the PostgreSQL schema.
package migrate

import (
	"context"
	"fmt"

	"github.com/youta-t/flarc"

	"github.com/katalvlaran/lca/config"
	"github.com/katalvlaran/lca/store/pgstore"
)

// Flags of "lca migrate".
type Flags struct {
	Database string `flag:"database" help:"PostgreSQL URL (env DATABASE_URL)."`
}

// New builds the command.
func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Create or upgrade the reference data tables.",
		Flags{Database: config.GetEnv(config.EnvDatabaseURL)},
		flarc.Args{},
		Task(pgstore.Migrate),
	)
}

// Task applies migrations with apply.
func Task(apply func(dsn string) error) func(context.Context, flarc.Commandline[Flags], []any) error {
	return func(_ context.Context, c flarc.Commandline[Flags], _ []any) error {
		dsn := c.Flags().Database
		if dsn == "" {
			return fmt.Errorf("%w: --database (or DATABASE_URL) is required", flarc.ErrUsage)
		}
		if err := apply(dsn); err != nil {
			return err
		}
		_, err := fmt.Fprintln(c.Stdout(), "schema is up to date")

		return err
	}
}
