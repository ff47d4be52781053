// SPDX-License-Identifier: MIT

// Command lca runs calculations and unit conversions from the command line.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/youta-t/flarc"

	"github.com/katalvlaran/lca/cmd/lca/subcommands/calc"
	"github.com/katalvlaran/lca/cmd/lca/subcommands/convert"
	"github.com/katalvlaran/lca/cmd/lca/subcommands/migrate"
	"github.com/katalvlaran/lca/logging"
)

func main() {
	logger := logging.New(logging.Options{Prefix: "lca"})
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	calcCmd, err := calc.New()
	if err != nil {
		logger.Fatal("failed to build command", "err", err)
	}
	convertCmd, err := convert.New()
	if err != nil {
		logger.Fatal("failed to build command", "err", err)
	}
	migrateCmd, err := migrate.New()
	if err != nil {
		logger.Fatal("failed to build command", "err", err)
	}

	lca, err := flarc.NewCommandGroup(
		"Life cycle assessment engine",
		struct{}{},
		flarc.WithSubcommand("calc", calcCmd),
		flarc.WithSubcommand("convert", convertCmd),
		flarc.WithSubcommand("migrate", migrateCmd),
	)
	if err != nil {
		logger.Fatal("failed to build command", "err", err)
	}

	os.Exit(flarc.Run(ctx, lca, flarc.WithHelp(true)))
}
