// SPDX-License-Identifier: MIT

// Package convert implements "lca convert VALUE FROM [TO]".
package convert

import (
	"context"
	"fmt"
	"strconv"

	"github.com/youta-t/flarc"

	"github.com/katalvlaran/lca/store/yamlstore"
	"github.com/katalvlaran/lca/units"
)

// Flags of "lca convert".
type Flags struct {
	Materials string `flag:"materials" help:"YAML dataset whose materials table resolves forestry units."`
	Material  string `flag:"material" help:"Material selector for forestry conversions."`
	Species   string `flag:"species" help:"Species class selector for forestry conversions."`
}

const (
	ARG_VALUE = "VALUE"
	ARG_FROM  = "FROM"
	ARG_TO    = "TO"
)

// New builds the command.
func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Convert a quantity between units. Without TO, print it in its SI base unit.",
		Flags{},
		flarc.Args{
			{Name: ARG_VALUE, Required: true, Help: "Numeric value."},
			{Name: ARG_FROM, Required: true, Help: "Unit of VALUE, e.g. lb, MMBTU, mbf."},
			{Name: ARG_TO, Required: false, Help: "Target unit of the same dimension."},
		},
		Task,
	)
}

// Task prints the converted value and its unit.
func Task(ctx context.Context, c flarc.Commandline[Flags], _ []any) error {
	flags := c.Flags()
	args := c.Args()
	value, err := strconv.ParseFloat(first(args[ARG_VALUE]), 64)
	if err != nil {
		return fmt.Errorf("%w: VALUE: %v", flarc.ErrUsage, err)
	}
	from, to := first(args[ARG_FROM]), first(args[ARG_TO])

	opts := []units.Option{units.WithSelector(units.Selector{Material: flags.Material, SpeciesClass: flags.Species})}
	if flags.Materials != "" {
		s, err := yamlstore.Open(flags.Materials)
		if err != nil {
			return err
		}
		snap, err := s.Snapshot(ctx)
		if err != nil {
			return err
		}
		opts = append(opts, units.WithMaterials(units.NewMaterialTable(snap.Materials...)))
	}
	n := units.NewNormalizer(opts...)

	if to == "" {
		q, err := n.Normalize(value, from)
		if err != nil {
			return err
		}
		for _, w := range q.Warnings {
			fmt.Fprintln(c.Stderr(), "warning:", w.String())
		}
		_, err = fmt.Fprintf(c.Stdout(), "%s %s\n", strconv.FormatFloat(q.Value, 'g', -1, 64), q.Unit)
		return err
	}
	v, err := n.Convert(value, from, to)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.Stdout(), "%s %s\n", strconv.FormatFloat(v, 'g', -1, 64), to)

	return err
}

func first(v []string) string {
	if len(v) == 0 {
		return ""
	}

	return v[0]
}
