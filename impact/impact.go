// SPDX-License-Identifier: MIT

package impact

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lca/core"
	"github.com/katalvlaran/lca/matrix"
)

// Contribution is one row of the contribution table.
type Contribution struct {
	Process string  `json:"Process"`
	Value   float64 `json:"Contribution"`
}

// Inventory returns g = B·s.
//
// Errors: *core.DimensionMismatchError when len(s) != B.Cols().
func Inventory(b *matrix.Dense, s []float64) ([]float64, error) {
	if b == nil {
		return nil, &core.DimensionMismatchError{What: "intervention matrix", Want: len(s), Got: 0}
	}
	if len(s) != b.Cols() {
		return nil, &core.DimensionMismatchError{What: "scaling vector", Want: b.Cols(), Got: len(s)}
	}
	g, err := matrix.MatVec(b, s)
	if err != nil {
		return nil, fmt.Errorf("impact: inventory: %w", err)
	}

	return g, nil
}

// InventoryByProcess returns G = B·diag(s): G[i][j] = B[i][j]·s[j].
//
// Errors: *core.DimensionMismatchError when len(s) != B.Cols().
func InventoryByProcess(b *matrix.Dense, s []float64) (*matrix.Dense, error) {
	if b == nil {
		return nil, &core.DimensionMismatchError{What: "intervention matrix", Want: len(s), Got: 0}
	}
	if len(s) != b.Cols() {
		return nil, &core.DimensionMismatchError{What: "scaling vector", Want: b.Cols(), Got: len(s)}
	}
	g, err := matrix.ScaleColumns(b, s)
	if err != nil {
		return nil, fmt.Errorf("impact: inventory by process: %w", err)
	}

	return g, nil
}

// Characterize returns the factor of every flow for category, in flow order.
// Misses count as 0 and produce one LookupMiss warning each.
func Characterize(flows []string, category string, table *core.CharacterizationTable, opts ...Option) ([]float64, []core.Warning) {
	o := build(opts)
	factors := make([]float64, len(flows))
	var warns []core.Warning
	for i, name := range flows {
		var v float64
		var ok bool
		if table != nil {
			v, ok = table.Factor(name, category)
		}
		if !ok {
			o.Logger.Warn("characterization factor missing, using 0", "flow", name, "category", category)
			warns = append(warns, core.LookupMiss(name, category))
			continue
		}
		factors[i] = v
	}

	return factors, warns
}

// ImpactScore returns Σ g[i]·factor(flows[i], category).
//
// Errors: *core.DimensionMismatchError when len(g) != len(flows).
func ImpactScore(g []float64, flows []string, category string, table *core.CharacterizationTable, opts ...Option) (float64, []core.Warning, error) {
	if len(g) != len(flows) {
		return 0, nil, &core.DimensionMismatchError{What: "inventory vs flow names", Want: len(flows), Got: len(g)}
	}
	factors, warns := Characterize(flows, category, table, opts...)
	score, err := Score(g, factors)
	if err != nil {
		return 0, nil, err
	}

	return score, warns, nil
}

// Score returns Σ g[i]·factors[i] for factors already produced by Characterize.
//
// Errors: *core.DimensionMismatchError when the lengths differ.
func Score(g, factors []float64) (float64, error) {
	if len(g) != len(factors) {
		return 0, &core.DimensionMismatchError{What: "inventory vs factors", Want: len(factors), Got: len(g)}
	}
	var score float64
	for i := range g {
		score += g[i] * factors[i]
	}

	return score, nil
}

// ProcessContribution returns cᵀ·G: the impact attributable to each process column.
// The contributions sum to the impact score of g = G·1.
//
// Errors: *core.DimensionMismatchError when G.Rows() != len(flows).
func ProcessContribution(gm *matrix.Dense, flows []string, category string, table *core.CharacterizationTable, opts ...Option) ([]float64, []core.Warning, error) {
	if gm == nil {
		return nil, nil, &core.DimensionMismatchError{What: "inventory matrix rows", Want: len(flows), Got: 0}
	}
	if gm.Rows() != len(flows) {
		return nil, nil, &core.DimensionMismatchError{What: "inventory matrix rows", Want: len(flows), Got: gm.Rows()}
	}
	factors, warns := Characterize(flows, category, table, opts...)
	c, err := Contributions(gm, factors)
	if err != nil {
		return nil, nil, err
	}

	return c, warns, nil
}

// Contributions returns factorsᵀ·G for factors already produced by Characterize.
//
// Errors: *core.DimensionMismatchError when G.Rows() != len(factors).
func Contributions(gm *matrix.Dense, factors []float64) ([]float64, error) {
	if gm == nil {
		return nil, &core.DimensionMismatchError{What: "inventory matrix rows", Want: len(factors), Got: 0}
	}
	if gm.Rows() != len(factors) {
		return nil, &core.DimensionMismatchError{What: "inventory matrix rows", Want: len(factors), Got: gm.Rows()}
	}
	c, err := matrix.VecMat(factors, gm)
	if err != nil {
		return nil, fmt.Errorf("impact: process contribution: %w", err)
	}

	return c, nil
}

// ContributionTable pairs process names with contributions and drops entries
// whose magnitude is <= the configured epsilon (default: exactly zero).
// Order follows the input; negative contributions are kept.
//
// Errors: *core.DimensionMismatchError when the lengths differ; nothing is truncated.
func ContributionTable(names []string, contributions []float64, opts ...Option) ([]Contribution, error) {
	if len(names) != len(contributions) {
		return nil, &core.DimensionMismatchError{What: "process names vs contributions", Want: len(contributions), Got: len(names)}
	}
	o := build(opts)
	out := make([]Contribution, 0, len(names))
	for i, v := range contributions {
		if math.Abs(v) <= o.Epsilon {
			continue
		}
		out = append(out, Contribution{Process: names[i], Value: v})
	}

	return out, nil
}
