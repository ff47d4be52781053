// SPDX-License-Identifier: MIT
package impact_test

import (
	"testing"

	"github.com/katalvlaran/lca/core"
	"github.com/katalvlaran/lca/impact"
	"github.com/katalvlaran/lca/matrix"
	"github.com/stretchr/testify/require"
)

func lci(t *testing.T) *core.CharacterizationTable {
	t.Helper()
	c := core.NewCharacterizationTable()
	require.NoError(t, c.Add("flow1", map[string]float64{"GWP": 1.0}))
	require.NoError(t, c.Add("flow2", map[string]float64{"GWP": 2.0, "Smog": 0.5}))

	return c
}

func bMatrix(t *testing.T) *matrix.Dense {
	t.Helper()
	b, err := matrix.NewDenseFrom([][]float64{{1, 1}, {2, 0}})
	require.NoError(t, err)

	return b
}

func TestInventoryAndScore(t *testing.T) {
	s := []float64{2, 3}
	g, err := impact.Inventory(bMatrix(t), s)
	require.NoError(t, err)
	require.Equal(t, []float64{5, 4}, g)

	score, warns, err := impact.ImpactScore(g, []string{"flow1", "flow2"}, "GWP", lci(t))
	require.NoError(t, err)
	require.Empty(t, warns)
	require.Equal(t, 13.0, score)

	_, err = impact.Inventory(bMatrix(t), []float64{1})
	require.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestImpactScoreDimensionMismatch(t *testing.T) {
	_, _, err := impact.ImpactScore([]float64{1, 2, 3}, []string{"flow1", "flow2"}, "GWP", lci(t))
	require.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestLookupMissIsWarning(t *testing.T) {
	score, warns, err := impact.ImpactScore([]float64{5, 4}, []string{"flow1", "unknown"}, "GWP", lci(t))
	require.NoError(t, err)
	require.Equal(t, 5.0, score)
	require.Len(t, warns, 1)
	require.Equal(t, core.WarnLookupMiss, warns[0].Kind)
	require.Equal(t, "unknown", warns[0].Flow)

	// category missing for one flow only
	score, warns, err = impact.ImpactScore([]float64{5, 4}, []string{"flow1", "flow2"}, "Smog", lci(t))
	require.NoError(t, err)
	require.Equal(t, 2.0, score)
	require.Len(t, warns, 1)
	require.Equal(t, "flow1", warns[0].Flow)
	require.Equal(t, "Smog", warns[0].Category)

	// nil table: everything misses
	_, warns = impact.Characterize([]string{"a", "b"}, "GWP", nil)
	require.Len(t, warns, 2)
}

func TestProcessContributionSumsToScore(t *testing.T) {
	s := []float64{2, 3}
	flows := []string{"flow1", "flow2"}
	gm, err := impact.InventoryByProcess(bMatrix(t), s)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{2, 3}, {4, 0}}, gm.RowsCopy())

	contrib, warns, err := impact.ProcessContribution(gm, flows, "GWP", lci(t))
	require.NoError(t, err)
	require.Empty(t, warns)
	require.Equal(t, []float64{10, 3}, contrib)

	g, err := impact.Inventory(bMatrix(t), s)
	require.NoError(t, err)
	score, _, err := impact.ImpactScore(g, flows, "GWP", lci(t))
	require.NoError(t, err)
	require.InDelta(t, score, contrib[0]+contrib[1], 1e-12)

	_, _, err = impact.ProcessContribution(gm, flows[:1], "GWP", lci(t))
	require.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestScoreAndContributionsFromFactors(t *testing.T) {
	flows := []string{"flow1", "flow2", "unknown"}
	b, err := matrix.NewDenseFrom([][]float64{{1, 1}, {2, 0}, {7, 7}})
	require.NoError(t, err)
	s := []float64{2, 3}

	factors, warns := impact.Characterize(flows, "GWP", lci(t))
	require.Equal(t, []float64{1, 2, 0}, factors)
	require.Len(t, warns, 1)

	g, err := impact.Inventory(b, s)
	require.NoError(t, err)
	score, err := impact.Score(g, factors)
	require.NoError(t, err)
	require.Equal(t, 13.0, score)

	gm, err := impact.InventoryByProcess(b, s)
	require.NoError(t, err)
	contrib, err := impact.Contributions(gm, factors)
	require.NoError(t, err)
	require.Equal(t, []float64{10, 3}, contrib)

	_, err = impact.Score(g[:2], factors)
	require.ErrorIs(t, err, core.ErrDimensionMismatch)
	_, err = impact.Contributions(gm, factors[:2])
	require.ErrorIs(t, err, core.ErrDimensionMismatch)
	_, err = impact.Contributions(nil, factors)
	require.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestContributionTable(t *testing.T) {
	rows, err := impact.ContributionTable([]string{"a", "b", "c", "d"}, []float64{1.5, 0, -2, 1e-15})
	require.NoError(t, err)
	require.Equal(t, []impact.Contribution{{Process: "a", Value: 1.5}, {Process: "c", Value: -2}, {Process: "d", Value: 1e-15}}, rows)

	rows, err = impact.ContributionTable([]string{"a", "b", "c", "d"}, []float64{1.5, 0, -2, 1e-15}, impact.WithEpsilon(1e-12))
	require.NoError(t, err)
	require.Equal(t, []impact.Contribution{{Process: "a", Value: 1.5}, {Process: "c", Value: -2}}, rows)

	// misaligned names are reported, never truncated
	_, err = impact.ContributionTable([]string{"a", "b"}, []float64{1, 2, 3})
	require.ErrorIs(t, err, core.ErrDimensionMismatch)

	rows, err = impact.ContributionTable(nil, nil)
	require.NoError(t, err)
	require.Empty(t, rows)

	require.Panics(t, func() { impact.WithEpsilon(-1) })
}
