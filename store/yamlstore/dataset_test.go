// SPDX-License-Identifier: MIT
package yamlstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lca/core"
	"github.com/katalvlaran/lca/store/yamlstore"
)

func TestParse(t *testing.T) {
	snap, err := yamlstore.Parse([]byte(diagYAML))
	require.NoError(t, err)

	require.Len(t, snap.Version, 64)
	require.Equal(t, []core.Process{{Name: "Steel", ID: "P1"}, {Name: "Power", ID: "P2"}}, snap.Technology.Processes)
	require.Equal(t, snap.Technology.Processes, snap.Intervention.Processes)
	require.Len(t, snap.Technology.Rows, 2)
	require.Nil(t, snap.Technology.Rows[0].Cells[1].Value)
	require.Equal(t, 3.0, *snap.Technology.Rows[1].Cells[1].Value)
	require.Equal(t, []float64{1, 1}, snap.Intervention.Rows[1].Values)

	f, ok := snap.Characterization.Factor("ch4", "GWP")
	require.True(t, ok)
	require.Equal(t, 2.0, f)
}

func TestParseVersionFollowsContent(t *testing.T) {
	a, err := yamlstore.Parse([]byte(diagYAML))
	require.NoError(t, err)
	b, err := yamlstore.Parse([]byte(diagYAML))
	require.NoError(t, err)
	c, err := yamlstore.Parse([]byte(diagYAML + "\n# edited\n"))
	require.NoError(t, err)

	require.Equal(t, a.Version, b.Version)
	require.NotEqual(t, a.Version, c.Version)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"no processes", "technology: [{flow: a, flow_id: F}]\nintervention: [{flow: c, code: E}]\n", yamlstore.ErrInvalidDataset},
		{"process without id", "processes: [{name: A}]\ntechnology: [{flow: a}]\nintervention: [{flow: c}]\n", yamlstore.ErrInvalidDataset},
		{"duplicate characterization", diagYAML + "  - {flow: co2, factors: {GWP: 3}}\n", core.ErrDuplicateFlow},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := yamlstore.Parse([]byte(tc.doc))
			require.ErrorIs(t, err, tc.want)
		})
	}

	_, err := yamlstore.Parse([]byte("processes: [{name: A, id: P, colour: red}]\n"))
	require.Error(t, err)
}
