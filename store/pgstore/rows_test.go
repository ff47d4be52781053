// SPDX-License-Identifier: MIT
package pgstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lca/core"
	"github.com/katalvlaran/lca/store/pgstore"
	"github.com/katalvlaran/lca/units"
)

func f64(v float64) *float64 { return &v }
func str(s string) *string   { return &s }

func sampleRows() pgstore.Rows {
	return pgstore.Rows{
		Processes: []pgstore.ProcessRow{{Position: 2, ID: "P2", Name: "Power"}, {Position: 1, ID: "P1", Name: "Steel"}},
		Technology: []pgstore.TechnologyRow{
			{Position: 20, Flow: "electricity", FlowID: "F2"},
			{Position: 10, Flow: "steel", FlowID: "F1"},
		},
		Cells: []pgstore.TechnologyCell{
			{RowPosition: 10, ProcessPosition: 1, Value: f64(2), Unit: str("kg")},
			{RowPosition: 20, ProcessPosition: 2, Value: f64(3), Unit: str("kWh")},
			{RowPosition: 20, ProcessPosition: 1},
		},
		Intervention: []pgstore.InterventionRow{{Code: "E1", Flow: "co2", Unit: "kg", Values: []float64{1, 1}}},
		Characterization: []pgstore.CharacterizationRow{
			{Flow: "co2", Category: "GWP", Factor: 1},
			{Flow: "co2", Category: "AP", Factor: 0.5},
		},
		Materials: []units.MaterialFactor{{InputUnit: "mbf", OutputUnit: "green_tons", Factor: 2.5}},
	}
}

func TestRowsSnapshot(t *testing.T) {
	snap, err := sampleRows().Snapshot("pg-7")
	require.NoError(t, err)

	require.Equal(t, "pg-7", snap.Version)
	require.Equal(t, []core.Process{{Name: "Steel", ID: "P1"}, {Name: "Power", ID: "P2"}}, snap.Technology.Processes)
	require.Equal(t, snap.Technology.Processes, snap.Intervention.Processes)

	rows := snap.Technology.Rows
	require.Len(t, rows, 2)
	require.Equal(t, "F1", rows[0].FlowID)
	require.Equal(t, 2.0, *rows[0].Cells[0].Value)
	require.Nil(t, rows[0].Cells[1].Value)
	require.Equal(t, "kWh", rows[1].Cells[1].Unit)
	require.Nil(t, rows[1].Cells[0].Value)
	require.Empty(t, rows[1].Cells[0].Unit)

	gwp, ok := snap.Characterization.Factor("co2", "GWP")
	require.True(t, ok)
	require.Equal(t, 1.0, gwp)
	ap, ok := snap.Characterization.Factor("co2", "AP")
	require.True(t, ok)
	require.Equal(t, 0.5, ap)

	require.Len(t, snap.Materials, 1)
}

func TestRowsSnapshotInconsistent(t *testing.T) {
	r := sampleRows()
	r.Cells = append(r.Cells, pgstore.TechnologyCell{RowPosition: 99, ProcessPosition: 1})
	_, err := r.Snapshot("x")
	require.ErrorIs(t, err, pgstore.ErrInconsistent)

	r = sampleRows()
	r.Cells = append(r.Cells, pgstore.TechnologyCell{RowPosition: 10, ProcessPosition: 9})
	_, err = r.Snapshot("x")
	require.ErrorIs(t, err, pgstore.ErrInconsistent)
}

func TestMigrateURL(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@db:5432/lca": "pgx5://u:p@db:5432/lca",
		"postgresql://db/lca?x=1":    "pgx5://db/lca?x=1",
		"pgx5://db/lca":              "pgx5://db/lca",
	}
	for in, want := range tests {
		require.Equal(t, want, pgstore.MigrateURL(in), in)
	}
}
