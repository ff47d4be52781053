// SPDX-License-Identifier: MIT
package core_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/katalvlaran/lca/core"
	"github.com/katalvlaran/lca/matrix"
	"github.com/stretchr/testify/require"
)

func newTable(t *testing.T, rows [][]float64, flows []core.Flow, procs []core.Process) core.Table {
	t.Helper()
	m, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)

	return core.Table{Flows: flows, Processes: procs, Values: m}
}

func TestTableValidate(t *testing.T) {
	flows := []core.Flow{{Name: "steel", ID: "f1", Unit: "kg"}, {Name: "power", ID: "f2", Unit: "kwh"}}
	procs := []core.Process{{Name: "mill", ID: "p1"}, {Name: "plant", ID: "p2"}}

	ok := newTable(t, [][]float64{{1, 0}, {-1, 1}}, flows, procs)
	require.NoError(t, ok.Validate())
	require.Equal(t, []string{"steel", "power"}, ok.FlowNames())
	require.Equal(t, []string{"mill", "plant"}, ok.ProcessNames())
	require.Equal(t, 1, ok.ProcessIndex("p2"))
	require.Equal(t, -1, ok.ProcessIndex("nope"))

	badRows := newTable(t, [][]float64{{1, 0}}, flows, procs)
	var dm *core.DimensionMismatchError
	require.ErrorAs(t, badRows.Validate(), &dm)
	require.Equal(t, "table rows", dm.What)

	require.ErrorIs(t, core.Table{Flows: flows}.Validate(), core.ErrDimensionMismatch)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want core.Kind
	}{
		{nil, ""},
		{&core.UnitConversionError{Unit: "furlong", FlowID: "f9"}, core.KindUnitConversion},
		{&core.IncompatibleUnitsError{Process: "saw", Units: []string{"kg", "m3"}}, core.KindIncompatibleUnits},
		{&core.NoOutputError{Process: "p"}, core.KindNoOutput},
		{&core.SingularSystemError{Size: 2}, core.KindSingularSystem},
		{fmt.Errorf("wrapped: %w", &core.DimensionMismatchError{What: "f", Want: 2, Got: 1}), core.KindDimensionMismatch},
		{errors.New("boom"), core.KindInternal},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, core.KindOf(tc.err))
	}
}

func TestSingularSystemErrorUnwrapsCause(t *testing.T) {
	err := &core.SingularSystemError{Size: 3, Cause: matrix.ErrSingular}
	require.ErrorIs(t, err, core.ErrSingularSystem)
	require.ErrorIs(t, err, matrix.ErrSingular)
	require.Contains(t, err.Error(), "n=3")
}

func TestErrorMessagesNameTheCulprit(t *testing.T) {
	require.Contains(t, (&core.UnitConversionError{Unit: "furlong", FlowID: "f9"}).Error(), `"furlong" for flow f9`)
	require.Contains(t, (&core.NoOutputError{Process: "Harvest"}).Error(), `"Harvest"`)
	require.Contains(t, (&core.IncompatibleUnitsError{Process: "saw", Units: []string{"kg", "m3"}}).Error(), "[kg, m3]")
}
