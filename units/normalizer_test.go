// SPDX-License-Identifier: MIT
package units_test

import (
	"testing"

	"github.com/katalvlaran/lca/core"
	"github.com/katalvlaran/lca/units"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	n := units.NewNormalizer()
	tests := []struct {
		value float64
		unit  string
		want  float64
		si    string
	}{
		{10, "lb", 4.53592, "kg"},
		{2, "ton", 1814.36948, "kg"},
		{1, "Mg", 1000, "kg"},
		{1, "mg", 0.000001, "kg"},
		{3, "green_tons", 2721.55422, "kg"},
		{1, "dry_metric_tonnes", 1000, "kg"},
		{100, "ft3", 2.83168, "m3"},
		{5, "cubic_meters", 5, "m3"},
		{2, "ha", 20000, "m2"},
		{1, "mile", 1609.34, "m"},
		{1000, "BTU", 0.293071, "kWh"},
		{4, "KWH", 4, "kWh"},
		{1, "MMBTU", 293.071, "kWh"},
		{2, "tkm", 2000, "kgkm"},
		{1, " litre ", 0.001, "m3"},
	}
	for _, tc := range tests {
		t.Run(tc.unit, func(t *testing.T) {
			q, err := n.Normalize(tc.value, tc.unit)
			require.NoError(t, err)
			require.InDelta(t, tc.want, q.Value, 1e-9)
			require.Equal(t, tc.si, q.Unit)
			require.Empty(t, q.Warnings)
		})
	}
}

func TestNormalizeUnknownUnit(t *testing.T) {
	n := units.NewNormalizer()
	for _, label := range []string{"furlong", "MG", ""} {
		_, err := n.Normalize(1, label)
		require.ErrorIs(t, err, core.ErrUnitConversion, label)
		var uce *core.UnitConversionError
		require.ErrorAs(t, err, &uce)
		require.Equal(t, label, uce.Unit)
	}
}

func TestSIUnit(t *testing.T) {
	n := units.NewNormalizer()
	for label, want := range map[string]string{
		"lbs": "kg", "gallon": "m3", "acre": "m2", "feet": "m", "j": "kWh", "tmi": "kgkm",
		"mbf": "kg", "Standard_Cords": "kg", "cord": "m3",
	} {
		got, err := n.SIUnit(label)
		require.NoError(t, err, label)
		require.Equal(t, want, got, label)
	}
	_, err := n.SIUnit("parsec")
	require.ErrorIs(t, err, core.ErrUnitConversion)
}

func TestConvert(t *testing.T) {
	n := units.NewNormalizer()

	v, err := n.Convert(1, "metric_ton", "lb")
	require.NoError(t, err)
	require.InDelta(t, 2204.6244, v, 1e-3)

	_, err = n.Convert(1, "kg", "m3")
	require.ErrorIs(t, err, units.ErrDimension)

	_, err = n.Convert(1, "kg", "stone")
	require.ErrorIs(t, err, units.ErrUnknownUnit)
}

func TestNormalizeForestryUnits(t *testing.T) {
	mt := units.NewMaterialTable(
		units.MaterialFactor{Material: "Roundwood", SpeciesClass: "undefined", InputUnit: "MBF_International", OutputUnit: "Green_Tons", Factor: 8},
		units.MaterialFactor{Material: "roundwood", InputUnit: "dry_metric_tonnes", OutputUnit: "standard_cords", Factor: 0.5},
	)
	n := units.NewNormalizer(units.WithMaterials(mt))

	// 2 MBF → 16 green tons → 8 dry tons → 8 * 907.18474 kg
	q, err := n.Normalize(2, "mbf")
	require.NoError(t, err)
	require.Equal(t, "kg", q.Unit)
	require.InDelta(t, 8*907.18474, q.Value, 1e-9)

	// reverse row: 3 cords / 0.5 → 6 dry metric tonnes → 6000 kg
	q, err = n.Normalize(3, "standard_cords")
	require.NoError(t, err)
	require.InDelta(t, 6000, q.Value, 1e-9)

	// custom moisture ratio
	n = units.NewNormalizer(units.WithMaterials(mt), units.WithDryRatio(1))
	q, err = n.Normalize(1, "mbf_international")
	require.NoError(t, err)
	require.InDelta(t, 8*907.18474, q.Value, 1e-9)
}

func TestNormalizeForestryWithoutFactorFails(t *testing.T) {
	n := units.NewNormalizer()
	_, err := n.Normalize(1, "mbf")
	require.ErrorIs(t, err, core.ErrUnitConversion)
}

func TestNormalizeZeroMaterialFactorWarns(t *testing.T) {
	mt := units.NewMaterialTable(units.MaterialFactor{InputUnit: "standard_cords", OutputUnit: "dry_metric_tonnes", Factor: 0})
	n := units.NewNormalizer(units.WithMaterials(mt))

	q, err := n.Normalize(4, "standard_cords")
	require.NoError(t, err)
	require.Zero(t, q.Value)
	require.Len(t, q.Warnings, 1)
	require.Equal(t, core.WarnZeroFactor, q.Warnings[0].Kind)
}

func TestWithDryRatioPanicsOnInvalid(t *testing.T) {
	require.Panics(t, func() { units.WithDryRatio(0) })
	require.Panics(t, func() { units.WithDryRatio(1.5) })
}
