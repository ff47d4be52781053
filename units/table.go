// SPDX-License-Identifier: MIT

package units

// Dimension is the physical quantity a unit measures.
type Dimension string

const (
	Mass      Dimension = "mass"
	Volume    Dimension = "volume"
	Area      Dimension = "area"
	Length    Dimension = "length"
	Energy    Dimension = "energy"
	Transport Dimension = "transport"
)

// Base units per dimension.
var baseUnits = map[Dimension]string{
	Mass:      "kg",
	Volume:    "m3",
	Area:      "m2",
	Length:    "m",
	Energy:    "kWh",
	Transport: "kgkm",
}

// BaseUnit returns the canonical unit of d and whether d is known.
func BaseUnit(d Dimension) (string, bool) {
	u, ok := baseUnits[d]

	return u, ok
}

// Unit is one entry of the conversion table: 1 Symbol == ToBase base units.
type Unit struct {
	Symbol    string
	Dimension Dimension
	ToBase    float64
}

// builtinUnits is the static conversion table.
var builtinUnits = []Unit{
	// mass → kg
	{"lb", Mass, 0.453592},
	{"ton", Mass, 907.18474},
	{"short_ton", Mass, 907.18474},
	{"metric_ton", Mass, 1000},
	{"Mg", Mass, 1000},
	{"kg", Mass, 1},
	{"g", Mass, 0.001},
	{"mg", Mass, 0.000001},
	{"oz", Mass, 0.0283495},

	// volume → m3
	{"ft3", Volume, 0.0283168},
	{"m3", Volume, 1},
	{"cm3", Volume, 0.000001},
	{"gal", Volume, 0.00378541},
	{"liter", Volume, 0.001},
	{"barrel", Volume, 0.158987},
	{"yd3", Volume, 0.7646},
	{"cord", Volume, 3.62456},
	{"MBF", Volume, 2.362},

	// area → m2
	{"ft2", Area, 0.092903},
	{"m2", Area, 1},
	{"km2", Area, 1_000_000},
	{"acre", Area, 4046.86},
	{"ha", Area, 10000},
	{"yd2", Area, 0.836127},

	// length → m
	{"ft", Length, 0.3048},
	{"m", Length, 1},
	{"inch", Length, 0.0254},
	{"yard", Length, 0.9144},
	{"mile", Length, 1609.34},

	// energy → kWh
	{"kWh", Energy, 1},
	{"BTU", Energy, 0.000293071},
	{"MBTU", Energy, 0.293071},
	{"MMBTU", Energy, 293.071},
	{"kcal", Energy, 0.001163},
	{"joule", Energy, 2.7778e-7},

	// transport → kg·km
	{"tkm", Transport, 1000},
	{"tmi", Transport, 1600},
	{"kgkm", Transport, 1},
}

// builtinAliases maps alternative spellings onto table symbols.
var builtinAliases = map[string]string{
	"cubic_meters":        "m3",
	"cubic_feet":          "ft3",
	"green_tons":          "ton",
	"dry_tons":            "ton",
	"dry_metric_tonnes":   "metric_ton",
	"green_metric_tonnes": "metric_ton",
	"mt":                  "metric_ton",
	"pound":               "lb",
	"lbs":                 "lb",
	"gallon":              "gal",
	"litre":               "liter",
	"feet":                "ft",
	"in":                  "inch",
	"j":                   "joule",
	"mbf":                 "MBF",
}
