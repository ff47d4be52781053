// SPDX-License-Identifier: MIT

// Package units converts raw quantities into canonical base units.
//
// Every known unit belongs to one Dimension and carries a factor to that
// dimension's base unit (kg, m3, m2, m, kWh, kgkm). Normalize maps a value and
// a unit label to the base unit; forestry volume units (thousand board feet,
// standard cords) first pass through a MaterialTable of material-specific
// factors and end up as mass.
//
// Lookups try the label verbatim, then an alias, then a case-insensitive
// match when the lowercase form is unambiguous ("KWH" resolves to kWh; "MG"
// does not, since mg and Mg differ).
package units
