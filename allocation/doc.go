// SPDX-License-Identifier: MIT

// Package allocation splits multifunctional processes into single-output
// equivalents.
//
// A technology column with one positive entry is copied as is. A column with
// n > 1 positive entries (co-products) becomes n columns; column i keeps the
// original output i unscaled, carries the input (negative) rows scaled by the
// allocation factor f_i = output_i / sum(outputs), and zero elsewhere. The
// matching intervention column is scaled by f_i. Derived columns are named
// "<name>_output_<i>" with ID "<id>_<i>", i counted from 1.
//
// Factors are proportional to output magnitude, so every co-output of a
// process must share a unit; otherwise Allocate fails with
// core.IncompatibleUnitsError unless explicit factors were supplied through
// WithFactors.
package allocation
