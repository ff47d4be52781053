// SPDX-License-Identifier: MIT

// Package scaling solves the technology system A·s = f for the scaling
// vector s and builds the final-demand vector f.
//
// The solve is exact (LU with partial pivoting). A singular or non-square
// technology matrix is an error; there is no least-squares fallback and no retry.
package scaling

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/katalvlaran/lca/core"
	"github.com/katalvlaran/lca/matrix"
)

// ErrParseDemand is returned when a demand string holds a token that is not a finite number.
var ErrParseDemand = errors.New("scaling: invalid demand value")

// Solve returns s with A·s = f; s[j] belongs to column j of a.
//
// Errors:
//   - *core.SingularSystemError when a is nil, not square or singular.
//   - *core.DimensionMismatchError when len(f) != a.Rows().
func Solve(a *matrix.Dense, f []float64) ([]float64, error) {
	if a == nil {
		return nil, &core.SingularSystemError{Cause: matrix.ErrNilMatrix}
	}
	if a.Rows() != a.Cols() {
		return nil, &core.SingularSystemError{Size: a.Rows(), Cause: fmt.Errorf("%d×%d: %w", a.Rows(), a.Cols(), matrix.ErrNonSquare)}
	}
	if len(f) != a.Rows() {
		return nil, &core.DimensionMismatchError{What: "final demand", Want: a.Rows(), Got: len(f)}
	}
	s, err := matrix.Solve(a, f)
	if err != nil {
		return nil, &core.SingularSystemError{Size: a.Rows(), Cause: err}
	}

	return s, nil
}

// SolveTable solves the technology table, returning s in process order.
func SolveTable(a core.Table, f []float64) ([]float64, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	return Solve(a.Values, f)
}

// ParseDemand reads whitespace- or comma-separated numbers.
//
// Errors: ErrParseDemand for a token that is not a finite number.
func ParseDemand(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]float64, 0, len(fields))
	for _, tok := range fields {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %q", ErrParseDemand, tok)
		}
		out = append(out, v)
	}

	return out, nil
}

// BuildDemand appends nonProductColumns zeros to values and checks the result
// has exactly size entries.
//
// nonProductColumns counts the technology columns that no demand value
// addresses (e.g. background processes); callers name it explicitly instead of
// relying on a fixed padding.
//
// Errors: *core.DimensionMismatchError when the padded length differs from size
// or nonProductColumns is negative.
func BuildDemand(values []float64, nonProductColumns, size int) ([]float64, error) {
	if nonProductColumns < 0 {
		return nil, &core.DimensionMismatchError{What: "non-product columns", Want: 0, Got: nonProductColumns}
	}
	n := len(values) + nonProductColumns
	if n != size {
		return nil, &core.DimensionMismatchError{What: "final demand", Want: size, Got: n}
	}
	f := make([]float64, size)
	copy(f, values)

	return f, nil
}
