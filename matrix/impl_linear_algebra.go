// SPDX-License-Identifier: MIT

// Package matrix - products and column scaling.
//
// Purpose:
//   - MatVec and VecMat cover the two product shapes needed downstream:
//     matrix·vector (g = B·s) and rowvector·matrix (cᵀ·G).
//   - ScaleColumns forms M·diag(v) without materializing diag(v).
//
// Determinism:
//   - Fixed loop orders; no data-dependent ordering.
//
// AI-Hints:
//   - Pass *Dense operands to unlock the flat-slice fast paths.

package matrix

import "fmt"

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opMatVec       = "MatVec"
	opVecMat       = "VecMat"
	opScaleColumns = "ScaleColumns"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
//
// AI-Hints:
//   - Always gate calls with `if err != nil { return nil, matrixErrorf(tag, err) }`.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// MatVec computes y = m · x for a column vector x.
//
// Contract: m non-nil; len(x) == m.Cols().
// Determinism: fixed i→j loop order.
// Complexity: Time O(r*c), Space O(r) for y.
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	rows, cols := m.Rows(), m.Cols()
	y := make([]float64, rows)

	if d, ok := m.(*Dense); ok {
		var i, j, base int
		var acc, xv float64
		for i = 0; i < d.r; i++ {
			acc = ZeroSum
			base = i * d.c
			for j = 0; j < d.c; j++ {
				xv = x[j]
				if xv != 0 {
					acc += d.data[base+j] * xv
				}
			}
			y[i] = acc
		}

		return y, nil
	}

	var i, j int
	var mv float64
	var err error
	for i = 0; i < rows; i++ {
		y[i] = ZeroSum
		for j = 0; j < cols; j++ {
			if mv, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opMatVec, err)
			}
			y[i] += mv * x[j]
		}
	}

	return y, nil
}

// VecMat computes the row vector yᵀ = xᵀ · m.
//
// Contract: m non-nil; len(x) == m.Rows().
// Determinism: fixed i→j loop order; y[j] accumulates rows top to bottom.
// Complexity: Time O(r*c), Space O(c) for y.
func VecMat(x []float64, m Matrix) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opVecMat, err)
	}
	if err := ValidateVecLen(x, m.Rows()); err != nil {
		return nil, matrixErrorf(opVecMat, err)
	}
	rows, cols := m.Rows(), m.Cols()
	y := make([]float64, cols)

	var i, j int
	var xv, mv float64
	if d, ok := m.(*Dense); ok {
		var base int
		for i = 0; i < rows; i++ {
			xv = x[i]
			if xv == 0 {
				continue
			}
			base = i * cols
			for j = 0; j < cols; j++ {
				y[j] += xv * d.data[base+j]
			}
		}

		return y, nil
	}

	var err error
	for i = 0; i < rows; i++ {
		xv = x[i]
		if xv == 0 {
			continue
		}
		for j = 0; j < cols; j++ {
			if mv, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opVecMat, err)
			}
			y[j] += xv * mv
		}
	}

	return y, nil
}

// ScaleColumns returns m · diag(v): column j of the result is column j of m times v[j].
// The diagonal matrix is never materialized.
//
// Contract: m non-nil; len(v) == m.Cols().
// Complexity: Time O(r*c), Space O(r*c).
func ScaleColumns(m Matrix, v []float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScaleColumns, err)
	}
	if err := ValidateVecLen(v, m.Cols()); err != nil {
		return nil, matrixErrorf(opScaleColumns, err)
	}
	rows, cols := m.Rows(), m.Cols()
	res, err := NewDense(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opScaleColumns, err)
	}

	var i, j, base int
	if d, ok := m.(*Dense); ok {
		for i = 0; i < rows; i++ {
			base = i * cols
			for j = 0; j < cols; j++ {
				res.data[base+j] = d.data[base+j] * v[j]
			}
		}

		return res, nil
	}

	var mv float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if mv, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opScaleColumns, err)
			}
			if err = res.Set(i, j, mv*v[j]); err != nil {
				return nil, matrixErrorf(opScaleColumns, err)
			}
		}
	}

	return res, nil
}
