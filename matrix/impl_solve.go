// SPDX-License-Identifier: MIT

// Package matrix - LUP factorization and exact linear solve.
//
// Purpose:
//   - Factor a square matrix as P·A = L·U with partial (row) pivoting.
//   - Solve A·x = b exactly through forward/backward substitution.
//   - Report rank deficiency as ErrSingular; there is no least-squares or
//     pseudo-inverse fallback.
//
// Determinism:
//   - Pivot choice is the first row holding the largest |a_ik| (ties keep the lower index).
//
// Complexity:
//   - LUP: O(n^3); Solve after LUP: O(n^2) per right-hand side.

package matrix

import (
	"fmt"
	"math"
)

const (
	opLUP   = "LUP"
	opSolve = "Solve"
)

// LUFactors holds a packed LUP factorization: the strict lower triangle of lu
// stores L (unit diagonal implied), the upper triangle stores U, and perm maps
// factor rows to input rows (row i of P·A is row perm[i] of A).
type LUFactors struct {
	lu   *Dense
	perm []int
}

// LUP factors a square matrix with partial pivoting.
// MAIN DESCRIPTION:
//   - Doolittle-style elimination on a packed copy of m, choosing at every step
//     the row with the largest magnitude in the current column.
//
// Implementation:
//   - Stage 1: ValidateSquare(m); copy into a private *Dense (fallback reads via At).
//   - Stage 2: record per-column magnitude scale of the input for the pivot threshold.
//   - Stage 3: for k = 0..n-1 pick pivot row, swap, test |pivot| against the
//     threshold, eliminate below.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrSingular (no acceptable pivot in some column).
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
func LUP(m Matrix) (*LUFactors, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opLUP, err)
	}
	n := m.Rows()
	lu, err := copyToDense(m)
	if err != nil {
		return nil, matrixErrorf(opLUP, err)
	}

	scale := make([]float64, n)
	var i, j, k int
	for j = 0; j < n; j++ {
		for i = 0; i < n; i++ {
			scale[j] = math.Max(scale[j], math.Abs(lu.data[i*n+j]))
		}
	}

	perm := make([]int, n)
	for i = range perm {
		perm[i] = i
	}

	var p int
	var best, v, pivot, factor float64
	for k = 0; k < n; k++ {
		p, best = k, math.Abs(lu.data[k*n+k])
		for i = k + 1; i < n; i++ {
			if v = math.Abs(lu.data[i*n+k]); v > best {
				p, best = i, v
			}
		}
		if best == ZeroPivot || best <= DefaultPivotTol*scale[k] {
			return nil, matrixErrorf(opLUP, fmt.Errorf("column %d: %w", k, ErrSingular))
		}
		if p != k {
			swapRows(lu, p, k)
			perm[p], perm[k] = perm[k], perm[p]
		}
		pivot = lu.data[k*n+k]
		for i = k + 1; i < n; i++ {
			factor = lu.data[i*n+k] / pivot
			lu.data[i*n+k] = factor
			if factor == 0 {
				continue
			}
			for j = k + 1; j < n; j++ {
				lu.data[i*n+j] -= factor * lu.data[k*n+j]
			}
		}
	}

	return &LUFactors{lu: lu, perm: perm}, nil
}

// Solve returns x such that P·A·x = P·b using the stored factors.
//
// Errors: ErrDimensionMismatch when len(b) != N().
// Complexity: O(n^2).
func (f *LUFactors) Solve(b []float64) ([]float64, error) {
	n := f.lu.r
	if err := ValidateVecLen(b, n); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	x := make([]float64, n)
	var i, j int
	var sum float64
	// Forward substitution: L·y = P·b (y stored in x).
	for i = 0; i < n; i++ {
		sum = b[f.perm[i]]
		for j = 0; j < i; j++ {
			sum -= f.lu.data[i*n+j] * x[j]
		}
		x[i] = sum
	}
	// Backward substitution: U·x = y.
	for i = n - 1; i >= 0; i-- {
		sum = x[i]
		for j = i + 1; j < n; j++ {
			sum -= f.lu.data[i*n+j] * x[j]
		}
		x[i] = sum / f.lu.data[i*n+i]
	}

	return x, nil
}

// Solve computes the exact solution of a·x = b.
// MAIN DESCRIPTION:
//   - One-shot facade over LUP + LUFactors.Solve.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrDimensionMismatch (len(b) != a.Rows()), ErrSingular.
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
func Solve(a Matrix, b []float64) ([]float64, error) {
	if err := ValidateSquare(a); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	if err := ValidateVecLen(b, a.Rows()); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	f, err := LUP(a)
	if err != nil {
		return nil, matrixErrorf(opSolve, err)
	}

	return f.Solve(b)
}

// copyToDense returns a private *Dense copy of m, using the flat fast path when possible.
func copyToDense(m Matrix) (*Dense, error) {
	if d, ok := m.(*Dense); ok {
		return d.clone(), nil
	}
	r, c := m.Rows(), m.Cols()
	out, err := NewDense(r, c)
	if err != nil {
		return nil, err
	}
	var v float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, err
			}
			out.data[i*c+j] = v
		}
	}

	return out, nil
}

// swapRows exchanges rows a and b of d in place.
func swapRows(d *Dense, a, b int) {
	ra := d.data[a*d.c : (a+1)*d.c]
	rb := d.data[b*d.c : (b+1)*d.c]
	for j := range ra {
		ra[j], rb[j] = rb[j], ra[j]
	}
}
