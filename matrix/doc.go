// SPDX-License-Identifier: MIT

// Package matrix provides the dense linear-algebra kernels behind the
// life-cycle computation: a row-major Dense container with safe accessors and
// submatrix extraction (Induced), products (MatVec, VecMat), column scaling
// (ScaleColumns) and an exact solver (LUP, Solve) with partial pivoting.
//
// Every public operation returns a sentinel error (see errors.go) wrapped with
// an operation tag; callers match with errors.Is. Kernels never panic on user
// input and never mutate their operands.
//
// Determinism: all loops run in fixed i→j order; results for a given
// input are bitwise reproducible.
package matrix
