// SPDX-License-Identifier: MIT

package matrix

// DefaultValidateNaNInf toggles strict finite-value validation on ingestion and Set.
const DefaultValidateNaNInf = true

// ZeroSum is the initial accumulator value for dot products and substitution.
const ZeroSum = 0.0

// ZeroPivot is the sentinel for detecting a zero pivot in LUP.
const ZeroPivot = 0.0

// DefaultPivotTol is the relative pivot threshold used by LUP and Solve.
// A pivot p in column k is treated as zero when |p| <= DefaultPivotTol * max_i|a_ik|
// (the largest magnitude of column k in the input).
const DefaultPivotTol = 1e-13
