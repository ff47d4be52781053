// SPDX-License-Identifier: MIT

// Package impact aggregates a solved scaling vector into environmental results.
//
//   - Inventory:           g = B·s (total burden per intervention flow).
//   - InventoryByProcess:  G = B·diag(s) (burden per flow and process).
//   - ImpactScore:         g · c, c the characterization factors of one category.
//   - ProcessContribution: cᵀ·G (impact per process).
//   - ContributionTable:   (process, contribution) pairs with zero entries dropped.
//
// A flow or category absent from the characterization table counts as 0 and
// is reported as a core.WarnLookupMiss warning, never as an error.
package impact
