// SPDX-License-Identifier: MIT

// Package core defines the data model shared by every stage of the
// life-cycle computation: flows and processes (the row and column identities
// of a table), Table (technology matrix A or intervention matrix B), the
// CharacterizationTable (LCI factors), non-fatal Warnings and the error
// taxonomy reported to callers.
//
// Errors:
//
//	ErrUnitConversion     - a unit string is not in the conversion table.
//	ErrIncompatibleUnits  - co-outputs of one process use different units.
//	ErrNoOutput           - a process column has no positive entry.
//	ErrSingularSystem     - the technology matrix is singular or not square.
//	ErrDimensionMismatch  - vector/table lengths disagree.
//
// Each sentinel has a typed companion (UnitConversionError, ...) carrying the
// offending unit, flow or process; all of them unwrap to their sentinel so
// callers can use errors.Is and errors.As interchangeably.
package core
