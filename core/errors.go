// SPDX-License-Identifier: MIT

package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the computation pipeline.
var (
	// ErrUnitConversion indicates a unit string missing from the conversion table.
	ErrUnitConversion = errors.New("core: unit conversion failed")

	// ErrIncompatibleUnits indicates co-outputs of one process with different units.
	ErrIncompatibleUnits = errors.New("core: incompatible units among co-outputs")

	// ErrNoOutput indicates a process column without any positive entry.
	ErrNoOutput = errors.New("core: process has no output")

	// ErrSingularSystem indicates the technology matrix has no unique solution.
	ErrSingularSystem = errors.New("core: singular technology matrix")

	// ErrDimensionMismatch indicates vector or table lengths that disagree.
	ErrDimensionMismatch = errors.New("core: dimension mismatch")

	// ErrDuplicateFlow indicates a characterization key inserted twice.
	ErrDuplicateFlow = errors.New("core: duplicate characterization flow")
)

// UnitConversionError reports the unit and flow that could not be normalized.
type UnitConversionError struct {
	Unit   string
	FlowID string
}

func (e *UnitConversionError) Error() string {
	if e.FlowID == "" {
		return fmt.Sprintf("%v: unknown unit %q", ErrUnitConversion, e.Unit)
	}

	return fmt.Sprintf("%v: unknown unit %q for flow %s", ErrUnitConversion, e.Unit, e.FlowID)
}

func (e *UnitConversionError) Unwrap() error { return ErrUnitConversion }

// IncompatibleUnitsError reports a multifunctional process whose outputs disagree on units.
type IncompatibleUnitsError struct {
	Process string
	Units   []string
}

func (e *IncompatibleUnitsError) Error() string {
	return fmt.Sprintf("%v: process %q outputs [%s]", ErrIncompatibleUnits, e.Process, strings.Join(e.Units, ", "))
}

func (e *IncompatibleUnitsError) Unwrap() error { return ErrIncompatibleUnits }

// NoOutputError names the process column with no positive entry.
type NoOutputError struct {
	Process string
}

func (e *NoOutputError) Error() string {
	return fmt.Sprintf("%v: %q", ErrNoOutput, e.Process)
}

func (e *NoOutputError) Unwrap() error { return ErrNoOutput }

// SingularSystemError wraps the numeric cause of a failed solve.
type SingularSystemError struct {
	Size  int
	Cause error
}

func (e *SingularSystemError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%v (n=%d)", ErrSingularSystem, e.Size)
	}

	return fmt.Sprintf("%v (n=%d): %v", ErrSingularSystem, e.Size, e.Cause)
}

// Unwrap exposes both the sentinel and the numeric cause.
func (e *SingularSystemError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrSingularSystem}
	}

	return []error{ErrSingularSystem, e.Cause}
}

// DimensionMismatchError reports which quantity disagreed and by how much.
type DimensionMismatchError struct {
	What string
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%v: %s: want %d, got %d", ErrDimensionMismatch, e.What, e.Want, e.Got)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrDimensionMismatch }

// Kind is the structured failure classification reported to callers.
type Kind string

const (
	KindUnitConversion    Kind = "unit_conversion"
	KindIncompatibleUnits Kind = "incompatible_units"
	KindNoOutput          Kind = "no_output"
	KindSingularSystem    Kind = "singular_system"
	KindDimensionMismatch Kind = "dimension_mismatch"
	KindInternal          Kind = "internal"
)

// KindOf classifies err. Unknown errors are KindInternal; nil yields "".
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnitConversion):
		return KindUnitConversion
	case errors.Is(err, ErrIncompatibleUnits):
		return KindIncompatibleUnits
	case errors.Is(err, ErrNoOutput):
		return KindNoOutput
	case errors.Is(err, ErrSingularSystem):
		return KindSingularSystem
	case errors.Is(err, ErrDimensionMismatch):
		return KindDimensionMismatch
	default:
		return KindInternal
	}
}
