// SPDX-License-Identifier: MIT

package core

import (
	"fmt"

	"github.com/katalvlaran/lca/matrix"
)

// DefaultCategory is the impact category used when a request names none.
const DefaultCategory = "GWP"

// Flow is the identity of one matrix row.
//
// Name is the display name, also the key into the CharacterizationTable for
// intervention rows. Unit is the SI unit the row's values are expressed in.
type Flow struct {
	Name string `json:"name" yaml:"name"`
	ID   string `json:"id" yaml:"id"`
	Unit string `json:"unit" yaml:"unit"`
}

// Process is the identity of one matrix column.
type Process struct {
	Name string `json:"name" yaml:"name"`
	ID   string `json:"id" yaml:"id"`
}

// Table is a matrix with its row (flow) and column (process) identities.
// It is used both for the technology matrix A (positive = output,
// negative = input) and the intervention matrix B.
//
// Tables are immutable once assembled; stages that change values build a new Table.
type Table struct {
	Flows     []Flow
	Processes []Process
	Values    *matrix.Dense
}

// Validate checks that Values exists and agrees with the identity slices.
//
// Errors: ErrDimensionMismatch (wrapped in *DimensionMismatchError).
func (t Table) Validate() error {
	if t.Values == nil {
		return &DimensionMismatchError{What: "table values", Want: len(t.Flows), Got: 0}
	}
	if t.Values.Rows() != len(t.Flows) {
		return &DimensionMismatchError{What: "table rows", Want: len(t.Flows), Got: t.Values.Rows()}
	}
	if t.Values.Cols() != len(t.Processes) {
		return &DimensionMismatchError{What: "table columns", Want: len(t.Processes), Got: t.Values.Cols()}
	}

	return nil
}

// FlowNames returns the display names of the rows in order.
func (t Table) FlowNames() []string {
	out := make([]string, len(t.Flows))
	for i, f := range t.Flows {
		out[i] = f.Name
	}

	return out
}

// ProcessNames returns the display names of the columns in order.
func (t Table) ProcessNames() []string {
	out := make([]string, len(t.Processes))
	for i, p := range t.Processes {
		out[i] = p.Name
	}

	return out
}

// ProcessIndex returns the column holding the process with the given ID, or -1.
func (t Table) ProcessIndex(id string) int {
	for j, p := range t.Processes {
		if p.ID == id {
			return j
		}
	}

	return -1
}

// WarningKind classifies a non-fatal diagnostic.
type WarningKind string

const (
	// WarnLookupMiss: a flow or category was absent from the characterization table; 0 was used.
	WarnLookupMiss WarningKind = "lookup_miss"
	// WarnRowPadding: a values block was shorter than its identity rows and was zero-padded.
	WarnRowPadding WarningKind = "row_padding"
	// WarnZeroFactor: a material conversion factor of zero produced a zero quantity.
	WarnZeroFactor WarningKind = "zero_factor"
)

// Warning is a non-fatal diagnostic attached to a result.
type Warning struct {
	Kind     WarningKind `json:"kind"`
	Flow     string      `json:"flow,omitempty"`
	Category string      `json:"category,omitempty"`
	Process  string      `json:"process,omitempty"`
	Message  string      `json:"message"`
}

// String renders the warning for logs.
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// LookupMiss builds the warning recorded when flow/category is absent.
func LookupMiss(flow, category string) Warning {
	return Warning{
		Kind:     WarnLookupMiss,
		Flow:     flow,
		Category: category,
		Message:  fmt.Sprintf("no %s factor for flow %q, using 0", category, flow),
	}
}
