// SPDX-License-Identifier: MIT

package assemble

import (
	"github.com/katalvlaran/lca/core"
	"github.com/katalvlaran/lca/units"
)

// RawCell is one technology cell as entered: a value with its own unit.
// A nil Value or an empty Unit is an empty cell and counts as 0.
type RawCell struct {
	Value *float64 `json:"value,omitempty" yaml:"value,omitempty"`
	Unit  string   `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Cell is a convenience constructor for a filled RawCell.
func Cell(v float64, unit string) RawCell { return RawCell{Value: &v, Unit: unit} }

// RawTechnologyRow is one flow of the raw technology table.
type RawTechnologyRow struct {
	Flow   string    `json:"flow" yaml:"flow"`
	FlowID string    `json:"flow_id" yaml:"flow_id"`
	Cells  []RawCell `json:"cells" yaml:"cells"`
}

// RawTechnology is the technology table before normalization.
// Cells[j] of every row belongs to Processes[j].
type RawTechnology struct {
	Processes []core.Process     `json:"processes" yaml:"processes"`
	Rows      []RawTechnologyRow `json:"rows" yaml:"rows"`
}

// RawInterventionRow is one elementary flow of the raw intervention table.
// Flow is the display name used for characterization lookups.
type RawInterventionRow struct {
	Flow   string    `json:"flow" yaml:"flow"`
	Code   string    `json:"code" yaml:"code"`
	Unit   string    `json:"unit" yaml:"unit"`
	Values []float64 `json:"values" yaml:"values"`
}

// RawIntervention is the intervention table before normalization.
type RawIntervention struct {
	Processes []core.Process       `json:"processes" yaml:"processes"`
	Rows      []RawInterventionRow `json:"rows" yaml:"rows"`
}

// Snapshot is one consistent view of all reference data a computation reads.
// Version identifies the content; equal versions mean equal content.
type Snapshot struct {
	Version          string
	Technology       RawTechnology
	Intervention     RawIntervention
	Characterization *core.CharacterizationTable
	Materials        []units.MaterialFactor
}
