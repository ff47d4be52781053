// SPDX-License-Identifier: MIT

package yamlstore

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lca/assemble"
	"github.com/katalvlaran/lca/core"
	"github.com/katalvlaran/lca/units"
)

// ErrInvalidDataset is returned for a dataset file that parses but fails validation.
var ErrInvalidDataset = errors.New("yamlstore: invalid dataset")

// Dataset is the on-disk layout of one reference data set.
//
//	processes:
//	  - {name: Steel, id: P1}
//	technology:
//	  - {flow: steel, flow_id: F1, cells: [{value: 2, unit: kg}, {}]}
//	intervention:
//	  - {flow: co2, code: E1, unit: kg, values: [1, 1]}
//	characterization:
//	  - {flow: co2, factors: {GWP: 1}}
//	materials:
//	  - {input_unit: mbf, output_unit: green_tons, factor: 2.5}
//
// Intervention columns follow processes unless intervention_processes is set.
type Dataset struct {
	Processes             []Process                     `yaml:"processes" validate:"required,min=1,dive"`
	InterventionProcesses []Process                     `yaml:"intervention_processes,omitempty" validate:"omitempty,dive"`
	Technology            []assemble.RawTechnologyRow   `yaml:"technology" validate:"required,min=1"`
	Intervention          []assemble.RawInterventionRow `yaml:"intervention" validate:"required,min=1"`
	Characterization      []Factors                     `yaml:"characterization" validate:"omitempty,dive"`
	Materials             []units.MaterialFactor        `yaml:"materials,omitempty"`
}

// Process is one process column.
type Process struct {
	Name string `yaml:"name" validate:"required"`
	ID   string `yaml:"id" validate:"required"`
}

// Factors is one characterization entry.
type Factors struct {
	Flow    string             `yaml:"flow" validate:"required"`
	Factors map[string]float64 `yaml:"factors" validate:"required"`
}

var validate = validator.New()

// Parse decodes a dataset and returns its snapshot. The version is the
// hex SHA-256 of data, so identical files share a version.
//
// Errors: ErrInvalidDataset, core.ErrDuplicateFlow, or a YAML decode error.
func Parse(data []byte) (*assemble.Snapshot, error) {
	var ds Dataset
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("yamlstore: decode: %w", err)
	}
	if err := validate.Struct(ds); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	sum := sha256.Sum256(data)

	return ds.Snapshot(hex.EncodeToString(sum[:]))
}

// Snapshot converts the dataset into an assemble.Snapshot with the given version.
func (ds Dataset) Snapshot(version string) (*assemble.Snapshot, error) {
	procs := processes(ds.Processes)
	iprocs := procs
	if len(ds.InterventionProcesses) > 0 {
		iprocs = processes(ds.InterventionProcesses)
	}
	ct := core.NewCharacterizationTable()
	for _, f := range ds.Characterization {
		if err := ct.Add(f.Flow, f.Factors); err != nil {
			return nil, fmt.Errorf("yamlstore: characterization: %w", err)
		}
	}

	return &assemble.Snapshot{
		Version:          version,
		Technology:       assemble.RawTechnology{Processes: procs, Rows: ds.Technology},
		Intervention:     assemble.RawIntervention{Processes: iprocs, Rows: ds.Intervention},
		Characterization: ct,
		Materials:        ds.Materials,
	}, nil
}

func processes(in []Process) []core.Process {
	out := make([]core.Process, len(in))
	for i, p := range in {
		out[i] = core.Process{Name: p.Name, ID: p.ID}
	}

	return out
}
