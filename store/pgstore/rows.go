// SPDX-License-Identifier: MIT

package pgstore

import (
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/lca/assemble"
	"github.com/katalvlaran/lca/core"
	"github.com/katalvlaran/lca/units"
)

// ErrInconsistent is returned when stored rows reference each other incorrectly.
var ErrInconsistent = errors.New("pgstore: inconsistent dataset")

// ProcessRow is one row of processes; Position orders the columns.
type ProcessRow struct {
	Position int32  `db:"position"`
	ID       string `db:"id"`
	Name     string `db:"name"`
}

// TechnologyRow is one row of technology_rows.
type TechnologyRow struct {
	Position int32  `db:"position"`
	Flow     string `db:"flow"`
	FlowID   string `db:"flow_id"`
}

// TechnologyCell is one row of technology_cells. Absent cells are empty.
type TechnologyCell struct {
	RowPosition     int32    `db:"row_position"`
	ProcessPosition int32    `db:"process_position"`
	Value           *float64 `db:"value"`
	Unit            *string  `db:"unit"`
}

// InterventionRow is one row of intervention_rows. Values follow process position order.
type InterventionRow struct {
	Code   string    `db:"code"`
	Flow   string    `db:"flow"`
	Unit   string    `db:"unit"`
	Values []float64 `db:"values"`
}

// CharacterizationRow is one row of characterization_factors.
type CharacterizationRow struct {
	Flow     string  `db:"flow"`
	Category string  `db:"category"`
	Factor   float64 `db:"factor"`
}

// Rows is the full content of one dataset revision.
type Rows struct {
	Processes        []ProcessRow
	Technology       []TechnologyRow
	Cells            []TechnologyCell
	Intervention     []InterventionRow
	Characterization []CharacterizationRow
	Materials        []units.MaterialFactor
}

// Snapshot arranges the rows into an assemble.Snapshot.
//
// Processes and technology rows are ordered by position; cells are placed by
// (row, process) position.
//
// Errors: ErrInconsistent for a cell pointing at an unknown row or process.
func (r Rows) Snapshot(version string) (*assemble.Snapshot, error) {
	procs := append([]ProcessRow(nil), r.Processes...)
	sort.Slice(procs, func(a, b int) bool { return procs[a].Position < procs[b].Position })
	col := make(map[int32]int, len(procs))
	processes := make([]core.Process, len(procs))
	for j, p := range procs {
		col[p.Position] = j
		processes[j] = core.Process{Name: p.Name, ID: p.ID}
	}

	tech := append([]TechnologyRow(nil), r.Technology...)
	sort.Slice(tech, func(a, b int) bool { return tech[a].Position < tech[b].Position })
	row := make(map[int32]int, len(tech))
	rawRows := make([]assemble.RawTechnologyRow, len(tech))
	for i, t := range tech {
		row[t.Position] = i
		rawRows[i] = assemble.RawTechnologyRow{Flow: t.Flow, FlowID: t.FlowID, Cells: make([]assemble.RawCell, len(procs))}
	}
	for _, c := range r.Cells {
		i, ok := row[c.RowPosition]
		if !ok {
			return nil, fmt.Errorf("%w: cell references technology row %d", ErrInconsistent, c.RowPosition)
		}
		j, ok := col[c.ProcessPosition]
		if !ok {
			return nil, fmt.Errorf("%w: cell references process %d", ErrInconsistent, c.ProcessPosition)
		}
		cell := assemble.RawCell{Value: c.Value}
		if c.Unit != nil {
			cell.Unit = *c.Unit
		}
		rawRows[i].Cells[j] = cell
	}

	interv := make([]assemble.RawInterventionRow, len(r.Intervention))
	for i, ir := range r.Intervention {
		interv[i] = assemble.RawInterventionRow{Flow: ir.Flow, Code: ir.Code, Unit: ir.Unit, Values: ir.Values}
	}

	grouped := make(map[string]map[string]float64)
	var flows []string
	for _, cr := range r.Characterization {
		m, ok := grouped[cr.Flow]
		if !ok {
			m = make(map[string]float64)
			grouped[cr.Flow] = m
			flows = append(flows, cr.Flow)
		}
		m[cr.Category] = cr.Factor
	}
	ct := core.NewCharacterizationTable()
	for _, f := range flows {
		if err := ct.Add(f, grouped[f]); err != nil {
			return nil, err
		}
	}

	return &assemble.Snapshot{
		Version:          version,
		Technology:       assemble.RawTechnology{Processes: processes, Rows: rawRows},
		Intervention:     assemble.RawIntervention{Processes: append([]core.Process(nil), processes...), Rows: interv},
		Characterization: ct,
		Materials:        append([]units.MaterialFactor(nil), r.Materials...),
	}, nil
}
