// SPDX-License-Identifier: MIT

package allocation

import (
	"fmt"
	"math"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/katalvlaran/lca/core"
	"github.com/katalvlaran/lca/matrix"
)

// Column describes one column of the allocated tables.
type Column struct {
	Process     core.Process // identity of the derived column
	Source      core.Process // process it was derived from
	SourceIndex int          // column of Source in the input tables
	OutputRow   int          // row of the single positive entry
	Factor      float64      // allocation factor; 1 for single-output processes
}

// Result is the allocated technology and intervention tables.
type Result struct {
	Technology   core.Table
	Intervention core.Table
	Columns      []Column
	Warnings     []core.Warning
}

// Allocate splits every multifunctional process of tech and scales the
// matching columns of interv.
//
// Preconditions: both tables list the same processes in the same order; each
// Values block has exactly one column per process and no more rows than flows.
// A block with fewer rows than flows is zero-padded and reported as a warning.
//
// Postconditions: the output has at least as many columns as the input, every
// technology column has exactly one positive entry, and row counts are unchanged.
//
// Errors:
//   - *core.DimensionMismatchError for inconsistent shapes.
//   - *core.NoOutputError for a column without positive entries.
//   - *core.IncompatibleUnitsError for co-outputs with different units.
//   - ErrInvalidFactors for supplied factors that do not fit the process or
//     name a process ID absent from tech.
//
// Complexity: O(rows * cols') time and space, cols' = allocated column count.
func Allocate(tech, interv core.Table, opts ...Option) (*Result, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	res := &Result{}

	a, err := shaped(tech, "technology", o.Logger, &res.Warnings)
	if err != nil {
		return nil, err
	}
	b, err := shaped(interv, "intervention", o.Logger, &res.Warnings)
	if err != nil {
		return nil, err
	}
	if len(interv.Processes) != len(tech.Processes) {
		return nil, &core.DimensionMismatchError{What: "intervention processes", Want: len(tech.Processes), Got: len(interv.Processes)}
	}
	if err = knownProcesses(tech, o.Factors); err != nil {
		return nil, err
	}

	var aCols, bCols [][]float64
	for j, proc := range tech.Processes {
		col, _ := a.Col(j)
		bcol, _ := b.Col(j)

		outputs := positiveRows(col)
		if len(outputs) == 0 {
			return nil, &core.NoOutputError{Process: proc.Name}
		}
		if len(outputs) == 1 {
			aCols = append(aCols, col)
			bCols = append(bCols, bcol)
			res.Columns = append(res.Columns, Column{Process: proc, Source: proc, SourceIndex: j, OutputRow: outputs[0], Factor: 1})
			continue
		}

		factors, err := factorsFor(proc, col, outputs, tech.Flows, o)
		if err != nil {
			return nil, err
		}
		o.Logger.Debug("splitting multifunctional process", "process", proc.Name, "outputs", len(outputs), "factors", factors)
		for k, row := range outputs {
			aCols = append(aCols, splitColumn(col, row, factors[k]))
			bCols = append(bCols, scaled(bcol, factors[k]))
			res.Columns = append(res.Columns, Column{
				Process:     core.Process{Name: fmt.Sprintf("%s_output_%d", proc.Name, k+1), ID: fmt.Sprintf("%s_%d", proc.ID, k+1)},
				Source:      proc,
				SourceIndex: j,
				OutputRow:   row,
				Factor:      factors[k],
			})
		}
	}

	processes := make([]core.Process, len(res.Columns))
	for j, c := range res.Columns {
		processes[j] = c.Process
	}
	if res.Technology, err = fromColumns(tech.Flows, processes, aCols); err != nil {
		return nil, err
	}
	if res.Intervention, err = fromColumns(interv.Flows, processes, bCols); err != nil {
		return nil, err
	}

	return res, nil
}

// shaped checks t's Values against its identities and zero-pads missing rows.
func shaped(t core.Table, name string, l *log.Logger, warns *[]core.Warning) (*matrix.Dense, error) {
	if t.Values == nil {
		return nil, &core.DimensionMismatchError{What: name + " values", Want: len(t.Flows), Got: 0}
	}
	if t.Values.Cols() != len(t.Processes) {
		return nil, &core.DimensionMismatchError{What: name + " columns", Want: len(t.Processes), Got: t.Values.Cols()}
	}
	rows := t.Values.Rows()
	switch {
	case rows == len(t.Flows):
		return t.Values, nil
	case rows > len(t.Flows):
		return nil, &core.DimensionMismatchError{What: name + " rows", Want: len(t.Flows), Got: rows}
	}

	l.Warn("values block shorter than flow list, padding with zero rows", "table", name, "flows", len(t.Flows), "rows", rows)
	*warns = append(*warns, core.Warning{
		Kind:    core.WarnRowPadding,
		Message: fmt.Sprintf("%s has %d value rows for %d flows; padded with zeros", name, rows, len(t.Flows)),
	})
	padded := t.Values.RowsCopy()
	for len(padded) < len(t.Flows) {
		padded = append(padded, make([]float64, len(t.Processes)))
	}
	m, err := matrix.NewDenseFrom(padded)
	if err != nil {
		return nil, fmt.Errorf("allocation: pad %s: %w", name, err)
	}

	return m, nil
}

// knownProcesses rejects supplied factors keyed by an ID absent from t.
func knownProcesses(t core.Table, factors map[string][]float64) error {
	ids := make([]string, 0, len(factors))
	for id := range factors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if t.ProcessIndex(id) < 0 {
			return fmt.Errorf("%w: no process with ID %q", ErrInvalidFactors, id)
		}
	}

	return nil
}

func positiveRows(col []float64) []int {
	var out []int
	for i, v := range col {
		if v > 0 {
			out = append(out, i)
		}
	}

	return out
}

// factorsFor returns the allocation factors of a multifunctional column,
// either supplied by the caller or proportional to output magnitude.
func factorsFor(proc core.Process, col []float64, outputs []int, flows []core.Flow, o Options) ([]float64, error) {
	if fs, ok := o.Factors[proc.ID]; ok {
		if len(fs) != len(outputs) {
			return nil, fmt.Errorf("%w: process %q has %d outputs, got %d factors", ErrInvalidFactors, proc.Name, len(outputs), len(fs))
		}
		var sum float64
		for _, f := range fs {
			sum += f
		}
		if math.Abs(sum-1) > o.Tolerance {
			return nil, fmt.Errorf("%w: process %q factors sum to %v", ErrInvalidFactors, proc.Name, sum)
		}

		return fs, nil
	}

	unit := flows[outputs[0]].Unit
	for _, row := range outputs[1:] {
		if flows[row].Unit != unit {
			return nil, &core.IncompatibleUnitsError{Process: proc.Name, Units: outputUnits(outputs, flows)}
		}
	}

	var total float64
	for _, row := range outputs {
		total += col[row]
	}
	fs := make([]float64, len(outputs))
	for k, row := range outputs {
		fs[k] = col[row] / total
	}

	return fs, nil
}

// outputUnits lists the distinct units of the output rows in row order.
func outputUnits(outputs []int, flows []core.Flow) []string {
	seen := make(map[string]bool)
	var units []string
	for _, row := range outputs {
		u := flows[row].Unit
		if !seen[u] {
			seen[u] = true
			units = append(units, u)
		}
	}

	return units
}

// splitColumn keeps output row `keep` unscaled, scales inputs by f and zeroes other outputs.
func splitColumn(col []float64, keep int, f float64) []float64 {
	out := make([]float64, len(col))
	for i, v := range col {
		switch {
		case i == keep:
			out[i] = v
		case v < 0:
			out[i] = v * f
		}
	}

	return out
}

func scaled(col []float64, f float64) []float64 {
	out := make([]float64, len(col))
	for i, v := range col {
		out[i] = v * f
	}

	return out
}

// fromColumns builds a Table from column vectors.
func fromColumns(flows []core.Flow, processes []core.Process, cols [][]float64) (core.Table, error) {
	rows := make([][]float64, len(flows))
	for i := range rows {
		rows[i] = make([]float64, len(cols))
		for j, c := range cols {
			rows[i][j] = c[i]
		}
	}
	m, err := matrix.NewDenseFrom(rows)
	if err != nil {
		return core.Table{}, fmt.Errorf("allocation: build table: %w", err)
	}

	return core.Table{
		Flows:     append([]core.Flow(nil), flows...),
		Processes: append([]core.Process(nil), processes...),
		Values:    m,
	}, nil
}
