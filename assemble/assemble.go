// SPDX-License-Identifier: MIT

package assemble

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/katalvlaran/lca/core"
	"github.com/katalvlaran/lca/matrix"
	"github.com/katalvlaran/lca/units"
)

// ErrEmptyTable is returned when a table has no processes or no non-empty rows.
var ErrEmptyTable = errors.New("assemble: empty table")

// Option configures Assemble.
type Option func(*options)

type options struct {
	normalizerOpts   []units.Option
	rawInterventions bool
	sortRows         bool
	logger           *log.Logger
}

// WithNormalizerOptions forwards options to the units.Normalizer built per snapshot.
func WithNormalizerOptions(opts ...units.Option) Option {
	return func(o *options) { o.normalizerOpts = append(o.normalizerOpts, opts...) }
}

// WithRawInterventions keeps intervention values in the units they were entered
// in, for characterization data expressed per those units.
func WithRawInterventions() Option {
	return func(o *options) { o.rawInterventions = true }
}

// WithoutRowSort keeps intervention rows in input order instead of sorting by flow code.
func WithoutRowSort() Option {
	return func(o *options) { o.sortRows = false }
}

// WithLogger sets the logger for padding and conversion warnings.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Assembled holds the normalized matrices of one snapshot.
type Assembled struct {
	Version      string
	Technology   core.Table
	Intervention core.Table
	Warnings     []core.Warning
}

// Assemble normalizes both raw tables of snap.
//
// Technology cells are converted to base units; a row's unit is the first
// unit that resolved. Rows whose values are all zero are dropped. Intervention
// columns are re-ordered to the technology process order (matched by ID) and
// rows are sorted by flow code.
//
// Errors: ErrEmptyTable, *core.UnitConversionError, *core.DimensionMismatchError.
func Assemble(snap *Snapshot, opts ...Option) (*Assembled, error) {
	o := options{sortRows: true, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}
	materials := units.NewMaterialTable(snap.Materials...)
	o.logger.Debug("assembling snapshot", "version", snap.Version, "materials", materials.Len())
	nopts := append([]units.Option{
		units.WithMaterials(materials),
		units.WithLogger(o.logger),
	}, o.normalizerOpts...)
	n := units.NewNormalizer(nopts...)

	out := &Assembled{Version: snap.Version}
	var err error
	if out.Technology, err = technology(snap.Technology, n, &o, &out.Warnings); err != nil {
		return nil, err
	}
	if out.Intervention, err = intervention(snap.Intervention, out.Technology.Processes, n, &o, &out.Warnings); err != nil {
		return nil, err
	}

	return out, nil
}

func technology(raw RawTechnology, n *units.Normalizer, o *options, warns *[]core.Warning) (core.Table, error) {
	cols := len(raw.Processes)
	if cols == 0 {
		return core.Table{}, fmt.Errorf("%w: technology has no processes", ErrEmptyTable)
	}
	flows := make([]core.Flow, 0, len(raw.Rows))
	values := make([][]float64, 0, len(raw.Rows))
	var kept []int

	for _, row := range raw.Rows {
		if len(row.Cells) > cols {
			return core.Table{}, &core.DimensionMismatchError{What: "technology cells of flow " + row.FlowID, Want: cols, Got: len(row.Cells)}
		}
		if len(row.Cells) < cols {
			*warns = append(*warns, padWarning(o.logger, row.FlowID, cols, len(row.Cells)))
		}
		vals := make([]float64, cols)
		flow := core.Flow{Name: row.Flow, ID: row.FlowID}
		allZero := true
		for j, cell := range row.Cells {
			if cell.Value == nil || cell.Unit == "" {
				continue
			}
			q, err := n.Normalize(*cell.Value, cell.Unit)
			if err != nil {
				return core.Table{}, withFlow(err, row.FlowID)
			}
			for _, w := range q.Warnings {
				w.Flow = row.Flow
				w.Process = raw.Processes[j].Name
				*warns = append(*warns, w)
			}
			vals[j] = q.Value
			if flow.Unit == "" {
				flow.Unit = q.Unit
			}
			if q.Value != 0 {
				allZero = false
			}
		}
		if allZero {
			o.logger.Debug("dropping empty technology row", "flow", row.FlowID)
		} else {
			kept = append(kept, len(flows))
		}
		flows = append(flows, flow)
		values = append(values, vals)
	}
	if len(kept) == 0 {
		return core.Table{}, fmt.Errorf("%w: every technology row is zero", ErrEmptyTable)
	}
	full, err := matrix.NewDenseFrom(values)
	if err != nil {
		return core.Table{}, fmt.Errorf("assemble: technology: %w", err)
	}
	m, err := full.Induced(kept, identity(cols))
	if err != nil {
		return core.Table{}, fmt.Errorf("assemble: technology: %w", err)
	}
	keptFlows := make([]core.Flow, len(kept))
	for i, k := range kept {
		keptFlows[i] = flows[k]
	}

	return core.Table{Flows: keptFlows, Processes: append([]core.Process(nil), raw.Processes...), Values: m}, nil
}

func intervention(raw RawIntervention, order []core.Process, n *units.Normalizer, o *options, warns *[]core.Warning) (core.Table, error) {
	if len(raw.Processes) != len(order) {
		return core.Table{}, &core.DimensionMismatchError{What: "intervention processes", Want: len(order), Got: len(raw.Processes)}
	}
	// src[j] is the raw column holding order[j].
	src := make([]int, len(order))
	byID := make(map[string]int, len(raw.Processes))
	for j, p := range raw.Processes {
		byID[p.ID] = j
	}
	for j, p := range order {
		k, ok := byID[p.ID]
		if !ok {
			return core.Table{}, fmt.Errorf("assemble: intervention lacks process %q: %w", p.ID, core.ErrDimensionMismatch)
		}
		src[j] = k
	}
	if len(raw.Rows) == 0 {
		return core.Table{}, fmt.Errorf("%w: intervention has no rows", ErrEmptyTable)
	}

	rows := append([]RawInterventionRow(nil), raw.Rows...)
	if o.sortRows {
		sort.SliceStable(rows, func(a, b int) bool { return rows[a].Code < rows[b].Code })
	}

	cols := len(order)
	flows := make([]core.Flow, len(rows))
	values := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row.Values) > cols {
			return core.Table{}, &core.DimensionMismatchError{What: "intervention values of flow " + row.Code, Want: cols, Got: len(row.Values)}
		}
		if len(row.Values) < cols {
			*warns = append(*warns, padWarning(o.logger, row.Code, cols, len(row.Values)))
		}
		padded := make([]float64, cols)
		copy(padded, row.Values)

		scale, unit := 1.0, row.Unit
		if !o.rawInterventions && row.Unit != "" {
			q, err := n.Normalize(1, row.Unit)
			if err != nil {
				return core.Table{}, withFlow(err, row.Code)
			}
			scale, unit = q.Value, q.Unit
		}
		for j := range padded {
			padded[j] *= scale
		}
		flows[i] = core.Flow{Name: row.Flow, ID: row.Code, Unit: unit}
		values[i] = padded
	}
	// values is in raw column order; Induced picks the columns in process order.
	rawM, err := matrix.NewDenseFrom(values)
	if err != nil {
		return core.Table{}, fmt.Errorf("assemble: intervention: %w", err)
	}
	m, err := rawM.Induced(identity(len(rows)), src)
	if err != nil {
		return core.Table{}, fmt.Errorf("assemble: intervention: %w", err)
	}

	return core.Table{Flows: flows, Processes: append([]core.Process(nil), order...), Values: m}, nil
}

// identity returns 0..n-1.
func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}

	return out
}

func padWarning(l *log.Logger, flowID string, want, got int) core.Warning {
	l.Warn("values shorter than process count, padding with zeros", "flow", flowID, "want", want, "got", got)

	return core.Warning{
		Kind:    core.WarnRowPadding,
		Flow:    flowID,
		Message: fmt.Sprintf("flow %s has %d values for %d processes; padded with zeros", flowID, got, want),
	}
}

// withFlow fills the flow identifier of a conversion error.
func withFlow(err error, flowID string) error {
	var uce *core.UnitConversionError
	if errors.As(err, &uce) {
		return &core.UnitConversionError{Unit: uce.Unit, FlowID: flowID}
	}

	return err
}
