// SPDX-License-Identifier: MIT

// Package report turns contribution tables into chart-ready data and CSV.
// Rendering images is left to the client.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/katalvlaran/lca/impact"
)

const (
	// DefaultThreshold is the share of the total below which a slice joins "Other".
	DefaultThreshold = 0.01
	// LabelPercent is the smallest percentage that gets a printed label.
	LabelPercent = 5.0
	// OtherLabel names the grouped slice.
	OtherLabel = "Other"
)

var (
	// ErrNegativeValue is returned when a pie would need a negative slice.
	ErrNegativeValue = errors.New("report: pie slices must be non-negative")
	// ErrEmptyTotal is returned when the contributions sum to zero.
	ErrEmptyTotal = errors.New("report: contributions sum to zero")
)

// Slice is one pie wedge.
type Slice struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
	// PercentLabel is "12.3%" for wedges of at least LabelPercent, else "".
	PercentLabel string `json:"percent_label,omitempty"`
}

// PieSlices groups contributions smaller than threshold·total into one "Other"
// wedge and orders the rest largest first. threshold <= 0 uses DefaultThreshold.
//
// Errors: ErrNegativeValue, ErrEmptyTotal.
func PieSlices(rows []impact.Contribution, threshold float64) ([]Slice, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	var total float64
	for _, r := range rows {
		if r.Value < 0 {
			return nil, fmt.Errorf("%w: %s = %g", ErrNegativeValue, r.Process, r.Value)
		}
		total += r.Value
	}
	if total == 0 {
		return nil, ErrEmptyTotal
	}

	cut := threshold * total
	out := make([]Slice, 0, len(rows)+1)
	var small float64
	for _, r := range rows {
		if r.Value < cut {
			small += r.Value
			continue
		}
		out = append(out, Slice{Label: r.Process, Value: r.Value})
	}
	if small > 0 {
		out = append(out, Slice{Label: OtherLabel, Value: small})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Value > out[b].Value })

	for i := range out {
		out[i].Percent = out[i].Value / total * 100
		if out[i].Percent >= LabelPercent {
			out[i].PercentLabel = strconv.FormatFloat(out[i].Percent, 'f', 1, 64) + "%"
		}
	}

	return out, nil
}

// Sorted returns a copy of rows ordered by value, largest first, as used for
// bar and line charts.
func Sorted(rows []impact.Contribution) []impact.Contribution {
	out := append([]impact.Contribution(nil), rows...)
	sort.SliceStable(out, func(a, b int) bool { return out[a].Value > out[b].Value })

	return out
}

// WriteCSV writes a "Process,Contribution" table.
func WriteCSV(w io.Writer, rows []impact.Contribution) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Process", "Contribution"}); err != nil {
		return err
	}
	for _, r := range rows {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			return fmt.Errorf("report: %s: non-finite contribution", r.Process)
		}
		if err := cw.Write([]string{r.Process, strconv.FormatFloat(r.Value, 'g', -1, 64)}); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}
