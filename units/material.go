// SPDX-License-Identifier: MIT

package units

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrNoMaterialFactor is returned when no material row converts between two units.
var ErrNoMaterialFactor = errors.New("units: no material conversion factor")

// MaterialFactor is one row of the material-specific conversion table:
// 1 InputUnit of the material equals Factor OutputUnit.
type MaterialFactor struct {
	Material     string  `json:"materials" yaml:"materials" db:"material"`
	SpeciesClass string  `json:"species_class" yaml:"species_class" db:"species_class"`
	SpeciesName  string  `json:"species_name" yaml:"species_name" db:"species_name"`
	InputUnit    string  `json:"input_unit" yaml:"input_unit" db:"input_unit"`
	OutputUnit   string  `json:"output_unit" yaml:"output_unit" db:"output_unit"`
	Factor       float64 `json:"factor" yaml:"factor" db:"factor"`
}

// Selector narrows material lookups. Empty fields and "undefined" match any row.
type Selector struct {
	Material     string
	SpeciesClass string
	SpeciesName  string
}

// MaterialTable holds material-specific factors. Text fields are compared
// after trimming and lowercasing. Safe for concurrent use.
type MaterialTable struct {
	mu   sync.RWMutex
	rows []MaterialFactor
}

// NewMaterialTable returns a table holding rows (cleaned copies).
func NewMaterialTable(rows ...MaterialFactor) *MaterialTable {
	t := &MaterialTable{}
	t.Add(rows...)

	return t
}

// Add appends rows; earlier rows win on lookup.
func (t *MaterialTable) Add(rows ...MaterialFactor) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range rows {
		r.Material = clean(r.Material)
		r.SpeciesClass = clean(r.SpeciesClass)
		r.SpeciesName = clean(r.SpeciesName)
		r.InputUnit = clean(r.InputUnit)
		r.OutputUnit = clean(r.OutputUnit)
		t.rows = append(t.rows, r)
	}
}

// Len returns the number of rows.
func (t *MaterialTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.rows)
}

// Convert converts value from one unit to another using the first matching row.
// A row in the requested direction is preferred; otherwise a reverse row is
// used with 1/factor. A zero factor yields 0 and zero == true so the caller
// can report it.
//
// Errors: ErrNoMaterialFactor when neither direction matches.
func (t *MaterialTable) Convert(value float64, from, to string, sel Selector) (converted float64, zero bool, err error) {
	from, to = clean(from), clean(to)
	t.mu.RLock()
	defer t.mu.RUnlock()

	if r, ok := t.find(from, to, sel); ok {
		if r.Factor == 0 {
			return 0, true, nil
		}

		return value * r.Factor, false, nil
	}
	if r, ok := t.find(to, from, sel); ok {
		if r.Factor == 0 {
			return 0, true, nil
		}

		return value / r.Factor, false, nil
	}

	return 0, false, fmt.Errorf("%w: %s -> %s", ErrNoMaterialFactor, from, to)
}

func (t *MaterialTable) find(in, out string, sel Selector) (MaterialFactor, bool) {
	for _, r := range t.rows {
		if r.InputUnit != in || r.OutputUnit != out {
			continue
		}
		if !matches(sel.Material, r.Material) || !matches(sel.SpeciesClass, r.SpeciesClass) || !matches(sel.SpeciesName, r.SpeciesName) {
			continue
		}

		return r, true
	}

	return MaterialFactor{}, false
}

func matches(want, have string) bool {
	want = clean(want)

	return want == "" || want == "undefined" || want == have
}

func clean(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
