// SPDX-License-Identifier: MIT

package units

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/katalvlaran/lca/core"
)

// Sentinel errors for conversions between two explicit units.
var (
	// ErrUnknownUnit indicates a label absent from the table, its aliases and its lowercase index.
	ErrUnknownUnit = errors.New("units: unknown unit")

	// ErrDimension indicates a conversion between units of different dimensions.
	ErrDimension = errors.New("units: dimension mismatch")
)

// Forestry labels routed through the material table before SI conversion.
const (
	boardFeetUnit = "mbf_international"
	greenTonsUnit = "green_tons"
	cordsUnit     = "standard_cords"
	dryTonnesUnit = "dry_metric_tonnes"
)

// DefaultDryRatio converts green tons to dry tons assuming 50% moisture.
const DefaultDryRatio = 0.5

// Quantity is a normalized value with its base unit.
type Quantity struct {
	Value float64
	Unit  string
	// Warnings carries non-fatal notes, e.g. a zero material factor.
	Warnings []core.Warning
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithMaterials sets the material table used for forestry units.
func WithMaterials(t *MaterialTable) Option {
	return func(n *Normalizer) { n.materials = t }
}

// WithSelector narrows material lookups to one material/species.
func WithSelector(sel Selector) Option {
	return func(n *Normalizer) { n.selector = sel }
}

// WithDryRatio sets the green→dry mass ratio applied after board-feet conversion.
// Panics if r is not in (0, 1].
func WithDryRatio(r float64) Option {
	if r <= 0 || r > 1 {
		panic(fmt.Sprintf("units: WithDryRatio(%v): ratio must be in (0,1]", r))
	}

	return func(n *Normalizer) { n.dryRatio = r }
}

// WithLogger sets the logger used for zero-factor warnings.
func WithLogger(l *log.Logger) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.logger = l
		}
	}
}

// Normalizer converts raw quantities to base units. It is immutable after
// construction and safe for concurrent use.
type Normalizer struct {
	units     map[string]Unit
	lower     map[string]Unit // lowercase symbol → unit, unambiguous keys only
	aliases   map[string]string
	materials *MaterialTable
	selector  Selector
	dryRatio  float64
	logger    *log.Logger
}

// NewNormalizer builds a Normalizer over the static table.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		units:     make(map[string]Unit, len(builtinUnits)),
		lower:     make(map[string]Unit, len(builtinUnits)),
		aliases:   builtinAliases,
		materials: NewMaterialTable(),
		dryRatio:  DefaultDryRatio,
		logger:    log.New(io.Discard),
	}
	ambiguous := make(map[string]bool)
	for _, u := range builtinUnits {
		n.units[u.Symbol] = u
		k := strings.ToLower(u.Symbol)
		if _, dup := n.lower[k]; dup {
			ambiguous[k] = true
		}
		n.lower[k] = u
	}
	for k := range ambiguous {
		delete(n.lower, k)
	}
	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Lookup resolves a unit label: verbatim, alias, then unambiguous lowercase.
func (n *Normalizer) Lookup(label string) (Unit, bool) {
	label = strings.TrimSpace(label)
	if u, ok := n.units[label]; ok {
		return u, true
	}
	lc := strings.ToLower(label)
	if canon, ok := n.aliases[lc]; ok {
		if u, ok := n.units[canon]; ok {
			return u, true
		}
	}
	u, ok := n.lower[lc]

	return u, ok
}

// SIUnit returns the base unit of label's dimension.
//
// Errors: *core.UnitConversionError when label is unknown.
func (n *Normalizer) SIUnit(label string) (string, error) {
	if isBoardFeet(label) || isCords(label) {
		return baseUnits[Mass], nil
	}
	u, ok := n.Lookup(label)
	if !ok {
		return "", &core.UnitConversionError{Unit: label}
	}

	return baseUnits[u.Dimension], nil
}

// Convert converts value between two units of the same dimension.
//
// Errors: ErrUnknownUnit, ErrDimension.
func (n *Normalizer) Convert(value float64, from, to string) (float64, error) {
	fu, ok := n.Lookup(from)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, from)
	}
	tu, ok := n.Lookup(to)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, to)
	}
	if fu.Dimension != tu.Dimension {
		return 0, fmt.Errorf("%w: %s is %s, %s is %s", ErrDimension, from, fu.Dimension, to, tu.Dimension)
	}

	return value * fu.ToBase / tu.ToBase, nil
}

// Normalize expresses value in the base unit of label's dimension.
//
// Board feet (mbf, mbf_international) become green tons through the material
// table, are reduced by the dry ratio and end in kg. Standard cords become
// dry metric tonnes and end in kg.
//
// Errors: *core.UnitConversionError (unknown label, or no material factor for
// a forestry label). The FlowID field is left for the caller to fill.
func (n *Normalizer) Normalize(value float64, label string) (Quantity, error) {
	var q Quantity
	switch {
	case isBoardFeet(label):
		v, zero, err := n.materials.Convert(value, boardFeetUnit, greenTonsUnit, n.selector)
		if err != nil {
			return Quantity{}, &core.UnitConversionError{Unit: label}
		}
		if zero {
			q.Warnings = append(q.Warnings, n.zeroFactor(boardFeetUnit, greenTonsUnit))
		}
		value, label = v*n.dryRatio, greenTonsUnit
	case isCords(label):
		v, zero, err := n.materials.Convert(value, cordsUnit, dryTonnesUnit, n.selector)
		if err != nil {
			return Quantity{}, &core.UnitConversionError{Unit: label}
		}
		if zero {
			q.Warnings = append(q.Warnings, n.zeroFactor(cordsUnit, dryTonnesUnit))
		}
		value, label = v, dryTonnesUnit
	}

	u, ok := n.Lookup(label)
	if !ok {
		return Quantity{}, &core.UnitConversionError{Unit: label}
	}
	q.Value = value * u.ToBase
	q.Unit = baseUnits[u.Dimension]

	return q, nil
}

func (n *Normalizer) zeroFactor(from, to string) core.Warning {
	n.logger.Warn("material conversion factor is zero, using 0", "from", from, "to", to)

	return core.Warning{
		Kind:    core.WarnZeroFactor,
		Message: fmt.Sprintf("material factor %s -> %s is 0", from, to),
	}
}

func isBoardFeet(label string) bool {
	l := clean(label)

	return l == "mbf" || l == boardFeetUnit
}

func isCords(label string) bool { return clean(label) == cordsUnit }
