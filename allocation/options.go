// SPDX-License-Identifier: MIT

package allocation

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
)

// DefaultTolerance bounds |sum(factors) - 1| for caller-supplied factors.
const DefaultTolerance = 1e-9

// ErrInvalidFactors is returned when caller-supplied factors do not fit a process.
var ErrInvalidFactors = errors.New("allocation: invalid allocation factors")

// Option configures Allocate.
type Option func(*Options)

// Options holds Allocate settings. Use the With* helpers to build it.
type Options struct {
	Factors   map[string][]float64 // process ID → explicit factors, one per output row
	Tolerance float64
	Logger    *log.Logger
}

// DefaultOptions returns the settings used when no Option is given.
func DefaultOptions() Options {
	return Options{
		Factors:   map[string][]float64{},
		Tolerance: DefaultTolerance,
		Logger:    log.New(io.Discard),
	}
}

// WithFactors supplies explicit allocation factors for one process, in the
// top-to-bottom order of its output rows. Such a process skips the shared-unit
// check. Panics on an empty ID, no factors, or a negative/non-finite factor.
func WithFactors(processID string, factors ...float64) Option {
	if processID == "" || len(factors) == 0 {
		panic("allocation: WithFactors needs a process ID and at least one factor")
	}
	for _, f := range factors {
		if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			panic(fmt.Sprintf("allocation: WithFactors(%q): factor %v must be finite and >= 0", processID, f))
		}
	}
	cp := append([]float64(nil), factors...)

	return func(o *Options) { o.Factors[processID] = cp }
}

// WithTolerance sets the tolerance for the sum of supplied factors.
// Panics if tol is negative.
func WithTolerance(tol float64) Option {
	if tol < 0 {
		panic(fmt.Sprintf("allocation: WithTolerance(%v): must be >= 0", tol))
	}

	return func(o *Options) { o.Tolerance = tol }
}

// WithLogger sets the logger for padding warnings and split diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
