// SPDX-License-Identifier: MIT

package impact

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
)

// DefaultEpsilon drops only contributions that are exactly zero.
const DefaultEpsilon = 0.0

// Option configures the aggregation helpers.
type Option func(*Options)

// Options holds aggregation settings.
type Options struct {
	Epsilon float64 // contributions with |c| <= Epsilon are dropped; 0 means exact-zero only
	Logger  *log.Logger
}

// DefaultOptions returns exact-zero filtering and a discarding logger.
func DefaultOptions() Options {
	return Options{Epsilon: DefaultEpsilon, Logger: log.New(io.Discard)}
}

// WithEpsilon sets the zero-filter threshold. Panics if eps is negative or not finite.
func WithEpsilon(eps float64) Option {
	if eps < 0 || math.IsNaN(eps) || math.IsInf(eps, 0) {
		panic(fmt.Sprintf("impact: WithEpsilon(%v): must be finite and >= 0", eps))
	}

	return func(o *Options) { o.Epsilon = eps }
}

// WithLogger sets the logger used for lookup-miss warnings.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func build(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
