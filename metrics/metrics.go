// SPDX-License-Identifier: MIT

// Package metrics exposes calculation counters and timings for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/katalvlaran/lca/core"
)

const namespace = "lca"

// Collector records engine activity. It implements analysis.Recorder.
type Collector struct {
	registry *prometheus.Registry

	calculations *prometheus.CounterVec   // by outcome
	duration     *prometheus.HistogramVec // by outcome
	lookupMisses prometheus.Counter
	cache        *prometheus.CounterVec // hit / miss
}

// New creates a collector on its own registry, together with the Go and
// process collectors.
func New() (*Collector, error) {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "calculations_total",
			Help:      "Calculations by outcome (ok or failure kind)",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "calculation_seconds",
			Help:      "Calculation latency",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"outcome"}),
		lookupMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "lookup_misses_total",
			Help:      "Characterization factors missing for a flow and category",
		}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Prepared-table cache lookups",
		}, []string{"result"}),
	}
	for _, col := range []prometheus.Collector{
		c.calculations, c.duration, c.lookupMisses, c.cache,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := c.registry.Register(col); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveCalculation counts one calculation; an empty kind means success.
func (c *Collector) ObserveCalculation(kind core.Kind, elapsed time.Duration) {
	outcome := string(kind)
	if outcome == "" {
		outcome = "ok"
	}
	c.calculations.WithLabelValues(outcome).Inc()
	c.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// AddLookupMisses adds n characterization misses.
func (c *Collector) AddLookupMisses(n int) {
	if n > 0 {
		c.lookupMisses.Add(float64(n))
	}
}

// ObserveCache counts one cache lookup.
func (c *Collector) ObserveCache(hit bool) {
	if hit {
		c.cache.WithLabelValues("hit").Inc()
		return
	}
	c.cache.WithLabelValues("miss").Inc()
}
