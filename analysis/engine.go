// SPDX-License-Identifier: MIT

// Package analysis runs one life-cycle computation end to end:
// snapshot → assemble → allocate → solve → aggregate → contribution table.
//
// Each Calculate call reads exactly one snapshot from its Source and keeps it
// for the whole request; all intermediate vectors and matrices are request-scoped.
// Assembled and allocated tables are shared across requests through a Cache
// keyed by snapshot version.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/katalvlaran/lca/allocation"
	"github.com/katalvlaran/lca/assemble"
	"github.com/katalvlaran/lca/core"
	"github.com/katalvlaran/lca/impact"
	"github.com/katalvlaran/lca/scaling"
)

// ErrNilSnapshot is returned when a Source yields no snapshot.
var ErrNilSnapshot = errors.New("analysis: source returned no snapshot")

// Source provides consistent reference data snapshots.
type Source interface {
	Snapshot(ctx context.Context) (*assemble.Snapshot, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (*assemble.Snapshot, error)

// Snapshot calls f.
func (f SourceFunc) Snapshot(ctx context.Context) (*assemble.Snapshot, error) { return f(ctx) }

// Recorder receives per-calculation measurements.
type Recorder interface {
	ObserveCalculation(kind core.Kind, elapsed time.Duration)
	AddLookupMisses(n int)
	ObserveCache(hit bool)
}

type nopRecorder struct{}

func (nopRecorder) ObserveCalculation(core.Kind, time.Duration) {}
func (nopRecorder) AddLookupMisses(int)                         {}
func (nopRecorder) ObserveCache(bool)                           {}

// Request is one calculation.
type Request struct {
	// Demand holds the final-demand values of the product columns.
	Demand []float64
	// NonProductColumns is the count of trailing columns padded with zero demand.
	// nil means the engine default.
	NonProductColumns *int
	// Category selects the impact category; empty means the engine default.
	Category string
}

// Result is the outcome of one calculation.
type Result struct {
	ID             uuid.UUID             `json:"id"`
	Version        string                `json:"version"`
	Category       string                `json:"category"`
	Processes      []string              `json:"processes"`
	Scaling        []float64             `json:"scaling"`
	InventoryFlows []string              `json:"inventory_flows"`
	Inventory      []float64             `json:"inventory"`
	TotalImpact    float64               `json:"total_impact"`
	Contributions  []impact.Contribution `json:"contribution_table"`
	Warnings       []core.Warning        `json:"warnings,omitempty"`
}

// Option configures an Engine.
type Option func(*Options)

// Options holds Engine settings.
type Options struct {
	DefaultCategory   string
	NonProductColumns int
	Epsilon           float64
	CacheSize         int
	AssembleOptions   []assemble.Option
	AllocationOptions []allocation.Option
	Recorder          Recorder
	Logger            *log.Logger
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		DefaultCategory: core.DefaultCategory,
		Epsilon:         impact.DefaultEpsilon,
		CacheSize:       DefaultCacheSize,
		Recorder:        nopRecorder{},
		Logger:          log.New(io.Discard),
	}
}

// WithDefaultCategory sets the category used when a request names none.
func WithDefaultCategory(c string) Option {
	return func(o *Options) {
		if c != "" {
			o.DefaultCategory = c
		}
	}
}

// WithNonProductColumns sets the default zero-demand padding. Panics if n < 0.
func WithNonProductColumns(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("analysis: WithNonProductColumns(%d): must be >= 0", n))
	}

	return func(o *Options) { o.NonProductColumns = n }
}

// WithEpsilon sets the contribution zero-filter threshold.
func WithEpsilon(eps float64) Option {
	impact.WithEpsilon(eps) // validates

	return func(o *Options) { o.Epsilon = eps }
}

// WithCacheSize sets how many snapshot versions stay prepared.
func WithCacheSize(n int) Option {
	return func(o *Options) { o.CacheSize = n }
}

// WithAssembleOptions forwards options to assemble.Assemble.
func WithAssembleOptions(opts ...assemble.Option) Option {
	return func(o *Options) { o.AssembleOptions = append(o.AssembleOptions, opts...) }
}

// WithAllocationOptions forwards options to allocation.Allocate.
func WithAllocationOptions(opts ...allocation.Option) Option {
	return func(o *Options) { o.AllocationOptions = append(o.AllocationOptions, opts...) }
}

// WithRecorder installs a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(o *Options) {
		if r != nil {
			o.Recorder = r
		}
	}
}

// WithLogger sets the engine logger; it is also handed to every stage.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// Engine runs calculations against a Source. Safe for concurrent use.
type Engine struct {
	source Source
	cache  *Cache
	opts   Options
}

// New builds an Engine reading from src.
func New(src Source, opts ...Option) *Engine {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.AssembleOptions = append([]assemble.Option{assemble.WithLogger(o.Logger)}, o.AssembleOptions...)
	o.AllocationOptions = append([]allocation.Option{allocation.WithLogger(o.Logger)}, o.AllocationOptions...)

	return &Engine{source: src, cache: NewCache(o.CacheSize), opts: o}
}

// Cache exposes the engine's preparation cache.
func (e *Engine) Cache() *Cache { return e.cache }

// Prepare loads the current snapshot and returns its prepared tables.
func (e *Engine) Prepare(ctx context.Context) (*Prepared, error) {
	snap, err := e.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("analysis: snapshot: %w", err)
	}
	if snap == nil {
		return nil, ErrNilSnapshot
	}
	p, hit, err := e.cache.Get(snap.Version, func() (*Prepared, error) {
		e.opts.Logger.Debug("preparing snapshot", "version", snap.Version)
		return prepare(snap, &e.opts)
	})
	e.opts.Recorder.ObserveCache(hit)

	return p, err
}

// Calculate runs one request.
//
// Errors carry a core.Kind (see core.KindOf): unit_conversion,
// incompatible_units, no_output, singular_system, dimension_mismatch, or
// internal for anything else.
func (e *Engine) Calculate(ctx context.Context, req Request) (res *Result, err error) {
	start := time.Now()
	defer func() {
		e.opts.Recorder.ObserveCalculation(core.KindOf(err), time.Since(start))
		if err != nil {
			e.opts.Logger.Error("calculation failed", "kind", core.KindOf(err), "err", err)
		}
	}()

	p, err := e.Prepare(ctx)
	if err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	category := req.Category
	if category == "" {
		category = e.opts.DefaultCategory
	}
	if !slices.Contains(p.Categories, category) {
		e.opts.Logger.Warn("impact category not in characterization table", "category", category, "known", p.Categories)
	}
	pad := e.opts.NonProductColumns
	if req.NonProductColumns != nil {
		pad = *req.NonProductColumns
	}

	a, b := p.Allocated.Technology, p.Allocated.Intervention
	f, err := scaling.BuildDemand(req.Demand, pad, len(a.Processes))
	if err != nil {
		return nil, err
	}
	s, err := scaling.SolveTable(a, f)
	if err != nil {
		return nil, err
	}

	iopts := []impact.Option{impact.WithEpsilon(e.opts.Epsilon), impact.WithLogger(e.opts.Logger)}
	flowNames := b.FlowNames()
	g, err := impact.Inventory(b.Values, s)
	if err != nil {
		return nil, err
	}
	factors, warns := impact.Characterize(flowNames, category, p.Characterization, iopts...)
	total, err := impact.Score(g, factors)
	if err != nil {
		return nil, err
	}
	gm, err := impact.InventoryByProcess(b.Values, s)
	if err != nil {
		return nil, err
	}
	contrib, err := impact.Contributions(gm, factors)
	if err != nil {
		return nil, err
	}
	rows, err := impact.ContributionTable(b.ProcessNames(), contrib, iopts...)
	if err != nil {
		return nil, err
	}
	e.opts.Recorder.AddLookupMisses(len(warns))

	res = &Result{
		ID:             uuid.New(),
		Version:        p.Version,
		Category:       category,
		Processes:      a.ProcessNames(),
		Scaling:        s,
		InventoryFlows: flowNames,
		Inventory:      g,
		TotalImpact:    total,
		Contributions:  rows,
		Warnings:       append(append([]core.Warning(nil), p.Warnings...), warns...),
	}
	e.opts.Logger.Info("calculation done", "id", res.ID, "version", res.Version, "category", category, "total", total)

	return res, nil
}
