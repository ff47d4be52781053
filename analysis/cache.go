// SPDX-License-Identifier: MIT

package analysis

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/katalvlaran/lca/allocation"
	"github.com/katalvlaran/lca/assemble"
	"github.com/katalvlaran/lca/core"
)

// DefaultCacheSize is the number of snapshot versions kept by NewCache.
const DefaultCacheSize = 4

// Prepared holds the assembled and allocated tables of one snapshot version.
// It is shared between requests and must be treated as read-only.
type Prepared struct {
	Version          string
	Allocated        *allocation.Result
	Characterization *core.CharacterizationTable
	Categories       []string       // categories with at least one factor, sorted
	Warnings         []core.Warning // assembly and allocation warnings
}

// Cache memoizes Prepared values by snapshot version. Concurrent misses on the
// same version share one preparation.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Prepared
	order   []string // insertion order for eviction
	size    int
	group   singleflight.Group
}

// NewCache returns a cache holding at most size versions (DefaultCacheSize if size <= 0).
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}

	return &Cache{entries: make(map[string]*Prepared), size: size}
}

// Get returns the cached value for version or computes it with prepare.
// hit reports whether the value was already cached. Failed preparations are not cached.
func (c *Cache) Get(version string, prepare func() (*Prepared, error)) (p *Prepared, hit bool, err error) {
	if p, ok := c.lookup(version); ok {
		return p, true, nil
	}

	v, err, _ := c.group.Do(version, func() (any, error) {
		if p, ok := c.lookup(version); ok {
			return p, nil
		}
		p, err := prepare()
		if err != nil {
			return nil, err
		}
		c.store(version, p)

		return p, nil
	})
	if err != nil {
		return nil, false, err
	}

	return v.(*Prepared), false, nil
}

// Len returns the number of cached versions.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Purge drops every cached version.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Prepared)
	c.order = nil
}

func (c *Cache) lookup(version string) (*Prepared, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.entries[version]

	return p, ok
}

func (c *Cache) store(version string, p *Prepared) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[version]; ok {
		return
	}
	c.entries[version] = p
	c.order = append(c.order, version)
	for len(c.order) > c.size {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
}

// prepare assembles and allocates one snapshot.
func prepare(snap *assemble.Snapshot, o *Options) (*Prepared, error) {
	asm, err := assemble.Assemble(snap, o.AssembleOptions...)
	if err != nil {
		return nil, err
	}
	alloc, err := allocation.Allocate(asm.Technology, asm.Intervention, o.AllocationOptions...)
	if err != nil {
		return nil, err
	}
	warns := append(append([]core.Warning(nil), asm.Warnings...), alloc.Warnings...)
	var categories []string
	var characterized int
	if snap.Characterization != nil {
		categories = snap.Characterization.Categories()
		characterized = snap.Characterization.Len()
	}
	o.Logger.Debug("snapshot prepared", "version", snap.Version,
		"processes", len(alloc.Technology.Processes), "characterized_flows", characterized, "categories", categories)

	return &Prepared{
		Version:          snap.Version,
		Allocated:        alloc,
		Characterization: snap.Characterization,
		Categories:       categories,
		Warnings:         warns,
	}, nil
}
