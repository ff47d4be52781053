// SPDX-License-Identifier: MIT

package core

import (
	"fmt"
	"sort"
	"sync"
)

// CharacterizationTable maps a flow display name to its per-category factors.
//
// Keys are unique; category names are case-sensitive. The table is safe for
// concurrent use: mu guards factors, so loaders may fill it while readers look up.
type CharacterizationTable struct {
	mu      sync.RWMutex
	factors map[string]map[string]float64 // flow → category → factor
}

// NewCharacterizationTable returns an empty table.
func NewCharacterizationTable() *CharacterizationTable {
	return &CharacterizationTable{factors: make(map[string]map[string]float64)}
}

// Add inserts the factors of one flow. The map is copied.
//
// Errors: ErrDuplicateFlow if flow is already present.
func (c *CharacterizationTable) Add(flow string, factors map[string]float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.factors[flow]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateFlow, flow)
	}
	cp := make(map[string]float64, len(factors))
	for k, v := range factors {
		cp[k] = v
	}
	c.factors[flow] = cp

	return nil
}

// Factor returns the factor of flow for category and whether both were present.
func (c *CharacterizationTable) Factor(flow, category string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	row, ok := c.factors[flow]
	if !ok {
		return 0, false
	}
	v, ok := row[category]

	return v, ok
}

// Len returns the number of flows.
func (c *CharacterizationTable) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.factors)
}

// Categories returns every category name used by at least one flow, sorted.
func (c *CharacterizationTable) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, row := range c.factors {
		for cat := range row {
			seen[cat] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}
