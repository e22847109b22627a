// Package snapshot implements component E: the per-tenant scenario cache.
// A Snapshot bundles a tenant's search tree and scenario indexes; Cache is
// the thread-safe tenant_id -> Snapshot mapping with atomic-swap reload
// semantics that give the I5 isolation guarantee — a reader that already
// holds a Snapshot reference keeps using it even if another goroutine
// replaces the cache's binding mid-read.
package snapshot

import (
	"strings"
	"sync"

	"github.com/chatflow-dev/scenariorunner/pkg/condition"
	"github.com/chatflow-dev/scenariorunner/pkg/scenario"
)

// Snapshot is the per-tenant read-only bundle described in spec §3. All
// three fields are built once by the loader and never mutated in place;
// a reload builds an entirely new Snapshot and swaps it into the Cache.
type Snapshot struct {
	SearchTree        *condition.Node
	ScenarioIndex     map[int64]*scenario.Scenario
	ScenarioNameIndex map[string]int64
}

// New returns an empty Snapshot, ready for the loader to populate.
func New() *Snapshot {
	return &Snapshot{
		SearchTree:        condition.NewNode(),
		ScenarioIndex:     make(map[int64]*scenario.Scenario),
		ScenarioNameIndex: make(map[string]int64),
	}
}

// Cache is the thread-safe tenant_id -> Snapshot registry of component E.
// Following the same RWMutex-guarded map pattern used throughout this
// codebase's registries, reads take an RLock only long enough to copy out
// the current pointer.
type Cache struct {
	mu        sync.RWMutex
	snapshots map[int64]*Snapshot
}

// NewCache constructs an empty Cache.
func NewCache() *Cache {
	return &Cache{snapshots: make(map[int64]*Snapshot)}
}

// Get returns the current snapshot for tenantID, or (nil, false) if the
// tenant has never been loaded.
func (c *Cache) Get(tenantID int64) (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.snapshots[tenantID]
	return s, ok
}

// Set atomically binds tenantID to snap, replacing any prior snapshot.
// Any goroutine that already retrieved the previous snapshot via Get keeps
// its reference unaffected — Set never mutates an existing Snapshot value,
// only the map entry pointing at it.
func (c *Cache) Set(tenantID int64, snap *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots[tenantID] = snap
}

// Exists reports whether tenantID currently has a cached snapshot.
func (c *Cache) Exists(tenantID int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.snapshots[tenantID]
	return ok
}

// Delete removes tenantID's snapshot, if any.
func (c *Cache) Delete(tenantID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.snapshots, tenantID)
}

// InvalidatePattern removes every cached tenant whose decimal id matches a
// simple trailing-"*" glob pattern (e.g. "1*" matches 1, 10, 100, ...).
// A pattern with no "*" is an exact-id match.
func (c *Cache) InvalidatePattern(pattern string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix, isGlob := strings.CutSuffix(pattern, "*")
	for id := range c.snapshots {
		key := itoa(id)
		if isGlob {
			if strings.HasPrefix(key, prefix) {
				delete(c.snapshots, id)
			}
		} else if key == pattern {
			delete(c.snapshots, id)
		}
	}
}

func itoa(id int64) string {
	if id == 0 {
		return "0"
	}
	neg := id < 0
	if neg {
		id = -id
	}
	var b [20]byte
	i := len(b)
	for id > 0 {
		i--
		b[i] = byte('0' + id%10)
		id /= 10
	}
	if neg {
		i--
		b[i] = '-'
	}
	return string(b[i:])
}
