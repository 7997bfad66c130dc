// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"sync"

	"rivaas.dev/structive/stateref"
)

// cacheEntry memoizes one Ref's last computed value against the
// (version, revision) pair in force when it was computed, so a second read
// within the same render pass (before anything it depends on changes)
// skips recomputation entirely (spec §4.5 getByRef caching).
type cacheEntry struct {
	value       any
	listIndexes []int
	version     int64
	revision    int64
}

// Cache is a component-scoped memoization table for StateProxy reads,
// keyed by Ref identity (Refs are interned, so pointer equality holds).
// Grounded on router/cache.go's LRU-free generation-stamped entry shape,
// simplified here since entries are invalidated by version/revision rather
// than evicted by size.
type Cache struct {
	mu      sync.RWMutex
	entries map[*stateref.Ref]cacheEntry

	// versionRevisionByPath tracks the last (version, revision) pair
	// observed for each pattern, so Get can tell whether an entry computed
	// under an older pair is stale without re-walking the dependency graph.
	versionRevisionByPath map[string][2]int64
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{
		entries:               make(map[*stateref.Ref]cacheEntry),
		versionRevisionByPath: make(map[string][2]int64),
	}
}

// Get returns the cached value for ref if it was computed at the pattern's
// current (version, revision), reporting a hit; otherwise it reports a
// miss and the caller must recompute and call Set.
func (c *Cache) Get(ref *stateref.Ref) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[ref]
	if !ok {
		return nil, false
	}
	cur := c.versionRevisionByPath[ref.Info.Pattern]
	if cur[0] != entry.version || cur[1] != entry.revision {
		return nil, false
	}
	return entry.value, true
}

// Set stores value for ref, stamped with the pattern's current
// (version, revision).
func (c *Cache) Set(ref *stateref.Ref, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.versionRevisionByPath[ref.Info.Pattern]
	var indexes []int
	if ref.ListIndex != nil {
		indexes = ref.ListIndex.Indexes()
	}
	c.entries[ref] = cacheEntry{
		value:       value,
		listIndexes: indexes,
		version:     cur[0],
		revision:    cur[1],
	}
}

// Bump advances the (version, revision) pair recorded for pattern, which
// invalidates every cache entry computed against the prior pair without
// having to walk and delete them individually.
func (c *Cache) Bump(pattern string, version, revision int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versionRevisionByPath[pattern] = [2]int64{version, revision}
}

// VersionRevision returns the (version, revision) pair currently recorded
// for pattern.
func (c *Cache) VersionRevision(pattern string) (int64, int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	vr := c.versionRevisionByPath[pattern]
	return vr[0], vr[1]
}

// Clear drops every memoized entry, keeping version/revision bookkeeping
// intact. Used when a component is disconnected and its cache should not
// outlive it.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[*stateref.Ref]cacheEntry)
}
