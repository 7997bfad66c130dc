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

// Package listindex implements ListIndex, the per-loop-iteration identity
// object whose pointer identity survives array reorderings while its
// current position is free to change.
package listindex

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

var globalVersion int64

// nextID hands out monotonic identities; id (not pointer equality) is what
// a ListIndex carries across serialization or debug dumps.
var nextID int64

// ListIndex is one node per concrete position in a (possibly nested) loop
// iteration. Its Index field is mutable and is updated in place by the
// renderer's list-diff step when rows are reordered; ID and SID never
// change for the lifetime of the node.
type ListIndex struct {
	parent   *ListIndex
	position int // depth, 0-based
	id       int64
	sid      string

	index   int32 // current position in its list; atomic for concurrent reads during render
	version int64 // bumped whenever Index is written

	chain      []*ListIndex // cached root->self chain, rebuilt lazily
	chainStamp int64        // version of the chain cache
}

// New allocates a new ListIndex chained under parent (nil for a top-level
// loop) at the given initial index.
func New(parent *ListIndex, index int) *ListIndex {
	position := 0
	if parent != nil {
		position = parent.position + 1
	}
	id := atomic.AddInt64(&nextID, 1)
	li := &ListIndex{
		parent:   parent,
		position: position,
		id:       id,
		sid:      strconv.FormatInt(id, 10),
	}
	atomic.StoreInt32(&li.index, int32(index))
	atomic.StoreInt64(&li.version, atomic.AddInt64(&globalVersion, 1))
	return li
}

// ID is this node's monotonic, process-wide identity.
func (li *ListIndex) ID() int64 { return li.id }

// SID is ID formatted as a string, for use as a map key or debug label.
func (li *ListIndex) SID() string { return li.sid }

// DebugID returns a stable, globally-unique debug label for this node,
// supplementing the numeric ID with a uuid so that dumps taken from two
// different engine instances never collide. Not part of the identity
// contract: only ID/SID participate in equality and caching.
func (li *ListIndex) DebugID() string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(li.sid)).String()
}

// Position is this node's 0-based depth in its loop-context chain.
func (li *ListIndex) Position() int { return li.position }

// Parent is the enclosing loop's ListIndex, or nil at the top level.
func (li *ListIndex) Parent() *ListIndex { return li.parent }

// Index returns the node's current position within its list.
func (li *ListIndex) Index() int { return int(atomic.LoadInt32(&li.index)) }

// SetIndex updates the node's position in place, preserving its identity.
// This is the only mutation any ListIndex ever undergoes; it bumps the
// process-wide version counter so dependent indexes[] caches rebuild.
func (li *ListIndex) SetIndex(i int) {
	atomic.StoreInt32(&li.index, int32(i))
	atomic.StoreInt64(&li.version, atomic.AddInt64(&globalVersion, 1))
}

// Version is the version at which Index was last written.
func (li *ListIndex) Version() int64 { return atomic.LoadInt64(&li.version) }

// dirty reports whether any ancestor's version is newer than this node's
// cached chain, meaning Indexes() must rebuild before returning.
func (li *ListIndex) dirty() bool {
	if li.chain == nil {
		return true
	}
	for _, n := range li.chain {
		if n.Version() > li.chainStamp {
			return true
		}
	}
	return false
}

// Indexes returns the path from the root to this node as current index
// values, root first. Length is always Position()+1.
func (li *ListIndex) Indexes() []int {
	chain := li.Chain()
	out := make([]int, len(chain))
	for i, n := range chain {
		out[i] = n.Index()
	}
	return out
}

// Chain returns the root..self ancestor chain, rebuilding the cache when an
// ancestor has written a newer version since the last build. Per spec §4.2
// the ancestor links model a weak reference: a node is kept alive only by
// live descendants reachable from the renderer's active binding sets, not
// by this cache, so a chain is rebuilt rather than retained once inputs
// are stale.
func (li *ListIndex) Chain() []*ListIndex {
	if !li.dirty() {
		return li.chain
	}
	chain := make([]*ListIndex, li.position+1)
	n := li
	for i := li.position; i >= 0; i-- {
		chain[i] = n
		n = n.parent
	}
	li.chain = chain
	li.chainStamp = atomic.LoadInt64(&globalVersion)
	return chain
}

// At returns the ancestor at absolute depth p. Negative p indexes from the
// tail (-1 is this node itself, -2 its parent, and so on).
func (li *ListIndex) At(p int) *ListIndex {
	chain := li.Chain()
	if p < 0 {
		p = len(chain) + p
	}
	if p < 0 || p >= len(chain) {
		return nil
	}
	return chain[p]
}
