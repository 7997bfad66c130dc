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

// Package stateref interns StatePropertyRef, the (StructuredPathInfo,
// ListIndex) coordinate pair that the cache, the dependency graph, and
// binding registration all key on.
package stateref

import (
	"fmt"
	"sync"

	"rivaas.dev/structive/listindex"
	"rivaas.dev/structive/path"
)

// Ref is an interned (info, listIndex) pair. It carries no value of its
// own; values live in the component engine's cache keyed by Ref. Equality
// of Refs is pointer identity.
type Ref struct {
	Info      *path.StructuredPathInfo
	ListIndex *listindex.ListIndex

	parentOnce sync.Once
	parent     *Ref
}

type key struct {
	infoID      int64
	listIndexID int64
}

var (
	mu       sync.Mutex
	interned = make(map[key]*Ref)
)

// Get returns the shared Ref for (info, listIndex). listIndex must be nil
// iff info.WildcardCount == 0; Get panics otherwise, since a ref without a
// list index cannot resolve a wildcarded pattern and vice versa.
func Get(info *path.StructuredPathInfo, li *listindex.ListIndex) *Ref {
	if (info.WildcardCount == 0) != (li == nil) {
		panic(fmt.Sprintf("stateref: pattern %q has %d wildcards but listIndex nil=%v", info.Pattern, info.WildcardCount, li == nil))
	}

	k := key{infoID: info.ID}
	if li != nil {
		k.listIndexID = li.ID()
	}

	mu.Lock()
	defer mu.Unlock()
	if r, ok := interned[k]; ok {
		return r
	}
	r := &Ref{Info: info, ListIndex: li}
	interned[k] = r
	return r
}

// Parent derives and caches this ref's parent ref: if the parent pattern
// has fewer wildcards than info, one level of ListIndex is dropped; other-
// wise the same ListIndex is kept. Returns nil at the pattern root.
func (r *Ref) Parent() *Ref {
	r.parentOnce.Do(func() {
		pi := r.Info.ParentInfo
		if pi == nil {
			return
		}
		li := r.ListIndex
		if pi.WildcardCount < r.Info.WildcardCount {
			if li != nil {
				li = li.Parent()
			}
		}
		r.parent = Get(pi, li)
	})
	return r.parent
}

func (r *Ref) String() string {
	if r.ListIndex == nil {
		return r.Info.Pattern
	}
	return fmt.Sprintf("%s#%s", r.Info.Pattern, r.ListIndex.SID())
}
