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
	"context"
	"fmt"
	"reflect"
	"sync"

	"rivaas.dev/structive/contract"
	"rivaas.dev/structive/listindex"
	"rivaas.dev/structive/path"
	"rivaas.dev/structive/stateref"
	"rivaas.dev/structive/structiveerr"
)

// StateProxy mediates every read and write against a component's state
// value. Go has no language-level Proxy, so unlike the original's
// transparent get/set traps, every access goes through GetByRef/SetByRef
// explicitly (spec.md §9's Go design note); the traps' dependency-tracking
// and caching behavior is preserved by pushing onto refStack for the
// duration of a computed getter's evaluation.
type StateProxy struct {
	pm      *PathManager
	cache   *Cache
	state   any
	updater *Updater

	navigator contract.Navigator
	component any // set by ComponentEngine to itself, returned by Component()

	mu       sync.Mutex
	refStack []*stateref.Ref
	maxDepth int
}

// NewStateProxy wires a StateProxy over pm/cache/state/updater. maxDepth
// bounds refStack (engineconfig.Options.RefStackDepth; 0 means "use the
// package default of 32").
func NewStateProxy(pm *PathManager, cache *Cache, state any, updater *Updater, navigator contract.Navigator, maxDepth int) *StateProxy {
	if maxDepth <= 0 {
		maxDepth = 32
	}
	return &StateProxy{pm: pm, cache: cache, state: state, updater: updater, navigator: navigator, maxDepth: maxDepth}
}

// SetComponent records the owning ComponentEngine, returned by Component().
func (sp *StateProxy) SetComponent(c any) { sp.component = c }

// GetByRef is the engine's read trap: when the ref currently being
// computed (if any) is a getter-only pattern other than ref's own, it
// records a dynamic dependency from that pattern onto ref; it serves from
// cache when the pattern's (version, revision) hasn't advanced, and
// otherwise calls the registered Getter or falls back to structural
// reflection access (spec §4.5).
func (sp *StateProxy) GetByRef(ctx context.Context, ref *stateref.Ref) (any, error) {
	sp.mu.Lock()
	if len(sp.refStack) > 0 {
		caller := sp.refStack[len(sp.refStack)-1]
		if caller.Info.Pattern != ref.Info.Pattern && sp.pm.IsOnlyGetter(caller.Info.Pattern) {
			sp.pm.AddDynamicDependency(caller.Info.Pattern, ref.Info.Pattern)
		}
	}
	if len(sp.refStack) >= sp.maxDepth {
		sp.mu.Unlock()
		return nil, fmt.Errorf("stateproxy: ref stack exceeded max depth %d while resolving %s (cyclic getter?)", sp.maxDepth, ref)
	}
	sp.refStack = append(sp.refStack, ref)
	sp.mu.Unlock()

	defer func() {
		sp.mu.Lock()
		sp.refStack = sp.refStack[:len(sp.refStack)-1]
		sp.mu.Unlock()
	}()

	if value, ok := sp.cache.Get(ref); ok {
		return value, nil
	}

	value, err := sp.compute(ref)
	if err != nil {
		return nil, err
	}
	sp.cache.Set(ref, value)
	return value, nil
}

func (sp *StateProxy) compute(ref *stateref.Ref) (any, error) {
	if getter, ok := sp.pm.Getter(ref.Info.Pattern); ok {
		return getter(sp.state, ref)
	}
	value, err := structuralGet(sp.state, ref)
	if err != nil {
		return nil, structiveerr.Raise(structiveerr.ErrSTC001, map[string]any{"pattern": ref.Info.Pattern, "cause": err.Error()})
	}
	return value, nil
}

// SetByRef is the engine's write trap: it calls the registered Setter,
// falls back to structural reflection access when there is no explicit
// accessor at all, and rejects writes to getter-only patterns with
// STATE-202. A successful write enqueues ref on the Updater so the next
// microtask-equivalent batch re-renders every dependent binding.
func (sp *StateProxy) SetByRef(ctx context.Context, ref *stateref.Ref, value any) error {
	if sp.pm.IsOnlyGetter(ref.Info.Pattern) {
		return structiveerr.Raise(structiveerr.ErrSTATE202, map[string]any{"pattern": ref.Info.Pattern})
	}

	if setter, ok := sp.pm.Setter(ref.Info.Pattern); ok {
		if err := setter(sp.state, ref, value); err != nil {
			return err
		}
	} else if err := structuralSet(sp.state, ref, value); err != nil {
		return structiveerr.Raise(structiveerr.ErrSTC001, map[string]any{"pattern": ref.Info.Pattern, "cause": err.Error()})
	}

	sp.updater.EnqueueRef(ref)
	return nil
}

// Resolve implements $resolve: parse a concrete access string (dotted path
// that may mix literal numeric indices with "*") and read it. Wildcard
// positions left as "*" (path.All, path.Partial) fill in from whichever
// ref is currently being computed; positions given as explicit numbers
// (path.Context) are taken literally (path.GetResolved classifies which
// case applies, confusingly naming the "explicit indices" case Context).
func (sp *StateProxy) Resolve(ctx context.Context, name string) (any, error) {
	resolved, err := path.GetResolved(name)
	if err != nil {
		return nil, err
	}

	var li *listindex.ListIndex
	switch resolved.WildcardType {
	case path.None:
		li = nil
	case path.Context:
		li = buildListIndexChain(resolved.Indexes)
	default: // path.All, path.Partial: some or all positions need ambient context.
		ambient := sp.currentListIndex()
		if ambient == nil {
			return nil, structiveerr.Raise(structiveerr.ErrSTC002, map[string]any{"pattern": resolved.Info.Pattern})
		}
		li = mergeWithAmbientIndexes(ambient, resolved.Indexes)
	}

	ref := stateref.Get(resolved.Info, li)
	return sp.GetByRef(ctx, ref)
}

// mergeWithAmbientIndexes builds a ListIndex chain from indexes, filling
// any -1 ("*") slot with the corresponding level of ambient's own chain.
func mergeWithAmbientIndexes(ambient *listindex.ListIndex, indexes []int) *listindex.ListIndex {
	ambientChain := ambient.Indexes()
	var li *listindex.ListIndex
	for i, idx := range indexes {
		if idx < 0 && i < len(ambientChain) {
			idx = ambientChain[i]
		}
		li = listindex.New(li, idx)
	}
	return li
}

// currentListIndex returns the ListIndex of whichever ref is presently
// being computed, or nil if GetByRef isn't on the call stack.
func (sp *StateProxy) currentListIndex() *listindex.ListIndex {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	if len(sp.refStack) == 0 {
		return nil
	}
	return sp.refStack[len(sp.refStack)-1].ListIndex
}

// buildListIndexChain builds a fresh, parentless-per-level ListIndex chain
// from explicit numeric indices (spec §4.5 $resolve with a fully
// qualified, non-contextual path). The resulting chain carries no shared
// identity with any loop's live ListIndex nodes - it exists only to let
// GetByRef compute a value at that coordinate, not to participate in
// list-diff reconciliation.
func buildListIndexChain(indexes []int) *listindex.ListIndex {
	var li *listindex.ListIndex
	for _, idx := range indexes {
		li = listindex.New(li, idx)
	}
	return li
}

// GetAll implements $getAll: enumerates every concrete resolution of a
// wildcard path (spec §4.5, §6), e.g. "items.*.name" returns every item's
// name. A partial access string such as "groups.0.items.*.name" fixes the
// "groups.0" prefix and enumerates only the remaining wildcard. A plain,
// non-wildcard pattern such as "items" falls back to returning the list's
// backing slice directly, for getters that just need every current item.
func (sp *StateProxy) GetAll(ctx context.Context, name string) ([]any, error) {
	resolved, err := path.GetResolved(name)
	if err != nil {
		return nil, err
	}

	if resolved.WildcardType == path.None {
		ref := stateref.Get(resolved.Info, nil)
		value, err := sp.GetByRef(ctx, ref)
		if err != nil {
			return nil, err
		}
		return toAnySlice(value), nil
	}

	chains, err := sp.enumerateListIndexes(ctx, resolved.Info.WildcardParentPaths, resolved.Indexes)
	if err != nil {
		return nil, err
	}
	results := make([]any, 0, len(chains))
	for _, li := range chains {
		ref := stateref.Get(resolved.Info, li)
		value, err := sp.GetByRef(ctx, ref)
		if err != nil {
			return nil, err
		}
		results = append(results, value)
	}
	return results, nil
}

// enumerateListIndexes builds every concrete ListIndex chain consistent
// with indexes: a resolved (non-negative) position is taken literally, an
// unresolved ("*", -1) position is expanded by reading the current length
// of the list named at listPaths[pos] (under whatever prefix chain has
// been fixed so far) and recursing over every element.
func (sp *StateProxy) enumerateListIndexes(ctx context.Context, listPaths []string, indexes []int) ([]*listindex.ListIndex, error) {
	return sp.enumerateFrom(ctx, nil, listPaths, indexes, 0)
}

func (sp *StateProxy) enumerateFrom(ctx context.Context, prefix *listindex.ListIndex, listPaths []string, indexes []int, pos int) ([]*listindex.ListIndex, error) {
	if pos == len(indexes) {
		return []*listindex.ListIndex{prefix}, nil
	}

	if indexes[pos] >= 0 {
		li := listindex.New(prefix, indexes[pos])
		return sp.enumerateFrom(ctx, li, listPaths, indexes, pos+1)
	}

	listInfo, err := path.TryGet(listPaths[pos])
	if err != nil {
		return nil, err
	}
	listRef := stateref.Get(listInfo, prefix)
	listValue, err := sp.GetByRef(ctx, listRef)
	if err != nil {
		return nil, err
	}

	n := len(toAnySlice(listValue))
	out := make([]*listindex.ListIndex, 0, n)
	for i := 0; i < n; i++ {
		li := listindex.New(prefix, i)
		rest, err := sp.enumerateFrom(ctx, li, listPaths, indexes, pos+1)
		if err != nil {
			return nil, err
		}
		out = append(out, rest...)
	}
	return out, nil
}

func toAnySlice(value any) []any {
	if value == nil {
		return nil
	}
	if s, ok := value.([]any); ok {
		return s
	}
	v := reflect.ValueOf(value)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, v.Len())
	for i := range out {
		out[i] = v.Index(i).Interface()
	}
	return out
}

// TrackDependency implements $trackDependency: declares that source's
// computed value depends on dep, without actually reading dep. Useful when
// a getter derives its result from a side channel GetByRef can't see.
func (sp *StateProxy) TrackDependency(sourcePattern, depPattern string) {
	sp.pm.AddDynamicDependency(sourcePattern, depPattern)
}

// Invoke implements $invoke: runs fn, then synchronously flushes whatever
// it enqueued so the caller observes a fully rendered result once Invoke
// returns.
func (sp *StateProxy) Invoke(ctx context.Context, fn func() (any, error)) (any, error) {
	var result any
	err := sp.updater.Invoke(ctx, func() error {
		v, ferr := fn()
		result = v
		return ferr
	})
	return result, err
}

// Wrap implements $wrap. Go has no Proxy to re-wrap a returned object in,
// so this is the identity function, kept so state code written against
// the $wrap contract compiles unchanged when a getter function happens to
// call it defensively.
func (sp *StateProxy) Wrap(value any) any { return value }

// Navigate implements $navigate, delegating to the injected
// contract.Navigator (the SPA router is explicitly out of scope for this
// module; only the call-site contract lives here).
func (sp *StateProxy) Navigate(to string) error {
	if sp.navigator == nil {
		return fmt.Errorf("stateproxy: $navigate called with no contract.Navigator configured")
	}
	return sp.navigator.Navigate(to)
}

// Component implements $component: returns the owning ComponentEngine (as
// set by SetComponent), letting state code reach component-level APIs
// (e.g. its DOM host element) that aren't path-addressable.
func (sp *StateProxy) Component() any { return sp.component }

// UpdateComplete implements $updateComplete: blocks until any
// already-scheduled render batch has run, synchronously forcing the flush
// if the caller got here before the scheduler goroutine did.
func (sp *StateProxy) UpdateComplete(ctx context.Context) error {
	return sp.updater.Flush(ctx)
}
