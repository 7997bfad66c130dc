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
	"rivaas.dev/structive/listindex"
)

// ListDiff is the result of reconciling the previous render's
// key -> ListIndex mapping against a new value slice.
type ListDiff struct {
	// Indexes is the new-order slice of ListIndex, length len(newValues):
	// a reused node wherever the value's key survived from the previous
	// render, a freshly allocated one otherwise.
	Indexes []*listindex.ListIndex
	// ByKey is the mapping to carry into the next render's
	// CreateListIndexes call.
	ByKey map[any]*listindex.ListIndex
	// Reused counts how many nodes were matched by key and kept (with
	// SetIndex called only when their position changed) rather than
	// allocated - the in-place-reorder fast
	// path spec §4.2 calls out (swapping two rows costs zero allocations).
	Reused int
	// Removed holds the ListIndex nodes keyed in the previous render with
	// no surviving key in the new slice.
	Removed []*listindex.ListIndex
}

// CreateListIndexes reconciles prevByKey (the key -> ListIndex mapping
// produced by the previous render of this list, nil for the first render)
// against newValues, using keyFn to extract each value's identity key.
// parent is the enclosing loop's ListIndex (nil for a top-level list).
//
// Known limitation: if keyFn returns the same key for two or more values
// in newValues (no stable per-item identity was supplied), only the first
// occurrence in newValues order is matched against the surviving node; the
// rest allocate fresh ListIndex nodes, and ByKey ends up holding the node
// of the last occurrence. The order of Removed follows Go map iteration
// over prevByKey and is unspecified.
func CreateListIndexes(parent *listindex.ListIndex, prevByKey map[any]*listindex.ListIndex, newValues []any, keyFn func(value any) any) ListDiff {
	result := ListDiff{
		Indexes: make([]*listindex.ListIndex, len(newValues)),
		ByKey:   make(map[any]*listindex.ListIndex, len(newValues)),
	}

	consumed := make(map[*listindex.ListIndex]bool, len(prevByKey))
	for i, v := range newValues {
		key := keyFn(v)
		if reused, ok := prevByKey[key]; ok && !consumed[reused] {
			if reused.Index() != i {
				reused.SetIndex(i)
			}
			result.Indexes[i] = reused
			result.ByKey[key] = reused
			consumed[reused] = true
			result.Reused++
			continue
		}
		li := listindex.New(parent, i)
		result.Indexes[i] = li
		result.ByKey[key] = li
	}

	for _, li := range prevByKey {
		if !consumed[li] {
			result.Removed = append(result.Removed, li)
		}
	}
	return result
}
