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

package path

import (
	"strconv"
	"strings"
	"sync"
)

// WildcardType classifies how a concrete access string relates to its
// underlying wildcard pattern.
type WildcardType int

const (
	// None means the access string carries no wildcard segments.
	None WildcardType = iota
	// Context means every wildcard segment was replaced by a concrete
	// numeric index (e.g. "items.0.name" against "items.*.name").
	Context
	// All means every segment that could be a wildcard is still "*".
	All
	// Partial means some wildcard segments are resolved to indices and
	// others remain "*".
	Partial
)

func (t WildcardType) String() string {
	switch t {
	case None:
		return "none"
	case Context:
		return "context"
	case All:
		return "all"
	case Partial:
		return "partial"
	default:
		return "unknown"
	}
}

// ResolvedPathInfo classifies a concrete access string (which may mix
// literal numeric indices in place of "*") against its canonical,
// wildcard-normalised StructuredPathInfo.
type ResolvedPathInfo struct {
	// Info is the canonical pattern with numeric segments normalised back
	// to "*".
	Info *StructuredPathInfo

	// Indexes holds, positionally for each wildcard in Info, the resolved
	// numeric index, or -1 if that wildcard position was left as "*".
	Indexes []int

	// WildcardType classifies the mix of resolved/unresolved wildcards.
	WildcardType WildcardType
}

var (
	resolvedMu    sync.RWMutex
	resolvedCache = make(map[string]*ResolvedPathInfo)
)

// GetResolved parses a concrete access string such as "items.0.name" or
// "items.*.name" into a ResolvedPathInfo, normalising numeric segments back
// into "*" for the underlying canonical StructuredPathInfo.
func GetResolved(name string) (*ResolvedPathInfo, error) {
	resolvedMu.RLock()
	if r, ok := resolvedCache[name]; ok {
		resolvedMu.RUnlock()
		return r, nil
	}
	resolvedMu.RUnlock()

	resolvedMu.Lock()
	defer resolvedMu.Unlock()
	if r, ok := resolvedCache[name]; ok {
		return r, nil
	}

	segments := strings.Split(name, ".")
	canonical := make([]string, len(segments))
	indexes := make([]int, 0, len(segments))
	sawWildcard, sawIndex := false, false
	for i, seg := range segments {
		if seg == "*" {
			canonical[i] = "*"
			indexes = append(indexes, -1)
			sawWildcard = true
			continue
		}
		if n, err := strconv.Atoi(seg); err == nil && n >= 0 {
			canonical[i] = "*"
			indexes = append(indexes, n)
			sawIndex = true
			continue
		}
		canonical[i] = seg
	}

	info, err := TryGet(strings.Join(canonical, "."))
	if err != nil {
		return nil, err
	}

	var wt WildcardType
	switch {
	case !sawWildcard && !sawIndex:
		wt = None
	case sawWildcard && !sawIndex:
		wt = All
	case !sawWildcard && sawIndex:
		wt = Context
	default:
		wt = Partial
	}

	r := &ResolvedPathInfo{Info: info, Indexes: indexes, WildcardType: wt}
	resolvedCache[name] = r
	return r, nil
}
