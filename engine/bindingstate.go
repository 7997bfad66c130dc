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
	"rivaas.dev/structive/path"
	"rivaas.dev/structive/stateref"
	"rivaas.dev/structive/structiveerr"
)

// BindingState resolves a template-scanned binding's StructuredPathInfo
// against the concrete LoopContext of the BindContent it was cloned into,
// producing the interned Ref the binding actually reads/writes this
// instantiation (spec §4.4: a template is scanned once but instantiated
// many times, once per loop iteration).
type BindingState struct {
	Info *path.StructuredPathInfo
}

// NewBindingState wraps info for later resolution.
func NewBindingState(info *path.StructuredPathInfo) *BindingState {
	return &BindingState{Info: info}
}

// ResolveRef walks bc's ancestor chain to find the enclosing loop for each
// of Info's wildcard levels and interns the resulting Ref.
func (bs *BindingState) ResolveRef(bc *BindContent) (*stateref.Ref, error) {
	li, err := bc.ResolveListIndex(bs.Info.WildcardParentPaths)
	if err != nil {
		return nil, err
	}
	return stateref.Get(bs.Info, li), nil
}

// BindingStateIndex resolves the special $1..$9 loop-index accessors: $N
// reads the current Index() of the N-th enclosing loop, counting inward
// out (1 is the nearest, per spec §4.3).
type BindingStateIndex struct {
	Depth int
}

// NewBindingStateIndex validates depth is in [1, 9] and returns a resolver
// for it. Anything outside that range is a binding-authoring error, raised
// as BIND-202.
func NewBindingStateIndex(depth int) (*BindingStateIndex, error) {
	if depth < 1 || depth > 9 {
		return nil, structiveerr.Raise(structiveerr.ErrBIND202, map[string]any{"depth": depth})
	}
	return &BindingStateIndex{Depth: depth}, nil
}

// Resolve returns the current position of the N-th enclosing loop around
// bc, or LIST-201 if bc is nested fewer than Depth loops deep.
func (bi *BindingStateIndex) Resolve(bc *BindContent) (int, error) {
	lc := bc.Loop
	if lc == nil {
		return 0, structiveerr.Raise(structiveerr.ErrLIST201, map[string]any{"depth": bi.Depth})
	}
	target := lc.At(bi.Depth - 1)
	if target == nil {
		return 0, structiveerr.Raise(structiveerr.ErrLIST201, map[string]any{"depth": bi.Depth})
	}
	return target.ListIndex.Index(), nil
}
