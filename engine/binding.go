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

	"rivaas.dev/structive/contract"
	"rivaas.dev/structive/filter"
	"rivaas.dev/structive/listindex"
	"rivaas.dev/structive/stateref"
	"rivaas.dev/structive/structiveerr"
)

// LoopContext is the per-for-binding loop identity a BindContent carries so
// that nested bindings can resolve $1..$9 and bare wildcard segments
// against "the nearest enclosing loop", per spec §4.3's loop-context
// lookup. Pattern is the list path the loop iterates (e.g. "items").
type LoopContext struct {
	Pattern   string
	ListIndex *listindex.ListIndex
	Parent    *LoopContext
}

// At returns the LoopContext p levels up from lc (0 is lc itself), or nil
// past the outermost loop. Used by $1..$9 index accessors (spec §4.3).
func (lc *LoopContext) At(p int) *LoopContext {
	for ; p > 0 && lc != nil; p-- {
		lc = lc.Parent
	}
	return lc
}

// BindingNode is the minimal contract every concrete binding kind
// (attribute/property/event/radio/checkbox/component, ...) must satisfy;
// spec §1 places the per-kind DOM operation bodies out of scope and fixes
// only this shape.
type BindingNode interface {
	// Ref is the state ref this binding depends on.
	Ref() *stateref.Ref
	// Buildable reports whether this binding participates in the "build"
	// render phase (it creates/destroys DOM structure) as opposed to
	// "apply" (it only assigns a value to existing DOM).
	Buildable() bool
	// IsSelectElement marks bindings that must run in the dedicated
	// "applySelect" phase, after every other apply has landed, because a
	// <select> element's value can only be set once its <option> children
	// exist (spec §4.7).
	IsSelectElement() bool
	// Apply executes the binding's DOM-facing effect for the current
	// value, post-filter.
	Apply(ctx context.Context, value any) error
}

// Binding is the concrete leaf binding: one ref, one node-property target,
// routed through a filter pipeline and a DOMAdapter (spec.md §1's
// out-of-scope DOM-operation body, injected here as a dependency).
type Binding struct {
	node     contract.Node
	ref      *stateref.Ref
	nodeProp string
	pipeline *filter.Pipeline
	adapter  contract.DOMAdapter

	buildable  bool
	selectElem bool
}

// NewBinding constructs a leaf Binding. pipeline may be nil (identity).
func NewBinding(node contract.Node, ref *stateref.Ref, nodeProp string, pipeline *filter.Pipeline, adapter contract.DOMAdapter, buildable, selectElem bool) *Binding {
	return &Binding{
		node:       node,
		ref:        ref,
		nodeProp:   nodeProp,
		pipeline:   pipeline,
		adapter:    adapter,
		buildable:  buildable,
		selectElem: selectElem,
	}
}

func (b *Binding) Ref() *stateref.Ref    { return b.ref }
func (b *Binding) Buildable() bool       { return b.buildable }
func (b *Binding) IsSelectElement() bool { return b.selectElem }

// Apply filters value through the pipeline (identity if nil) and hands it
// to the adapter.
func (b *Binding) Apply(ctx context.Context, value any) error {
	if b.adapter == nil {
		return structiveerr.Raise(structiveerr.ErrBIND301, map[string]any{"nodeProp": b.nodeProp})
	}
	filtered := value
	if b.pipeline != nil {
		filtered = b.pipeline.Apply(value)
	}
	return b.adapter.AssignValue(b.node, b.nodeProp, filtered)
}

// BindContent is one instantiated template fragment: the set of Bindings
// scanned out of it, any nested BindContents it owns (one per for/if
// iteration or branch), and the LoopContext in force while it was built.
// Spec §4.3/§4.4's BindContent.
type BindContent struct {
	TemplateID int
	Parent     *BindContent
	Loop       *LoopContext

	Bindings []BindingNode
	Children []*BindContent

	nodes []contract.Node
}

// NewBindContent allocates an empty BindContent under parent, inheriting
// parent's LoopContext unless loop overrides it (for-bindings pass their
// own LoopContext; everything else passes nil to inherit).
func NewBindContent(templateID int, parent *BindContent, loop *LoopContext) *BindContent {
	bc := &BindContent{TemplateID: templateID, Parent: parent}
	switch {
	case loop != nil:
		bc.Loop = loop
	case parent != nil:
		bc.Loop = parent.Loop
	}
	return bc
}

// SetNodes records the DOM nodes this content instantiated from its
// template clone.
func (bc *BindContent) SetNodes(nodes []contract.Node) { bc.nodes = nodes }

// Nodes returns the DOM nodes this content instantiated.
func (bc *BindContent) Nodes() []contract.Node { return bc.nodes }

// AddBinding attaches a leaf binding to this content.
func (bc *BindContent) AddBinding(b BindingNode) { bc.Bindings = append(bc.Bindings, b) }

// AddChild attaches a nested BindContent (one for/if iteration or branch).
func (bc *BindContent) AddChild(child *BindContent) { bc.Children = append(bc.Children, child) }

// Find returns the nearest enclosing LoopContext (innermost first) whose
// Pattern equals pattern, or nil if no ancestor loop iterates that list.
// This is the resolved semantics for spec §4.3's "wildcard segments resolve
// against the nearest enclosing loop with a matching list pattern": a
// binding nested inside two loops over the same list resolves against the
// closer one, not the outer one.
func (bc *BindContent) Find(pattern string) *LoopContext {
	for c := bc; c != nil; c = c.Parent {
		for lc := c.Loop; lc != nil; lc = lc.Parent {
			if lc.Pattern == pattern {
				return lc
			}
		}
	}
	return nil
}

// ResolveListIndex builds the ListIndex a ref with the given wildcard
// parent paths resolves to from this content's position in the tree: for
// each wildcard level (outermost first), the nearest enclosing loop over
// that level's list pattern supplies one ListIndex link. Returns nil if
// info has no wildcards, and structiveerr.ErrBIND201 if any level has no
// enclosing loop.
func (bc *BindContent) ResolveListIndex(wildcardParentPaths []string) (*listindex.ListIndex, error) {
	if len(wildcardParentPaths) == 0 {
		return nil, nil
	}
	var li *listindex.ListIndex
	for _, listPattern := range wildcardParentPaths {
		lc := bc.Find(listPattern)
		if lc == nil {
			return nil, structiveerr.Raise(structiveerr.ErrBIND201, map[string]any{"listPattern": listPattern})
		}
		li = lc.ListIndex
	}
	return li, nil
}

// ComponentBinding wraps a child custom-element binding: instead of
// assigning a scalar value to a DOM property, it forwards redraw
// notifications into the child component's own Updater (spec §4.9's
// component-wrapping bindings / NotifyRedraw).
type ComponentBinding struct {
	node contract.Node
	ref  *stateref.Ref

	// NotifyRedraw is invoked with the new value whenever ref changes;
	// normally wired to the child ComponentEngine's cross-component
	// stateOutput bridge. May be nil until the child's custom element has
	// upgraded (ErrCOMP402).
	NotifyRedraw func(value any) error
}

func NewComponentBinding(node contract.Node, ref *stateref.Ref) *ComponentBinding {
	return &ComponentBinding{node: node, ref: ref}
}

func (c *ComponentBinding) Ref() *stateref.Ref    { return c.ref }
func (c *ComponentBinding) Buildable() bool       { return false }
func (c *ComponentBinding) IsSelectElement() bool { return false }

func (c *ComponentBinding) Apply(ctx context.Context, value any) error {
	if c.NotifyRedraw == nil {
		return structiveerr.Raise(structiveerr.ErrCOMP402, nil)
	}
	return c.NotifyRedraw(value)
}
