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
	"log/slog"
	"sync"

	"rivaas.dev/structive/contract"
	"rivaas.dev/structive/engineconfig"
	"rivaas.dev/structive/path"
	"rivaas.dev/structive/stateref"
	"rivaas.dev/structive/structiveerr"
	"rivaas.dev/structive/telemetry"
)

// resolvePattern interns a static (non-wildcarded) pattern, returning the
// path package's own parse error unchanged rather than panicking like
// path.Get.
func resolvePattern(pattern string) (*path.StructuredPathInfo, error) {
	return path.TryGet(pattern)
}

// ComponentEngine owns one component instance end to end: its state value,
// the StateProxy mediating access to it, the PathManager/Cache/Updater
// that drive rendering, and the live binding graph rooted at its top-level
// BindContent. Spec §4.9's per-component engine object.
type ComponentEngine struct {
	opts *engineconfig.Options

	state any
	pm    *PathManager
	cache *Cache
	proxy *StateProxy

	updater  *Updater
	renderer *Renderer
	root     *BindContent

	mu              sync.RWMutex
	bindingsByPath  map[string][]BindingNode
	bindingsByLoop  map[*LoopContext][]BindingNode // WeakMap-equivalent: entries are pruned on RemoveBindContent
	children        map[string]*ComponentEngine     // by instance id, for cross-component stateOutput lookups
	parent          *ComponentEngine
	stateOutputKeys map[string]string // this component's path -> parent's exposed path, for the CSO bridge

	readyOnce sync.Once
	ready     chan struct{}

	navigator contract.Navigator
	diag      contract.DiagnosticHandler
	log       *slog.Logger
	tel       *telemetry.Config
}

// ComponentOption configures a ComponentEngine at construction.
type ComponentOption func(*ComponentEngine)

// WithOptions overrides the engine-wide configuration (spec §1's external
// "global configuration" collaborator).
func WithOptions(o *engineconfig.Options) ComponentOption {
	return func(c *ComponentEngine) { c.opts = o }
}

// WithNavigator injects the SPA router collaborator behind $navigate.
func WithNavigator(nav contract.Navigator) ComponentOption {
	return func(c *ComponentEngine) { c.navigator = nav }
}

// WithDiagnosticHandler installs a structured diagnostics sink alongside
// the engine's slog output.
func WithDiagnosticHandler(h contract.DiagnosticHandler) ComponentOption {
	return func(c *ComponentEngine) { c.diag = h }
}

// WithTelemetry installs an OpenTelemetry/Prometheus-backed telemetry
// configuration; defaults to telemetry.Noop().
func WithTelemetry(tel *telemetry.Config) ComponentOption {
	return func(c *ComponentEngine) { c.tel = tel }
}

// WithLogger overrides the component's structured logger; defaults to
// slog.Default().
func WithLogger(log *slog.Logger) ComponentOption {
	return func(c *ComponentEngine) { c.log = log }
}

// WithParent links this engine as a child of parent, for the cross-
// component stateOutput bridge (spec §4.9 CSO-101/CSO-102).
func WithParent(parent *ComponentEngine) ComponentOption {
	return func(c *ComponentEngine) { c.parent = parent }
}

// NewComponentEngine allocates a ComponentEngine over state, wiring its
// PathManager/Cache/Updater/Renderer/StateProxy and applying opts.
func NewComponentEngine(state any, opts ...ComponentOption) *ComponentEngine {
	c := &ComponentEngine{
		opts:            engineconfig.Default(),
		state:           state,
		pm:              NewPathManager(),
		cache:           NewCache(),
		bindingsByPath:  make(map[string][]BindingNode),
		bindingsByLoop:  make(map[*LoopContext][]BindingNode),
		children:        make(map[string]*ComponentEngine),
		stateOutputKeys: make(map[string]string),
		ready:           make(chan struct{}),
		log:             slog.Default(),
		tel:             telemetry.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.updater = NewUpdater(c.pm, c.cache, c.state, c.renderBatch, c.tel, c.diag, c.log)
	c.proxy = NewStateProxy(c.pm, c.cache, c.state, c.updater, c.navigator, c.opts.RefStackDepth)
	c.proxy.SetComponent(c)
	c.renderer = NewRenderer(c.lookupBindings, c.tel, c.log)
	return c
}

// PathManager returns the component's path registry, for registering
// Getters/Setters/lists before the first render.
func (c *ComponentEngine) PathManager() *PathManager { return c.pm }

// Proxy returns the component's StateProxy.
func (c *ComponentEngine) Proxy() *StateProxy { return c.proxy }

// Updater returns the component's Updater.
func (c *ComponentEngine) Updater() *Updater { return c.updater }

// SetRoot installs the component's top-level BindContent, built by the
// (out-of-scope) template-ingestion layer.
func (c *ComponentEngine) SetRoot(root *BindContent) { c.root = root }

// Root returns the component's top-level BindContent.
func (c *ComponentEngine) Root() *BindContent { return c.root }

// RegisterBinding indexes b under its ref's pattern, so the renderer can
// find every binding a touched pattern affects. It does not index b under
// a loop context; RegisterLoopBinding does that.
func (c *ComponentEngine) RegisterBinding(b BindingNode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pattern := b.Ref().Info.Pattern
	c.bindingsByPath[pattern] = append(c.bindingsByPath[pattern], b)
}

// RegisterLoopBinding additionally indexes b under lc, the loop iteration
// it was cloned into, so RemoveBindContent can find and drop every binding
// owned by a row that leaves the list.
func (c *ComponentEngine) RegisterLoopBinding(lc *LoopContext, b BindingNode) {
	c.RegisterBinding(b)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindingsByLoop[lc] = append(c.bindingsByLoop[lc], b)
}

// RemoveBindContent drops every binding registered under lc (spec §4.2's
// ListIndex being a weak reference: once no live binding references it,
// nothing keeps it reachable).
func (c *ComponentEngine) RemoveBindContent(lc *LoopContext) {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := c.bindingsByLoop[lc]
	delete(c.bindingsByLoop, lc)
	if len(removed) == 0 {
		return
	}
	dead := make(map[BindingNode]struct{}, len(removed))
	for _, b := range removed {
		dead[b] = struct{}{}
	}
	for pattern, list := range c.bindingsByPath {
		kept := list[:0]
		for _, b := range list {
			if _, isDead := dead[b]; !isDead {
				kept = append(kept, b)
			}
		}
		c.bindingsByPath[pattern] = kept
	}
}

func (c *ComponentEngine) lookupBindings(pattern string) []BindingNode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]BindingNode(nil), c.bindingsByPath[pattern]...)
}

// renderBatch is the Updater's RenderFunc: it resolves each binding's
// current value through the proxy (recording dependencies exactly as a
// computed getter would) and applies it.
func (c *ComponentEngine) renderBatch(ctx context.Context, batch RenderBatch) error {
	return c.renderer.Render(ctx, batch, func(ctx context.Context, b BindingNode) (any, error) {
		return c.proxy.GetByRef(ctx, b.Ref())
	})
}

// Connect runs the component's initial render and, once it completes,
// invokes connectedCallback and signals Ready. Spec §4.8's connect
// ordering: the DOM must be fully built before user code can observe it.
func (c *ComponentEngine) Connect(ctx context.Context) error {
	if err := c.updater.InitialRender(ctx); err != nil {
		return err
	}
	if cb := c.pm.connectedCallback; cb != nil {
		if err := cb(c.state); err != nil {
			return err
		}
	}
	c.readyOnce.Do(func() { close(c.ready) })
	return nil
}

// Disconnect invokes disconnectedCallback and drops the component's cache,
// so a reconnected instance starts clean rather than serving stale values.
func (c *ComponentEngine) Disconnect() error {
	var err error
	if cb := c.pm.disconnected; cb != nil {
		err = cb(c.state)
	}
	c.cache.Clear()
	return err
}

// Ready blocks until the component's first Connect has completed, or ctx
// is cancelled first (spec §4.9 "ready resolvers").
func (c *ComponentEngine) Ready(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AddChild registers a child component under id, for the cross-component
// stateOutput bridge.
func (c *ComponentEngine) AddChild(id string, child *ComponentEngine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	child.parent = c
	c.children[id] = child
}

// ExposeStateOutput maps childPath (a path on this component's state) to
// parentPath (a path on the parent's state), allowing a child's $resolve
// of childPath to read/write through to the parent (spec §4.9's
// stateOutput bridge).
func (c *ComponentEngine) ExposeStateOutput(childPath, parentPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stateOutputKeys[childPath] = parentPath
}

// ResolveStateOutput reads childPath through to the parent's state. It
// fails with CSO-101 if childPath has no mapping.
func (c *ComponentEngine) ResolveStateOutput(ctx context.Context, childPath string) (any, error) {
	c.mu.RLock()
	parentPath, ok := c.stateOutputKeys[childPath]
	parent := c.parent
	c.mu.RUnlock()
	if !ok || parent == nil {
		return nil, structiveerr.Raise(structiveerr.ErrCSO101, map[string]any{"path": childPath})
	}
	return parent.proxy.Resolve(ctx, parentPath)
}

// WriteStateOutput writes value through childPath to the parent's state.
// Fails with CSO-101 if unmapped, or CSO-102 if the parent's target is a
// getter-only (read-only) path.
func (c *ComponentEngine) WriteStateOutput(ctx context.Context, childPath string, value any) error {
	c.mu.RLock()
	parentPath, ok := c.stateOutputKeys[childPath]
	parent := c.parent
	c.mu.RUnlock()
	if !ok || parent == nil {
		return structiveerr.Raise(structiveerr.ErrCSO101, map[string]any{"path": childPath})
	}
	if parent.pm.IsOnlyGetter(parentPath) {
		return structiveerr.Raise(structiveerr.ErrCSO102, map[string]any{"path": parentPath})
	}
	resolved, err := resolvePattern(parentPath)
	if err != nil {
		return err
	}
	ref := stateref.Get(resolved, nil)
	return parent.proxy.SetByRef(ctx, ref, value)
}
