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
	"runtime"
	"sync"

	"rivaas.dev/structive/contract"
	"rivaas.dev/structive/stateref"
	"rivaas.dev/structive/structiveerr"
	"rivaas.dev/structive/telemetry"
)

// RenderBatch describes one coalesced render pass: every pattern touched
// since the previous pass, and the concrete refs that were actually
// written (as opposed to merely reached through the dependency closure).
type RenderBatch struct {
	Version     int64
	Revision    int64
	Patterns    map[string]struct{}
	WrittenRefs []*stateref.Ref
}

// RenderFunc executes one RenderBatch against the live binding graph.
type RenderFunc func(ctx context.Context, batch RenderBatch) error

// Updater coalesces writes into versioned render batches on a microtask-
// equivalent scheduler: Go has no microtask queue, so a batch is flushed by
// a dedicated goroutine that yields once (runtime.Gosched) to let every
// synchronous write already in flight land in the same batch before the
// render actually runs. Grounded on logging/batch.go's accumulate-then-
// flush shape, traded from a ticker for a yield-once drain since renders
// must not wait on a fixed interval.
type Updater struct {
	mu sync.Mutex

	pm    *PathManager
	cache *Cache
	tel   *telemetry.Config
	diag  contract.DiagnosticHandler
	log   *slog.Logger

	render RenderFunc
	state  any

	scheduled bool
	pending   map[string]struct{}
	written   []*stateref.Ref

	version  int64
	revision int64
}

// NewUpdater wires an Updater to the PathManager/Cache it stamps and the
// RenderFunc it drives. tel and diag may be nil (telemetry.Noop is used and
// diagnostics are dropped).
func NewUpdater(pm *PathManager, cache *Cache, state any, render RenderFunc, tel *telemetry.Config, diag contract.DiagnosticHandler, log *slog.Logger) *Updater {
	if tel == nil {
		tel = telemetry.Noop()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Updater{
		pm:      pm,
		cache:   cache,
		tel:     tel,
		diag:    diag,
		log:     log,
		render:  render,
		state:   state,
		pending: make(map[string]struct{}),
	}
}

// Version is the number of render batches started so far; a batch is
// counted as soon as flush takes it, before its render runs.
func (u *Updater) Version() int64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.version
}

// EnqueueRef stamps ref's pattern and every pattern in its dependency
// closure as dirty for the next batch, then schedules a flush if one isn't
// already pending (spec §4.6 enqueueRef).
func (u *Updater) EnqueueRef(ref *stateref.Ref) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.enqueueRefLocked(ref)
	u.scheduleLocked()
}

func (u *Updater) enqueueRefLocked(ref *stateref.Ref) {
	u.revision++
	for _, pattern := range u.pm.dependencyClosure(ref.Info.Pattern) {
		u.pending[pattern] = struct{}{}
		u.cache.Bump(pattern, u.version+1, u.revision)
	}
	u.written = append(u.written, ref)
}

func (u *Updater) scheduleLocked() {
	if u.scheduled {
		return
	}
	u.scheduled = true
	go u.drain()
}

// drain yields once so every write already queued this tick joins the same
// batch, then performs the render pass.
func (u *Updater) drain() {
	runtime.Gosched()
	u.flush(context.Background())
}

// Flush forces an immediate, synchronous render of whatever is pending,
// bypassing the scheduling goroutine. Used by $invoke/connectedCallback
// paths that must await the render they triggered before returning (spec
// §4.5 $invoke, §4.8 connectedCallback ordering).
func (u *Updater) Flush(ctx context.Context) error {
	return u.flush(ctx)
}

func (u *Updater) flush(ctx context.Context) error {
	u.mu.Lock()
	if len(u.pending) == 0 {
		u.scheduled = false
		u.mu.Unlock()
		return nil
	}
	u.version++
	batch := RenderBatch{
		Version:     u.version,
		Revision:    u.revision,
		Patterns:    u.pending,
		WrittenRefs: u.written,
	}
	u.pending = make(map[string]struct{})
	u.written = nil
	u.scheduled = false
	u.mu.Unlock()

	err := u.render(ctx, batch)
	if err != nil {
		u.reportRenderError(err)
	}
	if cbErr := u.runUpdatedCallback(batch.WrittenRefs); cbErr != nil && err == nil {
		err = cbErr
	}
	return err
}

func (u *Updater) runUpdatedCallback(refs []*stateref.Ref) error {
	if !u.pm.HasUpdatedCallback() || u.pm.updatedCallback == nil || len(refs) == 0 {
		return nil
	}
	if err := u.pm.updatedCallback(u.state, refs); err != nil {
		wrapped := structiveerr.Raise(structiveerr.ErrUPD005, map[string]any{"refCount": len(refs)})
		wrapped = wrapped.WithCause(err)
		u.report(contract.DiagnosticAsyncRejected, wrapped)
		return wrapped
	}
	return nil
}

func (u *Updater) reportRenderError(err error) {
	u.report(contract.DiagnosticRenderError, err)
}

func (u *Updater) report(kind contract.DiagnosticKind, err error) {
	u.log.Error("structive: "+string(kind), "error", err)
	if u.diag != nil {
		u.diag(contract.DiagnosticEvent{
			Kind:    kind,
			Message: err.Error(),
			Fields:  map[string]any{"error": err},
		})
	}
}

// InitialRender runs the component's first render pass: every statically
// registered path is marked dirty so the whole binding graph builds once,
// synchronously, before the component is considered connected (spec §4.8).
func (u *Updater) InitialRender(ctx context.Context) error {
	u.mu.Lock()
	u.pm.mu.RLock()
	for pattern := range u.pm.nodes {
		u.pending[pattern] = struct{}{}
	}
	u.pm.mu.RUnlock()
	u.revision++
	u.mu.Unlock()
	return u.Flush(ctx)
}

// Invoke runs fn (the body of a user $invoke call) then synchronously
// flushes whatever it enqueued, so the caller observes a fully rendered
// DOM once Invoke returns - mirroring the async/await contract $invoke
// exposes in JS.
func (u *Updater) Invoke(ctx context.Context, fn func() error) error {
	if err := fn(); err != nil {
		return err
	}
	return u.Flush(ctx)
}
