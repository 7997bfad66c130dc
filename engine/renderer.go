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

	"rivaas.dev/structive/telemetry"
)

// RenderPhase identifies one of the renderer's three passes (spec §4.7).
type RenderPhase string

const (
	// PhaseBuild creates/destroys structural DOM (for/if bindings) so the
	// element tree matches the new data shape before any value is applied.
	PhaseBuild RenderPhase = "build"
	// PhaseApply assigns values to already-built DOM.
	PhaseApply RenderPhase = "apply"
	// PhaseApplySelect runs after PhaseApply so <select> bindings see
	// their sibling <option> bindings already applied.
	PhaseApplySelect RenderPhase = "applySelect"
)

// BindingResolver supplies the current value for a ref, mediating through
// whatever caches/dependency-tracking the state layer needs (normally
// StateProxy.GetByRef).
type BindingResolver func(ctx context.Context) (any, error)

// BindingLookup finds every binding that depends on pattern. A component
// engine keeps this index up to date as bindings are scanned out of
// templates; the renderer only reads it.
type BindingLookup func(pattern string) []BindingNode

// Renderer executes one RenderBatch: it asks a BindingLookup which
// Bindings are reachable from each touched pattern and runs each at most
// once, in build -> apply -> applySelect order (spec §4.7).
type Renderer struct {
	lookup BindingLookup
	tel    *telemetry.Config
	log    *slog.Logger
}

// NewRenderer builds a Renderer over lookup. tel/log may be nil.
func NewRenderer(lookup BindingLookup, tel *telemetry.Config, log *slog.Logger) *Renderer {
	if tel == nil {
		tel = telemetry.Noop()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Renderer{lookup: lookup, tel: tel, log: log}
}

// Render resolves each touched binding's value via resolve and applies it,
// phased build/apply/applySelect, deduplicating bindings reached through
// more than one touched pattern in the same batch so each one runs exactly
// once per tick (spec §4.7's updatedBindings set).
func (r *Renderer) Render(ctx context.Context, batch RenderBatch, resolve func(ctx context.Context, ref BindingNode) (any, error)) error {
	touched := r.collect(batch.Patterns)

	build, apply, applySelect := partitionByPhase(touched)

	span := r.tel.StartRender(ctx, batch.Version, batch.Revision)
	defer span.End(nil)

	if err := r.runPhase(span, PhaseBuild, build, resolve); err != nil {
		return err
	}
	if err := r.runPhase(span, PhaseApply, apply, resolve); err != nil {
		return err
	}
	if err := r.runPhase(span, PhaseApplySelect, applySelect, resolve); err != nil {
		return err
	}
	return nil
}

// collect gathers every binding reachable from any touched pattern,
// deduplicated by identity so a binding that depends on two touched
// patterns in the same batch (e.g. both a source path and one of its
// dynamic dependents) still runs once.
func (r *Renderer) collect(patterns map[string]struct{}) []BindingNode {
	seen := make(map[BindingNode]struct{})
	var out []BindingNode
	for pattern := range patterns {
		for _, b := range r.lookup(pattern) {
			if _, ok := seen[b]; ok {
				continue
			}
			seen[b] = struct{}{}
			out = append(out, b)
		}
	}
	return out
}

func partitionByPhase(bindings []BindingNode) (build, apply, applySelect []BindingNode) {
	for _, b := range bindings {
		switch {
		case b.Buildable():
			build = append(build, b)
		case b.IsSelectElement():
			applySelect = append(applySelect, b)
		default:
			apply = append(apply, b)
		}
	}
	return build, apply, applySelect
}

func (r *Renderer) runPhase(parent *telemetry.RenderSpan, phase RenderPhase, bindings []BindingNode, resolve func(ctx context.Context, ref BindingNode) (any, error)) error {
	if len(bindings) == 0 {
		return nil
	}
	span := parent.Phase(string(phase))
	defer span.End(nil)
	ctx := span.Context()

	var hitCount int
	for _, b := range bindings {
		value, err := resolve(ctx, b)
		if err != nil {
			r.log.Error("structive: binding resolve failed", "phase", phase, "error", err)
			return err
		}
		if err := b.Apply(ctx, value); err != nil {
			r.log.Error("structive: binding apply failed", "phase", phase, "error", err)
			return err
		}
		hitCount++
	}
	span.RecordBinding(int64(hitCount))
	return nil
}
