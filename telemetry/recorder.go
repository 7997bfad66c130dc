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

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RenderSpan wraps the OpenTelemetry span for one render batch plus the
// counters the updater/renderer report into as phases run. ctx always
// holds the caller's context, with a span attached only when telemetry is
// enabled, so Context() never silently substitutes context.Background()
// for a real caller context.
type RenderSpan struct {
	cfg  *Config
	ctx  context.Context
	span trace.Span
}

// StartRender opens a span for one Updater render batch. When telemetry is
// disabled the returned RenderSpan's methods are all no-ops, but Context()
// still returns ctx unchanged.
func (c *Config) StartRender(ctx context.Context, version, revision int64) *RenderSpan {
	if !c.Enabled() {
		return &RenderSpan{cfg: c, ctx: ctx}
	}
	ctx, span := c.tracer.Start(ctx, "structive.render",
		trace.WithAttributes(
			attribute.Int64("structive.version", version),
			attribute.Int64("structive.revision", revision),
		),
	)
	c.renders.Add(ctx, 1)
	return &RenderSpan{cfg: c, ctx: ctx, span: span}
}

// Phase opens a child span for one of build/apply/applySelect; callers must
// call End on the returned span.
func (r *RenderSpan) Phase(name string) *RenderSpan {
	if !r.cfg.Enabled() {
		return r
	}
	ctx, span := r.cfg.tracer.Start(r.ctx, "structive.render.phase",
		trace.WithAttributes(attribute.String("structive.phase", name)),
	)
	return &RenderSpan{cfg: r.cfg, ctx: ctx, span: span}
}

// RecordBinding increments the bindings-applied counter by n.
func (r *RenderSpan) RecordBinding(n int64) {
	if !r.cfg.Enabled() {
		return
	}
	r.cfg.bindingsApplied.Add(r.ctx, n)
}

// RecordCacheHitRatio records the fraction of getByRef calls this batch
// served from cache.
func (r *RenderSpan) RecordCacheHitRatio(ratio float64) {
	if !r.cfg.Enabled() {
		return
	}
	r.cfg.cacheHitRatio.Record(r.ctx, ratio)
}

// RecordQueueDepth records the updater queue depth observed at enqueue
// time.
func (c *Config) RecordQueueDepth(ctx context.Context, depth int64) {
	if !c.Enabled() {
		return
	}
	c.queueDepth.Record(ctx, depth)
}

// End closes the span, recording err if non-nil.
func (r *RenderSpan) End(err error) {
	if !r.cfg.Enabled() || r.span == nil {
		return
	}
	if err != nil {
		r.span.RecordError(err)
	}
	r.span.End()
}

// Context returns the context callers should propagate: the span-bearing
// context when telemetry is enabled, or the original caller context
// unchanged when it is not.
func (r *RenderSpan) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}
