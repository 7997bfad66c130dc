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

// Package telemetry provides optional OpenTelemetry tracing and metrics
// instrumentation for the updater/renderer, following the same
// provider-selectable, EventHandler-reporting shape as the teacher's
// standalone tracing and metrics packages. Disabled by default: the engine
// holds a *Config that is Noop() unless a caller supplies an enabled one,
// and reports through the RenderSpan methods in recorder.go.
package telemetry

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
)

// EventType classifies an internal operational event raised by this
// package itself (as opposed to by the engine it instruments).
type EventType int

const (
	EventError EventType = iota
	EventWarning
	EventInfo
	EventDebug
)

// Event is an internal operational event from the telemetry package.
type Event struct {
	Type    EventType
	Message string
	Args    []any
}

// EventHandler processes internal operational events.
type EventHandler func(Event)

// DefaultEventHandler logs events to logger, or discards them if logger is
// nil.
func DefaultEventHandler(logger *slog.Logger) EventHandler {
	if logger == nil {
		return func(Event) {}
	}
	return func(e Event) {
		switch e.Type {
		case EventError:
			logger.Error(e.Message, e.Args...)
		case EventWarning:
			logger.Warn(e.Message, e.Args...)
		case EventDebug:
			logger.Debug(e.Message, e.Args...)
		default:
			logger.Info(e.Message, e.Args...)
		}
	}
}

// Config holds the resolved tracing/metrics wiring for one engine instance.
type Config struct {
	enabled      bool
	serviceName  string
	tracer       trace.Tracer
	meter        metric.Meter
	eventHandler EventHandler

	// provider/sdkRequested/meterProvider/promRegistry are only populated
	// when WithProvider was passed to New: by default Config reports into
	// whatever global otel MeterProvider the host process configured (or
	// none), matching the teacher's "off unless explicitly wired" default.
	provider      Provider
	sdkRequested  bool
	meterProvider *sdkmetric.MeterProvider
	promRegistry  *prometheus.Registry

	renders         metric.Int64Counter
	bindingsApplied metric.Int64Counter
	queueDepth      metric.Int64Gauge
	cacheHitRatio   metric.Float64Histogram
}

// Option configures a Config.
type Option func(*Config)

// WithServiceName sets the resource service.name attribute used on spans.
func WithServiceName(name string) Option {
	return func(c *Config) { c.serviceName = name }
}

// WithTracer overrides the otel.Tracer used for render-batch spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Config) { c.tracer = tracer }
}

// WithMeter overrides the otel.Meter used for render metrics.
func WithMeter(meter metric.Meter) Option {
	return func(c *Config) { c.meter = meter }
}

// WithEventHandler overrides how this package reports its own internal
// instrumentation failures (e.g. a metric instrument that failed to
// register).
func WithEventHandler(handler EventHandler) Option {
	return func(c *Config) { c.eventHandler = handler }
}

// New builds an enabled Config, registering the engine's standard
// instruments (renders, bindings-applied, queue depth, cache hit ratio).
func New(opts ...Option) (*Config, error) {
	c := &Config{
		enabled:      true,
		serviceName:  "structive-engine",
		tracer:       otel.Tracer("rivaas.dev/structive"),
		meter:        otel.Meter("rivaas.dev/structive"),
		eventHandler: DefaultEventHandler(slog.Default()),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.sdkRequested {
		mp, bridge, err := buildSDKMeterProvider(c.serviceName, c.provider)
		if err != nil {
			c.report(EventError, "failed to build sdk meter provider", "error", err)
			return c, err
		}
		c.meterProvider = mp
		c.meter = mp.Meter("rivaas.dev/structive")
		if bridge != nil {
			registry := prometheus.NewRegistry()
			registry.MustRegister(bridge)
			c.promRegistry = registry
		}
	}

	var err error
	c.renders, err = c.meter.Int64Counter(
		"structive.render.batches",
		metric.WithDescription("number of render batches drained by the updater"),
	)
	if err != nil {
		c.report(EventError, "failed to create render counter", "error", err)
		return c, err
	}
	c.bindingsApplied, err = c.meter.Int64Counter(
		"structive.render.bindings_applied",
		metric.WithDescription("number of bindings whose applyChange ran"),
	)
	if err != nil {
		c.report(EventError, "failed to create bindings counter", "error", err)
		return c, err
	}
	c.queueDepth, err = c.meter.Int64Gauge(
		"structive.updater.queue_depth",
		metric.WithDescription("pending refs in the updater queue at enqueue time"),
	)
	if err != nil {
		c.report(EventError, "failed to create queue depth gauge", "error", err)
		return c, err
	}
	c.cacheHitRatio, err = c.meter.Float64Histogram(
		"structive.cache.hit_ratio",
		metric.WithDescription("fraction of getByRef calls served from cache per render batch"),
	)
	if err != nil {
		c.report(EventError, "failed to create cache hit ratio histogram", "error", err)
		return c, err
	}
	return c, nil
}

// Noop returns a disabled Config whose methods are all no-ops, used as the
// engine's default so telemetry is opt-in.
func Noop() *Config {
	return &Config{enabled: false}
}

func (c *Config) report(t EventType, msg string, args ...any) {
	if c.eventHandler != nil {
		c.eventHandler(Event{Type: t, Message: msg, Args: args})
	}
}

// Enabled reports whether this Config records anything.
func (c *Config) Enabled() bool { return c != nil && c.enabled }
