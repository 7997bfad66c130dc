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

// Package engineconfig holds the engine-wide configuration surface that
// spec.md §1 names as an external collaborator ("global configuration")
// without specifying its shape. It follows the teacher's functional-options
// idiom (router/options.go) and its generic typed-get idiom (config/get.go).
package engineconfig

import (
	"dario.cat/mergo"
	"github.com/spf13/cast"
)

// ShadowMode selects how a component attaches its rendered content, mirror-
// ing spec §4.9's auto/open/none Shadow DOM attachment modes.
type ShadowMode string

const (
	ShadowAuto ShadowMode = "auto"
	ShadowOpen ShadowMode = "open"
	ShadowNone ShadowMode = "none"
)

// Options is the engine-wide configuration consumed by component setup.
type Options struct {
	// RefStackDepth bounds the proxy handler's refStack (spec §4.5);
	// default 32.
	RefStackDepth int

	// DefaultShadowMode is used when a component doesn't declare its own.
	DefaultShadowMode ShadowMode

	// QueueCapacity is a capacity hint for an update queue; never a
	// correctness bound. The engine's Updater does not read it.
	QueueCapacity int

	// extra holds loosely-typed overrides set with WithExtra and read back
	// via Get/GetOr.
	extra map[string]any
}

// Default returns the engine's baseline configuration.
func Default() *Options {
	return &Options{
		RefStackDepth:     32,
		DefaultShadowMode: ShadowAuto,
		QueueCapacity:     64,
		extra:             make(map[string]any),
	}
}

// Option mutates an Options value being built.
type Option func(*Options)

// WithRefStackDepth overrides the proxy handler's refStack bound.
func WithRefStackDepth(n int) Option {
	return func(o *Options) { o.RefStackDepth = n }
}

// WithDefaultShadowMode overrides the default Shadow DOM attachment mode.
func WithDefaultShadowMode(m ShadowMode) Option {
	return func(o *Options) { o.DefaultShadowMode = m }
}

// WithQueueCapacity overrides the QueueCapacity hint.
func WithQueueCapacity(n int) Option {
	return func(o *Options) { o.QueueCapacity = n }
}

// WithExtra stashes an arbitrary named override, retrievable with Get/GetOr.
func WithExtra(key string, value any) Option {
	return func(o *Options) {
		if o.extra == nil {
			o.extra = make(map[string]any)
		}
		o.extra[key] = value
	}
}

// New builds Options from Default() plus opts applied in order.
func New(opts ...Option) *Options {
	o := Default()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Merge layers override on top of base, base's fields winning only where
// override leaves them at the zero value, using dario.cat/mergo the same
// way config/config.go layers its sources.
func Merge(base, override *Options) (*Options, error) {
	merged := *base
	if override.extra != nil {
		merged.extra = make(map[string]any, len(base.extra)+len(override.extra))
		for k, v := range base.extra {
			merged.extra[k] = v
		}
		for k, v := range override.extra {
			merged.extra[k] = v
		}
	}
	if err := mergo.Merge(&merged, override, mergo.WithOverride); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Get returns extra[key] coerced to T via the cast library, or T's zero
// value when absent or unconvertible, mirroring config.Get[T].
func Get[T any](o *Options, key string) T {
	var zero T
	v, ok := o.extra[key]
	if !ok {
		return zero
	}
	return coerce[T](v, zero)
}

// GetOr is Get with an explicit fallback instead of T's zero value.
func GetOr[T any](o *Options, key string, fallback T) T {
	v, ok := o.extra[key]
	if !ok {
		return fallback
	}
	return coerce[T](v, fallback)
}

func coerce[T any](v any, fallback T) T {
	if t, ok := v.(T); ok {
		return t
	}
	switch any(fallback).(type) {
	case string:
		if s, err := cast.ToStringE(v); err == nil {
			if t, ok := any(s).(T); ok {
				return t
			}
		}
	case int:
		if n, err := cast.ToIntE(v); err == nil {
			if t, ok := any(n).(T); ok {
				return t
			}
		}
	case bool:
		if b, err := cast.ToBoolE(v); err == nil {
			if t, ok := any(b).(T); ok {
				return t
			}
		}
	}
	return fallback
}
