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

// Package filter implements the value -> value filter pipeline contract
// consumed by binding states. The concrete filter set (eq, trim, locale,
// ...) is out of scope for this module (spec.md §1); only the contract
// and a small built-in set used by the engine's own tests live here.
package filter

import (
	"sync"

	"rivaas.dev/structive/structiveerr"
)

// Func is a single compiled filter: a pure value -> value transform
// produced from a filter's option list.
type Func func(value any) any

// Factory builds a Func from the filter's options, parsed from the binding
// text's ",option" suffixes.
type Factory func(options []string) Func

// Registry maps filter names to factories. The zero value is usable and
// starts empty; Use Default for the engine's built-in filters.
//
// Each Registry owns its own compiled-pipeline cache (see cache below), so
// two Registry instances that define the same filter name differently never
// collide on the same cache entry.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory

	cacheMu sync.Mutex
	cache   map[string]*Pipeline
}

// NewRegistry returns an empty, ready-to-use Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory), cache: make(map[string]*Pipeline)}
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.factories == nil {
		r.factories = make(map[string]Factory)
	}
	r.factories[name] = f
}

// Clause is one parsed "name,option,option" filter-text entry.
type Clause struct {
	Name    string
	Options []string
}

// Pipeline is an ordered, compiled sequence of filter functions.
type Pipeline struct {
	funcs []Func
}

// Apply runs value through every compiled filter in order.
func (p *Pipeline) Apply(value any) any {
	for _, f := range p.funcs {
		value = f(value)
	}
	return value
}

// Len reports how many filters are in the pipeline.
func (p *Pipeline) Len() int { return len(p.funcs) }

// Compile builds (or reuses a cached) Pipeline for clauses, resolving each
// clause's factory from r and memoizing the result on r's own cache keyed by
// a signature derived from the parsed clause list (spec §4.4: "compiled
// once, cached"). The cache lives on the Registry rather than process-wide
// so two registries that bind the same filter name to different factories
// never share a compiled Pipeline. Binding construction parses the filter
// text exactly once per binding and reuses the resulting []Clause for the
// binding's lifetime, so in practice each signature is compiled a single
// time per registry. Unknown filter names raise FLT-201.
func (r *Registry) Compile(clauses []Clause) (*Pipeline, error) {
	key := cacheSignature(clauses)
	r.cacheMu.Lock()
	if r.cache == nil {
		r.cache = make(map[string]*Pipeline)
	}
	if p, ok := r.cache[key]; ok {
		r.cacheMu.Unlock()
		return p, nil
	}
	r.cacheMu.Unlock()

	funcs := make([]Func, 0, len(clauses))
	r.mu.RLock()
	for _, c := range clauses {
		factory, ok := r.factories[c.Name]
		if !ok {
			r.mu.RUnlock()
			return nil, structiveerr.Raise(structiveerr.ErrFLT201, map[string]any{"filter": c.Name})
		}
		funcs = append(funcs, factory(c.Options))
	}
	r.mu.RUnlock()

	p := &Pipeline{funcs: funcs}
	r.cacheMu.Lock()
	r.cache[key] = p
	r.cacheMu.Unlock()
	return p, nil
}

func cacheSignature(clauses []Clause) string {
	sig := ""
	for _, c := range clauses {
		sig += c.Name + "("
		for _, o := range c.Options {
			sig += o + ","
		}
		sig += ");"
	}
	return sig
}
