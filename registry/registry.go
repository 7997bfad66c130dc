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

// Package registry tracks components by the integer id spec.md §4.9 uses
// to address a template/CSS/state-class triple, and the custom-element tag
// that triple is registered under. The triple's contents (actual template
// markup, actual CSS text, actual state constructor) come from the
// out-of-scope template-ingestion layer; this package only owns the
// id -> descriptor bookkeeping and the optional manifest loader that lets a
// host declare that bookkeeping as data instead of code.
package registry

import (
	"log/slog"
	"sync"

	"rivaas.dev/structive/structiveerr"
)

// Descriptor is everything the engine needs to know about a registered
// component before it ever gets instantiated: which template/CSS ids back
// it, and which custom-element tag activates it.
type Descriptor struct {
	ID         int    `yaml:"id" toml:"id" msgpack:"id"`
	Tag        string `yaml:"tag" toml:"tag" msgpack:"tag"`
	TemplateID int    `yaml:"templateId" toml:"template_id" msgpack:"templateId"`
	CSSID      int    `yaml:"cssId" toml:"css_id" msgpack:"cssId"`
	StateType  string `yaml:"stateType" toml:"state_type" msgpack:"stateType"`
}

// Registry maps component ids and custom-element tags to their Descriptor.
// One Registry is typically shared process-wide (spec §4.9: component
// registration is global, component instantiation is per-element).
type Registry struct {
	mu    sync.RWMutex
	byID  map[int]Descriptor
	byTag map[string]int
	log   *slog.Logger
}

// New returns an empty Registry. log defaults to slog.Default() if nil.
func New(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		byID:  make(map[int]Descriptor),
		byTag: make(map[string]int),
		log:   log,
	}
}

// Register adds d. Re-registering an id already in use overwrites the
// previous Descriptor and logs a warning rather than failing (spec §9's
// design note on re-registration), so a host that reloads a manifest at
// runtime doesn't need to track what it already registered.
func (r *Registry) Register(d Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, exists := r.byID[d.ID]; exists {
		r.log.Warn("registry: overwriting component registration", "id", d.ID, "previousTag", prev.Tag, "newTag", d.Tag)
		if prev.Tag != "" && prev.Tag != d.Tag {
			delete(r.byTag, prev.Tag)
		}
	}
	r.byID[d.ID] = d
	if d.Tag != "" {
		r.byTag[d.Tag] = d.ID
	}
	return nil
}

// Lookup returns the Descriptor registered under id.
func (r *Registry) Lookup(id int) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byID[id]
	if !ok {
		return Descriptor{}, structiveerr.Raise(structiveerr.ErrREG502, map[string]any{"id": id})
	}
	return d, nil
}

// LookupByTag returns the Descriptor registered under a custom-element tag.
func (r *Registry) LookupByTag(tag string) (Descriptor, error) {
	r.mu.RLock()
	id, ok := r.byTag[tag]
	r.mu.RUnlock()
	if !ok {
		return Descriptor{}, structiveerr.Raise(structiveerr.ErrREG502, map[string]any{"tag": tag})
	}
	return r.Lookup(id)
}

// LoadAll registers every Descriptor in ds, in order.
func (r *Registry) LoadAll(ds []Descriptor) error {
	for _, d := range ds {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}
