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

// Package contract fixes the narrow interfaces the core engine requires
// from collaborators spec.md §1 places out of scope: template ingestion,
// the concrete filter library, per-binding-kind DOM operations, and the SPA
// router. The core depends only on these interfaces, never on a concrete
// implementation.
package contract

import "rivaas.dev/structive/filter"

// Node is the minimal DOM-node surface the binding graph needs: something
// that can be cloned to instantiate a template and located within a parent.
type Node any

// TemplateSource supplies a cloneable template fragment for a given
// integer template id; registered by the (out-of-scope) template-ingestion
// layer.
type TemplateSource interface {
	// Clone returns a fresh instantiation of template id, ready to be
	// scanned for data-bind clauses and comment-marker placeholders.
	Clone(id int) (Node, error)
}

// FilterRegistry resolves named filters into compiled pipelines; the
// engine core depends only on this interface, not on any concrete filter
// set (spec.md §1).
type FilterRegistry interface {
	Compile(clauses []filter.Clause) (*filter.Pipeline, error)
}

// DOMAdapter is the per-binding-kind DOM operation surface (attribute,
// property, event, radio, checkbox, component bindings); spec.md §1 fixes
// only the contract every kind must satisfy, not each kind's body.
type DOMAdapter interface {
	// AssignValue applies filteredValue to node for the given node
	// property name (e.g. "textContent", "attr.title", "value").
	AssignValue(node Node, nodeProp string, filteredValue any) error

	// ReadValue reads the current DOM-side value back, used by two-way
	// (event) bindings before running input filters.
	ReadValue(node Node, nodeProp string) (any, error)
}

// Navigator is the SPA router collaborator behind $navigate.
type Navigator interface {
	Navigate(to string) error
}

// DiagnosticKind classifies a DiagnosticEvent, mirroring
// router/diagnostics.go's event taxonomy.
type DiagnosticKind string

const (
	DiagnosticRenderError   DiagnosticKind = "render_error"
	DiagnosticBindingError  DiagnosticKind = "binding_error"
	DiagnosticAsyncRejected DiagnosticKind = "async_rejected"
)

// DiagnosticEvent is an optional, structured alternative to the engine's
// slog output (SPEC_FULL.md §4 supplement), for host applications that
// want programmatic access to recovered errors instead of parsing logs.
type DiagnosticEvent struct {
	Kind    DiagnosticKind
	Message string
	Fields  map[string]any
}

// DiagnosticHandler receives DiagnosticEvents as they occur.
type DiagnosticHandler func(DiagnosticEvent)
