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

// Package engine is the reactive core: it turns a declarative binding graph
// plus a plain Go state value into a live, incrementally-updated view.
// Writes to state paths propagate through a dependency graph built by
// PathManager to the specific Bindings that depend on them; list mutations
// reconcile per-element ListIndex identity; nested loops expose their
// indices to inner bindings via $1..$9.
//
// # Layering
//
//   - PathManager owns one component's declared paths (getters, setters,
//     lists, dynamic dependencies).
//   - StateProxy mediates every read and write against a component's state,
//     recording dependencies and resolving wildcards against the ambient
//     loop context.
//   - Updater batches writes into versioned render passes on a microtask-
//     equivalent scheduler.
//   - Renderer executes one batch: it asks a BindingLookup (normally the
//     ComponentEngine's per-pattern binding index) which Bindings are
//     affected and runs them through build/apply/applySelect phases.
//   - The binding graph (BindContent/Binding/BindingNode/BindingState)
//     associates template nodes with state refs and DOM operations.
//   - ComponentEngine owns one component instance: its state, proxy, path
//     manager, and binding set, plus parent/child wiring.
//
// Per spec §9's design note, Go has no language-level Proxy, so StateProxy
// is a typed wrapper whose Get/Set methods call GetByRef/SetByRef directly;
// user state is described by a schema of registered Getter/Setter
// functions (see state.go), falling back to reflection-based structural
// field/map/slice access for plain data that declares no explicit
// accessor - the Go analogue of transparent JS property access.
package engine
