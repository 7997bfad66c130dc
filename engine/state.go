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
	"rivaas.dev/structive/stateref"
)

// Getter computes the value for ref against the component's raw state
// value. When the pattern has no Setter, reads of a different pattern made
// through the StateProxy while it is computed are recorded as dynamic
// dependencies automatically (see proxy.go's GetByRef).
type Getter func(state any, ref *stateref.Ref) (any, error)

// Setter writes value for ref into the component's raw state value.
type Setter func(state any, ref *stateref.Ref, value any) error

// UpdatedCallback is invoked after a render completes, once per batch,
// with every ref that was saved during that batch (spec §4.6 "$updatedCallback").
type UpdatedCallback func(state any, refs []*stateref.Ref) error

// ConnectedCallback / DisconnectedCallback are optional component lifecycle
// hooks (spec §6 "state class surface").
type ConnectedCallback func(state any) error
type DisconnectedCallback func(state any) error
