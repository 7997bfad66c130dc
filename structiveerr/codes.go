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

package structiveerr

// Sentinel errors, one per taxonomy entry in spec.md §4.10/§7. Call-site
// context (the offending path, component id, ...) is attached with
// Raise(sentinel, ctx) rather than by constructing a new Error, so that
// errors.Is(err, SomeSentinel) keeps working after WithContext.
var (
	// State proxy / access.
	ErrSTC001 = New("STC-001", "property missing on state and no getter is registered")
	ErrSTC002 = New("STC-002", "read attempted with an empty proxy ref stack")
	ErrSTATE202 = New("STATE-202", "attempted write to a read-only state property")
	ErrSTATE203 = New("STATE-203", "$invoke called with a non-function value")
	ErrSTATE204 = New("STATE-204", "async $invoke/$updatedCallback rejected").WithSeverity(SeverityError)
	ErrSTATE301 = New("STATE-301", "loop context entered twice for the same binding")

	// List index.
	ErrLIST201 = New("LIST-201", "$1..$9 index accessor has no enclosing loop at that depth")

	// Binding graph.
	ErrBIND201 = New("BIND-201", "LoopContext is null: wildcard pattern has no enclosing loop context")
	ErrBIND202 = New("BIND-202", "$N index accessor name is not numeric")
	ErrBIND301 = New("BIND-301", "binding contract method not implemented for this binding kind")

	// Filter.
	ErrFLT201 = New("FLT-201", "unknown filter name")

	// Updater.
	ErrUPD003 = New("UPD-003", "path node missing during dependency-closure walk")
	ErrUPD004 = New("UPD-004", "dynamic dependency target path is not registered")
	ErrUPD005 = New("UPD-005", "$updatedCallback rejected asynchronously").WithSeverity(SeverityError)

	// Component bridge.
	ErrCSO101 = New("CSO-101", "cross-component path has no mapping in the parent's stateOutput")
	ErrCSO102 = New("CSO-102", "cross-component write rejected: path is read-only across the bridge")
	ErrCOMP401 = New("COMP-401", "ambiguous custom element tag for component binding")
	ErrCOMP402 = New("COMP-402", "custom element not yet defined when NotifyRedraw fired").WithSeverity(SeverityWarn)

	// Component registry.
	ErrREG502 = New("REG-502", "unknown component id")
	ErrREG503 = New("REG-503", "unsupported manifest format")
)
