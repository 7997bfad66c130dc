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

// Package path interns dotted/wildcard state-property patterns into
// canonical StructuredPathInfo values.
//
// A pattern is a dot-separated sequence of segments where each segment is
// either a name ("user", "name") or a wildcard ("*"). Two calls to
// Get with the same pattern string always return the identical
// *StructuredPathInfo value, so callers may compare infos by pointer.
package path
