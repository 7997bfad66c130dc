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

package filter

import (
	"strings"

	"github.com/spf13/cast"
)

// Default returns a Registry preloaded with a handful of filters used by
// the engine's own example templates and tests. Host applications register
// their own, richer filter library over (or instead of) this one; the
// engine core only depends on the Registry/Pipeline contract above.
func Default() *Registry {
	r := NewRegistry()

	// defaults,value replaces an empty string with value.
	r.Register("defaults", func(options []string) Func {
		fallback := ""
		if len(options) > 0 {
			fallback = options[0]
		}
		return func(value any) any {
			if cast.ToString(value) == "" {
				return fallback
			}
			return value
		}
	})

	// uc upper-cases a string value.
	r.Register("uc", func(options []string) Func {
		return func(value any) any {
			return strings.ToUpper(cast.ToString(value))
		}
	})

	// lc lower-cases a string value.
	r.Register("lc", func(options []string) Func {
		return func(value any) any {
			return strings.ToLower(cast.ToString(value))
		}
	})

	// trim strips leading/trailing whitespace.
	r.Register("trim", func(options []string) Func {
		return func(value any) any {
			return strings.TrimSpace(cast.ToString(value))
		}
	})

	// round converts a value to an int using cast's permissive numeric
	// coercion (handles strings, floats, json.Number, ...).
	r.Register("round", func(options []string) Func {
		return func(value any) any {
			return cast.ToInt(value)
		}
	})

	return r
}
