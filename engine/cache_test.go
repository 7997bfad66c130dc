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
	"testing"

	"github.com/stretchr/testify/assert"

	"rivaas.dev/structive/path"
	"rivaas.dev/structive/stateref"
)

func TestCacheHitAfterSetUntilBump(t *testing.T) {
	c := NewCache()
	info := path.Get("user.name")
	ref := stateref.Get(info, nil)

	_, ok := c.Get(ref)
	assert.False(t, ok)

	c.Set(ref, "Alice")
	value, ok := c.Get(ref)
	assert.True(t, ok)
	assert.Equal(t, "Alice", value)

	c.Bump("user.name", 1, 1)
	_, ok = c.Get(ref)
	assert.False(t, ok, "entry computed before the bump must be treated as stale")
}

func TestCacheSetAfterBumpIsFresh(t *testing.T) {
	c := NewCache()
	info := path.Get("user.age")
	ref := stateref.Get(info, nil)

	c.Bump("user.age", 2, 0)
	c.Set(ref, 30)

	value, ok := c.Get(ref)
	assert.True(t, ok)
	assert.Equal(t, 30, value)
}

func TestCacheClearDropsEntriesKeepsVersionBookkeeping(t *testing.T) {
	c := NewCache()
	info := path.Get("user.email")
	ref := stateref.Get(info, nil)
	c.Set(ref, "a@example.com")

	c.Clear()
	_, ok := c.Get(ref)
	assert.False(t, ok)

	v, r := c.VersionRevision("user.email")
	assert.Equal(t, int64(0), v)
	assert.Equal(t, int64(0), r)
}
