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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/structive/path"
	"rivaas.dev/structive/stateref"
	"rivaas.dev/structive/structiveerr"
)

type person struct {
	First string
	Last  string
}

func newTestProxy(t *testing.T, state any) (*StateProxy, *PathManager) {
	t.Helper()
	pm := NewPathManager()
	cache := NewCache()
	u := NewUpdater(pm, cache, state, func(ctx context.Context, batch RenderBatch) error { return nil }, nil, nil, nil)
	sp := NewStateProxy(pm, cache, state, u, nil, 0)
	return sp, pm
}

func TestGetByRefStructuralFallback(t *testing.T) {
	sp, pm := newTestProxy(t, &person{First: "Ada", Last: "Lovelace"})
	pm.AddPath("first", false)

	ref := stateref.Get(path.Get("first"), nil)
	value, err := sp.GetByRef(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, "Ada", value)
}

func TestGetByRefMissingPropertyRaisesSTC001(t *testing.T) {
	sp, pm := newTestProxy(t, &person{})
	pm.AddPath("missing.thing", false)

	ref := stateref.Get(path.Get("missing.thing"), nil)
	_, err := sp.GetByRef(context.Background(), ref)
	require.Error(t, err)
	assert.ErrorIs(t, err, structiveerr.ErrSTC001)
}

func TestGetByRefCachesUntilWrite(t *testing.T) {
	calls := 0
	pm := NewPathManager()
	cache := NewCache()
	state := &person{First: "Ada"}
	u := NewUpdater(pm, cache, state, func(ctx context.Context, batch RenderBatch) error { return nil }, nil, nil, nil)
	pm.AddGetter("fullName", func(s any, ref *stateref.Ref) (any, error) {
		calls++
		return s.(*person).First, nil
	})
	sp := NewStateProxy(pm, cache, state, u, nil, 0)

	ref := stateref.Get(path.Get("fullName"), nil)
	_, err := sp.GetByRef(context.Background(), ref)
	require.NoError(t, err)
	_, err = sp.GetByRef(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second read within the same version/revision must hit cache")
}

func TestSetByRefRejectsWriteToOnlyGetter(t *testing.T) {
	sp, pm := newTestProxy(t, &person{})
	pm.AddGetter("fullName", func(s any, ref *stateref.Ref) (any, error) { return "x", nil })

	ref := stateref.Get(path.Get("fullName"), nil)
	err := sp.SetByRef(context.Background(), ref, "y")
	require.Error(t, err)
	assert.ErrorIs(t, err, structiveerr.ErrSTATE202)
}

func TestSetByRefStructuralFallbackEnqueuesRender(t *testing.T) {
	state := &person{First: "Ada"}
	pm := NewPathManager()
	cache := NewCache()
	rendered := make(chan RenderBatch, 1)
	u := NewUpdater(pm, cache, state, func(ctx context.Context, batch RenderBatch) error {
		rendered <- batch
		return nil
	}, nil, nil, nil)
	sp := NewStateProxy(pm, cache, state, u, nil, 0)
	pm.AddPath("first", false)

	ref := stateref.Get(path.Get("first"), nil)
	require.NoError(t, sp.SetByRef(context.Background(), ref, "Grace"))
	assert.Equal(t, "Grace", state.First)

	batch := <-rendered
	assert.Contains(t, batch.Patterns, "first")
}

func TestGetAllReturnsBackingSlice(t *testing.T) {
	type withItems struct{ Items []string }
	state := &withItems{Items: []string{"a", "b", "c"}}
	sp, pm := newTestProxy(t, state)
	pm.AddPath("items", true)

	all, err := sp.GetAll(context.Background(), "items")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c"}, all)
}

func TestGetAllEnumeratesWildcardPath(t *testing.T) {
	type row struct{ Name string }
	type withRows struct{ Items []row }
	state := &withRows{Items: []row{{Name: "a"}, {Name: "b"}, {Name: "c"}}}
	sp, pm := newTestProxy(t, state)
	pm.AddPath("items", true)
	pm.AddPath("items.*.name", false)

	all, err := sp.GetAll(context.Background(), "items.*.name")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c"}, all)
}

func TestGetAllWithResolvedPrefixEnumeratesNestedWildcard(t *testing.T) {
	type row struct{ Name string }
	type group struct{ Items []row }
	type withGroups struct{ Groups []group }
	state := &withGroups{Groups: []group{
		{Items: []row{{Name: "a"}, {Name: "b"}}},
		{Items: []row{{Name: "x"}}},
	}}
	sp, pm := newTestProxy(t, state)
	pm.AddPath("groups", true)
	pm.AddPath("groups.*.items", true)
	pm.AddPath("groups.*.items.*.name", false)

	all, err := sp.GetAll(context.Background(), "groups.0.items.*.name")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, all)
}
