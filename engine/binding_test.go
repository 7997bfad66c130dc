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

	"rivaas.dev/structive/contract"
	"rivaas.dev/structive/listindex"
	"rivaas.dev/structive/path"
	"rivaas.dev/structive/stateref"
	"rivaas.dev/structive/structiveerr"
)

type recordingAdapter struct {
	node  contract.Node
	prop  string
	value any
}

func (a *recordingAdapter) AssignValue(node contract.Node, nodeProp string, value any) error {
	a.node, a.prop, a.value = node, nodeProp, value
	return nil
}

func (a *recordingAdapter) ReadValue(node contract.Node, nodeProp string) (any, error) {
	return a.value, nil
}

func TestBindingApplyRoutesThroughAdapter(t *testing.T) {
	adapter := &recordingAdapter{}
	ref := stateref.Get(path.Get("name"), nil)
	b := NewBinding("span#1", ref, "textContent", nil, adapter, false, false)

	require.NoError(t, b.Apply(context.Background(), "Alice"))
	assert.Equal(t, "textContent", adapter.prop)
	assert.Equal(t, "Alice", adapter.value)
}

func TestBindingApplyWithoutAdapterRaisesBIND301(t *testing.T) {
	ref := stateref.Get(path.Get("name"), nil)
	b := NewBinding("span#1", ref, "textContent", nil, nil, false, false)

	err := b.Apply(context.Background(), "Alice")
	require.Error(t, err)
	assert.ErrorIs(t, err, structiveerr.ErrBIND301)
}

func TestBindContentFindResolvesNearestEnclosingLoop(t *testing.T) {
	outer := &LoopContext{Pattern: "rows", ListIndex: listindex.New(nil, 0)}
	inner := &LoopContext{Pattern: "rows", ListIndex: listindex.New(outer.ListIndex, 1), Parent: outer}

	root := NewBindContent(1, nil, nil)
	outerContent := NewBindContent(2, root, outer)
	innerContent := NewBindContent(3, outerContent, inner)

	lc := innerContent.Find("rows")
	require.NotNil(t, lc)
	assert.Equal(t, inner.ListIndex, lc.ListIndex, "nearest (inner) loop must win over the outer one sharing the same pattern")
}

func TestBindContentResolveListIndexMissingLoopRaisesBIND201(t *testing.T) {
	root := NewBindContent(1, nil, nil)
	_, err := root.ResolveListIndex([]string{"items"})
	require.Error(t, err)
	assert.ErrorIs(t, err, structiveerr.ErrBIND201)
}

func TestComponentBindingApplyWithoutRedrawRaisesCOMP402(t *testing.T) {
	ref := stateref.Get(path.Get("title"), nil)
	cb := NewComponentBinding("my-widget", ref)
	err := cb.Apply(context.Background(), "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, structiveerr.ErrCOMP402)
}
