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
	"github.com/stretchr/testify/require"
)

func byID(v any) any { return v.(map[string]any)["id"] }

func TestCreateListIndexesFirstRenderAllocatesEveryNode(t *testing.T) {
	values := []any{
		map[string]any{"id": "a"},
		map[string]any{"id": "b"},
	}
	diff := CreateListIndexes(nil, nil, values, byID)
	require.Len(t, diff.Indexes, 2)
	assert.Equal(t, 0, diff.Reused)
	assert.Equal(t, 0, diff.Indexes[0].Index())
	assert.Equal(t, 1, diff.Indexes[1].Index())
}

func TestCreateListIndexesSwapReusesBothNodesZeroAllocations(t *testing.T) {
	initial := []any{
		map[string]any{"id": "a"},
		map[string]any{"id": "b"},
	}
	first := CreateListIndexes(nil, nil, initial, byID)
	aNode, bNode := first.Indexes[0], first.Indexes[1]

	swapped := []any{initial[1], initial[0]}
	second := CreateListIndexes(nil, first.ByKey, swapped, byID)

	assert.Equal(t, 2, second.Reused, "swapping two known rows must reuse both ListIndex nodes")
	assert.Same(t, bNode, second.Indexes[0])
	assert.Same(t, aNode, second.Indexes[1])
	assert.Equal(t, 0, second.Indexes[0].Index())
	assert.Equal(t, 1, second.Indexes[1].Index())
	assert.Empty(t, second.Removed)
}

func TestCreateListIndexesRemovalReportsDroppedNode(t *testing.T) {
	initial := []any{
		map[string]any{"id": "a"},
		map[string]any{"id": "b"},
	}
	first := CreateListIndexes(nil, nil, initial, byID)
	bNode := first.Indexes[1]

	second := CreateListIndexes(nil, first.ByKey, []any{initial[0]}, byID)
	require.Len(t, second.Removed, 1)
	assert.Same(t, bNode, second.Removed[0])
}

func TestCreateListIndexesInsertionAllocatesOnlyTheNewNode(t *testing.T) {
	initial := []any{map[string]any{"id": "a"}}
	first := CreateListIndexes(nil, nil, initial, byID)
	aNode := first.Indexes[0]

	second := CreateListIndexes(nil, first.ByKey, []any{initial[0], map[string]any{"id": "c"}}, byID)
	assert.Equal(t, 1, second.Reused)
	assert.Same(t, aNode, second.Indexes[0])
	assert.NotSame(t, aNode, second.Indexes[1])
}
