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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/structive/path"
	"rivaas.dev/structive/stateref"
)

func TestFlushIsNoOpWhenNothingPending(t *testing.T) {
	called := false
	pm := NewPathManager()
	u := NewUpdater(pm, NewCache(), nil, func(ctx context.Context, batch RenderBatch) error {
		called = true
		return nil
	}, nil, nil, nil)

	require.NoError(t, u.Flush(context.Background()))
	assert.False(t, called)
}

func TestEnqueueRefCoalescesSynchronousWritesIntoOneBatch(t *testing.T) {
	pm := NewPathManager()
	pm.AddPath("user.first", false)
	pm.AddPath("user.last", false)

	var mu sync.Mutex
	var batches []RenderBatch
	done := make(chan struct{})

	u := NewUpdater(pm, NewCache(), nil, func(ctx context.Context, batch RenderBatch) error {
		mu.Lock()
		batches = append(batches, batch)
		mu.Unlock()
		close(done)
		return nil
	}, nil, nil, nil)

	first := stateref.Get(path.Get("user.first"), nil)
	last := stateref.Get(path.Get("user.last"), nil)
	u.EnqueueRef(first)
	u.EnqueueRef(last)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("render batch never flushed")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, batches, 1, "both synchronous enqueues must coalesce into a single render")
	assert.Contains(t, batches[0].Patterns, "user.first")
	assert.Contains(t, batches[0].Patterns, "user.last")
	assert.Len(t, batches[0].WrittenRefs, 2)
}

func TestInitialRenderMarksEveryRegisteredPathDirty(t *testing.T) {
	pm := NewPathManager()
	pm.AddPath("a", false)
	pm.AddPath("b", false)

	var got RenderBatch
	u := NewUpdater(pm, NewCache(), nil, func(ctx context.Context, batch RenderBatch) error {
		got = batch
		return nil
	}, nil, nil, nil)

	require.NoError(t, u.InitialRender(context.Background()))
	assert.Contains(t, got.Patterns, "a")
	assert.Contains(t, got.Patterns, "b")
}

func TestUpdatedCallbackFailureIsReportedNotPanicked(t *testing.T) {
	pm := NewPathManager()
	pm.AddPath("x", false)
	pm.SetUpdatedCallback(func(state any, refs []*stateref.Ref) error {
		return assert.AnError
	})

	u := NewUpdater(pm, NewCache(), nil, func(ctx context.Context, batch RenderBatch) error {
		return nil
	}, nil, nil, nil)

	ref := stateref.Get(path.Get("x"), nil)
	err := u.Invoke(context.Background(), func() error {
		u.EnqueueRef(ref)
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UPD-005")
}
