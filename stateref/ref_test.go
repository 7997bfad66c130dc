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

package stateref_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rivaas.dev/structive/listindex"
	"rivaas.dev/structive/path"
	"rivaas.dev/structive/stateref"
)

func TestInterning(t *testing.T) {
	info := path.Get("stateref_test.user.name")
	a := stateref.Get(info, nil)
	b := stateref.Get(info, nil)
	assert.Same(t, a, b)
}

func TestParentDropsListIndexOnWildcardBoundary(t *testing.T) {
	items := path.Get("stateref_test.items")
	elem := path.Get("stateref_test.items.*")
	name := path.Get("stateref_test.items.*.name")

	li := listindex.New(nil, 0)
	nameRef := stateref.Get(name, li)
	elemRef := stateref.Get(elem, li)

	assert.Same(t, elemRef, nameRef.Parent())
	assert.Same(t, items, elemRef.Parent().Info)
	assert.Nil(t, elemRef.Parent().ListIndex)
}

func TestGetPanicsOnWildcardListIndexMismatch(t *testing.T) {
	info := path.Get("stateref_test.mismatch.name")
	assert.Panics(t, func() {
		stateref.Get(info, listindex.New(nil, 0))
	})
}
