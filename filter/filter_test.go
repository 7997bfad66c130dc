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

package filter_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/structive/filter"
	"rivaas.dev/structive/structiveerr"
)

func TestChainAppliesInOrder(t *testing.T) {
	reg := filter.Default()
	p, err := reg.Compile([]filter.Clause{
		{Name: "defaults", Options: []string{"n/a"}},
		{Name: "uc"},
	})
	require.NoError(t, err)

	assert.Equal(t, "N/A", p.Apply(""))
	assert.Equal(t, "HI", p.Apply("hi"))
}

func TestUnknownFilterRaisesFLT201(t *testing.T) {
	reg := filter.Default()
	_, err := reg.Compile([]filter.Clause{{Name: "does-not-exist"}})
	require.Error(t, err)
	var se *structiveerr.Error
	require.True(t, stderrors.As(err, &se))
	assert.Equal(t, structiveerr.ErrFLT201.Code, se.Code)
}

func TestEmptyPipelineIsIdentity(t *testing.T) {
	reg := filter.Default()
	p, err := reg.Compile(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, "same", p.Apply("same"))
}
