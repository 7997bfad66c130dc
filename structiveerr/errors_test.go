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

package structiveerr_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"rivaas.dev/structive/structiveerr"
)

func TestRaiseAttachesContextWithoutMutatingSentinel(t *testing.T) {
	err := structiveerr.Raise(structiveerr.ErrSTC001, map[string]any{"path": "user.name"})

	assert.Equal(t, "user.name", err.Context["path"])
	assert.Nil(t, structiveerr.ErrSTC001.Context)
	assert.True(t, stderrors.Is(err, structiveerr.ErrSTC001))
}

func TestWithCauseAndUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := structiveerr.ErrUPD005.WithCause(cause)
	assert.Same(t, cause, stderrors.Unwrap(err))
}

func TestDocsURLDefaulted(t *testing.T) {
	err := structiveerr.New("FOO-000", "example")
	assert.Equal(t, "https://docs.structive.dev/errors/FOO-000", err.DocsURL)
}
