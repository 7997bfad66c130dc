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

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/structive/structiveerr"
)

func TestRegisterAndLookupByIDAndTag(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.Register(Descriptor{ID: 1, Tag: "my-widget", TemplateID: 10, StateType: "widget"}))

	byID, err := r.Lookup(1)
	require.NoError(t, err)
	assert.Equal(t, "my-widget", byID.Tag)

	byTag, err := r.LookupByTag("my-widget")
	require.NoError(t, err)
	assert.Equal(t, 1, byTag.ID)
}

func TestRegisterDuplicateIDOverwritesPreviousDescriptor(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.Register(Descriptor{ID: 1, Tag: "a"}))
	require.NoError(t, r.Register(Descriptor{ID: 1, Tag: "b"}))

	d, err := r.Lookup(1)
	require.NoError(t, err)
	assert.Equal(t, "b", d.Tag)

	_, err = r.LookupByTag("a")
	require.Error(t, err, "the old tag must no longer resolve once superseded")

	byTag, err := r.LookupByTag("b")
	require.NoError(t, err)
	assert.Equal(t, 1, byTag.ID)
}

func TestLookupUnknownIDRaisesREG502(t *testing.T) {
	r := New(nil)
	_, err := r.Lookup(99)
	require.Error(t, err)
	assert.ErrorIs(t, err, structiveerr.ErrREG502)
}

func TestLoadManifestYAML(t *testing.T) {
	r := New(nil)
	data := []byte("components:\n  - id: 1\n    tag: my-widget\n    templateId: 10\n    stateType: widget\n")
	require.NoError(t, LoadManifest(r, FormatYAML, data))

	d, err := r.Lookup(1)
	require.NoError(t, err)
	assert.Equal(t, "my-widget", d.Tag)
	assert.Equal(t, 10, d.TemplateID)
}

func TestLoadManifestTOML(t *testing.T) {
	r := New(nil)
	data := []byte("[[components]]\nid = 2\ntag = \"other-widget\"\ntemplate_id = 20\n")
	require.NoError(t, LoadManifest(r, FormatTOML, data))

	d, err := r.Lookup(2)
	require.NoError(t, err)
	assert.Equal(t, "other-widget", d.Tag)
	assert.Equal(t, 20, d.TemplateID)
}

func TestLoadManifestUnknownFormatRaisesREG503(t *testing.T) {
	r := New(nil)
	err := LoadManifest(r, Format("exotic"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, structiveerr.ErrREG503)
}
