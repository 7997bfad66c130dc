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

package engineconfig_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/structive/engineconfig"
)

func TestDefaults(t *testing.T) {
	o := engineconfig.Default()
	assert.Equal(t, 32, o.RefStackDepth)
	assert.Equal(t, engineconfig.ShadowAuto, o.DefaultShadowMode)
}

func TestFunctionalOptionsOverrideDefaults(t *testing.T) {
	o := engineconfig.New(
		engineconfig.WithRefStackDepth(8),
		engineconfig.WithDefaultShadowMode(engineconfig.ShadowOpen),
		engineconfig.WithExtra("theme", "dark"),
	)
	assert.Equal(t, 8, o.RefStackDepth)
	assert.Equal(t, engineconfig.ShadowOpen, o.DefaultShadowMode)
	assert.Equal(t, "dark", engineconfig.Get[string](o, "theme"))
}

func TestMergePrefersOverride(t *testing.T) {
	base := engineconfig.Default()
	override := engineconfig.New(engineconfig.WithRefStackDepth(16))

	merged, err := engineconfig.Merge(base, override)
	require.NoError(t, err)
	assert.Equal(t, 16, merged.RefStackDepth)
	assert.Equal(t, engineconfig.ShadowAuto, merged.DefaultShadowMode)
}

func TestGetOrFallsBackWhenAbsent(t *testing.T) {
	o := engineconfig.Default()
	assert.Equal(t, 5, engineconfig.GetOr(o, "missing", 5))
}
