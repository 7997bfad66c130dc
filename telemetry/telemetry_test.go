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

package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/structive/telemetry"
)

func TestNoopIsDisabledByDefault(t *testing.T) {
	cfg := telemetry.Noop()
	assert.False(t, cfg.Enabled())

	span := cfg.StartRender(context.Background(), 1, 1)
	span.RecordBinding(3)
	span.End(nil)
}

func TestNewRegistersInstrumentsWithoutError(t *testing.T) {
	cfg, err := telemetry.New()
	require.NoError(t, err)
	assert.True(t, cfg.Enabled())

	span := cfg.StartRender(context.Background(), 1, 1)
	phase := span.Phase("build")
	phase.RecordBinding(2)
	phase.RecordCacheHitRatio(0.5)
	phase.End(nil)
	span.End(nil)
}

func TestDisabledConfigPropagatesCallerContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "caller")

	cfg := telemetry.Noop()
	span := cfg.StartRender(ctx, 1, 1)
	assert.Equal(t, "caller", span.Context().Value(key{}))
}

func TestWithProviderPrometheusExposesHandler(t *testing.T) {
	cfg, err := telemetry.New(telemetry.WithProvider(telemetry.ProviderPrometheus))
	require.NoError(t, err)
	require.NotNil(t, cfg.PrometheusHandler())

	span := cfg.StartRender(context.Background(), 1, 1)
	span.RecordBinding(1)
	span.End(nil)

	require.NoError(t, cfg.Shutdown(context.Background()))
}

func TestWithProviderOTelHasNoPrometheusHandler(t *testing.T) {
	cfg, err := telemetry.New(telemetry.WithProvider(telemetry.ProviderOTel))
	require.NoError(t, err)
	assert.Nil(t, cfg.PrometheusHandler())
}
