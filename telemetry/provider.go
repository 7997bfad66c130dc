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

package telemetry

import (
	"context"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Provider selects which metrics backend a Config's meter actually reports
// into, mirroring router/metrics.go's MetricsConfig provider switch
// (Prometheus / OTLP / Stdout) narrowed to the two providers this module's
// dependency set can back without a separate exporter package: an
// in-process otel SDK meter, or the same SDK meter bridged into a
// scrapeable Prometheus registry.
type Provider string

const (
	// ProviderOTel runs an otel SDK MeterProvider with no external
	// exporter attached; instruments accumulate but are never shipped or
	// read anywhere.
	ProviderOTel Provider = "otel"

	// ProviderPrometheus additionally bridges the otel SDK's collected
	// metrics into a prometheus.Registry scrapeable via PrometheusHandler.
	ProviderPrometheus Provider = "prometheus"
)

// WithProvider switches Config off the package-level otel.Meter/otel.Tracer
// globals and onto a dedicated otel SDK MeterProvider backed by provider.
// Without this option, New keeps using whatever global MeterProvider the
// host process has configured (or none).
func WithProvider(provider Provider) Option {
	return func(c *Config) {
		c.provider = provider
		c.sdkRequested = true
	}
}

// buildSDKMeterProvider constructs a sdkmetric.MeterProvider with a
// ManualReader (no network exporter needed: Collect is invoked directly by
// the Prometheus bridge on scrape; the reader is not exposed otherwise, so
// under ProviderOTel nothing collects it) and, for ProviderPrometheus,
// a bridge collector that translates the reader's metricdata into
// prometheus.Metric values on demand.
func buildSDKMeterProvider(serviceName string, provider Provider) (*sdkmetric.MeterProvider, *prometheusBridge, error) {
	reader := sdkmetric.NewManualReader()
	res := resource.NewSchemaless(attribute.String("service.name", serviceName))
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader), sdkmetric.WithResource(res))

	if provider != ProviderPrometheus {
		return mp, nil, nil
	}
	return mp, &prometheusBridge{reader: reader}, nil
}

// prometheusBridge adapts an otel SDK ManualReader's collected instruments
// into prometheus.Collector, so the same render/binding/queue/cache
// instruments registered in New report through a standard /metrics
// endpoint without a second, parallel set of Prometheus-native
// instruments.
type prometheusBridge struct {
	reader *sdkmetric.ManualReader
}

// Describe intentionally sends nothing: the instrument set isn't known
// until the first Collect, the same "unchecked collector" pattern
// client_golang documents for dynamically discovered metrics.
func (b *prometheusBridge) Describe(ch chan<- *prometheus.Desc) {}

func (b *prometheusBridge) Collect(ch chan<- prometheus.Metric) {
	var rm metricdata.ResourceMetrics
	if err := b.reader.Collect(context.Background(), &rm); err != nil {
		return
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			emitPrometheusMetric(ch, m)
		}
	}
}

func emitPrometheusMetric(ch chan<- prometheus.Metric, m metricdata.Metrics) {
	name := "structive_" + sanitizeMetricName(m.Name)
	desc := prometheus.NewDesc(name, m.Description, nil, nil)

	switch data := m.Data.(type) {
	case metricdata.Sum[int64]:
		for _, dp := range data.DataPoints {
			ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(dp.Value))
		}
	case metricdata.Sum[float64]:
		for _, dp := range data.DataPoints {
			ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, dp.Value)
		}
	case metricdata.Gauge[int64]:
		for _, dp := range data.DataPoints {
			ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, float64(dp.Value))
		}
	case metricdata.Gauge[float64]:
		for _, dp := range data.DataPoints {
			ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, dp.Value)
		}
	case metricdata.Histogram[float64]:
		for _, dp := range data.DataPoints {
			buckets := cumulativeBuckets(dp.Bounds, dp.BucketCounts)
			ch <- prometheus.MustNewConstHistogram(desc, dp.Count, dp.Sum, buckets)
		}
	}
}

func cumulativeBuckets(bounds []float64, counts []uint64) map[float64]uint64 {
	buckets := make(map[float64]uint64, len(bounds))
	var cumulative uint64
	for i, bound := range bounds {
		if i < len(counts) {
			cumulative += counts[i]
		}
		buckets[bound] = cumulative
	}
	return buckets
}

func sanitizeMetricName(s string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(s)
}

// PrometheusHandler returns an http.Handler serving this Config's metrics
// in Prometheus exposition format, or nil if Config wasn't built with
// WithProvider(ProviderPrometheus).
func (c *Config) PrometheusHandler() http.Handler {
	if c.promRegistry == nil {
		return nil
	}
	return promhttp.HandlerFor(c.promRegistry, promhttp.HandlerOpts{})
}

// Shutdown flushes and releases the dedicated SDK MeterProvider built by
// WithProvider. It is a no-op when Config uses the default global
// otel.Meter (no provider requested) or is Noop.
func (c *Config) Shutdown(ctx context.Context) error {
	if c.meterProvider == nil {
		return nil
	}
	return c.meterProvider.Shutdown(ctx)
}
