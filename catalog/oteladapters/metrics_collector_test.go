package oteladapters_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/opdskit/opds-catalog-go/catalog/oteladapters"
)

func newMetricsCollector() (*oteladapters.MetricsCollector, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return oteladapters.NewMetricsCollector(provider.Meter("test")), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))

	return resourceMetrics
}

func findMetric(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) metricdata.Metrics {
	t.Helper()

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name == name {
				return m
			}
		}
	}

	t.Fatalf("metric %s not found", name)

	return metricdata.Metrics{}
}

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	// setup
	collector, reader := newMetricsCollector()
	labels := map[string]string{"operation": "authors_by_last_name", "status": "success"}

	// act
	collector.RecordDuration("catalog_query_duration_seconds", 150*time.Millisecond, labels)

	// assert
	data := findMetric(t, collect(t, reader), "catalog_query_duration_seconds")
	histogram, ok := data.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, "s", data.Unit)
	assert.Equal(t, uint64(1), histogram.DataPoints[0].Count)
	assert.InDelta(t, 0.15, histogram.DataPoints[0].Sum, 0.001)

	expected := attribute.NewSet(
		attribute.String("operation", "authors_by_last_name"),
		attribute.String("status", "success"),
	)
	assert.True(t, histogram.DataPoints[0].Attributes.Equals(&expected))
}

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	// setup
	collector, reader := newMetricsCollector()
	labels := map[string]string{"operation": "meta_genres", "status": "error", "error_type": "database_query"}

	// act
	collector.IncrementCounter("catalog_database_errors_total", labels)
	collector.IncrementCounterContext(context.Background(), "catalog_database_errors_total", labels)

	// assert
	sum, ok := findMetric(t, collect(t, reader), "catalog_database_errors_total").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
}

func Test_MetricsCollector_RecordValue(t *testing.T) {
	// setup
	collector, reader := newMetricsCollector()
	labels := map[string]string{"operation": "series_by_ids", "status": "success"}

	// act
	collector.RecordValue("catalog_rows_returned", 3, labels)
	collector.RecordValueContext(context.Background(), "catalog_rows_returned", 7, labels)

	// assert
	gauge, ok := findMetric(t, collect(t, reader), "catalog_rows_returned").Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 7.0, gauge.DataPoints[0].Value, 0.0001, "a gauge keeps the last value")
}

func Test_MetricsCollector_IsSafeForConcurrentUse(t *testing.T) {
	// setup
	collector, reader := newMetricsCollector()
	wg := sync.WaitGroup{}

	// act
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.IncrementCounter("catalog_database_errors_total", nil)
		}()
	}

	wg.Wait()

	// assert
	sum, ok := findMetric(t, collect(t, reader), "catalog_database_errors_total").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(20), sum.DataPoints[0].Value)
}

// failingMeter fails to create any instrument.
type failingMeter struct {
	metric.Meter
}

func (m *failingMeter) Float64Histogram(string, ...metric.Float64HistogramOption) (metric.Float64Histogram, error) {
	return nil, errors.New("histogram creation failed")
}

func (m *failingMeter) Int64Counter(string, ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	return nil, errors.New("counter creation failed")
}

func (m *failingMeter) Float64Gauge(string, ...metric.Float64GaugeOption) (metric.Float64Gauge, error) {
	return nil, errors.New("gauge creation failed")
}

func Test_MetricsCollector_When_InstrumentCreationFails(t *testing.T) {
	collector := oteladapters.NewMetricsCollector(&failingMeter{})

	assert.NotPanics(t, func() {
		collector.RecordDuration("catalog_query_duration_seconds", time.Millisecond, nil)
		collector.IncrementCounter("catalog_database_errors_total", nil)
		collector.RecordValue("catalog_rows_returned", 1, nil)
	})
}
