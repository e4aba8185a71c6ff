package observe

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/yomogi-ai/refrain/internal/suppress"
)

// newTestMetrics returns a Metrics instance backed by a ManualReader for
// programmatic metric inspection.
func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

// collect gathers all metric data from the reader.
func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rm
}

// findMetric searches for a metric by name across all scope metrics.
func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestNewMetrics_CreatesWithoutError(t *testing.T) {
	m, _ := newTestMetrics(t)
	if m == nil {
		t.Fatal("NewMetrics returned nil")
	}
}

func TestHistogramObservation(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	histograms := []struct {
		name string
		h    metric.Float64Histogram
	}{
		{"refrain.suppress.duration", m.SuppressDuration},
		{"refrain.suppress.success_rate", m.SuccessRate},
		{"refrain.suppress.compression_rate", m.CompressionRate},
	}

	for _, tc := range histograms {
		tc.h.Record(ctx, 0.123)
		tc.h.Record(ctx, 0.456)
	}

	rm := collect(t, reader)

	for _, tc := range histograms {
		t.Run(tc.name, func(t *testing.T) {
			met := findMetric(rm, tc.name)
			if met == nil {
				t.Fatalf("metric %q not found", tc.name)
			}
			hist, ok := met.Data.(metricdata.Histogram[float64])
			if !ok {
				t.Fatalf("metric %q is not a histogram", tc.name)
			}
			if len(hist.DataPoints) == 0 {
				t.Fatalf("metric %q has no data points", tc.name)
			}
			if got := hist.DataPoints[0].Count; got != 2 {
				t.Errorf("sample count = %d, want 2", got)
			}
		})
	}
}

func TestCounterIncrement(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	attrs := metric.WithAttributes(attribute.String("character", "紬"))
	m.PatternsDetected.Add(ctx, 1, attrs)
	m.PatternsDetected.Add(ctx, 1, attrs)
	m.PatternsDetected.Add(ctx, 1, metric.WithAttributes(
		attribute.String("character", "葵"),
	))

	rm := collect(t, reader)
	met := findMetric(rm, "refrain.patterns.detected")
	if met == nil {
		t.Fatal("metric not found")
	}
	sum, ok := met.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatal("metric is not a sum")
	}

	// Find the data point for the first character.
	for _, dp := range sum.DataPoints {
		for _, kv := range dp.Attributes.ToSlice() {
			if string(kv.Key) == "character" && kv.Value.AsString() == "紬" {
				if dp.Value != 2 {
					t.Errorf("counter value = %d, want 2", dp.Value)
				}
				return
			}
		}
	}
	t.Error("data point with character=紬 not found")
}

func TestRecordSuppression(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordSuppression(ctx, "紬", suppress.Metrics{
		InputLength:          120,
		OutputLength:         100,
		PatternsDetected:     4,
		PatternsSuppressed:   3,
		DetectionMisses:      1,
		NgramBlocksApplied:   2,
		LatinBlocksApplied:   1,
		RhetoricalExceptions: 1,
		CompressionRate:      0.17,
		SuccessRate:          0.75,
		ProcessingTime:       3 * time.Millisecond,
	})

	rm := collect(t, reader)

	counters := []struct {
		name string
		want int64
	}{
		{"refrain.patterns.detected", 4},
		{"refrain.patterns.suppressed", 3},
		{"refrain.patterns.missed", 1},
		{"refrain.patterns.over_compressed", 0},
		{"refrain.patterns.rhetorical_exceptions", 1},
		{"refrain.blocks.ngram", 2},
		{"refrain.blocks.latin", 1},
	}
	for _, tc := range counters {
		t.Run(tc.name, func(t *testing.T) {
			met := findMetric(rm, tc.name)
			if met == nil {
				t.Fatalf("metric %q not found", tc.name)
			}
			sum, ok := met.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("metric %q is not a sum", tc.name)
			}
			if len(sum.DataPoints) == 0 {
				t.Fatalf("metric %q has no data points", tc.name)
			}
			if got := sum.DataPoints[0].Value; got != tc.want {
				t.Errorf("counter value = %d, want %d", got, tc.want)
			}
		})
	}

	met := findMetric(rm, "refrain.suppress.duration")
	if met == nil {
		t.Fatal("duration metric not found")
	}
	hist, ok := met.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatal("duration metric is not a histogram")
	}
	if len(hist.DataPoints) == 0 {
		t.Fatal("duration metric has no data points")
	}
	if got := hist.DataPoints[0].Count; got != 1 {
		t.Errorf("duration sample count = %d, want 1", got)
	}
	for _, kv := range hist.DataPoints[0].Attributes.ToSlice() {
		if string(kv.Key) == "character" && kv.Value.AsString() == "紬" {
			return
		}
	}
	t.Error("character attribute not recorded on duration histogram")
}

func TestRecordSuppression_AnonymousOmitsAttribute(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordSuppression(context.Background(), "", suppress.Metrics{PatternsDetected: 1, SuccessRate: 1})

	rm := collect(t, reader)
	met := findMetric(rm, "refrain.patterns.detected")
	if met == nil {
		t.Fatal("metric not found")
	}
	sum, ok := met.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatal("metric is not a sum")
	}
	if len(sum.DataPoints) != 1 {
		t.Fatalf("data points = %d, want 1", len(sum.DataPoints))
	}
	if got := sum.DataPoints[0].Attributes.Len(); got != 0 {
		t.Errorf("attribute count = %d, want 0", got)
	}
}

func TestDefaultMetrics_ReturnsSameInstance(t *testing.T) {
	// DefaultMetrics uses the global OTel provider so we just check
	// that repeated calls return the same pointer.
	a := DefaultMetrics()
	b := DefaultMetrics()
	if a != b {
		t.Error("DefaultMetrics returned different pointers")
	}
}
