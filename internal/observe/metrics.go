// Package observe provides application-wide observability primitives for
// Refrain: OpenTelemetry metrics, distributed tracing, and structured
// logging.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still
// be scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/yomogi-ai/refrain/internal/suppress"
)

// meterName is the instrumentation scope name used for all Refrain metrics.
const meterName = "github.com/yomogi-ai/refrain"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency ---

	// SuppressDuration tracks end-to-end suppression latency per call.
	SuppressDuration metric.Float64Histogram

	// --- Pattern counters ---

	// PatternsDetected counts detected repetition patterns. Use with
	// attribute: attribute.String("character", ...)
	PatternsDetected metric.Int64Counter

	// PatternsSuppressed counts patterns that were actually rewritten.
	PatternsSuppressed metric.Int64Counter

	// DetectionMisses counts patterns detected but left unchanged.
	DetectionMisses metric.Int64Counter

	// OverCompressions counts rewrites flagged as destructive.
	OverCompressions metric.Int64Counter

	// RhetoricalExceptions counts patterns exempted by the protection
	// classifier.
	RhetoricalExceptions metric.Int64Counter

	// --- Pre-processing counters ---

	// NgramBlocks counts deletions made by the n-gram dedup pre-filter.
	NgramBlocks metric.Int64Counter

	// LatinBlocks counts alphanumeric runs shortened before analysis.
	LatinBlocks metric.Int64Counter

	// --- Quality histograms ---

	// SuccessRate tracks the per-call composite success score in [0, 1].
	SuccessRate metric.Float64Histogram

	// CompressionRate tracks the per-call fractional length reduction.
	CompressionRate metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) optimised
// for text-pipeline latencies.
var latencyBuckets = []float64{
	0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1,
}

// ratioBuckets defines histogram bucket boundaries for [0, 1] ratios.
var ratioBuckets = []float64{
	0, 0.05, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.SuppressDuration, err = m.Float64Histogram("refrain.suppress.duration",
		metric.WithDescription("End-to-end latency of one suppression call."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.SuccessRate, err = m.Float64Histogram("refrain.suppress.success_rate",
		metric.WithDescription("Composite success score per suppression call."),
		metric.WithExplicitBucketBoundaries(ratioBuckets...),
	); err != nil {
		return nil, err
	}
	if met.CompressionRate, err = m.Float64Histogram("refrain.suppress.compression_rate",
		metric.WithDescription("Fractional length reduction per suppression call."),
		metric.WithExplicitBucketBoundaries(ratioBuckets...),
	); err != nil {
		return nil, err
	}

	// Pattern counters.
	if met.PatternsDetected, err = m.Int64Counter("refrain.patterns.detected",
		metric.WithDescription("Total repetition patterns detected by character."),
	); err != nil {
		return nil, err
	}
	if met.PatternsSuppressed, err = m.Int64Counter("refrain.patterns.suppressed",
		metric.WithDescription("Total repetition patterns rewritten by character."),
	); err != nil {
		return nil, err
	}
	if met.DetectionMisses, err = m.Int64Counter("refrain.patterns.missed",
		metric.WithDescription("Total patterns detected but left unchanged."),
	); err != nil {
		return nil, err
	}
	if met.OverCompressions, err = m.Int64Counter("refrain.patterns.over_compressed",
		metric.WithDescription("Total rewrites flagged as destructive."),
	); err != nil {
		return nil, err
	}
	if met.RhetoricalExceptions, err = m.Int64Counter("refrain.patterns.rhetorical_exceptions",
		metric.WithDescription("Total patterns exempted as deliberate rhetoric."),
	); err != nil {
		return nil, err
	}

	// Pre-processing counters.
	if met.NgramBlocks, err = m.Int64Counter("refrain.blocks.ngram",
		metric.WithDescription("Total n-gram dedup deletions before analysis."),
	); err != nil {
		return nil, err
	}
	if met.LatinBlocks, err = m.Int64Counter("refrain.blocks.latin",
		metric.WithDescription("Total alphanumeric runs shortened before analysis."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordSuppression records every instrument touched by one suppression
// call. The character attribute is omitted when empty so that anonymous
// calls do not fan out an empty label value. Metrics implements
// [suppress.Observer].
func (m *Metrics) RecordSuppression(ctx context.Context, character string, sm suppress.Metrics) {
	var opts []metric.AddOption
	var recOpts []metric.RecordOption
	if character != "" {
		attrs := metric.WithAttributes(attribute.String("character", character))
		opts = append(opts, attrs)
		recOpts = append(recOpts, attrs)
	}

	m.SuppressDuration.Record(ctx, sm.ProcessingTime.Seconds(), recOpts...)
	m.SuccessRate.Record(ctx, sm.SuccessRate, recOpts...)
	m.CompressionRate.Record(ctx, sm.CompressionRate, recOpts...)

	m.PatternsDetected.Add(ctx, int64(sm.PatternsDetected), opts...)
	m.PatternsSuppressed.Add(ctx, int64(sm.PatternsSuppressed), opts...)
	m.DetectionMisses.Add(ctx, int64(sm.DetectionMisses), opts...)
	m.OverCompressions.Add(ctx, int64(sm.OverCompressions), opts...)
	m.RhetoricalExceptions.Add(ctx, int64(sm.RhetoricalExceptions), opts...)
	m.NgramBlocks.Add(ctx, int64(sm.NgramBlocksApplied), opts...)
	m.LatinBlocks.Add(ctx, int64(sm.LatinBlocksApplied), opts...)
}
