package observe

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope name for the refrain tracer.
const tracerName = "github.com/yomogi-ai/refrain"

// StartSuppression opens a span covering one suppression call. A non-empty
// character name is attached under the same "character" attribute the
// metrics bucket by, so spans and series line up. The caller must call
// span.End() when the call finishes.
func StartSuppression(ctx context.Context, character string) (context.Context, trace.Span) {
	var opts []trace.SpanStartOption
	if character != "" {
		opts = append(opts, trace.WithAttributes(attribute.String("character", character)))
	}
	return otel.Tracer(tracerName).Start(ctx, "suppress", opts...)
}

// Logger returns an [slog.Logger] carrying trace_id and span_id from the
// active span in ctx, so log lines from one suppression call can be joined
// with its span. Without an active span it is the default logger.
func Logger(ctx context.Context) *slog.Logger {
	l := slog.Default()
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		l = l.With(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return l
}
