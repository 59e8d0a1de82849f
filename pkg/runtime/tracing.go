package runtime

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// defaultTracerName is the tracer name used unless WithTracerName is set.
const defaultTracerName = "tether"

// startSpan opens a span for an internal runtime phase. The runtime
// has no incoming request context, so spans are rooted; embedders that
// want parented traces can wrap Render/Commit/Paint themselves.
func (rt *Runtime) startSpan(name string, attrs ...attribute.KeyValue) trace.Span {
	_, span := rt.tracer.Start(context.Background(), name,
		trace.WithAttributes(attrs...))
	return span
}
