// Package monitoring provides Prometheus collectors, OpenTelemetry spans and
// the HTTP middleware that feeds both.
package monitoring

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "storefront-backend"

// tracer resolves the global provider on each call so a provider registered
// after package init (or in tests) is honoured.
func tracer() trace.Tracer { return otel.Tracer(tracerName) }

// StartSpan starts a child span under the current trace context.
// Callers must call span.End().
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordSpanError records err on span and marks it failed. A nil err is a no-op.
func RecordSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
