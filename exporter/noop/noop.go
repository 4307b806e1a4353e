// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package noop provides a span exporter which discards every span.
// Spans still pass through the batch span processor, so it can be used
// to validate span records without a collector.
package noop

import (
	"context"

	"github.com/z5labs/otelexport"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// SpanExporter implements [sdktrace.SpanExporter] and drops all spans.
type SpanExporter struct{}

// BuildSpanExporter returns a Builder for a [SpanExporter].
func BuildSpanExporter() otelexport.Builder[SpanExporter] {
	return otelexport.BuilderOf(SpanExporter{})
}

func (SpanExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	return nil
}

func (SpanExporter) Shutdown(ctx context.Context) error {
	return nil
}

var _ sdktrace.SpanExporter = SpanExporter{}
