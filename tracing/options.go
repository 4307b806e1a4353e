// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package tracing

import (
	"context"
	"log/slog"

	"github.com/z5labs/otelexport"

	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option configures a [Pipeline].
type Option func(*Pipeline)

// LogHandler sets the handler the [Pipeline] logs through.
// Logs are discarded by default.
func LogHandler(h slog.Handler) Option {
	return func(p *Pipeline) {
		p.log = slog.New(h)
	}
}

// Resource sets the builder used to detect the pipeline resource.
// It defaults to the environment detector only.
func Resource(b otelexport.Builder[*resource.Resource]) Option {
	return func(p *Pipeline) {
		p.resourceB = b
	}
}

// Exporter sets the builder for the span exporter wrapped by the
// span processor. It defaults to OTLP over HTTP/protobuf configured
// from the standard OTEL_EXPORTER_OTLP_* environment variables.
func Exporter[E sdktrace.SpanExporter](b otelexport.Builder[E]) Option {
	return func(p *Pipeline) {
		p.exporterB = otelexport.BuilderFunc[sdktrace.SpanExporter](func(ctx context.Context) (sdktrace.SpanExporter, error) {
			return b.Build(ctx)
		})
	}
}

// Batch overrides the batch span processor parameters. Fields left
// non-positive keep their [DefaultBatchConfig] values.
func Batch(cfg BatchConfig) Option {
	return func(p *Pipeline) {
		p.batch = cfg.withDefaults()
	}
}

// SpanProcessor replaces the [BatchSpanProcessor] the pipeline
// submits spans to.
func SpanProcessor(f ProcessorFunc) Option {
	return func(p *Pipeline) {
		p.newProcessor = f
	}
}

// WithRegistry registers the tracer provider through r instead of
// [GlobalRegistry].
func WithRegistry(r *Registry) Option {
	return func(p *Pipeline) {
		p.registry = r
	}
}

// WithoutGlobalRegistration skips registering the tracer provider entirely.
func WithoutGlobalRegistration() Option {
	return func(p *Pipeline) {
		p.registry = nil
	}
}

// WithMetrics records export outcomes to m.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}
