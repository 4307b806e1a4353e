// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package tracing drives an OpenTelemetry tracing pipeline which re-exports
// spans that were collected elsewhere.
//
// A [Pipeline] moves through three states: it starts Uninitialized,
// [Pipeline.Init] detects the resource, builds the span exporter, wraps it in
// a batch span processor and registers the resulting tracer provider as the
// process-wide global provider. [Pipeline.ExportSpans] then hands already
// finished spans straight to the processor and forces a flush.
// [Pipeline.Shutdown] releases everything and the pipeline is done for good.
//
//	p := tracing.NewPipeline(tracing.Logger(log))
//	if err := p.Init(ctx); err != nil {
//	    return err
//	}
//	defer p.Shutdown(context.WithoutCancel(ctx))
//
//	res, err := p.ExportSpans(ctx, spans)
//
// Batching, retries and protocol encoding are left entirely to the
// OpenTelemetry SDK and the configured exporter.
package tracing
