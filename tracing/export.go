// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package tracing

import (
	"context"
	"time"

	"github.com/z5labs/otelexport/internal/slogfield"
	"github.com/z5labs/otelexport/internal/try"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// ExportResult counts how many spans were handed to the span processor.
type ExportResult struct {
	Exported int
	Failed   int
}

// ExportSpans submits each span, in order, to the span processor and
// then forces a flush. A span which cannot be submitted is logged and
// counted as failed without affecting the rest.
//
// The flush always happens. If it fails the error is returned as a
// [FlushError] alongside the submission counts.
func (p *Pipeline) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) (ExportResult, error) {
	p.mu.Lock()
	state, proc := p.state, p.processor
	p.mu.Unlock()

	switch state {
	case Uninitialized:
		return ExportResult{}, ErrNotInitialized
	case ShutDown:
		return ExportResult{}, ErrShutDown
	}

	p.log.InfoContext(ctx, "attempting to export spans", slogfield.Int("count", len(spans)))

	var res ExportResult
	for _, span := range spans {
		err := submit(proc, span)
		if err != nil {
			res.Failed++
			p.log.ErrorContext(withSpanContext(ctx, span), "failed to export span", slogfield.SpanName(spanName(span)), slogfield.Error(err))
			continue
		}
		res.Exported++
	}

	p.log.InfoContext(
		ctx,
		"queued spans",
		slogfield.Int("queued", res.Exported),
		slogfield.Int("failed", res.Failed),
	)
	p.metrics.recordSpans(res.Exported, res.Failed)

	start := time.Now()
	err := proc.ForceFlush(ctx)
	p.metrics.recordFlush(time.Since(start), err)
	if err != nil {
		p.log.ErrorContext(ctx, "flush failed", slogfield.Error(err))
		return res, FlushError{Cause: err}
	}

	p.log.InfoContext(ctx, "flush completed successfully")
	return res, nil
}

func submit(proc sdktrace.SpanProcessor, span sdktrace.ReadOnlySpan) (err error) {
	defer try.Recover(&err)

	if span == nil {
		return errNilSpan
	}
	proc.OnEnd(span)
	return nil
}

func spanName(span sdktrace.ReadOnlySpan) (name string) {
	defer func() {
		if recover() != nil {
			name = ""
		}
	}()

	if span == nil {
		return ""
	}
	return span.Name()
}

// withSpanContext lets log handlers correlate a log line with the
// span it is about.
func withSpanContext(ctx context.Context, span sdktrace.ReadOnlySpan) (out context.Context) {
	defer func() {
		if recover() != nil {
			out = ctx
		}
	}()

	if span == nil {
		return ctx
	}
	return trace.ContextWithSpanContext(ctx, span.SpanContext())
}
