// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otelslog provides a [slog.Handler] which correlates log lines
// with the span they are about.
package otelslog

import (
	"context"
	"log/slog"

	"github.com/z5labs/otelexport/internal/slogfield"

	"go.opentelemetry.io/otel/trace"
)

// Handler adds the trace and span id of the span context carried by
// the log context, if any, under the "otel" group.
type Handler struct {
	next slog.Handler
}

// NewHandler returns a [Handler] wrapping h.
func NewHandler(h slog.Handler) *Handler {
	return &Handler{next: h}
}

// Enabled implements the [slog.Handler] interface.
func (h *Handler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.next.Enabled(ctx, lvl)
}

// Handle implements the [slog.Handler] interface.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return h.next.Handle(ctx, r)
	}

	r = r.Clone()
	r.AddAttrs(slog.Group(
		"otel",
		slogfield.TraceID(spanCtx.TraceID()),
		slogfield.SpanID(spanCtx.SpanID()),
	))
	return h.next.Handle(ctx, r)
}

// WithAttrs implements the [slog.Handler] interface.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewHandler(h.next.WithAttrs(attrs))
}

// WithGroup implements the [slog.Handler] interface.
func (h *Handler) WithGroup(name string) slog.Handler {
	return NewHandler(h.next.WithGroup(name))
}
