// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package slogfield provides typed constructors for the slog attributes
// logged across the export pipeline so that keys stay consistent.
package slogfield

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Any returns an slog.Attr for the supplied value.
func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

// Bool returns an slog.Attr for a bool.
func Bool(key string, value bool) slog.Attr {
	return slog.Bool(key, value)
}

// Duration returns an slog.Attr for a time.Duration.
func Duration(key string, d time.Duration) slog.Attr {
	return slog.Duration(key, d)
}

// Error returns an slog.Attr for a error.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

// String returns an slog.Attr for a string.
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Strings returns an slog.Attr for a slice of strings.
func Strings(key string, values []string) slog.Attr {
	return slog.Any(key, values)
}

// Int returns an slog.Attr for a int.
func Int(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Int64 returns an slog.Attr for a int64.
func Int64(key string, n int64) slog.Attr {
	return slog.Int64(key, n)
}

// SpanName returns an slog.Attr for the name of a span.
func SpanName(name string) slog.Attr {
	return slog.String("span_name", name)
}

// TraceID returns an slog.Attr for a trace id in its hex form.
func TraceID(id trace.TraceID) slog.Attr {
	return slog.String("trace_id", id.String())
}

// SpanID returns an slog.Attr for a span id in its hex form.
func SpanID(id trace.SpanID) slog.Attr {
	return slog.String("span_id", id.String())
}
