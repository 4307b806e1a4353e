// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package slogfield

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func logJSON(t *testing.T, attrs ...slog.Attr) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	log.LogAttrs(t.Context(), slog.LevelInfo, "hello", attrs...)

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestJsonHandler(t *testing.T) {
	traceID := trace.TraceID{0x0a, 0xf7, 0x65, 0x19, 0x16, 0xcd, 0x43, 0xdd, 0x84, 0x48, 0xeb, 0x21, 0x1c, 0x80, 0x31, 0x9c}
	spanID := trace.SpanID{0xb7, 0xad, 0x6b, 0x71, 0x69, 0x20, 0x33, 0x31}

	testCases := []struct {
		Name  string
		Attr  slog.Attr
		Key   string
		Value any
	}{
		{Name: "any", Attr: Any("value", true), Key: "value", Value: true},
		{Name: "bool", Attr: Bool("value", false), Key: "value", Value: false},
		{Name: "duration", Attr: Duration("value", 5*time.Second), Key: "value", Value: float64(5 * time.Second)},
		{Name: "error", Attr: Error(errors.New("flush failed")), Key: "error", Value: "flush failed"},
		{Name: "string", Attr: String("value", "otlp-http"), Key: "value", Value: "otlp-http"},
		{Name: "strings", Attr: Strings("value", []string{"env", "host"}), Key: "value", Value: []any{"env", "host"}},
		{Name: "int", Attr: Int("value", 512), Key: "value", Value: float64(512)},
		{Name: "int64", Attr: Int64("value", 10000), Key: "value", Value: float64(10000)},
		{Name: "span name", Attr: SpanName("checkout"), Key: "span_name", Value: "checkout"},
		{Name: "trace id", Attr: TraceID(traceID), Key: "trace_id", Value: "0af7651916cd43dd8448eb211c80319c"},
		{Name: "span id", Attr: SpanID(spanID), Key: "span_id", Value: "b7ad6b7169203331"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			m := logJSON(t, testCase.Attr)
			assert.Equal(t, testCase.Value, m[testCase.Key])
		})
	}
}
