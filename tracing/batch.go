// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package tracing

import (
	"log/slog"
	"time"

	"github.com/z5labs/otelexport/internal/slogfield"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// BatchConfig holds the parameters of the batch span processor.
type BatchConfig struct {
	MaxQueueSize       int           `config:"max_queue_size"`
	MaxExportBatchSize int           `config:"max_export_batch_size"`
	ScheduledDelay     time.Duration `config:"scheduled_delay"`
	ExportTimeout      time.Duration `config:"export_timeout"`
}

// DefaultBatchConfig returns the batching parameters every [Pipeline]
// uses unless told otherwise.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		MaxQueueSize:       10000,
		MaxExportBatchSize: 512,
		ScheduledDelay:     5000 * time.Millisecond,
		ExportTimeout:      30000 * time.Millisecond,
	}
}

// withDefaults replaces any non-positive field with its default value.
func (c BatchConfig) withDefaults() BatchConfig {
	def := DefaultBatchConfig()
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = def.MaxQueueSize
	}
	if c.MaxExportBatchSize <= 0 {
		c.MaxExportBatchSize = def.MaxExportBatchSize
	}
	if c.ScheduledDelay <= 0 {
		c.ScheduledDelay = def.ScheduledDelay
	}
	if c.ExportTimeout <= 0 {
		c.ExportTimeout = def.ExportTimeout
	}
	return c
}

func (c BatchConfig) options() []sdktrace.BatchSpanProcessorOption {
	return []sdktrace.BatchSpanProcessorOption{
		sdktrace.WithMaxQueueSize(c.MaxQueueSize),
		sdktrace.WithMaxExportBatchSize(c.MaxExportBatchSize),
		sdktrace.WithBatchTimeout(c.ScheduledDelay),
		sdktrace.WithExportTimeout(c.ExportTimeout),
	}
}

// LogValue implements the [slog.LogValuer] interface.
func (c BatchConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slogfield.Int("max_queue_size", c.MaxQueueSize),
		slogfield.Int("max_export_batch_size", c.MaxExportBatchSize),
		slogfield.Duration("scheduled_delay", c.ScheduledDelay),
		slogfield.Duration("export_timeout", c.ExportTimeout),
	)
}

// ProcessorFunc creates the span processor which a [Pipeline] submits spans to.
type ProcessorFunc func(sdktrace.SpanExporter, BatchConfig) sdktrace.SpanProcessor

// BatchSpanProcessor is the default [ProcessorFunc].
func BatchSpanProcessor(exp sdktrace.SpanExporter, cfg BatchConfig) sdktrace.SpanProcessor {
	return sdktrace.NewBatchSpanProcessor(exp, cfg.options()...)
}
