// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package stdout builds a span exporter which writes spans to an
// [io.Writer] as JSON. It's mostly useful for debugging a workflow's
// span records locally before pointing them at a collector.
package stdout

import (
	"context"
	"io"

	"github.com/z5labs/otelexport"
	"github.com/z5labs/otelexport/config"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
)

// BuildSpanExporter returns a Builder that creates a span exporter which
// writes each span to the built writer. Output is indented when pretty
// is set to true.
func BuildSpanExporter[W io.Writer](writerB otelexport.Builder[W], pretty config.Reader[bool]) otelexport.Builder[*stdouttrace.Exporter] {
	return otelexport.BuilderFunc[*stdouttrace.Exporter](func(ctx context.Context) (*stdouttrace.Exporter, error) {
		w, err := writerB.Build(ctx)
		if err != nil {
			return nil, err
		}

		opts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
		if pretty != nil {
			usePretty, err := config.Read(ctx, config.Default(false, pretty))
			if err != nil {
				return nil, err
			}
			if usePretty {
				opts = append(opts, stdouttrace.WithPrettyPrint())
			}
		}

		return stdouttrace.New(opts...)
	})
}
