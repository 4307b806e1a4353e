// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gcp builds a span exporter which writes directly to
// Google Cloud Trace.
package gcp

import (
	"context"

	"github.com/z5labs/otelexport"
	"github.com/z5labs/otelexport/config"

	texporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/trace"
	"google.golang.org/api/option"
)

// BuildSpanExporter returns a Builder for a Cloud Trace span exporter.
//
// When projectID is nil or unset the project is resolved from the
// application default credentials. The exporter's own client telemetry
// is always disabled.
func BuildSpanExporter(projectID config.Reader[string], clientOpts ...option.ClientOption) otelexport.Builder[*texporter.Exporter] {
	return otelexport.BuilderFunc[*texporter.Exporter](func(ctx context.Context) (*texporter.Exporter, error) {
		opts := []option.ClientOption{option.WithTelemetryDisabled()}
		opts = append(opts, clientOpts...)

		texOpts := []texporter.Option{texporter.WithTraceClientOptions(opts)}

		if projectID != nil {
			val, err := config.NonEmpty(projectID).Read(ctx)
			if err != nil {
				return nil, err
			}
			if id, ok := val.Value(); ok {
				texOpts = append(texOpts, texporter.WithProjectID(id))
			}
		}

		return texporter.New(texOpts...)
	})
}
