// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otlp builds OTLP span exporters.
//
// Any setting which is not provided explicitly falls back to the standard
// OTEL_EXPORTER_OTLP_* environment variables handled by the exporters
// themselves.
package otlp

import (
	"context"
	"net/http"
	"net/url"

	"github.com/z5labs/otelexport"
	"github.com/z5labs/otelexport/config"
	"github.com/z5labs/otelexport/internal/try"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// TracesPath is the URL path OTLP/HTTP collectors accept spans on.
const TracesPath = "/v1/traces"

// optional treats a nil reader as one which is never set.
func optional[T any](r config.Reader[T]) config.Reader[T] {
	if r != nil {
		return r
	}
	return config.ReaderFunc[T](func(ctx context.Context) (config.Value[T], error) {
		return config.Value[T]{}, nil
	})
}

// BuildHttpSpanExporter returns a builder for an OTLP over HTTP/protobuf
// span exporter.
//
// endpoint is a full URL. If it has no path, [TracesPath] is used. A nil
// or unset endpoint leaves the exporter to its environment defaults.
//
// If httpClientB is non-nil the client it builds is used for every export
// and the exporter's own retry loop is disabled, the client being
// expected to retry on its own.
func BuildHttpSpanExporter(
	endpoint config.Reader[string],
	httpClientB otelexport.Builder[*http.Client],
	opts ...otlptracehttp.Option,
) otelexport.Builder[*otlptrace.Exporter] {
	return otelexport.BuilderFunc[*otlptrace.Exporter](func(ctx context.Context) (*otlptrace.Exporter, error) {
		var base []otlptracehttp.Option

		val, err := config.NonEmpty(optional(endpoint)).Read(ctx)
		if err != nil {
			return nil, err
		}
		if ep, ok := val.Value(); ok {
			u, err := url.Parse(ep)
			if err != nil {
				return nil, err
			}
			if u.Path == "" || u.Path == "/" {
				u.Path = TracesPath
			}
			base = append(base, otlptracehttp.WithEndpointURL(u.String()))
		}

		if httpClientB != nil {
			client, err := httpClientB.Build(ctx)
			if err != nil {
				return nil, err
			}
			base = append(
				base,
				otlptracehttp.WithHTTPClient(client),
				otlptracehttp.WithRetry(otlptracehttp.RetryConfig{Enabled: false}),
			)
		}

		return otlptracehttp.New(ctx, append(base, opts...)...)
	})
}

// BuildGrpcClientConn returns a builder for a lazily connecting
// [grpc.ClientConn] to target.
func BuildGrpcClientConn(target config.Reader[string], plaintext config.Reader[bool]) otelexport.Builder[*grpc.ClientConn] {
	return otelexport.BuilderFunc[*grpc.ClientConn](func(ctx context.Context) (*grpc.ClientConn, error) {
		t, err := config.Read(ctx, config.NonEmpty(target))
		if err != nil {
			return nil, err
		}

		usePlaintext, err := config.Read(ctx, config.Default(false, optional(plaintext)))
		if err != nil {
			return nil, err
		}

		creds := credentials.NewTLS(nil)
		if usePlaintext {
			creds = insecure.NewCredentials()
		}
		return grpc.NewClient(t, grpc.WithTransportCredentials(creds))
	})
}

// GrpcSpanExporter is an OTLP gRPC span exporter which owns the
// connection it exports over.
type GrpcSpanExporter struct {
	*otlptrace.Exporter

	conn *grpc.ClientConn
}

// Shutdown shuts down the exporter and then closes its connection.
func (e *GrpcSpanExporter) Shutdown(ctx context.Context) (err error) {
	if e.conn != nil {
		defer try.Close(&err, e.conn)
	}
	return e.Exporter.Shutdown(ctx)
}

// BuildGrpcSpanExporter returns a builder for an OTLP over gRPC span
// exporter. When target is set a dedicated connection is dialed and
// closed again on shutdown. Otherwise the exporter manages its own
// connection from its environment defaults.
func BuildGrpcSpanExporter(
	target config.Reader[string],
	plaintext config.Reader[bool],
	opts ...otlptracegrpc.Option,
) otelexport.Builder[*GrpcSpanExporter] {
	return otelexport.BuilderFunc[*GrpcSpanExporter](func(ctx context.Context) (*GrpcSpanExporter, error) {
		val, err := config.NonEmpty(optional(target)).Read(ctx)
		if err != nil {
			return nil, err
		}
		if _, ok := val.Value(); !ok {
			exp, err := otlptracegrpc.New(ctx, opts...)
			if err != nil {
				return nil, err
			}
			return &GrpcSpanExporter{Exporter: exp}, nil
		}

		conn, err := BuildGrpcClientConn(target, optional(plaintext)).Build(ctx)
		if err != nil {
			return nil, err
		}

		exp, err := otlptracegrpc.New(ctx, append(opts, otlptracegrpc.WithGRPCConn(conn))...)
		if err != nil {
			return nil, joinClose(err, conn)
		}
		return &GrpcSpanExporter{Exporter: exp, conn: conn}, nil
	})
}

func joinClose(err error, conn *grpc.ClientConn) error {
	try.Close(&err, conn)
	return err
}

var _ sdktrace.SpanExporter = (*GrpcSpanExporter)(nil)
