// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package detect builds the OpenTelemetry resource which identifies where
// re-exported spans came from.
package detect

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/z5labs/otelexport"
	"github.com/z5labs/otelexport/config"

	"go.opentelemetry.io/contrib/detectors/gcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// Kind names a resource detector.
type Kind string

const (
	// Env reads OTEL_RESOURCE_ATTRIBUTES and OTEL_SERVICE_NAME.
	Env Kind = "env"

	Host         Kind = "host"
	Process      Kind = "process"
	OS           Kind = "os"
	Container    Kind = "container"
	TelemetrySDK Kind = "telemetry_sdk"

	// GCP detects GCE, GKE, Cloud Run and Cloud Functions environments.
	// Off GCP it contributes nothing.
	GCP Kind = "gcp"
)

var kinds = []Kind{Env, Host, Process, OS, Container, TelemetrySDK, GCP}

// Kinds returns every supported [Kind].
func Kinds() []Kind {
	return slices.Clone(kinds)
}

// UnknownKindError is returned by [ParseKinds] for an unsupported detector name.
type UnknownKindError struct {
	Name string
}

// Error implements the [error] interface.
func (e UnknownKindError) Error() string {
	return fmt.Sprintf("unknown resource detector: %q", e.Name)
}

// ParseKinds validates detector names. Names are case insensitive and
// duplicates are dropped. No names at all means [Env] only.
func ParseKinds(names []string) ([]Kind, error) {
	out := make([]Kind, 0, len(names))
	for _, name := range names {
		k := Kind(strings.ToLower(strings.TrimSpace(name)))
		if k == "" {
			continue
		}
		if !slices.Contains(kinds, k) {
			return nil, UnknownKindError{Name: name}
		}
		if slices.Contains(out, k) {
			continue
		}
		out = append(out, k)
	}
	if len(out) == 0 {
		return []Kind{Env}, nil
	}
	return out, nil
}

func (k Kind) option() resource.Option {
	switch k {
	case Env:
		return resource.WithFromEnv()
	case Host:
		return resource.WithHost()
	case Process:
		return resource.WithProcess()
	case OS:
		return resource.WithOS()
	case Container:
		return resource.WithContainer()
	case TelemetrySDK:
		return resource.WithTelemetrySDK()
	case GCP:
		return resource.WithDetectors(gcp.NewDetector())
	default:
		return nil
	}
}

// BuildResource returns a builder which runs the given detectors in order,
// later detectors overriding attributes set by earlier ones. With no
// kinds only [Env] is used.
//
// Partial results and schema URL conflicts between detectors are reported
// through [otel.Handle] and the resource detected so far is still used.
func BuildResource(kinds ...Kind) otelexport.Builder[*resource.Resource] {
	if len(kinds) == 0 {
		kinds = []Kind{Env}
	}

	return otelexport.BuilderFunc[*resource.Resource](func(ctx context.Context) (*resource.Resource, error) {
		opts := make([]resource.Option, 0, len(kinds))
		for _, k := range kinds {
			opt := k.option()
			if opt == nil {
				return nil, UnknownKindError{Name: string(k)}
			}
			opts = append(opts, opt)
		}

		res, err := resource.New(ctx, opts...)
		if err == nil {
			return res, nil
		}
		if res != nil && (errors.Is(err, resource.ErrPartialResource) || errors.Is(err, resource.ErrSchemaURLConflict)) {
			otel.Handle(err)
			return res, nil
		}
		return nil, err
	})
}

// ServiceName fills in service.name from name when the detected resource
// does not already carry one.
func ServiceName(b otelexport.Builder[*resource.Resource], name config.Reader[string]) otelexport.Builder[*resource.Resource] {
	return otelexport.BuilderFunc[*resource.Resource](func(ctx context.Context) (*resource.Resource, error) {
		res, err := b.Build(ctx)
		if err != nil {
			return nil, err
		}

		val, err := config.NonEmpty(name).Read(ctx)
		if err != nil {
			return nil, err
		}
		svc, ok := val.Value()
		if !ok {
			return res, nil
		}
		if _, exists := res.Set().Value(semconv.ServiceNameKey); exists {
			return res, nil
		}

		return resource.Merge(res, resource.NewSchemaless(semconv.ServiceName(svc)))
	})
}
