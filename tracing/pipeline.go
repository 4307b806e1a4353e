// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package tracing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/z5labs/otelexport"
	"github.com/z5labs/otelexport/detect"
	"github.com/z5labs/otelexport/exporter/otlp"
	"github.com/z5labs/otelexport/internal/slogfield"
	"github.com/z5labs/otelexport/internal/try"

	"go.opentelemetry.io/otel/sdk/instrumentation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// State is the lifecycle state of a [Pipeline].
type State int

const (
	Uninitialized State = iota
	Initialized
	ShutDown
)

// String implements the [fmt.Stringer] interface.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case ShutDown:
		return "shut down"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Pipeline owns the resource, span processor and tracer provider used
// to re-export finished spans. Either all three are set or none are.
type Pipeline struct {
	log          *slog.Logger
	resourceB    otelexport.Builder[*resource.Resource]
	exporterB    otelexport.Builder[sdktrace.SpanExporter]
	batch        BatchConfig
	newProcessor ProcessorFunc
	registry     *Registry
	metrics      *Metrics

	mu        sync.Mutex
	state     State
	resource  *resource.Resource
	processor sdktrace.SpanProcessor
	provider  *sdktrace.TracerProvider
}

// NewPipeline returns an Uninitialized [Pipeline].
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		log:          slog.New(slog.DiscardHandler),
		resourceB:    detect.BuildResource(detect.Env),
		batch:        DefaultBatchConfig(),
		newProcessor: BatchSpanProcessor,
		registry:     GlobalRegistry(),
	}
	Exporter(otlp.BuildHttpSpanExporter(nil, nil))(p)

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// Init detects the resource, builds the span exporter and processor,
// creates the tracer provider and registers it globally.
//
// If registration fails the new provider is shut down again and the
// pipeline stays Uninitialized.
func (p *Pipeline) Init(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != Uninitialized {
		return ErrAlreadyInitialized
	}

	res, err := build(ctx, p.resourceB)
	if err != nil {
		return ResourceBuildError{Cause: err}
	}

	exp, err := build(ctx, p.exporterB)
	if err != nil {
		return ExporterBuildError{Cause: err}
	}

	proc := p.newProcessor(exp, p.batch)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(proc),
	)

	if p.registry != nil {
		err = p.registry.Register(tp)
		if err != nil {
			return errors.Join(err, tp.Shutdown(ctx))
		}
	}

	p.resource = res
	p.processor = proc
	p.provider = tp
	p.state = Initialized

	p.log.InfoContext(ctx, "initialized tracing pipeline", slogfield.Any("batch", p.batch))
	return nil
}

func build[T any](ctx context.Context, b otelexport.Builder[T]) (v T, err error) {
	defer try.Recover(&err)

	return b.Build(ctx)
}

// Resource returns the resource detected during [Pipeline.Init].
func (p *Pipeline) Resource() (*resource.Resource, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.resource == nil {
		return nil, ErrNotInitialized
	}
	return p.resource, nil
}

// InstrumentationScope returns the same value as the package level
// [InstrumentationScope] function.
func (p *Pipeline) InstrumentationScope() instrumentation.Scope {
	return InstrumentationScope()
}

// TracerProvider returns the tracer provider created during [Pipeline.Init].
func (p *Pipeline) TracerProvider() (*sdktrace.TracerProvider, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.provider == nil {
		return nil, ErrNotInitialized
	}
	return p.provider, nil
}

// Shutdown flushes any queued spans and releases the tracer provider,
// span processor and exporter. Calling Shutdown on a pipeline which was
// never initialized, or which is already shut down, does nothing.
//
// The pipeline is ShutDown afterwards even if the provider reported an error.
func (p *Pipeline) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case Uninitialized:
		p.log.InfoContext(ctx, "tracer provider not initialized")
		return nil
	case ShutDown:
		return nil
	}

	p.log.InfoContext(ctx, "shutting down exporter")
	err := p.provider.Shutdown(ctx)
	p.state = ShutDown
	if err != nil {
		p.log.ErrorContext(ctx, "failed to shut down tracer provider", slogfield.Error(err))
		return ShutdownError{Cause: err}
	}

	p.log.InfoContext(ctx, "tracing shut down")
	return nil
}
