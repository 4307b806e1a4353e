// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package tracing

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Registry guards registration of a process-wide tracer provider so that
// registering over an already installed provider fails instead of
// silently replacing it.
//
// A provider counts as installed if it was registered through the
// Registry or if the provider reported by get no longer matches the one
// observed when the Registry was created.
type Registry struct {
	mu         sync.Mutex
	get        func() trace.TracerProvider
	set        func(trace.TracerProvider)
	initial    trace.TracerProvider
	registered bool
}

var globalRegistry = NewRegistry(otel.GetTracerProvider, otel.SetTracerProvider)

// GlobalRegistry returns the [Registry] backed by [otel.GetTracerProvider]
// and [otel.SetTracerProvider].
func GlobalRegistry() *Registry {
	return globalRegistry
}

// NewRegistry returns a [Registry] which reads the current provider with
// get and registers providers using set. The provider returned by get at
// construction is treated as "nothing installed".
func NewRegistry(get func() trace.TracerProvider, set func(trace.TracerProvider)) *Registry {
	return &Registry{
		get:     get,
		set:     set,
		initial: get(),
	}
}

// Register registers tp, or returns [ErrGlobalProviderRegistered] if a
// provider has already been installed.
func (r *Registry) Register(tp trace.TracerProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.registered || r.get() != r.initial {
		return ErrGlobalProviderRegistered
	}
	r.set(tp)
	r.registered = true
	return nil
}

// Registered reports whether a provider has been registered through r.
func (r *Registry) Registered() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.registered
}
