// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package tracing

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned by [Pipeline] accessors and operations
	// which require [Pipeline.Init] to have succeeded first.
	ErrNotInitialized = errors.New("tracing: pipeline not initialized, call Init first")

	// ErrAlreadyInitialized is returned by [Pipeline.Init] when called more than once.
	ErrAlreadyInitialized = errors.New("tracing: pipeline already initialized")

	// ErrGlobalProviderRegistered is returned when a tracer provider has
	// already been registered through the same [Registry].
	ErrGlobalProviderRegistered = errors.New("tracing: failed to set global tracer provider, it may already be set")

	// ErrShutDown is returned by [Pipeline.ExportSpans] once the pipeline has been shut down.
	ErrShutDown = errors.New("tracing: pipeline has been shut down")
)

var errNilSpan = errors.New("span is nil")

// ResourceBuildError is returned by [Pipeline.Init] when the resource
// could not be built.
type ResourceBuildError struct {
	Cause error
}

// Error implements the [error] interface.
func (e ResourceBuildError) Error() string {
	return fmt.Sprintf("failed to build resource: %s", e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e ResourceBuildError) Unwrap() error {
	return e.Cause
}

// ExporterBuildError is returned by [Pipeline.Init] when the span
// exporter could not be built.
type ExporterBuildError struct {
	Cause error
}

// Error implements the [error] interface.
func (e ExporterBuildError) Error() string {
	return fmt.Sprintf("failed to build span exporter: %s", e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e ExporterBuildError) Unwrap() error {
	return e.Cause
}

// FlushError is returned by [Pipeline.ExportSpans] when the span
// processor fails to flush the submitted spans.
type FlushError struct {
	Cause error
}

// Error implements the [error] interface.
func (e FlushError) Error() string {
	return fmt.Sprintf("flush failed: %s", e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e FlushError) Unwrap() error {
	return e.Cause
}

// ShutdownError is returned by [Pipeline.Shutdown] when the tracer
// provider fails to shut down cleanly.
type ShutdownError struct {
	Cause error
}

// Error implements the [error] interface.
func (e ShutdownError) Error() string {
	return fmt.Sprintf("failed to shut down tracer provider: %s", e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e ShutdownError) Unwrap() error {
	return e.Cause
}
