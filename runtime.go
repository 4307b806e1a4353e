// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otelexport

import (
	"context"
	"os"
	"os/signal"

	"github.com/z5labs/otelexport/internal/try"
)

// Runtime represents the entry point for use case specific code.
type Runtime interface {
	Run(context.Context) error
}

// RuntimeFunc is a functional implementation of the [Runtime] interface.
type RuntimeFunc func(context.Context) error

// Run implements the [Runtime] interface.
func (f RuntimeFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Runner builds a [Runtime] and then runs it.
type Runner[T Runtime] interface {
	Run(context.Context, Builder[T]) error
}

// RunnerFunc is a functional implementation of the [Runner] interface.
type RunnerFunc[T Runtime] func(context.Context, Builder[T]) error

// Run implements the [Runner] interface.
func (f RunnerFunc[T]) Run(ctx context.Context, b Builder[T]) error {
	return f(ctx, b)
}

// DefaultRunner returns a [Runner] which simply builds the [Runtime]
// and then runs it with the same context.Context.
func DefaultRunner[T Runtime]() Runner[T] {
	return RunnerFunc[T](func(ctx context.Context, b Builder[T]) error {
		rt, err := b.Build(ctx)
		if err != nil {
			return err
		}
		return rt.Run(ctx)
	})
}

// RecoverPanics wraps the given [Runner] such that any panic raised while
// building or running the [Runtime] is returned as a [try.PanicError].
func RecoverPanics[T Runtime](r Runner[T]) Runner[T] {
	return RunnerFunc[T](func(ctx context.Context, b Builder[T]) (err error) {
		defer try.Recover(&err)

		return r.Run(ctx, b)
	})
}

// NotifyOnSignal wraps the given [Runner] such that the context.Context
// passed to it is cancelled when any of the given signals are received.
func NotifyOnSignal[T Runtime](r Runner[T], signals ...os.Signal) Runner[T] {
	return RunnerFunc[T](func(ctx context.Context, b Builder[T]) error {
		sigCtx, cancel := signal.NotifyContext(ctx, signals...)
		defer cancel()

		return r.Run(sigCtx, b)
	})
}
