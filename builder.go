// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otelexport

import (
	"context"
	"sync"
)

// Builder represents anything which can construct a T.
type Builder[T any] interface {
	Build(context.Context) (T, error)
}

// BuilderFunc is a functional implementation of the [Builder] interface.
type BuilderFunc[T any] func(context.Context) (T, error)

// Build implements the [Builder] interface.
func (f BuilderFunc[T]) Build(ctx context.Context) (T, error) {
	return f(ctx)
}

// BuilderOf returns a [Builder] which always returns the given value.
func BuilderOf[T any](v T) Builder[T] {
	return BuilderFunc[T](func(ctx context.Context) (T, error) {
		return v, nil
	})
}

// MustBuild builds a T and panics if the [Builder] returns an error.
// It's meant for use inside other builders which are run
// by a [Runner] wrapped with [RecoverPanics].
func MustBuild[T any](ctx context.Context, b Builder[T]) T {
	v, err := b.Build(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// MemoizeBuilder wraps the given [Builder] so that the underlying
// Build is only ever called once. Subsequent calls return the
// same value and error.
func MemoizeBuilder[T any](b Builder[T]) Builder[T] {
	var (
		once sync.Once
		v    T
		err  error
	)
	return BuilderFunc[T](func(ctx context.Context) (T, error) {
		once.Do(func() {
			v, err = b.Build(ctx)
		})
		return v, err
	})
}

// Map transforms the output of b using f. If b fails, f is never called.
func Map[A, B any](b Builder[A], f func(A) (B, error)) Builder[B] {
	return BuilderFunc[B](func(ctx context.Context) (B, error) {
		var zero B

		a, err := b.Build(ctx)
		if err != nil {
			return zero, err
		}

		v, err := f(a)
		if err != nil {
			return zero, err
		}
		return v, nil
	})
}

// Bind chains two builders together by using the output of b to select
// the next [Builder]. If b fails, f is never called.
func Bind[A, B any](b Builder[A], f func(A) Builder[B]) Builder[B] {
	return BuilderFunc[B](func(ctx context.Context) (B, error) {
		var zero B

		a, err := b.Build(ctx)
		if err != nil {
			return zero, err
		}

		v, err := f(a).Build(ctx)
		if err != nil {
			return zero, err
		}
		return v, nil
	})
}
