// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"errors"
	"os"
)

// Value is a config value which may or may not be set.
type Value[T any] struct {
	v   T
	set bool
}

// ValueOf returns a set [Value] containing v.
func ValueOf[T any](v T) Value[T] {
	return Value[T]{v: v, set: true}
}

// Value returns the underlying value and whether or not it was set.
func (v Value[T]) Value() (T, bool) {
	return v.v, v.set
}

// Reader represents a source of a config value.
type Reader[T any] interface {
	Read(context.Context) (Value[T], error)
}

// ReaderFunc is a functional implementation of the [Reader] interface.
type ReaderFunc[T any] func(context.Context) (Value[T], error)

// Read implements the [Reader] interface.
func (f ReaderFunc[T]) Read(ctx context.Context) (Value[T], error) {
	return f(ctx)
}

// ErrValueNotSet is returned by [Read] when the [Reader] did not produce a value.
var ErrValueNotSet = errors.New("config: value not set")

// Read reads a value from r and converts an unset value into [ErrValueNotSet].
func Read[T any](ctx context.Context, r Reader[T]) (T, error) {
	var zero T

	val, err := r.Read(ctx)
	if err != nil {
		return zero, err
	}

	v, ok := val.Value()
	if !ok {
		return zero, ErrValueNotSet
	}
	return v, nil
}

// Must is like [Read] but panics on any error, including an unset value.
func Must[T any](ctx context.Context, r Reader[T]) T {
	v, err := Read(ctx, r)
	if err != nil {
		panic(err)
	}
	return v
}

// MustOr is like [Must] but returns def if the value is not set.
func MustOr[T any](ctx context.Context, def T, r Reader[T]) T {
	return Must(ctx, Default(def, r))
}

// ReaderOf returns a [Reader] which always returns a set value of v.
func ReaderOf[T any](v T) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		return ValueOf(v), nil
	})
}

// Default returns def if r does not produce a set value.
func Default[T any](def T, r Reader[T]) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		val, err := r.Read(ctx)
		if err != nil {
			return Value[T]{}, err
		}
		if _, ok := val.Value(); ok {
			return val, nil
		}
		return ValueOf(def), nil
	})
}

// Or returns the first set value produced by the given readers.
// The first error encountered is returned immediately.
func Or[T any](rs ...Reader[T]) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		for _, r := range rs {
			val, err := r.Read(ctx)
			if err != nil {
				return Value[T]{}, err
			}
			if _, ok := val.Value(); ok {
				return val, nil
			}
		}
		return Value[T]{}, nil
	})
}

// Map transforms a set value using f. Unset values are passed through untouched.
func Map[A, B any](r Reader[A], f func(context.Context, A) (B, error)) Reader[B] {
	return ReaderFunc[B](func(ctx context.Context) (Value[B], error) {
		val, err := r.Read(ctx)
		if err != nil {
			return Value[B]{}, err
		}

		a, ok := val.Value()
		if !ok {
			return Value[B]{}, nil
		}

		b, err := f(ctx, a)
		if err != nil {
			return Value[B]{}, err
		}
		return ValueOf(b), nil
	})
}

// Bind uses a set value to select the next [Reader].
func Bind[A, B any](r Reader[A], f func(context.Context, A) Reader[B]) Reader[B] {
	return ReaderFunc[B](func(ctx context.Context) (Value[B], error) {
		val, err := r.Read(ctx)
		if err != nil {
			return Value[B]{}, err
		}

		a, ok := val.Value()
		if !ok {
			return Value[B]{}, nil
		}
		return f(ctx, a).Read(ctx)
	})
}

// Env reads the named environment variable. A variable which is
// not present in the environment is treated as unset.
func Env(name string) Reader[string] {
	return ReaderFunc[string](func(ctx context.Context) (Value[string], error) {
		v, ok := os.LookupEnv(name)
		if !ok {
			return Value[string]{}, nil
		}
		return ValueOf(v), nil
	})
}

// NonEmpty treats the empty string as unset.
func NonEmpty(r Reader[string]) Reader[string] {
	return ReaderFunc[string](func(ctx context.Context) (Value[string], error) {
		val, err := r.Read(ctx)
		if err != nil {
			return Value[string]{}, err
		}
		if s, ok := val.Value(); !ok || s == "" {
			return Value[string]{}, nil
		}
		return val, nil
	})
}
