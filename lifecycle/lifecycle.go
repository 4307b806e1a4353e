// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package lifecycle provides helpers for defining actions to execute
// after an [otelexport.Runtime] returns.
package lifecycle

import (
	"context"
	"errors"
	"sync"

	"github.com/z5labs/otelexport"
	"github.com/z5labs/otelexport/internal/try"
)

// Hook represents functionality that needs to be performed
// at a specific "time" relative to the execution of a runtime.
type Hook interface {
	Run(context.Context) error
}

// HookFunc is a func variant of the [Hook] interface.
type HookFunc func(context.Context) error

// Run implements the [Hook] interface.
func (f HookFunc) Run(ctx context.Context) error {
	return f(ctx)
}

type multiHook []Hook

func (mh multiHook) Run(ctx context.Context) error {
	errs := make([]error, 0, len(mh))
	for _, h := range mh {
		if h == nil {
			continue
		}
		err := h.Run(ctx)
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}

// MultiHook returns a [Hook] that's the logical concatenation
// of the provided [Hook]s. They're applied sequentially and every
// hook runs even if an earlier one fails.
func MultiHook(hooks ...Hook) Hook {
	return multiHook(hooks)
}

// Context allows builders to register actions which should be
// performed once the runtime they produced has returned.
type Context struct {
	mu       sync.Mutex
	postRuns multiHook
}

// PostRun returns the [Hook] which is meant to be executed after
// the runtime returns. Hooks run in reverse registration order so
// that resources are released in the opposite order they were acquired.
func (c *Context) PostRun() Hook {
	c.mu.Lock()
	defer c.mu.Unlock()

	hooks := make(multiHook, 0, len(c.postRuns))
	for i := len(c.postRuns) - 1; i >= 0; i-- {
		hooks = append(hooks, c.postRuns[i])
	}
	return hooks
}

// OnPostRun registers the given [Hook] to be executed after the runtime
// returns. This can be called multiple times to register multiple [Hook]s
// and they will all be composed together into the single [Hook] returned
// by [Context.PostRun].
func (c *Context) OnPostRun(hook Hook) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.postRuns = append(c.postRuns, hook)
}

type key struct{}

var contextKey = &key{}

// NewContext returns a new [context.Context] containing the lifecycle [Context].
func NewContext(parent context.Context, c *Context) context.Context {
	return context.WithValue(parent, contextKey, c)
}

// FromContext tries to extract a lifecycle [Context] from the given [context.Context].
func FromContext(ctx context.Context) (*Context, bool) {
	lc, ok := ctx.Value(contextKey).(*Context)
	return lc, ok
}

// OnPostRun registers the hook with the lifecycle [Context] carried by ctx.
// It reports false if ctx carries no lifecycle [Context].
func OnPostRun(ctx context.Context, hook Hook) bool {
	lc, ok := FromContext(ctx)
	if !ok {
		return false
	}
	lc.OnPostRun(hook)
	return true
}

// Shutdowner is implemented by anything which must be released once
// the runtime is done with it.
type Shutdowner interface {
	Shutdown(context.Context) error
}

// Shutdown returns a [Hook] which shuts down s.
func Shutdown(s Shutdowner) Hook {
	return HookFunc(s.Shutdown)
}

// ManageHooks wraps a [otelexport.Runner] so that the builder sees a
// lifecycle [Context] in its context and every registered post-run
// [Hook] executes after the runtime returns, fails to build or panics.
//
// Post-run hooks receive a context which is not canceled when the run
// context is, so a signal does not abort shutdown.
func ManageHooks[T otelexport.Runtime](r otelexport.Runner[T]) otelexport.Runner[T] {
	return otelexport.RunnerFunc[T](func(ctx context.Context, b otelexport.Builder[T]) (err error) {
		lc := &Context{}
		ctx = NewContext(ctx, lc)

		defer runPostRunHook(context.WithoutCancel(ctx), lc, &err)
		defer try.Recover(&err)

		return r.Run(ctx, b)
	})
}

func runPostRunHook(ctx context.Context, lc *Context, err *error) {
	hookErr := lc.PostRun().Run(ctx)

	// errors.Join will not return an error if both
	// *err and hookErr are nil.
	*err = errors.Join(*err, hookErr)
}
