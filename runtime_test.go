// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otelexport

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/z5labs/otelexport/internal/try"

	"github.com/stretchr/testify/require"
)

func TestDefaultRunner(t *testing.T) {
	testCases := []struct {
		name      string
		builder   Builder[Runtime]
		expectErr bool
	}{
		{
			name: "builds and runs successfully",
			builder: BuilderFunc[Runtime](func(ctx context.Context) (Runtime, error) {
				return RuntimeFunc(func(ctx context.Context) error {
					return nil
				}), nil
			}),
		},
		{
			name: "propagates builder error",
			builder: BuilderFunc[Runtime](func(ctx context.Context) (Runtime, error) {
				return nil, errors.New("builder failed")
			}),
			expectErr: true,
		},
		{
			name: "propagates runtime error",
			builder: BuilderFunc[Runtime](func(ctx context.Context) (Runtime, error) {
				return RuntimeFunc(func(ctx context.Context) error {
					return errors.New("runtime failed")
				}), nil
			}),
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := DefaultRunner[Runtime]().Run(context.Background(), tc.builder)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRecoverPanics(t *testing.T) {
	testCases := []struct {
		name        string
		builder     Builder[Runtime]
		expectErr   bool
		errorSubstr string
	}{
		{
			name: "wraps runner successfully",
			builder: BuilderOf[Runtime](RuntimeFunc(func(ctx context.Context) error {
				return nil
			})),
		},
		{
			name: "propagates runner error normally",
			builder: BuilderOf[Runtime](RuntimeFunc(func(ctx context.Context) error {
				return errors.New("normal error")
			})),
			expectErr:   true,
			errorSubstr: "normal error",
		},
		{
			name: "recovers from panic with string",
			builder: BuilderOf[Runtime](RuntimeFunc(func(ctx context.Context) error {
				panic("test panic")
			})),
			expectErr:   true,
			errorSubstr: "recovered from panic: test panic",
		},
		{
			name: "recovers from panic with int",
			builder: BuilderOf[Runtime](RuntimeFunc(func(ctx context.Context) error {
				panic(42)
			})),
			expectErr:   true,
			errorSubstr: "recovered from panic: 42",
		},
		{
			name: "recovers from MustBuild panic",
			builder: BuilderFunc[Runtime](func(ctx context.Context) (Runtime, error) {
				MustBuild(ctx, BuilderFunc[int](func(ctx context.Context) (int, error) {
					return 0, errors.New("inner build failed")
				}))
				return nil, nil
			}),
			expectErr:   true,
			errorSubstr: "inner build failed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			runner := RecoverPanics(DefaultRunner[Runtime]())

			require.NotPanics(t, func() {
				err := runner.Run(context.Background(), tc.builder)
				if !tc.expectErr {
					require.NoError(t, err)
					return
				}
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.errorSubstr)
			})
		})
	}

	t.Run("panic errors can be unwrapped", func(t *testing.T) {
		panicErr := errors.New("boom")
		runner := RecoverPanics(DefaultRunner[Runtime]())

		err := runner.Run(context.Background(), BuilderOf[Runtime](RuntimeFunc(func(ctx context.Context) error {
			panic(panicErr)
		})))

		var perr try.PanicError
		require.ErrorAs(t, err, &perr)
		require.ErrorIs(t, err, panicErr)
	})
}

func TestNotifyOnSignal(t *testing.T) {
	t.Run("cancels the context when a signal is received", func(t *testing.T) {
		runner := NotifyOnSignal(DefaultRunner[Runtime](), syscall.SIGUSR1)

		err := runner.Run(context.Background(), BuilderOf[Runtime](RuntimeFunc(func(ctx context.Context) error {
			go func() {
				// give signal.NotifyContext a moment to install its handler
				time.Sleep(100 * time.Millisecond)
				syscall.Kill(syscall.Getpid(), syscall.SIGUSR1)
			}()

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(5 * time.Second):
				return errors.New("signal was never delivered")
			}
		})))

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("passes the parent context through when no signal arrives", func(t *testing.T) {
		runner := NotifyOnSignal(DefaultRunner[Runtime](), syscall.SIGUSR1)

		err := runner.Run(context.Background(), BuilderOf[Runtime](RuntimeFunc(func(ctx context.Context) error {
			return ctx.Err()
		})))

		require.NoError(t, err)
	})
}
