// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otelexport provides the small functional core the rest of the module
// is assembled from.
//
// The package is built around three abstractions:
//
//   - Builder[T]: constructs a component given a context.Context
//   - Runtime: something which runs until it completes or its context is cancelled
//   - Runner[T]: builds a Runtime from a Builder and runs it
//
// # Composition
//
//   - Map: transform a builder's output with a pure function
//   - Bind: use a builder's output to choose the next builder
//   - MemoizeBuilder: build a shared component, like a resource, exactly once
//
// # Basic Usage
//
//	exporterB := stdout.BuildSpanExporter(otelexport.BuilderOf(os.Stdout), config.ReaderOf(false))
//
//	runtimeB := otelexport.Map(exporterB, func(e *stdouttrace.Exporter) (otelexport.Runtime, error) {
//	    return otelexport.RuntimeFunc(func(ctx context.Context) error {
//	        return e.Shutdown(ctx)
//	    }), nil
//	})
//
//	runner := otelexport.RecoverPanics(
//	    otelexport.NotifyOnSignal(
//	        otelexport.DefaultRunner[otelexport.Runtime](),
//	        os.Interrupt,
//	    ),
//	)
//	if err := runner.Run(context.Background(), runtimeB); err != nil {
//	    log.Fatal(err)
//	}
package otelexport
