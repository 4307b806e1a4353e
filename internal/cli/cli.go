// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package cli implements the gha-otel-export command line.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/z5labs/otelexport/internal/maskslog"
	"github.com/z5labs/otelexport/internal/otelslog"
	"github.com/z5labs/otelexport/internal/slogfield"
	"github.com/z5labs/otelexport/tracing"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
)

type options struct {
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	registry *tracing.Registry
}

// Option configures the command tree built by [New].
type Option func(*options)

// Stdin sets where span records are read from when no file is given.
func Stdin(r io.Reader) Option {
	return func(o *options) {
		o.stdin = r
	}
}

// Stdout sets where the stdout exporter writes spans.
func Stdout(w io.Writer) Option {
	return func(o *options) {
		o.stdout = w
	}
}

// Stderr sets where logs are written.
func Stderr(w io.Writer) Option {
	return func(o *options) {
		o.stderr = w
	}
}

// Registry sets the [tracing.Registry] the tracer provider is
// registered through. It defaults to [tracing.GlobalRegistry].
func Registry(r *tracing.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// New returns the root gha-otel-export command.
func New(opts ...Option) *cobra.Command {
	o := &options{
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		registry: tracing.GlobalRegistry(),
	}
	for _, opt := range opts {
		opt(o)
	}

	v := newViper()

	root := &cobra.Command{
		Use:           "gha-otel-export",
		Short:         "Export finished span records through an OpenTelemetry tracing pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(o.stdin)
	root.SetOut(o.stdout)
	root.SetErr(o.stderr)

	pfs := root.PersistentFlags()
	pfs.String("config", "", "path to a YAML config file")
	pfs.String("log-level", "info", "minimum log level (debug, info, warn, error)")
	pfs.String("log-format", "json", "log output format (json, text)")

	root.AddCommand(newExportCommand(v, o))

	// errors from binding are programmer errors in flagKeys
	if err := bindFlags(v, pfs); err != nil {
		panic(err)
	}
	return root
}

// Execute runs the root command with the given arguments.
func Execute(ctx context.Context, args []string, opts ...Option) error {
	cmd := New(opts...)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newLogHandler(w io.Writer, cfg Config) (slog.Handler, error) {
	ho := &slog.HandlerOptions{Level: cfg.Log.Level}

	var h slog.Handler
	switch format := strings.ToLower(strings.TrimSpace(cfg.Log.Format)); format {
	case "", "json":
		h = slog.NewJSONHandler(w, ho)
	case "text":
		h = slog.NewTextHandler(w, ho)
	default:
		return nil, UnknownLogFormatError{Format: cfg.Log.Format}
	}
	return maskslog.NewHandler(otelslog.NewHandler(h), maskslog.Keys("headers")), nil
}

// routeOtelDiagnostics sends SDK errors and internal logs through h.
func routeOtelDiagnostics(h slog.Handler) {
	log := slog.New(h)
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		log.Warn("opentelemetry sdk reported an error", slogfield.Error(err))
	}))
	otel.SetLogger(logr.FromSlogHandler(h))
}
