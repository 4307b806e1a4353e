// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strings"
	"syscall"

	"github.com/z5labs/otelexport"
	"github.com/z5labs/otelexport/config"
	"github.com/z5labs/otelexport/detect"
	"github.com/z5labs/otelexport/exporter/gcp"
	"github.com/z5labs/otelexport/exporter/noop"
	"github.com/z5labs/otelexport/exporter/otlp"
	"github.com/z5labs/otelexport/exporter/stdout"
	"github.com/z5labs/otelexport/internal/httpclient"
	"github.com/z5labs/otelexport/internal/slogfield"
	"github.com/z5labs/otelexport/internal/try"
	"github.com/z5labs/otelexport/lifecycle"
	"github.com/z5labs/otelexport/spanrecord"
	"github.com/z5labs/otelexport/tracing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"golang.org/x/sync/errgroup"
)

const stdinPath = "-"

func newExportCommand(v *viper.Viper, o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [FILE...]",
		Short: "Replay span record files through the tracing pipeline",
		Long: `Replay span record files through the tracing pipeline.

Records are read from each FILE in order, or from stdin when no FILE
is given or FILE is "-". Files ending in .yaml or .yml are decoded as
YAML and everything else as JSON, unless --format is set.

The command exits non-zero if any record is invalid, any span fails
to be submitted or the final flush fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			h, err := newLogHandler(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}
			routeOtelDiagnostics(h)

			if len(args) == 0 {
				args = []string{stdinPath}
			}

			runner := otelexport.NotifyOnSignal(
				lifecycle.ManageHooks(otelexport.DefaultRunner[*exportRuntime]()),
				os.Interrupt,
				syscall.SIGTERM,
			)
			return runner.Run(cmd.Context(), buildExportRuntime(cfg, h, args, o))
		},
	}

	flags := cmd.Flags()
	flags.String("exporter", "otlp-http", "span exporter (otlp-http, otlp-grpc, stdout, gcp, none)")
	flags.String("service-name", "", "service.name to use when the resource does not set one")
	flags.StringSlice("detectors", []string{string(detect.Env)}, "resource detectors to run, in order")
	flags.String("endpoint", "", "OTLP endpoint; a URL for otlp-http, host:port for otlp-grpc")
	flags.Bool("insecure", false, "disable TLS for the OTLP exporter")
	flags.String("headers", "", "OTLP headers as comma separated key=value pairs")
	flags.String("gcp-project", "", "Google Cloud project to export spans to")
	flags.Bool("pretty", false, "indent spans written by the stdout exporter")
	flags.String("format", "", "span record format (json, yaml); detected from the file extension by default")
	flags.String("metrics-textfile", "", "write export metrics in the Prometheus text format to this file")

	if err := bindFlags(v, flags); err != nil {
		panic(err)
	}
	return cmd
}

type exportRuntime struct {
	log      *slog.Logger
	pipeline *tracing.Pipeline
	gatherer prometheus.Gatherer
	textfile string
	inputs   []input
}

func buildExportRuntime(cfg Config, h slog.Handler, paths []string, o *options) otelexport.Builder[*exportRuntime] {
	return otelexport.BuilderFunc[*exportRuntime](func(ctx context.Context) (*exportRuntime, error) {
		log := slog.New(h)

		log.DebugContext(
			ctx,
			"loaded configuration",
			slogfield.String("exporter", cfg.Exporter),
			slogfield.String("endpoint", cfg.OTLP.Endpoint),
			slogfield.Any("headers", cfg.OTLP.Headers),
			slogfield.Strings("detectors", cfg.Detectors),
		)

		inputs, err := newInputs(paths, cfg.Input.Format, o.stdin)
		if err != nil {
			return nil, err
		}

		kinds, err := detect.ParseKinds(cfg.Detectors)
		if err != nil {
			return nil, err
		}

		exporterOpt, err := exporterOption(cfg, h, o)
		if err != nil {
			return nil, err
		}

		reg := prometheus.NewRegistry()
		metrics, err := tracing.NewMetrics(reg)
		if err != nil {
			return nil, err
		}

		p := tracing.NewPipeline(
			tracing.LogHandler(h),
			tracing.Resource(detect.ServiceName(
				detect.BuildResource(kinds...),
				config.ReaderOf(cfg.ServiceName),
			)),
			exporterOpt,
			tracing.Batch(cfg.Batch),
			tracing.WithRegistry(o.registry),
			tracing.WithMetrics(metrics),
		)
		if err := p.Init(ctx); err != nil {
			return nil, err
		}
		lifecycle.OnPostRun(ctx, lifecycle.Shutdown(p))

		return &exportRuntime{
			log:      log,
			pipeline: p,
			gatherer: reg,
			textfile: cfg.Metrics.Textfile,
			inputs:   inputs,
		}, nil
	})
}

func exporterOption(cfg Config, h slog.Handler, o *options) (tracing.Option, error) {
	switch name := strings.ToLower(strings.TrimSpace(cfg.Exporter)); name {
	case "", "otlp", "otlp-http":
		httpOpts := []otlptracehttp.Option{}
		if len(cfg.OTLP.Headers) > 0 {
			httpOpts = append(httpOpts, otlptracehttp.WithHeaders(cfg.OTLP.Headers))
		}
		if cfg.OTLP.Insecure {
			httpOpts = append(httpOpts, otlptracehttp.WithInsecure())
		}

		clientB := otelexport.BuilderFunc[*http.Client](func(ctx context.Context) (*http.Client, error) {
			return httpclient.New(
				httpclient.Name("otlp"),
				httpclient.LogHandler(h),
				httpclient.Timeout(cfg.Batch.ExportTimeout),
				httpclient.RetryMaxAttempts(cfg.OTLP.Retry.MaxAttempts),
				httpclient.RetryWaitMin(cfg.OTLP.Retry.MinWait),
				httpclient.RetryWaitMax(cfg.OTLP.Retry.MaxWait),
				httpclient.TripAfter(cfg.OTLP.Circuit.TripCount),
				httpclient.OpenStateTimeout(cfg.OTLP.Circuit.Timeout),
				httpclient.HalfOpenRequests(cfg.OTLP.Circuit.HalfOpenRequests),
				httpclient.CountResetInterval(cfg.OTLP.Circuit.ResetInterval),
			), nil
		})

		return tracing.Exporter(otlp.BuildHttpSpanExporter(
			config.ReaderOf(cfg.OTLP.Endpoint),
			clientB,
			httpOpts...,
		)), nil
	case "otlp-grpc":
		var grpcOpts []otlptracegrpc.Option
		if len(cfg.OTLP.Headers) > 0 {
			grpcOpts = append(grpcOpts, otlptracegrpc.WithHeaders(cfg.OTLP.Headers))
		}

		return tracing.Exporter(otlp.BuildGrpcSpanExporter(
			config.ReaderOf(cfg.OTLP.Endpoint),
			config.ReaderOf(cfg.OTLP.Insecure),
			grpcOpts...,
		)), nil
	case "stdout":
		return tracing.Exporter(stdout.BuildSpanExporter(
			otelexport.BuilderOf(o.stdout),
			config.ReaderOf(cfg.Stdout.Pretty),
		)), nil
	case "gcp":
		return tracing.Exporter(gcp.BuildSpanExporter(config.ReaderOf(cfg.GCP.ProjectID))), nil
	case "none", "noop":
		return tracing.Exporter(noop.BuildSpanExporter()), nil
	default:
		return nil, UnknownExporterError{Name: cfg.Exporter}
	}
}

// Run decodes every input, converts the records into spans and
// exports them.
func (rt *exportRuntime) Run(ctx context.Context) error {
	records, err := rt.decode(ctx)
	if err != nil {
		return err
	}

	res, err := rt.pipeline.Resource()
	if err != nil {
		return err
	}

	spans, err := spanrecord.Snapshots(records, res, rt.pipeline.InstrumentationScope())
	invalid := 0
	for _, e := range unwrapJoined(err) {
		invalid++
		rt.log.WarnContext(ctx, "skipping invalid span record", slogfield.Error(e))
	}

	result, exportErr := rt.pipeline.ExportSpans(ctx, spans)

	rt.log.InfoContext(
		ctx,
		"export finished",
		slogfield.Int("records", len(records)),
		slogfield.Int("exported", result.Exported),
		slogfield.Int("failed", result.Failed),
		slogfield.Int("invalid", invalid),
	)

	errs := []error{exportErr, rt.writeMetrics(ctx)}
	if invalid > 0 || result.Failed > 0 {
		errs = append(errs, IncompleteExportError{Invalid: invalid, Failed: result.Failed})
	}
	return errors.Join(errs...)
}

func (rt *exportRuntime) decode(ctx context.Context) ([]spanrecord.Record, error) {
	decoded := make([][]spanrecord.Record, len(rt.inputs))

	g, gctx := errgroup.WithContext(ctx)
	for i, in := range rt.inputs {
		g.Go(func() error {
			records, err := in.decode(gctx)
			if err != nil {
				return InputError{Path: in.path, Cause: err}
			}
			rt.log.DebugContext(gctx, "decoded span records", slogfield.String("path", in.path), slogfield.Int("records", len(records)))
			decoded[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slices.Concat(decoded...), nil
}

func (rt *exportRuntime) writeMetrics(ctx context.Context) error {
	if rt.textfile == "" {
		return nil
	}

	err := prometheus.WriteToTextfile(rt.textfile, rt.gatherer)
	if err != nil {
		rt.log.ErrorContext(ctx, "failed to write metrics", slogfield.String("path", rt.textfile), slogfield.Error(err))
		return err
	}
	return nil
}

func unwrapJoined(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

type input struct {
	path   string
	format spanrecord.Format
	stdin  io.Reader
}

func newInputs(paths []string, format string, stdin io.Reader) ([]input, error) {
	var override *spanrecord.Format
	if format != "" {
		var f spanrecord.Format
		if err := f.UnmarshalText([]byte(format)); err != nil {
			return nil, err
		}
		override = &f
	}

	inputs := make([]input, len(paths))
	seenStdin := false
	for i, path := range paths {
		in := input{path: path, format: spanrecord.FormatFromPath(path)}
		if override != nil {
			in.format = *override
		}
		if path == stdinPath {
			if seenStdin {
				return nil, InputError{Path: path, Cause: ErrStdinRepeated}
			}
			seenStdin = true
			in.stdin = stdin
		}
		inputs[i] = in
	}
	return inputs, nil
}

func (in input) decode(ctx context.Context) (_ []spanrecord.Record, err error) {
	if in.stdin != nil {
		return spanrecord.Decode(in.stdin, in.format)
	}

	f, err := config.Read(ctx, config.ReadFile(in.path))
	if errors.Is(err, config.ErrValueNotSet) {
		return nil, fs.ErrNotExist
	}
	if err != nil {
		return nil, err
	}
	defer try.Close(&err, f)

	return spanrecord.Decode(f, in.format)
}
