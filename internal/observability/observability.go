// Package observability sets up the process-wide slog logger.
//
// Logs go to stderr as text or JSON by default. With an exporter configured
// they are bridged into an OpenTelemetry log pipeline instead and shipped to
// stderr (stdout exporter) or an OTLP collector.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/processors/minsev"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
)

// ServiceName identifies this process in exported telemetry.
const ServiceName = "duslar"

// Exporter selects where logs are shipped.
type Exporter string

const (
	ExporterNone     Exporter = "none"
	ExporterStdout   Exporter = "stdout"
	ExporterOTLPHTTP Exporter = "otlp-http"
	ExporterOTLPGRPC Exporter = "otlp-grpc"
)

// ShutdownFunc flushes and stops the logging pipeline.
type ShutdownFunc func(ctx context.Context) error

// Option configures Instrument.
type Option func(*options)

type options struct {
	exporter Exporter
	endpoint string
	writer   io.Writer
}

// WithExporter ships logs through an OpenTelemetry exporter. endpoint is the
// collector URL for the OTLP exporters; empty means the exporter's default
// (including the OTEL_EXPORTER_OTLP_* environment variables).
func WithExporter(exporter Exporter, endpoint string) Option {
	return func(o *options) {
		o.exporter = exporter
		o.endpoint = endpoint
	}
}

// WithWriter overrides stderr as the destination of local logs.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

// Instrument installs the default slog logger. format is "text" or "json";
// it is ignored when an exporter is configured.
func Instrument(level slog.Level, format string, opts ...Option) (ShutdownFunc, error) {
	o := &options{exporter: ExporterNone, writer: os.Stderr}
	for _, opt := range opts {
		opt(o)
	}

	if o.exporter == "" || o.exporter == ExporterNone {
		handler, err := localHandler(o.writer, level, format)
		if err != nil {
			return nil, err
		}
		slog.SetDefault(slog.New(handler))
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := newExporter(context.Background(), o)
	if err != nil {
		return nil, fmt.Errorf("creating %s log exporter: %w", o.exporter, err)
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithResource(resource.NewSchemaless(attribute.String("service.name", ServiceName))),
		sdklog.WithProcessor(minsev.NewLogProcessor(sdklog.NewBatchProcessor(exporter), severity(level))),
	)
	global.SetLoggerProvider(provider)

	// Pipeline errors must not recurse into the pipeline itself.
	fallback := slog.New(slog.NewTextHandler(o.writer, &slog.HandlerOptions{Level: slog.LevelWarn}))
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		fallback.Warn("telemetry error", "error", err)
	}))

	slog.SetDefault(slog.New(otelslog.NewHandler(ServiceName, otelslog.WithLoggerProvider(provider))))

	return func(ctx context.Context) error {
		return provider.Shutdown(ctx)
	}, nil
}

func localHandler(w io.Writer, level slog.Level, format string) (slog.Handler, error) {
	handlerOpts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.NewTextHandler(w, handlerOpts), nil
	case "json":
		return slog.NewJSONHandler(w, handlerOpts), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}
}

func newExporter(ctx context.Context, o *options) (sdklog.Exporter, error) {
	switch o.exporter {
	case ExporterStdout:
		return stdoutlog.New(stdoutlog.WithWriter(o.writer))
	case ExporterOTLPHTTP:
		var opts []otlploghttp.Option
		if o.endpoint != "" {
			opts = append(opts, otlploghttp.WithEndpointURL(o.endpoint))
		}
		return otlploghttp.New(ctx, opts...)
	case ExporterOTLPGRPC:
		var opts []otlploggrpc.Option
		if o.endpoint != "" {
			opts = append(opts, otlploggrpc.WithEndpointURL(o.endpoint))
		}
		return otlploggrpc.New(ctx, opts...)
	default:
		return nil, errors.New("unknown exporter")
	}
}

// severity maps a slog level onto the minimum exported severity.
func severity(level slog.Level) minsev.Severity {
	switch {
	case level <= slog.LevelDebug:
		return minsev.SeverityDebug
	case level <= slog.LevelInfo:
		return minsev.SeverityInfo
	case level <= slog.LevelWarn:
		return minsev.SeverityWarn
	default:
		return minsev.SeverityError
	}
}
