package telemetry

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type Config struct {
	// spans are written as JSON lines to this file
	TraceFile string `json:"trace_file"`
	// OTLP/HTTP collector, e.g. http://localhost:4318/v1/traces
	OtlpEndpoint string            `json:"otlp_endpoint"`
	Headers      map[string]string `json:"headers"`
}

func (c Config) Enabled() bool {
	return c.TraceFile != "" || c.OtlpEndpoint != ""
}

type Telemetry struct {
	TracerProvider *trace.TracerProvider
	closers        []io.Closer
}

func (t Telemetry) Shutdown(ctx context.Context) error {
	errlist := []error{}
	if t.TracerProvider != nil {
		err := t.TracerProvider.Shutdown(ctx)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	for _, c := range t.closers {
		err := c.Close()
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	return errors.Join(errlist...)
}

// Setup installs a global tracer provider according to the config. With an
// empty config the global no-op provider is left in place.
func Setup(ctx context.Context, serviceName string, config Config) (Telemetry, error) {
	if !config.Enabled() {
		return Telemetry{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	r, err := newResource(serviceName)
	if err != nil {
		return Telemetry{}, err
	}

	var tel Telemetry
	opts := []trace.TracerProviderOption{trace.WithResource(r)}

	if config.TraceFile != "" {
		f, err := os.OpenFile(config.TraceFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return Telemetry{}, err
		}
		tel.closers = append(tel.closers, f)
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(f))
		if err != nil {
			f.Close()
			return Telemetry{}, err
		}
		// batching would reorder spans across a short-lived CLI run
		opts = append(opts, trace.WithSyncer(exporter))
	}
	if config.OtlpEndpoint != "" {
		exporter, err := otlptracehttp.New(
			ctx,
			otlptracehttp.WithEndpointURL(config.OtlpEndpoint),
			otlptracehttp.WithHeaders(config.Headers),
		)
		if err != nil {
			tel.Shutdown(ctx)
			return Telemetry{}, err
		}
		opts = append(opts, trace.WithBatcher(exporter))
	}

	tel.TracerProvider = trace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tel.TracerProvider)
	return tel, nil
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

// SetupForTesting routes logs through the test output at debug level and
// leaves tracing disabled.
func SetupForTesting(t testing.TB) {
	InitSlogWriter(testWriter{t: t}, true)
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
