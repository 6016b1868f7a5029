// Package telemetry sets up OpenTelemetry tracing: the global tracer
// provider, the exporter chosen by OTEL_EXPORTER and the HTTP middleware
// that opens a server span per request.
package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// Exporter names accepted by Init.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Init installs a global tracer provider for the chosen exporter and
// returns its shutdown func. With ExporterNone nothing is installed and the
// otel no-op tracer stays in place.
func Init(ctx context.Context, service, version, exporter, endpoint string) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	var (
		exp sdktrace.SpanExporter
		err error
	)
	switch exporter {
	case "", ExporterNone:
		return noop, nil
	case ExporterStdout:
		exp, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case ExporterOTLP:
		exp, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
	default:
		return noop, fmt.Errorf("telemetry: unknown exporter %q", exporter)
	}
	if err != nil {
		return noop, fmt.Errorf("telemetry: exporter %s: %w", exporter, err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceNameKey.String(service),
			semconv.ServiceVersionKey.String(version),
		),
	)
	if err != nil {
		return noop, fmt.Errorf("telemetry: resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

// untraced paths are scraped constantly and would drown real traces.
var untraced = map[string]bool{
	"/metrics": true,
	"/healthz": true,
}

// Middleware opens a server span per request, named "METHOD /path".
func Middleware(service string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, service,
			otelhttp.WithFilter(func(r *http.Request) bool {
				return !untraced[r.URL.Path]
			}),
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	}
}
