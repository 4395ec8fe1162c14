// Package telemetry sets up OpenTelemetry tracing for the HTTP API and the
// CLI client.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/dmitrijs2005/todoapi/internal/logging"
)

// DefaultServiceName is reported when Config.ServiceName is empty.
const DefaultServiceName = "todoapi"

// Config selects the OTLP/HTTP collector. An empty Endpoint leaves the
// global no-op tracer in place.
type Config struct {
	Endpoint    string
	ServiceName string
}

// ShutdownFunc flushes pending spans and stops the exporter.
type ShutdownFunc func(ctx context.Context) error

// Init installs a batching tracer provider exporting to cfg.Endpoint and
// returns its shutdown func. The W3C trace context and baggage propagators
// are installed alongside.
func Init(ctx context.Context, cfg Config, logger logging.Logger) (ShutdownFunc, error) {
	if cfg.Endpoint == "" {
		logger.Debug(ctx, "tracing disabled, no OTLP endpoint configured")
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP trace exporter: %w", err)
	}

	name := cfg.ServiceName
	if name == "" {
		name = DefaultServiceName
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", name))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info(ctx, "tracing initialized", "endpoint", cfg.Endpoint, "service_name", name)

	return tp.Shutdown, nil
}
