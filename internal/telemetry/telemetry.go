// Package telemetry configures OpenTelemetry tracing for the HTTP surface.
// The analysis core stays untraced; spans cover request handling so slow
// report computations show up per route.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// ServiceName identifies this service in exported traces.
	ServiceName = "yemen-market-analysis"
	// ServiceVersion indicates the current version of the service.
	ServiceVersion = "1.0.0"
)

// Config holds configuration for the tracing setup.
type Config struct {
	Enabled      bool
	OTLPEndpoint string
	Environment  string
}

// Provider wraps the tracer provider so main can shut it down cleanly.
type Provider struct {
	shutdown func(context.Context) error
}

// Init sets up the global tracer provider and propagator. With no OTLP
// endpoint configured, spans go to a stdout exporter; disabled telemetry
// installs nothing and returns a no-op provider.
func Init(cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{shutdown: func(context.Context) error { return nil }}, nil
	}

	ctx := context.Background()

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace resource: %w", err)
	}

	var exporter sdktrace.SpanExporter
	if cfg.OTLPEndpoint != "" {
		exporter, err = otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(cfg.OTLPEndpoint),
			otlptracehttp.WithInsecure(),
		)
	} else {
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Provider{shutdown: provider.Shutdown}, nil
}

// Shutdown flushes pending spans. Safe on a no-op provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.shutdown == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.shutdown(ctx)
}

// GetHTTPTracer returns the tracer used for HTTP request spans.
func GetHTTPTracer() trace.Tracer {
	return otel.Tracer(ServiceName + "/http")
}
