package otel

import (
	"context"
	"os"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/louisbranch/xplorehub"

// Setup initialises OpenTelemetry tracing for the given service.
//
// Tracing is opt-in: when XPLOREHUB_OTEL_ENDPOINT is empty or
// XPLOREHUB_OTEL_ENABLED is "false", Setup returns a no-op shutdown
// function and no global provider is registered. XPLOREHUB_OTEL_SAMPLE_RATIO
// (0..1) switches from always-on sampling to a parent-based ratio.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if strings.EqualFold(os.Getenv("XPLOREHUB_OTEL_ENABLED"), "false") {
		return noop, nil
	}
	endpoint := os.Getenv("XPLOREHUB_OTEL_ENDPOINT")
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noop, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceNamespace("xplorehub"),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(samplerFromEnv()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown, nil
}

// Tracer returns the process tracer. It is a no-op tracer until Setup
// registers a provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

func samplerFromEnv() sdktrace.Sampler {
	raw := strings.TrimSpace(os.Getenv("XPLOREHUB_OTEL_SAMPLE_RATIO"))
	if raw == "" {
		return sdktrace.AlwaysSample()
	}
	ratio, err := strconv.ParseFloat(raw, 64)
	if err != nil || ratio < 0 || ratio > 1 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}
