// Package otel wires OpenTelemetry tracing for herowiki commands.
package otel

import (
	"context"
	"fmt"

	"github.com/louisbranch/herowiki/internal/platform/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationPrefix = "github.com/louisbranch/herowiki/"

// Settings holds the tracing environment.
type Settings struct {
	Endpoint    string  `env:"HEROWIKI_OTEL_ENDPOINT"`
	Enabled     bool    `env:"HEROWIKI_OTEL_ENABLED" envDefault:"true"`
	SampleRatio float64 `env:"HEROWIKI_OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// Active reports whether tracing should export spans.
func (s Settings) Active() bool {
	return s.Enabled && s.Endpoint != ""
}

// Setup initialises OpenTelemetry tracing for the given service.
//
// Tracing is opt-in: when HEROWIKI_OTEL_ENDPOINT is empty or
// HEROWIKI_OTEL_ENABLED is false, Setup returns a no-op shutdown function and
// no global provider is registered.
//
// The returned shutdown function flushes pending spans and should be deferred
// by the caller.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	var settings Settings
	if err := config.ParseEnv(&settings); err != nil {
		return noop, fmt.Errorf("otel settings: %w", err)
	}
	if !settings.Active() {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(settings.Endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(settings.SampleRatio)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

func sampler(ratio float64) sdktrace.Sampler {
	if ratio >= 1 {
		return sdktrace.AlwaysSample()
	}
	if ratio <= 0 {
		return sdktrace.NeverSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// Tracer returns the tracer for a herowiki package, for example
// Tracer("models/loader").
func Tracer(pkg string) trace.Tracer {
	return otel.Tracer(instrumentationPrefix + pkg)
}
