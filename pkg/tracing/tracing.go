// Package tracing wires OpenTelemetry distributed tracing.
//
// A request that registers a sale produces a trace like:
//
//	POST /api/v1/sales                      (http middleware span)
//	└── RegisterSale                        (application span)
//	    ├── SELECT ... FOR UPDATE
//	    ├── INSERT INTO sales
//	    └── UPDATE fabric_rolls
//
// Spans are exported over OTLP/gRPC to a collector (Jaeger, Tempo). When
// tracing is disabled no provider is installed and otel falls back to its
// no-op tracer, so StartSpan stays safe to call everywhere.
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// Config describes where spans go.
type Config struct {
	ServiceName string
	Endpoint    string  // collector host:port, e.g. localhost:4317
	Insecure    bool    // plaintext gRPC, for local collectors
	SampleRatio float64 // 1 samples everything, 0 nothing
}

// InitTracer installs a global TracerProvider exporting to cfg.Endpoint.
//
// The returned shutdown flushes buffered spans and must be called before exit:
//
//	shutdown, err := tracing.InitTracer(cfg)
//	if err != nil { ... }
//	defer shutdown(context.Background())
func InitTracer(cfg Config) (func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create OTLP exporter: %w", err)
	}

	res, err := resource.New(
		ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}

	return shutdown, nil
}

// StartSpan starts a span from the global provider.
//
//	ctx, span := tracing.StartSpan(ctx, "inventory/sale", "RegisterSale")
//	defer span.End()
func StartSpan(ctx context.Context, tracerName, spanName string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, spanName)
}

// RecordError marks span as failed with err.
func RecordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// ExtractTraceID returns the trace id of the active span, or "".
func ExtractTraceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// ExtractSpanID returns the span id of the active span, or "".
func ExtractSpanID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.SpanID().String()
}
