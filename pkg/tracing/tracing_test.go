package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// useInMemoryProvider installs a synchronous in-memory exporter for one test.
func useInMemoryProvider(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(previous)
	})
	return exporter
}

func TestInitTracer(t *testing.T) {
	previous := otel.GetTracerProvider()
	defer otel.SetTracerProvider(previous)

	// The gRPC exporter dials lazily, so no collector is needed here.
	shutdown, err := InitTracer(Config{
		ServiceName: "fabric-inventory-test",
		Endpoint:    "localhost:4317",
		Insecure:    true,
		SampleRatio: 1,
	})
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	_, span := StartSpan(context.Background(), "test", "Lookup")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	_ = shutdown(context.Background())
}

func TestStartSpan_ChildInheritsTrace(t *testing.T) {
	exporter := useInMemoryProvider(t)

	ctx, root := StartSpan(context.Background(), "inventory/sale", "RegisterSale")
	_, child := StartSpan(ctx, "inventory/sale", "LockRoll")
	child.End()
	root.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "LockRoll", spans[0].Name)
	assert.Equal(t, "RegisterSale", spans[1].Name)
	assert.Equal(t, spans[1].SpanContext.TraceID(), spans[0].SpanContext.TraceID())
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
}

func TestRecordError(t *testing.T) {
	exporter := useInMemoryProvider(t)

	_, span := StartSpan(context.Background(), "inventory/sale", "RegisterSale")
	RecordError(span, errors.New("insufficient stock"))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "insufficient stock", spans[0].Status.Description)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "exception", spans[0].Events[0].Name)
}

func TestExtractIDs(t *testing.T) {
	useInMemoryProvider(t)

	assert.Empty(t, ExtractTraceID(context.Background()))
	assert.Empty(t, ExtractSpanID(context.Background()))

	ctx, span := StartSpan(context.Background(), "test", "Op")
	defer span.End()

	assert.Equal(t, span.SpanContext().TraceID().String(), ExtractTraceID(ctx))
	assert.Equal(t, span.SpanContext().SpanID().String(), ExtractSpanID(ctx))
	assert.Len(t, ExtractTraceID(ctx), 32)
	assert.Len(t, ExtractSpanID(ctx), 16)
}
