package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	// HeaderTraceID returns the trace id to the client.
	HeaderTraceID = "X-Trace-ID"

	httpTracerName = "inventory/http"
)

// Tracing opens the server span for a request, continuing a W3C traceparent
// sent by the caller. Use case spans become its children.
//
// With tracing disabled the global provider is a no-op and this only costs a
// context lookup.
func Tracing() gin.HandlerFunc {
	tracer := otel.Tracer(httpTracerName)
	propagator := otel.GetTextMapPropagator()

	return func(c *gin.Context) {
		ctx := propagator.Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx, span := tracer.Start(ctx, c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", c.Request.Method),
				attribute.String("http.route", route),
				attribute.String("request_id", GetRequestID(c)),
			),
		)
		defer span.End()

		if sc := span.SpanContext(); sc.IsValid() {
			c.Header(HeaderTraceID, sc.TraceID().String())
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.String("http.response.status_code", strconv.Itoa(status)))
		if status >= 500 {
			span.SetStatus(codes.Error, strconv.Itoa(status))
		}
	}
}
