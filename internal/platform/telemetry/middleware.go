package telemetry

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/servicecontext/otelbridge"
)

// Middleware returns the otelgin tracing middleware.
func Middleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// AnnotateBaggage returns middleware that copies the ambient baggage
// bound on the request context onto the active span as attributes and
// exposes the trace ID to clients via the X-Trace-ID header.
//
// Apply after both Middleware and the middleware that binds baggage.
func AnnotateBaggage() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		otelbridge.AnnotateSpan(ctx)

		if span := trace.SpanFromContext(ctx); span.SpanContext().HasTraceID() {
			c.Header("X-Trace-ID", span.SpanContext().TraceID().String())
		}

		c.Next()
	}
}
