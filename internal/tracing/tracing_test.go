package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestTraceContextRoundTrip(t *testing.T) {
	prevTP, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	ctx, span := Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	carrier := InjectToMap(ctx)
	require.Contains(t, carrier, "traceparent")

	restored := trace.SpanContextFromContext(ExtractFromMap(context.Background(), carrier))
	assert.True(t, restored.IsRemote())
	assert.Equal(t, span.SpanContext().TraceID(), restored.TraceID())
	assert.Equal(t, span.SpanContext().SpanID(), restored.SpanID())
}

func TestExtractFromEmptyMap(t *testing.T) {
	sc := trace.SpanContextFromContext(ExtractFromMap(context.Background(), nil))
	assert.False(t, sc.IsValid())
}
