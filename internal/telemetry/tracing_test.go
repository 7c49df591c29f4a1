package telemetry

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestNewTracerProvider_RecordsRootSpans(t *testing.T) {
	tp := NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "root")
	defer span.End()

	assert.True(t, span.IsRecording())
	sc := trace.SpanContextFromContext(ctx)
	assert.True(t, sc.IsValid())
	assert.True(t, sc.IsSampled())
}

func TestNewTracerProvider_FollowsRemoteParent(t *testing.T) {
	tp := NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	header := http.Header{}
	header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-00")
	parent := propagation.TraceContext{}.Extract(context.Background(), propagation.HeaderCarrier(header))

	ctx, span := tp.Tracer("test").Start(parent, "child")
	defer span.End()

	sc := trace.SpanContextFromContext(ctx)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", sc.TraceID().String())
	assert.False(t, sc.IsSampled())
}

func TestSetup(t *testing.T) {
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})

	shutdown := Setup()
	require.NotNil(t, shutdown)

	_, span := otel.Tracer("test").Start(context.Background(), "root")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, otel.GetTextMapPropagator().Fields())
	require.NoError(t, shutdown(context.Background()))
}
