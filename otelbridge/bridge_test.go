package otelbridge_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	otelbaggage "go.opentelemetry.io/otel/baggage"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jsamuelsen/servicecontext/baggage"
	"github.com/jsamuelsen/servicecontext/otelbridge"
)

type (
	tenantKey  struct{ baggage.Slot[string] }
	retriesKey struct{ baggage.Slot[int] }
	sampledKey struct{ baggage.Slot[bool] }
	ratioKey   struct{ baggage.Slot[float64] }
	structKey  struct{ baggage.Slot[struct{ A, B int }] }

	// spacedNameKey renders to a name W3C baggage rejects.
	spacedNameKey struct{ baggage.Slot[string] }
)

func (tenantKey) BaggageName() string     { return "tenant" }
func (spacedNameKey) BaggageName() string { return "not a token" }

func TestSpanAttributes_PreservesNativeTypes(t *testing.T) {
	bag := baggage.TopLevel()
	bag = baggage.Set[tenantKey](bag, "acme")
	bag = baggage.Set[retriesKey](bag, 2)
	bag = baggage.Set[sampledKey](bag, true)
	bag = baggage.Set[ratioKey](bag, 0.25)

	attrs := otelbridge.SpanAttributes(bag)
	require.Len(t, attrs, 4)

	byKey := map[attribute.Key]attribute.Value{}
	for _, kv := range attrs {
		byKey[kv.Key] = kv.Value
	}

	assert.Equal(t, "acme", byKey["tenant"].AsString())
	assert.Equal(t, int64(2), byKey["retriesKey"].AsInt64())
	assert.True(t, byKey["sampledKey"].AsBool())
	assert.InDelta(t, 0.25, byKey["ratioKey"].AsFloat64(), 1e-9)
}

func TestSpanAttributes_StringifiesUnknownTypes(t *testing.T) {
	bag := baggage.Set[structKey](baggage.TopLevel(), struct{ A, B int }{1, 2})

	attrs := otelbridge.SpanAttributes(bag)
	require.Len(t, attrs, 1)
	assert.Equal(t, attribute.STRING, attrs[0].Value.Type())
	assert.Equal(t, "{1 2}", attrs[0].Value.AsString())
}

func TestSpanAttributes_EmptyBag(t *testing.T) {
	assert.Nil(t, otelbridge.SpanAttributes(baggage.TopLevel()))
}

func TestAnnotateSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := provider.Tracer("test")

	bag := baggage.Set[tenantKey](baggage.TopLevel(), "acme")
	ctx := baggage.ContextWithBaggage(context.Background(), bag)

	ctx, span := tracer.Start(ctx, "op")
	otelbridge.AnnotateSpan(ctx)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Attributes(), attribute.String("tenant", "acme"))
}

func TestAnnotateSpan_NoBindingIsNoop(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := provider.Tracer("test")

	ctx, span := tracer.Start(context.Background(), "op")
	otelbridge.AnnotateSpan(ctx)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Empty(t, spans[0].Attributes())
}

func TestInjectBaggage(t *testing.T) {
	bag := baggage.TopLevel()
	bag = baggage.Set[tenantKey](bag, "acme")
	bag = baggage.Set[retriesKey](bag, 2)

	ctx, err := otelbridge.InjectBaggage(
		baggage.ContextWithBaggage(context.Background(), bag))
	require.NoError(t, err)

	ob := otelbaggage.FromContext(ctx)
	assert.Equal(t, "acme", ob.Member("tenant").Value())
	assert.Equal(t, "2", ob.Member("retriesKey").Value())
}

func TestInjectBaggage_InvalidMemberNameAborts(t *testing.T) {
	bag := baggage.TopLevel()
	bag = baggage.Set[tenantKey](bag, "acme")
	bag = baggage.Set[spacedNameKey](bag, "v")

	parent := baggage.ContextWithBaggage(context.Background(), bag)

	ctx, err := otelbridge.InjectBaggage(parent)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a token")

	// The original context comes back untouched; not even the valid
	// members were injected.
	assert.Equal(t, parent, ctx)
	assert.Equal(t, 0, otelbaggage.FromContext(ctx).Len())
}

func TestInjectBaggage_NoBinding(t *testing.T) {
	parent := context.Background()

	ctx, err := otelbridge.InjectBaggage(parent)
	require.NoError(t, err)
	assert.Equal(t, parent, ctx)
}
