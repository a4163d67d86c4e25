// Package otelbridge renders baggage entries into OpenTelemetry spans
// and W3C baggage, so metadata carried in-process crosses process
// boundaries through the usual otel propagators.
package otelbridge

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	otelbaggage "go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/servicecontext/baggage"
)

// SpanAttributes renders every entry of bag as a span attribute, keyed
// by the entry's display name. Native attribute types are preserved;
// anything else is stringified.
func SpanAttributes(bag baggage.Baggage) []attribute.KeyValue {
	if bag.IsEmpty() {
		return nil
	}

	attrs := make([]attribute.KeyValue, 0, bag.Len())

	_ = bag.ForEach(func(key baggage.AnyKey, value any) error {
		attrs = append(attrs, spanAttribute(key.Name(), value))
		return nil
	})

	return attrs
}

func spanAttribute(name string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(name, v)
	case bool:
		return attribute.Bool(name, v)
	case int:
		return attribute.Int(name, v)
	case int64:
		return attribute.Int64(name, v)
	case float64:
		return attribute.Float64(name, v)
	default:
		return attribute.String(name, fmt.Sprint(v))
	}
}

// AnnotateSpan copies the ambient bag's entries onto the span recording
// on ctx. No-op without a binding or a recording span.
func AnnotateSpan(ctx context.Context) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	bag, ok := baggage.FromContext(ctx)
	if !ok {
		return
	}

	span.SetAttributes(SpanAttributes(bag)...)
}

// InjectBaggage copies the ambient bag's entries into otel baggage on
// the returned context, stringifying values, so outbound propagators
// carry them across process boundaries. Entries whose rendered value is
// not a legal baggage member abort the injection with an error; the
// original context is returned unchanged in that case.
func InjectBaggage(ctx context.Context) (context.Context, error) {
	bag, ok := baggage.FromContext(ctx)
	if !ok || bag.IsEmpty() {
		return ctx, nil
	}

	members := make([]otelbaggage.Member, 0, bag.Len())

	err := bag.ForEach(func(key baggage.AnyKey, value any) error {
		member, err := otelbaggage.NewMemberRaw(key.Name(), fmt.Sprint(value))
		if err != nil {
			return fmt.Errorf("baggage member %q: %w", key.Name(), err)
		}

		members = append(members, member)

		return nil
	})
	if err != nil {
		return ctx, err
	}

	ob, err := otelbaggage.New(members...)
	if err != nil {
		return ctx, fmt.Errorf("building otel baggage: %w", err)
	}

	return otelbaggage.ContextWithBaggage(ctx, ob), nil
}
