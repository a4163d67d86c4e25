package baggage

import "reflect"

// Slot declares the value type carried by a marker key type. Embed it
// in an empty struct to define a key:
//
//	type deadlineKey struct{ baggage.Slot[time.Time] }
//
// Slot itself is never used directly.
type Slot[V any] struct{}

// Key constrains marker key types: an empty struct embedding Slot[V]
// and nothing else. Keys are pure compile-time identity tokens; the
// constraint rules out per-instance state.
type Key[V any] interface {
	~struct{ Slot[V] }
}

// Named is implemented by key types that override their display name.
// Without it, a key's name is its own type name. The name is used by
// integrations that render baggage entries (loggers, span attributes),
// not by the container's own lookups.
type Named interface {
	BaggageName() string
}

// AnyKey is a type-erased key: the identity of a key type plus its
// resolved display name. It is what ForEach visitors receive, since the
// concrete key type cannot be spelled there. Two AnyKeys are equal iff
// they erase the same key type; the name derives deterministically from
// the type, so Go's == is consistent with that.
type AnyKey struct {
	typ  reflect.Type
	name string
}

// KeyOf erases the key type K into an AnyKey.
func KeyOf[K Key[V], V any]() AnyKey {
	t := typeOf[K]()

	var k K

	name := t.Name()
	if n, ok := any(k).(Named); ok {
		name = n.BaggageName()
	}

	return AnyKey{typ: t, name: name}
}

// Name returns the key's display name: the BaggageName override if the
// key type declares one, its type name otherwise.
func (k AnyKey) Name() string {
	return k.name
}

// Type returns the reflect.Type identity of the erased key type.
func (k AnyKey) Type() reflect.Type {
	return k.typ
}

func (k AnyKey) String() string {
	return "baggage.AnyKey(" + k.name + ")"
}

// typeOf returns the identity token for a key type without
// instantiating it.
func typeOf[K any]() reflect.Type {
	return reflect.TypeOf((*K)(nil)).Elem()
}
