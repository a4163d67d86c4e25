package baggage

import (
	"maps"
	"reflect"
)

// Baggage is a value-semantic bag of typed entries, one per key type.
// The zero value is an empty bag ready for use. Bags are safe to copy
// and to read concurrently; writes go through Set and Delete, which
// return a new bag and leave every previously obtained copy untouched.
type Baggage struct {
	storage map[reflect.Type]entry
}

// entry pairs a stored value with the erased key it was written under,
// so iteration can hand visitors the resolved display name without
// re-deriving it.
type entry struct {
	key   AnyKey
	value any
}

// TopLevel returns a new, empty bag. Use it at processing roots that
// have no inherited baggage: application entry points, background
// workers, scheduled jobs.
func TopLevel() Baggage {
	return Baggage{}
}

// Get returns the value stored under the key type K. Absence is
// reported through the second return value, never as an error. The
// value is guaranteed to be of K's declared value type because Set is
// the only write path.
func Get[K Key[V], V any](bag Baggage) (V, bool) {
	e, ok := bag.storage[typeOf[K]()]
	if !ok {
		var zero V
		return zero, false
	}

	return e.value.(V), true
}

// Set returns a copy of bag with value stored under the key type K,
// inserting or overwriting. The receiver is not modified.
func Set[K Key[V], V any](bag Baggage, value V) Baggage {
	next := maps.Clone(bag.storage)
	if next == nil {
		next = make(map[reflect.Type]entry, 1)
	}

	next[typeOf[K]()] = entry{key: KeyOf[K](), value: value}

	return Baggage{storage: next}
}

// Delete returns a copy of bag without an entry for the key type K. It
// is the "set to absent" half of the write surface; deleting an absent
// key returns the bag unchanged.
func Delete[K Key[V], V any](bag Baggage) Baggage {
	if _, ok := bag.storage[typeOf[K]()]; !ok {
		return bag
	}

	next := maps.Clone(bag.storage)
	delete(next, typeOf[K]())

	return Baggage{storage: next}
}

// Len returns the number of entries in the bag.
func (b Baggage) Len() int {
	return len(b.storage)
}

// IsEmpty reports whether the bag holds no entries.
func (b Baggage) IsEmpty() bool {
	return len(b.storage) == 0
}

// ForEach calls fn once per entry, in unspecified order. Callers must
// not depend on ordering. The first non-nil error returned by fn aborts
// iteration and is returned unchanged. This is deliberately the only
// bulk-read surface: the bag carries narrow cross-cutting metadata, not
// general-purpose data.
func (b Baggage) ForEach(fn func(key AnyKey, value any) error) error {
	for _, e := range b.storage {
		if err := fn(e.key, e.value); err != nil {
			return err
		}
	}

	return nil
}
