package baggage

// Carrier is implemented by host types that carry a bag alongside their
// own fields (a request envelope, a job descriptor, a framework
// context). Exposing the bag through this interface lets callers treat
// the carrier wherever baggage is expected, via the helpers below.
type Carrier interface {
	// Baggage returns the carried bag.
	Baggage() Baggage

	// SetBaggage replaces the carried bag.
	SetBaggage(bag Baggage)
}

// GetFrom reads the value under key type K from the carrier's bag.
func GetFrom[K Key[V], V any](c Carrier) (V, bool) {
	return Get[K](c.Baggage())
}

// SetOn writes value under key type K into the carrier's bag.
func SetOn[K Key[V], V any](c Carrier, value V) {
	c.SetBaggage(Set[K](c.Baggage(), value))
}

// DeleteFrom removes the entry under key type K from the carrier's bag.
func DeleteFrom[K Key[V], V any](c Carrier) {
	c.SetBaggage(Delete[K](c.Baggage()))
}

// ForEachIn iterates the carrier's bag with ForEach semantics.
func ForEachIn(c Carrier, fn func(key AnyKey, value any) error) error {
	return c.Baggage().ForEach(fn)
}
