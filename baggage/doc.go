// Package baggage provides a typed, heterogeneous container for
// cross-cutting request metadata (trace identifiers, tenant IDs,
// request-scoped diagnostic fields) that is threaded through call
// chains and across goroutine boundaries without every intermediate
// function knowing about individual fields.
//
// # Keys
//
// Entries are addressed by marker key types, not strings. A key type
// fixes the value type stored under it at compile time, so each concern
// gets a private, collision-free slot and lookups can never return a
// value of the wrong type. Declare a key by embedding Slot:
//
//	type tenantIDKey struct{ baggage.Slot[string] }
//
// Key types carry no state and are never instantiated; only the type
// itself is used. A key's display name defaults to its type name and
// can be overridden by implementing Named:
//
//	func (tenantIDKey) BaggageName() string { return "tenant_id" }
//
// # Reading and writing
//
//	bag := baggage.TopLevel()
//	bag = baggage.Set[tenantIDKey](bag, "acme")
//
//	if tenant, ok := baggage.Get[tenantIDKey](bag); ok {
//	    // tenant is a string, by construction
//	}
//
// Baggage has value semantics: Set and Delete return a new bag and
// never modify the receiver's backing storage, so a bag held by one
// goroutine is never affected by writes made through another copy.
//
// # Propagation
//
// Bind a bag for the dynamic extent of an operation tree with
// ContextWithBaggage (or Scope); work spawned with the derived context
// inherits the binding automatically:
//
//	ctx = baggage.ContextWithBaggage(ctx, bag)
//	err := baggage.Go(ctx,
//	    func(ctx context.Context) error { ... },
//	    func(ctx context.Context) error { ... },
//	)
//
// Re-binding inside a child never leaks back to the parent. Reading the
// ambient bag outside any binding yields absence, never a fault.
//
// # Placeholder bags
//
// Code paths that cannot thread a real bag should call TODO instead of
// TopLevel so the gap stays searchable. TODO records the originating
// file and line, and aborts the process when the strict-mode
// environment toggle is enabled (see StrictTODOEnv).
package baggage
