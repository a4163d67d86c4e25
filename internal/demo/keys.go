package demo

import "github.com/jsamuelsen/servicecontext/baggage"

// Baggage keys carried by every request. Exported so downstream code
// can read them; only the types are used, never values.
type (
	// RequestIDKey carries the per-request ID.
	RequestIDKey struct{ baggage.Slot[string] }

	// CorrelationIDKey carries the cross-service transaction ID.
	CorrelationIDKey struct{ baggage.Slot[string] }

	// ClientIPKey carries the originating client address.
	ClientIPKey struct{ baggage.Slot[string] }
)

func (RequestIDKey) BaggageName() string     { return "request_id" }
func (CorrelationIDKey) BaggageName() string { return "correlation_id" }
func (ClientIPKey) BaggageName() string      { return "client_ip" }
