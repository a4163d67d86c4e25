package benchmark

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jsamuelsen/servicecontext/baggage"
	"github.com/jsamuelsen/servicecontext/slogctx"
)

type (
	requestIDKey struct{ baggage.Slot[string] }
	tenantKey    struct{ baggage.Slot[string] }
	attemptKey   struct{ baggage.Slot[int] }
)

// seededBag builds a bag with a few representative entries.
func seededBag() baggage.Baggage {
	bag := baggage.TopLevel()
	bag = baggage.Set[requestIDKey](bag, "req-123")
	bag = baggage.Set[tenantKey](bag, "acme")
	bag = baggage.Set[attemptKey](bag, 3)
	return bag
}

// BenchmarkGet measures a typed read from a populated bag.
// This is the hot path: every log record and span annotation reads.
func BenchmarkGet(b *testing.B) {
	bag := seededBag()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, ok := baggage.Get[requestIDKey](bag); !ok {
			b.Fatal("missing value")
		}
	}
}

// BenchmarkSet measures the copy-on-write cost of adding an entry.
func BenchmarkSet(b *testing.B) {
	bag := seededBag()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = baggage.Set[requestIDKey](bag, "req-456")
	}
}

// BenchmarkForEach measures full iteration over a populated bag.
func BenchmarkForEach(b *testing.B) {
	bag := seededBag()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = bag.ForEach(func(baggage.AnyKey, any) error { return nil })
	}
}

// BenchmarkContextRoundTrip measures binding a bag on a context and
// reading it back, the per-request overhead of ambient propagation.
func BenchmarkContextRoundTrip(b *testing.B) {
	bag := seededBag()
	base := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		ctx := baggage.ContextWithBaggage(base, bag)
		if _, ok := baggage.FromContext(ctx); !ok {
			b.Fatal("missing bag")
		}
	}
}

// BenchmarkLogWithBaggage measures a full log emission through the
// baggage-aware handler with an ambient bag on the context.
func BenchmarkLogWithBaggage(b *testing.B) {
	logger := slog.New(slogctx.NewHandler(slog.NewJSONHandler(io.Discard, nil)))
	ctx := baggage.ContextWithBaggage(context.Background(), seededBag())

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		logger.InfoContext(ctx, "benchmark record", slog.Int("iteration", i))
	}
}

// BenchmarkLogWithoutBaggage is the baseline for the handler's
// empty-bag fast path.
func BenchmarkLogWithoutBaggage(b *testing.B) {
	logger := slog.New(slogctx.NewHandler(slog.NewJSONHandler(io.Discard, nil)))
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		logger.InfoContext(ctx, "benchmark record", slog.Int("iteration", i))
	}
}
