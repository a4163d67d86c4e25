package baggage

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

type ctxKey struct{}

// ContextWithBaggage binds bag as the ambient baggage for everything
// derived from the returned context. The parent context is unchanged,
// so the binding ends with the derived context's extent and a child's
// own re-bindings never leak back up.
func ContextWithBaggage(ctx context.Context, bag Baggage) context.Context {
	return context.WithValue(ctx, ctxKey{}, bag)
}

// FromContext returns the ambient bag bound on ctx. Outside any binding
// it reports absence, never a fault.
func FromContext(ctx context.Context) (Baggage, bool) {
	if ctx == nil {
		return Baggage{}, false
	}

	bag, ok := ctx.Value(ctxKey{}).(Baggage)

	return bag, ok
}

// FromContextOrTopLevel returns the ambient bag bound on ctx, or an
// empty top-level bag when none is bound.
func FromContextOrTopLevel(ctx context.Context) Baggage {
	bag, _ := FromContext(ctx)
	return bag
}

// Scope runs fn with bag bound as the ambient baggage for fn's dynamic
// extent. The previous binding (possibly none) is what callers continue
// to observe on their own context afterwards, regardless of how fn
// returns. fn's error is returned unchanged.
func Scope(ctx context.Context, bag Baggage, fn func(ctx context.Context) error) error {
	return fn(ContextWithBaggage(ctx, bag))
}

// Go runs fns concurrently, each receiving a context derived from ctx
// so every child inherits the ambient baggage bound at spawn time.
// Cancellation follows errgroup semantics: the first error cancels the
// shared context and is reported after all functions return. The bag
// itself is inert data and is unaffected by cancellation.
func Go(ctx context.Context, fns ...func(ctx context.Context) error) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, fn := range fns {
		g.Go(func() error {
			return fn(ctx)
		})
	}

	err := g.Wait()
	if err != nil {
		return fmt.Errorf("baggage scope: %w", err)
	}

	return nil
}
