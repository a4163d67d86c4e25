package slogctx

import (
	"log/slog"

	"github.com/jsamuelsen/servicecontext/baggage"
)

// Logger returns base decorated so that bag is rendered into every
// record it emits. Decorating an already decorated logger replaces the
// bound bag rather than stacking handlers, giving replacement
// semantics: entries present only in the previous bag stop appearing,
// entries unique to the new bag start appearing.
func Logger(base *slog.Logger, bag baggage.Baggage) *slog.Logger {
	if h, ok := base.Handler().(*Handler); ok {
		return slog.New(h.WithBaggage(bag))
	}

	return slog.New(NewHandler(base.Handler()).WithBaggage(bag))
}
