// Package slogctx bridges baggage into log/slog. A decorated handler
// renders every baggage entry into each record at the moment the record
// is emitted, using the key's display name as the attribute key and a
// string conversion of the value as the attribute value.
package slogctx

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/jsamuelsen/servicecontext/baggage"
)

// Handler decorates an inner slog.Handler with baggage rendering. Two
// sources feed it: the bag explicitly bound via WithBaggage, and the
// ambient bag on the record's context. Rendering happens lazily in
// Handle; the bag itself is never mutated.
//
// Attributes set directly on the logger (Logger.With) that collide with
// a baggage entry's name are dropped from the output: context wins.
type Handler struct {
	inner slog.Handler
	bag   baggage.Baggage
	goas  []groupOrAttrs
}

// groupOrAttrs buffers WithGroup/WithAttrs calls so logger-level
// attributes can be filtered against baggage names at emit time.
type groupOrAttrs struct {
	group string
	attrs []slog.Attr
}

// NewHandler returns a Handler decorating inner with an empty bag.
// Until a bag is bound, output is identical to the undecorated handler.
func NewHandler(inner slog.Handler) *Handler {
	return &Handler{inner: inner}
}

// WithBaggage returns a copy of h bound to bag, replacing any
// previously bound bag wholesale: entries only in the old bag disappear
// from subsequent records, entries only in the new bag appear.
func (h *Handler) WithBaggage(bag baggage.Baggage) *Handler {
	h2 := *h
	h2.bag = bag

	return &h2
}

// Enabled delegates to the inner handler.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// WithAttrs implements slog.Handler. The attributes are buffered rather
// than pushed to the inner handler so same-named baggage entries can
// override them later.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	return h.withGroupOrAttrs(groupOrAttrs{attrs: attrs})
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return h.withGroupOrAttrs(groupOrAttrs{group: name})
}

func (h *Handler) withGroupOrAttrs(goa groupOrAttrs) *Handler {
	h2 := *h
	h2.goas = make([]groupOrAttrs, len(h.goas)+1)
	copy(h2.goas, h.goas)
	h2.goas[len(h.goas)] = goa

	return &h2
}

// Handle renders the current baggage entries and the buffered logger
// attributes into the record, then delegates. With no bound bag, no
// ambient bag, and no buffered attributes it passes the record through
// untouched, so decorating with an empty bag leaves output identical to
// the undecorated handler.
func (h *Handler) Handle(ctx context.Context, rec slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	bagAttrs := h.renderBaggage(ctx)
	if len(bagAttrs) == 0 && len(h.goas) == 0 {
		return h.inner.Handle(ctx, rec)
	}

	inner := h.inner
	if len(bagAttrs) > 0 {
		inner = inner.WithAttrs(bagAttrs)
	}

	shadowed := make(map[string]struct{}, len(bagAttrs))
	for _, a := range bagAttrs {
		shadowed[a.Key] = struct{}{}
	}

	// Replay buffered groups/attrs. Only top-level attrs (before the
	// first group) can collide with baggage names; grouped attrs are
	// qualified and kept as-is.
	grouped := false

	for _, goa := range h.goas {
		if goa.group != "" {
			inner = inner.WithGroup(goa.group)
			grouped = true

			continue
		}

		attrs := goa.attrs
		if !grouped && len(shadowed) > 0 {
			attrs = filterAttrs(attrs, shadowed)
		}

		if len(attrs) > 0 {
			inner = inner.WithAttrs(attrs)
		}
	}

	return inner.Handle(ctx, rec)
}

// renderBaggage stringifies the bound and ambient bags into sorted
// attributes. Entries in the explicitly bound bag take precedence over
// ambient entries of the same name.
func (h *Handler) renderBaggage(ctx context.Context) []slog.Attr {
	if h.bag.IsEmpty() {
		if ambient, ok := baggage.FromContext(ctx); ok {
			return renderBag(ambient, nil)
		}

		return nil
	}

	bound := renderBag(h.bag, nil)

	ambient, ok := baggage.FromContext(ctx)
	if !ok {
		return bound
	}

	names := make(map[string]struct{}, len(bound))
	for _, a := range bound {
		names[a.Key] = struct{}{}
	}

	return renderBag(ambient, names).merge(bound)
}

type attrList []slog.Attr

func (l attrList) merge(other attrList) attrList {
	merged := append(l, other...)
	sortAttrs(merged)

	return merged
}

func renderBag(bag baggage.Baggage, skip map[string]struct{}) attrList {
	if bag.IsEmpty() {
		return nil
	}

	attrs := make(attrList, 0, bag.Len())

	_ = bag.ForEach(func(key baggage.AnyKey, value any) error {
		if _, dup := skip[key.Name()]; dup {
			return nil
		}

		attrs = append(attrs, slog.String(key.Name(), fmt.Sprint(value)))

		return nil
	})

	sortAttrs(attrs)

	return attrs
}

// sortAttrs keeps rendering deterministic even though bag iteration is
// unordered.
func sortAttrs(attrs []slog.Attr) {
	slices.SortFunc(attrs, func(a, b slog.Attr) int {
		return strings.Compare(a.Key, b.Key)
	})
}

func filterAttrs(attrs []slog.Attr, shadowed map[string]struct{}) []slog.Attr {
	kept := make([]slog.Attr, 0, len(attrs))

	for _, a := range attrs {
		if _, drop := shadowed[a.Key]; drop {
			continue
		}

		kept = append(kept, a)
	}

	return kept
}
