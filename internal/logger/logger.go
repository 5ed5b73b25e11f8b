// Package logger carries request scoped log attributes through a context.
package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

type ctxKey struct{}

// ContextHandler wraps a [slog.Handler], adding to each record whatever
// attributes were stashed in the context with [Ctx].
type ContextHandler struct {
	slog.Handler
}

func (h ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	if attrs, ok := ctx.Value(ctxKey{}).([]slog.Attr); ok {
		record.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, record)
}

func (h ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h ContextHandler) WithGroup(name string) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithGroup(name)}
}

// New builds the process logger. Format is "json" or "text"; anything else
// falls back to text.
func New(w io.Writer, format string, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}

	var base slog.Handler = slog.NewTextHandler(w, opts)
	if strings.EqualFold(format, "json") {
		base = slog.NewJSONHandler(w, opts)
	}

	return slog.New(ContextHandler{Handler: base})
}

// Ctx returns a context carrying the given attributes on top of any already
// attached.
func Ctx(ctx context.Context, toAppend ...slog.Attr) context.Context {
	prev, _ := ctx.Value(ctxKey{}).([]slog.Attr)

	attrs := make([]slog.Attr, 0, len(prev)+len(toAppend))
	attrs = append(attrs, prev...)
	attrs = append(attrs, toAppend...)
	return context.WithValue(ctx, ctxKey{}, attrs)
}
