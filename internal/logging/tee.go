package logging

import (
	"context"
	"log/slog"
)

// teeHandler sends each record to every handler whose level accepts it. It
// lets the console and the log file use different formats.
type teeHandler struct {
	sinks []slog.Handler
}

// TeeHandler combines handlers into one. Nil handlers are dropped; a single
// remaining handler is returned as is.
func TeeHandler(handlers ...slog.Handler) slog.Handler {
	var sinks []slog.Handler
	for _, h := range handlers {
		if h != nil {
			sinks = append(sinks, h)
		}
	}
	switch len(sinks) {
	case 0:
		return NoopHandler{}
	case 1:
		return sinks[0]
	}
	return &teeHandler{sinks: sinks}
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, sink := range h.sinks {
		if sink.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	last := len(h.sinks) - 1
	for i, sink := range h.sinks {
		if !sink.Enabled(ctx, record.Level) {
			continue
		}
		// Handlers may retain the record, so all but the last get a clone.
		rec := record
		if i < last {
			rec = record.Clone()
		}
		if err := sink.Handle(ctx, rec); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.each(func(sink slog.Handler) slog.Handler { return sink.WithAttrs(attrs) })
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return h.each(func(sink slog.Handler) slog.Handler { return sink.WithGroup(name) })
}

func (h *teeHandler) each(fn func(slog.Handler) slog.Handler) slog.Handler {
	next := make([]slog.Handler, len(h.sinks))
	for i, sink := range h.sinks {
		next[i] = fn(sink)
	}
	return &teeHandler{sinks: next}
}
