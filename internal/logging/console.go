package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

const consoleTimeFormat = "2006-01-02 15:04:05"

// consoleHandler renders one human-readable line per record:
//
//	2026-03-01 09:30:05 WARN  flowcell: saved state unusable [LOT42-C1Q] error="bad json"
//
// The component becomes a prefix and the flow-cell label is lifted out of the
// attribute list so lines about the same cell line up when scanning a terminal.
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     *slog.LevelVar
	addSource bool
	colorize  bool
	attrs     []slog.Attr
	groups    []string
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar, addSource, colorize bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: lvl, addSource: addSource, colorize: colorize}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make([]field, 0, len(h.attrs)+record.NumAttrs())
	for _, attr := range h.attrs {
		fields = appendField(fields, nil, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		fields = appendField(fields, h.groups, attr)
		return true
	})

	var component, cell string
	rest := fields[:0]
	for _, f := range fields {
		switch {
		case f.key == FieldComponent && component == "":
			component = f.text
		case f.key == FieldCell && cell == "":
			cell = f.text
		default:
			rest = append(rest, f)
		}
	}

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var b strings.Builder
	b.WriteString(ts.Format(consoleTimeFormat))
	b.WriteByte(' ')
	b.WriteString(h.levelText(record.Level))
	b.WriteByte(' ')
	if component != "" {
		b.WriteString(component)
		b.WriteString(": ")
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	b.WriteString(msg)
	if cell != "" {
		b.WriteString(" [")
		b.WriteString(cell)
		b.WriteByte(']')
	}
	if h.addSource {
		if src := record.Source(); src != nil {
			fmt.Fprintf(&b, " (%s:%d)", filepath.Base(src.File), src.Line)
		}
	}
	for _, f := range rest {
		b.WriteByte(' ')
		b.WriteString(f.key)
		b.WriteByte('=')
		b.WriteString(quoteField(f.text))
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), qualify(h.groups, attrs)...)
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = append(append([]string(nil), h.groups...), name)
	return &next
}

// qualify binds attrs added through WithAttrs to the groups open at that time.
func qualify(groups []string, attrs []slog.Attr) []slog.Attr {
	if len(groups) == 0 {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		attr.Key = strings.Join(append(append([]string(nil), groups...), attr.Key), ".")
		out[i] = attr
	}
	return out
}

func (h *consoleHandler) levelText(level slog.Level) string {
	var (
		label string
		attr  color.Attribute
	)
	switch {
	case level >= slog.LevelError:
		label, attr = "ERROR", color.FgRed
	case level >= slog.LevelWarn:
		label, attr = "WARN ", color.FgYellow
	case level >= slog.LevelInfo:
		label, attr = "INFO ", color.FgGreen
	default:
		label, attr = "DEBUG", color.FgHiBlack
	}
	if !h.colorize {
		return label
	}
	c := color.New(attr, color.Bold)
	c.EnableColor()
	return c.Sprint(label)
}

type field struct {
	key  string
	text string
}

func appendField(dst []field, groups []string, attr slog.Attr) []field {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	if attr.Value.Kind() == slog.KindGroup {
		prefix := groups
		if attr.Key != "" {
			prefix = append(append([]string(nil), groups...), attr.Key)
		}
		for _, inner := range attr.Value.Group() {
			dst = appendField(dst, prefix, inner)
		}
		return dst
	}
	key := attr.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	return append(dst, field{key: key, text: valueText(attr.Value)})
}

func valueText(v slog.Value) string {
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return v.String()
	}
}

func quoteField(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
