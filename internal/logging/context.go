package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldStack is the standardized structured logging key for stack names.
	FieldStack = "stack"
	// FieldCell is the standardized structured logging key for flow-cell labels.
	FieldCell = "cell"
	// FieldCoordinate is the standardized structured logging key for grid coordinates.
	FieldCoordinate = "coordinate"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to try next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldSessionID distinguishes successive watch runs in a shared log file.
	FieldSessionID = "session_id"
)

type contextKey int

const (
	stackKey contextKey = iota
	cellKey
)

// WithStack records the stack name on ctx.
func WithStack(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, stackKey, name)
}

// WithCell records the flow-cell label on ctx.
func WithCell(ctx context.Context, label string) context.Context {
	return context.WithValue(ctx, cellKey, label)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if name, ok := ctx.Value(stackKey).(string); ok && name != "" {
		fields = append(fields, slog.String(FieldStack, name))
	}
	if label, ok := ctx.Value(cellKey).(string); ok && label != "" {
		fields = append(fields, slog.String(FieldCell, label))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}

// WithSessionID returns a logger whose records all carry session_id.
func WithSessionID(logger *slog.Logger, sessionID string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldSessionID, sessionID))
}
