// Package logging assembles structured slog loggers and formatting helpers used
// across camflow.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes helpers that tag log lines with the component, stack,
// flow-cell label, and watch session. Warnings and errors about persistence go
// through WarnWithContext and ErrorWithContext so every such line carries an
// event_type and a hint for the operator. A no-op logger is provided for tests
// and wiring code that cannot fail.
package logging
