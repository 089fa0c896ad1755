// Package logging assembles the structured slog loggers used across Pulse.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and defines the shared field-name constants so pipeline stages,
// the sales flow, and the daemon emit log lines with a consistent shape. A
// no-op logger is provided for tests and wiring code that cannot fail.
package logging
