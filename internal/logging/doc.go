// Package logging assembles the slog loggers used by tessera.
//
// It owns the console and JSON handlers, level parsing, and output routing.
// Context helpers tag log lines with the run ID, import path, and stage
// carried by the request context so every decision about an import can be
// traced back to the run that produced it. A no-op logger is provided for
// tests and wiring code that cannot fail.
package logging
