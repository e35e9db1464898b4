// Package logging assembles the slog loggers used by the flashcard client.
//
// It owns the console and JSON handlers, level parsing, and the fan-out that
// sends diagnostics to stderr and to the log file while keeping stdout free
// for command output. A no-op logger is provided for tests and library callers
// that do not supply one.
package logging
