// Package logs reads the CLI's own log file for `flashcard logs`.
//
// Last returns the final lines with bounded memory, and Follow polls from an
// offset until the context is cancelled.
package logs
