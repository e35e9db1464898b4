// Package main hosts the flashcard CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into calls on the
// internal service layer: decks and cards, book uploads, draft generation and
// review, storage settings, and a terminal study mode. Configuration, the
// local state database, the login session and the backend client are wired
// once per invocation in commandContext so subcommands only deal with
// presentation.
package main
