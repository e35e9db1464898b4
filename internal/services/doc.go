// Package services holds helpers shared by the third-party integrations the
// CLI talks to directly, as opposed to through the flashcard backend.
//
// Errors from an integration are wrapped with one of the sentinel markers so
// the CLI can classify them (bad input, bad settings, or an unreachable
// service) and print a matching hint.
package services
