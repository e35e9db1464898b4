// Package domain defines the flashcard backend's data contract as seen by the
// client: decks, cards, books and their reading progress, generated draft cards,
// storage quota, and the request payloads that mutate them.
//
// The types mirror the backend's JSON wire format. Request payloads carry
// validator tags so callers can reject obviously invalid input before any
// network I/O; the backend remains the authority on what it accepts.
package domain
