// Package textutil holds the small text helpers shared by the client: Unicode
// case-insensitive matching for list filters, markup stripping for card
// rendering, and name derivation for uploads and lock files.
package textutil
