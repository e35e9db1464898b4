// Package search holds the search-as-you-type helpers: a timer-based
// debouncer that coalesces keystrokes, and a paginator that walks the card
// search endpoint by cursor.
package search
