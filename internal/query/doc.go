// Package query caches backend reads by key and invalidates them by family.
//
// Fetch serves fresh entries from a bounded LRU, deduplicates concurrent
// fetches of one key through singleflight, and retries failed reads a fixed
// number of times. Invalidate marks every entry of the named families stale
// and bumps the family generation; a fetch that began before the bump still
// returns to its caller but never overwrites the entry. Observer adds the
// view-side guard: a response for a key the observer has since moved away
// from is reported as ErrSuperseded instead of being rendered.
package query
