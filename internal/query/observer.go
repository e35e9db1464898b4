package query

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned by Observer.Load when the observer moved to a
// different key while the request was in flight.
var ErrSuperseded = errors.New("query superseded by a newer key")

// Observer binds a view to its current key, the way a mounted list is bound
// to its filter. Responses for keys the view has left are discarded.
type Observer[T any] struct {
	cache *Cache

	mu  sync.Mutex
	key Key
	set bool
}

// NewObserver returns an observer over c.
func NewObserver[T any](c *Cache) *Observer[T] {
	return &Observer[T]{cache: c}
}

// Switch points the observer at key without loading it.
func (o *Observer[T]) Switch(key Key) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.key = key
	o.set = true
}

// Key returns the current key and whether one has been set.
func (o *Observer[T]) Key() (Key, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.key, o.set
}

// Load switches to key and fetches it through the cache.
func (o *Observer[T]) Load(ctx context.Context, key Key, fn func(context.Context) (T, error)) (T, error) {
	o.Switch(key)
	v, err := Fetch(ctx, o.cache, key, fn)
	o.mu.Lock()
	current := o.key
	o.mu.Unlock()
	if current != key {
		var zero T
		return zero, ErrSuperseded
	}
	return v, err
}

// State reports the cache entry behind the current key.
func (o *Observer[T]) State() Snapshot {
	key, ok := o.Key()
	if !ok {
		return Snapshot{Status: StatusIdle}
	}
	return o.cache.State(key)
}
