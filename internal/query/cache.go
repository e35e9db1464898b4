package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/amirgolp/flashcard/internal/logging"
)

const (
	defaultMaxEntries = 256
	defaultRetryDelay = 200 * time.Millisecond
)

// Options tunes a Cache.
type Options struct {
	// FreshFor is how long a successful result is served without refetching.
	// Zero means every Fetch goes to the network.
	FreshFor   time.Duration
	MaxEntries int
	// Retries is the number of extra attempts for a failed read.
	Retries    int
	RetryDelay time.Duration
	// Retryable decides whether a failed attempt is retried. Nil retries
	// everything except context cancellation.
	Retryable func(error) bool
	Logger    *slog.Logger
}

type entry struct {
	status     Status
	restore    Status
	loadingGen uint64 // generation of the most recent fetch to begin
	data       any
	hasData    bool
	err        error
	stale      bool
	updatedAt  time.Time
	generation uint64
}

// Cache stores query results keyed by Key. It is safe for concurrent use.
type Cache struct {
	mu          sync.Mutex
	entries     *lru.Cache[Key, *entry]
	generations map[Family]uint64
	group       singleflight.Group
	opts        Options
	logger      *slog.Logger
	now         func() time.Time
}

// New builds a Cache.
func New(opts Options) (*Cache, error) {
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = defaultMaxEntries
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	if opts.Retryable == nil {
		opts.Retryable = defaultRetryable
	}
	entries, err := lru.New[Key, *entry](opts.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("create query cache: %w", err)
	}
	return &Cache{
		entries:     entries,
		generations: make(map[Family]uint64),
		opts:        opts,
		logger:      logging.NewComponentLogger(opts.Logger, "query"),
		now:         time.Now,
	}, nil
}

func defaultRetryable(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// State reports the entry for key. Unknown keys are idle.
func (c *Cache) State(key Key) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries.Peek(key)
	if !ok {
		return Snapshot{Status: StatusIdle}
	}
	return Snapshot{Status: e.status, Data: e.data, Err: e.err, Stale: e.stale, UpdatedAt: e.updatedAt}
}

// Set stores data for key as a fresh successful result.
func (c *Cache) Set(key Key, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Add(key, &entry{
		status:     StatusSuccess,
		data:       data,
		hasData:    true,
		updatedAt:  c.now(),
		generation: c.generations[key.Family],
	})
}

// Invalidate marks every entry in the given families stale. With no
// families, every entry is invalidated.
func (c *Cache) Invalidate(families ...Family) {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := c.entries.Keys()
	if len(families) == 0 {
		seen := make(map[Family]struct{})
		for f := range c.generations {
			seen[f] = struct{}{}
		}
		for _, key := range keys {
			seen[key.Family] = struct{}{}
		}
		for f := range seen {
			families = append(families, f)
		}
	}
	match := make(map[Family]struct{}, len(families))
	for _, f := range families {
		if _, dup := match[f]; dup {
			continue
		}
		match[f] = struct{}{}
		c.generations[f]++
	}
	for _, key := range keys {
		if _, ok := match[key.Family]; !ok {
			continue
		}
		if e, ok := c.entries.Peek(key); ok {
			e.stale = true
		}
	}
	c.logger.Debug("invalidated query families", logging.Any("families", families))
}

// Generation returns the current generation of a family.
func (c *Cache) Generation(family Family) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[family]
}

func (c *Cache) fresh(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries.Get(key)
	if !ok || e.status != StatusSuccess || e.stale || !e.hasData {
		return nil, false
	}
	if c.opts.FreshFor <= 0 || c.now().Sub(e.updatedAt) >= c.opts.FreshFor {
		return nil, false
	}
	return e.data, true
}

// begin marks key as loading and returns the family generation the fetch
// belongs to.
func (c *Cache) begin(key Key) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen := c.generations[key.Family]
	e, ok := c.entries.Peek(key)
	if !ok {
		e = &entry{status: StatusIdle}
		c.entries.Add(key, e)
	}
	if e.status != StatusLoading {
		e.restore = e.status
	}
	e.status = StatusLoading
	e.loadingGen = gen
	return gen
}

// finish records the outcome unless the family was invalidated after the
// fetch began.
func (c *Cache) finish(key Key, gen uint64, data any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries.Peek(key)
	if !ok {
		return
	}
	if c.generations[key.Family] != gen {
		// A newer fetch owns the loading status until it finishes.
		if e.status == StatusLoading && e.loadingGen == gen {
			e.status = e.restore
		}
		c.logger.Debug("discarded stale query result", logging.String(logging.FieldQueryKey, key.String()))
		return
	}
	e.updatedAt = c.now()
	e.generation = gen
	if err != nil {
		e.status = StatusError
		e.err = err
		return
	}
	e.status = StatusSuccess
	e.err = nil
	e.data = data
	e.hasData = true
	e.stale = false
}

func (c *Cache) load(ctx context.Context, key Key, fn func(context.Context) (any, error)) (any, error) {
	gen := c.begin(key)
	flightKey := key.String() + "#" + strconv.FormatUint(gen, 10)
	v, err, _ := c.group.Do(flightKey, func() (any, error) {
		data, err := c.attempt(ctx, key, fn)
		c.finish(key, gen, data, err)
		return data, err
	})
	return v, err
}

func (c *Cache) attempt(ctx context.Context, key Key, fn func(context.Context) (any, error)) (any, error) {
	var lastErr error
	for attempt := 0; attempt <= c.opts.Retries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying query",
				logging.String(logging.FieldQueryKey, key.String()),
				logging.Int("attempt", attempt),
				logging.Error(lastErr))
			timer := time.NewTimer(time.Duration(attempt) * c.opts.RetryDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
		data, err := fn(ctx)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !c.opts.Retryable(err) {
			break
		}
	}
	return nil, lastErr
}

// Fetch returns the cached value for key when fresh, otherwise calls fn.
// Concurrent callers for the same key and generation share one call.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := c.fresh(key); ok {
		if typed, ok := v.(T); ok {
			c.logger.Debug("query cache hit", logging.String(logging.FieldQueryKey, key.String()))
			return typed, nil
		}
	}
	v, err := c.load(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("query %s: cached %T, want %T", key, v, zero)
	}
	return typed, nil
}

// Mutate runs fn and, only when it succeeds, invalidates the given families.
// Mutations are never retried.
func Mutate[T any](ctx context.Context, c *Cache, fn func(context.Context) (T, error), families ...Family) (T, error) {
	result, err := fn(ctx)
	if err != nil {
		return result, err
	}
	c.Invalidate(families...)
	return result, nil
}
