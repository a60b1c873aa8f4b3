// Package collections holds the in-memory domain collections the dashboard
// engines read from. Each collection is loaded from a remote Source and kept
// in sync by round-tripping every mutation through that Source.
package collections

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Keyed is implemented by every domain record.
type Keyed interface {
	Key() string
}

// Source is the remote table store behind a collection.
type Source[T any, C any, U any] interface {
	List(ctx context.Context) ([]T, error)
	Insert(ctx context.Context, input C) (T, error)
	Update(ctx context.Context, id string, patch U) (T, error)
	Delete(ctx context.Context, id string) error
}

// State reports the load status of a collection.
type State struct {
	Loading bool   `json:"loading"`
	Loaded  bool   `json:"loaded"`
	Error   string `json:"error,omitempty"`
	Count   int    `json:"count"`
}

// Collection is a concurrency-safe list of T mirrored from a Source.
// C is the create input and U the partial update type.
type Collection[T Keyed, C any, U any] struct {
	name   string
	source Source[T, C, U]
	logger *zap.Logger

	mu         sync.RWMutex
	items      []T
	loading    bool
	loaded     bool
	errMsg     string
	generation uint64
	// pending holds mutations applied while a fetch is in flight; they are
	// replayed over the fetched rows.
	pending []func([]T) []T

	ready     chan struct{}
	readyOnce sync.Once
}

// New creates an empty collection. Nothing is fetched until Fetch is called.
func New[T Keyed, C any, U any](name string, source Source[T, C, U], logger *zap.Logger) *Collection[T, C, U] {
	return &Collection[T, C, U]{
		name:   name,
		source: source,
		logger: logger.Named(name + "-collection"),
		ready:  make(chan struct{}),
	}
}

// Name returns the collection name used in logs.
func (c *Collection[T, C, U]) Name() string {
	return c.name
}

// Fetch replaces the contents with a fresh listing from the source.
// On failure the error is recorded and the collection reads as empty.
// A result that arrives after a newer Fetch started is discarded.
func (c *Collection[T, C, U]) Fetch(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.loading = true
	c.pending = nil
	c.mu.Unlock()

	items, err := c.source.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Debug("Discarding stale fetch", zap.Uint64("generation", gen))
		return err
	}

	c.loading = false
	pending := c.pending
	c.pending = nil
	defer c.markReady()

	if err != nil {
		c.items = nil
		c.loaded = false
		c.errMsg = err.Error()
		c.logger.Error("Failed to fetch collection", zap.Error(err))
		return err
	}

	for _, apply := range pending {
		items = apply(items)
	}
	c.items = items
	c.loaded = true
	c.errMsg = ""
	c.logger.Debug("Fetched collection", zap.Int("count", len(items)), zap.Int("replayed", len(pending)))
	return nil
}

func (c *Collection[T, C, U]) markReady() {
	c.readyOnce.Do(func() { close(c.ready) })
}

// Ready is closed once the first Fetch has completed, successfully or not.
func (c *Collection[T, C, U]) Ready() <-chan struct{} {
	return c.ready
}

// Items returns a copy of the current contents.
func (c *Collection[T, C, U]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the item with the given key.
func (c *Collection[T, C, U]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, item := range c.items {
		if item.Key() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// State returns the current load status.
func (c *Collection[T, C, U]) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return State{
		Loading: c.loading,
		Loaded:  c.loaded,
		Error:   c.errMsg,
		Count:   len(c.items),
	}
}

// Create inserts through the source and prepends the stored record.
func (c *Collection[T, C, U]) Create(ctx context.Context, input C) (T, error) {
	item, err := c.source.Insert(ctx, input)
	if err != nil {
		return item, err
	}
	c.mutate(func(items []T) []T { return upsertItem(items, item) })
	return item, nil
}

// Update patches through the source and replaces the record in place.
func (c *Collection[T, C, U]) Update(ctx context.Context, id string, patch U) (T, error) {
	item, err := c.source.Update(ctx, id, patch)
	if err != nil {
		return item, err
	}
	c.mutate(func(items []T) []T { return replaceItem(items, id, item) })
	return item, nil
}

// Delete removes through the source and then drops the record locally.
func (c *Collection[T, C, U]) Delete(ctx context.Context, id string) error {
	if err := c.source.Delete(ctx, id); err != nil {
		return err
	}
	c.mutate(func(items []T) []T { return removeItem(items, id) })
	return nil
}

// mutate applies fn to the current items and, while a fetch is in flight,
// queues it for replay over that fetch's result.
func (c *Collection[T, C, U]) mutate(fn func([]T) []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = fn(c.items)
	if c.loading {
		c.pending = append(c.pending, fn)
	}
}

// upsertItem prepends item, or replaces it in place when the key is
// already present.
func upsertItem[T Keyed](items []T, item T) []T {
	for i := range items {
		if items[i].Key() == item.Key() {
			out := slices.Clone(items)
			out[i] = item
			return out
		}
	}
	return append([]T{item}, items...)
}

func replaceItem[T Keyed](items []T, id string, item T) []T {
	out := slices.Clone(items)
	for i := range out {
		if out[i].Key() == id {
			out[i] = item
			break
		}
	}
	return out
}

func removeItem[T Keyed](items []T, id string) []T {
	return slices.DeleteFunc(slices.Clone(items), func(item T) bool { return item.Key() == id })
}
