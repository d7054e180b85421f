// Package collection keeps the last successfully fetched copy of a remote
// resource collection.
package collection

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Fetcher loads the whole collection from the backend.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Syncer is what a mutation needs to refresh after it succeeds.
type Syncer interface {
	Sync(ctx context.Context) error
}

// Collection is a full-replace cache of one backend collection. A failed
// refresh keeps the previous items and records the error.
type Collection[T any] struct {
	name  string
	fetch Fetcher[T]
	log   *zap.Logger

	mu        sync.RWMutex
	items     []T
	loaded    bool
	lastErr   error
	fetchedAt time.Time
}

var _ Syncer = (*Collection[struct{}])(nil)

func New[T any](name string, fetch Fetcher[T], log *zap.Logger) *Collection[T] {
	return &Collection[T]{name: name, fetch: fetch, log: log.With(zap.String("collection", name))}
}

func (c *Collection[T]) Name() string {
	return c.name
}

// Refresh fetches the collection. On success the items are replaced; on
// failure the last-good items stay in place and the error is returned.
func (c *Collection[T]) Refresh(ctx context.Context) ([]T, error) {
	items, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.lastErr = fmt.Errorf("refresh %s: %w", c.name, err)
		c.log.Warn("refresh failed, keeping previous items", zap.Int("kept", len(c.items)), zap.Error(err))
		return cloneItems(c.items), c.lastErr
	}

	if items == nil {
		items = []T{}
	}
	c.items = items
	c.loaded = true
	c.lastErr = nil
	c.fetchedAt = time.Now()
	c.log.Debug("refreshed", zap.Int("items", len(items)))
	return cloneItems(items), nil
}

// Sync is Refresh without the items.
func (c *Collection[T]) Sync(ctx context.Context) error {
	_, err := c.Refresh(ctx)
	return err
}

// Items returns a copy of the last-good items.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneItems(c.items)
}

// Err is the error of the most recent refresh, nil if it succeeded.
func (c *Collection[T]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Loaded reports whether any refresh has succeeded yet.
func (c *Collection[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *Collection[T]) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}

func cloneItems[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
