package datasync

import (
	"sync"

	"github.com/lusoedu/sge-console/internal/models"
	appErrors "github.com/lusoedu/sge-console/pkg/errors"
)

// Collection is the canonical in-memory copy of one server-held list for a
// single screen. It is replaced wholesale by loader refetches and patched in
// place by write controllers. A generation counter guards against stale
// responses: only the response matching the latest issued generation is ever
// applied.
type Collection[T any] struct {
	mu sync.Mutex

	id    func(T) int
	items []T

	issued  uint64
	applied uint64
	loaded  bool
	lastErr error

	// OnStaleDrop is invoked (outside the lock) whenever a superseded
	// response is discarded. Used for metrics.
	OnStaleDrop func()
}

// NewCollection builds an empty canonical list. The id func extracts the
// server-assigned identifier used by patch operations and deduplication.
func NewCollection[T any](id func(T) int) *Collection[T] {
	return &Collection[T]{id: id}
}

// Begin reserves the next read generation. Call it before issuing the fetch
// so that any response from an older fetch can be recognised as stale.
func (c *Collection[T]) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	return c.issued
}

// Apply installs a fetch result. Returns false when the result was stale and
// discarded. A failed read preserves the last-good rows and records the
// error for the screen's banner.
func (c *Collection[T]) Apply(gen uint64, items []T, err error) bool {
	c.mu.Lock()
	if gen != c.issued || gen <= c.applied {
		hook := c.OnStaleDrop
		c.mu.Unlock()
		if hook != nil {
			hook()
		}
		return false
	}
	c.applied = gen
	if err != nil {
		c.lastErr = err
		c.mu.Unlock()
		return true
	}
	c.items = dedupe(items, c.id)
	c.loaded = true
	c.lastErr = nil
	c.mu.Unlock()
	return true
}

// Invalidate bumps the issued generation without applying anything, so every
// in-flight response becomes stale. Used when a screen is closed.
func (c *Collection[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	c.applied = c.issued
}

// Reset discards rows and error state entirely (screen unmount).
func (c *Collection[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	c.applied = c.issued
	c.items = nil
	c.loaded = false
	c.lastErr = nil
}

// Snapshot returns a copy of the canonical rows in server order.
func (c *Collection[T]) Snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the canonical row count.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// State reports the screen-banner view of the collection's health.
func (c *Collection[T]) State() models.ListState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := models.ListState{Loaded: c.loaded, Generation: c.applied}
	if c.lastErr != nil {
		state.Error = appErrors.FromError(c.lastErr).Message
		state.AuthError = appErrors.IsAuth(c.lastErr)
	}
	return state
}

// Err returns the recorded read error, if any.
func (c *Collection[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// ReplaceByID swaps the row with the same id for the given one. Returns
// false when no such row exists.
func (c *Collection[T]) ReplaceByID(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.id == nil {
		return false
	}
	key := c.id(item)
	for i := range c.items {
		if c.id(c.items[i]) == key {
			c.items[i] = item
			return true
		}
	}
	return false
}

// Append adds a row, replacing any existing row with the same id so the
// no-duplicate invariant holds.
func (c *Collection[T]) Append(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.id == nil {
		c.items = append(c.items, item)
		return
	}
	key := c.id(item)
	for i := range c.items {
		if c.id(c.items[i]) == key {
			c.items[i] = item
			return
		}
	}
	c.items = append(c.items, item)
}

// RemoveByID drops the row with the given id. Returns false when absent.
func (c *Collection[T]) RemoveByID(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.id == nil {
		return false
	}
	for i := range c.items {
		if c.id(c.items[i]) == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

func dedupe[T any](items []T, id func(T) int) []T {
	if id == nil {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}
	seen := make(map[int]int, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		key := id(item)
		if pos, ok := seen[key]; ok {
			out[pos] = item
			continue
		}
		seen[key] = len(out)
		out = append(out, item)
	}
	return out
}
