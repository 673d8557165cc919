// Package cache is a small injected memoization cache with size and
// age bounds. A nil *Cache is valid and never stores anything, so every
// cached code path produces identical results with caching disabled.
package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Cache memoizes expensive recomputation keyed by a stable hash of the
// inputs. Entries are evicted oldest-first once maxEntries is exceeded,
// and lazily on read once they outlive maxAge.
type Cache struct {
	mu         sync.Mutex
	maxEntries int
	maxAge     time.Duration
	entries    map[string]*entry
	order      *list.List // keys, oldest at the front

	now func() time.Time
}

type entry struct {
	value   any
	addedAt time.Time
	elem    *list.Element
}

// New builds a cache holding at most maxEntries values for at most
// maxAge each. Non-positive bounds disable that bound.
func New(maxEntries int, maxAge time.Duration) *Cache {
	return &Cache{
		maxEntries: maxEntries,
		maxAge:     maxAge,
		entries:    make(map[string]*entry),
		order:      list.New(),
		now:        time.Now,
	}
}

// Key builds a stable cache key from the parts by hashing their JSON
// encoding. Values that cannot be marshaled fall back to their Go
// syntax representation.
func Key(parts ...any) string {
	h := sha256.New()
	for _, p := range parts {
		b, err := json.Marshal(p)
		if err != nil {
			b = []byte(fmt.Sprintf("%#v", p))
		}
		h.Write(b)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached value for key. Expired entries count as
// misses and are dropped.
func (c *Cache) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.maxAge > 0 && c.now().Sub(e.addedAt) > c.maxAge {
		c.remove(key, e)
		return nil, false
	}
	return e.value, true
}

// Put stores a value, evicting the oldest entries when the cache is
// over capacity.
func (c *Cache) Put(key string, value any) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.addedAt = c.now()
		c.order.MoveToBack(e.elem)
		return
	}

	e := &entry{value: value, addedAt: c.now()}
	e.elem = c.order.PushBack(key)
	c.entries[key] = e

	for c.maxEntries > 0 && len(c.entries) > c.maxEntries {
		front := c.order.Front()
		if front == nil {
			break
		}
		oldest := front.Value.(string)
		c.remove(oldest, c.entries[oldest])
	}
}

// GetOrCompute returns the cached value for key, computing and storing
// it on a miss. Compute errors are returned and never cached.
func (c *Cache) GetOrCompute(key string, compute func() (any, error)) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		return nil, err
	}
	c.Put(key, v)
	return v, nil
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove must be called with the lock held.
func (c *Cache) remove(key string, e *entry) {
	if e == nil {
		return
	}
	c.order.Remove(e.elem)
	delete(c.entries, key)
}
