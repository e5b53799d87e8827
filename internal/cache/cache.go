// Package cache holds recent chat replies in memory, keyed by normalized message text.
package cache

import (
	"container/list"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SatyaPujith/Spotlight/internal/models"
)

const (
	DefaultTTL      = 5 * time.Minute
	DefaultCapacity = 100
)

// Entry is a stored reply
type Entry struct {
	Key       string
	Payload   *models.IntelligenceResponse
	CreatedAt time.Time
}

// Stats reports cache occupancy and lookup results
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// ResponseCache is a bounded, time-boxed map of replies.
//
// Expired entries are ignored by Get but stay in the table until the size bound
// evicts them. Eviction drops the earliest inserted key; reads do not affect order.
type ResponseCache struct {
	ttl      time.Duration
	capacity int
	now      func() time.Time

	mu      sync.RWMutex
	entries map[string]*list.Element
	order   *list.List // of *Entry, oldest insertion at the front

	hits   atomic.Int64
	misses atomic.Int64
}

// Option configures a ResponseCache
type Option func(*ResponseCache)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(c *ResponseCache) { c.now = now }
}

// New creates a cache. Non-positive ttl or capacity fall back to the defaults.
func New(ttl time.Duration, capacity int, opts ...Option) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &ResponseCache{
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key normalizes a chat message into a cache key
func Key(message string) string {
	return strings.TrimSpace(strings.ToLower(message))
}

// Get returns the stored reply for message if it is younger than the TTL
func (c *ResponseCache) Get(message string) (*models.IntelligenceResponse, bool) {
	key := Key(message)

	c.mu.RLock()
	el, ok := c.entries[key]
	var entry *Entry
	if ok {
		entry = el.Value.(*Entry)
	}
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.CreatedAt) >= c.ttl {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return entry.Payload, true
}

// Put stores payload for message. Overwriting keeps the key's insertion position;
// a new key that pushes the size over capacity evicts the oldest insertion.
func (c *ResponseCache) Put(message string, payload *models.IntelligenceResponse) {
	key := Key(message)
	entry := &Entry{Key: key, Payload: payload, CreatedAt: c.now()}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value = entry
		return
	}

	c.entries[key] = c.order.PushBack(entry)
	if c.order.Len() > c.capacity {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*Entry).Key)
	}
}

// Len returns the number of stored entries, expired or not
func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.order.Len()
}

// Keys returns stored keys in insertion order
func (c *ResponseCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*Entry).Key)
	}
	return keys
}

// Stats returns a snapshot of the counters
func (c *ResponseCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Entries: c.order.Len(), Hits: c.hits.Load(), Misses: c.misses.Load()}
}
