// Package cache remembers the stream picked for a content key so it can be resumed without resolving again.
package cache

import (
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/reelcast/reelcast/filesystem"
	"github.com/reelcast/reelcast/log"
	"github.com/reelcast/reelcast/stream"
	"github.com/samber/mo"
)

// Entry is one remembered pick.
type Entry struct {
	Stream       stream.Stream `json:"stream"`
	Quality      string        `json:"quality"`
	Poster       string        `json:"poster,omitempty"`
	ProviderName string        `json:"provider_name"`
	ExpiresAt    time.Time     `json:"expires_at"`
}

type entries map[string]Entry

type Option func(*Cache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// Cache is a persistent key to Entry store. Expiry is per entry and checked on read.
type Cache struct {
	internal *gache.Cache[entries]
	now      func() time.Time
	mu       sync.Mutex
}

// New opens the cache stored at path.
func New(path string, opts ...Option) *Cache {
	c := &Cache{
		internal: gache.New[entries](&gache.Options{
			Path:       path,
			FileSystem: &filesystem.GacheFs{},
		}),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// load returns the stored entries. A corrupted store is treated as empty.
func (c *Cache) load() entries {
	data, expired, err := c.internal.Get()
	if err != nil {
		log.Warnf("result cache unreadable, starting cold: %s", err)
		return entries{}
	}
	if expired || data == nil {
		return entries{}
	}
	return data
}

// Put stores e under key for ttl, replacing any previous entry and its expiry.
func (c *Cache) Put(key stream.Key, e Entry, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data := c.load()
	e.Stream = e.Stream.Clone()
	e.ExpiresAt = c.now().Add(ttl)
	data[key.String()] = e
	return c.internal.Set(data)
}

// Get returns the entry for key unless it is missing or expired.
func (c *Cache) Get(key stream.Key) mo.Option[Entry] {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.load()[key.String()]
	if !ok || !c.now().Before(e.ExpiresAt) {
		return mo.None[Entry]()
	}

	e.Stream = e.Stream.Clone()
	return mo.Some(e)
}

// Evict removes the entry for key.
func (c *Cache) Evict(key stream.Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data := c.load()
	if _, ok := data[key.String()]; !ok {
		return nil
	}

	delete(data, key.String())
	return c.internal.Set(data)
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.internal.Set(entries{})
}

// Len returns the number of unexpired entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var n int
	for _, e := range c.load() {
		if now.Before(e.ExpiresAt) {
			n++
		}
	}
	return n
}
