package cacheinfra

import (
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// entry is a single cached value together with the bookkeeping its
// expiration policy needs. Entries are immutable except for lastAccess,
// which only changes inside a Compute callback, so a reader never observes
// a half-written entry.
type entry struct {
	value      any
	insertedAt time.Time
	lastAccess time.Time

	// absolute is the fixed lifetime measured from insertedAt.
	absolute time.Duration

	// sliding, when non-zero, is the window measured from lastAccess.
	// The entry expires at the earlier of the two deadlines.
	sliding time.Duration
}

// deadline returns the instant at which the entry stops being servable.
func (e entry) deadline() time.Time {
	d := e.insertedAt.Add(e.absolute)
	if e.sliding > 0 {
		if s := e.lastAccess.Add(e.sliding); s.Before(d) {
			d = s
		}
	}
	return d
}

// expired reports whether the entry is past its deadline at now. The
// boundary is inclusive: an entry whose deadline equals now is expired.
func (e entry) expired(now time.Time) bool {
	return !now.Before(e.deadline())
}

// memoryCache is a process-local policy cache built on a sharded
// concurrent map. All per-key operations go through xsync's Compute so a
// sliding hit refreshes the last-access time atomically with the read.
type memoryCache struct {
	items *xsync.MapOf[string, entry]
	now   func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// New creates the in-process cache. When cfg.EvictionInterval is positive
// a janitor goroutine periodically sweeps expired entries; call Stop to
// shut it down. The cache itself needs no teardown.
func New(cfg Config) (*memoryCache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	c := &memoryCache{
		items: xsync.NewMapOf[string, entry](),
		now:   now,
		stop:  make(chan struct{}),
	}

	if cfg.EvictionInterval > 0 {
		go c.janitor(cfg.EvictionInterval)
	}

	return c, nil
}

// Get returns the value stored under key. Expired entries behave as a
// miss and are removed in the same atomic step. A hit on a sliding entry
// refreshes its last-access time.
func (c *memoryCache) Get(key string) (any, bool) {
	var (
		value any
		hit   bool
	)

	c.items.Compute(key, func(old entry, loaded bool) (entry, bool) {
		if !loaded {
			return entry{}, true
		}

		now := c.now()
		if old.expired(now) {
			return entry{}, true
		}

		value = old.value
		hit = true
		old.lastAccess = now
		return old, false
	})

	return value, hit
}

// Set stores value under key. absolute is the fixed lifetime from now;
// sliding, when non-zero, additionally bounds the entry by its last
// access. Any previous entry under the key is replaced outright.
func (c *memoryCache) Set(key string, value any, absolute, sliding time.Duration) {
	now := c.now()
	c.items.Store(key, entry{
		value:      value,
		insertedAt: now,
		lastAccess: now,
		absolute:   absolute,
		sliding:    sliding,
	})
}

// Remove deletes the entry under key. Removing an absent key is a no-op.
func (c *memoryCache) Remove(key string) {
	c.items.Delete(key)
}

// Len reports the number of entries currently held, including entries
// that are expired but not yet swept.
func (c *memoryCache) Len() int {
	return c.items.Size()
}

// Stop terminates the janitor goroutine, if one is running. Safe to call
// more than once.
func (c *memoryCache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *memoryCache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

// sweep removes expired entries. Each removal re-checks expiry inside
// Compute so a concurrent Set under the same key is never clobbered.
func (c *memoryCache) sweep() {
	c.items.Range(func(key string, _ entry) bool {
		c.items.Compute(key, func(old entry, loaded bool) (entry, bool) {
			if !loaded {
				return entry{}, true
			}
			if old.expired(c.now()) {
				return entry{}, true
			}
			return old, false
		})
		return true
	})
}
