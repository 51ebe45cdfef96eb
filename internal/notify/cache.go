package notify

import (
	"context"
	"sync"
	"time"
)

// DedupTTL is the window during which a repeated (ticket, title, message)
// dispatch is collapsed into the first one. Short on purpose: it exists to
// absorb near-simultaneous duplicate triggers, not to guarantee global
// exactly-once delivery.
const DedupTTL = 30 * time.Second

// pruneThreshold bounds the in-memory map: once it grows past this, expired
// entries are evicted opportunistically on the next write.
const pruneThreshold = 1000

// DedupCache is the capability the dispatcher needs: an atomic
// check-then-record per key. Acquire returns true when the key was free (or
// expired) and has now been recorded, false when a live entry already
// exists. Implementations must not interleave the check and the record for
// concurrent calls on the same key.
type DedupCache interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// memoryCache is the default process-local DedupCache. Restart loses it; an
// occasional re-sent notification after restart is acceptable.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryCache builds an in-process dedup cache.
func NewMemoryCache() DedupCache {
	return &memoryCache{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (c *memoryCache) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if stamped, ok := c.entries[key]; ok && now.Sub(stamped) <= ttl {
		return false, nil
	}
	c.entries[key] = now

	if len(c.entries) > pruneThreshold {
		for k, stamped := range c.entries {
			if now.Sub(stamped) > ttl {
				delete(c.entries, k)
			}
		}
	}
	return true, nil
}
