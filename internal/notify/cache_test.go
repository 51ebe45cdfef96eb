package notify

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestCache(now *time.Time) *memoryCache {
	return &memoryCache{
		entries: make(map[string]time.Time),
		now:     func() time.Time { return *now },
	}
}

func TestAcquireWithinTTL(t *testing.T) {
	t.Parallel()

	now := time.Now()
	c := newTestCache(&now)
	ctx := context.Background()

	if ok, _ := c.Acquire(ctx, "k", DedupTTL); !ok {
		t.Fatal("first acquire should succeed")
	}
	if ok, _ := c.Acquire(ctx, "k", DedupTTL); ok {
		t.Fatal("second acquire within TTL should fail")
	}

	now = now.Add(DedupTTL + time.Second)
	if ok, _ := c.Acquire(ctx, "k", DedupTTL); !ok {
		t.Fatal("acquire after TTL expiry should succeed")
	}
}

func TestAcquireDistinctKeys(t *testing.T) {
	t.Parallel()

	now := time.Now()
	c := newTestCache(&now)
	ctx := context.Background()

	if ok, _ := c.Acquire(ctx, "a", DedupTTL); !ok {
		t.Fatal("acquire a")
	}
	if ok, _ := c.Acquire(ctx, "b", DedupTTL); !ok {
		t.Fatal("acquire b should be independent of a")
	}
}

func TestAcquireConcurrentSameKey(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache()
	ctx := context.Background()

	const goroutines = 32
	var wg sync.WaitGroup
	won := make(chan struct{}, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := c.Acquire(ctx, "same", DedupTTL); ok {
				won <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(won)

	winners := 0
	for range won {
		winners++
	}
	if winners != 1 {
		t.Errorf("winners = %d, want exactly 1", winners)
	}
}

func TestPruneEvictsExpiredEntries(t *testing.T) {
	t.Parallel()

	now := time.Now()
	c := newTestCache(&now)
	ctx := context.Background()

	for i := 0; i <= pruneThreshold; i++ {
		_, _ = c.Acquire(ctx, fmt.Sprintf("old-%d", i), DedupTTL)
	}

	now = now.Add(DedupTTL + time.Second)
	// This write crosses the threshold and triggers the prune.
	_, _ = c.Acquire(ctx, "fresh", DedupTTL)

	c.mu.Lock()
	size := len(c.entries)
	c.mu.Unlock()
	if size != 1 {
		t.Errorf("entries after prune = %d, want 1", size)
	}
}
