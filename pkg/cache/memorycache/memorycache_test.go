package memorycache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestCache_SetAndGet(t *testing.T) {
	ctx := context.Background()
	c := New(16)
	defer c.Close()

	if err := c.Set(ctx, "key1", "value1", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, found := c.Get(ctx, "key1")
	if !found {
		t.Fatal("Expected key1 to be found")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}
}

func TestCache_GetMissing(t *testing.T) {
	ctx := context.Background()
	c := New(16)
	defer c.Close()

	if _, found := c.Get(ctx, "nothing"); found {
		t.Error("Expected miss for absent key")
	}

	metrics := c.Metrics()
	if metrics.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", metrics.Misses)
	}
}

func TestCache_Overwrite(t *testing.T) {
	ctx := context.Background()
	c := New(16)
	defer c.Close()

	c.Set(ctx, "key1", "old", time.Minute)
	c.Set(ctx, "key1", "new", time.Minute)

	value, found := c.Get(ctx, "key1")
	if !found || value != "new" {
		t.Errorf("Expected new, got %v (found=%v)", value, found)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 entry after overwrite, got %d", c.Len())
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := New(16)
	defer c.Close()

	c.Set(ctx, "short", "value", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get(ctx, "short"); found {
		t.Error("Expected expired entry to be a miss")
	}
	if c.Len() != 0 {
		t.Errorf("Expected expired entry to be removed on access, got %d entries", c.Len())
	}
}

func TestCache_NonPositiveTTL(t *testing.T) {
	ctx := context.Background()
	c := New(16)
	defer c.Close()

	c.Set(ctx, "key1", "value1", 0)
	c.Set(ctx, "key2", "value2", -time.Second)

	if c.Len() != 0 {
		t.Errorf("Expected nothing stored for non-positive TTL, got %d entries", c.Len())
	}
}

func TestCache_LRUEviction(t *testing.T) {
	ctx := context.Background()
	c := New(3)
	defer c.Close()

	c.Set(ctx, "a", 1, time.Minute)
	c.Set(ctx, "b", 2, time.Minute)
	c.Set(ctx, "c", 3, time.Minute)

	// touch a so b becomes the least recently used
	c.Get(ctx, "a")

	c.Set(ctx, "d", 4, time.Minute)

	if _, found := c.Get(ctx, "b"); found {
		t.Error("Expected b to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, found := c.Get(ctx, key); !found {
			t.Errorf("Expected %s to survive eviction", key)
		}
	}

	metrics := c.Metrics()
	if metrics.KeysEvicted != 1 {
		t.Errorf("Expected 1 eviction, got %d", metrics.KeysEvicted)
	}
	if metrics.KeysAdded != 4 {
		t.Errorf("Expected 4 keys added, got %d", metrics.KeysAdded)
	}
}

func TestCache_Unbounded(t *testing.T) {
	ctx := context.Background()
	c := New(0)
	defer c.Close()

	for i := 0; i < 100; i++ {
		c.Set(ctx, fmt.Sprintf("key%d", i), i, time.Minute)
	}

	if c.Len() != 100 {
		t.Errorf("Expected 100 entries with no cap, got %d", c.Len())
	}
	if c.Metrics().KeysEvicted != 0 {
		t.Errorf("Expected no evictions, got %d", c.Metrics().KeysEvicted)
	}
}

func TestCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := New(16)
	defer c.Close()

	c.Set(ctx, "key1", "value1", time.Minute)
	if err := c.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, found := c.Get(ctx, "key1"); found {
		t.Error("Expected key1 to be gone after delete")
	}

	// deleting an absent key is a no-op
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete() on absent key error = %v", err)
	}
}

func TestCache_Clear(t *testing.T) {
	ctx := context.Background()
	c := New(16)
	defer c.Close()

	c.Set(ctx, "key1", "value1", time.Minute)
	c.Set(ctx, "key2", "value2", time.Minute)

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Expected empty cache after clear, got %d entries", c.Len())
	}
}

func TestCache_Metrics(t *testing.T) {
	ctx := context.Background()
	c := New(16)
	defer c.Close()

	c.Set(ctx, "key1", "value1", time.Minute)
	c.Get(ctx, "key1")
	c.Get(ctx, "key1")
	c.Get(ctx, "missing")

	metrics := c.Metrics()
	if metrics.Hits != 2 {
		t.Errorf("Expected 2 hits, got %d", metrics.Hits)
	}
	if metrics.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", metrics.Misses)
	}
	if rate := metrics.HitRate(); rate < 0.66 || rate > 0.67 {
		t.Errorf("Expected hit rate ~0.667, got %f", rate)
	}
}
