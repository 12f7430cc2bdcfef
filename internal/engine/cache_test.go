package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func TestCacheKeyDeterministic(t *testing.T) {
	a := CacheKey("transcript", "abc123def45")
	b := CacheKey("transcript", "abc123def45")
	if a != b {
		t.Errorf("same parts produced different keys: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "study:") {
		t.Errorf("key %q missing namespace prefix", a)
	}
	if CacheKey("topic", "x") == CacheKey("transcript", "x") {
		t.Error("different namespaces must produce different keys")
	}
}

func TestBoundedCacheRoundTrip(t *testing.T) {
	c := NewBoundedCache("test", 10)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Error("unexpected hit on empty cache")
	}
	c.Set(ctx, "k", "v")
	got, ok := c.Get(ctx, "k")
	if !ok || got != "v" {
		t.Errorf("Get = %q, %v", got, ok)
	}
}

func TestBoundedCacheEvictsOldestFirst(t *testing.T) {
	c := NewBoundedCache("test", 3)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		c.Set(ctx, fmt.Sprintf("k%d", i), "v")
	}

	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3", c.Len())
	}
	if _, ok := c.Get(ctx, "k0"); ok {
		t.Error("oldest entry should have been evicted")
	}
	for _, k := range []string{"k1", "k2", "k3"} {
		if _, ok := c.Get(ctx, k); !ok {
			t.Errorf("entry %s missing", k)
		}
	}
}

func TestBoundedCacheUpdateDoesNotEvict(t *testing.T) {
	c := NewBoundedCache("test", 2)
	ctx := context.Background()

	c.Set(ctx, "a", "1")
	c.Set(ctx, "b", "2")
	c.Set(ctx, "a", "updated")

	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
	got, ok := c.Get(ctx, "a")
	if !ok || got != "updated" {
		t.Errorf("Get(a) = %q, %v", got, ok)
	}
	if _, ok := c.Get(ctx, "b"); !ok {
		t.Error("updating an existing key must not evict others")
	}
}

func TestBoundedCacheZeroCapacityFallsBack(t *testing.T) {
	c := NewBoundedCache("test", 0)
	ctx := context.Background()
	c.Set(ctx, "k", "v")
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Error("zero capacity should fall back to a usable default")
	}
}
