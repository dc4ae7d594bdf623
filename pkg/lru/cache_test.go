package lru

import "testing"

func TestCacheAddGet(t *testing.T) {
	c := New[int](3)

	c.Add("a", 1)
	c.Add("b", 2)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) = true, want false")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCacheEviction(t *testing.T) {
	c := New[string](2)

	c.Add("a", "1")
	c.Add("b", "2")
	c.Add("c", "3") // Evicts "a"

	if _, ok := c.Get("a"); ok {
		t.Error("expected oldest entry to be evicted")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("expected b to survive eviction")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCacheGetRefreshesRecency(t *testing.T) {
	c := New[int](2)

	c.Add("a", 1)
	c.Add("b", 2)

	// Touch "a" so "b" becomes the eviction candidate.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("Get(a) failed")
	}
	c.Add("c", 3)

	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry was evicted")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry survived")
	}
}

func TestCacheAddExistingKey(t *testing.T) {
	c := New[int](2)

	c.Add("a", 1)
	c.Add("a", 9)

	if v, _ := c.Get("a"); v != 9 {
		t.Errorf("Get(a) = %d, want 9 after overwrite", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCacheZeroCapacity(t *testing.T) {
	c := New[int](0)

	c.Add("a", 1)
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 for zero-capacity cache", c.Len())
	}
}
