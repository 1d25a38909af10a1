package cache

import "testing"

func TestPutUpdatesExistingEntryWithoutGrowing(t *testing.T) {
	c := New[string, int](2)
	c.Put("alpha", 1)
	c.Put("beta", 2)
	c.Put("alpha", 3)

	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	if v, ok := c.Get("alpha"); !ok || v != 3 {
		t.Fatalf("expected updated value 3, got %d (%v)", v, ok)
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2)
	c.Put("alpha", 1)
	c.Put("beta", 2)

	// touch alpha so beta is the oldest
	c.Get("alpha")
	c.Put("gamma", 3)

	if _, ok := c.Get("beta"); ok {
		t.Fatalf("expected beta to be evicted")
	}
	for _, key := range []string{"alpha", "gamma"} {
		if _, ok := c.Get(key); !ok {
			t.Fatalf("expected %s to be kept", key)
		}
	}
}

func TestRemove(t *testing.T) {
	c := New[int, string](0)
	c.Put(1, "one")
	c.Remove(1)
	c.Remove(2)

	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d", c.Len())
	}
	c.Put(2, "two")
	c.Put(3, "three")
	if c.Len() != 1 {
		t.Fatalf("expected size clamped to one, got %d", c.Len())
	}
}
