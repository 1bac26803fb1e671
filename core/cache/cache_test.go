package cache

import "testing"

func TestCache(t *testing.T) {
	c := New()

	if _, ok := c.Get("course:c1"); ok {
		t.Fatal("Get() on an empty cache returned a value")
	}

	c.Set("course:c1", "v1")
	c.Set("course:c2", "v2")
	c.Set("users:page=1", "u")

	if val, ok := c.Get("course:c1"); !ok || val != "v1" {
		t.Fatalf("Get() = %v, %v; want v1, true", val, ok)
	}

	c.Invalidate("course:c1")
	if _, ok := c.Get("course:c1"); ok {
		t.Fatal("Get() returned an invalidated entry")
	}
	if _, ok := c.Get("course:c2"); !ok {
		t.Fatal("Invalidate() dropped an unrelated entry")
	}

	c.InvalidatePrefix("course:")
	if _, ok := c.Get("course:c2"); ok {
		t.Fatal("InvalidatePrefix() left a matching entry")
	}
	if _, ok := c.Get("users:page=1"); !ok {
		t.Fatal("InvalidatePrefix() dropped a non-matching entry")
	}
}
