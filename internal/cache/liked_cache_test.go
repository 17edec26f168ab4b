package cache

import "testing"

func TestKeys(t *testing.T) {
	if got := likedKey(42); got != "liked:songs:42" {
		t.Fatalf("likedKey = %q", got)
	}
	if got := dirtyKey(42); got != "liked:songs:dirty:42" {
		t.Fatalf("dirtyKey = %q", got)
	}
}

func TestNewLikedCacheDefaults(t *testing.T) {
	c := NewLikedCache(nil, 0, -1)
	if c.likedTTL <= 0 || c.dirtyMarkerTTL <= 0 {
		t.Fatalf("expected positive default TTLs, got %v %v", c.likedTTL, c.dirtyMarkerTTL)
	}
}
