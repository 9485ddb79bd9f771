package biometric

import (
	"fmt"
	"testing"

	biometric_types "verifid.io/infrastructure/biometric/types"
)

func region(w, h int) biometric_types.FaceRegion {
	return biometric_types.FaceRegion{X: 0, Y: 0, Width: w, Height: h, Confidence: 0.9}
}

func TestEmbeddingCacheKeyIsContentAddressed(t *testing.T) {
	keyA := CacheKey([]byte("same bytes"))
	keyB := CacheKey([]byte("same bytes"))
	keyC := CacheKey([]byte("other bytes"))
	if keyA != keyB {
		t.Errorf("identical bytes produced different keys: %s vs %s", keyA, keyB)
	}
	if keyA == keyC {
		t.Error("different bytes produced the same key")
	}
}

func TestEmbeddingCacheGetPut(t *testing.T) {
	cache := NewEmbeddingCache(4)

	if _, _, found := cache.Get("missing"); found {
		t.Fatal("expected miss on empty cache")
	}

	cache.Put("a", []float64{1, 2, 3}, region(10, 10))
	embedding, faceRegion, found := cache.Get("a")
	if !found {
		t.Fatal("expected hit after put")
	}
	if len(embedding) != 3 || embedding[0] != 1 {
		t.Errorf("unexpected embedding returned: %v", embedding)
	}
	if faceRegion.Width != 10 {
		t.Errorf("unexpected region returned: %+v", faceRegion)
	}

	// mutating the returned slice must not corrupt the cached copy
	embedding[0] = 99
	fresh, _, _ := cache.Get("a")
	if fresh[0] != 1 {
		t.Errorf("cache entry mutated through returned slice: %v", fresh)
	}
}

func TestEmbeddingCachePutCopiesInput(t *testing.T) {
	cache := NewEmbeddingCache(4)
	source := []float64{1, 2, 3}
	cache.Put("a", source, region(10, 10))
	source[0] = 99

	stored, _, _ := cache.Get("a")
	if stored[0] != 1 {
		t.Errorf("cache entry mutated through caller slice: %v", stored)
	}
}

func TestEmbeddingCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewEmbeddingCache(3)
	cache.Put("a", []float64{1}, region(1, 1))
	cache.Put("b", []float64{2}, region(1, 1))
	cache.Put("c", []float64{3}, region(1, 1))

	// touch "a" so "b" becomes the eviction victim
	if _, _, found := cache.Get("a"); !found {
		t.Fatal("expected hit for a")
	}
	cache.Put("d", []float64{4}, region(1, 1))

	if _, _, found := cache.Get("b"); found {
		t.Error("expected b to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, _, found := cache.Get(key); !found {
			t.Errorf("expected %s to survive eviction", key)
		}
	}
}

func TestEmbeddingCachePutExistingPromotesWithoutEviction(t *testing.T) {
	cache := NewEmbeddingCache(2)
	cache.Put("a", []float64{1}, region(1, 1))
	cache.Put("b", []float64{2}, region(1, 1))

	// re-put of "a" updates in place; no capacity change, so both survive
	cache.Put("a", []float64{9}, region(2, 2))

	updated, updatedRegion, found := cache.Get("a")
	if !found || updated[0] != 9 || updatedRegion.Width != 2 {
		t.Errorf("expected updated entry for a, got %v %+v", updated, updatedRegion)
	}
	if _, _, found := cache.Get("b"); !found {
		t.Error("re-put of existing key must not evict")
	}

	// "b" is now least recently used after the promotion of "a"
	cache.Put("c", []float64{3}, region(1, 1))
	if _, _, found := cache.Get("b"); found {
		t.Error("expected b to be evicted after a was promoted by re-put")
	}
}

func TestEmbeddingCacheStats(t *testing.T) {
	cache := NewEmbeddingCache(2)

	stats := cache.Stats()
	if stats.HitRate != 0 {
		t.Errorf("expected zero hit rate with no lookups, got %f", stats.HitRate)
	}

	cache.Get("missing")
	cache.Put("a", []float64{1}, region(1, 1))
	cache.Get("a")
	cache.Get("a")
	cache.Get("also-missing")

	stats = cache.Stats()
	if stats.Size != 1 || stats.MaxSize != 2 {
		t.Errorf("unexpected size counters: %+v", stats)
	}
	if stats.Hits != 2 || stats.Misses != 2 {
		t.Errorf("unexpected hit/miss counters: %+v", stats)
	}
	if stats.HitRate != 0.5 {
		t.Errorf("expected hit rate 0.5, got %f", stats.HitRate)
	}
}

func TestEmbeddingCacheClear(t *testing.T) {
	cache := NewEmbeddingCache(4)
	cache.Put("a", []float64{1}, region(1, 1))
	cache.Put("b", []float64{2}, region(1, 1))
	cache.Get("a")
	cache.Get("missing")

	cache.Clear()

	stats := cache.Stats()
	if stats.Size != 0 {
		t.Errorf("expected empty cache after clear, got size %d", stats.Size)
	}
	if stats.Hits != 0 || stats.Misses != 0 || stats.HitRate != 0 {
		t.Errorf("expected counters reset after clear, got %+v", stats)
	}
	if _, _, found := cache.Get("a"); found {
		t.Error("expected cleared entry to miss")
	}

	// cache stays usable after a clear
	cache.Put("c", []float64{3}, region(1, 1))
	if _, _, found := cache.Get("c"); !found {
		t.Error("expected cache to accept entries after clear")
	}
}

func TestEmbeddingCacheCapacityNeverExceeded(t *testing.T) {
	cache := NewEmbeddingCache(8)
	for i := 0; i < 50; i++ {
		cache.Put(fmt.Sprintf("key-%d", i), []float64{float64(i)}, region(1, 1))
	}
	if stats := cache.Stats(); stats.Size != 8 {
		t.Errorf("expected size pinned at capacity, got %d", stats.Size)
	}
}
