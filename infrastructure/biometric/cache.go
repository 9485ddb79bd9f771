package biometric

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	biometric_types "verifid.io/infrastructure/biometric/types"
)

type cacheEntry struct {
	embedding []float64
	region    biometric_types.FaceRegion
	hitCount  int64
}

// EmbeddingCache memoises model-server embeddings keyed by image content.
// The backing map keeps insertion order, so the front of the map is always
// the least recently used entry; promotion is a remove-and-reinsert.
type EmbeddingCache struct {
	mu      sync.Mutex
	entries *linkedhashmap.Map
	maxSize int
	hits    int64
	misses  int64
}

func NewEmbeddingCache(maxSize int) *EmbeddingCache {
	return &EmbeddingCache{
		entries: linkedhashmap.New(),
		maxSize: maxSize,
	}
}

// CacheKey is the SHA-256 hex digest of the raw image bytes, so identical
// uploads hit regardless of filename or upload order.
func CacheKey(imageData []byte) string {
	sum := sha256.Sum256(imageData)
	return hex.EncodeToString(sum[:])
}

// Get returns a copy of the cached embedding and its face region, promoting
// the entry to most recently used.
func (c *EmbeddingCache) Get(key string) ([]float64, *biometric_types.FaceRegion, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, found := c.entries.Get(key)
	if !found {
		c.misses++
		return nil, nil, false
	}
	entry := value.(*cacheEntry)
	entry.hitCount++
	c.hits++

	c.entries.Remove(key)
	c.entries.Put(key, entry)

	embedding := make([]float64, len(entry.embedding))
	copy(embedding, entry.embedding)
	region := entry.region
	return embedding, &region, true
}

// Put stores a copy of the embedding. Re-putting an existing key updates it
// in place and promotes it without touching capacity; otherwise the least
// recently used entry makes room first.
func (c *EmbeddingCache) Put(key string, embedding []float64, region biometric_types.FaceRegion) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]float64, len(embedding))
	copy(stored, embedding)

	if value, found := c.entries.Get(key); found {
		entry := value.(*cacheEntry)
		entry.embedding = stored
		entry.region = region
		c.entries.Remove(key)
		c.entries.Put(key, entry)
		return
	}

	if c.entries.Size() >= c.maxSize {
		it := c.entries.Iterator()
		if it.First() {
			c.entries.Remove(it.Key())
		}
	}
	c.entries.Put(key, &cacheEntry{embedding: stored, region: region})
}

// Clear drops every entry and resets the hit and miss counters.
func (c *EmbeddingCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Clear()
	c.hits = 0
	c.misses = 0
}

func (c *EmbeddingCache) Stats() biometric_types.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}
	return biometric_types.CacheStats{
		Size:    c.entries.Size(),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: hitRate,
	}
}
