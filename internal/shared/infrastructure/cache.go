package infrastructure

import (
	"strings"
	"sync"
	"time"
)

// CacheEntry représente une entrée de cache avec expiration
type CacheEntry struct {
	Value      any
	Expiration time.Time
}

// IsExpired vérifie si l'entrée est expirée à l'instant donné
func (e CacheEntry) IsExpired(now time.Time) bool {
	return now.After(e.Expiration)
}

// Cache interface pour l'abstraction du cache
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Delete(key string)
	Clear()
}

// InMemoryCache implémentation en mémoire du cache avec TTL
// Les entrées expirées sont purgées à la lecture, sans goroutine de fond.
type InMemoryCache struct {
	mu      sync.Mutex
	entries map[string]CacheEntry
	now     func() time.Time
}

// NewInMemoryCache crée un nouveau cache en mémoire
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		entries: make(map[string]CacheEntry),
		now:     time.Now,
	}
}

// Get récupère une valeur du cache
func (c *InMemoryCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}
	if entry.IsExpired(c.now()) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.Value, true
}

// Set ajoute ou met à jour une valeur dans le cache
func (c *InMemoryCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = CacheEntry{
		Value:      value,
		Expiration: c.now().Add(ttl),
	}
}

// Delete supprime une entrée du cache
func (c *InMemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Clear vide complètement le cache
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]CacheEntry)
}

// Len nombre d'entrées, expirées comprises
func (c *InMemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// CacheKeyBuilder construit des clés de cache à segments
type CacheKeyBuilder struct {
	parts []string
}

// NewCacheKey démarre une clé avec un préfixe
func NewCacheKey(prefix string) *CacheKeyBuilder {
	return &CacheKeyBuilder{parts: []string{prefix}}
}

// Add ajoute un segment
func (b *CacheKeyBuilder) Add(part string) *CacheKeyBuilder {
	b.parts = append(b.parts, part)
	return b
}

// Build retourne la clé finale
func (b *CacheKeyBuilder) Build() string {
	return strings.Join(b.parts, ":")
}
