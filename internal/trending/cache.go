package trending

import (
	"fmt"

	gocache "github.com/patrickmn/go-cache"

	"github.com/rohankatakam/startrend/internal/models"
)

// CacheKey identifies a growth count by repository and calendar days.
// Windows that differ only in time of day share a key.
type CacheKey struct {
	FullName string
	StartDay string
	EndDay   string
}

// NewCacheKey builds the key for fullName over w
func NewCacheKey(fullName string, w models.Window) CacheKey {
	return CacheKey{
		FullName: fullName,
		StartDay: w.StartKey(),
		EndDay:   w.EndKey(),
	}
}

func (k CacheKey) String() string {
	return fmt.Sprintf("%s|%s|%s", k.FullName, k.StartDay, k.EndDay)
}

// Cache memoizes star growth counts
type Cache interface {
	Get(key CacheKey) (models.StarGrowth, bool)
	Put(key CacheKey, growth models.StarGrowth)
}

// MemoryCache is an unbounded, session-scoped Cache.
// Only complete counts are kept; degraded results are always refetched by a later search.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates an empty cache with no expiry and no janitor
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		store: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get returns the cached growth for key
func (m *MemoryCache) Get(key CacheKey) (models.StarGrowth, bool) {
	v, found := m.store.Get(key.String())
	if !found {
		return models.StarGrowth{}, false
	}
	growth, ok := v.(models.StarGrowth)
	return growth, ok
}

// Put stores growth under key. Non-complete results are dropped.
func (m *MemoryCache) Put(key CacheKey, growth models.StarGrowth) {
	if growth.Status != models.StatusComplete {
		return
	}
	m.store.Set(key.String(), growth, gocache.NoExpiration)
}

// Len returns the number of cached entries
func (m *MemoryCache) Len() int {
	return m.store.ItemCount()
}

// Flush drops every entry
func (m *MemoryCache) Flush() {
	m.store.Flush()
}
