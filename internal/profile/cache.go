package profile

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/matchedge/internal/metrics"
	"github.com/yourusername/matchedge/internal/models"
)

// snapshotNamespace scopes cache keys derived from team snapshots
var snapshotNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("matchedge/team-snapshot"))

// SnapshotKey derives a stable key from the full stats snapshot, so a team
// whose numbers change gets a fresh profile
func SnapshotKey(stats models.TeamStats) string {
	data, err := json.Marshal(stats)
	if err != nil {
		return ""
	}
	return uuid.NewSHA1(snapshotNamespace, data).String()
}

// CachedBuilder memoises profiles by team snapshot
type CachedBuilder struct {
	builder   *Builder
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewCachedBuilder wraps a builder with a TTL cache
func NewCachedBuilder(builder *Builder, ttl time.Duration, maxSize int) *CachedBuilder {
	if builder == nil {
		builder = NewBuilder()
	}
	return &CachedBuilder{
		builder: builder,
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Build returns the cached profile for the snapshot or builds and stores it
func (cb *CachedBuilder) Build(stats models.TeamStats) *models.TeamProfile {
	key := SnapshotKey(stats)
	if key == "" {
		return cb.builder.Build(stats)
	}

	if cached, found := cb.cache.Get(key); found {
		if p, ok := cached.(*models.TeamProfile); ok {
			cb.record(true)
			return p
		}
	}
	cb.record(false)

	p := cb.builder.Build(stats)
	if cb.maxSize > 0 && cb.cache.ItemCount() >= cb.maxSize {
		cb.cache.DeleteExpired()
		if cb.cache.ItemCount() >= cb.maxSize {
			return p
		}
	}
	cb.cache.Set(key, p, cb.ttl)
	return p
}

func (cb *CachedBuilder) record(hit bool) {
	cb.mu.Lock()
	if hit {
		cb.hitCount++
	} else {
		cb.missCount++
	}
	total := cb.hitCount + cb.missCount
	ratio := float64(cb.hitCount) / float64(total)
	cb.mu.Unlock()

	metrics.UpdateProfileCacheHitRatio(ratio)
}

// Stats returns cache statistics
func (cb *CachedBuilder) Stats() (hits, misses uint64, ratio float64) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	hits = cb.hitCount
	misses = cb.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// Clear flushes the cache
func (cb *CachedBuilder) Clear() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.cache.Flush()
	cb.hitCount = 0
	cb.missCount = 0
}

// Sweep drops expired profiles, republishes the hit ratio and returns the
// number of profiles still cached
func (cb *CachedBuilder) Sweep() int {
	cb.cache.DeleteExpired()
	_, _, ratio := cb.Stats()
	metrics.UpdateProfileCacheHitRatio(ratio)
	return cb.cache.ItemCount()
}

// ItemCount returns the number of cached profiles
func (cb *CachedBuilder) ItemCount() int {
	return cb.cache.ItemCount()
}
