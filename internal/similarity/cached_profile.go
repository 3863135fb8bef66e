package similarity

import (
	"context"
	"time"

	"unified-thinking/pkg/cache"
)

const profileCacheTTL = 5 * time.Minute

// CachedProfileReader wraps a ProfileReader with a process-wide LRU cache of
// single-engineer profile lookups. A hiring manager's filter-similarity
// session typically re-fetches the same reference engineer across several
// requests; the candidate pool is not cached since it is read in full every
// call and the cache would shadow skill/domain graph updates too long.
type CachedProfileReader struct {
	inner ProfileReader
	cache *cache.LRU[string, *EngineerProfile]
}

// NewCachedProfileReader wraps inner with an LRU cache bounded to maxEntries
// (config.PerformanceConfig.CacheSize; 0 disables bounding, matching
// pkg/cache.Config.MaxEntries' "0 = unlimited" convention).
func NewCachedProfileReader(inner ProfileReader, maxEntries int) *CachedProfileReader {
	return &CachedProfileReader{
		inner: inner,
		cache: cache.New[string, *EngineerProfile](&cache.Config{MaxEntries: maxEntries, TTL: profileCacheTTL}),
	}
}

func (r *CachedProfileReader) LoadProfile(ctx context.Context, engineerID string) (*EngineerProfile, bool, error) {
	if profile, ok := r.cache.Get(engineerID); ok {
		return profile, true, nil
	}

	profile, found, err := r.inner.LoadProfile(ctx, engineerID)
	if err != nil || !found {
		return profile, found, err
	}
	r.cache.Set(engineerID, profile)
	return profile, true, nil
}

func (r *CachedProfileReader) LoadCandidatePool(ctx context.Context, excludeID string, poolSize int) ([]EngineerProfile, error) {
	return r.inner.LoadCandidatePool(ctx, excludeID, poolSize)
}
