package service

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/odds-estimator/internal/estimator"
	"github.com/yourusername/odds-estimator/internal/models"
)

// CacheKey identifies an estimate by its exact input odds
type CacheKey struct {
	Home float64
	Draw float64
	Away float64
}

// NewCacheKey builds the key for the given odds
func NewCacheKey(odds models.MatchOdds) CacheKey {
	return CacheKey{Home: odds.Home, Draw: odds.Draw, Away: odds.Away}
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%s",
		strconv.FormatFloat(k.Home, 'g', -1, 64),
		strconv.FormatFloat(k.Draw, 'g', -1, 64),
		strconv.FormatFloat(k.Away, 'g', -1, 64),
	)
}

// EstimateCache provides in-memory caching of calibrated estimators.
// Estimators are immutable after construction so cached instances are shared.
type EstimateCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewEstimateCache creates a new estimate cache
func NewEstimateCache(ttl time.Duration, maxSize int) *EstimateCache {
	return &EstimateCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached estimator
func (ec *EstimateCache) Get(key CacheKey) (*estimator.ProbabilityEstimator, bool) {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	if result, found := ec.cache.Get(key.String()); found {
		if e, ok := result.(*estimator.ProbabilityEstimator); ok {
			ec.hitCount++
			return e, true
		}
	}

	ec.missCount++
	return nil, false
}

// Set stores an estimator in cache. When full, expired entries are purged
// first and the estimator is dropped if there is still no room.
func (ec *EstimateCache) Set(key CacheKey, e *estimator.ProbabilityEstimator) bool {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	if ec.cache.ItemCount() >= ec.maxSize {
		ec.cache.DeleteExpired()
		if ec.cache.ItemCount() >= ec.maxSize {
			return false
		}
	}

	ec.cache.Set(key.String(), e, ec.ttl)
	return true
}

// Stats returns cache statistics
func (ec *EstimateCache) Stats() (hits, misses uint64, ratio float64) {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	hits = ec.hitCount
	misses = ec.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (ec *EstimateCache) ItemCount() int {
	return ec.cache.ItemCount()
}
