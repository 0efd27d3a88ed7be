package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/salvex/salvex-api/internal/models"
	"github.com/salvex/salvex-api/pkg/logger"
	"github.com/salvex/salvex-api/pkg/metrics"
	"go.uber.org/zap"
)

const (
	inquiryCacheName   = "inquiries"
	allInquiriesKey    = "inquiries:all"
	statusKeyPrefix    = "inquiries:status:"
	inquiryCleanupTick = time.Minute
)

// InquiryListCache holds short-lived snapshots of admin listings.
// A zero TTL disables it: every Get misses and Set is a no-op.
//
// Readers take Generation before querying the store and pass it to Set.
// Invalidate bumps the generation, so a snapshot read before a write can
// never be stored after that write's invalidation.
type InquiryListCache struct {
	cache *gocache.Cache
	ttl   time.Duration

	mu         sync.Mutex
	generation uint64
}

// NewInquiryListCache creates a listing cache with the given TTL in seconds
func NewInquiryListCache(ttlSeconds int) *InquiryListCache {
	ttl := time.Duration(ttlSeconds) * time.Second
	return &InquiryListCache{
		cache: gocache.New(ttl, inquiryCleanupTick),
		ttl:   ttl,
	}
}

// Enabled reports whether listings are cached at all
func (c *InquiryListCache) Enabled() bool {
	return c != nil && c.ttl > 0
}

// GetAll returns the cached full listing
func (c *InquiryListCache) GetAll() ([]models.ProjectInquiry, bool) {
	return c.get(allInquiriesKey)
}

// SetAll caches the full listing read at generation gen
func (c *InquiryListCache) SetAll(gen uint64, inquiries []models.ProjectInquiry) {
	c.set(gen, allInquiriesKey, inquiries)
}

// GetByStatus returns the cached listing for one status
func (c *InquiryListCache) GetByStatus(status models.InquiryStatus) ([]models.ProjectInquiry, bool) {
	return c.get(statusKeyPrefix + string(status))
}

// SetByStatus caches the listing for one status read at generation gen
func (c *InquiryListCache) SetByStatus(gen uint64, status models.InquiryStatus, inquiries []models.ProjectInquiry) {
	c.set(gen, statusKeyPrefix+string(status), inquiries)
}

// Generation returns the current invalidation count
func (c *InquiryListCache) Generation() uint64 {
	if !c.Enabled() {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Invalidate drops every cached listing. Called after any write.
func (c *InquiryListCache) Invalidate() {
	if !c.Enabled() {
		return
	}
	c.mu.Lock()
	c.generation++
	c.cache.Flush()
	c.mu.Unlock()
	logger.Debug("Inquiry listing cache invalidated")
}

func (c *InquiryListCache) get(key string) ([]models.ProjectInquiry, bool) {
	if !c.Enabled() {
		return nil, false
	}

	data, found := c.cache.Get(key)
	if !found {
		metrics.CacheMisses.WithLabelValues(inquiryCacheName).Inc()
		return nil, false
	}

	inquiries, ok := data.([]models.ProjectInquiry)
	if !ok {
		logger.Error("Invalid inquiry cache data type", zap.String("key", key))
		c.cache.Delete(key)
		metrics.CacheMisses.WithLabelValues(inquiryCacheName).Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues(inquiryCacheName).Inc()
	return models.CloneInquiries(inquiries), true
}

func (c *InquiryListCache) set(gen uint64, key string, inquiries []models.ProjectInquiry) {
	if !c.Enabled() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		logger.Debug("Dropping inquiry listing read before invalidation", zap.String("key", key))
		return
	}
	c.cache.Set(key, models.CloneInquiries(inquiries), c.ttl)
}
