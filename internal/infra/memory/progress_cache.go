package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"student-app/internal/domain"
)

// ProgressLoader computes module progress from the store.
type ProgressLoader interface {
	GetModuleProgress(ctx context.Context, moduleID domain.ID) (domain.ModuleProgress, error)
}

// ProgressCache caches module progress with TTL for the lifetime of the process.
// Invalidate bumps a generation counter, so a load that started before an invalidation
// can never repopulate the cache with pre-write state.
type ProgressCache struct {
	loader ProgressLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu         sync.RWMutex
	generation uint64
	cache      map[domain.ID]cachedProgress
}

type cachedProgress struct {
	progress  domain.ModuleProgress
	expiresAt time.Time
}

func NewProgressCache(loader ProgressLoader, ttl time.Duration) *ProgressCache {
	return &ProgressCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[domain.ID]cachedProgress),
	}
}

func (c *ProgressCache) GetModuleProgress(ctx context.Context, moduleID domain.ID) (domain.ModuleProgress, error) {
	now := c.clock()

	c.mu.RLock()
	generation := c.generation
	if entry, ok := c.cache[moduleID]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.progress, nil
	}
	c.mu.RUnlock()

	key := strconv.FormatUint(generation, 10) + ":" + moduleID.String()
	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		progress, err := c.loader.GetModuleProgress(ctx, moduleID)
		if err != nil {
			return domain.ModuleProgress{}, err
		}

		c.mu.Lock()
		if c.generation == generation {
			c.cache[moduleID] = cachedProgress{
				progress:  progress,
				expiresAt: c.clock().Add(c.ttlWithJitter()),
			}
		}
		c.mu.Unlock()
		return progress, nil
	})
	if err != nil {
		return domain.ModuleProgress{}, err
	}
	return result.(domain.ModuleProgress), nil
}

// Invalidate drops every cached entry.
func (c *ProgressCache) Invalidate(context.Context) {
	c.mu.Lock()
	c.generation++
	c.cache = make(map[domain.ID]cachedProgress)
	c.mu.Unlock()
}

func (c *ProgressCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
