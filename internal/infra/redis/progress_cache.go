package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"student-app/internal/domain"
)

const generationKey = "progress:generation"

// ProgressLoader computes module progress from the store.
type ProgressLoader interface {
	GetModuleProgress(ctx context.Context, moduleID domain.ID) (domain.ModuleProgress, error)
}

// ProgressCache caches module progress in Redis and falls back to the loader on a miss.
// Entries are stored as: SET progress:{generation}:{moduleID} <json> EX ttl
// Invalidate increments progress:generation so older entries are never read again and
// simply expire.
type ProgressCache struct {
	client *redis.Client
	loader ProgressLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand

	// bypass is set when an invalidation could not reach Redis; reads skip the cache
	// until a later invalidation succeeds.
	bypass atomic.Bool
}

func NewProgressCache(client *redis.Client, loader ProgressLoader, ttl time.Duration) *ProgressCache {
	return &ProgressCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *ProgressCache) GetModuleProgress(ctx context.Context, moduleID domain.ID) (domain.ModuleProgress, error) {
	if c.bypass.Load() {
		if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
			return c.loader.GetModuleProgress(ctx, moduleID)
		}
		c.bypass.Store(false)
	}

	generation, err := c.generation(ctx)
	if err != nil {
		return c.loader.GetModuleProgress(ctx, moduleID)
	}
	key := progressKey(generation, moduleID)

	if progress, ok := c.lookup(ctx, key); ok {
		return progress, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if progress, ok := c.lookup(ctx, key); ok {
			return progress, nil
		}

		progress, err := c.loader.GetModuleProgress(ctx, moduleID)
		if err != nil {
			return domain.ModuleProgress{}, err
		}

		// Only publish if nothing was written while we were loading.
		if current, err := c.generation(ctx); err == nil && current == generation && !c.bypass.Load() {
			if raw, err := json.Marshal(progress); err == nil {
				_ = c.client.Set(ctx, key, raw, c.ttlWithJitter()).Err()
			}
		}
		return progress, nil
	})
	if err != nil {
		return domain.ModuleProgress{}, err
	}
	return result.(domain.ModuleProgress), nil
}

// Invalidate retires every cached entry.
func (c *ProgressCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.bypass.Store(true)
	}
}

func (c *ProgressCache) generation(ctx context.Context) (int64, error) {
	generation, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return generation, err
}

func (c *ProgressCache) lookup(ctx context.Context, key string) (domain.ModuleProgress, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return domain.ModuleProgress{}, false
	}
	var progress domain.ModuleProgress
	if err := json.Unmarshal(raw, &progress); err != nil {
		return domain.ModuleProgress{}, false
	}
	return progress, true
}

func progressKey(generation int64, moduleID domain.ID) string {
	return "progress:" + strconv.FormatInt(generation, 10) + ":" + moduleID.String()
}

func (c *ProgressCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
