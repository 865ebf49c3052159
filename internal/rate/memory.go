package rate

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter: fixed window in-process sobre go-cache. Mismo algoritmo que
// RedisLimiter. Para desarrollo o despliegues de un solo proceso sin Redis.
type MemoryLimiter struct {
	mu    sync.Mutex
	cache *gocache.Cache
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		cache: gocache.New(gocache.NoExpiration, 5*time.Minute),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	now := time.Now().UTC()
	winStart := now.Truncate(window)
	cacheKey := fmt.Sprintf("%s:%d", key, winStart.Unix())

	l.mu.Lock()
	defer l.mu.Unlock()

	var hits int64 = 1
	if v, ok := l.cache.Get(cacheKey); ok {
		hits = v.(int64) + 1
	}
	l.cache.Set(cacheKey, hits, window)

	max := int64(limit)
	allowed := hits <= max
	remaining := max - hits
	if remaining < 0 {
		remaining = 0
	}

	res := Result{
		Allowed:     allowed,
		Remaining:   remaining,
		CurrentHits: hits,
	}
	if !allowed {
		res.RetryAfter = winStart.Add(window).Sub(now)
	}
	return res, nil
}
