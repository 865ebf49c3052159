package cache

import (
	"context"
	"sync"
	"time"
)

// memoryClient implementa Client sobre un map protegido por mutex.
// Respaldo para desarrollo y tests; no compartido entre procesos.
type memoryClient struct {
	prefix string

	mu     sync.Mutex
	data   map[string]memoryEntry
	hits   int64
	misses int64
}

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero = sin expiración
}

// NewMemory crea un cliente de cache en memoria.
func NewMemory(prefix string) *memoryClient {
	return &memoryClient{
		prefix: prefix,
		data:   make(map[string]memoryEntry),
	}
}

func (c *memoryClient) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

func (c *memoryClient) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := c.key(key)
	entry, ok := c.data[k]
	if !ok || entry.expired(time.Now()) {
		if ok {
			delete(c.data, k)
		}
		c.misses++
		return "", ErrNotFound
	}
	c.hits++
	return entry.value, nil
}

func (c *memoryClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[c.key(key)] = entry
	return nil
}

func (c *memoryClient) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, c.key(key))
	return nil
}

func (c *memoryClient) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.data[c.key(key)]
	return ok && !entry.expired(time.Now()), nil
}

func (c *memoryClient) Ping(ctx context.Context) error {
	return nil
}

func (c *memoryClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = map[string]memoryEntry{}
	return nil
}

func (c *memoryClient) Stats(ctx context.Context) (Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var keys int64
	for _, entry := range c.data {
		if !entry.expired(now) {
			keys++
		}
	}
	return Stats{
		Driver: "memory",
		Keys:   keys,
		Hits:   c.hits,
		Misses: c.misses,
	}, nil
}
