package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// memoryClient implementa Client usando un map en memoria.
// Útil para desarrollo y testing.
type memoryClient struct {
	prefix string
	data   map[string]memoryEntry
	mu     sync.RWMutex
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
	noExpire  bool
}

// NewMemory crea un cliente de cache en memoria.
func NewMemory(prefix string) *memoryClient {
	return &memoryClient{
		prefix: prefix,
		data:   make(map[string]memoryEntry),
	}
}

func (c *memoryClient) key(dir, k string) string {
	if c.prefix == "" {
		return dir + "/" + k
	}
	return c.prefix + ":" + dir + "/" + k
}

func (c *memoryClient) Get(ctx context.Context, dir, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[c.key(dir, key)]
	if !ok {
		return nil, ErrNotFound
	}

	// Verificar expiración
	if !entry.noExpire && time.Now().After(entry.expiresAt) {
		return nil, ErrNotFound
	}

	return entry.value, nil
}

func (c *memoryClient) Set(ctx context.Context, dir, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := memoryEntry{
		value:    value,
		noExpire: ttl == 0,
	}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	c.data[c.key(dir, key)] = entry
	return nil
}

func (c *memoryClient) Delete(ctx context.Context, dir, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, c.key(dir, key))
	return nil
}

func (c *memoryClient) DeleteDir(ctx context.Context, dir string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.key(dir, "")
	for k := range c.data {
		if strings.HasPrefix(k, p) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *memoryClient) Ping(ctx context.Context) error {
	return nil
}

func (c *memoryClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
	return nil
}

// Cleanup elimina entradas expiradas. Llamar periódicamente.
func (c *memoryClient) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, entry := range c.data {
		if !entry.noExpire && now.After(entry.expiresAt) {
			delete(c.data, k)
		}
	}
}
