package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient implementa Client usando Redis.
type redisClient struct {
	client *redis.Client
	prefix string
}

// NewRedis crea un cliente de cache Redis.
func NewRedis(cfg Config) (*redisClient, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Verificar conexión
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}

	return &redisClient{
		client: rdb,
		prefix: cfg.Prefix,
	}, nil
}

func (c *redisClient) key(dir, k string) string {
	if c.prefix == "" {
		return dir + "/" + k
	}
	return c.prefix + ":" + dir + "/" + k
}

func (c *redisClient) Get(ctx context.Context, dir, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.key(dir, key)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (c *redisClient) Set(ctx context.Context, dir, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(dir, key), value, ttl).Err()
}

func (c *redisClient) Delete(ctx context.Context, dir, key string) error {
	return c.client.Del(ctx, c.key(dir, key)).Err()
}

// DeleteDir barre el namespace con SCAN para no bloquear Redis con KEYS.
func (c *redisClient) DeleteDir(ctx context.Context, dir string) error {
	pattern := c.key(dir, "*")
	iter := c.client.Scan(ctx, 0, pattern, 256).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *redisClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *redisClient) Close() error {
	return c.client.Close()
}
