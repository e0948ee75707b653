package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// redisManager implementa Manager con SET NX sobre Redis.
// Cada lock lleva un token de dueño para que Unlock no borre un lock
// que ya expiró y fue tomado por otro proceso.
type redisManager struct {
	client *redis.Client
	ttl    time.Duration
	owner  string
}

// unlockScript borra la key solo si el valor coincide con el token del dueño.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// NewRedis crea un Manager distribuido sobre Redis.
func NewRedis(cfg Config) (*redisManager, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("lock: redis ping failed: %w", err)
	}

	return &redisManager{
		client: rdb,
		ttl:    ttl,
		owner:  uuid.NewString(),
	}, nil
}

func (m *redisManager) key(name string) string {
	return "lock:" + name
}

func (m *redisManager) TryLock(ctx context.Context, name string) (bool, error) {
	return m.client.SetNX(ctx, m.key(name), m.owner, m.ttl).Result()
}

func (m *redisManager) Unlock(ctx context.Context, name string) error {
	return unlockScript.Run(ctx, m.client, []string{m.key(name)}, m.owner).Err()
}

func (m *redisManager) Close() error {
	return m.client.Close()
}
