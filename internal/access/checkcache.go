package access

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/accessd/internal/cache"
	"github.com/dropDatabas3/accessd/internal/observability/logger"
	"github.com/dropDatabas3/accessd/internal/store/core"
)

// CacheDir es el namespace del cache store para este motor: ahí viven
// tanto las entradas de checks como los sets de códigos por usuario.
const CacheDir = "access_check"

// CheckCache responde "¿hay una recalculación pendiente ya vencida para
// (provider, usuario)?". Tres niveles: memo in-process (solo evita
// lecturas repetidas dentro del proceso, nunca fuente de verdad entre
// procesos), cache store compartido y la tabla user_access_check.
type CheckCache struct {
	repo    core.CheckRepository
	store   cache.Client
	enabled bool
	ttl     time.Duration

	memo *gocache.Cache
	sf   singleflight.Group
}

// NewCheckCache crea el cache de checks. enabled refleja el toggle
// global de caching: en false toda lectura va a storage.
func NewCheckCache(repo core.CheckRepository, store cache.Client, enabled bool, ttl time.Duration) *CheckCache {
	return &CheckCache{
		repo:    repo,
		store:   store,
		enabled: enabled,
		ttl:     ttl,
		memo:    gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

func checkCacheID(providerID string, userID int64) string {
	return fmt.Sprintf("access_check_v2_%s_%d", providerID, userID)
}

func memoKey(providerID string, userID int64) string {
	return fmt.Sprintf("%s|%d", providerID, userID)
}

// IsRecalculationDue indica si alguna marca pendiente para
// (provider, usuario) ya venció respecto de now. Sin efectos fuera de
// poblar memo y cache store en una carga desde storage.
func (c *CheckCache) IsRecalculationDue(ctx context.Context, providerID string, userID int64, now time.Time) (bool, error) {
	checks, err := c.pending(ctx, providerID, userID)
	if err != nil {
		return false, err
	}

	for _, t := range checks {
		if !t.After(now) {
			return true, nil
		}
	}
	return false, nil
}

// pending carga la lista de marcas para (provider, usuario): memo →
// cache store → storage. Cargas concurrentes de la misma key se
// coalescen con singleflight.
func (c *CheckCache) pending(ctx context.Context, providerID string, userID int64) ([]time.Time, error) {
	key := memoKey(providerID, userID)
	if v, ok := c.memo.Get(key); ok {
		return v.([]time.Time), nil
	}

	v, err, _ := c.sf.Do(key, func() (any, error) {
		if v, ok := c.memo.Get(key); ok {
			return v.([]time.Time), nil
		}

		checks, err := c.load(ctx, providerID, userID)
		if err != nil {
			return nil, err
		}
		c.memo.Set(key, checks, gocache.NoExpiration)
		return checks, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]time.Time), nil
}

func (c *CheckCache) load(ctx context.Context, providerID string, userID int64) ([]time.Time, error) {
	cacheID := checkCacheID(providerID, userID)

	if c.enabled {
		if b, err := c.store.Get(ctx, CacheDir, cacheID); err == nil {
			var checks []time.Time
			if jsonErr := json.Unmarshal(b, &checks); jsonErr == nil {
				return checks, nil
			}
			// entrada corrupta: se descarta y se relee de storage
			_ = c.store.Delete(ctx, CacheDir, cacheID)
		} else if !cache.IsNotFound(err) {
			logger.From(ctx).Warn("check cache read failed",
				logger.Provider(providerID), logger.UserID(userID), logger.Err(err))
		}
	}

	checks, err := c.repo.GetChecks(ctx, providerID, userID)
	if err != nil {
		return nil, err
	}
	if checks == nil {
		checks = []time.Time{}
	}

	if c.enabled {
		if b, err := json.Marshal(checks); err == nil {
			if err := c.store.Set(ctx, CacheDir, cacheID, b, c.ttl); err != nil {
				logger.From(ctx).Warn("check cache write failed",
					logger.Provider(providerID), logger.UserID(userID), logger.Err(err))
			}
		}
	}
	return checks, nil
}

// Invalidate limpia la entrada del cache store y el memo del par.
func (c *CheckCache) Invalidate(ctx context.Context, providerID string, userID int64) error {
	c.memo.Delete(memoKey(providerID, userID))
	return c.store.Delete(ctx, CacheDir, checkCacheID(providerID, userID))
}

// DropProviderMemo descarta el memo in-process de todo un provider.
// Solo toca este proceso; el cache store se limpia aparte.
func (c *CheckCache) DropProviderMemo(providerID string) {
	prefix := providerID + "|"
	for key := range c.memo.Items() {
		if strings.HasPrefix(key, prefix) {
			c.memo.Delete(key)
		}
	}
}

// ScheduleCheck agenda una marca para el usuario (insert-if-absent) e
// invalida la entrada del par.
func (c *CheckCache) ScheduleCheck(ctx context.Context, providerID string, userID int64, when time.Time) error {
	if err := c.repo.ScheduleCheck(ctx, providerID, userID, when); err != nil {
		return err
	}
	return c.Invalidate(ctx, providerID, userID)
}

// ClearProcessed borra las marcas ya vencidas (date_check <= upto) e
// invalida la entrada del par.
func (c *CheckCache) ClearProcessed(ctx context.Context, providerID string, userID int64, upto time.Time) error {
	if err := c.repo.ClearProcessed(ctx, providerID, userID, upto); err != nil {
		return err
	}
	return c.Invalidate(ctx, providerID, userID)
}
