package entstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chatflow-dev/scenariorunner/pkg/kvcache"
	"github.com/chatflow-dev/scenariorunner/pkg/store"
)

// configCacheTTL bounds how long a tenant's bot_id/config blob is trusted
// before the next lookup re-reads Postgres, independent of an explicit
// InvalidateTenant call from a reload.
const configCacheTTL = 10 * time.Minute

// CachedStore wraps a Store with a cache-aside layer over bot_id and
// tenant config lookups, keyed the way kvcache's package doc describes:
// "tenant:{id}:bot_id" / "tenant:{id}:config".
type CachedStore struct {
	*Store
	cache kvcache.Cache
}

// NewCached wraps store with a cache-aside layer over cache.
func NewCached(s *Store, cache kvcache.Cache) *CachedStore {
	return &CachedStore{Store: s, cache: cache}
}

var _ store.Repository = (*CachedStore)(nil)

// GetBotByTenantID reads tenant:{id}:bot_id from the cache, falling back
// to the underlying store and populating the cache on a miss.
func (c *CachedStore) GetBotByTenantID(ctx context.Context, tenantID int64) (string, error) {
	key := fmt.Sprintf("tenant:%d:bot_id", tenantID)
	if cached, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		return cached, nil
	}

	botID, err := c.Store.GetBotByTenantID(ctx, tenantID)
	if err != nil {
		return "", err
	}
	_ = c.cache.Set(ctx, key, botID, configCacheTTL)
	return botID, nil
}

// GetTenantByID reads tenant:{id}:config from the cache for the Config
// blob only; IsSystem/Name always come from Postgres and are never cached.
func (c *CachedStore) GetTenantByID(ctx context.Context, tenantID int64) (*store.Tenant, error) {
	t, err := c.Store.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("tenant:%d:config", tenantID)
	if cached, ok, cacheErr := c.cache.Get(ctx, key); cacheErr == nil && ok {
		var cfg map[string]any
		if err := json.Unmarshal([]byte(cached), &cfg); err == nil {
			t.Config = cfg
			return t, nil
		}
	}

	if raw, err := json.Marshal(t.Config); err == nil {
		_ = c.cache.Set(ctx, key, string(raw), configCacheTTL)
	}
	return t, nil
}

// InvalidateTenant drops tenant:{id}:* from the cache, called whenever a
// tenant's scenario config is reloaded so a stale bot_id/config blob
// cannot outlive the reload that was meant to refresh it.
func (c *CachedStore) InvalidateTenant(ctx context.Context, tenantID int64) error {
	return c.cache.InvalidatePattern(ctx, fmt.Sprintf("tenant:%d:*", tenantID))
}
