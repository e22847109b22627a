// Package kvcache defines the KV cache external collaborator of spec §6:
// the cache-aside store fronting bot_id and tenant config lookups, keyed
// `tenant:{id}:bot_id` / `tenant:{id}:config`, with glob invalidation for
// the snapshot cache's own reload trigger.
package kvcache

import (
	"context"
	"time"
)

// Cache is the KV port the engine and scheduler read bot/tenant config
// through. Implementations: rediskv (production, redis/go-redis/v9) and
// an in-memory map (tests).
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	InvalidatePattern(ctx context.Context, pattern string) error
}
