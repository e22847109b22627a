// Package rediskv is the production kvcache.Cache implementation, backed
// by redis/go-redis/v9.
package rediskv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store wraps a *redis.Client to satisfy kvcache.Cache.
type Store struct {
	client *redis.Client
}

// New wraps an existing redis client. The caller owns the client's
// lifecycle (dialing, closing); Store never constructs its own connection.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Get returns (value, true, nil) on a hit, ("", false, nil) on a miss, and
// a non-nil error only for a genuine transport/protocol failure.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set writes key with an optional ttl (zero means no expiry).
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes key if present; deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// Exists reports whether key is currently set.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// InvalidatePattern deletes every key matching a redis glob pattern (e.g.
// "tenant:42:*"), scanning rather than KEYS to avoid blocking the server
// on a large keyspace.
func (s *Store) InvalidatePattern(ctx context.Context, pattern string) error {
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}
