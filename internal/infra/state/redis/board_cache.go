// Package redisstate implements the board aggregate cache on Redis. The
// cache shortcuts the read path only; the GORM row stays authoritative and
// every mutation refreshes or drops the cached copy.
package redisstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/vinay-ml/RetroSphere/internal/domain"
	"github.com/vinay-ml/RetroSphere/internal/repository"
)

// RedisBoardCache is the Redis implementation of repository.BoardCache.
type RedisBoardCache struct {
	client *redis.Client
	prefix string
}

// NewRedisBoardCache creates a RedisBoardCache. prefix namespaces all keys
// (e.g. "rs:").
func NewRedisBoardCache(client *redis.Client, prefix string) *RedisBoardCache {
	if client == nil {
		panic("redis client cannot be nil for RedisBoardCache")
	}
	return &RedisBoardCache{client: client, prefix: prefix}
}

func (c *RedisBoardCache) key(id string) string {
	return c.prefix + "board:" + id
}

// Get returns the cached aggregate or repository.ErrNotFound on a miss.
func (c *RedisBoardCache) Get(ctx context.Context, id string) (*domain.Board, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get board %q: %w", id, err)
	}
	var board domain.Board
	if err := json.Unmarshal(data, &board); err != nil {
		// A corrupt entry behaves like a miss; the next Set repairs it.
		return nil, repository.ErrNotFound
	}
	return &board, nil
}

// Set stores the serialized aggregate with the given TTL (0 = no expiry).
func (c *RedisBoardCache) Set(ctx context.Context, board *domain.Board, ttl time.Duration) error {
	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("redis: marshal board %q: %w", board.ID, err)
	}
	if err := c.client.Set(ctx, c.key(board.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set board %q: %w", board.ID, err)
	}
	return nil
}

// Invalidate drops the cached aggregate. Deleting a missing key is not an
// error.
func (c *RedisBoardCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("redis: invalidate board %q: %w", id, err)
	}
	return nil
}
