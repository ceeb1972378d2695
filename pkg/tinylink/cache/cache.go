// Package cache keeps recently resolved code -> URL mappings close to the redirect path.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the code is not cached
var ErrMiss = errors.New("cache miss")

// Cache stores target URLs by short code
type Cache interface {
	Get(ctx context.Context, code string) (string, error)
	Set(ctx context.Context, code, url string) error
	Delete(ctx context.Context, code string) error
}

// Nop is a Cache that never stores anything
type Nop struct{}

func (Nop) Get(context.Context, string) (string, error) { return "", ErrMiss }
func (Nop) Set(context.Context, string, string) error   { return nil }
func (Nop) Delete(context.Context, string) error        { return nil }

// RedisCache is a Cache backed by Redis string keys with a TTL
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
}

// NewRedisCache creates a Redis-backed cache
func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		prefix: "tinylink:code:",
	}
}

// NewRedisClient parses a redis:// URL into a client
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

func (c *RedisCache) key(code string) string {
	return c.prefix + code
}

// Get returns the cached URL for code or ErrMiss
func (c *RedisCache) Get(ctx context.Context, code string) (string, error) {
	url, err := c.client.Get(ctx, c.key(code)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", err
	}
	return url, nil
}

// Set caches url under code
func (c *RedisCache) Set(ctx context.Context, code, url string) error {
	return c.client.Set(ctx, c.key(code), url, c.ttl).Err()
}

// Delete evicts code
func (c *RedisCache) Delete(ctx context.Context, code string) error {
	return c.client.Del(ctx, c.key(code)).Err()
}
