package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	var c Cache = Nop{}

	require.NoError(t, c.Set(ctx, "abc123", "https://example.com"))

	_, err := c.Get(ctx, "abc123")
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, c.Delete(ctx, "abc123"))
}

func TestNewRedisClientParsesURL(t *testing.T) {
	client, err := NewRedisClient("redis://:secret@localhost:6380/2")
	require.NoError(t, err)
	defer client.Close()

	opts := client.Options()
	assert.Equal(t, "localhost:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	_, err := NewRedisClient("http://localhost:6379")
	assert.Error(t, err)
}

func setupRedisCache(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, ttl), mr
}

func TestRedisCacheSetAppliesTTL(t *testing.T) {
	c, mr := setupRedisCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "abc123", "https://example.com"))

	stored, err := mr.Get("tinylink:code:abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", stored)
	assert.Equal(t, time.Minute, mr.TTL("tinylink:code:abc123"))

	url, err := c.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", url)

	mr.FastForward(time.Minute + time.Second)
	_, err = c.Get(ctx, "abc123")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisCacheMiss(t *testing.T) {
	c, _ := setupRedisCache(t, time.Minute)

	_, err := c.Get(context.Background(), "absent1")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisCacheDeleteEvicts(t *testing.T) {
	c, mr := setupRedisCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "abc123", "https://example.com"))
	require.NoError(t, c.Delete(ctx, "abc123"))

	assert.False(t, mr.Exists("tinylink:code:abc123"))
	_, err := c.Get(ctx, "abc123")
	assert.ErrorIs(t, err, ErrMiss)

	// Evicting an absent key is not an error
	assert.NoError(t, c.Delete(ctx, "abc123"))
}

func TestRedisCacheUnavailable(t *testing.T) {
	c, mr := setupRedisCache(t, time.Minute)
	mr.Close()

	_, err := c.Get(context.Background(), "abc123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}
