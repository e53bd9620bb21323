// Package cache provides typed, prefixed caches over gocache, backed either
// by an in-process go-cache store or by Redis.
//
// There are three layers. At the bottom sits a gocache store adapter: go_store
// wraps a patrickmn/go-cache map, redis_store wraps a go-redis client. New
// puts a cache.Cache[[]byte] on top of whichever one the config picks, so the
// rest of the code never knows where bytes live. PrefixedCache[T] is the layer
// services see: it JSON-encodes values of one type and namespaces their keys
// (for example "courses:active"), which lets several typed caches share one
// Redis database without colliding.
//
// Values are stored as bytes rather than as T so both backends behave the
// same: Redis can only hold bytes, and the memory store would otherwise hand
// out shared pointers to cached slices.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	go_store "github.com/eko/gocache/store/go_cache/v4"
	redis_store "github.com/eko/gocache/store/redis/v4"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const (
	TypeMemory = "memory"
	TypeRedis  = "redis"
)

// PrefixedCache stores JSON-encoded values of type T under prefix+key.
type PrefixedCache[T any] struct {
	cache  *cache.Cache[[]byte]
	prefix string
	ttl    time.Duration
}

func NewPrefixedCache[T any](c *cache.Cache[[]byte], prefix string, ttl time.Duration) *PrefixedCache[T] {
	return &PrefixedCache[T]{cache: c, prefix: prefix, ttl: ttl}
}

func (p *PrefixedCache[T]) key(k string) string { return p.prefix + k }

// Get returns the cached value. Any error, including a miss, means the
// caller has to go to the source.
func (p *PrefixedCache[T]) Get(ctx context.Context, key string) (T, error) {
	data, err := p.cache.Get(ctx, p.key(key))
	if err != nil {
		return *new(T), err
	}
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return *new(T), err
	}
	return result, nil
}

func (p *PrefixedCache[T]) Set(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return p.cache.Set(ctx, p.key(key), data, store.WithExpiration(p.ttl))
}

func (p *PrefixedCache[T]) Delete(ctx context.Context, key string) error {
	return p.cache.Delete(ctx, p.key(key))
}

func (p *PrefixedCache[T]) GetType() string {
	return p.cache.GetType()
}

// New builds the backing byte cache for the given type. redisURL accepts a
// redis:// URL or a plain host:port.
func New(cacheType, redisURL string, defaultTTL time.Duration) (*cache.Cache[[]byte], error) {
	switch cacheType {
	case TypeMemory, "":
		return newMemoryCache(defaultTTL), nil
	case TypeRedis:
		return newRedisCache(redisURL)
	default:
		return nil, fmt.Errorf("cache: unknown type %q", cacheType)
	}
}

func newMemoryCache(defaultTTL time.Duration) *cache.Cache[[]byte] {
	gocacheClient := gocache.New(defaultTTL, 2*defaultTTL)
	gocacheStore := go_store.NewGoCache(gocacheClient)
	return cache.New[[]byte](gocacheStore)
}

func newRedisCache(redisURL string) (*cache.Cache[[]byte], error) {
	opts := &redis.Options{Addr: redisURL}
	if strings.Contains(redisURL, "://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("cache: parsing redis url: %w", err)
		}
		opts = parsed
	}
	redisClient := redis.NewClient(opts)
	redisStore := redis_store.NewRedis(redisClient)
	return cache.New[[]byte](redisStore), nil
}
