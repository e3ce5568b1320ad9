package facts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-redis/redis/v8"

	"github.com/newtron-network/ifcheck/pkg/util"
)

// Ansible redis fact cache layout: each host's facts are a JSON string at
// <prefix><host>, and host names are members of a sorted set.
const (
	DefaultRedisPrefix = "ansible_facts"
	RedisKeySet        = "ansible_cache_keys"
)

// RedisCache reads the Ansible redis fact cache.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects lazily to the redis server at addr.
func NewRedisCache(addr string, db int, prefix string) *RedisCache {
	return NewRedisCacheFromClient(redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	}), prefix)
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisCache{client: client, prefix: prefix}
}

// Ping tests the connection
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Load implements Source.
func (c *RedisCache) Load(ctx context.Context, host string) (*Snapshot, error) {
	if host == "" {
		return nil, fmt.Errorf("redis cache: host is required")
	}
	key := c.prefix + host
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis cache key %s: %w", key, util.ErrFactsNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redis cache key %s: %w", key, err)
	}

	snap, err := Decode([]byte(val))
	if err != nil {
		return nil, fmt.Errorf("redis cache key %s: %w", key, err)
	}
	util.WithHost(host).Debugf("loaded %d interface facts from redis", snap.Len())
	return snap, nil
}

// Hosts lists cached hosts, sorted. The key set is authoritative; when it is
// empty the keyspace is scanned for the prefix instead.
func (c *RedisCache) Hosts(ctx context.Context) ([]string, error) {
	hosts, err := c.client.ZRange(ctx, RedisKeySet, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", RedisKeySet, err)
	}
	if len(hosts) == 0 {
		keys, err := scanKeys(ctx, c.client, c.prefix+"*", 100)
		if err != nil {
			return nil, fmt.Errorf("scanning %s*: %w", c.prefix, err)
		}
		for _, k := range keys {
			if host := strings.TrimPrefix(k, c.prefix); host != "" {
				hosts = append(hosts, host)
			}
		}
	}
	sort.Strings(hosts)
	return hosts, nil
}

// scanKeys collects keys matching pattern with cursor-based SCAN (non-blocking, unlike KEYS).
func scanKeys(ctx context.Context, client *redis.Client, pattern string, countHint int64) ([]string, error) {
	var cursor uint64
	var keys []string
	for {
		batch, nextCursor, err := client.Scan(ctx, cursor, pattern, countHint).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}
