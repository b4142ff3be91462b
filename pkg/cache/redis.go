package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures a [RedisCache].
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key; defaults to "lanegraph:".
	Prefix string
	// DialTimeout bounds connection setup; defaults to 2s.
	DialTimeout time.Duration
	// OpTimeout bounds a single Get or Set; defaults to 300ms.
	OpTimeout time.Duration
	// Cooldown is how long Get and Set skip Redis after a failure;
	// defaults to 10s.
	Cooldown time.Duration
}

// RedisCache stores entries in Redis so several machines can share
// rendered rows.
//
// Rows are fetched while the user waits, so Get and Set make one attempt
// under OpTimeout. After a failure the backend reports ErrNetwork without
// touching the network until the cooldown has passed.
type RedisCache struct {
	client    *redis.Client
	prefix    string
	opTimeout time.Duration
	cooldown  time.Duration
	downUntil atomic.Int64 // unix nanos
}

// NewRedisCache connects to Redis and verifies the connection. The initial
// ping is retried with backoff.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	if cfg.Prefix == "" {
		cfg.Prefix = "lanegraph:"
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 2 * time.Second
	}
	if cfg.OpTimeout == 0 {
		cfg.OpTimeout = 300 * time.Millisecond
	}
	if cfg.Cooldown == 0 {
		cfg.Cooldown = 10 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
		MaxRetries:  -1,
	})
	err := RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			return Retryable(fmt.Errorf("%w: redis %s: %v", ErrNetwork, cfg.Addr, err))
		}
		return nil
	})
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return newRedisCache(client, cfg), nil
}

func newRedisCache(client *redis.Client, cfg RedisConfig) *RedisCache {
	return &RedisCache{
		client:    client,
		prefix:    cfg.Prefix,
		opTimeout: cfg.OpTimeout,
		cooldown:  cfg.Cooldown,
	}
}

// available reports whether the cooldown after the last failure is over.
func (c *RedisCache) available() bool {
	return time.Now().UnixNano() >= c.downUntil.Load()
}

// fail starts a cooldown and wraps err as a network error.
func (c *RedisCache) fail(err error) error {
	c.downUntil.Store(time.Now().Add(c.cooldown).UnixNano())
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

// Get retrieves a value from Redis.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if !c.available() {
		return nil, false, ErrNetwork
	}
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, c.fail(err)
	}
	return data, true, nil
}

// Set stores a value in Redis. A zero ttl keeps the entry forever.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if !c.available() {
		return ErrNetwork
	}
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		return c.fail(err)
	}
	return nil
}

// Delete removes a value from Redis.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

// Clear deletes every key under the prefix.
func (c *RedisCache) Clear(ctx context.Context) (int, error) {
	count := 0
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 500).Iterator()
	batch := make([]string, 0, 500)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := c.client.Del(ctx, batch...).Result()
		count += int(n)
		batch = batch[:0]
		return err
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				return count, fmt.Errorf("%w: %v", ErrNetwork, err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return count, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if err := flush(); err != nil {
		return count, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return count, nil
}

// Close closes the connection pool.
func (c *RedisCache) Close() error { return c.client.Close() }

var (
	_ Cache   = (*RedisCache)(nil)
	_ Clearer = (*RedisCache)(nil)
)
