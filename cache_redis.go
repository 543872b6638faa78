package wowapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCacheConfig holds connection settings for the Redis cache engine.
type RedisCacheConfig struct {
	// Addr is the host:port of the Redis server.
	// Default: "localhost:6379"
	Addr string

	// Password is the optional Redis AUTH password.
	Password string

	// DB is the Redis database number.
	DB int

	// KeyPrefix namespaces this engine's keys so several applications can
	// share one Redis instance.
	// Default: "wowapi:"
	KeyPrefix string

	// DialTimeout bounds the initial connection attempt.
	// Default: 5s
	DialTimeout time.Duration
}

// RedisCache is a cache engine backed by Redis, for sharing cached origin
// responses across processes. It is opt-in: inject it with
// Config.WithCache. Entries are stored without TTL — staleness is still
// decided by the fetch pipeline, exactly as with the in-process engine.
//
// Example:
//
//	engine, err := wowapi.NewRedisCache(&wowapi.RedisCacheConfig{
//	    Addr: "cache.internal:6379",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := wowapi.NewClient(wowapi.DefaultConfig().
//	    WithAPIKey("my-key").
//	    WithCache(engine))
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to Redis and returns a cache engine. The
// connection is verified with a ping before the engine is handed out.
func NewRedisCache(config *RedisCacheConfig) (*RedisCache, error) {
	if config == nil {
		config = &RedisCacheConfig{}
	}
	if config.Addr == "" {
		config.Addr = "localhost:6379"
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "wowapi:"
	}
	if config.DialTimeout == 0 {
		config.DialTimeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:        config.Addr,
		Password:    config.Password,
		DB:          config.DB,
		DialTimeout: config.DialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), config.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{
		client: client,
		prefix: config.KeyPrefix,
	}, nil
}

// Get retrieves the entry for (url, params).
func (r *RedisCache) Get(ctx context.Context, rawURL string, params url.Values) (*Envelope, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+cacheKey(rawURL, params)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	entry, err := decodeEnvelope(data)
	if err != nil {
		return nil, false, err
	}
	return entry, true, nil
}

// Set stores the entry for (url, params), overwriting any previous one.
func (r *RedisCache) Set(ctx context.Context, rawURL string, params url.Values, entry *Envelope) error {
	data, err := encodeEnvelope(entry)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.prefix+cacheKey(rawURL, params), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Exists checks whether an entry is present.
func (r *RedisCache) Exists(ctx context.Context, rawURL string, params url.Values) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+cacheKey(rawURL, params)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check cache entry: %w", err)
	}
	return n > 0, nil
}

// Close closes the Redis connection.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
