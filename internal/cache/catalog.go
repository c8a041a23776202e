// Package cache keeps read-heavy catalog responses in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gurukul/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	catalogPrefix = "catalog:"
	// generationKey is bumped on every catalog write; readers embed it in
	// their keys so stale pages are simply never read again.
	generationKey = catalogPrefix + "gen"
)

// Catalog is a cache-aside store for course catalog reads. A nil *redis.Client
// turns every call into a pass-through.
type Catalog struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// Connect parses a redis URL (or host:port) and pings it. Callers treat an
// error as "run without cache".
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func NewCatalog(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *Catalog {
	return &Catalog{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "CatalogCache").Logger(),
	}
}

// Enabled reports whether a Redis client is configured.
func (c *Catalog) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Catalog) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *Catalog) key(ctx context.Context, name string) (string, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%sv%d:%s", catalogPrefix, gen, name), nil
}

// Remember returns the cached value for name, or calls load, stores its result
// and returns it. Cache failures never fail the read.
func Remember[T any](ctx context.Context, c *Catalog, name string, load func(context.Context) (T, error)) (T, error) {
	if !c.Enabled() {
		return load(ctx)
	}

	key, err := c.key(ctx, name)
	if err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn().Err(err).Msg("Failed to read cache generation")
		return load(ctx)
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached T
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return cached, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if data, err := json.Marshal(value); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
		}
	}
	return value, nil
}

// Invalidate drops every cached catalog entry.
func (c *Catalog) Invalidate(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.logger.Error().Err(err).Msg("Failed to invalidate catalog cache")
	}
}
