// Package signal implements the cache invalidation fan-out. Every
// successful mutation of a collection purges that collection's public
// read-cache entry and publishes a fire-and-forget event so other parts
// of the application know the cache is stale. Failures are logged, never
// propagated: a stale cache is an acceptable outcome, a failed save is
// not.
package signal

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/redis/go-redis/v9"

	"github.com/raunak-choudhary/portfolio-admin/internal/config"
)

// Invalidator broadcasts that a collection's public cache is stale.
type Invalidator interface {
	Invalidate(ctx context.Context, collection string)
}

// Event is the payload published on the invalidation channel.
type Event struct {
	Collection string    `json:"collection"`
	At         time.Time `json:"at"`
}

// Bus is the production Invalidator: memcached key purge plus redis
// channel publish.
type Bus struct {
	rdb       *redis.Client
	mc        *memcache.Client
	channel   string
	keyPrefix string
	logger    *slog.Logger
}

// New creates the invalidation bus from cache configuration.
func New(cfg *config.CacheConfig, logger *slog.Logger) *Bus {
	return &Bus{
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}),
		mc:        memcache.New(cfg.MemcachedAddr),
		channel:   cfg.Channel,
		keyPrefix: cfg.KeyPrefix,
		logger:    logger.With("system", "signal"),
	}
}

// Invalidate purges the collection's read-cache key and publishes an
// invalidation event. Best-effort on both legs.
func (b *Bus) Invalidate(ctx context.Context, collection string) {
	if err := b.mc.Delete(b.keyPrefix + collection); err != nil && err != memcache.ErrCacheMiss {
		b.logger.Warn("cache purge failed", "collection", collection, "error", err)
	}

	payload, err := json.Marshal(Event{Collection: collection, At: time.Now().UTC()})
	if err != nil {
		b.logger.Warn("event encode failed", "collection", collection, "error", err)
		return
	}

	if err := b.rdb.Publish(ctx, b.channel, payload).Err(); err != nil {
		b.logger.Warn("event publish failed", "collection", collection, "error", err)
	}
}

// Close releases the underlying clients.
func (b *Bus) Close() error {
	b.mc.Close()
	return b.rdb.Close()
}

// Noop is an Invalidator that does nothing, used when cache fan-out is
// disabled in configuration.
type Noop struct{}

// Invalidate implements Invalidator.
func (Noop) Invalidate(context.Context, string) {}
