package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	// EnvCacheRedisAddr overrides the redis address.
	EnvCacheRedisAddr = "CACHE_REDIS_ADDR"

	// EnvCacheMemcachedAddr overrides the memcached address.
	EnvCacheMemcachedAddr = "CACHE_MEMCACHED_ADDR"
)

// CacheConfig contains the public read-cache and invalidation signal
// configuration.
type CacheConfig struct {
	// Enabled toggles cache invalidation fan-out entirely. Disabled
	// deployments still work; public caches just go stale until TTL.
	Enabled bool `toml:"enabled"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	// Channel is the redis channel invalidation events are published on.
	Channel string `toml:"channel"`

	MemcachedAddr string `toml:"memcached_addr"`

	// KeyPrefix namespaces the public read-cache keys, one per collection.
	KeyPrefix string `toml:"key_prefix"`
}

// Finalize applies defaults, loads environment overrides, and validates
// the cache configuration.
func (c *CacheConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *CacheConfig) Merge(overlay *CacheConfig) {
	if overlay.Enabled {
		c.Enabled = true
	}
	if overlay.RedisAddr != "" {
		c.RedisAddr = overlay.RedisAddr
	}
	if overlay.RedisPassword != "" {
		c.RedisPassword = overlay.RedisPassword
	}
	if overlay.RedisDB != 0 {
		c.RedisDB = overlay.RedisDB
	}
	if overlay.Channel != "" {
		c.Channel = overlay.Channel
	}
	if overlay.MemcachedAddr != "" {
		c.MemcachedAddr = overlay.MemcachedAddr
	}
	if overlay.KeyPrefix != "" {
		c.KeyPrefix = overlay.KeyPrefix
	}
}

func (c *CacheConfig) loadDefaults() {
	if c.RedisAddr == "" {
		c.RedisAddr = "localhost:6379"
	}
	if c.Channel == "" {
		c.Channel = "portfolio:invalidations"
	}
	if c.MemcachedAddr == "" {
		c.MemcachedAddr = "localhost:11211"
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "public:"
	}
}

func (c *CacheConfig) loadEnv() {
	if v := os.Getenv(EnvCacheRedisAddr); v != "" {
		c.RedisAddr = v
	}
	if v := os.Getenv(EnvCacheMemcachedAddr); v != "" {
		c.MemcachedAddr = v
	}
}

func (c *CacheConfig) validate() error {
	if c.RedisDB < 0 || c.RedisDB > 15 {
		return fmt.Errorf("invalid redis_db: %s", strconv.Itoa(c.RedisDB))
	}
	return nil
}
