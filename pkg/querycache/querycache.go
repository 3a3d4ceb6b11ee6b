// Package querycache caches backend query responses with TTL expiry and
// explicit invalidation.
//
// Reads go through Remember: a hit returns the cached value, a miss runs the
// fetch function and stores the result. Mutations call Forget on the affected
// keys, so the next read refetches fresh data — this is the mechanism that
// closes the gap between an optimistic local edit and server-confirmed state.
//
//	var page models.ProductPage
//	err := querycache.Remember("products:1", time.Minute, &page, func(dest any) error {
//	    return fetchPage(ctx, 1, dest)
//	})
package querycache

import (
	"time"

	"github.com/shashiranjanraj/bazario/config"
	"github.com/shashiranjanraj/bazario/pkg/metrics"
)

// Driver is a cache backend.
type Driver interface {
	// Get retrieves a cached value by key and unmarshals into dest.
	// Returns true on a cache hit, false on miss or error.
	Get(key string, dest interface{}) bool
	// Set stores value under key for the given TTL.
	Set(key string, value interface{}, ttl time.Duration) error
	// Forget removes one or more keys.
	Forget(keys ...string) error
	// Name identifies the driver for metrics.
	Name() string
}

var driver Driver = NewMemoryDriver()

// Connect selects the driver from config. With CACHE_DRIVER=redis a failed
// connection degrades to the in-memory driver rather than aborting: the cache
// is an optimisation, never a dependency.
func Connect() error {
	if config.CacheDriver() != "redis" {
		return nil
	}
	d, err := NewRedisDriver()
	if err != nil {
		return err
	}
	driver = d
	return nil
}

// Use swaps the active driver (tests inject a fresh memory driver here).
func Use(d Driver) { driver = d }

// Get retrieves a cached value, recording hit/miss metrics.
func Get(key string, dest interface{}) bool {
	if driver.Get(key, dest) {
		metrics.CacheHits.WithLabelValues(driver.Name()).Inc()
		return true
	}
	metrics.CacheMisses.WithLabelValues(driver.Name()).Inc()
	return false
}

// Set stores a value under key for the given TTL.
func Set(key string, value interface{}, ttl time.Duration) error {
	return driver.Set(key, value, ttl)
}

// Forget invalidates keys.
func Forget(keys ...string) error {
	return driver.Forget(keys...)
}

// Remember returns the cached value for key, or runs fetch and caches its
// result. fetch must fill dest.
func Remember(key string, ttl time.Duration, dest interface{}, fetch func(dest interface{}) error) error {
	if Get(key, dest) {
		return nil
	}
	if err := fetch(dest); err != nil {
		return err
	}
	return Set(key, dest, ttl)
}
