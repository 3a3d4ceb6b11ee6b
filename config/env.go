// Package config resolves Bazario client configuration from three layers:
// compiled-in defaults, a .env file read via godotenv, and finally real
// environment variables, which win over everything.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const (
	defaultAPIBaseURL   = "http://localhost:8080/api/v1"
	defaultAppEnv       = "local"
	defaultAppKey       = "change-me-in-production"
	defaultRedisAddr    = "localhost:6379"
	defaultCacheDriver  = "memory"
	defaultKVDriver     = "sqlite"
	defaultCallbackAddr = "127.0.0.1:8743"
	defaultDaemonAddr   = "127.0.0.1:8742"
	defaultStorageDisk  = "local"
)

var (
	loadOnce sync.Once

	mu     sync.RWMutex
	values = defaultValues()
)

func defaultValues() map[string]string {
	return map[string]string{
		"API_BASE_URL":   defaultAPIBaseURL,
		"APP_ENV":        defaultAppEnv,
		"APP_KEY":        defaultAppKey,
		"BAZARIO_HOME":   "",
		"REDIS_ADDR":     defaultRedisAddr,
		"REDIS_PASSWORD": "",
		"CACHE_DRIVER":   defaultCacheDriver,
		"KV_DRIVER":      defaultKVDriver,
		"CALLBACK_ADDR":  defaultCallbackAddr,
		"DAEMON_ADDR":    defaultDaemonAddr,
		"STORAGE_DISK":   defaultStorageDisk,
	}
}

// Load resolves the configuration layers. Safe to call from anywhere; the
// work happens once.
func Load() {
	loadOnce.Do(func() {
		loaded := defaultValues()

		// The data-directory .env is read first so a .env in the working
		// directory can override it.
		for _, path := range []string{filepath.Join(homeDir(), ".env"), ".env"} {
			env, err := godotenv.Read(path)
			if err != nil {
				continue
			}
			for k, v := range env {
				key := strings.ToUpper(strings.TrimSpace(k))
				if key == "" {
					continue
				}
				loaded[key] = strings.TrimSpace(v)
			}
		}

		mu.Lock()
		values = loaded
		mu.Unlock()
	})
}

// Get reads a config key with an optional fallback. Real environment
// variables take precedence over .env values and defaults.
func Get(key, fallback string) string {
	Load()

	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}

	mu.RLock()
	defer mu.RUnlock()
	if v := strings.TrimSpace(values[key]); v != "" {
		return v
	}
	return fallback
}

// APIBaseURL is the root of the backend REST API, without a trailing slash.
func APIBaseURL() string {
	return strings.TrimRight(Get("API_BASE_URL", defaultAPIBaseURL), "/")
}

// WSBaseURL derives the websocket root from the API base URL.
func WSBaseURL() string {
	base := APIBaseURL()
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return base
	}
}

func AppEnv() string { return Get("APP_ENV", defaultAppEnv) }

// AppKey is the secret used to encrypt the persisted session at rest.
func AppKey() string { return Get("APP_KEY", defaultAppKey) }

// Home is the per-user data directory holding the local store, exports and .env.
func Home() string {
	if dir := Get("BAZARIO_HOME", ""); dir != "" {
		return dir
	}
	return homeDir()
}

func homeDir() string {
	base, err := os.UserHomeDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, ".bazario")
}

func RedisAddr() string     { return Get("REDIS_ADDR", defaultRedisAddr) }
func RedisPassword() string { return Get("REDIS_PASSWORD", "") }

// CacheDriver selects the query-cache backend: "memory" or "redis".
func CacheDriver() string { return Get("CACHE_DRIVER", defaultCacheDriver) }

// KVDriver selects the durable local store backend: "sqlite" or "file".
func KVDriver() string { return Get("KV_DRIVER", defaultKVDriver) }

// CallbackAddr is the listen address for the payment-gateway callback server.
func CallbackAddr() string { return Get("CALLBACK_ADDR", defaultCallbackAddr) }

// DaemonAddr is the listen address for the background daemon HTTP server.
func DaemonAddr() string { return Get("DAEMON_ADDR", defaultDaemonAddr) }

// ── Storage ──────────────────────────────────────────────────────────────────

func StorageDisk() string { return Get("STORAGE_DISK", defaultStorageDisk) }

func StorageLocalRoot() string {
	return Get("STORAGE_LOCAL_ROOT", filepath.Join(Home(), "exports"))
}

func StorageS3Bucket() string   { return Get("S3_BUCKET", "") }
func StorageS3Region() string   { return Get("S3_REGION", "us-east-1") }
func StorageS3Key() string      { return Get("S3_KEY", "") }
func StorageS3Secret() string   { return Get("S3_SECRET", "") }
func StorageS3Endpoint() string { return Get("S3_ENDPOINT", "") }
func StorageS3URL() string      { return Get("S3_URL", "") }
