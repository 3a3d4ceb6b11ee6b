// Package kvstore is the durable client-side key-value store.
//
// Two keys matter to the application: "session" and "cart". Each is written
// on every state change and read back once at startup when the stores
// hydrate. Two drivers exist: "sqlite" (default, a single file under the
// Bazario home directory) and "file" (one JSON file per key, handy in tests
// and on systems without cgo).
package kvstore

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/shashiranjanraj/bazario/config"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a durable key-value persistence mechanism.
type Store interface {
	Put(key string, value []byte) error
	Get(key string) ([]byte, error)
	Delete(key string) error
	Close() error
}

// Open returns the configured Store rooted in the Bazario home directory.
func Open() (Store, error) {
	switch config.KVDriver() {
	case "file":
		return OpenFile(filepath.Join(config.Home(), "store"))
	case "sqlite":
		return OpenSQLite(filepath.Join(config.Home(), "bazario.db"))
	default:
		return nil, fmt.Errorf("kvstore: unknown driver %q", config.KVDriver())
	}
}
