package storage

import (
	"fmt"
	"sync"

	"github.com/shashiranjanraj/bazario/config"
	"github.com/shashiranjanraj/bazario/pkg/logger"
)

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk string
)

// Connect boots the storage manager. Call once at application startup.
func Connect() {
	managerMu.Lock()
	defer managerMu.Unlock()

	defaultDisk = config.StorageDisk()

	// Always boot the local disk.
	disks["local"] = newLocalDisk()

	// Boot the S3 disk only if a bucket is configured.
	if config.StorageS3Bucket() != "" {
		d, err := newS3Disk()
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			disks["s3"] = d
		}
	}
}

// Use returns the named disk ("local" or "s3").
//
//	storage.Use("s3").Put("exports/products.csv", data)
func Use(name string) (Disk, error) {
	managerMu.RLock()
	d, ok := disks[name]
	managerMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// RegisterDisk plugs in a custom Disk implementation (tests use this).
func RegisterDisk(name string, d Disk) {
	managerMu.Lock()
	disks[name] = d
	managerMu.Unlock()
}

// Default returns the disk selected by STORAGE_DISK.
func Default() (Disk, error) {
	managerMu.RLock()
	name := defaultDisk
	managerMu.RUnlock()
	if name == "" {
		name = "local"
	}
	return Use(name)
}
